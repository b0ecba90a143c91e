package pipeline

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrCalloutTransform indicates the callout stage could not process the HTML.
var ErrCalloutTransform = errors.New("callout transform failed")

// calloutHeader matches "[!type]", an optional fold marker and an optional title.
var calloutHeader = regexp.MustCompile(`^\[!([a-zA-Z0-9_-]+)\]([+-])?\s*(.*)$`)

// CalloutTransformer rewrites callout quote blocks.
type CalloutTransformer interface {
	TransformCallouts(ctx context.Context, htmlContent string) (string, error)
}

// CalloutTransformation turns "> [!type] title" quote blocks into single-cell
// tables carrying the type's theme as inline styles. Quote blocks without a
// callout header are left alone.
type CalloutTransformation struct{}

// callout is what a quote block's header line resolves to.
type callout struct {
	kind  CalloutType
	title string
}

// TransformCallouts replaces every callout quote block in htmlContent.
// When no quote block is a callout the input is returned unchanged.
func (t *CalloutTransformation) TransformCallouts(ctx context.Context, htmlContent string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	root, err := parseFragment(htmlContent)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCalloutTransform, err)
	}

	// Collected up front: replacing a block moves nested ones, it never frees them.
	var quotes []*html.Node
	goquery.NewDocumentFromNode(root).Find("blockquote").Each(func(_ int, s *goquery.Selection) {
		quotes = append(quotes, s.Get(0))
	})

	changed := false
	for _, bq := range quotes {
		c, ok := extractCallout(bq)
		if !ok {
			continue
		}
		replaceWithContainer(bq, c)
		changed = true
	}
	if !changed {
		return htmlContent, nil
	}

	out, err := renderFragment(root)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCalloutTransform, err)
	}
	return out, nil
}

// extractCallout reads the header from the first paragraph of bq and strips
// it. bq is untouched when it is not a callout.
func extractCallout(bq *html.Node) (callout, bool) {
	first := firstChildElement(bq, atom.P)
	if first == nil {
		return callout{}, false
	}

	m := calloutHeader.FindStringSubmatch(strings.TrimSpace(firstLineText(first)))
	if m == nil {
		return callout{}, false
	}

	kind := CanonicalCalloutType(strings.ToLower(m[1]))
	title := strings.TrimSpace(m[3])
	if title == "" {
		title = kind.DefaultTitle()
	}

	br := firstBreak(first)
	if br == nil {
		bq.RemoveChild(first)
		return callout{kind: kind, title: title}, true
	}
	for first.FirstChild != br {
		first.RemoveChild(first.FirstChild)
	}
	first.RemoveChild(br)
	if isBlank(first) {
		bq.RemoveChild(first)
	}
	return callout{kind: kind, title: title}, true
}

// replaceWithContainer swaps bq for a table > tbody > tr > td holding a
// title paragraph followed by bq's remaining children in order.
func replaceWithContainer(bq *html.Node, c callout) {
	theme := c.kind.Theme()

	table := newElement(atom.Table)
	setAttr(table, "data-callout", string(c.kind))
	setStyles(table,
		styleDecl{prop: "width", value: "100%"},
		styleDecl{prop: "margin", value: "20px 0"},
		styleDecl{prop: "border-collapse", value: "collapse"},
		styleDecl{prop: "border-spacing", value: "0"},
	)
	tbody := newElement(atom.Tbody)
	tr := newElement(atom.Tr)
	td := newElement(atom.Td)
	setStyles(td,
		styleDecl{prop: "border-left", value: "4px solid " + theme.BorderColor},
		styleDecl{prop: "background", value: theme.Background},
		styleDecl{prop: "padding", value: "12px 16px"},
		styleDecl{prop: "border-radius", value: "8px"},
	)

	titleP := newElement(atom.P)
	setStyles(titleP,
		styleDecl{prop: "margin", value: "0 0 10px 0"},
		styleDecl{prop: "color", value: theme.TitleColor},
		styleDecl{prop: "font-size", value: "15px"},
		styleDecl{prop: "font-weight", value: "700"},
		styleDecl{prop: "line-height", value: "1.6"},
	)
	titleP.AppendChild(&html.Node{Type: html.TextNode, Data: c.title})
	td.AppendChild(titleP)

	var lastP *html.Node
	for child := bq.FirstChild; child != nil; {
		next := child.NextSibling
		bq.RemoveChild(child)
		if isElement(child, atom.P) {
			setStyles(child,
				styleDecl{prop: "margin", value: "0 0 12px 0"},
				styleDecl{prop: "color", value: "#333"},
				styleDecl{prop: "font-size", value: "16px"},
				styleDecl{prop: "font-weight", value: "400"},
				styleDecl{prop: "line-height", value: "1.9"},
			)
			lastP = child
		}
		td.AppendChild(child)
		child = next
	}
	if lastP != nil {
		setStyles(lastP, styleDecl{prop: "margin", value: "0"})
	}

	tr.AppendChild(td)
	tbody.AppendChild(tr)
	table.AppendChild(tbody)
	bq.Parent.InsertBefore(table, bq)
	bq.Parent.RemoveChild(bq)
}

func firstChildElement(n *html.Node, a atom.Atom) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isElement(c, a) {
			return c
		}
	}
	return nil
}

func firstBreak(p *html.Node) *html.Node {
	return firstChildElement(p, atom.Br)
}

// firstLineText is the text of p up to its first <br>.
func firstLineText(p *html.Node) string {
	var sb strings.Builder
	for c := p.FirstChild; c != nil; c = c.NextSibling {
		if isElement(c, atom.Br) {
			break
		}
		sb.WriteString(textContent(c))
	}
	return sb.String()
}

// isBlank reports whether p has no text and no elements besides <br>.
// An image on the line after the header keeps its paragraph.
func isBlank(p *html.Node) bool {
	if strings.TrimSpace(textContent(p)) != "" {
		return false
	}
	var hasContent bool
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil && !hasContent; c = c.NextSibling {
			if c.Type == html.ElementNode && c.DataAtom != atom.Br {
				hasContent = true
				return
			}
			walk(c)
		}
	}
	walk(p)
	return !hasContent
}
