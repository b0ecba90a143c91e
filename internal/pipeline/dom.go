package pipeline

import (
	"regexp"
	"strings"

	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// parseFragment parses an HTML fragment in a <body> context and hangs the
// resulting nodes under a document node, so callers can walk and render it
// without an implied <html><head><body> wrapper.
func parseFragment(content string) (*html.Node, error) {
	body := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return nil, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, nil
}

// renderFragment renders the children of a container built by parseFragment.
func renderFragment(container *html.Node) (string, error) {
	var buf strings.Builder
	for c := container.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func isElement(n *html.Node, a atom.Atom) bool {
	return n != nil && n.Type == html.ElementNode && n.DataAtom == a
}

func newElement(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}

// textContent concatenates the text of n and its descendants, like the DOM property.
func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textContent(c))
	}
	return sb.String()
}

func getAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// styleDecl is one property: value pair of a style attribute.
type styleDecl struct {
	prop      string
	value     string
	important bool
}

var (
	styleComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
	emptyDecls   = regexp.MustCompile(`;(\s*;)+`)
)

// parseStyleAttr splits a style attribute into declarations, in order.
// Comments and empty declarations are dropped before parsing.
func parseStyleAttr(style string) ([]styleDecl, error) {
	style = styleComment.ReplaceAllString(style, "")
	style = emptyDecls.ReplaceAllString(style, ";")
	style = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(style), ";"))
	if style == "" {
		return nil, nil
	}
	// The declaration parser only closes a value on ";" or "}".
	if !strings.HasSuffix(style, ";") {
		style += ";"
	}
	parsed, err := parser.ParseDeclarations(style)
	if err != nil {
		return nil, err
	}
	decls := make([]styleDecl, 0, len(parsed))
	for _, d := range parsed {
		decls = append(decls, styleDecl{
			prop:      strings.ToLower(d.Property),
			value:     d.Value,
			important: d.Important,
		})
	}
	return decls, nil
}

// formatStyle serializes declarations as "prop: value;" pairs.
func formatStyle(decls []styleDecl) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		v := d.value
		if d.important {
			v += " !important"
		}
		parts = append(parts, d.prop+": "+v+";")
	}
	return strings.Join(parts, " ")
}

// joinStyle concatenates two style attribute texts; in a browser the
// declarations of after override those of before.
func joinStyle(before, after string) string {
	before = strings.TrimSpace(before)
	after = strings.TrimSpace(after)
	switch {
	case before == "":
		return after
	case after == "":
		return before
	}
	if !strings.HasSuffix(before, ";") {
		before += ";"
	}
	return before + " " + after
}

// setStyles sets properties on n's style attribute. A property already
// present keeps its position and takes the new value; new ones are appended.
// An unparseable existing attribute is kept verbatim ahead of decls.
func setStyles(n *html.Node, decls ...styleDecl) {
	raw, _ := getAttr(n, "style")
	current, err := parseStyleAttr(raw)
	if err != nil {
		setAttr(n, "style", joinStyle(raw, formatStyle(decls)))
		return
	}

	for _, d := range decls {
		replaced := false
		for i := range current {
			if current[i].prop == d.prop {
				current[i] = d
				replaced = true
				break
			}
		}
		if !replaced {
			current = append(current, d)
		}
	}
	setAttr(n, "style", formatStyle(current))
}
