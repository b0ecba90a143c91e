package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"
)

// ErrCSSInline indicates the stylesheet or fragment could not be inlined.
var ErrCSSInline = errors.New("CSS inlining failed")

// CSSInliner flattens stylesheets into style attributes.
type CSSInliner interface {
	InlineCSS(ctx context.Context, htmlContent, cssContent string) (string, error)
}

// CSSInlining is a CSSInliner for the selector subset cascadia supports:
// type, class, id, attribute, descendant and child combinators, and
// structural pseudo-classes such as :last-child. At-rules, pseudo-elements
// and selectors cascadia rejects are skipped.
//
// Precedence per property: an existing inline declaration always wins; among
// stylesheet declarations !important beats normal, then higher specificity,
// then later source order.
type CSSInlining struct{}

// styleRule is one selector of a qualified rule with its declarations.
type styleRule struct {
	sel         cascadia.Sel
	specificity cascadia.Specificity
	order       int
	decls       []styleDecl
}

// InlineCSS removes every <style> block from htmlContent and writes the
// declarations of those blocks, followed by cssContent, into the style
// attribute of each matching element.
func (c *CSSInlining) InlineCSS(ctx context.Context, htmlContent, cssContent string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	root, err := parseFragment(htmlContent)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCSSInline, err)
	}
	doc := goquery.NewDocumentFromNode(root)

	var sheets []string
	blocks := doc.Find("style")
	blocks.Each(func(_ int, s *goquery.Selection) {
		sheets = append(sheets, s.Text())
	})
	blocks.Remove()
	sheets = append(sheets, cssContent)

	rules, err := parseRules(strings.Join(sheets, "\n"))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCSSInline, err)
	}

	if len(rules) > 0 {
		doc.Find("*").Each(func(_ int, s *goquery.Selection) {
			applyRules(s.Get(0), rules)
		})
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	out, err := renderFragment(root)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCSSInline, err)
	}
	return out, nil
}

// parseRules turns CSS text into one styleRule per selector, in source order.
func parseRules(cssText string) ([]styleRule, error) {
	if strings.TrimSpace(cssText) == "" {
		return nil, nil
	}

	sheet, err := parser.Parse(cssText)
	if err != nil {
		return nil, err
	}

	var rules []styleRule
	for _, rule := range sheet.Rules {
		if rule.Kind != css.QualifiedRule || len(rule.Declarations) == 0 {
			continue
		}

		decls := make([]styleDecl, 0, len(rule.Declarations))
		for _, d := range rule.Declarations {
			decls = append(decls, styleDecl{
				prop:      strings.ToLower(d.Property),
				value:     d.Value,
				important: d.Important,
			})
		}

		for _, selector := range rule.Selectors {
			sel, err := cascadia.Parse(selector)
			if err != nil || sel.PseudoElement() != "" {
				continue
			}
			rules = append(rules, styleRule{
				sel:         sel,
				specificity: sel.Specificity(),
				order:       len(rules),
				decls:       decls,
			})
		}
	}
	return rules, nil
}

// applied is a stylesheet declaration matched to an element.
type applied struct {
	decl        styleDecl
	specificity cascadia.Specificity
	order       int
}

func (a applied) less(b applied) bool {
	if a.decl.important != b.decl.important {
		return !a.decl.important
	}
	if a.specificity != b.specificity {
		return a.specificity.Less(b.specificity)
	}
	return a.order < b.order
}

// applyRules merges matching declarations into n's style attribute.
// The result lists winning declarations in ascending precedence, so a later
// longhand still overrides an earlier shorthand when a browser reads it.
func applyRules(n *html.Node, rules []styleRule) {
	var matched []applied
	for _, r := range rules {
		if !r.sel.Match(n) {
			continue
		}
		for _, d := range r.decls {
			matched = append(matched, applied{decl: d, specificity: r.specificity, order: r.order})
		}
	}
	if len(matched) == 0 {
		return
	}

	raw, hasStyle := getAttr(n, "style")
	existing, err := parseStyleAttr(raw)
	if err != nil {
		// Unreadable inline text goes last, unchanged, so it still wins.
		existing = nil
	}

	sort.SliceStable(matched, func(i, j int) bool { return matched[i].less(matched[j]) })

	var merged []styleDecl
	put := func(d styleDecl) {
		for i := range merged {
			if merged[i].prop == d.prop {
				merged = append(merged[:i], merged[i+1:]...)
				break
			}
		}
		merged = append(merged, d)
	}
	for _, m := range matched {
		d := m.decl
		d.important = false
		put(d)
	}
	for _, d := range existing {
		put(d)
	}

	if err != nil {
		setAttr(n, "style", joinStyle(formatStyle(merged), raw))
		return
	}
	if len(merged) == 0 && !hasStyle {
		return
	}
	setAttr(n, "style", formatStyle(merged))
}
