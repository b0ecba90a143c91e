package pipeline

import "strings"

// ContentClass is the class of the wrapper element around converted content.
const ContentClass = "wechat-content"

// WrapContent wraps an HTML fragment in the content container with the
// stylesheet embedded as a <style> block, ready for CSSInliner:
//
//	<div class="wechat-content"><style>CSS</style>HTML</div>
func WrapContent(fragment, cssContent string) string {
	var sb strings.Builder
	sb.Grow(len(fragment) + len(cssContent) + 64)
	sb.WriteString(`<div class="` + ContentClass + `">`)
	if cssContent != "" {
		sb.WriteString("<style>")
		sb.WriteString(sanitizeCSS(cssContent))
		sb.WriteString("</style>")
	}
	sb.WriteString(fragment)
	sb.WriteString("</div>")
	return sb.String()
}

// sanitizeCSS escapes "</" so the stylesheet cannot close its <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
