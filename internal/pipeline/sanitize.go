package pipeline

import "github.com/microcosm-cc/bluemonday"

// HTMLSanitizer removes unsafe markup from rendered HTML.
type HTMLSanitizer interface {
	Sanitize(htmlContent string) string
}

// UGCSanitizer applies bluemonday's user-generated-content policy, widened
// for what the renderer itself emits: inline highlight colors, <mark>,
// classes and embedded data: images.
type UGCSanitizer struct {
	policy *bluemonday.Policy
}

// NewUGCSanitizer builds the sanitizer policy.
func NewUGCSanitizer() *UGCSanitizer {
	p := bluemonday.UGCPolicy()
	p.AllowElements("mark")
	p.AllowAttrs("class").Globally()
	p.AllowStyles(
		"color", "background-color", "font-weight", "font-style",
		"text-decoration", "tab-size",
	).Globally()
	p.AllowDataURIImages()
	return &UGCSanitizer{policy: p}
}

// Sanitize returns htmlContent with disallowed elements and attributes removed.
func (s *UGCSanitizer) Sanitize(htmlContent string) string {
	return s.policy.Sanitize(htmlContent)
}
