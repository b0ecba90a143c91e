package md2wechat

import (
	"time"

	"github.com/charmbracelet/log"
)

// Input contains conversion parameters.
type Input struct {
	Markdown   string // Markdown content (required)
	SourcePath string // path of the note, for resolving relative image links (optional)
	CSS        string // extra CSS appended after the style (optional)
	Sanitize   bool   // strip unsafe raw HTML before transforming
	Preview    bool   // also render a PNG preview (requires Chrome)
}

// ConvertResult holds the output of a conversion.
type ConvertResult struct {
	HTML       string // inline-styled HTML, no <style> element
	Text       string // plain-text flavour for the clipboard: the original Markdown
	PreviewPNG []byte // set when Input.Preview is true
}

// Preview width bounds in CSS pixels. 677 is the article column width of the
// target editor.
const (
	DefaultPreviewWidth = 677
	MinPreviewWidth     = 240
	MaxPreviewWidth     = 1920
)

// defaultTimeout bounds browser work for previews.
const defaultTimeout = 30 * time.Second

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout          time.Duration
	styleInput       string // name, path or CSS from WithStyle
	stylesheet       *string
	resolvedStyle    string
	assetPath        string
	highlightStyle   string
	imageConcurrency int
	previewWidth     int
	vaultRoot        string
	sanitize         bool
}

// WithTimeout sets the timeout for browser operations.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("md2wechat: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithStyle sets the base stylesheet. The value can be:
//   - a style name ("wechat"), loaded via the asset loader
//   - a file path ("./brand.css" or "/abs/style.css")
//   - CSS text (anything containing "{")
//
// Without WithStyle or WithStylesheet the built-in "wechat" style is used.
func WithStyle(style string) Option {
	return func(c *Converter) {
		c.cfg.styleInput = style
	}
}

// WithStylesheet sets the base stylesheet to css verbatim, even when empty.
// It is how a stored custom stylesheet is applied. Takes precedence over
// WithStyle.
func WithStylesheet(css string) Option {
	return func(c *Converter) {
		c.cfg.stylesheet = &css
	}
}

// WithAssetPath sets a directory whose styles/{name}.css files override the
// built-in styles.
func WithAssetPath(path string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = path
	}
}

// WithAssetLoader sets a custom AssetLoader for style names.
// Takes precedence over WithAssetPath.
func WithAssetLoader(loader AssetLoader) Option {
	return func(c *Converter) {
		c.publicAssetLoader = loader
	}
}

// WithLogger sets the logger for warnings and debug stage timing.
func WithLogger(logger *log.Logger) Option {
	return func(c *Converter) {
		c.logger = logger
	}
}

// WithFileResolver sets how image links are found and read.
// Takes precedence over WithVaultRoot.
func WithFileResolver(resolver FileResolver) Option {
	return func(c *Converter) {
		c.fileResolver = resolver
	}
}

// WithVaultRoot resolves image links inside a notes vault: relative to the
// note, then to the root, then by file name anywhere in the vault.
func WithVaultRoot(root string) Option {
	return func(c *Converter) {
		c.cfg.vaultRoot = root
	}
}

// WithHighlightStyle sets the chroma style for code blocks (default "github").
func WithHighlightStyle(name string) Option {
	return func(c *Converter) {
		c.cfg.highlightStyle = name
	}
}

// WithImageConcurrency bounds concurrent image reads per document.
// Values <= 0 select the default.
func WithImageConcurrency(n int) Option {
	return func(c *Converter) {
		c.cfg.imageConcurrency = n
	}
}

// WithSanitize strips unsafe raw HTML from every conversion, as if
// Input.Sanitize were always set.
func WithSanitize(enabled bool) Option {
	return func(c *Converter) {
		c.cfg.sanitize = enabled
	}
}

// WithClipboard sets the clipboard used by ConvertAndCopy.
func WithClipboard(w ClipboardWriter) Option {
	return func(c *Converter) {
		c.clipboard = w
	}
}

// WithPreviewWidth sets the preview viewport width in CSS pixels.
// Zero selects DefaultPreviewWidth.
func WithPreviewWidth(px int) Option {
	return func(c *Converter) {
		c.cfg.previewWidth = px
	}
}
