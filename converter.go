package md2wechat

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/log"

	"github.com/alnah/go-md2wechat/internal/assets"
	"github.com/alnah/go-md2wechat/internal/fileutil"
	"github.com/alnah/go-md2wechat/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.CommonMarkPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.HTMLSanitizer        = (*pipeline.UGCSanitizer)(nil)
	_ pipeline.CalloutTransformer   = (*pipeline.CalloutTransformation)(nil)
	_ pipeline.ImageEmbedder        = (*pipeline.ImageEmbedding)(nil)
	_ pipeline.CSSInliner           = (*pipeline.CSSInlining)(nil)
)

// calloutSelector marks a stylesheet that styles callouts itself.
const calloutSelector = ".wechat-callout"

// Converter orchestrates the Markdown to inline-styled HTML pipeline.
// Create with NewConverter(), use Convert() or ConvertAndCopy(), and Close()
// when done.
type Converter struct {
	cfg               converterConfig
	logger            *log.Logger
	assetLoader       assets.AssetLoader
	publicAssetLoader AssetLoader
	fileResolver      FileResolver
	clipboard         ClipboardWriter
	preprocessor      pipeline.MarkdownPreprocessor
	htmlConverter     pipeline.HTMLConverter
	sanitizer         pipeline.HTMLSanitizer
	calloutTransform  pipeline.CalloutTransformer
	imageEmbedder     pipeline.ImageEmbedder
	cssInliner        pipeline.CSSInliner
	previewer         previewer
}

// publicToInternalAdapter wraps public AssetLoader to internal assets.AssetLoader.
type publicToInternalAdapter struct {
	pub AssetLoader
}

func (a *publicToInternalAdapter) LoadStyle(name string) (string, error) {
	return a.pub.LoadStyle(name)
}

// NewConverter creates a Converter with default configuration.
// Use options to customize behavior (e.g., WithStyle, WithVaultRoot).
// Returns error if an option is invalid or the style cannot be loaded.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			timeout:      defaultTimeout,
			previewWidth: DefaultPreviewWidth,
		},
		assetLoader:  assets.NewEmbeddedLoader(),
		preprocessor: &pipeline.CommonMarkPreprocessor{},
		cssInliner:   &pipeline.CSSInlining{},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = log.NewWithOptions(os.Stderr, log.Options{Level: log.WarnLevel})
	}

	if err := c.validateConfig(); err != nil {
		return nil, err
	}

	// Handle WithAssetPath: resolve to internal loader
	if c.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		c.assetLoader = resolver
	}

	// Handle WithAssetLoader (public interface): wrap to internal interface
	if c.publicAssetLoader != nil {
		c.assetLoader = &publicToInternalAdapter{pub: c.publicAssetLoader}
	}

	if err := c.resolveStyle(); err != nil {
		return nil, err
	}

	if c.fileResolver == nil {
		resolver, err := NewVaultResolver(c.cfg.vaultRoot)
		if err != nil {
			return nil, err
		}
		c.fileResolver = resolver
	}

	// Components not injected by tests
	if c.htmlConverter == nil {
		c.htmlConverter = pipeline.NewGoldmarkConverter(c.cfg.highlightStyle)
	}
	if c.sanitizer == nil {
		c.sanitizer = pipeline.NewUGCSanitizer()
	}
	if c.calloutTransform == nil {
		c.calloutTransform = &pipeline.CalloutTransformation{}
	}
	if c.imageEmbedder == nil {
		c.imageEmbedder = pipeline.NewImageEmbedding(c.fileResolver, c.logger, c.cfg.imageConcurrency)
	}
	if c.clipboard == nil {
		c.clipboard = NewClipboard()
	}
	if c.previewer == nil {
		c.previewer = newRodPreviewer(c.cfg.timeout)
	}

	return c, nil
}

// validateConfig checks option values that cannot be checked when set.
func (c *Converter) validateConfig() error {
	if name := c.cfg.highlightStyle; name != "" {
		if _, ok := styles.Registry[name]; !ok {
			return fmt.Errorf("%w: %q", ErrInvalidHighlightStyle, name)
		}
	}
	if c.cfg.previewWidth == 0 {
		c.cfg.previewWidth = DefaultPreviewWidth
	}
	if w := c.cfg.previewWidth; w < MinPreviewWidth || w > MaxPreviewWidth {
		return fmt.Errorf("%w: %d (must be between %d and %d)", ErrInvalidPreviewWidth, w, MinPreviewWidth, MaxPreviewWidth)
	}
	return nil
}

// Convert runs the full pipeline and returns inline-styled HTML.
// Missing images are logged and left as they are; any other stage failure
// aborts the conversion. Recovers from internal panics to prevent crashes
// from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := c.validateInput(input); err != nil {
		return nil, err
	}

	// Preprocess markdown
	start := time.Now()
	mdContent := c.preprocessor.PreprocessMarkdown(ctx, input.Markdown)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	start = c.logStage("preprocess", start)

	// Convert to HTML
	htmlContent, err := c.htmlConverter.ToHTML(ctx, mdContent)
	if err != nil {
		return nil, fmt.Errorf("converting to HTML: %w", err)
	}

	// Completes the ==text== feature started in preprocessing.
	htmlContent = pipeline.ConvertMarkPlaceholders(htmlContent)

	if input.Sanitize || c.cfg.sanitize {
		htmlContent = c.sanitizer.Sanitize(htmlContent)
	}
	start = c.logStage("render", start)

	htmlContent, err = c.calloutTransform.TransformCallouts(ctx, htmlContent)
	if err != nil {
		return nil, fmt.Errorf("transforming callouts: %w", err)
	}
	start = c.logStage("callouts", start)

	htmlContent, err = c.imageEmbedder.EmbedImages(ctx, htmlContent, input.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("embedding images: %w", err)
	}
	start = c.logStage("images", start)

	// Base style first, user CSS last so it can override
	wrapped := pipeline.WrapContent(htmlContent, c.renderCSS(input.CSS))
	htmlContent, err = c.cssInliner.InlineCSS(ctx, wrapped, "")
	if err != nil {
		return nil, fmt.Errorf("inlining CSS: %w", err)
	}
	start = c.logStage("inline", start)

	res := &ConvertResult{
		HTML: htmlContent,
		Text: input.Markdown,
	}

	if input.Preview {
		png, err := c.previewer.Screenshot(ctx, htmlContent, c.cfg.previewWidth)
		if err != nil {
			return nil, fmt.Errorf("rendering preview: %w", err)
		}
		res.PreviewPNG = png
		c.logStage("preview", start)
	}

	return res, nil
}

// ConvertAndCopy converts input and places the HTML and the original
// Markdown on the clipboard in one write. Nothing is copied when conversion
// fails. The result is returned even when the clipboard write fails.
func (c *Converter) ConvertAndCopy(ctx context.Context, input Input) (*ConvertResult, error) {
	res, err := c.Convert(ctx, input)
	if err != nil {
		return nil, err
	}

	if err := c.clipboard.Write(ctx, ClipboardContent{HTML: res.HTML, Text: res.Text}); err != nil {
		return res, fmt.Errorf("copying to clipboard: %w", err)
	}
	return res, nil
}

// Close releases resources (headless Chrome browser, if a preview ran).
func (c *Converter) Close() error {
	if c.previewer != nil {
		return c.previewer.Close()
	}
	return nil
}

// renderCSS assembles the stylesheet for one conversion: base style, the
// callout fallback when the base style has no callout rules, then extra CSS.
func (c *Converter) renderCSS(extra string) string {
	var sb strings.Builder
	sb.WriteString(c.cfg.resolvedStyle)
	if !strings.Contains(c.cfg.resolvedStyle, calloutSelector) {
		sb.WriteString("\n")
		sb.WriteString(assets.CalloutCSS())
	}
	if extra != "" {
		sb.WriteString("\n")
		sb.WriteString(extra)
	}
	return sb.String()
}

// resolveStyle resolves the style input (stylesheet, name, path, or CSS
// content) to CSS content. Called after options are applied and the asset
// loader is configured.
func (c *Converter) resolveStyle() error {
	if c.cfg.stylesheet != nil {
		c.cfg.resolvedStyle = *c.cfg.stylesheet
		return nil
	}

	input := c.cfg.styleInput
	if input == "" {
		input = DefaultStyle
	}

	// File path? (contains / or \)
	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("loading style file %q: %w", input, err)
		}
		c.cfg.resolvedStyle = string(content)
		return nil
	}

	// CSS content? (contains {)
	if fileutil.IsCSS(input) {
		c.cfg.resolvedStyle = input
		return nil
	}

	// Style name -> use asset loader
	css, err := c.assetLoader.LoadStyle(input)
	if err != nil {
		return fmt.Errorf("loading style %q: %w", input, convertAssetError(err))
	}
	c.cfg.resolvedStyle = css
	return nil
}

// validateInput checks that required fields are present.
func (c *Converter) validateInput(input Input) error {
	if strings.TrimSpace(input.Markdown) == "" {
		return ErrEmptyMarkdown
	}
	return nil
}

// logStage logs the time spent since start at debug level and returns now.
func (c *Converter) logStage(stage string, start time.Time) time.Time {
	now := time.Now()
	c.logger.Debug("stage done", "stage", stage, "elapsed", now.Sub(start))
	return now
}
