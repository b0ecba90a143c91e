// Package md2wechat converts Markdown notes to HTML that keeps its look when
// pasted into the WeChat Official Account editor, which drops stylesheets,
// classes and local image links.
//
// # Quick Start
//
// Create a converter, convert markdown, and close when done:
//
//	conv, err := md2wechat.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.ConvertAndCopy(ctx, md2wechat.Input{
//	    Markdown:   content,
//	    SourcePath: "/notes/posts/week-12.md",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// ConvertAndCopy places the HTML (result.HTML) and the original Markdown
// (result.Text) on the system clipboard in one write. Use Convert to get the
// result without touching the clipboard.
//
// # Conversion Pipeline
//
// The conversion process follows these stages:
//
//  1. Markdown preprocessing (line endings, ![[embed]] links, ==highlight==)
//  2. Markdown to HTML conversion via Goldmark (GFM, footnotes, hard line
//     breaks, code highlighting as inline styles)
//  3. Callout quote blocks ("> [!tip] Title") to styled single-cell tables
//  4. Local images embedded as base64 data URIs
//  5. The stylesheet inlined into style attributes; no <style> is left
//
// A missing image is logged and left as it is. Any other stage failure
// aborts the conversion and nothing is copied.
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv, err := md2wechat.NewConverter(
//	    md2wechat.WithVaultRoot("/notes"),
//	    md2wechat.WithStyle("./brand.css"),
//	    md2wechat.WithHighlightStyle("monokai"),
//	    md2wechat.WithLogger(logger),
//	)
//
// Per-conversion options are passed via Input:
//
//	result, err := conv.Convert(ctx, md2wechat.Input{
//	    Markdown:   content,
//	    SourcePath: "/notes/posts/week-12.md", // for relative image links
//	    CSS:        "h2 { color: #773098; }",  // appended after the style
//	    Sanitize:   true,                      // strip unsafe raw HTML
//	})
//
// # Images
//
// Image links resolve through a FileResolver. The default resolver looks
// relative to the note, then to the vault root, then for a file with the same
// name anywhere in the vault, and never outside the root. Supply your own with
// WithFileResolver.
//
// # Parallel Processing
//
// For batch conversion, use ConverterPool:
//
//	pool := md2wechat.NewConverterPool(4, md2wechat.WithVaultRoot("/notes"))
//	defer pool.Close()
//
//	conv, err := pool.Acquire()
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(conv)
//	result, err := conv.Convert(ctx, input)
//
// # Preview
//
// Input.Preview renders the final HTML in headless Chrome at the editor's
// column width (WithPreviewWidth) and returns a PNG in result.PreviewPNG.
// The go-rod library downloads a managed Chromium on first use. For
// containers and CI environments, set ROD_NO_SANDBOX=1 to disable the Chrome
// sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome binary.
//
// # Clipboard Requirements
//
// The clipboard is written through platform tools: osascript on macOS,
// PowerShell on Windows, wl-copy (Wayland) or xclip (X11) elsewhere. Without
// one, ConvertAndCopy fails with ErrClipboardUnsupported.
package md2wechat
