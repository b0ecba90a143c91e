package md2wechat

import (
	"errors"

	"github.com/alnah/go-md2wechat/internal/clipboard"
	"github.com/alnah/go-md2wechat/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrEmptyMarkdown = errors.New("markdown content cannot be empty")

	// Pipeline stage errors.
	ErrHTMLConversion   = pipeline.ErrHTMLConversion
	ErrCalloutTransform = pipeline.ErrCalloutTransform
	ErrImageEmbed       = pipeline.ErrImageEmbed
	ErrCSSInline        = pipeline.ErrCSSInline

	// ErrFileNotFound is what a FileResolver returns when a link matches
	// nothing. The image stage logs it and leaves the image unchanged.
	ErrFileNotFound = pipeline.ErrFileNotFound

	// Clipboard errors.
	ErrClipboardUnsupported = clipboard.ErrUnsupported
	ErrClipboardWrite       = clipboard.ErrWrite

	// Preview errors.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPreviewCapture = errors.New("preview capture failed")

	// Option validation errors.
	ErrInvalidHighlightStyle = errors.New("invalid highlight style")
	ErrInvalidPreviewWidth   = errors.New("invalid preview width")
	ErrInvalidVaultRoot      = errors.New("invalid vault root")

	// Asset loading errors.
	ErrStyleNotFound    = errors.New("style not found")
	ErrInvalidAssetPath = errors.New("invalid asset path")
)
