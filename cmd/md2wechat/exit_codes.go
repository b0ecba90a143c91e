package main

import (
	"errors"
	"os"

	md2wechat "github.com/alnah/go-md2wechat"
	"github.com/alnah/go-md2wechat/internal/config"
)

// Exit codes for md2wechat CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess   = 0 // Successful conversion
	ExitGeneral   = 1 // General/unexpected error
	ExitUsage     = 2 // Invalid flags, config, or validation
	ExitIO        = 3 // File not found, permission denied
	ExitBrowser   = 4 // Preview browser errors
	ExitClipboard = 5 // No clipboard tool, or the write failed
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, md2wechat.ErrClipboardUnsupported) ||
		errors.Is(err, md2wechat.ErrClipboardWrite) {
		return ExitClipboard
	}

	if errors.Is(err, md2wechat.ErrBrowserConnect) ||
		errors.Is(err, md2wechat.ErrPageCreate) ||
		errors.Is(err, md2wechat.ErrPageLoad) ||
		errors.Is(err, md2wechat.ErrPreviewCapture) {
		return ExitBrowser
	}

	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrFieldOutOfRange) ||
		errors.Is(err, config.ErrSettingsParse) ||
		errors.Is(err, md2wechat.ErrEmptyMarkdown) ||
		errors.Is(err, md2wechat.ErrInvalidHighlightStyle) ||
		errors.Is(err, md2wechat.ErrInvalidPreviewWidth) ||
		errors.Is(err, md2wechat.ErrInvalidVaultRoot) ||
		errors.Is(err, md2wechat.ErrStyleNotFound) ||
		errors.Is(err, md2wechat.ErrInvalidAssetPath) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidTimeout) {
		return ExitUsage
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadMarkdown) ||
		errors.Is(err, ErrReadCSS) ||
		errors.Is(err, ErrWriteHTML) ||
		errors.Is(err, ErrWritePreview) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	return ExitGeneral
}
