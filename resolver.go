package md2wechat

import (
	"context"
	"errors"

	"github.com/alnah/go-md2wechat/internal/clipboard"
	"github.com/alnah/go-md2wechat/internal/pipeline"
	"github.com/alnah/go-md2wechat/internal/vault"
)

// FileResolver locates and reads the files an article links to.
// Resolve returns an error matching ErrFileNotFound when nothing matches.
type FileResolver = pipeline.FileResolver

// FileHandle identifies a file found by a FileResolver.
type FileHandle = pipeline.FileHandle

// ClipboardContent is one clipboard write: the HTML and plain-text flavours.
type ClipboardContent = clipboard.Content

// ClipboardWriter places content on the clipboard in one write.
type ClipboardWriter = clipboard.Writer

// NewClipboard returns the clipboard of the current platform. Its Write
// fails with ErrClipboardUnsupported when no clipboard tool is installed.
func NewClipboard() ClipboardWriter {
	return clipboard.New()
}

// NewVaultResolver creates a FileResolver over a notes vault. Links resolve
// relative to the linking note, then to root, then by file name anywhere
// under root, and never outside root. An empty root resolves only inside
// the linking note's directory, and nothing without a note.
//
// Returns ErrInvalidVaultRoot if root is set but not a directory.
func NewVaultResolver(root string) (FileResolver, error) {
	v, err := vault.New(root)
	if err != nil {
		return nil, wrapError(ErrInvalidVaultRoot, err)
	}
	return &vaultResolver{vault: v}, nil
}

// vaultResolver adapts internal vault files to FileHandle.
type vaultResolver struct {
	vault *vault.Vault
}

func (r *vaultResolver) Resolve(linkPath, fromDocument string) (FileHandle, error) {
	f, err := r.vault.Resolve(linkPath, fromDocument)
	if err != nil {
		if errors.Is(err, vault.ErrNotFound) {
			return FileHandle{}, wrapError(ErrFileNotFound, err)
		}
		return FileHandle{}, err
	}
	return FileHandle{Path: f.Path}, nil
}

func (r *vaultResolver) ReadBinary(ctx context.Context, file FileHandle) ([]byte, error) {
	return r.vault.ReadBinary(ctx, vault.File{Path: file.Path})
}

// Compile-time interface check.
var _ FileResolver = (*vaultResolver)(nil)
