// Package vault resolves file links the way a notes vault does: relative to
// the linking document, then relative to the vault root, then by file name
// anywhere in the vault.
package vault

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Sentinel errors for vault lookups.
var (
	ErrNotFound     = errors.New("file not found in vault")
	ErrInvalidRoot  = errors.New("invalid vault root")
	ErrFileTooLarge = errors.New("file too large")
	ErrRead         = errors.New("failed to read vault file")
)

// MaxFileSize caps the size of a file returned by ReadBinary.
const MaxFileSize = 32 << 20

// File is a resolved vault file.
type File struct {
	Path string // absolute, symlinks resolved
	Rel  string // slash-separated path from the vault root; empty without a root
}

// Extension returns the lowercase extension without the dot.
func (f File) Extension() string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(f.Path), "."))
}

// Vault resolves links inside a root directory. A Vault without a root only
// resolves links inside the linking document's directory.
type Vault struct {
	root string

	mu      sync.Mutex
	index   map[string][]string // file name -> vault-relative paths, shortest first
	indexed bool
}

// New creates a Vault rooted at root. An empty root creates a root-less vault.
// Returns ErrInvalidRoot if root is set but is not a readable directory.
func New(root string) (*Vault, error) {
	if root == "" {
		return &Vault{}, nil
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRoot, err)
	}
	if realRoot, err := filepath.EvalSymlinks(absRoot); err == nil {
		absRoot = realRoot
	}

	info, err := os.Stat(absRoot)
	switch {
	case os.IsNotExist(err):
		return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidRoot, absRoot)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidRoot, err)
	case !info.IsDir():
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidRoot, absRoot)
	}

	return &Vault{root: absRoot}, nil
}

// Resolve finds linkPath as referenced from the document at fromDocument.
// Candidates, first match wins:
//  1. linkPath itself when absolute
//  2. relative to the directory of fromDocument
//  3. relative to the vault root
//  4. any file in the vault with the same name, shortest path first
//
// A candidate that resolves, symlinks included, outside the root is ignored.
// Without a root the directory of fromDocument takes its place, and nothing
// resolves without a document.
// Returns ErrNotFound when nothing matches.
func (v *Vault) Resolve(linkPath, fromDocument string) (File, error) {
	link := strings.TrimSpace(linkPath)
	if link == "" || strings.ContainsRune(link, 0) {
		return File{}, fmt.Errorf("%w: %q", ErrNotFound, linkPath)
	}
	link = filepath.FromSlash(link)

	base := v.root
	if base == "" {
		base = documentDir(fromDocument)
		if base == "" {
			return File{}, fmt.Errorf("%w: %q", ErrNotFound, linkPath)
		}
	}

	for _, candidate := range v.candidates(link, fromDocument) {
		if f, ok := v.lookup(candidate, base); ok {
			return f, nil
		}
	}

	if v.root != "" {
		if f, ok := v.searchName(filepath.Base(link)); ok {
			return f, nil
		}
	}

	return File{}, fmt.Errorf("%w: %q", ErrNotFound, linkPath)
}

func (v *Vault) candidates(link, fromDocument string) []string {
	var out []string
	if filepath.IsAbs(link) {
		out = append(out, filepath.Clean(link))
	}
	if fromDocument != "" {
		if abs, err := filepath.Abs(fromDocument); err == nil {
			out = append(out, filepath.Join(filepath.Dir(abs), link))
		}
	}
	if v.root != "" {
		out = append(out, filepath.Join(v.root, link))
	}
	return out
}

// documentDir returns the real directory of the document at path, or ""
// when path is empty or cannot be made absolute.
func documentDir(path string) string {
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return ""
	}
	dir := filepath.Dir(abs)
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		dir = resolved
	}
	return dir
}

// lookup returns the regular file at path when it lies inside base.
func (v *Vault) lookup(path, base string) (File, bool) {
	realPath, err := filepath.EvalSymlinks(path)
	if err != nil {
		return File{}, false
	}
	info, err := os.Stat(realPath)
	if err != nil || !info.Mode().IsRegular() {
		return File{}, false
	}

	rel, ok := relative(base, realPath)
	if !ok {
		return File{}, false
	}
	if v.root == "" {
		return File{Path: realPath}, true
	}
	return File{Path: realPath, Rel: rel}, true
}

// relative returns path relative to base, or false when it escapes it.
func relative(base, path string) (string, bool) {
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func (v *Vault) searchName(name string) (File, bool) {
	if name == "" || name == "." || name == string(filepath.Separator) {
		return File{}, false
	}

	v.mu.Lock()
	if !v.indexed {
		v.index = v.buildIndex()
		v.indexed = true
	}
	matches := v.index[name]
	v.mu.Unlock()

	for _, rel := range matches {
		if f, ok := v.lookup(filepath.Join(v.root, filepath.FromSlash(rel)), v.root); ok {
			return f, true
		}
	}
	return File{}, false
}

// buildIndex walks the vault, skipping dot-directories such as .obsidian
// and .git. Unreadable directories are skipped.
func (v *Vault) buildIndex() map[string][]string {
	index := make(map[string][]string)
	_ = filepath.WalkDir(v.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != v.root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if rel, ok := relative(v.root, path); ok {
			index[d.Name()] = append(index[d.Name()], rel)
		}
		return nil
	})

	for _, rels := range index {
		sort.Slice(rels, func(i, j int) bool {
			di, dj := strings.Count(rels[i], "/"), strings.Count(rels[j], "/")
			if di != dj {
				return di < dj
			}
			return rels[i] < rels[j]
		})
	}
	return index
}

// ReadBinary returns the content of f.
func (v *Vault) ReadBinary(ctx context.Context, f File) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, f.Path)
		}
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("%w: %s (%d bytes, max %d)", ErrFileTooLarge, f.Path, info.Size(), MaxFileSize)
	}

	data, err := os.ReadFile(f.Path) // #nosec G304 -- path resolved by Resolve
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}
	return data, nil
}
