package md2wechat

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNewVaultResolver(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "assets"), 0o750); err != nil {
		t.Fatal(err)
	}
	img := filepath.Join(root, "assets", "cat.jpg")
	if err := os.WriteFile(img, []byte("jpeg"), 0o600); err != nil {
		t.Fatal(err)
	}

	resolver, err := NewVaultResolver(root)
	if err != nil {
		t.Fatalf("NewVaultResolver() error = %v", err)
	}

	t.Run("found by name", func(t *testing.T) {
		t.Parallel()

		file, err := resolver.Resolve("cat.jpg", filepath.Join(root, "note.md"))
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if file.Extension() != "jpg" {
			t.Errorf("Extension() = %q, want jpg", file.Extension())
		}

		data, err := resolver.ReadBinary(context.Background(), file)
		if err != nil {
			t.Fatalf("ReadBinary() error = %v", err)
		}
		if string(data) != "jpeg" {
			t.Errorf("ReadBinary() = %q", data)
		}
	})

	t.Run("missing maps to ErrFileNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := resolver.Resolve("dog.jpg", filepath.Join(root, "note.md"))
		if !errors.Is(err, ErrFileNotFound) {
			t.Errorf("Resolve() error = %v, want ErrFileNotFound", err)
		}
	})

	t.Run("outside root is not found", func(t *testing.T) {
		t.Parallel()

		_, err := resolver.Resolve("../../etc/passwd", filepath.Join(root, "note.md"))
		if !errors.Is(err, ErrFileNotFound) {
			t.Errorf("Resolve() error = %v, want ErrFileNotFound", err)
		}
	})
}

func TestNewVaultResolver_InvalidRoot(t *testing.T) {
	t.Parallel()

	_, err := NewVaultResolver(filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, ErrInvalidVaultRoot) {
		t.Errorf("NewVaultResolver() error = %v, want ErrInvalidVaultRoot", err)
	}
}

func TestNewVaultResolver_Rootless(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "pic.png"), []byte("png"), 0o600); err != nil {
		t.Fatal(err)
	}

	resolver, err := NewVaultResolver("")
	if err != nil {
		t.Fatalf("NewVaultResolver(\"\") error = %v", err)
	}

	if _, err := resolver.Resolve("pic.png", filepath.Join(dir, "note.md")); err != nil {
		t.Errorf("Resolve() next to the note error = %v", err)
	}
	if _, err := resolver.Resolve("pic.png", ""); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Resolve() without a source error = %v, want ErrFileNotFound", err)
	}
}

func TestNewClipboard(t *testing.T) {
	t.Parallel()

	if NewClipboard() == nil {
		t.Fatal("NewClipboard() returned nil")
	}
}
