package md2wechat

import (
	"errors"

	"github.com/alnah/go-md2wechat/internal/assets"
)

// DefaultStyle is the name of the built-in article style.
const DefaultStyle = assets.DefaultStyle

// AssetLoader defines the contract for loading CSS styles by name.
// Implementations may load from filesystem, embedded assets, a database, etc.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	LoadStyle(name string) (string, error)
}

// NewAssetLoader creates an AssetLoader for the given base path.
// If basePath is empty, returns a loader using only embedded styles.
// If basePath is set, {basePath}/styles/{name}.css takes precedence with
// fallback to the embedded styles.
//
// Returns ErrInvalidAssetPath if basePath is set but not a readable directory.
func NewAssetLoader(basePath string) (AssetLoader, error) {
	resolver, err := assets.NewAssetResolver(basePath)
	if err != nil {
		return nil, convertAssetError(err)
	}
	return &assetLoaderAdapter{resolver: resolver}, nil
}

// Styles returns the names of the built-in styles.
func Styles() []string {
	return assets.ListStyles()
}

// DefaultCSS returns the built-in article stylesheet, the starting point for
// a custom stylesheet.
func DefaultCSS() string {
	return assets.DefaultCSS()
}

// CalloutCSS returns the stylesheet appended when the base stylesheet has no
// .wechat-callout rules.
func CalloutCSS() string {
	return assets.CalloutCSS()
}

// assetLoaderAdapter wraps internal AssetResolver to return public errors.
type assetLoaderAdapter struct {
	resolver *assets.AssetResolver
}

func (a *assetLoaderAdapter) LoadStyle(name string) (string, error) {
	content, err := a.resolver.LoadStyle(name)
	if err != nil {
		return "", convertAssetError(err)
	}
	return content, nil
}

// convertAssetError maps internal asset errors to public errors.
func convertAssetError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, assets.ErrStyleNotFound):
		return wrapError(ErrStyleNotFound, err)
	case errors.Is(err, assets.ErrInvalidAssetName):
		return wrapError(ErrStyleNotFound, err) // an invalid name cannot exist
	case errors.Is(err, assets.ErrInvalidBasePath), errors.Is(err, assets.ErrPathTraversal):
		return wrapError(ErrInvalidAssetPath, err)
	default:
		return err
	}
}

// wrapError creates an error with the original message that matches the
// public sentinel under errors.Is.
func wrapError(sentinel, original error) error {
	return &wrappedError{sentinel: sentinel, original: original}
}

type wrappedError struct {
	sentinel error
	original error
}

func (e *wrappedError) Error() string {
	return e.original.Error()
}

// Unwrap returns the public sentinel; internal errors stay hidden.
func (e *wrappedError) Unwrap() error {
	return e.sentinel
}
