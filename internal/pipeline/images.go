package pipeline

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"
)

// Sentinel errors for image embedding.
var (
	ErrImageEmbed   = errors.New("image embedding failed")
	ErrFileNotFound = errors.New("file not found")
)

// DefaultImageConcurrency bounds concurrent image reads per document.
const DefaultImageConcurrency = 8

// FileHandle identifies a file found by a FileResolver.
type FileHandle struct {
	Path string
}

// Extension returns the lowercase extension without the dot.
func (h FileHandle) Extension() string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(h.Path), "."))
}

// FileResolver locates and reads files referenced by a document.
type FileResolver interface {
	// Resolve finds linkPath as referenced from the document at fromDocument.
	// Returns ErrFileNotFound when nothing matches.
	Resolve(linkPath, fromDocument string) (FileHandle, error)

	// ReadBinary returns the content of a resolved file.
	ReadBinary(ctx context.Context, file FileHandle) ([]byte, error)
}

// ImageEmbedder replaces local image sources with data URIs.
type ImageEmbedder interface {
	EmbedImages(ctx context.Context, htmlContent, sourcePath string) (string, error)
}

// ImageEmbedding embeds local images through a FileResolver. A missing or
// unreadable image is logged and keeps its original src; it never fails
// the document.
type ImageEmbedding struct {
	resolver FileResolver
	logger   *log.Logger
	limit    int
}

// NewImageEmbedding creates an ImageEmbedding. A limit <= 0 selects
// DefaultImageConcurrency.
func NewImageEmbedding(resolver FileResolver, logger *log.Logger, limit int) *ImageEmbedding {
	if limit <= 0 {
		limit = DefaultImageConcurrency
	}
	return &ImageEmbedding{resolver: resolver, logger: logger, limit: limit}
}

// EmbedImages resolves every local <img src> relative to sourcePath and
// rewrites it as data:<mime>;base64,<data>. Network (http...) and data:
// sources are skipped. All images are attempted before it returns.
func (e *ImageEmbedding) EmbedImages(ctx context.Context, htmlContent, sourcePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	root, err := parseFragment(htmlContent)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrImageEmbed, err)
	}

	var imgs []*html.Node
	var srcs []string
	goquery.NewDocumentFromNode(root).Find("img").Each(func(_ int, s *goquery.Selection) {
		src, ok := s.Attr("src")
		if !ok || src == "" || strings.HasPrefix(src, "http") || strings.HasPrefix(src, "data:") {
			return
		}
		imgs = append(imgs, s.Get(0))
		srcs = append(srcs, src)
	})
	if len(imgs) == 0 {
		return htmlContent, nil
	}

	// Each task writes only its own slot; nothing returns an error, so one
	// failure cannot cancel the others.
	uris := make([]string, len(imgs))
	var g errgroup.Group
	g.SetLimit(e.limit)
	for i, src := range srcs {
		g.Go(func() error {
			uris[i] = e.embed(ctx, src, sourcePath)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	for i, img := range imgs {
		if uris[i] != "" {
			setAttr(img, "src", uris[i])
		}
	}

	out, err := renderFragment(root)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrImageEmbed, err)
	}
	return out, nil
}

// embed returns the data URI for src, or "" when the image is left as is.
func (e *ImageEmbedding) embed(ctx context.Context, src, sourcePath string) string {
	if ctx.Err() != nil {
		return ""
	}

	decoded, err := url.PathUnescape(src)
	if err != nil {
		e.warn("image embedding failed", "src", src, "err", err)
		return ""
	}

	file, err := e.resolver.Resolve(decoded, sourcePath)
	if err != nil {
		if errors.Is(err, ErrFileNotFound) {
			e.warn("image not found", "src", src, "path", decoded)
		} else {
			e.warn("image embedding failed", "src", src, "err", err)
		}
		return ""
	}

	data, err := e.resolver.ReadBinary(ctx, file)
	if err != nil {
		e.warn("image embedding failed", "src", src, "file", file.Path, "err", err)
		return ""
	}

	return "data:" + MIMEType(file.Extension()) + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func (e *ImageEmbedding) warn(msg string, keyvals ...any) {
	if e.logger != nil {
		e.logger.Warn(msg, keyvals...)
	}
}

// MIMEType maps an image extension (lowercase, no dot) to its MIME type.
// Unknown extensions map to image/jpeg.
func MIMEType(ext string) string {
	switch ext {
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	case "svg":
		return "image/svg+xml"
	default: // jpg, jpeg, anything else
		return "image/jpeg"
	}
}
