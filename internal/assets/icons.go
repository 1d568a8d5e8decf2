// Package assets resolves shop icon keys to image bytes.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is used when a non-positive cache size is given.
const DefaultCacheSize = 64

var extensions = []string{".png", ".webp", ".svg"}

// Icon is a resolved image.
type Icon struct {
	Data        []byte
	ContentType string
}

// Resolver looks icons up in a file system, keeping recently used ones in
// memory. Unknown keys resolve to nothing.
type Resolver struct {
	fsys   fs.FS
	cache  *lru.Cache[string, Icon]
	logger *slog.Logger
}

func NewResolver(fsys fs.FS, size int, logger *slog.Logger) (*Resolver, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, Icon](size)
	if err != nil {
		return nil, fmt.Errorf("creating icon cache: %w", err)
	}
	return &Resolver{fsys: fsys, cache: cache, logger: logger}, nil
}

// Icon returns the image for key.
func (r *Resolver) Icon(key string) (Icon, bool) {
	if !validKey(key) || r.fsys == nil {
		return Icon{}, false
	}
	if icon, ok := r.cache.Get(key); ok {
		return icon, true
	}

	for _, ext := range extensions {
		data, err := fs.ReadFile(r.fsys, key+ext)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			r.logger.Warn("reading icon failed", "key", key, "error", err)
			return Icon{}, false
		}
		icon := Icon{Data: data, ContentType: contentType(ext)}
		r.cache.Add(key, icon)
		return icon, true
	}
	return Icon{}, false
}

// Cached reports how many icons are held in memory.
func (r *Resolver) Cached() int { return r.cache.Len() }

func validKey(key string) bool {
	if key == "" || strings.ContainsAny(key, `\`) {
		return false
	}
	return fs.ValidPath(key) && path.Ext(key) == ""
}

func contentType(ext string) string {
	switch ext {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	}
	return "application/octet-stream"
}
