package assets

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
)

// mimeSubtypes maps file extensions whose image MIME subtype differs from
// the extension itself.
var mimeSubtypes = map[string]string{
	"jpg": "jpeg",
	"svg": "svg+xml",
	"tif": "tiff",
}

// LogoOption configures a LogoResolver.
type LogoOption func(*LogoResolver)

// WithMaxWidth downscales raster logos wider than px before inlining.
// Zero or negative disables downscaling.
func WithMaxWidth(px int) LogoOption {
	return func(r *LogoResolver) {
		r.maxWidth = px
	}
}

// LogoResolver turns a logo file name into an inline data URI.
type LogoResolver struct {
	loader   *FilesystemLoader // nil resolves every name to ""
	maxWidth int

	mu    sync.RWMutex
	cache map[string]string
}

// NewLogoResolver creates a LogoResolver reading from dir.
// An empty dir yields a resolver that inlines nothing.
// Returns ErrInvalidBasePath if dir is set but not a readable directory.
func NewLogoResolver(dir string, opts ...LogoOption) (*LogoResolver, error) {
	r := &LogoResolver{cache: make(map[string]string)}
	for _, opt := range opts {
		opt(r)
	}
	if dir == "" {
		return r, nil
	}

	loader, err := NewFilesystemLoader(dir)
	if err != nil {
		return nil, err
	}
	r.loader = loader
	return r, nil
}

// Resolve returns the data URI for filename, or "" when it cannot be
// inlined for any reason.
func (r *LogoResolver) Resolve(filename string) string {
	uri, _ := r.Lookup(filename)
	return uri
}

// Lookup is Resolve with the reason a logo was not inlined.
// filename may name a file in a subdirectory ("marcas/loja.png").
// An empty filename yields ("", nil).
func (r *LogoResolver) Lookup(filename string) (string, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" || r.loader == nil {
		return "", nil
	}

	r.mu.RLock()
	uri, ok := r.cache[filename]
	r.mu.RUnlock()
	if ok {
		return uri, nil
	}

	data, err := r.loader.ReadPath(filename)
	if err != nil {
		return "", err
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if r.maxWidth > 0 {
		data = downscale(data, ext, r.maxWidth)
	}
	uri = DataURI(ext, data)

	r.mu.Lock()
	r.cache[filename] = uri
	r.mu.Unlock()
	return uri, nil
}

// DataURI encodes data as data:image/<subtype>;base64,<payload> where
// subtype is derived from the lowercased extension ext (without dot).
func DataURI(ext string, data []byte) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	mime := "application/octet-stream"
	if ext != "" {
		subtype, ok := mimeSubtypes[ext]
		if !ok {
			subtype = ext
		}
		mime = "image/" + subtype
	}
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data))
}

// downscale resizes raster images wider than maxWidth, keeping aspect ratio
// and format. Anything imaging cannot decode or re-encode is returned unchanged.
func downscale(data []byte, ext string, maxWidth int) []byte {
	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return data
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return data
	}
	if img.Bounds().Dx() <= maxWidth {
		return data
	}

	resized := imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format); err != nil {
		return data
	}
	return buf.Bytes()
}
