package assets

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// DefaultMaxImageSize caps how large a screenshot may be before it is
// replaced with a placeholder. Data URIs inflate by a third and a single
// HTML report embeds up to a dozen screenshots.
const DefaultMaxImageSize = 8 * 1024 * 1024

// Image is a screenshot prepared for embedding.
type Image struct {
	// Path is the original path from the audit record.
	Path string

	// MIME is the sniffed content type, such as "image/png".
	MIME string

	// DataURI is the base64 data URI ready for an img src attribute.
	// Empty when Missing.
	DataURI string

	// Missing is true when the file could not be loaded. Renderers show a
	// placeholder instead of the image.
	Missing bool

	// MetadataTags lists sensitive metadata tag names found in the image,
	// such as GPS coordinates or device serial numbers. Reports are often
	// shared with clients, so the loader flags anything worth scrubbing.
	MetadataTags []string
}

// Loader reads screenshot files relative to a base directory.
type Loader struct {
	baseDir string
	maxSize int64
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithMaxImageSize overrides the embed size cap.
func WithMaxImageSize(n int64) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.maxSize = n
		}
	}
}

// NewLoader creates a Loader. Relative screenshot paths resolve against
// baseDir, which is normally the directory of the audit record file.
func NewLoader(baseDir string, opts ...LoaderOption) *Loader {
	l := &Loader{
		baseDir: baseDir,
		maxSize: DefaultMaxImageSize,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads one screenshot and returns it as an embeddable Image.
// Load never fails: an empty path, unreadable file, oversized file, or
// non-image file all return an Image with Missing set.
func (l *Loader) Load(path string) Image {
	img := Image{Path: path, Missing: true}
	if path == "" {
		return img
	}

	resolved := path
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(l.baseDir, resolved)
	}

	info, err := os.Stat(resolved)
	if err != nil || info.IsDir() || info.Size() > l.maxSize {
		return img
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return img
	}

	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return img
	}

	img.MIME = mime
	img.DataURI = fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data))
	img.Missing = false
	img.MetadataTags = sensitiveMetadataTags(data)
	return img
}
