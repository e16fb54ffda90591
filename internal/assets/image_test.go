package assets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

// writeFile writes test bytes and returns the path.
func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestLoaderLoad tests loading, sniffing, and data URI encoding.
func TestLoaderLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "home.png", pngHeader)
	loader := NewLoader(dir)

	t.Run("relative path resolves against base dir", func(t *testing.T) {
		t.Parallel()

		img := loader.Load("home.png")
		if img.Missing {
			t.Fatal("expected the image to load")
		}
		if img.MIME != "image/png" {
			t.Errorf("got MIME %q, expected image/png", img.MIME)
		}
		if !strings.HasPrefix(img.DataURI, "data:image/png;base64,") {
			t.Errorf("unexpected data URI prefix: %.40q", img.DataURI)
		}
	})

	t.Run("absolute path bypasses base dir", func(t *testing.T) {
		t.Parallel()

		other := t.TempDir()
		path := writeFile(t, other, "abs.png", pngHeader)

		if img := loader.Load(path); img.Missing {
			t.Error("expected the absolute path to load")
		}
	})

	t.Run("empty path is a placeholder", func(t *testing.T) {
		t.Parallel()

		img := loader.Load("")
		if !img.Missing {
			t.Error("expected Missing for an empty path")
		}
		if img.DataURI != "" {
			t.Error("expected no data URI for a placeholder")
		}
	})

	t.Run("missing file is a placeholder", func(t *testing.T) {
		t.Parallel()

		if img := loader.Load("nope.png"); !img.Missing {
			t.Error("expected Missing for a nonexistent file")
		}
	})

	t.Run("non-image content is a placeholder", func(t *testing.T) {
		t.Parallel()

		writeFile(t, dir, "notes.txt", []byte("plain text, not pixels"))
		if img := loader.Load("notes.txt"); !img.Missing {
			t.Error("expected Missing for a non-image file")
		}
	})

	t.Run("oversized file is a placeholder", func(t *testing.T) {
		t.Parallel()

		big := make([]byte, 64)
		copy(big, pngHeader)
		writeFile(t, dir, "big.png", big)

		small := NewLoader(dir, WithMaxImageSize(16))
		if img := small.Load("big.png"); !img.Missing {
			t.Error("expected Missing above the size cap")
		}
	})
}

// TestSensitiveMetadataTags tests that screenshots without EXIF report no
// tags.
func TestSensitiveMetadataTags(t *testing.T) {
	t.Parallel()

	if tags := sensitiveMetadataTags(pngHeader); tags != nil {
		t.Errorf("expected no metadata tags for a bare PNG, got %v", tags)
	}
}

// TestIsSensitiveTag tests the tag classification.
func TestIsSensitiveTag(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"GPSLatitude", "SerialNumber", "Artist", "HostComputer"} {
		if !isSensitiveTag(name) {
			t.Errorf("%s should be sensitive", name)
		}
	}
	for _, name := range []string{"Orientation", "PixelXDimension", ""} {
		if isSensitiveTag(name) {
			t.Errorf("%s should not be sensitive", name)
		}
	}
}
