// Package image loads images and turns them into the Lab grids the balance
// pipeline consumes.
package image

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format
	"os"
	"slices"
	"strings"

	_ "golang.org/x/image/webp" // Register WebP format

	httputil "github.com/jmylchreest/colourbalance/internal/util/http"
)

// DefaultMaxPixels bounds the decoded size of an image (8192×8192).
const DefaultMaxPixels = 8192 * 8192

var (
	// ErrEmptyImage is returned when decoded image data has no pixels.
	ErrEmptyImage = errors.New("image has no pixels")
	// ErrTooManyPixels is returned when an image header declares more
	// pixels than the decode budget allows.
	ErrTooManyPixels = errors.New("image exceeds pixel budget")
)

// Loader loads an image from a source string.
type Loader interface {
	Load(ctx context.Context, source string) (image.Image, error)
}

// FileLoader loads images from the local filesystem.
type FileLoader struct{}

// NewFileLoader creates a new FileLoader instance.
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// Load reads and decodes the file at path.
func (l *FileLoader) Load(_ context.Context, path string) (image.Image, error) {
	if path == "" {
		return nil, fmt.Errorf("image path cannot be empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("image file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to stat image file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	data, err := os.ReadFile(path) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		return nil, fmt.Errorf("failed to read image file: %w", err)
	}
	return DecodeBytes(data)
}

// URLLoader fetches images over HTTP(S).
type URLLoader struct {
	Options httputil.FetchOptions
}

// Load fetches and decodes the image at url.
func (l *URLLoader) Load(ctx context.Context, url string) (image.Image, error) {
	data, err := httputil.Fetch(ctx, url, l.Options)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image from URL: %w", err)
	}
	return DecodeBytes(data)
}

// SmartLoader loads images from both local files and HTTP(S) URLs.
type SmartLoader struct {
	files *FileLoader
	urls  *URLLoader
}

// NewSmartLoader creates a new SmartLoader instance.
func NewSmartLoader() *SmartLoader {
	return &SmartLoader{
		files: NewFileLoader(),
		urls:  &URLLoader{},
	}
}

// Load dispatches on the source: URLs are fetched, anything else is a path.
func (l *SmartLoader) Load(ctx context.Context, source string) (image.Image, error) {
	if IsURL(source) {
		return l.urls.Load(ctx, source)
	}
	return l.files.Load(ctx, source)
}

// DecodeBytes decodes an encoded image held in memory, refusing images larger
// than DefaultMaxPixels. Supported formats: JPEG, PNG, GIF, WebP.
func DecodeBytes(data []byte) (image.Image, error) {
	return DecodeBytesLimit(data, DefaultMaxPixels)
}

// DecodeBytesLimit is DecodeBytes with an explicit pixel budget. The header
// is checked before any pixel data is decoded. A budget <= 0 disables the
// check.
func DecodeBytesLimit(data []byte, maxPixels int) (image.Image, error) {
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}
	if maxPixels > 0 {
		cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode image header (format: %s): %w", format, err)
		}
		if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > int64(maxPixels) {
			return nil, fmt.Errorf("%w: %dx%d is more than %d pixels", ErrTooManyPixels, cfg.Width, cfg.Height, maxPixels)
		}
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image (format: %s): %w", format, err)
	}
	if img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	return img, nil
}

// IsURL reports whether source is an HTTP(S) URL.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// ValidateImagePath checks that path is a URL or a readable file in a
// supported format. URLs are not fetched.
func ValidateImagePath(path string) error {
	if path == "" {
		return fmt.Errorf("image path cannot be empty")
	}
	if IsURL(path) {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("image file not found: %s", path)
		}
		return fmt.Errorf("failed to access image path: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", path)
	}

	file, err := os.Open(path) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		return fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	if _, _, err := image.DecodeConfig(file); err != nil {
		return fmt.Errorf("unsupported or invalid image format: %w", err)
	}
	return nil
}

// SupportedImageExtensions returns a list of supported image file extensions.
func SupportedImageExtensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
}

// IsSupportedExtension reports whether ext (with leading dot) is supported.
func IsSupportedExtension(ext string) bool {
	return slices.Contains(SupportedImageExtensions(), strings.ToLower(ext))
}
