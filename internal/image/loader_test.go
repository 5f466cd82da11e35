package image

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return buf.Bytes()
}

func solid(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestDecodeBytes(t *testing.T) {
	data := encodePNG(t, solid(4, 3, color.NRGBA{R: 200, A: 255}))

	img, err := DecodeBytes(data)
	if err != nil {
		t.Fatalf("DecodeBytes() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Errorf("DecodeBytes() bounds = %v, want 4x3", b)
	}

	if _, err := DecodeBytes(nil); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("DecodeBytes(nil) error = %v, want ErrEmptyImage", err)
	}
	if _, err := DecodeBytes([]byte("not an image")); err == nil {
		t.Error("DecodeBytes(garbage) error = nil, want error")
	}
}

func TestDecodeBytesLimit(t *testing.T) {
	data := encodePNG(t, solid(20, 10, color.NRGBA{G: 200, A: 255}))

	tests := []struct {
		name      string
		maxPixels int
		wantErr   error
	}{
		{"within budget", 200, nil},
		{"over budget", 199, ErrTooManyPixels},
		{"budget disabled", 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := DecodeBytesLimit(data, tt.maxPixels)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("DecodeBytesLimit() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && img.Bounds().Dx() != 20 {
				t.Errorf("DecodeBytesLimit() width = %d, want 20", img.Bounds().Dx())
			}
		})
	}
}

func TestFileLoader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "red.png")
	if err := os.WriteFile(path, encodePNG(t, solid(2, 2, color.NRGBA{R: 255, A: 255})), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	loader := NewFileLoader()
	if _, err := loader.Load(context.Background(), path); err != nil {
		t.Errorf("Load() error = %v", err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"empty", ""},
		{"missing", filepath.Join(dir, "missing.png")},
		{"directory", dir},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := loader.Load(context.Background(), tt.path); err == nil {
				t.Errorf("Load(%q) error = nil, want error", tt.path)
			}
		})
	}
}

func TestSmartLoaderURL(t *testing.T) {
	data := encodePNG(t, solid(3, 3, color.NRGBA{B: 255, A: 255}))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	img, err := NewSmartLoader().Load(context.Background(), srv.URL+"/blue.png")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if img.Bounds().Dx() != 3 {
		t.Errorf("Load() width = %d, want 3", img.Bounds().Dx())
	}
}

func TestValidateImagePath(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "ok.png")
	bad := filepath.Join(dir, "bad.png")
	if err := os.WriteFile(good, encodePNG(t, solid(1, 1, color.White)), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte("text"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path    string
		wantErr bool
	}{
		{"https://example.com/a.png", false},
		{good, false},
		{bad, true},
		{dir, true},
		{"", true},
	}
	for _, tt := range tests {
		err := ValidateImagePath(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateImagePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
	}
}

func TestIsSupportedExtension(t *testing.T) {
	for _, ext := range []string{".png", ".JPG", ".webp"} {
		if !IsSupportedExtension(ext) {
			t.Errorf("IsSupportedExtension(%q) = false, want true", ext)
		}
	}
	if IsSupportedExtension(".bmp") {
		t.Error("IsSupportedExtension(\".bmp\") = true, want false")
	}
}
