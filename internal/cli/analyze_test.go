package cli

import (
	"bytes"
	"encoding/json"
	stdimage "image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeStripes(t *testing.T, path string) {
	t.Helper()
	img := stdimage.NewNRGBA(stdimage.Rect(0, 0, 30, 30))
	for y := range 30 {
		c := color.NRGBA{R: 240, G: 240, B: 235, A: 255}
		switch {
		case y >= 27:
			c = color.NRGBA{R: 200, G: 20, B: 20, A: 255}
		case y >= 18:
			c = color.NRGBA{R: 20, G: 30, B: 90, A: 255}
		}
		for x := range 30 {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestAnalyzeCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "stripes.png")
	swatch := filepath.Join(dir, "swatch.png")
	writeStripes(t, input)

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"analyze", "-q", "-f", "json", "--preview", "never", "--sigma", "0", "--segments", "25", "--swatch", swatch, input})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var report struct {
		Source    string `json:"source"`
		TotalArea int    `json:"total_area"`
	}
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out.String())
	}
	if report.Source != input || report.TotalArea != 900 {
		t.Errorf("report = %+v, want source %s and area 900", report, input)
	}
	if _, err := os.Stat(swatch); err != nil {
		t.Errorf("swatch not written: %v", err)
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.HasPrefix(out.String(), "colourbalance ") {
		t.Errorf("version output = %q", out.String())
	}
}
