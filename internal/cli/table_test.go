package cli

import (
	"strings"
	"testing"

	"github.com/jmylchreest/colourbalance/internal/colour"
)

func TestTableAddRow(t *testing.T) {
	table := NewTable([]string{"Name", "Age"})

	table.AddRow([]string{"Alice", "30"})
	table.AddRow([]string{"Bob"})
	table.AddRow([]string{"Charlie", "25", "Extra"})

	if len(table.rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(table.rows))
	}
	for i, row := range table.rows {
		if len(row) != 2 {
			t.Errorf("row %d has %d cells, want 2", i, len(row))
		}
	}
	if table.rows[1][1] != "" {
		t.Errorf("padded cell = %q, want empty", table.rows[1][1])
	}
}

func TestTableRender(t *testing.T) {
	table := NewTable([]string{"Colour", "Share"})
	table.SetAlign(1, AlignRight)
	table.AddRow([]string{"#ff0000", "60.0%"})
	table.AddRow([]string{"#00ff00", "5.0%"})

	want := "Colour   Share\n" +
		"-------  -----\n" +
		"#ff0000  60.0%\n" +
		"#00ff00   5.0%\n"
	if got := table.Render(); got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestTableRenderEmpty(t *testing.T) {
	if got := NewTable(nil).Render(); got != "" {
		t.Errorf("Render() = %q, want empty", got)
	}

	got := NewTable([]string{"A", "B"}).Render()
	if got != "A  B\n-  -\n" {
		t.Errorf("Render() = %q", got)
	}
}

func TestTableIgnoresEscapes(t *testing.T) {
	block := colour.ColourPreview(colour.RGB{R: 255}, 2)
	table := NewTable([]string{"Swatch", "Hex"})
	table.AddRow([]string{block, "#ff0000"})

	lines := strings.Split(table.Render(), "\n")
	// The block is two columns wide, so it is padded to the header width.
	if want := block + strings.Repeat(" ", 4) + "  #ff0000"; lines[2] != want {
		t.Errorf("row = %q, want %q", lines[2], want)
	}
}

func TestVisibleWidth(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"abc", 3},
		{"★ ☆", 3},
		{"\033[48;2;1;2;3m  \033[0m", 2},
	}
	for _, tt := range tests {
		if got := visibleWidth(tt.input); got != tt.want {
			t.Errorf("visibleWidth(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		input    string
		width    int
		expected string
	}{
		{"test", 10, "test      "},
		{"hello", 5, "hello"},
		{"world", 3, "world"},
		{"", 5, "     "},
	}

	for _, tt := range tests {
		if got := padRight(tt.input, tt.width); got != tt.expected {
			t.Errorf("padRight(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.expected)
		}
	}
}

func TestPadLeft(t *testing.T) {
	if got := padLeft("5", 3); got != "  5" {
		t.Errorf("padLeft(%q, 3) = %q, want %q", "5", got, "  5")
	}
}
