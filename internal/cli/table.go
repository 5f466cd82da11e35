package cli

import "strings"

// Align is the horizontal alignment of a table column.
type Align int

// Column alignments.
const (
	AlignLeft Align = iota
	AlignRight
)

// Table is a plain-text table with columns sized to their widest cell.
// Cells may contain ANSI colour sequences; they do not count towards width.
type Table struct {
	headers []string
	rows    [][]string
	padding int
	aligns  map[int]Align
}

// NewTable creates a new table with the given headers.
func NewTable(headers []string) *Table {
	return &Table{
		headers: headers,
		padding: 2,
		aligns:  make(map[int]Align),
	}
}

// SetAlign sets the alignment of column col.
func (t *Table) SetAlign(col int, a Align) {
	t.aligns[col] = a
}

// AddRow adds a row, padding or truncating it to the header count.
func (t *Table) AddRow(row []string) {
	cells := make([]string, len(t.headers))
	copy(cells, row)
	t.rows = append(t.rows, cells)
}

// Render formats and returns the table as a string.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = visibleWidth(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], visibleWidth(cell))
		}
	}

	var b strings.Builder
	sep := strings.Repeat(" ", t.padding)
	line := func(cells []string) {
		parts := make([]string, len(cells))
		for i, c := range cells {
			if t.aligns[i] == AlignRight {
				parts[i] = padLeft(c, widths[i])
			} else {
				parts[i] = padRight(c, widths[i])
			}
		}
		b.WriteString(strings.TrimRight(strings.Join(parts, sep), " "))
		b.WriteString("\n")
	}

	line(t.headers)
	rule := make([]string, len(widths))
	for i, w := range widths {
		rule[i] = strings.Repeat("-", w)
	}
	line(rule)
	for _, row := range t.rows {
		line(row)
	}
	return b.String()
}

// visibleWidth counts the runes of s that are not part of an ANSI escape
// sequence.
func visibleWidth(s string) int {
	n := 0
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		case r == '\033':
			inEscape = true
		default:
			n++
		}
	}
	return n
}

// padRight pads s with spaces on the right to reach width visible columns.
func padRight(s string, width int) string {
	if w := visibleWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func padLeft(s string, width int) string {
	if w := visibleWidth(s); w < width {
		return strings.Repeat(" ", width-w) + s
	}
	return s
}
