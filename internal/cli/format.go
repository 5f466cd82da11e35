package cli

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/jmylchreest/colourbalance/internal/balance"
	"github.com/jmylchreest/colourbalance/internal/colour"
	"github.com/jmylchreest/colourbalance/internal/pipeline"
)

// Output formats.
const (
	formatText = "text"
	formatJSON = "json"
)

var slotRoles = [3]string{"Dominant", "Secondary", "Accent"}

// formatReport renders a report in the requested format.
func formatReport(r *pipeline.Report, format string, preview bool) (string, error) {
	switch format {
	case formatText, "":
		return renderText(r, preview), nil
	case formatJSON:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to convert to JSON: %w", err)
		}
		return string(data) + "\n", nil
	default:
		return "", fmt.Errorf("unsupported format: %s (supported: %s, %s)", format, formatText, formatJSON)
	}
}

func renderText(r *pipeline.Report, preview bool) string {
	var b strings.Builder

	if r.Source != "" {
		fmt.Fprintf(&b, "Image: %s (%dx%d, %d segments)\n\n", r.Source, r.Width, r.Height, r.Segments)
	}

	for i, s := range r.Evaluation.Slots {
		label := padRight(slotRoles[i]+":", 10)
		if preview {
			label = numberedSwatch(s.Hex, i+1) + " " + label
		}
		fmt.Fprintf(&b, "%s Target %s | Actual %s %s | Color: %s\n",
			label, percent(s.TargetPercent), percent(s.ActualPercent), mark(s.WithinTolerance), s.Hex)
	}

	verdict := "no"
	if r.Evaluation.Balanced {
		verdict = "yes"
	}
	fmt.Fprintf(&b, "\nBalanced: %s (tolerance ±%s)\n\n", verdict, percent(r.Evaluation.Tolerance))

	b.WriteString(groupTable(r.Result, preview).Render())
	return b.String()
}

// groupTable lists every merged colour with its share of the image.
func groupTable(res *balance.Result, preview bool) *Table {
	table := NewTable([]string{"#", "Colour", "Area", "Share", "Merged", "Size"})
	for i, g := range res.MergedGroups {
		hex := g.Hex
		if preview {
			hex = swatch(g.Hex) + " " + hex
		}
		size := "large"
		if isSmall(res, g) {
			size = "small"
		}
		table.AddRow([]string{
			strconv.Itoa(i + 1),
			hex,
			strconv.Itoa(g.Area),
			percent(g.Percent),
			strconv.Itoa(len(g.Members)),
			size,
		})
	}
	table.SetAlign(2, AlignRight)
	table.SetAlign(3, AlignRight)
	return table
}

func isSmall(res *balance.Result, g balance.Group) bool {
	return slices.ContainsFunc(res.Small, func(s balance.Group) bool {
		return slices.Equal(s.Members, g.Members)
	})
}

func swatch(hex string) string {
	rgb, err := colour.ParseHex(hex)
	if err != nil {
		return "  "
	}
	return colour.ColourPreview(rgb, 2)
}

func numberedSwatch(hex string, n int) string {
	rgb, err := colour.ParseHex(hex)
	if err != nil {
		return "   "
	}
	return colour.ColourPreviewWithText(rgb, strconv.Itoa(n), 3)
}

func mark(ok bool) string {
	if ok {
		return "✅"
	}
	return "❌"
}

func percent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}
