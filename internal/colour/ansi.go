package colour

import (
	"fmt"
	"strings"
)

// ANSI escape codes for terminal colours.
const (
	ansiReset    = "\033[0m"
	ansiFgPrefix = "\033[38;2;"
	ansiBgPrefix = "\033[48;2;"
	ansiSuffix   = "m"
	defaultWidth = 8
)

// ColourPreview returns an ANSI-coloured preview string for a colour.
// Width specifies how many characters wide the colour block should be.
func ColourPreview(c RGB, width int) string {
	if width <= 0 {
		width = defaultWidth
	}

	bgColour := fmt.Sprintf("%s%d;%d;%d%s", ansiBgPrefix, c.R, c.G, c.B, ansiSuffix)
	return bgColour + strings.Repeat(" ", width) + ansiReset
}

// ColourPreviewWithText returns a colour block with centred text overlaid.
// The text is black on light colours and white on dark ones.
func ColourPreviewWithText(c RGB, text string, width int) string {
	if width <= 0 {
		width = defaultWidth
	}

	var fg RGB
	if FromRGB(c).L <= 50 {
		fg = RGB{R: 255, G: 255, B: 255}
	}

	bgColour := fmt.Sprintf("%s%d;%d;%d%s", ansiBgPrefix, c.R, c.G, c.B, ansiSuffix)
	fgColour := fmt.Sprintf("%s%d;%d;%d%s", ansiFgPrefix, fg.R, fg.G, fg.B, ansiSuffix)

	displayText := text
	if len(text) > width {
		displayText = text[:width]
	} else if len(text) < width {
		padding := (width - len(text)) / 2
		displayText = strings.Repeat(" ", padding) + text + strings.Repeat(" ", width-len(text)-padding)
	}

	return bgColour + fgColour + displayText + ansiReset
}
