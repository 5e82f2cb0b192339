package weekview

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

// printText prints text at (x, y), truncated to maxWidth cells. Wide
// grapheme clusters that would straddle the right edge are dropped rather
// than split. It returns the number of cells printed.
func printText(screen tcell.Screen, text string, x, y, maxWidth int, style tcell.Style) int {
	if maxWidth <= 0 {
		return 0
	}
	printed := 0
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		cluster := gr.Str()
		width := max(uniseg.StringWidth(cluster), 1)
		if printed+width > maxWidth {
			break
		}
		runes := gr.Runes()
		screen.SetContent(x+printed, y, runes[0], runes[1:], style)
		// Wide clusters occupy their trailing cells too; fill them so
		// leftover content cannot show through.
		for offset := 1; offset < width; offset++ {
			screen.SetContent(x+printed+offset, y, ' ', nil, style)
		}
		printed += width
	}
	return printed
}

// fillRect fills a rectangle with the given rune and style, clipped to the
// given bounds.
func fillRect(screen tcell.Screen, x, y, width, height int, r rune, style tcell.Style) {
	for row := y; row < y+height; row++ {
		for col := x; col < x+width; col++ {
			screen.SetContent(col, row, r, nil, style)
		}
	}
}
