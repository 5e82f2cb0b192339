package weekview

import "github.com/gdamore/tcell/v2"

// Theme defines the colors used when primitives are initialized.
type Theme struct {
	PrimitiveBackgroundColor tcell.Color // Main background color for primitives.
	BorderColor              tcell.Color // Box borders.
	TitleColor               tcell.Color // Box titles.
	GridLineColor            tcell.Color // Hour and day grid lines.
	HourLabelColor           tcell.Color // Hour gutter labels.
	HeaderTextColor          tcell.Color // Day header text.
	TodayTextColor           tcell.Color // Day header text for the current day.
	ChipBackgroundColor      tcell.Color // Event chip background.
	ChipTextColor            tcell.Color // Event chip text.
	AllDayBackgroundColor    tcell.Color // All-day strip chip background.
	ScrollIndicatorColor     tcell.Color // Vertical scroll indicator thumb.
}

// Styles defines the theme for applications. The default is for a black
// background and some basic colors.
var Styles = Theme{
	PrimitiveBackgroundColor: tcell.ColorBlack,
	BorderColor:              tcell.ColorWhite,
	TitleColor:               tcell.ColorWhite,
	GridLineColor:            tcell.ColorGray,
	HourLabelColor:           tcell.ColorDarkGray,
	HeaderTextColor:          tcell.ColorWhite,
	TodayTextColor:           tcell.ColorYellow,
	ChipBackgroundColor:      tcell.ColorBlue,
	ChipTextColor:            tcell.ColorWhite,
	AllDayBackgroundColor:    tcell.ColorDarkGreen,
	ScrollIndicatorColor:     tcell.ColorWhite,
}

// Style is the complete rendering configuration of a WeekView. It is
// consumed as one immutable value: SetStyle replaces it wholesale and marks
// the widget for redraw, instead of scattering set-and-invalidate pairs
// over every color.
type Style struct {
	GridLine  tcell.Style
	HourLabel tcell.Style
	Header    tcell.Style
	Today     tcell.Style
	Chip      ChipStyle
	AllDay    ChipStyle

	// ColumnGap is the number of blank cells between overlapping columns.
	ColumnGap int

	// SingleEventInset is the horizontal inset applied to events which
	// overlap nothing; overlapping groups get the column gap instead.
	SingleEventInset int
}

// DefaultStyle returns the style derived from the package theme.
func DefaultStyle() Style {
	background := tcell.StyleDefault.Background(Styles.PrimitiveBackgroundColor)
	return Style{
		GridLine:         background.Foreground(Styles.GridLineColor),
		HourLabel:        background.Foreground(Styles.HourLabelColor),
		Header:           background.Foreground(Styles.HeaderTextColor).Bold(true),
		Today:            background.Foreground(Styles.TodayTextColor).Bold(true),
		Chip:             ChipStyle{Background: Styles.ChipBackgroundColor, Text: Styles.ChipTextColor},
		AllDay:           ChipStyle{Background: Styles.AllDayBackgroundColor, Text: Styles.ChipTextColor},
		ColumnGap:        1,
		SingleEventInset: 1,
	}
}
