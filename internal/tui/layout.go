package tui

import (
	"github.com/pipeboard/pipeboard/internal/config"
	"github.com/pipeboard/pipeboard/internal/deal"
	"github.com/pipeboard/pipeboard/internal/tui/view"
)

// chromeHeight is the number of lines outside the columns: header, KPI
// strip, help line and its margin.
const chromeHeight = 4

// ColumnLayout is the horizontal geometry of the board.
type ColumnLayout struct {
	// Width of every column including its border.
	Width int
	// First and Count select the window of stages that fit on screen.
	First int
	Count int
}

// CalculateColumnLayout fits the stage columns into termWidth. A fixed
// width of zero divides the terminal evenly. When the columns do not fit,
// a window of columns containing focus is returned.
func CalculateColumnLayout(termWidth, fixedWidth, focus int) ColumnLayout {
	n := len(deal.Stages())
	width := fixedWidth
	if width <= 0 {
		width = termWidth / n
	}
	if width < config.MinColumnWidth {
		width = config.MinColumnWidth
	}

	count := min(max(termWidth/width, 1), n)
	first := 0
	if focus >= count {
		first = focus - count + 1
	}
	return ColumnLayout{Width: width, First: first, Count: count}
}

// columnHeight returns the outer height of a column for the current
// terminal, leaving room for the banner when one is shown.
func (m Model) columnHeight() int {
	h := m.height - chromeHeight
	if m.banner != "" {
		h--
	}
	// Room for at least one card.
	return max(h, view.CardHeight+5)
}

// cardRows returns how many cards a column shows at once.
func (m Model) cardRows() int {
	return view.CardRows(m.columnHeight())
}
