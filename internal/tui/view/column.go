package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pipeboard/pipeboard/internal/board"
	"github.com/pipeboard/pipeboard/internal/deal"
	"github.com/pipeboard/pipeboard/internal/tui/styles"
	"github.com/pipeboard/pipeboard/internal/util"
)

// CardHeight is the number of lines one card occupies.
const CardHeight = 2

// columnChrome is the number of lines a column uses besides its cards:
// border (2), header, stats and the expand control line.
const columnChrome = 5

// CardRows returns how many cards fit in a column of the given total height.
func CardRows(height int) int {
	rows := (height - columnChrome) / CardHeight
	if rows < 1 {
		return 1
	}
	return rows
}

// ColumnState holds what is needed to render one stage column.
type ColumnState struct {
	Column board.Column

	// Width and Height are the outer dimensions including the border.
	Width  int
	Height int

	// Focused marks the column holding the cursor; Target marks the drop
	// column while a card is grabbed.
	Focused bool
	Target  bool

	// Cursor is the focused card index in Column.Visible, -1 for none.
	Cursor int
	// Offset is the first card rendered.
	Offset int

	// Grabbed is the id of the card being moved, if any.
	Grabbed string
	// Committing reports deals whose move awaits the system of record.
	Committing func(id string) bool
	// Highlighted reports the last viewed deal.
	Highlighted func(id string) bool
}

// RenderColumn renders a stage column.
func RenderColumn(s *styles.Styles, st ColumnState) string {
	box := s.Column
	switch {
	case st.Target:
		box = s.ColumnTarget
	case st.Focused:
		box = s.ColumnFocused
	}

	inner := st.Width - box.GetHorizontalFrameSize()
	if inner < 1 {
		inner = 1
	}

	col := st.Column
	lines := make([]string, 0, st.Height)
	lines = append(lines, util.SplitLeftRight(
		s.StageHeader(col.Stage).Render(string(col.Stage)),
		s.Muted.Render(fmt.Sprintf("%d", col.Count)),
		inner,
	))
	lines = append(lines, s.ColumnStats.Render(util.Fit(
		fmt.Sprintf("%s · margin %s", util.FormatCompact(col.Revenue), util.FormatCompact(col.Margin)),
		inner,
	)))

	rows := CardRows(st.Height)
	end := min(st.Offset+rows, len(col.Visible))
	for i := st.Offset; i < end; i++ {
		lines = append(lines, renderCard(s, st, col.Visible[i], i == st.Cursor, inner)...)
	}
	if len(col.Visible) == 0 {
		lines = append(lines, s.Muted.Render(util.Fit("no deals", inner)))
	}
	for len(lines) < 2+rows*CardHeight {
		lines = append(lines, strings.Repeat(" ", inner))
	}
	lines = append(lines, renderExpandControl(s, col, inner))

	return box.Width(st.Width - box.GetHorizontalBorderSize()).Render(strings.Join(lines, "\n"))
}

func renderCard(s *styles.Styles, st ColumnState, d deal.Deal, focused bool, width int) []string {
	grabbed := d.ID == st.Grabbed
	highlighted := st.Highlighted != nil && st.Highlighted(d.ID)

	marker := " "
	switch {
	case grabbed:
		marker = "◆"
	case highlighted:
		marker = "★"
	case focused:
		marker = "›"
	}

	style := s.Card
	switch {
	case grabbed:
		style = s.CardGrabbed
	case st.Committing != nil && st.Committing(d.ID):
		style = s.CardCommitting
	case focused:
		style = s.CardFocused
	case highlighted:
		style = s.CardHighlighted
	}

	title := util.SplitLeftRight(
		marker+" "+d.Customer,
		styles.QuotationIcon(d.QuotationStatus),
		width,
	)
	detail := util.SplitLeftRight(
		"  "+deal.ResolveOwner(d),
		util.FormatCompact(d.ExpectedRevenue),
		width,
	)
	return []string{style.Render(title), s.Muted.Render(detail)}
}

func renderExpandControl(s *styles.Styles, col board.Column, width int) string {
	if !col.HasControl {
		return strings.Repeat(" ", width)
	}
	label := fmt.Sprintf("▾ %d more (e)", col.Hidden())
	if col.Expanded {
		label = "▴ show less (e)"
	}
	return s.ExpandControl.Render(util.Fit(label, width))
}

// RenderBoard joins rendered columns side by side.
func RenderBoard(columns []string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}
