// Package util provides formatting helpers shared by the board and the CLI.
package util

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Ellipsis is appended to truncated text.
const Ellipsis = "…"

// TruncateANSI truncates s to maxWidth visual columns, appending an ellipsis
// when it had to cut. ANSI escape codes and wide characters are handled, so
// styled card lines can be passed as-is.
func TruncateANSI(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	if maxWidth == 1 {
		return Ellipsis
	}
	// ansi.Truncate includes the tail in the final width calculation
	return ansi.Truncate(s, maxWidth, Ellipsis)
}

// Fit truncates or right-pads s so it occupies exactly width columns.
func Fit(s string, width int) string {
	s = TruncateANSI(s, width)
	if pad := width - lipgloss.Width(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

// SplitLeftRight places left and right on one line of the given width,
// truncating left first when both do not fit.
func SplitLeftRight(left, right string, width int) string {
	rw := lipgloss.Width(right)
	if rw >= width {
		return TruncateANSI(right, width)
	}
	left = TruncateANSI(left, width-rw-1)
	gap := width - lipgloss.Width(left) - rw
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}
