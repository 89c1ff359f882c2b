package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pipeboard/pipeboard/internal/aggregate"
	"github.com/pipeboard/pipeboard/internal/tui/styles"
	"github.com/pipeboard/pipeboard/internal/util"
)

// KPIState holds the aggregates shown in the KPI strip.
type KPIState struct {
	Buckets      []aggregate.Bucket
	TotalCount   int
	TotalRevenue float64
	TotalMargin  float64
	Width        int
}

// RenderKPIStrip renders one segment per stage followed by the board
// totals. The stage segments are truncated when the width is short; the
// totals are always shown.
func RenderKPIStrip(s *styles.Styles, st KPIState) string {
	total := s.KPITotal.Render(fmt.Sprintf("Σ %d · %s · margin %s",
		st.TotalCount, util.FormatMoney(st.TotalRevenue), util.FormatMoney(st.TotalMargin)))
	sep := s.Muted.Render("│")

	segments := make([]string, 0, len(st.Buckets))
	for _, b := range st.Buckets {
		segments = append(segments, s.KPI.Render(
			s.StageHeader(b.Stage).Render(string(b.Stage))+" "+
				fmt.Sprintf("%d · %s", b.Count, util.FormatCompact(b.Revenue)),
		))
	}

	line := strings.Join(segments, sep)
	if st.Width > 0 {
		room := st.Width - lipgloss.Width(total) - lipgloss.Width(sep)
		if room <= 0 {
			return total
		}
		line = util.TruncateANSI(line, room)
	}
	if line == "" {
		return total
	}
	return line + sep + total
}
