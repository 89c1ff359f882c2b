package view

import (
	"strings"

	"github.com/pipeboard/pipeboard/internal/deal"
	"github.com/pipeboard/pipeboard/internal/tui/styles"
	"github.com/pipeboard/pipeboard/internal/util"
)

// RenderDetail renders the deal detail pane.
func RenderDetail(s *styles.Styles, d deal.Deal, width int) string {
	quotation := string(d.QuotationStatus)
	if quotation == "" {
		quotation = "none"
	}
	created := "unknown"
	if !d.CreatedAt.IsZero() {
		created = d.CreatedAt.Format("2006-01-02")
	}

	rows := []struct{ label, value string }{
		{"Customer", d.Customer},
		{"Stage", s.StageHeader(d.Stage).Render(string(d.Stage))},
		{"Owner", deal.ResolveOwner(d)},
		{"Type", d.Type},
		{"Revenue", util.FormatMoney(d.ExpectedRevenue)},
		{"Margin", util.FormatMoney(d.ExpectedMargin)},
		{"Quotation", styles.QuotationIcon(d.QuotationStatus) + " " + quotation},
		{"Created", created},
		{"ID", s.Muted.Render(d.ID)},
	}

	var b strings.Builder
	b.WriteString(s.Title.Render(d.Customer))
	b.WriteString("\n\n")
	for i, r := range rows {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(s.DetailLabel.Render(r.label))
		b.WriteString(s.Text.Render(r.value))
	}
	b.WriteString("\n\n")
	b.WriteString(s.Muted.Render("esc to return to the board"))

	return s.Detail.Width(max(width-s.Detail.GetHorizontalBorderSize(), 20)).Render(b.String())
}
