package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/pipeboard/pipeboard/internal/deal"
	"github.com/pipeboard/pipeboard/internal/tui/keymap"
	"github.com/pipeboard/pipeboard/internal/tui/view"
)

// View renders the board.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.mode == keymap.ModeLoadError {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.renderHeader(),
			"",
			view.RenderLoadError(m.styles, m.loadErr, min(m.width, 72)),
		)
	}
	if !m.board.Loaded() {
		return m.renderHeader() + "\n\n" + m.styles.Muted.Render("Loading pipeline…")
	}

	var body string
	switch m.mode {
	case keymap.ModeDetail:
		if d, ok := m.board.Deal(m.detailID); ok {
			body = view.RenderDetail(m.styles, d, min(m.width, 72))
		}
	case keymap.ModeNotifications:
		body = view.RenderNotifications(m.styles, view.NotificationsState{
			Unread: m.unread,
			Cursor: m.notifCursor,
			Width:  min(m.width, 96),
			Now:    time.Now(),
		})
	}
	if body == "" {
		body = m.renderColumns()
	}

	count, revenue, margin := m.board.Totals()
	parts := []string{
		m.renderHeader(),
		view.RenderKPIStrip(m.styles, view.KPIState{
			Buckets:      m.board.Buckets(),
			TotalCount:   count,
			TotalRevenue: revenue,
			TotalMargin:  margin,
			Width:        m.width,
		}),
	}
	if banner := view.RenderBanner(m.styles, m.banner, m.width); banner != "" {
		parts = append(parts, banner)
	}
	parts = append(parts, body, m.renderHelp())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderHeader() string {
	return view.RenderHeader(m.styles, view.HeaderState{
		Viewer:           m.scope,
		Unread:           len(m.unread),
		PendingApprovals: m.approvals(),
		Committing:       m.board.Drag().Committing(),
		Width:            m.width,
	})
}

func (m Model) renderColumns() string {
	focus := m.focusCol
	if m.grab != nil {
		focus = m.grab.targetCol
	}
	layout := CalculateColumnLayout(m.width, m.columnWidth, focus)
	height := m.columnHeight()

	grabbed := ""
	if m.grab != nil {
		grabbed = m.grab.dealID
	}

	columns := m.board.Columns()
	rendered := make([]string, 0, layout.Count)
	for i := layout.First; i < layout.First+layout.Count && i < len(columns); i++ {
		col := columns[i]
		cursor := -1
		if i == m.focusCol && m.grab == nil {
			cursor = m.cursors[col.Stage]
		}
		rendered = append(rendered, view.RenderColumn(m.styles, view.ColumnState{
			Column:      col,
			Width:       layout.Width,
			Height:      height,
			Focused:     i == m.focusCol,
			Target:      m.grab != nil && i == m.grab.targetCol,
			Cursor:      cursor,
			Offset:      m.offsets[col.Stage],
			Grabbed:     grabbed,
			Committing:  m.board.Drag().IsCommitting,
			Highlighted: m.board.IsHighlighted,
		}))
	}
	return view.RenderBoard(rendered)
}

func (m Model) renderHelp() string {
	if m.grab != nil && !m.showHelp {
		target := deal.Stages()[m.grab.targetCol]
		status := fmt.Sprintf("moving %s → %s #%d", m.grabbedCustomer(), target, m.grab.targetIndex+1)
		return m.styles.HelpBar.Render(status + "  " + m.help.Render(m.mode, max(m.width-lipgloss.Width(status)-2, 10), false))
	}
	return m.styles.HelpBar.Render(m.help.Render(m.mode, m.width, m.showHelp))
}

func (m Model) grabbedCustomer() string {
	if d, ok := m.board.Deal(m.grab.dealID); ok {
		return d.Customer
	}
	return m.grab.dealID
}
