package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pipeboard/pipeboard/internal/board"
	"github.com/pipeboard/pipeboard/internal/deal"
	"github.com/pipeboard/pipeboard/internal/tui/keymap"
	"github.com/pipeboard/pipeboard/internal/tui/msg"
)

// Init issues the initial deal fetch.
func (m Model) Init() tea.Cmd {
	return m.fetch()
}

// Update handles messages and updates the model.
func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}

	switch message := message.(type) {
	case tea.WindowSizeMsg:
		m.width = message.Width
		m.height = message.Height
		for _, stage := range deal.Stages() {
			m.clampStage(stage)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(message)

	case msg.DealsLoadedMsg:
		return m.handleDealsLoaded(message)

	case msg.MoveSettledMsg:
		return m.handleMoveSettled(message)

	case msg.ScrollToDealMsg:
		m.focusDeal(message.DealID)
		return m, nil

	case msg.NotificationsMsg:
		m.unread = message.Unread
		m.notifCursor = min(m.notifCursor, max(len(m.unread)-1, 0))
		return m, nil

	case msg.MarkReadDoneMsg:
		if message.Err != nil {
			m.logger.Warn("mark read failed", "count", len(message.IDs), "error", message.Err)
		}
		return m, nil

	case msg.ViewStateChangedMsg:
		m.logger.Debug("last viewed deal changed externally", "deal_id", message.DealID)
		return m, m.reconcile()

	case msg.ClearBannerMsg:
		if message.Seq == m.bannerSeq {
			m.banner = ""
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleDealsLoaded(message msg.DealsLoadedMsg) (tea.Model, tea.Cmd) {
	if message.Err != nil {
		m.logger.Warn("deal fetch failed", "error", message.Err)
		if !m.board.Loaded() {
			m.loadErr = message.Err
			m.mode = keymap.ModeLoadError
			return m, nil
		}
		return m, m.setBanner(fmt.Sprintf("reload failed: %v", message.Err))
	}

	switch m.board.ApplyReload(message.Ticket, message.Deals) {
	case board.ReloadStale:
		return m, m.fetch()
	case board.ReloadDeferred:
		return m, nil
	}

	m.loadErr = nil
	if m.mode == keymap.ModeLoadError {
		m.mode = keymap.ModeNormal
	}
	if m.mode == keymap.ModeDetail {
		if _, ok := m.board.Deal(m.detailID); !ok {
			m.mode = keymap.ModeNormal
		}
	}
	for _, stage := range deal.Stages() {
		m.clampStage(stage)
	}
	return m, m.reconcile()
}

func (m Model) handleMoveSettled(message msg.MoveSettledMsg) (tea.Model, tea.Cmd) {
	refetch := m.board.FinishMove(message.Move, message.Err)

	var cmds []tea.Cmd
	if mv := message.Move; mv != nil && mv.State == board.MoveRolledBack {
		customer := mv.DealID
		if d, ok := m.board.Deal(mv.DealID); ok {
			customer = d.Customer
		}
		cmds = append(cmds, m.setBanner(fmt.Sprintf("could not move %s to %s: %v", customer, mv.To, mv.Err)))
	}
	for _, stage := range deal.Stages() {
		m.clampStage(stage)
	}
	if refetch {
		cmds = append(cmds, m.fetch())
	}
	cmds = append(cmds, m.reconcile())
	return m, tea.Batch(cmds...)
}

// fetch issues a deal fetch tagged with the current reload ticket.
func (m Model) fetch() tea.Cmd {
	return msg.FetchDeals(m.ctx, m.deals, m.scope, m.board.RequestReload())
}

// reconcile applies the last viewed highlight and schedules the scroll
// when one is due.
func (m *Model) reconcile() tea.Cmd {
	id, ok := m.board.Reconcile()
	if !ok {
		return nil
	}
	return msg.ScrollAfter(m.scrollDelay, id)
}

// setBanner shows an error banner and schedules its expiry. A newer banner
// replaces the previous one.
func (m *Model) setBanner(text string) tea.Cmd {
	m.bannerSeq++
	m.banner = text
	return msg.ClearBannerAfter(bannerTTL, m.bannerSeq)
}

// focusDeal moves the cursor to id, scrolling its column so the card is
// visible. Unknown ids are ignored.
func (m *Model) focusDeal(id string) {
	for i, col := range m.board.Columns() {
		for j, d := range col.Visible {
			if d.ID != id {
				continue
			}
			m.focusCol = i
			m.cursors[col.Stage] = j
			m.ensureVisible(col.Stage)
			return
		}
	}
}

// clampStage keeps the cursor and offset of stage inside its visible
// cards.
func (m *Model) clampStage(stage deal.Stage) {
	n := len(m.column(stage).Visible)
	m.cursors[stage] = min(max(m.cursors[stage], 0), max(n-1, 0))
	m.ensureVisible(stage)
}

// ensureVisible scrolls the column of stage so its cursor is on screen.
func (m *Model) ensureVisible(stage deal.Stage) {
	rows := m.cardRows()
	cursor, offset := m.cursors[stage], m.offsets[stage]
	switch {
	case cursor < offset:
		offset = cursor
	case cursor >= offset+rows:
		offset = cursor - rows + 1
	}
	n := len(m.column(stage).Visible)
	offset = min(offset, max(n-rows, 0))
	m.offsets[stage] = max(offset, 0)
}

func isMoveInFlight(err error) bool {
	return errors.Is(err, board.ErrMoveInFlight)
}
