package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pipeboard/pipeboard/internal/board"
	"github.com/pipeboard/pipeboard/internal/deal"
	"github.com/pipeboard/pipeboard/internal/tui/keymap"
	"github.com/pipeboard/pipeboard/internal/tui/msg"
)

// handleKey dispatches a key press through the keymap of the active mode.
func (m Model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	command, ok := m.keys.GetBinding(key, m.mode)
	if !ok {
		return m, nil
	}
	if command == keymap.CmdQuit {
		m.quitting = true
		return m, tea.Quit
	}
	if command == keymap.CmdToggleHelp {
		m.showHelp = !m.showHelp
		return m, nil
	}

	switch m.mode {
	case keymap.ModeGrab:
		return m.handleGrabKey(command)
	case keymap.ModeDetail:
		if command == keymap.CmdCancel {
			m.mode = keymap.ModeNormal
			m.detailID = ""
		}
		return m, nil
	case keymap.ModeNotifications:
		return m.handleNotificationsKey(command)
	case keymap.ModeLoadError:
		if command == keymap.CmdReload {
			return m, m.fetch()
		}
		return m, nil
	default:
		return m.handleNormalKey(command)
	}
}

func (m Model) handleNormalKey(command keymap.Command) (tea.Model, tea.Cmd) {
	stages := deal.Stages()
	stage := m.focusedStage()

	switch command {
	case keymap.CmdLeft:
		m.focusCol = max(m.focusCol-1, 0)
		m.clampStage(m.focusedStage())
	case keymap.CmdRight:
		m.focusCol = min(m.focusCol+1, len(stages)-1)
		m.clampStage(m.focusedStage())
	case keymap.CmdUp:
		m.cursors[stage]--
		m.clampStage(stage)
	case keymap.CmdDown:
		m.cursors[stage]++
		m.clampStage(stage)

	case keymap.CmdGrab:
		d, ok := m.focusedDeal()
		if !ok {
			return m, nil
		}
		m.grab = &grabState{
			dealID:      d.ID,
			sourceStage: stage,
			sourceIndex: m.cursors[stage],
			targetCol:   m.focusCol,
			targetIndex: m.cursors[stage],
		}
		m.mode = keymap.ModeGrab

	case keymap.CmdOpen:
		d, ok := m.focusedDeal()
		if !ok {
			return m, nil
		}
		return m.openDeal(d.ID)

	case keymap.CmdToggleColumn:
		m.board.ToggleColumn(stage)
		m.clampStage(stage)

	case keymap.CmdReload:
		return m, m.fetch()

	case keymap.CmdNotifications:
		if m.reads == nil {
			return m, nil
		}
		m.mode = keymap.ModeNotifications
		m.notifCursor = 0
	}
	return m, nil
}

// openDeal runs the select opportunity action and shows the detail pane.
func (m Model) openDeal(id string) (tea.Model, tea.Cmd) {
	if err := m.board.OnSelectOpportunity(id); err != nil {
		return m, m.setBanner(err.Error())
	}
	m.detailID = id
	m.mode = keymap.ModeDetail
	return m, m.reconcile()
}

func (m Model) handleGrabKey(command keymap.Command) (tea.Model, tea.Cmd) {
	g := m.grab
	if g == nil {
		m.mode = keymap.ModeNormal
		return m, nil
	}
	stages := deal.Stages()

	switch command {
	case keymap.CmdLeft:
		g.targetCol = max(g.targetCol-1, 0)
		g.targetIndex = min(g.targetIndex, m.dropSlots(g))
	case keymap.CmdRight:
		g.targetCol = min(g.targetCol+1, len(stages)-1)
		g.targetIndex = min(g.targetIndex, m.dropSlots(g))
	case keymap.CmdUp:
		g.targetIndex = max(g.targetIndex-1, 0)
	case keymap.CmdDown:
		g.targetIndex = min(g.targetIndex+1, m.dropSlots(g))

	case keymap.CmdDrop:
		return m.drop(board.DragResult{
			SourceStage:      g.sourceStage,
			DestinationStage: stages[g.targetCol],
			SourceIndex:      g.sourceIndex,
			DestinationIndex: g.targetIndex,
			DealID:           g.dealID,
		})

	case keymap.CmdCancel:
		// Dropped outside any column.
		return m.drop(board.DragResult{
			SourceStage: g.sourceStage,
			SourceIndex: g.sourceIndex,
			DealID:      g.dealID,
		})
	}
	return m, nil
}

// dropSlots returns the last valid drop index in the grab's target column.
// Within the source column the card can only trade places, elsewhere it
// can also go after the last card.
func (m Model) dropSlots(g *grabState) int {
	stage := deal.Stages()[g.targetCol]
	n := len(m.column(stage).Deals)
	if stage == g.sourceStage {
		return max(n-1, 0)
	}
	return n
}

// drop ends the grab and hands the result to the board. A committing move
// is sent to the system of record off the event loop.
func (m Model) drop(result board.DragResult) (tea.Model, tea.Cmd) {
	m.grab = nil
	m.mode = keymap.ModeNormal

	mv, err := m.board.OnDragEnd(result)
	if err != nil {
		if isMoveInFlight(err) {
			return m, m.setBanner("still saving the previous move of this deal")
		}
		return m, m.setBanner(fmt.Sprintf("could not move deal: %v", err))
	}
	if mv == nil {
		return m, nil
	}

	m.focusDeal(mv.DealID)
	for _, stage := range deal.Stages() {
		m.clampStage(stage)
	}
	return m, tea.Batch(
		msg.CommitMove(m.ctx, m.board.Drag(), mv),
		m.reconcile(),
	)
}

func (m Model) handleNotificationsKey(command keymap.Command) (tea.Model, tea.Cmd) {
	switch command {
	case keymap.CmdUp:
		m.notifCursor = max(m.notifCursor-1, 0)
	case keymap.CmdDown:
		m.notifCursor = min(m.notifCursor+1, max(len(m.unread)-1, 0))

	case keymap.CmdOpen:
		if m.notifCursor >= len(m.unread) {
			return m, nil
		}
		note := m.unread[m.notifCursor]
		markCmd := m.markRead([]string{note.ID})
		if _, ok := m.board.Deal(note.DealID); !ok {
			m.mode = keymap.ModeNormal
			return m, tea.Batch(markCmd, m.setBanner("deal "+note.DealID+" is not on the board"))
		}
		m.focusDeal(note.DealID)
		next, cmd := m.openDeal(note.DealID)
		return next, tea.Batch(markCmd, cmd)

	case keymap.CmdMarkRead:
		if m.notifCursor < len(m.unread) {
			return m, m.markRead([]string{m.unread[m.notifCursor].ID})
		}

	case keymap.CmdMarkAllRead:
		ids := make([]string, 0, len(m.unread))
		for _, note := range m.unread {
			ids = append(ids, note.ID)
		}
		return m, m.markRead(ids)

	case keymap.CmdCancel, keymap.CmdNotifications:
		m.mode = keymap.ModeNormal
	}
	return m, nil
}

// markRead drops ids from the visible list right away and acknowledges
// them through the read marker.
func (m *Model) markRead(ids []string) tea.Cmd {
	if len(ids) == 0 || m.reads == nil {
		return nil
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := make([]deal.Notification, 0, len(m.unread))
	for _, note := range m.unread {
		if !drop[note.ID] {
			kept = append(kept, note)
		}
	}
	m.unread = kept
	m.notifCursor = min(m.notifCursor, max(len(kept)-1, 0))
	return msg.MarkRead(m.ctx, m.reads, ids)
}
