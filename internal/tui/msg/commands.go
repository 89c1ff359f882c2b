package msg

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pipeboard/pipeboard/internal/board"
	"github.com/pipeboard/pipeboard/internal/deal"
)

// DealFetcher loads the deals visible to a scope.
type DealFetcher interface {
	FetchDeals(ctx context.Context, scope deal.Scope) ([]deal.Deal, error)
}

// ReadMarker acknowledges notifications.
type ReadMarker interface {
	MarkRead(ctx context.Context, ids []string) error
}

// FetchDeals returns a command that loads the deals for scope and tags the
// result with ticket.
func FetchDeals(ctx context.Context, f DealFetcher, scope deal.Scope, ticket board.ReloadTicket) tea.Cmd {
	return func() tea.Msg {
		deals, err := f.FetchDeals(ctx, scope)
		return DealsLoadedMsg{Ticket: ticket, Deals: deals, Err: err}
	}
}

// CommitMove returns a command that sends m to the system of record. The
// cache is not touched here; the result is settled in Update.
func CommitMove(ctx context.Context, d *board.DragController, m *board.Move) tea.Cmd {
	return func() tea.Msg {
		return MoveSettledMsg{Move: m, Err: d.Commit(ctx, m)}
	}
}

// ScrollAfter returns a command that requests a scroll to dealID after
// delay, giving a forced column expansion one render to land first.
func ScrollAfter(delay time.Duration, dealID string) tea.Cmd {
	if delay <= 0 {
		return func() tea.Msg { return ScrollToDealMsg{DealID: dealID} }
	}
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return ScrollToDealMsg{DealID: dealID}
	})
}

// MarkRead returns a command that marks ids read through r.
func MarkRead(ctx context.Context, r ReadMarker, ids []string) tea.Cmd {
	return func() tea.Msg {
		return MarkReadDoneMsg{IDs: ids, Err: r.MarkRead(ctx, ids)}
	}
}

// ClearBannerAfter returns a command that expires banner seq after d.
func ClearBannerAfter(d time.Duration, seq int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearBannerMsg{Seq: seq}
	})
}
