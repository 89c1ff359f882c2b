package msg

import (
	"github.com/pipeboard/pipeboard/internal/board"
	"github.com/pipeboard/pipeboard/internal/deal"
)

// DealsLoadedMsg carries the result of a deal fetch. Ticket is the reload
// ticket taken when the fetch was issued.
type DealsLoadedMsg struct {
	Ticket board.ReloadTicket
	Deals  []deal.Deal
	Err    error
}

// MoveSettledMsg carries the system of record's answer to a committing move.
type MoveSettledMsg struct {
	Move *board.Move
	Err  error
}

// ScrollToDealMsg asks the board to bring a deal into view.
type ScrollToDealMsg struct {
	DealID string
}

// NotificationsMsg carries the poller's unread list whenever it changes.
type NotificationsMsg struct {
	Unread []deal.Notification
}

// MarkReadDoneMsg reports the remote outcome of marking notifications read.
// The local list was already updated.
type MarkReadDoneMsg struct {
	IDs []string
	Err error
}

// ViewStateChangedMsg signals that the last viewed deal was changed outside
// the board, for example by `pipeboard open`.
type ViewStateChangedMsg struct {
	DealID string
}

// ClearBannerMsg expires the error banner with the given sequence number.
type ClearBannerMsg struct {
	Seq int
}
