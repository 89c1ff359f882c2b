// Package event provides a pub-sub event bus for board lifecycle events.
//
// The board publishes what happens to moves and reloads; listeners such as
// the audit logger or the TUI status line subscribe without the board
// knowing about them.
//
// # Event Categories
//
// Moves:
//   - [MoveCommittingEvent]: a deal was moved optimistically, update in flight
//   - [MoveConfirmedEvent]: the remote accepted the move
//   - [MoveRolledBackEvent]: the remote rejected the move, cache restored
//
// Reloads:
//   - [DealsReloadedEvent]: the cache was replaced by a fetch
//   - [ReloadDeferredEvent]: a fetch arrived while moves were committing
//   - [ReloadStaleEvent]: a fetch predated a confirmed move and was dropped
//
// Navigation:
//   - [DealSelectedEvent]: a card was opened
//
// # Thread Safety
//
// [Bus] is safe for concurrent use. Handlers run synchronously on the
// publishing goroutine; for the board that is the TUI event loop, so
// handlers must not block.
package event
