package event

import (
	"time"

	"github.com/pipeboard/pipeboard/internal/deal"
)

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns a string identifier for this event type.
	// Convention: "category.action" (e.g., "move.confirmed").
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Event type identifiers.
const (
	TypeMoveCommitting = "move.committing"
	TypeMoveConfirmed  = "move.confirmed"
	TypeMoveRolledBack = "move.rolled_back"
	TypeDealsReloaded  = "deals.reloaded"
	TypeReloadDeferred = "deals.reload_deferred"
	TypeReloadStale    = "deals.reload_stale"
	TypeDealSelected   = "deal.selected"
)

// baseEvent provides common fields for all events.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(eventType string) baseEvent {
	return baseEvent{eventType: eventType, timestamp: time.Now()}
}

// -----------------------------------------------------------------------------
// Move Events
// -----------------------------------------------------------------------------

// MoveCommittingEvent is emitted after a deal was moved optimistically and
// the remote update has been issued.
type MoveCommittingEvent struct {
	baseEvent
	MoveID int64
	DealID string
	From   deal.Stage
	To     deal.Stage
}

// NewMoveCommittingEvent creates a MoveCommittingEvent.
func NewMoveCommittingEvent(moveID int64, dealID string, from, to deal.Stage) MoveCommittingEvent {
	return MoveCommittingEvent{
		baseEvent: newBaseEvent(TypeMoveCommitting),
		MoveID:    moveID,
		DealID:    dealID,
		From:      from,
		To:        to,
	}
}

// MoveConfirmedEvent is emitted when the remote accepted a move.
type MoveConfirmedEvent struct {
	baseEvent
	MoveID int64
	DealID string
	Stage  deal.Stage
}

// NewMoveConfirmedEvent creates a MoveConfirmedEvent.
func NewMoveConfirmedEvent(moveID int64, dealID string, stage deal.Stage) MoveConfirmedEvent {
	return MoveConfirmedEvent{
		baseEvent: newBaseEvent(TypeMoveConfirmed),
		MoveID:    moveID,
		DealID:    dealID,
		Stage:     stage,
	}
}

// MoveRolledBackEvent is emitted when a move failed and the cache was restored.
type MoveRolledBackEvent struct {
	baseEvent
	MoveID int64
	DealID string
	Err    error
}

// NewMoveRolledBackEvent creates a MoveRolledBackEvent.
func NewMoveRolledBackEvent(moveID int64, dealID string, err error) MoveRolledBackEvent {
	return MoveRolledBackEvent{
		baseEvent: newBaseEvent(TypeMoveRolledBack),
		MoveID:    moveID,
		DealID:    dealID,
		Err:       err,
	}
}

// -----------------------------------------------------------------------------
// Reload Events
// -----------------------------------------------------------------------------

// DealsReloadedEvent is emitted when the cache was replaced by a fetch.
type DealsReloadedEvent struct {
	baseEvent
	Count int
}

// NewDealsReloadedEvent creates a DealsReloadedEvent.
func NewDealsReloadedEvent(count int) DealsReloadedEvent {
	return DealsReloadedEvent{baseEvent: newBaseEvent(TypeDealsReloaded), Count: count}
}

// ReloadDeferredEvent is emitted when a reload arrived while moves were committing.
type ReloadDeferredEvent struct {
	baseEvent
	Committing int
}

// NewReloadDeferredEvent creates a ReloadDeferredEvent.
func NewReloadDeferredEvent(committing int) ReloadDeferredEvent {
	return ReloadDeferredEvent{baseEvent: newBaseEvent(TypeReloadDeferred), Committing: committing}
}

// ReloadStaleEvent is emitted when a reload was discarded because a move
// was confirmed after the fetch started.
type ReloadStaleEvent struct {
	baseEvent
	Ticket     uint64
	Generation uint64
}

// NewReloadStaleEvent creates a ReloadStaleEvent.
func NewReloadStaleEvent(ticket, generation uint64) ReloadStaleEvent {
	return ReloadStaleEvent{
		baseEvent:  newBaseEvent(TypeReloadStale),
		Ticket:     ticket,
		Generation: generation,
	}
}

// -----------------------------------------------------------------------------
// Navigation Events
// -----------------------------------------------------------------------------

// DealSelectedEvent is emitted when a card is opened.
type DealSelectedEvent struct {
	baseEvent
	DealID string
}

// NewDealSelectedEvent creates a DealSelectedEvent.
func NewDealSelectedEvent(dealID string) DealSelectedEvent {
	return DealSelectedEvent{baseEvent: newBaseEvent(TypeDealSelected), DealID: dealID}
}
