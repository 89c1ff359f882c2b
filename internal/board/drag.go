package board

import (
	"context"
	"errors"
	"fmt"

	"github.com/pipeboard/pipeboard/internal/cache"
	"github.com/pipeboard/pipeboard/internal/deal"
	"github.com/pipeboard/pipeboard/internal/event"
	"github.com/pipeboard/pipeboard/internal/logging"
)

// ErrMoveInFlight is returned when a deal is dragged again before its
// previous move finished.
var ErrMoveInFlight = errors.New("move already in flight for this deal")

// DragResult describes a finished drag gesture. An empty DestinationStage
// means the card was dropped outside any column.
type DragResult struct {
	SourceStage      deal.Stage `json:"sourceStage"`
	DestinationStage deal.Stage `json:"destinationStage"`
	SourceIndex      int        `json:"sourceIndex"`
	DestinationIndex int        `json:"destinationIndex"`
	DealID           string     `json:"dealId"`
}

// IsNoop reports whether the drag changes nothing: dropped outside, or put
// back where it came from.
func (r DragResult) IsNoop() bool {
	if r.DestinationStage == "" {
		return true
	}
	return r.DestinationStage == r.SourceStage && r.DestinationIndex == r.SourceIndex
}

// MoveState is the lifecycle state of a single move.
type MoveState int

const (
	MoveIdle MoveState = iota
	MoveCommitting
	MoveConfirmed
	MoveRolledBack
)

func (s MoveState) String() string {
	switch s {
	case MoveIdle:
		return "idle"
	case MoveCommitting:
		return "committing"
	case MoveConfirmed:
		return "confirmed"
	case MoveRolledBack:
		return "rolled_back"
	default:
		return fmt.Sprintf("MoveState(%d)", int(s))
	}
}

// StageUpdater persists a stage change at the system of record.
type StageUpdater interface {
	UpdateDealStage(ctx context.Context, dealID string, stage deal.Stage) error
}

// Move is one optimistic stage change and its outcome.
type Move struct {
	ID     int64
	DealID string
	From   deal.Stage
	To     deal.Stage
	State  MoveState
	Err    error

	snapshot cache.Snapshot
	// overlapped is set when another move was in flight at any point during
	// this one; the snapshot may then be stale for other deals.
	overlapped bool
}

// DragController applies drags to the cache optimistically and settles
// them once the system of record answers. It is not safe for concurrent
// use; the board's event loop owns it.
type DragController struct {
	cache   *cache.DealCache
	updater StageUpdater
	bus     *event.Bus
	logger  *logging.Logger

	lastID   int64
	inflight map[int64]*Move
}

// NewDragController creates a controller mutating c and persisting through
// updater. bus and logger may be nil.
func NewDragController(c *cache.DealCache, updater StageUpdater, bus *event.Bus, logger *logging.Logger) *DragController {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &DragController{
		cache:    c,
		updater:  updater,
		bus:      bus,
		logger:   logger.WithComponent("drag"),
		inflight: make(map[int64]*Move),
	}
}

// Committing returns the number of moves awaiting an answer.
func (d *DragController) Committing() int {
	return len(d.inflight)
}

// IsCommitting reports whether a move of dealID awaits an answer.
func (d *DragController) IsCommitting(dealID string) bool {
	for _, m := range d.inflight {
		if m.DealID == dealID {
			return true
		}
	}
	return false
}

// Begin applies r to the cache and returns the committing move. It returns
// (nil, nil) when the drag is a no-op or the deal is not in the cache; no
// remote call must be issued in that case.
func (d *DragController) Begin(r DragResult) (*Move, error) {
	if r.IsNoop() {
		return nil, nil
	}
	if !r.DestinationStage.Valid() {
		return nil, fmt.Errorf("drop on unknown stage %q", r.DestinationStage)
	}

	current, ok := d.cache.Get(r.DealID)
	if !ok {
		d.logger.Debug("ignoring drag of unknown deal", "deal_id", r.DealID)
		return nil, nil
	}
	if d.IsCommitting(r.DealID) {
		return nil, fmt.Errorf("deal %s: %w", r.DealID, ErrMoveInFlight)
	}

	snap := d.cache.Snapshot()
	d.cache.SetStage(r.DealID, r.DestinationStage)

	d.lastID++
	m := &Move{
		ID:         d.lastID,
		DealID:     r.DealID,
		From:       current.Stage,
		To:         r.DestinationStage,
		State:      MoveCommitting,
		snapshot:   snap,
		overlapped: len(d.inflight) > 0,
	}
	for _, other := range d.inflight {
		other.overlapped = true
	}
	d.inflight[m.ID] = m

	d.logger.Info("move committing",
		"move_id", m.ID,
		"deal_id", m.DealID,
		"from", m.From,
		"to", m.To,
	)
	d.publish(event.NewMoveCommittingEvent(m.ID, m.DealID, m.From, m.To))
	return m, nil
}

// Commit issues the remote update for m. It does not touch the cache and
// may run off the event loop.
func (d *DragController) Commit(ctx context.Context, m *Move) error {
	if err := d.updater.UpdateDealStage(ctx, m.DealID, m.To); err != nil {
		return fmt.Errorf("update stage of deal %s to %s: %w", m.DealID, m.To, err)
	}
	return nil
}

// Finish settles m with the outcome of Commit. On failure the cache is
// restored to the exact pre-move snapshot when no other move committed
// while m was in flight. Otherwise only the moved deal goes back to its
// previous stage, so the other moves keep their own outcome. Failed moves
// are never retried.
func (d *DragController) Finish(m *Move, err error) {
	if m == nil || m.State != MoveCommitting {
		return
	}
	delete(d.inflight, m.ID)

	if err == nil {
		m.State = MoveConfirmed
		d.logger.Info("move confirmed", "move_id", m.ID, "deal_id", m.DealID, "stage", m.To)
		d.publish(event.NewMoveConfirmedEvent(m.ID, m.DealID, m.To))
		return
	}

	if !m.overlapped {
		d.cache.Restore(m.snapshot)
	} else {
		d.cache.SetStage(m.DealID, m.From)
	}
	m.State = MoveRolledBack
	m.Err = err
	d.logger.Warn("move rolled back", "move_id", m.ID, "deal_id", m.DealID, "error", err)
	d.publish(event.NewMoveRolledBackEvent(m.ID, m.DealID, err))
}

// Move runs the whole protocol synchronously: Begin, Commit, Finish.
// It returns the settled move (nil for a no-op) and the commit error.
func (d *DragController) Move(ctx context.Context, r DragResult) (*Move, error) {
	m, err := d.Begin(r)
	if err != nil || m == nil {
		return nil, err
	}
	err = d.Commit(ctx, m)
	d.Finish(m, err)
	return m, err
}

func (d *DragController) publish(e event.Event) {
	if d.bus != nil {
		d.bus.Publish(e)
	}
}
