// Package board composes the pipeline board: the deal cache rendered into
// stage columns, optimistic drag moves, live KPIs, column expansion and the
// last-viewed highlight. All of it is driven from a single event loop and
// carries no locks.
package board

import (
	"fmt"

	"github.com/pipeboard/pipeboard/internal/aggregate"
	"github.com/pipeboard/pipeboard/internal/cache"
	"github.com/pipeboard/pipeboard/internal/deal"
	"github.com/pipeboard/pipeboard/internal/event"
	"github.com/pipeboard/pipeboard/internal/logging"
)

// Column is one stage column as rendered.
type Column struct {
	Stage deal.Stage
	// Deals is the full ordered list; Visible is what the column shows.
	Deals      []deal.Deal
	Visible    []deal.Deal
	Expanded   bool
	HasControl bool
	Count      int
	Revenue    float64
	Margin     float64
}

// Hidden returns how many cards the collapsed column is not showing.
func (c Column) Hidden() int {
	return len(c.Deals) - len(c.Visible)
}

// Options tune board behavior.
type Options struct {
	// ReconcileOnConfirm requests a reload after every confirmed move.
	ReconcileOnConfirm bool
}

// ReloadTicket identifies when a reload was requested, measured in
// confirmed moves.
type ReloadTicket uint64

// ReloadOutcome tells the caller what happened to a fetched deal list.
type ReloadOutcome int

const (
	// ReloadApplied means the cache now holds the fetched deals.
	ReloadApplied ReloadOutcome = iota
	// ReloadDeferred means moves are committing; the payload is held.
	ReloadDeferred
	// ReloadStale means a move was confirmed after the fetch was requested;
	// the payload was dropped and the caller should fetch again.
	ReloadStale
)

func (o ReloadOutcome) String() string {
	switch o {
	case ReloadApplied:
		return "applied"
	case ReloadDeferred:
		return "deferred"
	case ReloadStale:
		return "stale"
	default:
		return fmt.Sprintf("ReloadOutcome(%d)", int(o))
	}
}

type pendingReload struct {
	ticket ReloadTicket
	deals  []deal.Deal
}

// Board is the render surface and state owner of the pipeline board.
type Board struct {
	cache     *cache.DealCache
	expansion *Expansion
	highlight *HighlightTracker
	drag      *DragController
	views     ViewState
	bus       *event.Bus
	logger    *logging.Logger
	opts      Options

	generation uint64
	deferred   *pendingReload
	loaded     bool
}

// New creates an empty board. Deals arrive through ApplyReload.
func New(updater StageUpdater, views ViewState, bus *event.Bus, logger *logging.Logger, opts Options) *Board {
	if logger == nil {
		logger = logging.NopLogger()
	}
	c := cache.New()
	return &Board{
		cache:     c,
		expansion: NewExpansion(),
		highlight: NewHighlightTracker(views),
		drag:      NewDragController(c, updater, bus, logger),
		views:     views,
		bus:       bus,
		logger:    logger.WithComponent("board"),
		opts:      opts,
	}
}

// Loaded reports whether a deal list has been applied at least once.
func (b *Board) Loaded() bool {
	return b.loaded
}

// Deal returns the cached deal with id.
func (b *Board) Deal(id string) (deal.Deal, bool) {
	return b.cache.Get(id)
}

// Deals returns every cached deal in load order.
func (b *Board) Deals() []deal.Deal {
	return b.cache.All()
}

// Columns returns one column per stage, in stage order, computed from the
// current cache.
func (b *Board) Columns() []Column {
	stages := deal.Stages()
	cols := make([]Column, 0, len(stages))
	for _, stage := range stages {
		deals := b.cache.InStage(stage)
		cols = append(cols, Column{
			Stage:      stage,
			Deals:      deals,
			Visible:    b.expansion.Visible(stage, deals),
			Expanded:   b.expansion.Expanded(stage),
			HasControl: HasControl(len(deals)),
			Count:      len(deals),
			Revenue:    aggregate.RevenueFor(deals, stage),
			Margin:     aggregate.MarginFor(deals, stage),
		})
	}
	return cols
}

// Buckets returns the KPI buckets for the current cache.
func (b *Board) Buckets() []aggregate.Bucket {
	return aggregate.Buckets(b.cache.All())
}

// Totals returns the board-wide count, revenue and margin.
func (b *Board) Totals() (count int, revenue, margin float64) {
	return aggregate.Totals(b.cache.All())
}

// ToggleColumn flips the expansion of a stage column.
func (b *Board) ToggleColumn(stage deal.Stage) bool {
	return b.expansion.Toggle(stage)
}

// IsHighlighted reports whether id is the last viewed deal.
func (b *Board) IsHighlighted(id string) bool {
	return b.highlight.IsHighlighted(id)
}

// Reconcile applies the last-viewed highlight to the columns and returns
// the deal to scroll to, if a scroll is due. Call it after every change.
func (b *Board) Reconcile() (scrollTo string, ok bool) {
	return b.highlight.Reconcile(b.Columns(), b.expansion)
}

// OnSelectOpportunity records id as the last viewed deal. The caller
// navigates to the deal afterwards.
func (b *Board) OnSelectOpportunity(id string) error {
	if err := b.views.SetLastViewedDealID(id); err != nil {
		return fmt.Errorf("record last viewed deal: %w", err)
	}
	b.logger.Debug("deal selected", "deal_id", id)
	b.publish(event.NewDealSelectedEvent(id))
	return nil
}

// OnDragEnd applies a drag optimistically. A nil move means nothing changed
// and no remote call is needed.
func (b *Board) OnDragEnd(r DragResult) (*Move, error) {
	return b.drag.Begin(r)
}

// Drag exposes the controller for callers that run the remote call.
func (b *Board) Drag() *DragController {
	return b.drag
}

// FinishMove settles a move and resolves any reload deferred behind it. It
// reports whether the caller should fetch the deals again.
func (b *Board) FinishMove(m *Move, err error) (refetch bool) {
	if m == nil {
		return false
	}
	b.drag.Finish(m, err)
	if m.State == MoveConfirmed {
		b.generation++
		refetch = b.opts.ReconcileOnConfirm
	}

	if b.drag.Committing() > 0 || b.deferred == nil {
		return refetch
	}
	pending := b.deferred
	b.deferred = nil
	if b.ApplyReload(pending.ticket, pending.deals) == ReloadStale {
		refetch = true
	}
	return refetch
}

// RequestReload returns the ticket to attach to a new fetch.
func (b *Board) RequestReload() ReloadTicket {
	return ReloadTicket(b.generation)
}

// ApplyReload offers a fetched deal list to the board. Payloads fetched
// before a later confirmation are dropped as stale; payloads arriving while
// moves are committing are held until the last one settles. Replacing the
// whole cache mid-commit would otherwise clobber the optimistic stage with
// whatever the server held when the fetch started.
func (b *Board) ApplyReload(ticket ReloadTicket, deals []deal.Deal) ReloadOutcome {
	if uint64(ticket) < b.generation {
		b.logger.Debug("dropping stale reload", "ticket", uint64(ticket), "generation", b.generation)
		b.publish(event.NewReloadStaleEvent(uint64(ticket), b.generation))
		return ReloadStale
	}
	if n := b.drag.Committing(); n > 0 {
		b.deferred = &pendingReload{ticket: ticket, deals: deals}
		b.logger.Debug("deferring reload", "committing", n)
		b.publish(event.NewReloadDeferredEvent(n))
		return ReloadDeferred
	}

	b.cache.Load(deals)
	b.loaded = true
	b.highlight.Arm()
	b.logger.Info("deals reloaded", "count", b.cache.Len())
	b.publish(event.NewDealsReloadedEvent(b.cache.Len()))
	return ReloadApplied
}

func (b *Board) publish(e event.Event) {
	if b.bus != nil {
		b.bus.Publish(e)
	}
}
