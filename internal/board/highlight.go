package board

import "github.com/pipeboard/pipeboard/internal/deal"

// ViewStateReader is the read side of the view-state store.
type ViewStateReader interface {
	LastViewedDealID() (string, bool)
}

// ViewState is the read/write view-state store used by the select action.
type ViewState interface {
	ViewStateReader
	SetLastViewedDealID(id string) error
}

// HighlightTracker follows the last viewed deal: it highlights the card,
// expands the column hiding it and requests a single scroll into view.
// It only reads the view state.
type HighlightTracker struct {
	state ViewStateReader

	// seen is the last id Reconcile observed; a change re-arms the scroll.
	seen  string
	armed bool

	// at is where the deal sat at the last Reconcile; placed is false until
	// it was found on the board.
	at     position
	placed bool
}

type position struct {
	stage deal.Stage
	index int
}

// NewHighlightTracker creates a tracker reading from state.
func NewHighlightTracker(state ViewStateReader) *HighlightTracker {
	return &HighlightTracker{state: state}
}

// Arm requests another scroll into view on the next Reconcile, for example
// after the deal collection was replaced.
func (h *HighlightTracker) Arm() {
	h.armed = true
}

// Armed reports whether a scroll is pending.
func (h *HighlightTracker) Armed() bool {
	return h.armed
}

// IsHighlighted reports whether id is the last viewed deal.
func (h *HighlightTracker) IsHighlighted(id string) bool {
	last, ok := h.state.LastViewedDealID()
	return ok && id != "" && last == id
}

// Reconcile applies the highlight to the current columns. Whenever the
// last viewed deal is new, the collection was replaced, or the deal changed
// column or position, its column is force-expanded if the card sits beyond
// the collapsed cut. A column the user collapsed stays collapsed while the
// card stays put.
//
// The deal id is returned as a one-shot scroll target when the id changed,
// the collection was replaced, or the deal moved to another column. A deal
// that is not (yet) on the board keeps the scroll armed for a later reload.
func (h *HighlightTracker) Reconcile(columns []Column, expansion *Expansion) (scrollTo string, ok bool) {
	id, present := h.state.LastViewedDealID()
	if !present {
		h.seen = ""
		h.armed = false
		h.placed = false
		return "", false
	}
	if id != h.seen {
		h.seen = id
		h.armed = true
		h.placed = false
	}

	at, found := locate(columns, id)
	if !found {
		h.placed = false
		return "", false
	}
	moved := !h.placed || at != h.at
	if h.placed && at.stage != h.at.stage {
		h.armed = true
	}
	h.at = at
	h.placed = true

	if (moved || h.armed) && at.index >= DefaultVisible && !expansion.Expanded(at.stage) {
		expansion.Force(at.stage)
	}
	if !h.armed {
		return "", false
	}
	h.armed = false
	return id, true
}

// locate finds id in the full ordered deal lists of columns.
func locate(columns []Column, id string) (position, bool) {
	for _, col := range columns {
		for i, d := range col.Deals {
			if d.ID == id {
				return position{stage: col.Stage, index: i}, true
			}
		}
	}
	return position{}, false
}
