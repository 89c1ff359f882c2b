package board

import "github.com/pipeboard/pipeboard/internal/deal"

// DefaultVisible is the number of cards a collapsed column shows.
const DefaultVisible = 4

// Expansion tracks which stage columns are expanded. Columns start
// collapsed. Only Toggle collapses a column again.
type Expansion struct {
	expanded map[deal.Stage]bool
}

// NewExpansion returns an Expansion with every column collapsed.
func NewExpansion() *Expansion {
	return &Expansion{expanded: make(map[deal.Stage]bool)}
}

// Expanded reports whether the column for stage is expanded.
func (e *Expansion) Expanded(stage deal.Stage) bool {
	return e.expanded[stage]
}

// Toggle flips the column and returns its new state.
func (e *Expansion) Toggle(stage deal.Stage) bool {
	e.expanded[stage] = !e.expanded[stage]
	return e.expanded[stage]
}

// Force expands the column. It never collapses.
func (e *Expansion) Force(stage deal.Stage) {
	e.expanded[stage] = true
}

// Visible returns the deals a column renders: all of them when expanded,
// otherwise the first DefaultVisible in order.
func (e *Expansion) Visible(stage deal.Stage, deals []deal.Deal) []deal.Deal {
	if e.Expanded(stage) || len(deals) <= DefaultVisible {
		return deals
	}
	return deals[:DefaultVisible]
}

// HasControl reports whether a column holding n deals shows an
// expand/collapse control.
func HasControl(n int) bool {
	return n > DefaultVisible
}
