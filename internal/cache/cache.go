// Package cache holds the board's working set of deals.
//
// A DealCache is owned by the board's event loop. It is not safe for
// concurrent use; every mutation is a single synchronous assignment so a
// reader never observes a deal in two stages at once.
package cache

import "github.com/pipeboard/pipeboard/internal/deal"

// DealCache is the ordered collection of deals the board renders from.
type DealCache struct {
	deals []deal.Deal
	index map[string]int // deal ID -> position in deals
}

// Snapshot is an opaque copy of the cache contents used for rollback.
type Snapshot struct {
	deals []deal.Deal
}

// Len returns the number of deals in the snapshot.
func (s Snapshot) Len() int {
	return len(s.deals)
}

// New creates an empty cache.
func New() *DealCache {
	return &DealCache{index: make(map[string]int)}
}

// Load replaces the entire cache with deals, assigning each deal a Seq
// equal to its position in the slice. Nothing from the previous contents
// survives. Duplicate IDs keep their first occurrence.
func (c *DealCache) Load(deals []deal.Deal) {
	next := make([]deal.Deal, 0, len(deals))
	index := make(map[string]int, len(deals))
	for _, d := range deals {
		if _, dup := index[d.ID]; dup {
			continue
		}
		d = d.Clone()
		d.Seq = len(next)
		index[d.ID] = len(next)
		next = append(next, d)
	}
	c.deals = next
	c.index = index
}

// SetStage moves one deal to stage and returns the stage it had before.
// ok is false, and nothing changes, when id is not cached.
func (c *DealCache) SetStage(id string, stage deal.Stage) (previous deal.Stage, ok bool) {
	i, found := c.index[id]
	if !found {
		return "", false
	}
	previous = c.deals[i].Stage
	c.deals[i].Stage = stage
	return previous, true
}

// Snapshot captures a deep copy of the current contents.
func (c *DealCache) Snapshot() Snapshot {
	return Snapshot{deals: cloneAll(c.deals)}
}

// Restore reinstates a snapshot exactly, including Seq and order.
func (c *DealCache) Restore(s Snapshot) {
	deals := cloneAll(s.deals)
	index := make(map[string]int, len(deals))
	for i, d := range deals {
		index[d.ID] = i
	}
	c.deals = deals
	c.index = index
}

// Get returns a copy of the deal with the given ID.
func (c *DealCache) Get(id string) (deal.Deal, bool) {
	i, ok := c.index[id]
	if !ok {
		return deal.Deal{}, false
	}
	return c.deals[i].Clone(), true
}

// Has reports whether id is cached.
func (c *DealCache) Has(id string) bool {
	_, ok := c.index[id]
	return ok
}

// All returns a copy of every cached deal in Seq order.
func (c *DealCache) All() []deal.Deal {
	return cloneAll(c.deals)
}

// InStage returns the deals currently in stage, in Seq order.
func (c *DealCache) InStage(stage deal.Stage) []deal.Deal {
	var out []deal.Deal
	for _, d := range c.deals {
		if d.Stage == stage {
			out = append(out, d.Clone())
		}
	}
	return out
}

// Len returns the number of cached deals.
func (c *DealCache) Len() int {
	return len(c.deals)
}

func cloneAll(deals []deal.Deal) []deal.Deal {
	if deals == nil {
		return nil
	}
	out := make([]deal.Deal, len(deals))
	for i, d := range deals {
		out[i] = d.Clone()
	}
	return out
}
