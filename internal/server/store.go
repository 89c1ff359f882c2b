package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pipeboard/pipeboard/internal/deal"
)

var (
	// ErrDealNotFound is returned for an unknown deal id.
	ErrDealNotFound = errors.New("deal not found")
	// ErrInvalidStage is returned for a stage label outside the pipeline.
	ErrInvalidStage = errors.New("invalid stage")
)

// Store is the system of record behind the API.
type Store interface {
	ListDeals(ctx context.Context, scope deal.Scope) ([]deal.Deal, error)
	UpdateStage(ctx context.Context, id string, stage deal.Stage) (deal.Deal, error)
	PendingNotifications(ctx context.Context, viewer deal.Scope) ([]deal.Notification, error)
	MarkRead(ctx context.Context, viewer deal.Scope, ids []string) error
}

type storedNotification struct {
	note deal.Notification
	// audience is either a role ("admin") or an owner id.
	audienceRole deal.Role
	audienceUser string
	readBy       map[string]bool
}

func (s *storedNotification) visibleTo(viewer deal.Scope) bool {
	if s.audienceRole != "" {
		return viewer.Role == s.audienceRole
	}
	return viewer.UserID != "" && viewer.UserID == s.audienceUser
}

// MemoryStore keeps deals and notifications in memory. Deals keep their
// insertion order. It is safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	deals []deal.Deal
	index map[string]int
	notes []*storedNotification
	now   func() time.Time
}

// NewMemoryStore creates a store holding deals in the given order.
func NewMemoryStore(deals []deal.Deal) *MemoryStore {
	s := &MemoryStore{
		index: make(map[string]int, len(deals)),
		now:   time.Now,
	}
	for _, d := range deals {
		if _, dup := s.index[d.ID]; dup {
			continue
		}
		s.index[d.ID] = len(s.deals)
		s.deals = append(s.deals, d.Clone())
	}
	return s
}

// ListDeals returns the deals visible to scope in insertion order.
func (s *MemoryStore) ListDeals(_ context.Context, scope deal.Scope) ([]deal.Deal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]deal.Deal, 0, len(s.deals))
	for _, d := range s.deals {
		if scope.Includes(d) {
			out = append(out, d.Clone())
		}
	}
	return out, nil
}

// UpdateStage moves a deal and applies the quotation side effects of the
// destination stage.
func (s *MemoryStore) UpdateStage(_ context.Context, id string, stage deal.Stage) (deal.Deal, error) {
	if !stage.Valid() {
		return deal.Deal{}, fmt.Errorf("%w: %q", ErrInvalidStage, stage)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return deal.Deal{}, fmt.Errorf("%w: %s", ErrDealNotFound, id)
	}
	d := &s.deals[i]
	previous := d.Stage
	d.Stage = stage

	switch stage {
	case deal.StageProposition:
		if d.QuotationStatus != deal.QuotationPending {
			d.QuotationStatus = deal.QuotationPending
			s.addNote(storedNotification{
				note: deal.Notification{
					DealID:   d.ID,
					Kind:     deal.KindQuotationApproval,
					Message:  fmt.Sprintf("Quotation for %s awaits approval", d.Customer),
					Customer: d.Customer,
					Stage:    stage,
				},
				audienceRole: deal.RoleAdmin,
			})
		}
	case deal.StageWon:
		if d.QuotationStatus == deal.QuotationPending {
			d.QuotationStatus = deal.QuotationApproved
		}
	case deal.StageLost:
		if d.QuotationStatus == deal.QuotationPending {
			d.QuotationStatus = deal.QuotationRejected
		}
	}

	if previous != stage && d.OwnerID != "" {
		s.addNote(storedNotification{
			note: deal.Notification{
				DealID:   d.ID,
				Kind:     deal.KindStageChange,
				Message:  fmt.Sprintf("%s moved from %s to %s", d.Customer, previous, stage),
				Customer: d.Customer,
				Stage:    stage,
			},
			audienceUser: d.OwnerID,
		})
	}
	return d.Clone(), nil
}

func (s *MemoryStore) addNote(n storedNotification) {
	n.note.ID = uuid.NewString()
	n.note.CreatedAt = s.now().UTC()
	n.readBy = make(map[string]bool)
	s.notes = append(s.notes, &n)
}

// PendingNotifications returns the unread notifications for viewer, oldest first.
func (s *MemoryStore) PendingNotifications(_ context.Context, viewer deal.Scope) ([]deal.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]deal.Notification, 0)
	for _, n := range s.notes {
		if n.visibleTo(viewer) && !n.readBy[viewer.UserID] {
			out = append(out, n.note)
		}
	}
	return out, nil
}

// MarkRead marks ids read for viewer. Unknown ids are ignored.
func (s *MemoryStore) MarkRead(_ context.Context, viewer deal.Scope, ids []string) error {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.notes {
		if _, ok := want[n.note.ID]; ok && n.visibleTo(viewer) {
			n.readBy[viewer.UserID] = true
		}
	}
	return nil
}
