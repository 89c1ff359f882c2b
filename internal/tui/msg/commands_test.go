package msg

import (
	"context"
	"errors"
	"testing"

	"github.com/pipeboard/pipeboard/internal/board"
	"github.com/pipeboard/pipeboard/internal/cache"
	"github.com/pipeboard/pipeboard/internal/deal"
)

type fakeFetcher struct {
	deals []deal.Deal
	err   error
	scope deal.Scope
}

func (f *fakeFetcher) FetchDeals(_ context.Context, scope deal.Scope) ([]deal.Deal, error) {
	f.scope = scope
	return f.deals, f.err
}

type fakeUpdater struct {
	err   error
	calls int
}

func (u *fakeUpdater) UpdateDealStage(context.Context, string, deal.Stage) error {
	u.calls++
	return u.err
}

type fakeMarker struct {
	ids []string
	err error
}

func (m *fakeMarker) MarkRead(_ context.Context, ids []string) error {
	m.ids = ids
	return m.err
}

func TestFetchDeals(t *testing.T) {
	f := &fakeFetcher{deals: []deal.Deal{{ID: "d1", Stage: deal.StageNew}}}
	scope := deal.Scope{UserID: "alice", Role: deal.RoleSales}

	got := FetchDeals(context.Background(), f, scope, 3)()
	loaded, ok := got.(DealsLoadedMsg)
	if !ok {
		t.Fatalf("message type = %T, want DealsLoadedMsg", got)
	}
	if loaded.Ticket != 3 || len(loaded.Deals) != 1 || loaded.Err != nil {
		t.Errorf("DealsLoadedMsg = %+v", loaded)
	}
	if f.scope != scope {
		t.Errorf("fetched with scope %+v, want %+v", f.scope, scope)
	}

	f.err = errors.New("down")
	if loaded := FetchDeals(context.Background(), f, scope, 4)().(DealsLoadedMsg); loaded.Err == nil {
		t.Error("fetch error should be carried in the message")
	}
}

func TestCommitMove(t *testing.T) {
	c := cache.New()
	c.Load([]deal.Deal{{ID: "d1", Stage: deal.StageNew}})
	u := &fakeUpdater{err: errors.New("rejected")}
	d := board.NewDragController(c, u, nil, nil)

	m, err := d.Begin(board.DragResult{
		SourceStage:      deal.StageNew,
		DestinationStage: deal.StageWon,
		DealID:           "d1",
	})
	if err != nil || m == nil {
		t.Fatalf("Begin() = (%v, %v)", m, err)
	}

	settled := CommitMove(context.Background(), d, m)().(MoveSettledMsg)
	if settled.Move != m || !errors.Is(settled.Err, u.err) {
		t.Errorf("MoveSettledMsg = %+v", settled)
	}
	if u.calls != 1 {
		t.Errorf("updater calls = %d, want 1", u.calls)
	}
	// Committing does not settle: the cache keeps the optimistic stage.
	if got, _ := c.Get("d1"); got.Stage != deal.StageWon {
		t.Errorf("stage after commit = %s, want Won", got.Stage)
	}
}

func TestScrollAfterZeroDelay(t *testing.T) {
	got := ScrollAfter(0, "d9")()
	if s, ok := got.(ScrollToDealMsg); !ok || s.DealID != "d9" {
		t.Errorf("ScrollAfter(0) = %#v", got)
	}
}

func TestMarkRead(t *testing.T) {
	m := &fakeMarker{}
	got := MarkRead(context.Background(), m, []string{"n1", "n2"})().(MarkReadDoneMsg)
	if got.Err != nil || len(got.IDs) != 2 || len(m.ids) != 2 {
		t.Errorf("MarkReadDoneMsg = %+v, marker ids = %v", got, m.ids)
	}
}
