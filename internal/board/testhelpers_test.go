package board

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/pipeboard/pipeboard/internal/deal"
	"github.com/pipeboard/pipeboard/internal/event"
	"github.com/pipeboard/pipeboard/internal/viewstate"
)

var errRemote = errors.New("remote rejected update")

// fakeUpdater records stage updates and fails when err is set.
type fakeUpdater struct {
	calls []updateCall
	err   error
}

type updateCall struct {
	DealID string
	Stage  deal.Stage
}

func (f *fakeUpdater) UpdateDealStage(_ context.Context, dealID string, stage deal.Stage) error {
	f.calls = append(f.calls, updateCall{DealID: dealID, Stage: stage})
	return f.err
}

// recorder collects event types published on a bus.
type recorder struct {
	types []string
}

func newRecordingBus() (*event.Bus, *recorder) {
	bus := event.NewBus()
	rec := &recorder{}
	bus.SubscribeAll(func(e event.Event) { rec.types = append(rec.types, e.EventType()) })
	return bus, rec
}

func mkDeal(id string, stage deal.Stage, revenue float64) deal.Deal {
	return deal.Deal{ID: id, Stage: stage, ExpectedRevenue: revenue, Customer: "Customer " + id}
}

func nDeals(prefix string, stage deal.Stage, n int) []deal.Deal {
	out := make([]deal.Deal, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, mkDeal(fmt.Sprintf("%s%d", prefix, i), stage, 100))
	}
	return out
}

func newTestBoard(t *testing.T, deals []deal.Deal, opts Options) (*Board, *fakeUpdater, *viewstate.Store, *recorder) {
	t.Helper()
	up := &fakeUpdater{}
	views := viewstate.NewMemory()
	bus, rec := newRecordingBus()
	b := New(up, views, bus, nil, opts)
	if got := b.ApplyReload(b.RequestReload(), deals); got != ReloadApplied {
		t.Fatalf("initial ApplyReload() = %v, want applied", got)
	}
	return b, up, views, rec
}

func column(t *testing.T, b *Board, stage deal.Stage) Column {
	t.Helper()
	for _, c := range b.Columns() {
		if c.Stage == stage {
			return c
		}
	}
	t.Fatalf("no column for stage %s", stage)
	return Column{}
}

func stagesByID(deals []deal.Deal) map[string]deal.Stage {
	m := make(map[string]deal.Stage, len(deals))
	for _, d := range deals {
		m[d.ID] = d.Stage
	}
	return m
}
