package aggregate

import (
	"math/rand/v2"
	"testing"

	"github.com/pipeboard/pipeboard/internal/deal"
)

func TestCountAndRevenue(t *testing.T) {
	deals := []deal.Deal{
		{ID: "a", Stage: deal.StageNew, ExpectedRevenue: 100, ExpectedMargin: 10},
		{ID: "b", Stage: deal.StageNew, ExpectedRevenue: 50},
		{ID: "c", Stage: deal.StageQualified, ExpectedRevenue: 25, ExpectedMargin: 5},
		{ID: "d", Stage: deal.StageWon},
	}

	tests := []struct {
		stage   deal.Stage
		count   int
		revenue float64
		margin  float64
	}{
		{deal.StageNew, 2, 150, 10},
		{deal.StageQualified, 1, 25, 5},
		{deal.StageProposition, 0, 0, 0},
		{deal.StageWon, 1, 0, 0},
		{deal.StageLost, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.stage), func(t *testing.T) {
			if got := CountFor(deals, tt.stage); got != tt.count {
				t.Errorf("CountFor = %d, want %d", got, tt.count)
			}
			if got := RevenueFor(deals, tt.stage); got != tt.revenue {
				t.Errorf("RevenueFor = %v, want %v", got, tt.revenue)
			}
			if got := MarginFor(deals, tt.stage); got != tt.margin {
				t.Errorf("MarginFor = %v, want %v", got, tt.margin)
			}
		})
	}
}

func TestNegativeRevenueCountsAsZero(t *testing.T) {
	deals := []deal.Deal{{ID: "a", Stage: deal.StageNew, ExpectedRevenue: -40}}
	if got := RevenueFor(deals, deal.StageNew); got != 0 {
		t.Errorf("RevenueFor = %v, want 0", got)
	}
}

func TestSumsMatchTotals(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	stages := deal.Stages()

	for round := 0; round < 50; round++ {
		n := rng.IntN(40)
		deals := make([]deal.Deal, n)
		var wantRevenue float64
		for i := range deals {
			// Whole-dollar amounts keep float sums exact.
			rev := float64(rng.IntN(10000))
			deals[i] = deal.Deal{
				ID:              string(rune('a' + i)),
				Stage:           stages[rng.IntN(len(stages))],
				ExpectedRevenue: rev,
			}
			wantRevenue += rev
		}

		var sumCount int
		var sumRevenue float64
		for _, s := range stages {
			sumCount += CountFor(deals, s)
			sumRevenue += RevenueFor(deals, s)
		}
		if sumCount != len(deals) {
			t.Fatalf("round %d: sum of counts = %d, want %d", round, sumCount, len(deals))
		}
		if sumRevenue != wantRevenue {
			t.Fatalf("round %d: sum of revenue = %v, want %v", round, sumRevenue, wantRevenue)
		}

		count, revenue, _ := Totals(deals)
		if count != len(deals) || revenue != wantRevenue {
			t.Fatalf("round %d: Totals = %d, %v", round, count, revenue)
		}
	}
}

func TestBucketsFollowStageOrder(t *testing.T) {
	deals := []deal.Deal{
		{ID: "x", Stage: deal.StageLost, ExpectedRevenue: 5},
		{ID: "y", Stage: deal.StageNew, ExpectedRevenue: 7},
	}
	buckets := Buckets(deals)
	if len(buckets) != len(deal.Stages()) {
		t.Fatalf("got %d buckets", len(buckets))
	}
	for i, s := range deal.Stages() {
		if buckets[i].Stage != s {
			t.Errorf("bucket %d stage = %q, want %q", i, buckets[i].Stage, s)
		}
	}
	if buckets[0].Count != 1 || buckets[0].Deals[0].ID != "y" || buckets[0].Revenue != 7 {
		t.Errorf("New bucket = %+v", buckets[0])
	}
	if buckets[4].Count != 1 || buckets[4].Revenue != 5 {
		t.Errorf("Lost bucket = %+v", buckets[4])
	}
}
