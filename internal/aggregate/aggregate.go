// Package aggregate computes per-stage KPIs from the board's deals.
// Nothing is cached; callers recompute after every cache change.
package aggregate

import "github.com/pipeboard/pipeboard/internal/deal"

// Bucket is the derived view of one stage.
type Bucket struct {
	Stage   deal.Stage
	Deals   []deal.Deal
	Count   int
	Revenue float64
	Margin  float64
}

// CountFor returns the number of deals in stage.
func CountFor(deals []deal.Deal, stage deal.Stage) int {
	n := 0
	for _, d := range deals {
		if d.Stage == stage {
			n++
		}
	}
	return n
}

// RevenueFor sums ExpectedRevenue over the deals in stage.
func RevenueFor(deals []deal.Deal, stage deal.Stage) float64 {
	var sum float64
	for _, d := range deals {
		if d.Stage == stage {
			sum += nonNegative(d.ExpectedRevenue)
		}
	}
	return sum
}

// MarginFor sums ExpectedMargin over the deals in stage.
func MarginFor(deals []deal.Deal, stage deal.Stage) float64 {
	var sum float64
	for _, d := range deals {
		if d.Stage == stage {
			sum += nonNegative(d.ExpectedMargin)
		}
	}
	return sum
}

// Buckets returns one bucket per stage, in board order.
func Buckets(deals []deal.Deal) []Bucket {
	stages := deal.Stages()
	out := make([]Bucket, 0, len(stages))
	for _, s := range stages {
		b := Bucket{Stage: s}
		for _, d := range deals {
			if d.Stage == s {
				b.Deals = append(b.Deals, d)
			}
		}
		b.Count = CountFor(deals, s)
		b.Revenue = RevenueFor(deals, s)
		b.Margin = MarginFor(deals, s)
		out = append(out, b)
	}
	return out
}

// Totals sums count, revenue and margin across all deals.
func Totals(deals []deal.Deal) (count int, revenue, margin float64) {
	for _, d := range deals {
		count++
		revenue += nonNegative(d.ExpectedRevenue)
		margin += nonNegative(d.ExpectedMargin)
	}
	return count, revenue, margin
}

// nonNegative treats unset or invalid amounts as zero.
func nonNegative(v float64) float64 {
	if v > 0 {
		return v
	}
	return 0
}
