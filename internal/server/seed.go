package server

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/pipeboard/pipeboard/internal/deal"
)

// seedNamespace keeps seeded deal ids stable across runs with the same seed.
var seedNamespace = uuid.MustParse("6f1c3f7e-8c55-4d0b-9f5a-2b7d1f0e4a11")

var (
	seedCustomers = []string{
		"Acme Corp", "Globex", "Initech", "Umbrella", "Stark Industries",
		"Wayne Enterprises", "Hooli", "Vandelay Imports", "Soylent", "Tyrell",
		"Cyberdyne", "Wonka Industries",
	}
	seedTypes  = []string{"Hardware", "Software", "Services", "Support"}
	seedOwners = []struct {
		id    string
		first string
		last  string
	}{
		{"alice", "Alice", "Moreau"},
		{"bruno", "Bruno", "Silva"},
		{"chen", "Chen", "Wei"},
	}
	seedManagers = []string{"Dana Lopez", "", "  "}
)

// SeedDeals generates n demo deals spread across every stage. The same
// seed always yields the same deals.
func SeedDeals(n int, seed uint64, now time.Time) []deal.Deal {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	stages := deal.Stages()

	deals := make([]deal.Deal, 0, n)
	for i := 0; i < n; i++ {
		owner := seedOwners[rng.IntN(len(seedOwners))]
		revenue := math.Round(float64(1_000+rng.IntN(99_000))/10) * 10
		d := deal.Deal{
			ID:              uuid.NewSHA1(seedNamespace, fmt.Appendf(nil, "%d/%d", seed, i)).String(),
			Stage:           stages[rng.IntN(len(stages))],
			ExpectedRevenue: revenue,
			ExpectedMargin:  math.Round(revenue*float64(10+rng.IntN(30))) / 100,
			Customer:        seedCustomers[rng.IntN(len(seedCustomers))],
			Type:            seedTypes[rng.IntN(len(seedTypes))],
			CreatedAt:       now.Add(-time.Duration(rng.IntN(90*24)) * time.Hour).UTC().Truncate(time.Second),
			OwnerID:         owner.id,
			ManagerName:     seedManagers[rng.IntN(len(seedManagers))],
		}
		switch rng.IntN(3) {
		case 0:
			d.AssignedOwner = &deal.PersonRef{FirstName: owner.first, LastName: owner.last, Username: owner.id}
		case 1:
			d.Salesperson = &deal.PersonRef{Username: owner.id}
		}
		switch d.Stage {
		case deal.StageProposition:
			d.QuotationStatus = deal.QuotationPending
		case deal.StageWon:
			d.QuotationStatus = deal.QuotationApproved
		case deal.StageLost:
			if rng.IntN(2) == 0 {
				d.QuotationStatus = deal.QuotationRejected
			}
		}
		deals = append(deals, d)
	}
	return deals
}
