// Package deal defines the pipeline records the board works with: deals,
// their ordered stages, and the notifications that reference them.
package deal

import (
	"fmt"
	"time"
)

// Stage is one of the fixed, ordered pipeline states.
type Stage string

const (
	StageNew         Stage = "New"
	StageQualified   Stage = "Qualified"
	StageProposition Stage = "Proposition"
	StageWon         Stage = "Won"
	StageLost        Stage = "Lost"
)

// Stages returns the pipeline stages in board order.
func Stages() []Stage {
	return []Stage{StageNew, StageQualified, StageProposition, StageWon, StageLost}
}

// Valid reports whether s is one of the known stages.
func (s Stage) Valid() bool {
	return s.Index() >= 0
}

// Index returns the position of s in board order, or -1 if unknown.
func (s Stage) Index() int {
	for i, st := range Stages() {
		if st == s {
			return i
		}
	}
	return -1
}

// ParseStage converts a label into a Stage, rejecting unknown labels.
func ParseStage(label string) (Stage, error) {
	s := Stage(label)
	if !s.Valid() {
		return "", fmt.Errorf("unknown stage %q", label)
	}
	return s, nil
}

// QuotationStatus tracks the approval state of a deal's quotation.
type QuotationStatus string

const (
	QuotationNone     QuotationStatus = ""
	QuotationPending  QuotationStatus = "Pending"
	QuotationApproved QuotationStatus = "Approved"
	QuotationRejected QuotationStatus = "Rejected"
)

// PersonRef is a reference to a user attached to a deal.
type PersonRef struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Username  string `json:"username,omitempty"`
}

// Deal is a sales opportunity as cached by the board.
//
// Seq is assigned by the cache on load and records the deal's position in
// the fetch response. Columns render in ascending Seq order.
type Deal struct {
	ID              string          `json:"id"`
	Stage           Stage           `json:"stage"`
	ExpectedRevenue float64         `json:"expectedRevenue"`
	ExpectedMargin  float64         `json:"expectedMargin"`
	Customer        string          `json:"customer"`
	Type            string          `json:"type"`
	QuotationStatus QuotationStatus `json:"quotationStatus,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`

	OwnerID       string     `json:"ownerId,omitempty"`
	ManagerName   string     `json:"managerName,omitempty"`
	AssignedOwner *PersonRef `json:"assignedOwner,omitempty"`
	Salesperson   *PersonRef `json:"salesperson,omitempty"`

	Seq int `json:"-"`
}

// OwnerDisplayName returns the resolved owner label for the deal.
func (d Deal) OwnerDisplayName() string {
	return ResolveOwner(d)
}

// Clone returns a deep copy of the deal, including its person references.
func (d Deal) Clone() Deal {
	out := d
	if d.AssignedOwner != nil {
		ref := *d.AssignedOwner
		out.AssignedOwner = &ref
	}
	if d.Salesperson != nil {
		ref := *d.Salesperson
		out.Salesperson = &ref
	}
	return out
}

// Role determines which deals a viewer may see.
type Role string

const (
	// RoleAdmin sees every deal.
	RoleAdmin Role = "admin"
	// RoleSales sees only the deals it owns.
	RoleSales Role = "sales"
)

// Scope identifies the viewer a deal collection is fetched for.
type Scope struct {
	UserID string
	Role   Role
}

// Includes reports whether d belongs to the scope.
func (s Scope) Includes(d Deal) bool {
	if s.Role == RoleAdmin {
		return true
	}
	return d.OwnerID != "" && d.OwnerID == s.UserID
}
