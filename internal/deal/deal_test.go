package deal

import "testing"

func TestStagesOrder(t *testing.T) {
	want := []Stage{StageNew, StageQualified, StageProposition, StageWon, StageLost}
	got := Stages()
	if len(got) != len(want) {
		t.Fatalf("Stages() returned %d stages, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Stages()[%d] = %q, want %q", i, got[i], want[i])
		}
		if got[i].Index() != i {
			t.Errorf("%q.Index() = %d, want %d", got[i], got[i].Index(), i)
		}
	}
}

func TestParseStage(t *testing.T) {
	if s, err := ParseStage("Qualified"); err != nil || s != StageQualified {
		t.Errorf("ParseStage(Qualified) = %q, %v", s, err)
	}
	if _, err := ParseStage("qualified"); err == nil {
		t.Error("ParseStage should be case sensitive")
	}
	if _, err := ParseStage(""); err == nil {
		t.Error("ParseStage should reject empty labels")
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := Deal{ID: "d1", AssignedOwner: &PersonRef{Username: "a"}, Salesperson: &PersonRef{Username: "b"}}
	c := orig.Clone()
	c.AssignedOwner.Username = "changed"
	c.Salesperson.Username = "changed"

	if orig.AssignedOwner.Username != "a" || orig.Salesperson.Username != "b" {
		t.Error("Clone shares person references with the original")
	}
}

func TestScopeIncludes(t *testing.T) {
	d := Deal{ID: "d1", OwnerID: "u1"}

	tests := []struct {
		name  string
		scope Scope
		want  bool
	}{
		{"admin sees everything", Scope{UserID: "someone", Role: RoleAdmin}, true},
		{"sales sees own deals", Scope{UserID: "u1", Role: RoleSales}, true},
		{"sales does not see others", Scope{UserID: "u2", Role: RoleSales}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.scope.Includes(d); got != tt.want {
				t.Errorf("Includes() = %v, want %v", got, tt.want)
			}
		})
	}

	if (Scope{UserID: "", Role: RoleSales}).Includes(Deal{ID: "x"}) {
		t.Error("unowned deals should not match an empty sales viewer")
	}
}

func TestPendingApprovals(t *testing.T) {
	tests := []struct {
		name  string
		notes []Notification
		want  int
	}{
		{"none", nil, 0},
		{"only stage changes", []Notification{{ID: "a", Kind: KindStageChange}}, 0},
		{"mixed", []Notification{
			{ID: "a", Kind: KindQuotationApproval},
			{ID: "b", Kind: KindStageChange},
			{ID: "c", Kind: KindQuotationApproval},
		}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PendingApprovals(tt.notes); got != tt.want {
				t.Errorf("PendingApprovals() = %d, want %d", got, tt.want)
			}
		})
	}
}
