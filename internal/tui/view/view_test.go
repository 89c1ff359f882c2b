package view

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/pipeboard/pipeboard/internal/aggregate"
	"github.com/pipeboard/pipeboard/internal/board"
	"github.com/pipeboard/pipeboard/internal/deal"
	"github.com/pipeboard/pipeboard/internal/tui/keymap"
	"github.com/pipeboard/pipeboard/internal/tui/styles"
)

func testStyles() *styles.Styles {
	return styles.New(nil)
}

func columnOf(n int, expanded bool) board.Column {
	var deals []deal.Deal
	for i := range n {
		deals = append(deals, deal.Deal{
			ID:              fmt.Sprintf("d%d", i),
			Stage:           deal.StageNew,
			Customer:        fmt.Sprintf("Acme %d", i),
			ManagerName:     "Dana",
			ExpectedRevenue: 12500,
		})
	}
	visible := deals
	if !expanded && n > board.DefaultVisible {
		visible = deals[:board.DefaultVisible]
	}
	return board.Column{
		Stage:      deal.StageNew,
		Deals:      deals,
		Visible:    visible,
		Expanded:   expanded,
		HasControl: board.HasControl(n),
		Count:      n,
		Revenue:    float64(n) * 12500,
	}
}

func TestCardRows(t *testing.T) {
	tests := []struct {
		height int
		want   int
	}{
		{height: 3, want: 1},
		{height: 7, want: 1},
		{height: 13, want: 4},
		{height: 14, want: 4},
	}
	for _, tt := range tests {
		if got := CardRows(tt.height); got != tt.want {
			t.Errorf("CardRows(%d) = %d, want %d", tt.height, got, tt.want)
		}
	}
}

func TestRenderColumn(t *testing.T) {
	s := testStyles()

	tests := []struct {
		name    string
		col     board.Column
		want    []string
		notWant []string
	}{
		{
			name:    "four cards have no control",
			col:     columnOf(4, false),
			want:    []string{"New", "Acme 3", "Dana", "$12.5k"},
			notWant: []string{"more (e)", "show less"},
		},
		{
			name:    "collapsed column offers the rest",
			col:     columnOf(6, false),
			want:    []string{"▾ 2 more (e)", "Acme 3"},
			notWant: []string{"Acme 4"},
		},
		{
			name: "expanded column offers collapse",
			col:  columnOf(6, true),
			want: []string{"▴ show less (e)", "Acme 5"},
		},
		{
			name: "empty column",
			col:  columnOf(0, false),
			want: []string{"no deals"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ansi.Strip(RenderColumn(s, ColumnState{Column: tt.col, Width: 30, Height: 24, Cursor: -1}))
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("missing %q in\n%s", w, out)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out, w) {
					t.Errorf("unexpected %q in\n%s", w, out)
				}
			}
		})
	}
}

func TestRenderColumnMarkers(t *testing.T) {
	s := testStyles()
	col := columnOf(3, false)

	out := ansi.Strip(RenderColumn(s, ColumnState{
		Column:      col,
		Width:       30,
		Height:      24,
		Cursor:      0,
		Grabbed:     "d1",
		Highlighted: func(id string) bool { return id == "d2" },
	}))

	for _, want := range []string{"› Acme 0", "◆ Acme 1", "★ Acme 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}
}

func TestRenderColumnOffset(t *testing.T) {
	s := testStyles()
	out := ansi.Strip(RenderColumn(s, ColumnState{
		Column: columnOf(6, true),
		Width:  30,
		Height: 9, // two cards
		Cursor: -1,
		Offset: 3,
	}))
	if strings.Contains(out, "Acme 2") || !strings.Contains(out, "Acme 3") || !strings.Contains(out, "Acme 4") {
		t.Errorf("offset window wrong:\n%s", out)
	}
	if strings.Contains(out, "Acme 5") {
		t.Errorf("card beyond the window rendered:\n%s", out)
	}
}

func TestRenderKPIStrip(t *testing.T) {
	s := testStyles()
	st := KPIState{
		Buckets: []aggregate.Bucket{
			{Stage: deal.StageNew, Count: 2, Revenue: 3000},
			{Stage: deal.StageWon, Count: 1, Revenue: 1500000},
		},
		TotalCount:   3,
		TotalRevenue: 1503000,
		TotalMargin:  2500,
	}

	out := ansi.Strip(RenderKPIStrip(s, st))
	for _, want := range []string{"New 2 · $3k", "Won 1 · $1.5M", "Σ 3 · $1,503,000 · margin $2,500"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}

	st.Width = 20
	narrow := ansi.Strip(RenderKPIStrip(s, st))
	if !strings.Contains(narrow, "Σ 3") {
		t.Errorf("totals must survive a narrow width, got %q", narrow)
	}
}

func TestRenderBadge(t *testing.T) {
	s := testStyles()
	tests := []struct {
		unread, approvals int
		want              string
		notWant           string
	}{
		{0, 0, "🔔 0", "approve"},
		{3, 0, "🔔 3", "approve"},
		{3, 2, "2 to approve", ""},
	}
	for _, tt := range tests {
		out := ansi.Strip(RenderBadge(s, tt.unread, tt.approvals))
		if !strings.Contains(out, tt.want) {
			t.Errorf("RenderBadge(%d, %d) = %q, want %q", tt.unread, tt.approvals, out, tt.want)
		}
		if tt.notWant != "" && strings.Contains(out, tt.notWant) {
			t.Errorf("RenderBadge(%d, %d) = %q, unexpected %q", tt.unread, tt.approvals, out, tt.notWant)
		}
	}
}

func TestRenderHeader(t *testing.T) {
	s := testStyles()
	out := ansi.Strip(RenderHeader(s, HeaderState{
		Viewer:     deal.Scope{UserID: "u7", Role: deal.RoleSales},
		Unread:     1,
		Committing: 2,
		Width:      100,
	}))
	for _, want := range []string{"Pipeline", "u7 (sales)", "saving 2…", "🔔 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
}

func TestRenderBanner(t *testing.T) {
	s := testStyles()
	if RenderBanner(s, "", 80) != "" {
		t.Error("empty message should render nothing")
	}
	if out := ansi.Strip(RenderBanner(s, "could not move Acme", 80)); !strings.Contains(out, "✗ could not move Acme") {
		t.Errorf("RenderBanner() = %q", out)
	}
}

func TestRenderLoadError(t *testing.T) {
	out := ansi.Strip(RenderLoadError(testStyles(), errors.New("dial tcp: refused"), 60))
	for _, want := range []string{"Could not load the pipeline.", "dial tcp: refused", "press r to retry"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}
}

func TestRenderDetail(t *testing.T) {
	d := deal.Deal{
		ID:              "d1",
		Customer:        "Initech",
		Stage:           deal.StageProposition,
		Type:            "Renewal",
		ExpectedRevenue: 42000,
		ExpectedMargin:  8000,
		QuotationStatus: deal.QuotationPending,
	}
	out := ansi.Strip(RenderDetail(testStyles(), d, 70))
	for _, want := range []string{"Initech", "Proposition", deal.OwnerUnavailable, "$42,000", "$8,000", "⧗ Pending", "unknown"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}
}

func TestRenderNotifications(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	st := NotificationsState{
		Unread: []deal.Notification{
			{ID: "a", Kind: deal.KindQuotationApproval, Message: "Approve Initech", CreatedAt: now.Add(-5 * time.Minute)},
			{ID: "b", Kind: deal.KindStageChange, Message: "Hooli moved", CreatedAt: now.Add(-3 * time.Hour)},
		},
		Cursor: 1,
		Width:  80,
		Now:    now,
	}
	out := ansi.Strip(RenderNotifications(testStyles(), st))
	for _, want := range []string{"Notifications (2)", "⧗ Approve Initech", "5m ago", "› • Hooli moved", "3h ago"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}

	empty := ansi.Strip(RenderNotifications(testStyles(), NotificationsState{Width: 80, Now: now}))
	if !strings.Contains(empty, "nothing new") {
		t.Errorf("empty list = %q", empty)
	}
}

func TestAgo(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		at   time.Time
		want string
	}{
		{time.Time{}, ""},
		{now.Add(-10 * time.Second), "just now"},
		{now.Add(-45 * time.Minute), "45m ago"},
		{now.Add(-2 * time.Hour), "2h ago"},
		{now.Add(-72 * time.Hour), "3d ago"},
	}
	for _, tt := range tests {
		if got := Ago(now, tt.at); got != tt.want {
			t.Errorf("Ago(%v) = %q, want %q", tt.at, got, tt.want)
		}
	}
}

func TestHelpBar(t *testing.T) {
	h := NewHelpBar(testStyles(), keymap.DefaultKeymap())

	short := ansi.Strip(h.Render(keymap.ModeNormal, 200, false))
	if !strings.Contains(short, "grab card") || !strings.Contains(short, "h/left") {
		t.Errorf("short help = %q", short)
	}

	full := ansi.Strip(h.Render(keymap.ModeGrab, 200, true))
	if !strings.Contains(full, "drop") || !strings.Contains(full, "cancel") {
		t.Errorf("full help = %q", full)
	}
}
