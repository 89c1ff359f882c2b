package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pipeboard/pipeboard/internal/board"
	"github.com/pipeboard/pipeboard/internal/deal"
	"github.com/pipeboard/pipeboard/internal/tui/keymap"
	"github.com/pipeboard/pipeboard/internal/tui/msg"
	"github.com/pipeboard/pipeboard/internal/viewstate"
)

type fakeRemote struct {
	mu        sync.Mutex
	deals     []deal.Deal
	fetchErr  error
	updateErr error
	fetches   int
	updates   []string
	marked    []string
}

func (f *fakeRemote) FetchDeals(_ context.Context, _ deal.Scope) ([]deal.Deal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	out := make([]deal.Deal, len(f.deals))
	copy(out, f.deals)
	return out, nil
}

func (f *fakeRemote) UpdateDealStage(_ context.Context, id string, stage deal.Stage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, id+"->"+string(stage))
	return f.updateErr
}

func (f *fakeRemote) MarkRead(_ context.Context, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.marked = append(f.marked, ids...)
	return nil
}

func testDeals() []deal.Deal {
	var deals []deal.Deal
	for i := range 6 {
		deals = append(deals, deal.Deal{
			ID:              fmt.Sprintf("n%d", i),
			Stage:           deal.StageNew,
			Customer:        fmt.Sprintf("Customer %d", i),
			ExpectedRevenue: 1000,
			ExpectedMargin:  100,
		})
	}
	deals = append(deals, deal.Deal{ID: "q0", Stage: deal.StageQualified, Customer: "Qualified Co", ExpectedRevenue: 500})
	return deals
}

func newTestModel(t *testing.T, remote *fakeRemote, views *viewstate.Store) Model {
	t.Helper()
	if views == nil {
		views = viewstate.NewMemory()
	}
	b := board.New(remote, views, nil, nil, board.Options{})
	return NewModel(context.Background(), Deps{
		Board: b,
		Deals: remote,
		Reads: remote,
		Scope: deal.Scope{Role: deal.RoleAdmin},
	})
}

// drain runs cmd and every command it batches, returning the messages in
// order. Only use it where no timed command can be produced.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	out := cmd()
	if batch, ok := out.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, drain(c)...)
		}
		return msgs
	}
	if out == nil {
		return nil
	}
	return []tea.Msg{out}
}

func update(t *testing.T, m Model, message tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(message)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return nm, cmd
}

// feed delivers message and then every message its commands produce.
func feed(t *testing.T, m Model, message tea.Msg) Model {
	t.Helper()
	m, cmd := update(t, m, message)
	for _, next := range drain(cmd) {
		m = feed(t, m, next)
	}
	return m
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

var (
	spaceKey = tea.KeyMsg{Type: tea.KeySpace}
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
)

func loaded(t *testing.T, m Model) Model {
	t.Helper()
	for _, message := range drain(m.Init()) {
		m = feed(t, m, message)
	}
	if !m.board.Loaded() {
		t.Fatal("board should be loaded")
	}
	return m
}

func TestInitialLoad(t *testing.T) {
	remote := &fakeRemote{deals: testDeals()}
	m := loaded(t, newTestModel(t, remote, nil))

	if m.Mode() != keymap.ModeNormal {
		t.Errorf("Mode() = %q, want normal", m.Mode())
	}
	stage, cursor := m.Focus()
	if stage != deal.StageNew || cursor != 0 {
		t.Errorf("Focus() = (%s, %d), want (New, 0)", stage, cursor)
	}
	out := m.View()
	for _, want := range []string{"New", "Qualified", "Customer 0"} {
		if !strings.Contains(out, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestInitialLoadFailureBlocksBoard(t *testing.T) {
	remote := &fakeRemote{deals: testDeals(), fetchErr: errors.New("connection refused")}
	m := loaded0(t, newTestModel(t, remote, nil))

	if m.Mode() != keymap.ModeLoadError {
		t.Fatalf("Mode() = %q, want load_error", m.Mode())
	}
	if out := m.View(); !strings.Contains(out, "Could not load") || !strings.Contains(out, "connection refused") {
		t.Errorf("View() = %q, want the blocking error", out)
	}

	// Keys that act on cards do nothing while blocked.
	m, _ = update(t, m, spaceKey)
	if m.Mode() != keymap.ModeLoadError {
		t.Errorf("grab should be ignored in the error state")
	}

	remote.fetchErr = nil
	m = feed(t, m, runeKey('r'))
	if m.Mode() != keymap.ModeNormal {
		t.Errorf("Mode() after retry = %q, want normal", m.Mode())
	}
	if !m.board.Loaded() {
		t.Error("retry should load the board")
	}
}

// loaded0 runs the initial fetch without requiring success.
func loaded0(t *testing.T, m Model) Model {
	t.Helper()
	for _, message := range drain(m.Init()) {
		m = feed(t, m, message)
	}
	return m
}

func TestReloadFailureAfterLoadShowsBanner(t *testing.T) {
	remote := &fakeRemote{deals: testDeals()}
	m := loaded(t, newTestModel(t, remote, nil))

	remote.fetchErr = errors.New("timeout")
	m, cmd := update(t, m, runeKey('r'))
	m, _ = update(t, m, cmd())

	if m.Mode() != keymap.ModeNormal {
		t.Errorf("Mode() = %q, want normal", m.Mode())
	}
	if !strings.Contains(m.Banner(), "reload failed") {
		t.Errorf("Banner() = %q", m.Banner())
	}
	if len(m.board.Deals()) != len(testDeals()) {
		t.Error("a failed reload must keep the cached deals")
	}
}

func TestGrabAndDropConfirmsMove(t *testing.T) {
	remote := &fakeRemote{deals: testDeals()}
	m := loaded(t, newTestModel(t, remote, nil))

	m, _ = update(t, m, spaceKey)
	if m.Mode() != keymap.ModeGrab {
		t.Fatalf("Mode() = %q, want grab", m.Mode())
	}
	m, _ = update(t, m, runeKey('l'))
	m, cmd := update(t, m, spaceKey)

	// Optimistic: the card is in its new column before the remote answers.
	d, _ := m.board.Deal("n0")
	if d.Stage != deal.StageQualified {
		t.Fatalf("stage after drop = %s, want Qualified", d.Stage)
	}
	if m.board.Drag().Committing() != 1 {
		t.Errorf("Committing() = %d, want 1", m.board.Drag().Committing())
	}
	if stage, _ := m.Focus(); stage != deal.StageQualified {
		t.Errorf("focus should follow the card, got %s", stage)
	}

	for _, message := range drain(cmd) {
		m = feed(t, m, message)
	}
	if m.board.Drag().Committing() != 0 {
		t.Error("move should be settled")
	}
	if len(remote.updates) != 1 || remote.updates[0] != "n0->Qualified" {
		t.Errorf("updates = %v", remote.updates)
	}
	if m.Banner() != "" {
		t.Errorf("Banner() = %q, want none", m.Banner())
	}
}

func TestFailedMoveRollsBackWithBanner(t *testing.T) {
	remote := &fakeRemote{deals: testDeals(), updateErr: errors.New("boom")}
	m := loaded(t, newTestModel(t, remote, nil))

	m, _ = update(t, m, spaceKey)
	m, _ = update(t, m, runeKey('l'))
	m, cmd := update(t, m, spaceKey)

	var settled msg.MoveSettledMsg
	for _, message := range drain(cmd) {
		if s, ok := message.(msg.MoveSettledMsg); ok {
			settled = s
		}
	}
	if settled.Move == nil {
		t.Fatal("expected a settled move")
	}
	m, _ = update(t, m, settled)

	d, _ := m.board.Deal("n0")
	if d.Stage != deal.StageNew {
		t.Errorf("stage after rollback = %s, want New", d.Stage)
	}
	if !strings.Contains(m.Banner(), "could not move Customer 0") {
		t.Errorf("Banner() = %q", m.Banner())
	}
	if len(remote.updates) != 1 {
		t.Errorf("failed moves must not be retried, updates = %v", remote.updates)
	}
}

func TestCancelGrabIsNoop(t *testing.T) {
	remote := &fakeRemote{deals: testDeals()}
	m := loaded(t, newTestModel(t, remote, nil))

	m, _ = update(t, m, spaceKey)
	m, _ = update(t, m, runeKey('l'))
	m, cmd := update(t, m, escKey)

	if m.Mode() != keymap.ModeNormal {
		t.Errorf("Mode() = %q, want normal", m.Mode())
	}
	if cmd != nil {
		t.Error("cancel must not issue a command")
	}
	if d, _ := m.board.Deal("n0"); d.Stage != deal.StageNew {
		t.Errorf("stage = %s, want New", d.Stage)
	}
}

func TestDropInPlaceIsNoop(t *testing.T) {
	remote := &fakeRemote{deals: testDeals()}
	m := loaded(t, newTestModel(t, remote, nil))

	m, _ = update(t, m, spaceKey)
	m, cmd := update(t, m, spaceKey)
	if cmd != nil {
		t.Error("dropping in place must not issue a command")
	}
	if len(remote.updates) != 0 {
		t.Errorf("updates = %v, want none", remote.updates)
	}
}

func TestSecondDragOfCommittingDeal(t *testing.T) {
	remote := &fakeRemote{deals: testDeals()}
	m := loaded(t, newTestModel(t, remote, nil))

	m, _ = update(t, m, spaceKey)
	m, _ = update(t, m, runeKey('l'))
	m, _ = update(t, m, spaceKey)

	// Focus followed n0 into Qualified; drag it again before it settles.
	m, _ = update(t, m, spaceKey)
	m, _ = update(t, m, runeKey('l'))
	m, _ = update(t, m, spaceKey)

	if !strings.Contains(m.Banner(), "still saving") {
		t.Errorf("Banner() = %q", m.Banner())
	}
	if d, _ := m.board.Deal("n0"); d.Stage != deal.StageQualified {
		t.Errorf("stage = %s, want Qualified", d.Stage)
	}
}

func TestOpenDealRecordsLastViewed(t *testing.T) {
	views := viewstate.NewMemory()
	remote := &fakeRemote{deals: testDeals()}
	m := loaded(t, newTestModel(t, remote, views))

	m, _ = update(t, m, runeKey('j'))
	m = feed(t, m, enterKey)

	if m.Mode() != keymap.ModeDetail {
		t.Fatalf("Mode() = %q, want detail", m.Mode())
	}
	if id, ok := views.LastViewedDealID(); !ok || id != "n1" {
		t.Errorf("LastViewedDealID() = (%q, %v), want n1", id, ok)
	}
	if !m.board.IsHighlighted("n1") {
		t.Error("opened deal should be highlighted")
	}
	if !strings.Contains(m.View(), "Customer 1") {
		t.Error("detail pane should show the deal")
	}

	m, _ = update(t, m, escKey)
	if m.Mode() != keymap.ModeNormal {
		t.Errorf("Mode() = %q, want normal", m.Mode())
	}
}

func TestLastViewedDealIsRevealed(t *testing.T) {
	views := viewstate.NewMemory()
	if err := views.SetLastViewedDealID("n5"); err != nil {
		t.Fatal(err)
	}
	remote := &fakeRemote{deals: testDeals()}
	m := loaded(t, newTestModel(t, remote, views))

	cols := m.board.Columns()
	if !cols[0].Expanded {
		t.Error("column holding the fifth-plus card should be expanded")
	}
	if cols[1].Expanded {
		t.Error("sibling column should stay collapsed")
	}
	stage, cursor := m.Focus()
	if stage != deal.StageNew || cursor != 5 {
		t.Errorf("Focus() = (%s, %d), want (New, 5)", stage, cursor)
	}
}

func TestToggleColumn(t *testing.T) {
	remote := &fakeRemote{deals: testDeals()}
	m := loaded(t, newTestModel(t, remote, nil))

	if got := len(m.board.Columns()[0].Visible); got != board.DefaultVisible {
		t.Fatalf("visible = %d, want %d", got, board.DefaultVisible)
	}
	m, _ = update(t, m, runeKey('e'))
	if got := len(m.board.Columns()[0].Visible); got != 6 {
		t.Errorf("visible after toggle = %d, want 6", got)
	}
	m, _ = update(t, m, runeKey('e'))
	if got := len(m.board.Columns()[0].Visible); got != board.DefaultVisible {
		t.Errorf("visible after second toggle = %d", got)
	}
}

func TestNotifications(t *testing.T) {
	remote := &fakeRemote{deals: testDeals()}
	m := loaded(t, newTestModel(t, remote, nil))

	m, _ = update(t, m, msg.NotificationsMsg{Unread: []deal.Notification{
		{ID: "a", DealID: "n2", Kind: deal.KindQuotationApproval, Message: "approve quotation"},
		{ID: "b", DealID: "q0", Kind: deal.KindStageChange, Message: "moved"},
	}})
	if m.approvals() != 1 {
		t.Errorf("approvals() = %d, want 1", m.approvals())
	}

	m, _ = update(t, m, runeKey('n'))
	if m.Mode() != keymap.ModeNotifications {
		t.Fatalf("Mode() = %q, want notifications", m.Mode())
	}

	m = feed(t, m, runeKey('m'))
	if len(m.Unread()) != 1 || m.Unread()[0].ID != "b" {
		t.Errorf("Unread() = %v, want only b", m.Unread())
	}
	if len(remote.marked) != 1 || remote.marked[0] != "a" {
		t.Errorf("marked = %v", remote.marked)
	}

	m = feed(t, m, enterKey)
	if m.Mode() != keymap.ModeDetail {
		t.Errorf("Mode() = %q, want detail", m.Mode())
	}
	if stage, _ := m.Focus(); stage != deal.StageQualified {
		t.Errorf("focus = %s, want Qualified", stage)
	}
	if len(m.Unread()) != 0 {
		t.Errorf("opening a notification should mark it read, got %v", m.Unread())
	}
}

func TestStaleBannerExpiryIgnored(t *testing.T) {
	remote := &fakeRemote{deals: testDeals()}
	m := loaded(t, newTestModel(t, remote, nil))

	_ = m.setBanner("first")
	_ = m.setBanner("second")
	m, _ = update(t, m, msg.ClearBannerMsg{Seq: 1})
	if m.Banner() != "second" {
		t.Errorf("Banner() = %q, want second", m.Banner())
	}
	m, _ = update(t, m, msg.ClearBannerMsg{Seq: 2})
	if m.Banner() != "" {
		t.Errorf("Banner() = %q, want cleared", m.Banner())
	}
}

func TestQuitIgnoresLaterMessages(t *testing.T) {
	remote := &fakeRemote{deals: testDeals()}
	m := loaded(t, newTestModel(t, remote, nil))

	m, cmd := update(t, m, runeKey('q'))
	if cmd == nil {
		t.Fatal("quit should return tea.Quit")
	}
	m, cmd = update(t, m, msg.NotificationsMsg{Unread: []deal.Notification{{ID: "x"}}})
	if cmd != nil || len(m.Unread()) != 0 {
		t.Error("messages after quit must be ignored")
	}
	if m.View() != "" {
		t.Error("View() after quit should be empty")
	}
}
