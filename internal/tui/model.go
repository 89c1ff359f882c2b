package tui

import (
	"context"
	"time"

	"github.com/pipeboard/pipeboard/internal/board"
	"github.com/pipeboard/pipeboard/internal/deal"
	"github.com/pipeboard/pipeboard/internal/logging"
	"github.com/pipeboard/pipeboard/internal/tui/keymap"
	"github.com/pipeboard/pipeboard/internal/tui/msg"
	"github.com/pipeboard/pipeboard/internal/tui/styles"
	"github.com/pipeboard/pipeboard/internal/tui/view"
)

// bannerTTL is how long an error banner stays up.
const bannerTTL = 6 * time.Second

// Deps are the collaborators the board program drives.
type Deps struct {
	Board *board.Board
	Deals msg.DealFetcher
	// Reads acknowledges notifications. Nil disables the notification list.
	Reads msg.ReadMarker
	Scope deal.Scope

	Keymap      *keymap.Keymap
	Styles      *styles.Styles
	ScrollDelay time.Duration
	ColumnWidth int
	Logger      *logging.Logger
}

// grabState tracks a card picked up with the keyboard until it is dropped.
type grabState struct {
	dealID      string
	sourceStage deal.Stage
	sourceIndex int

	targetCol   int
	targetIndex int
}

// Model is the bubbletea model of the pipeline board. The board and its
// collaborators are pointers, so copies of Model share one board.
type Model struct {
	ctx    context.Context
	board  *board.Board
	deals  msg.DealFetcher
	reads  msg.ReadMarker
	scope  deal.Scope
	keys   *keymap.Keymap
	styles *styles.Styles
	help   *view.HelpBar
	logger *logging.Logger

	scrollDelay time.Duration
	columnWidth int

	mode     keymap.Mode
	showHelp bool
	quitting bool

	// focusCol is the focused stage column; cursors and offsets are kept
	// per stage so moving between columns restores the position.
	focusCol int
	cursors  map[deal.Stage]int
	offsets  map[deal.Stage]int

	grab     *grabState
	detailID string

	banner    string
	bannerSeq int
	loadErr   error

	unread      []deal.Notification
	notifCursor int

	width  int
	height int
}

// NewModel creates the board model. ctx bounds every remote call issued
// from the program.
func NewModel(ctx context.Context, deps Deps) Model {
	if deps.Keymap == nil {
		deps.Keymap = keymap.DefaultKeymap()
	}
	if deps.Styles == nil {
		deps.Styles = styles.New(nil)
	}
	if deps.Logger == nil {
		deps.Logger = logging.NopLogger()
	}
	return Model{
		ctx:         ctx,
		board:       deps.Board,
		deals:       deps.Deals,
		reads:       deps.Reads,
		scope:       deps.Scope,
		keys:        deps.Keymap,
		styles:      deps.Styles,
		help:        view.NewHelpBar(deps.Styles, deps.Keymap),
		logger:      deps.Logger.WithComponent("tui"),
		scrollDelay: deps.ScrollDelay,
		columnWidth: deps.ColumnWidth,
		mode:        keymap.ModeNormal,
		cursors:     make(map[deal.Stage]int),
		offsets:     make(map[deal.Stage]int),
		width:       120,
		height:      32,
	}
}

// Mode returns the active input mode.
func (m Model) Mode() keymap.Mode {
	return m.mode
}

// Banner returns the error banner text, "" when none is shown.
func (m Model) Banner() string {
	return m.banner
}

// Focus returns the focused stage and the cursor index within it.
func (m Model) Focus() (deal.Stage, int) {
	stage := deal.Stages()[m.focusCol]
	return stage, m.cursors[stage]
}

// Unread returns the notifications the program currently shows.
func (m Model) Unread() []deal.Notification {
	return m.unread
}

func (m Model) focusedStage() deal.Stage {
	return deal.Stages()[m.focusCol]
}

// column returns the current column for stage.
func (m Model) column(stage deal.Stage) board.Column {
	for _, c := range m.board.Columns() {
		if c.Stage == stage {
			return c
		}
	}
	return board.Column{Stage: stage}
}

// focusedDeal returns the card under the cursor.
func (m Model) focusedDeal() (deal.Deal, bool) {
	stage := m.focusedStage()
	col := m.column(stage)
	i := m.cursors[stage]
	if i < 0 || i >= len(col.Visible) {
		return deal.Deal{}, false
	}
	return col.Visible[i], true
}

// approvals counts unread quotation approval requests.
func (m Model) approvals() int {
	return deal.PendingApprovals(m.unread)
}
