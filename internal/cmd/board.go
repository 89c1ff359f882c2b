package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pipeboard/pipeboard/internal/board"
	"github.com/pipeboard/pipeboard/internal/event"
	"github.com/pipeboard/pipeboard/internal/notify"
	"github.com/pipeboard/pipeboard/internal/tui"
	"github.com/pipeboard/pipeboard/internal/tui/styles"
	"github.com/pipeboard/pipeboard/internal/viewstate"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Open the pipeline board",
	Long: `Open the pipeline board in the terminal.

Deals are loaded from the system of record configured in api.base_url and
filtered by viewer.role: admins see every deal, sales viewers only their own.

Keys: h/l move between stages, j/k between cards, space grabs a card and
drops it, enter opens a deal, e expands a column, n shows notifications,
r reloads, ? toggles help and q quits.`,
	RunE: runBoard,
}

var boardTheme string

func init() {
	rootCmd.AddCommand(boardCmd)
	boardCmd.Flags().StringVar(&boardTheme, "theme", "", "override tui.theme for this run")
}

func runBoard(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("pipeboard board needs an interactive terminal; use 'pipeboard kpi' for a plain report")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if boardTheme != "" {
		cfg.TUI.Theme = boardTheme
		cfg.TUI.ThemeFile = ""
	}

	logger, err := newFileLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	palette, err := styles.ResolvePalette(cfg.TUI.Theme, cfg.TUI.ThemeFile)
	if err != nil {
		return fmt.Errorf("loading theme: %w", err)
	}

	views, err := viewstate.Open(cfg.ViewState.ResolvePath(), logger)
	if err != nil {
		return err
	}

	bus := event.NewBus()
	bus.OnPanic(func(eventType string, recovered any, stack []byte) {
		logger.Error("event handler panicked", "event_type", eventType, "panic", recovered, "stack", string(stack))
	})
	subscribeAudit(bus, logger)

	client := newClient(cfg)
	scope := viewerScope(cfg)
	b := board.New(client, views, bus, logger, board.Options{
		ReconcileOnConfirm: cfg.Board.ReconcileOnConfirm,
	})

	var poller tui.Poller
	if cfg.Notifications.Enabled {
		poller = notify.NewPoller(client,
			notify.WithInterval(cfg.Notifications.PollInterval),
			notify.WithLogger(logger),
		)
	}

	logger.Info("board starting",
		"base_url", cfg.API.BaseURL,
		"role", scope.Role,
		"user_id", scope.UserID,
	)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	app := tui.New(ctx, tui.Deps{
		Board:       b,
		Deals:       client,
		Scope:       scope,
		Styles:      styles.New(palette),
		ScrollDelay: cfg.Board.ScrollDelay(),
		ColumnWidth: cfg.Board.ColumnWidth,
		Logger:      logger,
	}, poller, views)
	return app.Run(ctx)
}
