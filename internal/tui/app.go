package tui

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pipeboard/pipeboard/internal/deal"
	"github.com/pipeboard/pipeboard/internal/logging"
	"github.com/pipeboard/pipeboard/internal/notify"
	"github.com/pipeboard/pipeboard/internal/tui/msg"
)

// Poller is the notification source the app starts and stops with the
// program.
type Poller interface {
	notify.Subscriber
	msg.ReadMarker
	Start(ctx context.Context)
	Stop()
}

// Watcher follows external changes to the last viewed deal.
type Watcher interface {
	Watch(ctx context.Context, onChange func(id string)) (stop func(), err error)
}

// App wraps the bubbletea program and the background feeds it listens to.
type App struct {
	program *tea.Program
	model   Model
	poller  Poller
	watcher Watcher
	logger  *logging.Logger
}

// New creates the board application. poller and watcher may be nil.
func New(ctx context.Context, deps Deps, poller Poller, watcher Watcher) *App {
	if poller != nil && deps.Reads == nil {
		deps.Reads = poller
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &App{
		model:   NewModel(ctx, deps),
		poller:  poller,
		watcher: watcher,
		logger:  logger.WithComponent("app"),
	}
}

// Run starts the program and blocks until it exits. The poller and the
// view state watcher run for the lifetime of the program and are stopped
// before Run returns.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.program = tea.NewProgram(
		a.model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			a.program.Send(tea.Quit())
		case <-ctx.Done():
		}
	}()

	if a.poller != nil {
		unsubscribe := a.poller.Subscribe(func(unread []deal.Notification) {
			a.program.Send(msg.NotificationsMsg{Unread: unread})
		})
		defer unsubscribe()
		a.poller.Start(ctx)
		defer a.poller.Stop()
	}

	if a.watcher != nil {
		stop, err := a.watcher.Watch(ctx, func(id string) {
			a.program.Send(msg.ViewStateChangedMsg{DealID: id})
		})
		if err != nil {
			// The board still works; external selections just won't show live.
			a.logger.Warn("view state watch unavailable", "error", err)
		} else {
			defer stop()
		}
	}

	if _, err := a.program.Run(); err != nil {
		return fmt.Errorf("run board: %w", err)
	}
	return nil
}
