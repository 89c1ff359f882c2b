// Package notify keeps the viewer's unread notifications fresh by polling
// the system of record. Consumers depend on Subscriber only, so polling can
// be swapped for a push transport without touching the board.
package notify

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/pipeboard/pipeboard/internal/deal"
	"github.com/pipeboard/pipeboard/internal/logging"
)

// DefaultInterval is the poll period when none is configured.
const DefaultInterval = 30 * time.Second

// Source fetches and acknowledges notifications.
type Source interface {
	FetchPendingNotifications(ctx context.Context) ([]deal.Notification, error)
	MarkNotificationsRead(ctx context.Context, ids []string) error
}

// Subscriber delivers the current unread list whenever it changes.
type Subscriber interface {
	Subscribe(fn func([]deal.Notification)) (unsubscribe func())
}

// Option configures a Poller.
type Option func(*Poller)

// WithInterval sets the poll period. Non-positive values disable the
// periodic loop; only the initial fetch runs.
func WithInterval(d time.Duration) Option {
	return func(p *Poller) { p.interval = d }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(p *Poller) { p.logger = l }
}

// Poller fetches pending notifications on a fixed interval. A tick is
// skipped while the previous fetch is outstanding, and results arriving
// after Stop are dropped.
type Poller struct {
	source   Source
	interval time.Duration
	logger   *logging.Logger

	mu      sync.Mutex
	unread  []deal.Notification
	subs    map[int]func([]deal.Notification)
	nextSub int
	stopped bool

	// readGen counts MarkRead calls; readAt records the generation each id
	// was marked read at, so a fetch started earlier cannot bring it back.
	readGen uint64
	readAt  map[string]uint64

	inFlight atomic.Bool
	cancel   context.CancelFunc
	wg       conc.WaitGroup
}

// NewPoller creates a Poller reading from source.
func NewPoller(source Source, opts ...Option) *Poller {
	p := &Poller{
		source:   source,
		interval: DefaultInterval,
		subs:     make(map[int]func([]deal.Notification)),
		readAt:   make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logging.NopLogger()
	}
	p.logger = p.logger.WithComponent("poller")
	return p
}

// Start fetches immediately and then on every interval until ctx is done
// or Stop is called.
func (p *Poller) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	p.mu.Lock()
	p.cancel = cancel
	p.stopped = false
	p.mu.Unlock()

	p.Poll(ctx)
	p.wg.Go(func() { p.loop(ctx) })
}

// Stop cancels the loop and any outstanding fetch and waits for them.
// It is safe to call Stop more than once or without Start.
func (p *Poller) Stop() {
	p.mu.Lock()
	p.stopped = true
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.wg.Wait()
}

func (p *Poller) loop(ctx context.Context) {
	if p.interval <= 0 {
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Poll(ctx)
		}
	}
}

// Poll starts one fetch in the background. It returns false when the tick
// is skipped because a fetch is already outstanding or the poller stopped.
func (p *Poller) Poll(ctx context.Context) bool {
	if p.isStopped() {
		return false
	}
	if !p.inFlight.CompareAndSwap(false, true) {
		p.logger.Debug("skipping poll, previous fetch outstanding")
		return false
	}

	p.mu.Lock()
	startGen := p.readGen
	p.mu.Unlock()

	p.wg.Go(func() {
		defer p.inFlight.Store(false)
		notes, err := p.source.FetchPendingNotifications(ctx)
		if err != nil {
			if ctx.Err() == nil {
				p.logger.Warn("failed to fetch notifications", "error", err)
			}
			return
		}
		p.replace(notes, startGen)
	})
	return true
}

func (p *Poller) isStopped() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stopped
}

// replace installs the result of a fetch that started at read generation
// startGen. Entries marked read after the fetch started are filtered out.
func (p *Poller) replace(notes []deal.Notification, startGen uint64) {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		p.logger.Debug("dropping notifications received after stop", "count", len(notes))
		return
	}
	kept := make([]deal.Notification, 0, len(notes))
	for _, note := range notes {
		if gen, ok := p.readAt[note.ID]; ok && gen > startGen {
			continue
		}
		kept = append(kept, note)
	}
	// Fetches never overlap, so later fetches start at or after readGen and
	// no longer need entries this fetch already saw.
	for id, gen := range p.readAt {
		if gen <= startGen {
			delete(p.readAt, id)
		}
	}
	p.unread = kept
	p.mu.Unlock()

	p.logger.Debug("notifications refreshed", "count", len(kept), "filtered", len(notes)-len(kept))
	p.fanOut()
}

// Subscribe registers fn to receive the unread list after every change.
// fn runs on the poller's goroutine and must not block.
func (p *Poller) Subscribe(fn func([]deal.Notification)) (unsubscribe func()) {
	p.mu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.subs, id)
			p.mu.Unlock()
		})
	}
}

func (p *Poller) fanOut() {
	p.mu.Lock()
	snapshot := append([]deal.Notification(nil), p.unread...)
	fns := make([]func([]deal.Notification), 0, len(p.subs))
	for _, fn := range p.subs {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(snapshot)
	}
}

// Unread returns a copy of the cached unread notifications.
func (p *Poller) Unread() []deal.Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]deal.Notification(nil), p.unread...)
}

// PendingApprovals counts unread quotation approval requests.
func (p *Poller) PendingApprovals() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return deal.PendingApprovals(p.unread)
}

// MarkRead removes ids from the unread list right away, notifies
// subscribers and then acknowledges them remotely. A failed request is
// logged; the local removal stands.
func (p *Poller) MarkRead(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	p.mu.Lock()
	p.readGen++
	for id := range drop {
		p.readAt[id] = p.readGen
	}
	kept := p.unread[:0:0]
	for _, note := range p.unread {
		if _, ok := drop[note.ID]; !ok {
			kept = append(kept, note)
		}
	}
	p.unread = kept
	p.mu.Unlock()
	p.fanOut()

	if err := p.source.MarkNotificationsRead(ctx, ids); err != nil {
		p.logger.Warn("failed to mark notifications read", "count", len(ids), "error", err)
		return fmt.Errorf("mark %d notifications read: %w", len(ids), err)
	}
	return nil
}
