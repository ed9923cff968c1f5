package driver

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/f3rmion/livevote/internal/classify"
	"github.com/f3rmion/livevote/internal/vote"
)

const (
	// DefaultInterval is the time between polls.
	DefaultInterval = time.Second

	// clearSettle is the pause after clear-chat before the first poll.
	clearSettle = 500 * time.Millisecond
)

// Source provides wordcloud snapshots.
type Source interface {
	Fetch(ctx context.Context) ([]string, error)
}

// Clearer purges server-side history for the given keys.
type Clearer interface {
	Clear(ctx context.Context, words []string) error
}

// Status describes the outcome of one poll.
type Status struct {
	At      time.Time
	Err     error
	Changed bool
}

// Poller fetches snapshots on a fixed interval and recomputes the tally.
// At most one fetch is in flight; ticks that fire while a fetch is
// outstanding are skipped.
type Poller struct {
	source     Source
	classifier *classify.Classifier
	notifier   Notifier
	interval   time.Duration
	logger     *slog.Logger

	clearer  Clearer
	onStatus func(Status)

	inFlight atomic.Bool

	mu   sync.Mutex
	last vote.Tally
}

// PollerOption configures a Poller.
type PollerOption func(*Poller)

// WithInterval sets the polling interval.
func WithInterval(d time.Duration) PollerOption {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithLogger sets the logger for diagnostics.
func WithLogger(l *slog.Logger) PollerOption {
	return func(p *Poller) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithClearOnStart purges matched history before the first poll.
func WithClearOnStart(c Clearer) PollerOption {
	return func(p *Poller) {
		p.clearer = c
	}
}

// WithStatus registers a callback invoked after every poll.
func WithStatus(fn func(Status)) PollerOption {
	return func(p *Poller) {
		p.onStatus = fn
	}
}

// NewPoller creates a poller. The initial tally is all zeroes and is not
// delivered until a poll produces something different.
func NewPoller(src Source, c *classify.Classifier, n Notifier, opts ...PollerOption) *Poller {
	p := &Poller{
		source:     src,
		classifier: c,
		notifier:   n,
		interval:   DefaultInterval,
		logger:     slog.Default(),
		last:       vote.NewTally(c.Options()),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Last returns the most recently delivered tally.
func (p *Poller) Last() vote.Tally {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last.Clone()
}

// Run polls until ctx is done. The first poll happens immediately, or after
// the clear-chat request when one is configured.
func (p *Poller) Run(ctx context.Context) error {
	if p.clearer != nil {
		if err := p.clearer.Clear(ctx, p.classifier.Keys()); err != nil {
			p.logger.Warn("clear-chat failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(clearSettle):
		}
	}

	var wg sync.WaitGroup
	defer wg.Wait()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.dispatch(ctx, &wg)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.dispatch(ctx, &wg)
		}
	}
}

// dispatch starts a poll unless one is already running.
func (p *Poller) dispatch(ctx context.Context, wg *sync.WaitGroup) {
	if !p.inFlight.CompareAndSwap(false, true) {
		p.logger.Debug("poll skipped, previous request still in flight")
		return
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer p.inFlight.Store(false)
		p.Poll(ctx)
	}()
}

// Poll performs one fetch-classify-notify cycle. Failures keep the previous
// tally. It reports whether a new tally was delivered.
func (p *Poller) Poll(ctx context.Context) bool {
	corpus, err := p.source.Fetch(ctx)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Debug("poll failed", "error", err)
		}
		p.report(Status{At: time.Now(), Err: err})
		return false
	}

	p.mu.Lock()
	next := vote.Sanitize(p.last, p.classifier.Tally(corpus))
	changed := !next.Equal(p.last)
	if changed {
		p.last = next
	}
	p.mu.Unlock()

	if changed && p.notifier != nil {
		p.notifier.OnTallyUpdated(next.Clone())
	}
	p.report(Status{At: time.Now(), Changed: changed})
	return changed
}

func (p *Poller) report(s Status) {
	if p.onStatus != nil {
		p.onStatus(s)
	}
}
