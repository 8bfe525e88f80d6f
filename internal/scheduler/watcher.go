package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/JRomainG/TGVMaxBot/internal/backend"
	"github.com/JRomainG/TGVMaxBot/internal/domain"
	"github.com/JRomainG/TGVMaxBot/internal/index"
	"github.com/JRomainG/TGVMaxBot/internal/ledger"
	"github.com/JRomainG/TGVMaxBot/internal/logger"
	"github.com/JRomainG/TGVMaxBot/internal/metrics"
)

const (
	// DefaultCheckInterval is the polling period when none is configured
	DefaultCheckInterval = 10 * time.Minute

	// DefaultFirstCheckDelay keeps the first check away from the trip's creation
	DefaultFirstCheckDelay = 10 * time.Second
)

// ErrNotRunning is returned by Add before Start or after Stop
var ErrNotRunning = errors.New("watcher is not running")

// Options configures a Watcher
type Options struct {
	Interval   time.Duration    // default polling period
	FirstDelay time.Duration    // delay before a trip's first check
	Now        func() time.Time // defaults to time.Now
}

// Watcher owns every user's trip watches. Each trip gets its own recurring
// task; a tick fetches the provider, keeps matching tickets, asks the ledger
// which ones are new and notifies the user about those.
type Watcher struct {
	registry *index.Registry
	ledger   *ledger.Ledger
	backend  backend.Backend
	logger   logger.Logger

	interval   time.Duration
	firstDelay time.Duration
	now        func() time.Time

	mu     sync.RWMutex // guards ctx and cancel
	ctx    context.Context
	cancel context.CancelFunc
}

// NewWatcher creates a watcher. Zero options fall back to the defaults.
func NewWatcher(
	registry *index.Registry,
	ldg *ledger.Ledger,
	b backend.Backend,
	log logger.Logger,
	opts Options,
) *Watcher {
	if opts.Interval <= 0 {
		opts.Interval = DefaultCheckInterval
	}
	if opts.FirstDelay <= 0 {
		opts.FirstDelay = DefaultFirstCheckDelay
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Watcher{
		registry:   registry,
		ledger:     ldg,
		backend:    b,
		logger:     log,
		interval:   opts.Interval,
		firstDelay: opts.FirstDelay,
		now:        opts.Now,
	}
}

// Start lets the watcher accept trips. Every task is bound to ctx.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.ctx, w.cancel = context.WithCancel(ctx)
	w.logger.Info("watcher started",
		logger.String("backend", w.backend.Name()),
		logger.Duration("interval", w.interval),
		logger.Duration("first_delay", w.firstDelay))
	return nil
}

// Stop cancels every watch and waits for the checks in flight to return
func (w *Watcher) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.ctx, w.cancel = nil, nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	trips := w.registry.Drain()
	for _, trip := range trips {
		if trip.Job != nil {
			trip.Job.Cancel()
		}
	}
	metrics.ActiveWatches.Set(0)

	w.logger.Info("watcher stopped", logger.Int("cancelled", len(trips)))
}

// Interval is the default polling period
func (w *Watcher) Interval() time.Duration {
	return w.interval
}

// Add registers a trip for the requesting user and schedules its checks.
// interval overrides the default period when positive. It returns the
// trip's index in the user's list.
func (w *Watcher) Add(req domain.Request, trip *domain.Trip, interval time.Duration) (int, error) {
	w.mu.RLock()
	ctx := w.ctx
	w.mu.RUnlock()
	if ctx == nil {
		return 0, ErrNotRunning
	}

	if interval <= 0 {
		interval = w.interval
	}
	if trip.CreatedAt.IsZero() {
		trip.CreatedAt = w.now()
	}

	task := NewTask(w.firstDelay, interval, func(ctx context.Context) {
		w.onTick(ctx, req, trip)
	})
	trip.Job = task
	task.Start(ctx)
	idx := w.registry.Add(req.UserID, trip)
	metrics.ActiveWatches.Inc()

	w.logger.Info("trip added",
		logger.Int64("user_id", req.UserID),
		logger.String("trip_id", trip.ID),
		logger.String("trip", trip.String()),
		logger.Duration("interval", interval))

	return idx, nil
}

// List returns the user's trips in insertion order
func (w *Watcher) List(user int64) []*domain.Trip {
	return w.registry.List(user)
}

// Remove cancels and unregisters the trip at index. When it returns, the
// trip's check will not run again. Fails with index.ErrNotFound when the
// user has no trip at that index.
func (w *Watcher) Remove(user int64, idx int) (*domain.Trip, error) {
	trip, err := w.registry.RemoveAt(user, idx)
	if err != nil {
		return nil, err
	}

	if trip.Job != nil {
		trip.Job.Cancel()
	}
	metrics.ActiveWatches.Dec()

	w.logger.Info("trip removed",
		logger.Int64("user_id", user),
		logger.String("trip_id", trip.ID),
		logger.String("trip", trip.String()))

	return trip, nil
}

// Count returns the number of active watches
func (w *Watcher) Count() int {
	return w.registry.Count()
}

// onTick is the recurring check of one trip
func (w *Watcher) onTick(ctx context.Context, req domain.Request, trip *domain.Trip) {
	metrics.Ticks.Inc()

	if trip.Expired(w.now()) {
		w.expire(req.UserID, trip)
		return
	}

	log := w.logger.With(
		logger.Int64("user_id", req.UserID),
		logger.String("trip_id", trip.ID))

	tickets := w.backend.Fetch(ctx, trip)
	if ctx.Err() != nil {
		// removed or shutting down while fetching
		return
	}

	var matched []domain.Ticket
	for _, t := range tickets {
		if t.Available() && w.backend.Matches(trip, t) {
			matched = append(matched, t)
		}
	}

	novel := w.ledger.Observe(req.UserID, matched, tickets)
	log.Debug("trip checked",
		logger.Int("fetched", len(tickets)),
		logger.Int("matched", len(matched)),
		logger.Int("novel", len(novel)))

	if len(novel) == 0 {
		return
	}

	// the ledger already holds these tickets, a failed send is not retried
	if err := w.backend.Notify(ctx, req, trip, novel); err != nil {
		metrics.NotificationFailures.Inc()
		log.Error("failed to notify user", logger.Error(err))
		return
	}
	metrics.NotificationsSent.Inc()
	metrics.TicketsNotified.Add(float64(len(novel)))
	log.Info("user notified", logger.Int("tickets", len(novel)))
}

// expire retires a trip whose window has closed. It runs on the trip's own
// task, so the task is stopped without waiting for itself.
func (w *Watcher) expire(user int64, trip *domain.Trip) {
	if trip.Job != nil {
		trip.Job.Stop()
	}

	if _, err := w.registry.RemoveTrip(user, trip.ID); err != nil {
		// already removed by the user
		return
	}
	metrics.ActiveWatches.Dec()
	metrics.TripsExpired.Inc()

	w.logger.Info("trip expired",
		logger.Int64("user_id", user),
		logger.String("trip_id", trip.ID),
		logger.String("trip", trip.String()))
}
