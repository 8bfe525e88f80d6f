package scheduler

import (
	"context"
	"sync"
	"time"
)

// Task runs a callback after an initial delay and then at a fixed period,
// on its own goroutine. Runs never overlap.
type Task struct {
	delay  time.Duration
	period time.Duration
	fn     func(ctx context.Context)

	mu     sync.Mutex // guards cancel
	ctx    context.Context
	cancel context.CancelFunc

	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}
}

// NewTask creates a stopped task. Call Start to schedule it.
func NewTask(delay, period time.Duration, fn func(ctx context.Context)) *Task {
	return &Task{
		delay:  delay,
		period: period,
		fn:     fn,
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start schedules the task. The context passed to the callback is derived
// from ctx and cancelled when the task stops.
func (t *Task) Start(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		return
	}
	t.ctx, t.cancel = context.WithCancel(ctx)

	go func() {
		defer close(t.done)

		timer := time.NewTimer(t.delay)
		defer timer.Stop()

		select {
		case <-timer.C:
			t.run()
		case <-t.stopCh:
			return
		case <-t.ctx.Done():
			return
		}

		ticker := time.NewTicker(t.period)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				t.run()
			case <-t.stopCh:
				return
			case <-t.ctx.Done():
				return
			}
		}
	}()
}

// run skips the callback when a stop raced with the tick in the select above
func (t *Task) run() {
	select {
	case <-t.stopCh:
		return
	default:
	}
	t.fn(t.ctx)
}

// Stop prevents further runs. It does not wait for a run in flight and is
// safe to call from the callback itself.
func (t *Task) Stop() {
	t.stopOnce.Do(func() {
		close(t.stopCh)
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.cancel != nil {
			t.cancel()
		}
	})
}

// Wait blocks until the task goroutine exited. A task never started
// returns immediately.
func (t *Task) Wait() {
	t.mu.Lock()
	started := t.cancel != nil
	t.mu.Unlock()
	if !started {
		return
	}
	<-t.done
}

// Cancel stops the task and waits for a run in flight to return.
// Once Cancel returns the callback will not be invoked again.
// Must not be called from the callback.
func (t *Task) Cancel() {
	t.Stop()
	t.Wait()
}

// Stopped reports whether Stop or Cancel was called
func (t *Task) Stopped() bool {
	select {
	case <-t.stopCh:
		return true
	default:
		return false
	}
}
