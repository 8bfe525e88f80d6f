package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestTaskRunsAfterDelayThenPeriodically(t *testing.T) {
	var runs atomic.Int32
	task := NewTask(20*time.Millisecond, 5*time.Millisecond, func(context.Context) {
		runs.Add(1)
	})

	task.Start(context.Background())
	defer task.Cancel()

	if runs.Load() != 0 {
		t.Fatal("task ran before its initial delay")
	}
	waitFor(t, "three runs", func() bool { return runs.Load() >= 3 })
}

func TestTaskCancelStopsFurtherRuns(t *testing.T) {
	var runs atomic.Int32
	task := NewTask(time.Millisecond, time.Millisecond, func(context.Context) {
		runs.Add(1)
	})
	task.Start(context.Background())
	waitFor(t, "first run", func() bool { return runs.Load() >= 1 })

	task.Cancel()
	after := runs.Load()
	time.Sleep(20 * time.Millisecond)

	if got := runs.Load(); got != after {
		t.Errorf("task ran %d more times after Cancel", got-after)
	}
	if !task.Stopped() {
		t.Error("Stopped() = false after Cancel")
	}
}

func TestTaskCancelWaitsForRunInFlight(t *testing.T) {
	started := make(chan struct{})
	var finished atomic.Bool
	task := NewTask(time.Millisecond, time.Hour, func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		time.Sleep(10 * time.Millisecond)
		finished.Store(true)
	})
	task.Start(context.Background())
	<-started

	task.Cancel()
	if !finished.Load() {
		t.Error("Cancel returned while the callback was still running")
	}
}

func TestTaskStopFromCallback(t *testing.T) {
	var runs atomic.Int32
	var task *Task
	task = NewTask(time.Millisecond, time.Millisecond, func(context.Context) {
		runs.Add(1)
		task.Stop()
	})
	task.Start(context.Background())

	waitFor(t, "task exit", func() bool {
		select {
		case <-task.done:
			return true
		default:
			return false
		}
	})
	if runs.Load() != 1 {
		t.Errorf("runs = %d, want 1", runs.Load())
	}
}

func TestTaskCancelBeforeStart(t *testing.T) {
	task := NewTask(time.Millisecond, time.Millisecond, func(context.Context) {
		t.Error("callback should not run")
	})
	task.Cancel()
	task.Start(context.Background())
	task.Wait()
}

func TestTaskParentContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var runs atomic.Int32
	task := NewTask(time.Hour, time.Hour, func(context.Context) {
		runs.Add(1)
	})
	task.Start(ctx)

	cancel()
	task.Wait()
	if runs.Load() != 0 {
		t.Errorf("runs = %d, want 0", runs.Load())
	}
}
