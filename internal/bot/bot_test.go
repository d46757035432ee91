package bot

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/edgard/shadowbot/internal/bot/tasks"
	"github.com/edgard/shadowbot/internal/config"
	"github.com/edgard/shadowbot/internal/logger"
)

type blockingListener struct{}

func (blockingListener) Start(ctx context.Context) { <-ctx.Done() }

type returningListener struct{}

func (returningListener) Start(context.Context) {}

type closeCounter struct {
	closed atomic.Int32
}

func (c *closeCounter) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (c *closeCounter) Get(context.Context, string) ([]byte, error)              { return nil, nil }
func (c *closeCounter) MGet(_ context.Context, keys ...string) ([][]byte, error) {
	return make([][]byte, len(keys)), nil
}
func (c *closeCounter) Del(context.Context, ...string) error { return nil }
func (c *closeCounter) Ping(context.Context) error           { return nil }
func (c *closeCounter) Close() error {
	c.closed.Add(1)
	return nil
}

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	s, err := NewScheduler(logger.Discard(), &config.SchedulerConfig{}, map[string]tasks.ScheduledTaskFunc{})
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}
	return s
}

func TestRunStopsOnCancel(t *testing.T) {
	store := &closeCounter{}
	b := NewBot(logger.Discard(), &config.Config{}, store, blockingListener{}, newTestScheduler(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v, want nil on shutdown", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancellation")
	}
	if store.closed.Load() != 1 {
		t.Errorf("store closed %d times, want 1", store.closed.Load())
	}
}

func TestRunFailsWhenListenerStops(t *testing.T) {
	store := &closeCounter{}
	b := NewBot(logger.Discard(), &config.Config{}, store, returningListener{}, newTestScheduler(t))

	if err := b.Run(context.Background()); err == nil {
		t.Error("Run() error = nil, want unexpected listener stop")
	}
	if store.closed.Load() != 1 {
		t.Errorf("store closed %d times, want 1", store.closed.Load())
	}
}
