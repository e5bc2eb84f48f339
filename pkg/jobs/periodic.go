package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// TaskFunc is invoked on every tick of a Periodic task.
type TaskFunc func(context.Context) error

// PeriodicConfig configures a Periodic task.
type PeriodicConfig struct {
	Interval time.Duration
	// RunImmediately fires the task once on Start before waiting for the first tick.
	RunImmediately bool
	Logger         *zap.Logger
}

// Periodic runs a task on a fixed interval until stopped or its context ends.
// Failed runs are logged and not retried; the next tick runs as usual.
type Periodic struct {
	name      string
	fn        TaskFunc
	interval  time.Duration
	immediate bool
	logger    *zap.Logger

	cancel  context.CancelFunc
	done    chan struct{}
	mu      sync.Mutex
	started bool
}

// NewPeriodic builds a stopped periodic task.
func NewPeriodic(name string, fn TaskFunc, cfg PeriodicConfig) *Periodic {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Periodic{
		name:      name,
		fn:        fn,
		interval:  cfg.Interval,
		immediate: cfg.RunImmediately,
		logger:    cfg.Logger,
	}
}

// Start launches the ticker goroutine. Calling Start on a running task is a no-op.
func (p *Periodic) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.started = true

	go p.loop(runCtx, p.done)
	p.logger.Sugar().Infow("periodic task started", "task", p.name, "interval", p.interval)
}

// Stop cancels the task and waits for the goroutine to exit. It may be restarted afterwards.
func (p *Periodic) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	cancel, done := p.cancel, p.done
	p.started = false
	p.mu.Unlock()

	cancel()
	<-done
	p.logger.Sugar().Infow("periodic task stopped", "task", p.name)
}

// Running reports whether the task is scheduled and its loop has not exited.
func (p *Periodic) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.started
}

func (p *Periodic) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	// A cancelled parent ends the loop without Stop; a later Start must launch a new one.
	defer func() {
		p.mu.Lock()
		if p.done == done {
			p.started = false
		}
		p.mu.Unlock()
	}()

	if p.immediate {
		p.run(ctx)
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.run(ctx)
		}
	}
}

func (p *Periodic) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := p.fn(ctx); err != nil {
		p.logger.Sugar().Warnw("periodic task failed", "task", p.name, "error", err)
	}
}
