// Package worker runs the service's background jobs.
package worker

import (
	"context"
	"sync"
	"time"

	"wager-treasury/internal/core/ports"
	"wager-treasury/pkg/logger"

	"github.com/rs/zerolog"
)

// Task is one run of a periodic job.
type Task func(ctx context.Context) error

// Periodic runs a task on a fixed interval. With a lease locker set, a tick
// only runs while this replica holds the job's lease.
type Periodic struct {
	name     string
	interval time.Duration
	timeout  time.Duration
	task     Task
	lease    ports.LeaseLocker
	log      zerolog.Logger

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewPeriodic creates a job called name. lease may be nil.
func NewPeriodic(name string, interval, timeout time.Duration, task Task, lease ports.LeaseLocker, log zerolog.Logger) *Periodic {
	if timeout <= 0 {
		timeout = interval
	}
	return &Periodic{
		name:     name,
		interval: interval,
		timeout:  timeout,
		task:     task,
		lease:    lease,
		log:      logger.Component(log, "worker").With().Str("job", name).Logger(),
		stopCh:   make(chan struct{}),
	}
}

// Start launches the loop in a goroutine.
func (p *Periodic) Start() {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		p.log.Info().Dur("interval", p.interval).Msg("periodic job started")

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
				if _, err := p.RunOnce(ctx); err != nil {
					p.log.Error().Err(err).Msg("periodic job failed")
				}
				cancel()
			case <-p.stopCh:
				p.log.Info().Msg("periodic job stopped")
				return
			}
		}
	}()
}

// RunOnce runs the task now. It reports false when another replica holds
// the lease and nothing ran.
func (p *Periodic) RunOnce(ctx context.Context) (bool, error) {
	if p.lease == nil {
		return true, p.task(ctx)
	}

	token, ok, err := p.lease.Acquire(ctx, p.name, p.timeout)
	if err != nil {
		return false, err
	}
	if !ok {
		p.log.Debug().Msg("lease held elsewhere, skipping tick")
		return false, nil
	}
	defer func() {
		// The lease expires on its own if release fails.
		if err := p.lease.Release(context.WithoutCancel(ctx), p.name, token); err != nil {
			p.log.Warn().Err(err).Msg("lease release failed")
		}
	}()
	return true, p.task(ctx)
}

// Stop ends the loop and waits for a running tick to finish.
func (p *Periodic) Stop() {
	p.stopOnce.Do(func() { close(p.stopCh) })
	p.wg.Wait()
}
