// Package scheduler は cron 式でバックグラウンドジョブを実行します。
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"sentiment_backend/internal/platform/metrics"
)

// Job is a scheduled task.
type Job func(ctx context.Context) error

// Scheduler manages periodic jobs.
type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration

	// base は Stop で取り消され、実行中のジョブに伝わります。
	base   context.Context
	cancel context.CancelFunc

	mu   sync.Mutex
	jobs map[string]cron.EntryID
}

// New creates a scheduler. 各ジョブ実行は timeout で打ち切られます。
func New(timeout time.Duration) *Scheduler {
	if timeout <= 0 {
		timeout = time.Minute
	}
	base, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		// 前回の実行が終わっていなければ次回をスキップする
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		timeout: timeout,
		base:    base,
		cancel:  cancel,
		jobs:    make(map[string]cron.EntryID),
	}
}

// AddJob registers job under name. schedule は "@every 1m" などの cron 式です。
func (s *Scheduler) AddJob(name, schedule string, job Job) error {
	id, err := s.cron.AddFunc(schedule, func() { s.run(name, job) })
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", name, err)
	}

	s.mu.Lock()
	s.jobs[name] = id
	s.mu.Unlock()

	slog.Info("scheduled job", "job", name, "schedule", schedule)
	return nil
}

func (s *Scheduler) run(name string, job Job) error {
	ctx, cancel := context.WithTimeout(s.base, s.timeout)
	defer cancel()

	start := time.Now()
	err := job(ctx)
	metrics.RecordJob(name, err)
	if err != nil {
		slog.Warn("job failed", "job", name, "error", err)
		return err
	}
	slog.Debug("job completed", "job", name, "elapsed", time.Since(start))
	return nil
}

// Jobs returns the names of registered jobs with their next run time.
func (s *Scheduler) Jobs() map[string]time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]time.Time, len(s.jobs))
	for name, id := range s.jobs {
		out[name] = s.cron.Entry(id).Next
	}
	return out
}

// Start begins running scheduled jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and cancels running jobs.
// 返される context は実行中のジョブが戻った時点で Done になります。
func (s *Scheduler) Stop() context.Context {
	done := s.cron.Stop()
	s.cancel()
	return done
}
