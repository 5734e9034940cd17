package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_AddJob_InvalidSchedule(t *testing.T) {
	t.Parallel()

	s := New(time.Second)
	err := s.AddJob("broken", "not a schedule", func(context.Context) error { return nil })
	assert.ErrorContains(t, err, "broken")
	assert.Empty(t, s.Jobs())
}

func TestScheduler_Run(t *testing.T) {
	t.Parallel()

	s := New(50 * time.Millisecond)

	var sawDeadline atomic.Bool
	require.NoError(t, s.run("health", func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		sawDeadline.Store(ok)
		return nil
	}))
	assert.True(t, sawDeadline.Load())

	boom := errors.New("boom")
	assert.ErrorIs(t, s.run("warm", func(context.Context) error { return boom }), boom)
}

func TestScheduler_StopCancelsRunningJob(t *testing.T) {
	t.Parallel()

	// ジョブの timeout より十分早く Stop が戻ること
	s := New(time.Hour)
	started := make(chan struct{})
	require.NoError(t, s.AddJob("slow", "@every 1s", func(ctx context.Context) error {
		select {
		case started <- struct{}{}:
		default:
		}
		<-ctx.Done()
		return ctx.Err()
	}))
	s.Start()

	select {
	case <-started:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not start")
	}

	select {
	case <-s.Stop().Done():
	case <-time.After(time.Second):
		t.Fatal("Stop did not cancel the running job")
	}
}

func TestScheduler_RunsScheduledJob(t *testing.T) {
	t.Parallel()

	s := New(time.Second)
	ran := make(chan struct{}, 1)
	require.NoError(t, s.AddJob("tick", "@every 1s", func(context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	}))

	jobs := s.Jobs()
	require.Contains(t, jobs, "tick")

	s.Start()
	defer func() { <-s.Stop().Done() }()

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}
}
