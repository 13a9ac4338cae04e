package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIntervalSchedule_Next(t *testing.T) {
	s := Every(10 * time.Minute)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, now.Add(10*time.Minute), s.Next(now))
}

func TestScheduler_RunNowFiresImmediately(t *testing.T) {
	var runs atomic.Int64
	job := JobFunc{JobName: "counter", Fn: func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}}

	s := New(nil)
	s.Register(job, Every(time.Hour), true)
	s.Start(context.Background())
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return runs.Load() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestScheduler_RepeatsOnInterval(t *testing.T) {
	var runs atomic.Int64
	job := JobFunc{JobName: "ticker", Fn: func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}}

	s := New(nil)
	s.Register(job, Every(20*time.Millisecond), false)
	s.Start(context.Background())
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return runs.Load() >= 3
	}, 2*time.Second, 10*time.Millisecond)
}

func TestScheduler_StopWaitsForInFlightRun(t *testing.T) {
	started := make(chan struct{})
	var finished atomic.Bool

	job := JobFunc{JobName: "slow", Fn: func(ctx context.Context) error {
		close(started)
		time.Sleep(50 * time.Millisecond)
		finished.Store(true)
		return nil
	}}

	s := New(nil)
	s.Register(job, Every(time.Hour), true)
	s.Start(context.Background())

	<-started
	s.Stop()

	assert.True(t, finished.Load(), "Stop returned before the running job finished")
}

func TestScheduler_FailingJobKeepsScheduling(t *testing.T) {
	var runs atomic.Int64
	job := JobFunc{JobName: "flaky", Fn: func(ctx context.Context) error {
		runs.Add(1)
		return errors.New("boom")
	}}

	s := New(nil)
	s.Register(job, Every(20*time.Millisecond), true)
	s.Start(context.Background())
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return runs.Load() >= 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestScheduler_StartTwiceIsNoop(t *testing.T) {
	var runs atomic.Int64
	job := JobFunc{JobName: "once", Fn: func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}}

	s := New(nil)
	s.Register(job, Every(time.Hour), true)
	s.Start(context.Background())
	s.Start(context.Background())
	defer s.Stop()

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int64(1), runs.Load())
}
