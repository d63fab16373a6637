package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alanhoffer/hf-dashboard/pkg/logger"
	"go.uber.org/goleak"
)

type fakeLock struct {
	acquired bool
}

func (f *fakeLock) Acquire(context.Context) (bool, error) {
	if f.acquired {
		return false, nil
	}
	f.acquired = true
	return true, nil
}

func (f *fakeLock) Release(context.Context) error { f.acquired = false; return nil }

type testJob struct {
	name string
	err  error
	runs int
}

func (t *testJob) Name() string { return t.name }

func (t *testJob) Run(context.Context) error {
	t.runs++
	return t.err
}

func TestServiceRunCycleRunsAllJobsEvenOnFailure(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	registry := NewRegistry(&testJob{name: "success"}, &testJob{name: "fail", err: errors.New("boom")})
	service, err := NewService(ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     &fakeLock{},
		Interval: 0,
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	ctx := context.Background()
	if err := service.runCycle(ctx); err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	jobs := registry.Jobs()
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if success, ok := jobs[0].(*testJob); ok {
		if success.runs != 1 {
			t.Fatalf("expected success job to run once, ran %d", success.runs)
		}
	} else {
		t.Fatalf("first job type mismatch")
	}
	if failure, ok := jobs[1].(*testJob); ok {
		if failure.runs != 1 {
			t.Fatalf("expected failure job to run once, ran %d", failure.runs)
		}
	} else {
		t.Fatalf("second job type mismatch")
	}
}

func TestServiceRunCycleSkipsWhenLocked(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	job := &testJob{name: "stock-expiration"}
	service, err := NewService(ServiceParams{
		Logger:   logg,
		Registry: NewRegistry(job),
		Lock:     &fakeLock{acquired: true},
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	if err := service.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once: %v", err)
	}
	if job.runs != 0 {
		t.Fatalf("expected job to be skipped, ran %d", job.runs)
	}
}

func TestNewServiceParsesSchedule(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	now := time.Date(2026, 5, 10, 10, 17, 0, 0, time.UTC)

	service, err := NewService(ServiceParams{
		Logger:   logg,
		Lock:     &fakeLock{},
		Schedule: "0 * * * *",
		Interval: time.Minute,
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	if next := service.schedule.Next(now); !next.Equal(time.Date(2026, 5, 10, 11, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected top of the hour, got %s", next)
	}

	service, err = NewService(ServiceParams{Logger: logg, Lock: &fakeLock{}, Interval: 30 * time.Minute})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	if next := service.schedule.Next(now); !next.Equal(now.Add(30 * time.Minute)) {
		t.Fatalf("expected interval schedule, got %s", next)
	}

	if _, err := NewService(ServiceParams{Logger: logg, Lock: &fakeLock{}, Schedule: "every tuesday"}); err == nil {
		t.Fatal("expected invalid schedule error")
	}
}

func TestServiceRunStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	job := &testJob{name: "stock-expiration"}
	service, err := NewService(ServiceParams{
		Logger:   logg,
		Registry: NewRegistry(job),
		Lock:     &fakeLock{},
		Interval: time.Hour,
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- service.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if job.runs != 1 {
		t.Fatalf("expected the initial cycle to run once, ran %d", job.runs)
	}
}
