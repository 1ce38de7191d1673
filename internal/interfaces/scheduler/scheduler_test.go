package scheduler

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/matchday-engine/internal/platform/logging"
	"github.com/riskibarqy/matchday-engine/internal/usecase"
)

type recordingRunner struct {
	mu    sync.Mutex
	calls []usecase.JobName
	seen  chan usecase.JobName
}

func (r *recordingRunner) Run(_ context.Context, name usecase.JobName, trigger string) (usecase.JobRunResult, error) {
	if trigger != usecase.TriggerSchedule {
		return usecase.JobRunResult{}, nil
	}
	r.mu.Lock()
	r.calls = append(r.calls, name)
	r.mu.Unlock()
	select {
	case r.seen <- name:
	default:
	}
	return usecase.JobRunResult{Job: name, Status: "completed"}, nil
}

func TestNew_RegistersEveryJob(t *testing.T) {
	t.Parallel()

	s, err := New(&recordingRunner{seen: make(chan usecase.JobName, 1)}, Config{
		SyncLiveInterval:  time.Minute,
		SyncTodayInterval: 15 * time.Minute,
		GradeInterval:     2 * time.Minute,
		BlacklistInterval: 5 * time.Minute,
		FixStuckHour:      3,
	}, logging.NewNop())
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	defer func() { _ = s.Shutdown() }()

	jobs := s.Jobs()
	for _, want := range usecase.AllJobs() {
		if !slices.Contains(jobs, string(want)) {
			t.Fatalf("expected job %s to be registered, got %v", want, jobs)
		}
	}
}

func TestNew_SkipsDisabledIntervals(t *testing.T) {
	t.Parallel()

	s, err := New(&recordingRunner{seen: make(chan usecase.JobName, 1)}, Config{
		SyncLiveInterval: time.Minute,
	}, logging.NewNop())
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	defer func() { _ = s.Shutdown() }()

	jobs := s.Jobs()
	if slices.Contains(jobs, string(usecase.JobGradePending)) {
		t.Fatalf("expected grade job to be disabled, got %v", jobs)
	}
	if !slices.Contains(jobs, string(usecase.JobFixStuck)) {
		t.Fatalf("expected daily fix-stuck job, got %v", jobs)
	}
}

func TestScheduler_RunsDurationJobs(t *testing.T) {
	t.Parallel()

	runner := &recordingRunner{seen: make(chan usecase.JobName, 1)}
	s, err := New(runner, Config{SyncLiveInterval: 50 * time.Millisecond}, logging.NewNop())
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	s.Start()
	defer func() { _ = s.Shutdown() }()

	select {
	case name := <-runner.seen:
		if name != usecase.JobSyncLive {
			t.Fatalf("unexpected job: %s", name)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("expected sync-live to run")
	}
}

type deadlineRunner struct {
	seen chan time.Duration
}

func (r *deadlineRunner) Run(ctx context.Context, name usecase.JobName, _ string) (usecase.JobRunResult, error) {
	var left time.Duration
	if deadline, ok := ctx.Deadline(); ok {
		left = time.Until(deadline)
	}
	select {
	case r.seen <- left:
	default:
	}
	return usecase.JobRunResult{Job: name, Status: "completed"}, nil
}

func TestScheduler_AppliesJobTimeout(t *testing.T) {
	t.Parallel()

	runner := &deadlineRunner{seen: make(chan time.Duration, 1)}
	s, err := New(runner, Config{SyncLiveInterval: 50 * time.Millisecond, JobTimeout: time.Minute}, logging.NewNop())
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	s.Start()
	defer func() { _ = s.Shutdown() }()

	select {
	case left := <-runner.seen:
		if left <= 0 || left > time.Minute {
			t.Fatalf("expected a run deadline within one minute, got %s", left)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("expected sync-live to run")
	}
}
