package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/matchday-engine/internal/domain/jobscheduler"
	"github.com/riskibarqy/matchday-engine/internal/domain/match"
	"github.com/riskibarqy/matchday-engine/internal/infrastructure/repository/memory"
)

type sequenceIDs struct {
	mu   sync.Mutex
	next int
}

func (s *sequenceIDs) NewID() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return "run-" + string(rune('0'+s.next)), nil
}

type panickingProvider struct {
	*stubProvider
}

func (p panickingProvider) FetchLive(context.Context) ([]match.Match, error) {
	panic("nil pointer in provider payload")
}

func TestJobState_SingleFlightPerJob(t *testing.T) {
	t.Parallel()

	state := NewJobState()
	if !state.TryStart(JobSyncLive) {
		t.Fatalf("expected first start to succeed")
	}
	if state.TryStart(JobSyncLive) {
		t.Fatalf("expected overlapping start to be rejected")
	}
	if !state.TryStart(JobGradePending) {
		t.Fatalf("different jobs must run concurrently")
	}
	state.Finish(JobSyncLive)
	if !state.TryStart(JobSyncLive) {
		t.Fatalf("expected start after finish to succeed")
	}
}

func TestJobRunner_SkipsWhileRunning(t *testing.T) {
	t.Parallel()

	state := NewJobState()
	runs := memory.NewJobRunRepository()
	runner := NewJobRunner(nil, nil, runs, state, &sequenceIDs{}, nil, JobRunnerConfig{}, nil)

	state.TryStart(JobSyncToday)
	result, err := runner.Run(context.Background(), JobSyncToday, TriggerSchedule)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !result.Skipped || result.Status != string(jobscheduler.StatusSkipped) {
		t.Fatalf("expected skipped run, got %+v", result)
	}

	events, _ := runs.ListRecent(context.Background(), 10)
	if len(events) != 1 || events[0].Status != jobscheduler.StatusSkipped {
		t.Fatalf("expected skipped audit row, got %+v", events)
	}
}

func TestJobRunner_RunsEverySportAndRecordsAudit(t *testing.T) {
	t.Parallel()

	football := newStubProvider(match.SportFootball)
	football.byDate = []match.Match{footballMatch(1, "NS", fixedNow(), nil, nil)}
	basketball := newStubProvider(match.SportBasketball)
	basketball.byDate = []match.Match{{ID: 2, Sport: match.SportBasketball, StatusShort: "NS", Date: fixedNow()}}

	repo := memory.NewMatchRepository()
	engines := []SportEngines{
		{Reconciliation: newReconciliation(football, repo, nil, nil)},
		{Reconciliation: newReconciliation(basketball, repo, nil, nil)},
	}
	runs := memory.NewJobRunRepository()
	runner := NewJobRunner(engines, nil, runs, nil, &sequenceIDs{}, nil, JobRunnerConfig{Workers: 2}, nil)

	result, err := runner.Run(context.Background(), JobSyncToday, TriggerManual)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Status != string(jobscheduler.StatusCompleted) || len(result.Results) != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Results[0].Sport != match.SportBasketball || result.Results[1].Sport != match.SportFootball {
		t.Fatalf("expected results sorted by sport, got %+v", result.Results)
	}

	stored, _ := repo.Query(context.Background(), match.Filter{})
	if len(stored) != 2 {
		t.Fatalf("expected both sports stored, got %d", len(stored))
	}

	events, _ := runs.ListRecent(context.Background(), 10)
	if len(events) != 1 || events[0].Status != jobscheduler.StatusCompleted || events[0].Payload == nil {
		t.Fatalf("expected completed audit row, got %+v", events)
	}
	if runner.state.Running(JobSyncToday) {
		t.Fatalf("job state must be cleared after the run")
	}
}

func TestJobRunner_PanicBecomesFailedRow(t *testing.T) {
	t.Parallel()

	healthy := newStubProvider(match.SportBasketball)
	broken := panickingProvider{stubProvider: newStubProvider(match.SportFootball)}

	engines := []SportEngines{
		{Reconciliation: NewReconciliationService(broken, memory.NewMatchRepository(), nil, nil, nil, ReconciliationConfig{}, nil)},
		{Reconciliation: newReconciliation(healthy, memory.NewMatchRepository(), nil, nil)},
	}
	runner := NewJobRunner(engines, nil, nil, nil, nil, nil, JobRunnerConfig{}, nil)

	result, err := runner.Run(context.Background(), JobSyncLive, TriggerSchedule)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Status != string(jobscheduler.StatusFailed) {
		t.Fatalf("expected failed status, got %+v", result)
	}

	var failed, completed int
	for _, row := range result.Results {
		switch row.Status {
		case string(jobscheduler.StatusFailed):
			failed++
			if row.Sport != match.SportFootball || row.Error == "" {
				t.Fatalf("unexpected failed row: %+v", row)
			}
		case string(jobscheduler.StatusCompleted):
			completed++
		}
	}
	if failed != 1 || completed != 1 {
		t.Fatalf("expected one failed and one completed row, got %+v", result.Results)
	}
	if runner.state.Running(JobSyncLive) {
		t.Fatalf("job state must be cleared after a panic")
	}
}

func TestJobRunner_FixStuckIncludesPurge(t *testing.T) {
	t.Parallel()

	repo := memory.NewMatchRepository(
		footballMatch(1, "2H", fixedNow().Add(-5*time.Hour), nil, nil),
		footballMatch(2, "FT", fixedNow().AddDate(0, 0, -60), nil, nil),
	)
	recon := newReconciliation(newStubProvider(match.SportFootball), repo, nil, nil)
	runner := NewJobRunner([]SportEngines{{Reconciliation: recon}}, nil, nil, nil, nil, nil, JobRunnerConfig{StuckMaxLive: 4 * time.Hour, Retention: 30 * 24 * time.Hour}, nil)
	runner.now = fixedNow

	result, err := runner.Run(context.Background(), JobFixStuck, TriggerSchedule)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	detail, ok := result.Results[0].Detail.(MaintenanceResult)
	if !ok {
		t.Fatalf("unexpected detail type %T", result.Results[0].Detail)
	}
	if detail.Stuck.Postponed != 1 || detail.Purged != 1 {
		t.Fatalf("unexpected maintenance result: %+v", detail)
	}
}

func TestJobRunner_UnknownJob(t *testing.T) {
	t.Parallel()

	runner := NewJobRunner(nil, nil, nil, nil, nil, nil, JobRunnerConfig{}, nil)
	if _, err := runner.Run(context.Background(), JobName("rebuild-everything"), TriggerManual); err == nil {
		t.Fatalf("expected unknown job error")
	}
}
