package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/matchday-engine/internal/domain/jobscheduler"
	"github.com/riskibarqy/matchday-engine/internal/domain/match"
	"github.com/riskibarqy/matchday-engine/internal/platform/id"
	"github.com/riskibarqy/matchday-engine/internal/platform/logging"
	"github.com/riskibarqy/matchday-engine/internal/platform/tracing"
	"github.com/sourcegraph/conc/panics"
	"go.opentelemetry.io/otel/attribute"
)

const (
	TriggerSchedule = "schedule"
	TriggerManual   = "manual"
)

type JobRunnerConfig struct {
	Workers      int
	StuckMaxLive time.Duration
	// Retention is how long non-live matches are kept. Zero disables purge.
	Retention time.Duration
}

// SportEngines groups one sport's reconciliation and grading engines.
type SportEngines struct {
	Reconciliation *ReconciliationService
	Grading        *GradingService
}

type SportJobResult struct {
	Sport  match.Sport `json:"sport"`
	Status string      `json:"status"`
	Detail any         `json:"detail,omitempty"`
	Error  string      `json:"error,omitempty"`
}

type JobRunResult struct {
	RunID      string           `json:"run_id"`
	Job        JobName          `json:"job"`
	Trigger    string           `json:"trigger"`
	Status     string           `json:"status"`
	Skipped    bool             `json:"skipped"`
	StartedAt  time.Time        `json:"started_at"`
	DurationMs int64            `json:"duration_ms"`
	Results    []SportJobResult `json:"results"`
}

type MaintenanceResult struct {
	Stuck  FixStuckResult `json:"stuck"`
	Purged int            `json:"purged"`
}

// JobRunner executes named jobs across every sport. Each job runs at most
// once at a time; a trigger that arrives while it runs is skipped.
type JobRunner struct {
	engines   []SportEngines
	blacklist *BlacklistService
	runs      jobscheduler.Repository
	state     *JobState
	ids       id.Generator
	cfg       JobRunnerConfig
	metrics   EngineMetrics
	logger    *logging.Logger
	now       func() time.Time
}

func NewJobRunner(
	engines []SportEngines,
	blacklist *BlacklistService,
	runs jobscheduler.Repository,
	state *JobState,
	ids id.Generator,
	metrics EngineMetrics,
	cfg JobRunnerConfig,
	logger *logging.Logger,
) *JobRunner {
	if logger == nil {
		logger = logging.Default()
	}
	if metrics == nil {
		metrics = NewNoopMetrics()
	}
	if state == nil {
		state = NewJobState()
	}
	if ids == nil {
		ids = id.NewTimeOrdered()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.StuckMaxLive <= 0 {
		cfg.StuckMaxLive = 4 * time.Hour
	}
	return &JobRunner{
		engines:   engines,
		blacklist: blacklist,
		runs:      runs,
		state:     state,
		ids:       ids,
		cfg:       cfg,
		metrics:   metrics,
		logger:    logger.Named("jobs"),
		now:       time.Now,
	}
}

func (r *JobRunner) State() []JobStatus {
	return r.state.Snapshot()
}

// Engine returns the engines registered for a sport.
func (r *JobRunner) Engine(sport match.Sport) (SportEngines, bool) {
	for _, engine := range r.engines {
		if engine.Reconciliation != nil && engine.Reconciliation.Sport() == sport {
			return engine, true
		}
		if engine.Grading != nil && engine.Grading.Sport() == sport {
			return engine, true
		}
	}
	return SportEngines{}, false
}

func (r *JobRunner) Run(ctx context.Context, name JobName, trigger string) (JobRunResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.JobRunner.Run",
		attribute.String("job.name", string(name)),
		attribute.String("job.trigger", trigger),
	)
	defer span.End()

	if _, ok := ParseJobName(string(name)); !ok {
		return JobRunResult{}, fmt.Errorf("%w: unknown job %q", ErrInvalidInput, name)
	}

	startedAt := r.now().UTC()
	runID, err := r.ids.NewID()
	if err != nil {
		return JobRunResult{}, fmt.Errorf("generate run id: %w", err)
	}
	result := JobRunResult{
		RunID:     runID,
		Job:       name,
		Trigger:   trigger,
		StartedAt: startedAt,
		Results:   []SportJobResult{},
	}

	if !r.state.TryStart(name) {
		result.Skipped = true
		result.Status = string(jobscheduler.StatusSkipped)
		r.metrics.JobRun(string(name), result.Status, 0)
		r.record(ctx, result, nil, "")
		r.logger.InfoContext(ctx, "job skipped, previous run still in flight", "job", string(name), "run_id", runID)
		return result, nil
	}
	defer r.state.Finish(name)

	r.record(ctx, JobRunResult{RunID: runID, Job: name, Trigger: trigger, Status: string(jobscheduler.StatusStarted)}, nil, "")
	r.logger.InfoContext(ctx, "job started", "job", string(name), "run_id", runID, "trigger", trigger)

	if name == JobReloadBlacklist {
		result.Results = append(result.Results, r.safely(ctx, "", func(ctx context.Context) (any, error) {
			return r.reloadBlacklist(ctx)
		}))
	} else {
		result.Results, err = r.fanOut(ctx, name)
		if err != nil {
			tracing.Fail(span, err)
			result.Status = string(jobscheduler.StatusFailed)
			r.finish(ctx, &result, err.Error())
			return result, err
		}
	}

	failures := make([]string, 0)
	for _, row := range result.Results {
		if row.Error != "" {
			failures = append(failures, row.Error)
		}
	}
	result.Status = string(jobscheduler.StatusCompleted)
	if len(failures) > 0 {
		result.Status = string(jobscheduler.StatusFailed)
	}
	r.finish(ctx, &result, strings.Join(failures, "; "))
	return result, nil
}

func (r *JobRunner) finish(ctx context.Context, result *JobRunResult, errMessage string) {
	duration := r.now().UTC().Sub(result.StartedAt)
	result.DurationMs = duration.Milliseconds()
	r.metrics.JobRun(string(result.Job), result.Status, duration)
	r.record(ctx, *result, result.Results, errMessage)

	if errMessage != "" {
		r.logger.WarnContext(ctx, "job finished with failures", "job", string(result.Job), "run_id", result.RunID, "duration_ms", result.DurationMs, "error", errMessage)
		return
	}
	r.logger.InfoContext(ctx, "job completed", "job", string(result.Job), "run_id", result.RunID, "duration_ms", result.DurationMs)
}

func (r *JobRunner) fanOut(ctx context.Context, name JobName) ([]SportJobResult, error) {
	pool, err := ants.NewPool(r.cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		mu      sync.Mutex
		workers sync.WaitGroup
		out     = make([]SportJobResult, 0, len(r.engines))
	)
	for _, engine := range r.engines {
		engine := engine
		task, sport := r.taskFor(name, engine)
		if task == nil {
			continue
		}

		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			row := r.safely(ctx, sport, task)
			mu.Lock()
			out = append(out, row)
			mu.Unlock()
		}); err != nil {
			workers.Done()
			return nil, fmt.Errorf("submit job task to worker pool: %w", err)
		}
	}
	workers.Wait()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Sport < out[j].Sport })
	return out, nil
}

func (r *JobRunner) taskFor(name JobName, engine SportEngines) (func(context.Context) (any, error), match.Sport) {
	recon, grading := engine.Reconciliation, engine.Grading
	switch name {
	case JobSyncLive:
		if recon != nil {
			return func(ctx context.Context) (any, error) { return recon.SyncLive(ctx) }, recon.Sport()
		}
	case JobSyncToday:
		if recon != nil {
			return func(ctx context.Context) (any, error) { return recon.SyncToday(ctx) }, recon.Sport()
		}
	case JobGradePending:
		if grading != nil {
			return func(ctx context.Context) (any, error) { return grading.GradeAllPending(ctx) }, grading.Sport()
		}
	case JobFixStuck:
		if recon != nil {
			return func(ctx context.Context) (any, error) { return r.maintain(ctx, recon) }, recon.Sport()
		}
	}
	return nil, ""
}

// maintain repairs stuck rows first and then purges old history.
func (r *JobRunner) maintain(ctx context.Context, recon *ReconciliationService) (MaintenanceResult, error) {
	stuck, err := recon.FixStuckMatches(ctx, r.cfg.StuckMaxLive)
	if err != nil {
		return MaintenanceResult{Stuck: stuck}, err
	}
	out := MaintenanceResult{Stuck: stuck}
	if r.cfg.Retention <= 0 {
		return out, nil
	}
	out.Purged, err = recon.PurgeBefore(ctx, r.now().UTC().Add(-r.cfg.Retention))
	return out, err
}

func (r *JobRunner) reloadBlacklist(ctx context.Context) (map[string]int, error) {
	if r.blacklist == nil {
		return map[string]int{"entries": 0}, nil
	}
	count, err := r.blacklist.Reload(ctx)
	return map[string]int{"entries": count}, err
}

// safely runs one task and turns a panic into a failed row.
func (r *JobRunner) safely(ctx context.Context, sport match.Sport, task func(context.Context) (any, error)) SportJobResult {
	row := SportJobResult{Sport: sport, Status: string(jobscheduler.StatusCompleted)}

	var (
		catcher panics.Catcher
		detail  any
		err     error
	)
	catcher.Try(func() {
		detail, err = task(ctx)
	})
	if recovered := catcher.Recovered(); recovered != nil {
		err = recovered.AsError()
		r.logger.ErrorContext(ctx, "job task panicked", "sport", string(sport), "panic", recovered.String())
	}

	row.Detail = detail
	if err != nil {
		row.Status = string(jobscheduler.StatusFailed)
		row.Error = err.Error()
		if sport != "" {
			row.Error = string(sport) + ": " + row.Error
		}
	}
	return row
}

func (r *JobRunner) record(ctx context.Context, result JobRunResult, rows []SportJobResult, errMessage string) {
	if r.runs == nil {
		return
	}

	event := jobscheduler.RunEvent{
		RunID:        result.RunID,
		JobName:      string(result.Job),
		Trigger:      result.Trigger,
		Status:       jobscheduler.RunStatus(result.Status),
		ErrorMessage: errMessage,
		OccurredAt:   r.now().UTC(),
	}
	if rows != nil {
		event.Payload = map[string]any{
			"duration_ms": result.DurationMs,
			"results":     rows,
		}
	}
	event.TraceID, event.SpanID = tracing.IDs(ctx)

	if err := r.runs.UpsertEvent(ctx, event); err != nil {
		r.logger.WarnContext(ctx, "record job run failed", "job", event.JobName, "run_id", event.RunID, "status", string(event.Status), "error", err)
	}
}
