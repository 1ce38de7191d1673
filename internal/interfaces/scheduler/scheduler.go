package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/riskibarqy/matchday-engine/internal/platform/logging"
	"github.com/riskibarqy/matchday-engine/internal/usecase"
)

// Runner executes a named job. *usecase.JobRunner satisfies it.
type Runner interface {
	Run(ctx context.Context, name usecase.JobName, trigger string) (usecase.JobRunResult, error)
}

type Config struct {
	SyncLiveInterval  time.Duration
	SyncTodayInterval time.Duration
	GradeInterval     time.Duration
	BlacklistInterval time.Duration
	FixStuckHour      uint
	FixStuckMinute    uint
	Location          *time.Location
	// JobTimeout bounds a single scheduled run. Zero leaves it unbounded.
	JobTimeout time.Duration
}

// Scheduler is the external timer that drives the engines.
type Scheduler struct {
	sched  gocron.Scheduler
	runner Runner
	cfg    Config
	logger *logging.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

func New(runner Runner, cfg Config, logger *logging.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	sched, err := gocron.NewScheduler(gocron.WithLocation(cfg.Location))
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		sched:  sched,
		runner: runner,
		cfg:    cfg,
		logger: logger.Named("scheduler"),
		ctx:    ctx,
		cancel: cancel,
	}
	if err := s.register(); err != nil {
		cancel()
		_ = sched.Shutdown()
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) register() error {
	intervals := []struct {
		job      usecase.JobName
		interval time.Duration
	}{
		{usecase.JobSyncLive, s.cfg.SyncLiveInterval},
		{usecase.JobSyncToday, s.cfg.SyncTodayInterval},
		{usecase.JobGradePending, s.cfg.GradeInterval},
		{usecase.JobReloadBlacklist, s.cfg.BlacklistInterval},
	}
	for _, item := range intervals {
		if item.interval <= 0 {
			s.logger.Info("scheduled job disabled", "job", item.job)
			continue
		}
		if _, err := s.sched.NewJob(
			gocron.DurationJob(item.interval),
			gocron.NewTask(s.run, item.job),
			gocron.WithName(string(item.job)),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		); err != nil {
			return fmt.Errorf("register job %s: %w", item.job, err)
		}
	}

	if _, err := s.sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(s.cfg.FixStuckHour, s.cfg.FixStuckMinute, 0))),
		gocron.NewTask(s.run, usecase.JobFixStuck),
		gocron.WithName(string(usecase.JobFixStuck)),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	); err != nil {
		return fmt.Errorf("register job %s: %w", usecase.JobFixStuck, err)
	}
	return nil
}

// Jobs lists the registered job names.
func (s *Scheduler) Jobs() []string {
	jobs := s.sched.Jobs()
	out := make([]string, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, job.Name())
	}
	return out
}

func (s *Scheduler) Start() {
	s.sched.Start()
	s.logger.Info("scheduler started", "jobs", s.Jobs())
}

// Shutdown cancels in-flight runs and waits for the scheduler to stop.
func (s *Scheduler) Shutdown() error {
	s.cancel()
	if err := s.sched.Shutdown(); err != nil {
		return fmt.Errorf("shutdown scheduler: %w", err)
	}
	return nil
}

func (s *Scheduler) run(name usecase.JobName) {
	ctx := s.ctx
	if s.cfg.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.JobTimeout)
		defer cancel()
	}

	result, err := s.runner.Run(ctx, name, usecase.TriggerSchedule)
	if err != nil {
		s.logger.WarnContext(ctx, "scheduled job failed", "job", name, "run_id", result.RunID, "error", err)
		return
	}
	if result.Skipped {
		s.logger.DebugContext(ctx, "scheduled job skipped, previous run still active", "job", name)
	}
}
