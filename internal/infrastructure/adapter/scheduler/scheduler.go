// Package scheduler runs background jobs on gocron
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/core"
)

// Task is one run of a job. Errors are logged; the job keeps its schedule.
type Task func(ctx context.Context) error

// Scheduler owns a gocron scheduler. Jobs run in singleton mode: a run that is
// still busy when the next one is due makes the next one skip.
type Scheduler struct {
	cron   gocron.Scheduler
	logger core.Logger

	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

// New creates a stopped scheduler
func New(logger core.Logger) (*Scheduler, error) {
	s, err := gocron.NewScheduler(gocron.WithLogger(gocronLogger{logger: logger}))
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{cron: s, logger: logger, ctx: ctx, cancel: cancel}, nil
}

// Every runs task at a fixed interval, first run immediately on Start
func (s *Scheduler) Every(name string, interval time.Duration, task Task) error {
	if interval <= 0 {
		return fmt.Errorf("job %s: interval must be positive", name)
	}
	return s.add(name, gocron.DurationJob(interval), task, gocron.WithStartAt(gocron.WithStartImmediately()))
}

// Cron runs task on a five-field cron expression
func (s *Scheduler) Cron(name, expression string, task Task) error {
	return s.add(name, gocron.CronJob(expression, false), task)
}

func (s *Scheduler) add(name string, def gocron.JobDefinition, task Task, extra ...gocron.JobOption) error {
	opts := append([]gocron.JobOption{
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	}, extra...)

	_, err := s.cron.NewJob(def, gocron.NewTask(func() { s.run(name, task) }), opts...)
	if err != nil {
		return fmt.Errorf("schedule job %s: %w", name, err)
	}
	return nil
}

func (s *Scheduler) run(name string, task Task) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Scheduled job panicked", map[string]any{"job": name, "panic": fmt.Sprint(r)})
		}
	}()

	if err := task(s.ctx); err != nil {
		s.logger.Error("Scheduled job failed", map[string]any{
			"job":      name,
			"error":    err.Error(),
			"duration": time.Since(start).String(),
		})
		return
	}
	s.logger.Debug("Scheduled job finished", map[string]any{
		"job":      name,
		"duration": time.Since(start).String(),
	})
}

// Start begins running jobs
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started", map[string]any{"jobs": len(s.cron.Jobs())})
}

// Shutdown cancels running tasks and waits for them to return
func (s *Scheduler) Shutdown() error {
	var err error
	s.once.Do(func() {
		s.cancel()
		err = s.cron.Shutdown()
	})
	return err
}

type gocronLogger struct {
	logger core.Logger
}

func fields(args []any) map[string]any {
	if len(args) == 0 {
		return nil
	}
	f := make(map[string]any, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		f[fmt.Sprint(args[i])] = args[i+1]
	}
	return f
}

func (l gocronLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, fields(args)) }
func (l gocronLogger) Info(msg string, args ...any)  { l.logger.Debug(msg, fields(args)) }
func (l gocronLogger) Warn(msg string, args ...any)  { l.logger.Warn(msg, fields(args)) }
func (l gocronLogger) Error(msg string, args ...any) { l.logger.Error(msg, fields(args)) }
