package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is the unit of work run on every tick, e.g. rebuilding the sitemap.
type Job func(context.Context) error

// DefaultParser accepts optional seconds and descriptors such as "@hourly".
var DefaultParser = cron.NewParser(
	cron.SecondOptional |
		cron.Minute |
		cron.Hour |
		cron.Dom |
		cron.Month |
		cron.Dow |
		cron.Descriptor,
)

type Scheduler struct {
	name        string
	cron        *cron.Cron
	expression  string
	job         Job
	logger      *slog.Logger
	jobTimeout  time.Duration
	runOnStart  bool
	started     bool
	startStopMu sync.Mutex
}

type Option func(*Scheduler)

func WithCron(c *cron.Cron) Option {
	return func(s *Scheduler) {
		if c != nil {
			s.cron = c
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithJobTimeout(timeout time.Duration) Option {
	return func(s *Scheduler) {
		if timeout > 0 {
			s.jobTimeout = timeout
		}
	}
}

// WithRunOnStart executes the job once, synchronously, inside Start.
func WithRunOnStart() Option {
	return func(s *Scheduler) {
		s.runOnStart = true
	}
}

func New(name, expression string, job Job, opts ...Option) (*Scheduler, error) {
	if expression == "" {
		return nil, errors.New("cron expression cannot be empty")
	}

	if job == nil {
		return nil, errors.New("job cannot be nil")
	}

	if _, err := DefaultParser.Parse(expression); err != nil {
		return nil, fmt.Errorf("invalid cron expression: %w", err)
	}

	scheduler := &Scheduler{
		name:       name,
		expression: expression,
		job:        job,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(scheduler)
	}

	if scheduler.cron == nil {
		scheduler.cron = cron.New(cron.WithParser(DefaultParser))
	}

	return scheduler, nil
}

func (s *Scheduler) Start(ctx context.Context) error {
	if s == nil {
		return errors.New("scheduler is nil")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	s.startStopMu.Lock()
	defer s.startStopMu.Unlock()

	if s.started {
		return errors.New("scheduler already started")
	}

	if s.runOnStart {
		s.tick(ctx)
	}

	if _, err := s.cron.AddFunc(s.expression, func() { s.tick(ctx) }); err != nil {
		return fmt.Errorf("schedule job: %w", err)
	}

	s.cron.Start()
	s.started = true

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	if s == nil {
		return
	}

	s.startStopMu.Lock()
	if !s.started {
		s.startStopMu.Unlock()
		return
	}

	done := s.cron.Stop()
	s.started = false
	s.startStopMu.Unlock()

	<-done.Done()
}

// Run executes the job immediately, applying the configured timeout.
func (s *Scheduler) Run(ctx context.Context) error {
	if s == nil {
		return errors.New("scheduler is nil")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if s.jobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.jobTimeout)
		defer cancel()
	}

	return s.job(ctx)
}

func (s *Scheduler) tick(ctx context.Context) {
	started := time.Now()

	if err := s.Run(ctx); err != nil {
		s.logger.Error("scheduled job failed", "job", s.name, "error", err)
		return
	}

	s.logger.Debug("scheduled job finished", "job", s.name, "took", time.Since(started))
}
