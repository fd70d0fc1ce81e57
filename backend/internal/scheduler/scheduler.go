package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/Tharunnagabramhagna/foundria/backend/internal/logger"
	"github.com/Tharunnagabramhagna/foundria/backend/internal/service"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Refresher re-scores every open report
type Refresher interface {
	RefreshOpenMatches(ctx context.Context) (service.RefreshSummary, error)
}

type Scheduler struct {
	cron      *cron.Cron
	refresher Refresher
	spec      string
	timeout   time.Duration
	log       zerolog.Logger
}

// NewScheduler builds a second-precision scheduler running the match refresh
// on spec. A refresh still running when the next tick fires is skipped.
func NewScheduler(refresher Refresher, spec string, timeout time.Duration) *Scheduler {
	log := logger.Component("scheduler")
	c := cron.New(
		cron.WithSeconds(),
		cron.WithLogger(cronLogger{log: log}),
		cron.WithChain(cron.Recover(cronLogger{log: log}), cron.SkipIfStillRunning(cronLogger{log: log})),
	)

	return &Scheduler{
		cron:      c,
		refresher: refresher,
		spec:      spec,
		timeout:   timeout,
		log:       log,
	}
}

func (s *Scheduler) Start() error {
	s.log.Info().Str("spec", s.spec).Msg("Starting scheduler")

	if _, err := s.cron.AddFunc(s.spec, s.runRefresh); err != nil {
		return fmt.Errorf("schedule match refresh: %w", err)
	}

	s.cron.Start()
	s.log.Info().Msg("Scheduler started")
	return nil
}

// Stop halts the scheduler and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	s.log.Info().Msg("Stopping scheduler")
	<-s.cron.Stop().Done()
	s.log.Info().Msg("Scheduler stopped")
}

func (s *Scheduler) runRefresh() {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	if _, err := s.RunNow(ctx); err != nil {
		s.log.Error().Err(err).Msg("Scheduled match refresh failed")
	}
}

// RunNow triggers the match refresh immediately
func (s *Scheduler) RunNow(ctx context.Context) (service.RefreshSummary, error) {
	start := time.Now()
	summary, err := s.refresher.RefreshOpenMatches(ctx)
	s.log.Info().
		Int("targets", summary.Targets).
		Int("matched", summary.Matched).
		Int("announced", summary.Announced).
		Dur("took", time.Since(start)).
		Msg("Match refresh finished")
	return summary, err
}

// Entries returns the scheduled jobs
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

// cronLogger routes cron's own logging through zerolog.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
