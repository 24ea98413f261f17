package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Job returns how many items it removed.
type Job func(ctx context.Context) (int, error)

type Scheduler struct {
	cron *cron.Cron
	log  *slog.Logger
	ctx  context.Context
}

func New(ctx context.Context, log *slog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithChain(cron.Recover(cronLogger{log}), cron.SkipIfStillRunning(cronLogger{log}))),
		log:  log,
		ctx:  ctx,
	}
}

// Every registers job to run at a fixed interval.
func (s *Scheduler) Every(name string, every time.Duration, job Job) error {
	if every <= 0 {
		return fmt.Errorf("scheduler: %s: interval must be positive", name)
	}
	_, err := s.cron.AddFunc("@every "+every.String(), s.wrap(name, job))
	return err
}

func (s *Scheduler) wrap(name string, job Job) func() {
	return func() {
		n, err := job(s.ctx)
		if err != nil {
			s.log.ErrorContext(s.ctx, "scheduled job failed", "job", name, "err", err)
			return
		}
		if n > 0 {
			s.log.DebugContext(s.ctx, "scheduled job", "job", name, "removed", n)
		}
	}
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() { <-s.cron.Stop().Done() }

type cronLogger struct{ log *slog.Logger }

func (l cronLogger) Info(msg string, kv ...any) { l.log.Debug(msg, kv...) }

func (l cronLogger) Error(err error, msg string, kv ...any) {
	l.log.Error(msg, append([]any{"err", err}, kv...)...)
}
