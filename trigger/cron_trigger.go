package trigger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"genai-news/usecase/refresh"
)

// CronTrigger fires on a cron schedule. Runs never overlap: a tick that
// arrives while the previous refresh is still running is skipped.
type CronTrigger struct {
	schedule   string
	runOnStart bool
	logger     *slog.Logger

	cron *cron.Cron
	wg   sync.WaitGroup
}

func NewCronTrigger(schedule string, runOnStart bool, logger *slog.Logger) *CronTrigger {
	return &CronTrigger{schedule: schedule, runOnStart: runOnStart, logger: logger}
}

func (t *CronTrigger) Name() string { return "cron" }

func (t *CronTrigger) Start(ctx context.Context, fire FireFunc) error {
	cronLogger := &cronLogAdapter{logger: t.logger}
	c := cron.New(
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)

	if _, err := c.AddFunc(t.schedule, func() {
		fire(ctx, refresh.ReasonSchedule)
	}); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", t.schedule, err)
	}

	t.cron = c
	c.Start()

	if t.runOnStart {
		t.wg.Add(1)
		go func() {
			defer t.wg.Done()
			fire(ctx, refresh.ReasonStartup)
		}()
	}
	return nil
}

// Stop stops scheduling and waits for running jobs.
func (t *CronTrigger) Stop() {
	if t.cron != nil {
		<-t.cron.Stop().Done()
	}
	t.wg.Wait()
}

// cronLogAdapter routes cron's own logging into slog.
type cronLogAdapter struct {
	logger *slog.Logger
}

func (a *cronLogAdapter) Info(msg string, keysAndValues ...any) {
	a.logger.Debug("cron: "+msg, keysAndValues...)
}

func (a *cronLogAdapter) Error(err error, msg string, keysAndValues ...any) {
	a.logger.Error("cron: "+msg, append([]any{"error", err}, keysAndValues...)...)
}
