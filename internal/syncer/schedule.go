package syncer

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/robfig/cron/v3"

	"github.com/quocvuong92/ai-apps/internal/logging"
)

// Five-field cron plus descriptors such as @hourly, matching gocron's parsing
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseSchedule checks a cron expression
func ParseSchedule(expr string) (cron.Schedule, error) {
	sched, err := cronParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", expr, err)
	}
	return sched, nil
}

// NextRun returns the first run of expr after from
func NextRun(expr string, from time.Time) (time.Time, error) {
	sched, err := ParseSchedule(expr)
	if err != nil {
		return time.Time{}, err
	}
	return sched.Next(from), nil
}

// RunScheduled syncs id (or every active app) on the cron schedule expr until
// ctx is done. report receives every run's results. Runs never overlap: a run
// still going when the next is due pushes that one back.
func (s *Syncer) RunScheduled(ctx context.Context, expr, id string, report func([]Result)) error {
	if _, err := ParseSchedule(expr); err != nil {
		return err
	}

	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.Local))
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.CronJob(expr, false),
		gocron.NewTask(func() {
			results, err := s.Sync(ctx, id)
			if err != nil {
				s.logger.Error("scheduled sync failed", err)
				return
			}
			if report != nil {
				report(results)
			}
		}),
		gocron.WithName("sync"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return fmt.Errorf("failed to create job: %w", err)
	}

	scheduler.Start()
	if next, err := NextRun(expr, time.Now()); err == nil {
		s.logger.Info("sync scheduled", logging.Fields{"schedule": expr, "next_run": next.Format(time.RFC3339)})
	}

	<-ctx.Done()
	return scheduler.Shutdown()
}
