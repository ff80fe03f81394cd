package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quocvuong92/ai-apps/internal/display"
	"github.com/quocvuong92/ai-apps/internal/events"
	"github.com/quocvuong92/ai-apps/internal/syncer"
)

func (app *App) newSyncCmd() *cobra.Command {
	var schedule string
	cmd := &cobra.Command{
		Use:   "sync [id]",
		Short: "Fetch and cache the description of active apps",
		Long: `Fetch info, meta, parameters and site for one app, or for every active
app when no id is given. Disabled apps are never synced.

With --schedule the command keeps running and syncs on a cron schedule
until interrupted.

Examples:
  ai-apps sync
  ai-apps sync 3f1c2a9e-...
  ai-apps sync --schedule "*/15 * * * *"
  ai-apps sync --schedule @hourly`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id string
			if len(args) == 1 {
				id = args[0]
			}

			s := syncer.New(app.resolver, app.newDispatcher, app.logger,
				syncer.WithCacheTTL(app.cfg.CacheTTL))

			if schedule != "" {
				return app.runScheduledSync(cmd, s, schedule, id)
			}

			sp := display.NewSpinner("Syncing...")
			sp.Start()
			results, err := s.Sync(cmd.Context(), id)
			sp.Stop()
			if err != nil {
				return err
			}

			display.ShowSyncResults(results)
			if _, _, failed := syncer.Summary(results); failed > 0 {
				return fmt.Errorf("%d app(s) failed to sync", failed)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&schedule, "schedule", "", `Cron schedule, e.g. "*/15 * * * *" or @hourly`)
	return cmd
}

func (app *App) runScheduledSync(cmd *cobra.Command, s *syncer.Syncer, schedule, id string) error {
	if _, err := syncer.ParseSchedule(schedule); err != nil {
		return err
	}

	// surface failed provider calls as they happen
	failures := app.bus.Subscribe(app.cfg.QueueSize)
	go func() {
		for ev := range failures {
			if ev.Type == events.TypeRequestFailed {
				display.ShowWarning(fmt.Sprintf("%s %s: %s", ev.Record.ConfigName, ev.Record.Path, ev.Record.Error))
			}
		}
	}()

	display.ShowInfo(fmt.Sprintf("Syncing on schedule %q. Press Ctrl+C to stop.", schedule))
	return s.RunScheduled(cmd.Context(), schedule, id, display.ShowSyncResults)
}
