package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/ternarybob/flipscout/internal/common"
	"github.com/ternarybob/flipscout/internal/flippa"
	"github.com/ternarybob/flipscout/internal/schemas"
	"github.com/ternarybob/flipscout/internal/services/market"
)

// watchRunTimeout bounds a single scheduled market overview
const watchRunTimeout = 5 * time.Minute

// watcher prints a market snapshot on every scheduled run
type watcher struct {
	app          *cli
	service      *market.Service
	propertyType string
	out          io.Writer
}

func newWatchCmd(app *cli) *cobra.Command {
	var (
		schedule     string
		propertyType string
		runNow       bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print market snapshots on a schedule",
		Long:  `Runs a market overview on a cron schedule (minimum interval 5 minutes) and prints each snapshot until interrupted.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("schedule") {
				schedule = app.config.Watch.Schedule
			}
			if !cmd.Flags().Changed("property-type") {
				propertyType = app.config.Watch.PropertyType
			}

			if err := common.ValidateWatchSchedule(schedule); err != nil {
				return err
			}
			input := schemas.NewMarketOverviewInput()
			input.PropertyType = propertyType
			if err := schemas.Validate(input); err != nil {
				return err
			}

			w := &watcher{
				app:          app,
				service:      market.NewService(app.listings(), app.logger),
				propertyType: propertyType,
				out:          cmd.OutOrStdout(),
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			common.PrintBanner(common.GetVersion())
			return w.run(ctx, schedule, runNow)
		},
	}

	cmd.Flags().StringVar(&schedule, "schedule", "", "Cron schedule (overrides config, e.g. \"*/15 * * * *\")")
	cmd.Flags().StringVar(&propertyType, "property-type", "", "Restrict to a single category (overrides config)")
	cmd.Flags().BoolVar(&runNow, "now", false, "Run once immediately before the first scheduled run")

	return cmd
}

// run schedules the overview and blocks until ctx is done
func (w *watcher) run(ctx context.Context, schedule string, runNow bool) error {
	scheduler := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := scheduler.AddFunc(schedule, func() { w.tick(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule market watch: %w", err)
	}

	w.app.logger.Info().
		Str("schedule", schedule).
		Str("property_type", w.propertyType).
		Msg("Market watch started - Press Ctrl+C to stop")

	if runNow {
		w.tick(ctx)
	}

	scheduler.Start()
	<-ctx.Done()

	w.app.logger.Info().Msg("Stopping market watch")
	<-scheduler.Stop().Done()
	w.app.logger.Info().Msg("Market watch stopped")

	return nil
}

// tick runs one overview. Failures are logged and the schedule continues.
func (w *watcher) tick(ctx context.Context) {
	defer common.RecoverJob(w.app.logger, "market-watch")

	ctx, cancel := context.WithTimeout(ctx, watchRunTimeout)
	defer cancel()

	start := time.Now()
	snapshot, err := w.service.Overview(ctx, w.propertyType)
	if err != nil {
		w.app.logger.Error().
			Str("kind", string(flippa.KindOf(err))).
			Err(err).
			Msg("Market watch run failed")
		return
	}

	w.app.logger.Info().
		Int("total_listings", snapshot.TotalListings).
		Dur("duration", time.Since(start)).
		Msg("Market snapshot taken")

	if err := printJSON(w.out, snapshot); err != nil {
		w.app.logger.Error().Err(err).Msg("Failed to write market snapshot")
	}
}
