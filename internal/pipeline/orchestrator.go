package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// Orchestrator manages the pipeline goroutines: the detection loop and the
// cold-storage archiver.
type Orchestrator struct {
	detector       *Detector
	archiver       *Archiver // optional
	detectInterval time.Duration
	archiveCron    string
	trigger        <-chan struct{}
	logger         *slog.Logger
}

// NewOrchestrator creates an Orchestrator. archiver may be nil when no blob
// storage is configured; trigger may be nil when on-demand runs are not
// exposed.
func NewOrchestrator(
	detector *Detector,
	archiver *Archiver,
	detectInterval time.Duration,
	archiveCron string,
	trigger <-chan struct{},
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		detector:       detector,
		archiver:       archiver,
		detectInterval: detectInterval,
		archiveCron:    archiveCron,
		trigger:        trigger,
		logger:         logger,
	}
}

// Run starts the pipeline goroutines using an errgroup. Each goroutine
// respects ctx cancellation. If any goroutine returns a non-context error,
// the errgroup cancels the shared context and Run returns that error.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.logger.Info("pipeline orchestrator starting",
		slog.Duration("detect_interval", o.detectInterval),
		slog.String("archive_cron", o.archiveCron),
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		o.logger.Info("starting detection loop")
		err := o.detector.RunLoop(ctx, o.detectInterval, o.trigger)
		if ctx.Err() != nil {
			return nil // clean shutdown
		}
		return fmt.Errorf("detection loop: %w", err)
	})

	if o.archiver != nil && o.archiveCron != "" {
		g.Go(func() error {
			o.logger.Info("starting archiver cron")
			err := o.archiver.RunCron(ctx, o.archiveCron)
			if ctx.Err() != nil {
				return nil // clean shutdown
			}
			return fmt.Errorf("archiver: %w", err)
		})
	}

	err := g.Wait()
	if err != nil {
		o.logger.Error("pipeline orchestrator stopped with error", slog.String("error", err.Error()))
		return err
	}

	o.logger.Info("pipeline orchestrator stopped cleanly")
	return nil
}
