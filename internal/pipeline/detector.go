// Package pipeline coordinates the detection cycle: collect market data,
// analyze it, persist and publish the resulting opportunity set, and notify
// operators about new findings.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/mathiasanobre/bot-telegram/internal/analyzer"
	"github.com/mathiasanobre/bot-telegram/internal/domain"
	"github.com/mathiasanobre/bot-telegram/internal/notify"
	"github.com/mathiasanobre/bot-telegram/internal/server/ws"
)

// SnapshotSource produces a full market snapshot for one detection run.
type SnapshotSource interface {
	Collect(ctx context.Context) (domain.Snapshot, error)
}

// Engine turns a snapshot into the current opportunity set.
type Engine interface {
	Analyze(snapshot domain.Snapshot) []domain.Opportunity
	Status() analyzer.Status
}

// Alerter delivers filtered operator notifications.
type Alerter interface {
	Notify(ctx context.Context, event, title, message string) error
}

// Detector runs detection cycles. Cycles are strictly serialized: a new one
// never starts before the previous finished, whether triggered by the ticker
// or on demand.
type Detector struct {
	source  SnapshotSource
	engine  Engine
	store   domain.OpportunityStore // optional
	bus     domain.SignalBus        // optional
	alerter Alerter                 // optional

	// seen carries the opportunity keys of the previous run so alerts fire
	// only for newly appearing opportunities.
	seen map[string]struct{}

	logger *slog.Logger
}

// NewDetector creates a Detector. store, bus, and alerter may each be nil;
// the corresponding step is skipped.
func NewDetector(source SnapshotSource, engine Engine, store domain.OpportunityStore, bus domain.SignalBus, alerter Alerter, logger *slog.Logger) *Detector {
	return &Detector{
		source:  source,
		engine:  engine,
		store:   store,
		bus:     bus,
		alerter: alerter,
		seen:    make(map[string]struct{}),
		logger:  logger.With(slog.String("component", "detector")),
	}
}

// RunOnce executes a single detection cycle.
func (d *Detector) RunOnce(ctx context.Context) error {
	started := time.Now()

	snapshot, err := d.source.Collect(ctx)
	if err != nil {
		return fmt.Errorf("detector: collect: %w", err)
	}

	opps := d.engine.Analyze(snapshot)

	if d.store != nil {
		if err := d.store.ReplaceAll(ctx, opps); err != nil {
			return fmt.Errorf("detector: persist: %w", err)
		}
	}

	d.publish(ctx, opps)
	d.alert(ctx, opps)

	d.logger.Info("detection run complete",
		slog.Int("opportunities", len(opps)),
		slog.Duration("duration", time.Since(started)),
	)
	return nil
}

// RunLoop runs detection on a repeating interval until ctx is cancelled.
// A send on trigger runs one extra cycle immediately; trigger may be nil.
func (d *Detector) RunLoop(ctx context.Context, interval time.Duration, trigger <-chan struct{}) error {
	// Run immediately on start.
	if err := d.RunOnce(ctx); err != nil {
		d.logger.Error("detection run failed", slog.String("error", err.Error()))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("detection loop stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := d.RunOnce(ctx); err != nil {
				d.logger.Error("detection run failed", slog.String("error", err.Error()))
			}
		case <-trigger:
			d.logger.Info("on-demand detection run")
			if err := d.RunOnce(ctx); err != nil {
				d.logger.Error("detection run failed", slog.String("error", err.Error()))
			}
		}
	}
}

// publish pushes the opportunity set and the run status to the signal bus.
func (d *Detector) publish(ctx context.Context, opps []domain.Opportunity) {
	if d.bus == nil {
		return
	}

	if payload, err := json.Marshal(opps); err == nil {
		if err := d.bus.Publish(ctx, ws.ChannelOpportunities, payload); err != nil {
			d.logger.Warn("publish opportunities failed", slog.String("error", err.Error()))
		}
	}

	if payload, err := json.Marshal(d.engine.Status()); err == nil {
		if err := d.bus.Publish(ctx, ws.ChannelStatus, payload); err != nil {
			d.logger.Warn("publish status failed", slog.String("error", err.Error()))
		}
	}
}

// alert notifies operators about opportunities that were not present in the
// previous run, then sends a run digest.
func (d *Detector) alert(ctx context.Context, opps []domain.Opportunity) {
	if d.alerter == nil {
		return
	}

	next := make(map[string]struct{}, len(opps))
	var fresh []domain.Opportunity
	var arbCount, cycleCount int

	for _, opp := range opps {
		key := opp.EventID + "|" + opp.Outcome
		next[key] = struct{}{}
		if _, ok := d.seen[key]; !ok {
			fresh = append(fresh, opp)
		}
		if opp.IsArbitrage {
			arbCount++
		}
		if opp.CycleInfo != nil {
			cycleCount++
		}
	}
	d.seen = next

	for _, opp := range fresh {
		event := notify.EventOpportunity
		switch {
		case opp.IsArbitrage:
			event = notify.EventArbitrage
		case opp.CycleInfo != nil:
			event = notify.EventCycle
		}

		title, body := notify.FormatOpportunity(opp)
		if err := d.alerter.Notify(ctx, event, title, body); err != nil {
			d.logger.Warn("opportunity alert failed", slog.String("error", err.Error()))
		}
	}

	if len(fresh) > 0 {
		title, body := notify.FormatRunSummary(len(opps), arbCount, cycleCount)
		if err := d.alerter.Notify(ctx, notify.EventStatus, title, body); err != nil {
			d.logger.Warn("run summary alert failed", slog.String("error", err.Error()))
		}
	}
}
