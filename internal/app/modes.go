package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mathiasanobre/bot-telegram/internal/analyzer"
	"github.com/mathiasanobre/bot-telegram/internal/bot"
	"github.com/mathiasanobre/bot-telegram/internal/collector"
	"github.com/mathiasanobre/bot-telegram/internal/pipeline"
	"github.com/mathiasanobre/bot-telegram/internal/server"
	"github.com/mathiasanobre/bot-telegram/internal/server/handler"
	"github.com/mathiasanobre/bot-telegram/internal/server/ws"
)

// ScreenMode runs the detection pipeline plus the Telegram command bot and
// notifications. No HTTP server is started.
func (a *App) ScreenMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting screen mode")

	engine := a.buildEngine(ctx)
	coll := a.buildCollector(deps)

	g, ctx := errgroup.WithContext(ctx)

	orch := a.buildPipeline(deps, engine, coll, nil)
	g.Go(func() error {
		return orch.Run(ctx)
	})

	a.startBot(ctx, g, engine, coll)

	return g.Wait()
}

// ServeMode runs the HTTP + WebSocket API only. The analyzer is hydrated from
// the persisted opportunity set when Postgres is wired, so dashboards see the
// last detection run even though no collection happens in this mode.
func (a *App) ServeMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting serve mode")

	engine := a.buildEngine(ctx)
	a.hydrateEngine(ctx, deps, engine)

	g, ctx := errgroup.WithContext(ctx)
	a.startServer(ctx, g, deps, engine, nil, nil)
	return g.Wait()
}

// OnceMode runs one detection cycle synchronously and returns. Useful for
// cron-driven setups and smoke tests.
func (a *App) OnceMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting one-shot detection run")

	engine := a.buildEngine(ctx)
	coll := a.buildCollector(deps)

	detector := pipeline.NewDetector(coll, engine, deps.Store, nil, deps.Notifier, a.logger)
	if err := detector.RunOnce(ctx); err != nil {
		return fmt.Errorf("once mode: %w", err)
	}

	st := engine.Status()
	a.logger.InfoContext(ctx, "detection run finished",
		slog.Int("opportunities", st.OpportunityCount),
		slog.Int("arbitrage", st.ArbitrageCount),
		slog.Int("cycle", st.CycleCount),
	)
	return nil
}

// FullMode runs everything: the detection pipeline, the Telegram bot, and the
// HTTP + WebSocket API with the on-demand detection trigger wired through.
func (a *App) FullMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting full mode")

	engine := a.buildEngine(ctx)
	coll := a.buildCollector(deps)

	g, ctx := errgroup.WithContext(ctx)

	triggerCh := make(chan struct{}, 1)
	orch := a.buildPipeline(deps, engine, coll, triggerCh)
	g.Go(func() error {
		return orch.Run(ctx)
	})

	a.startBot(ctx, g, engine, coll)

	if a.cfg.Server.Enabled {
		a.startServer(ctx, g, deps, engine, coll, triggerCh)
	}

	return g.Wait()
}

// buildEngine creates the analyzer from the configured thresholds and applies
// the startup cycle profile.
func (a *App) buildEngine(ctx context.Context) *analyzer.Analyzer {
	th := analyzer.Thresholds{
		MinOddsDifference: a.cfg.Analyzer.MinOddsDifference,
		MinProbability:    a.cfg.Analyzer.MinProbability,
		MaxBackOdds:       a.cfg.Analyzer.MaxBackOdds,
		MinLayOdds:        a.cfg.Analyzer.MinLayOdds,
		ArbTolerance:      a.cfg.Analyzer.ArbTolerance,
		Bankroll:          a.cfg.Analyzer.Bankroll,
	}
	engine := analyzer.New(th, a.logger)

	if a.cfg.Cycle.CustomGreenTarget > 0 && a.cfg.Cycle.CustomMaxRed > 0 {
		engine.SetCustomProfile(
			a.cfg.Cycle.CustomGreenTarget,
			a.cfg.Cycle.CustomMaxRed,
			a.cfg.Cycle.CustomRatio,
		)
	}
	if a.cfg.Cycle.Profile != "" {
		if err := engine.SetProfile(a.cfg.Cycle.Profile); err != nil {
			a.logger.WarnContext(ctx, "unknown cycle profile, keeping default",
				slog.String("profile", a.cfg.Cycle.Profile),
			)
		}
	}
	return engine
}

// buildCollector creates the feed client and the collector on top of it.
func (a *App) buildCollector(deps *Dependencies) *collector.Collector {
	client := collector.NewOddsAPIClient(collector.OddsAPIConfig{
		BaseURL: a.cfg.OddsAPI.BaseURL,
		APIKey:  a.cfg.OddsAPI.APIKey,
		Regions: a.cfg.OddsAPI.Regions,
		Markets: a.cfg.OddsAPI.Markets,
	})
	return collector.New(client, deps.EventCache, deps.Budget, collector.Config{
		Sports:           a.cfg.Collector.Sports,
		BackMarket:       a.cfg.Collector.BackMarket,
		LayMarket:        a.cfg.Collector.LayMarket,
		MaxDailyRequests: a.cfg.Collector.MaxDailyRequests,
	}, a.logger)
}

// buildPipeline creates the detector plus the optional cold-storage archiver
// and wraps them in an orchestrator.
func (a *App) buildPipeline(
	deps *Dependencies,
	engine *analyzer.Analyzer,
	coll *collector.Collector,
	trigger <-chan struct{},
) *pipeline.Orchestrator {
	detector := pipeline.NewDetector(coll, engine, deps.Store, deps.SignalBus, deps.Notifier, a.logger)

	var archiver *pipeline.Archiver
	if deps.Archiver != nil && deps.Store != nil {
		archiver = pipeline.NewArchiver(deps.Archiver, deps.Store, a.logger)
	}

	return pipeline.NewOrchestrator(
		detector,
		archiver,
		a.cfg.Pipeline.DetectInterval.Duration,
		a.cfg.Pipeline.ArchiveCron,
		trigger,
		a.logger,
	)
}

// hydrateEngine restores the last persisted opportunity set into the analyzer.
func (a *App) hydrateEngine(ctx context.Context, deps *Dependencies, engine *analyzer.Analyzer) {
	if deps.Store == nil {
		return
	}
	opps, err := deps.Store.ListRecent(ctx, 0)
	if err != nil {
		a.logger.WarnContext(ctx, "failed to hydrate from store",
			slog.String("error", err.Error()),
		)
		return
	}
	if len(opps) == 0 {
		return
	}
	lastRun := time.Time{}
	for _, opp := range opps {
		if opp.DetectedAt.After(lastRun) {
			lastRun = opp.DetectedAt
		}
	}
	engine.Restore(opps, lastRun)
	a.logger.InfoContext(ctx, "hydrated analyzer from store",
		slog.Int("opportunities", len(opps)),
	)
}

// startBot adds the Telegram command bot to the errgroup when configured.
func (a *App) startBot(ctx context.Context, g *errgroup.Group, engine *analyzer.Analyzer, coll *collector.Collector) {
	if !a.cfg.Telegram.Enabled {
		return
	}

	b, err := bot.New(bot.Config{
		Token:  a.cfg.Telegram.Token,
		ChatID: a.cfg.Telegram.ChatID,
	}, engine, coll, a.logger)
	if err != nil {
		a.logger.WarnContext(ctx, "telegram bot disabled",
			slog.String("error", err.Error()),
		)
		return
	}

	g.Go(func() error {
		err := b.Run(ctx)
		if ctx.Err() != nil {
			return nil // clean shutdown
		}
		return err
	})
}

// startServer adds the HTTP + WebSocket server goroutines to the errgroup.
// coll and triggerCh may be nil in modes without a collection pipeline.
func (a *App) startServer(
	ctx context.Context,
	g *errgroup.Group,
	deps *Dependencies,
	engine *analyzer.Analyzer,
	coll *collector.Collector,
	triggerCh chan<- struct{},
) {
	hub := ws.NewHub(deps.SignalBus, a.logger, ws.Config{
		Mode:      a.cfg.Mode,
		StartedAt: time.Now().UTC(),
	})
	g.Go(func() error {
		return hub.Run(ctx)
	})

	var capture handler.CaptureStatus
	if coll != nil {
		capture = coll
	}

	detectH := handler.NewDetectHandler(a.logger)
	if triggerCh != nil {
		detectH = detectH.WithTriggerChannel(triggerCh)
	}

	srv := server.NewServer(
		server.Config{
			Port:        a.cfg.Server.Port,
			CORSOrigins: a.cfg.Server.CORSOrigins,
			APIKey:      a.cfg.Server.APIKey,
			RateLimit:   a.cfg.Server.RateLimit,
			RateWindow:  a.cfg.Server.RateWindow.Duration,
		},
		server.Handlers{
			Health:        handler.NewHealthHandler(a.logger),
			Status:        handler.NewStatusHandler(engine, capture, a.cfg.Mode),
			Opportunities: handler.NewOpportunityHandler(engine, a.logger),
			Profiles:      handler.NewProfileHandler(engine, a.logger),
			Detect:        detectH,
		},
		hub,
		deps.APILimiter,
		a.logger,
	)

	g.Go(func() error {
		return srv.Start()
	})
	g.Go(func() error {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})
}

var _ pipeline.SnapshotSource = (*collector.Collector)(nil)
var _ pipeline.Engine = (*analyzer.Analyzer)(nil)
var _ handler.Engine = (*analyzer.Analyzer)(nil)
var _ bot.Engine = (*analyzer.Analyzer)(nil)
var _ bot.Capture = (*collector.Collector)(nil)
