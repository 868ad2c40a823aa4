// Package orchestrator coordinates strategy sweeps over one bar series.
// Flow: signal generation → replay → statistics → persistence → ranking
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"fx-backtest-lab/internal/domain"
	"fx-backtest-lab/internal/observability"
	"fx-backtest-lab/internal/replay"
	"fx-backtest-lab/internal/stats"
	"fx-backtest-lab/internal/storage"
	"fx-backtest-lab/internal/strategy"
)

// DefaultRankMetric orders sweep results when none is chosen.
const DefaultRankMetric = "sharpe_ratio"

// Orchestrator executes a set of strategy configurations sequentially over a
// single series. Each run gets a fresh runner; no state crosses runs.
type Orchestrator struct {
	// Stores (all optional; nil disables persistence of that artifact)
	tradeStore  storage.TradeStore
	equityStore storage.EquityCurveStore
	reportStore storage.ReportStore

	// Configs
	runConfig       domain.RunConfig
	strategyConfigs []strategy.Config

	// Options
	rankMetric string
	verbose    bool
	progress   replay.ProgressFunc
}

// Options for creating Orchestrator.
type Options struct {
	// Optional stores
	TradeStore  storage.TradeStore
	EquityStore storage.EquityCurveStore
	ReportStore storage.ReportStore

	// Run configuration shared by every strategy in the sweep
	RunConfig domain.RunConfig

	// Strategy configs to sweep
	StrategyConfigs []strategy.Config

	// RankMetric names the report metric used for ordering results.
	// Defaults to DefaultRankMetric.
	RankMetric string

	Verbose  bool
	Progress replay.ProgressFunc
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	rankMetric := opts.RankMetric
	if rankMetric == "" {
		rankMetric = DefaultRankMetric
	}

	return &Orchestrator{
		tradeStore:      opts.TradeStore,
		equityStore:     opts.EquityStore,
		reportStore:     opts.ReportStore,
		runConfig:       opts.RunConfig,
		strategyConfigs: opts.StrategyConfigs,
		rankMetric:      rankMetric,
		verbose:         opts.Verbose,
		progress:        opts.Progress,
	}
}

// RunOutcome is the result of one strategy run within the sweep.
type RunOutcome struct {
	RunID      string
	StrategyID string
	Report     *domain.PerformanceReport
	Trades     []*domain.ClosedTrade
	Equity     []domain.EquityPoint
}

// SweepResult contains results from a full sweep.
type SweepResult struct {
	// Ranked holds outcomes ordered by the rank metric, best first.
	Ranked []*RunOutcome

	RankMetric    string
	RunsAttempted int
	Errors        []string
}

// Run executes every configured strategy against the series.
// A failing run is recorded in Errors and does not abort the sweep;
// a context cancellation does.
func (o *Orchestrator) Run(ctx context.Context, bars []domain.Bar) (*SweepResult, error) {
	started := time.Now()
	result := &SweepResult{
		RankMetric:    o.rankMetric,
		RunsAttempted: len(o.strategyConfigs),
	}

	o.log("Sweeping %d strategy configs over %d bars", len(o.strategyConfigs), len(bars))

	for _, cfg := range o.strategyConfigs {
		if err := ctx.Err(); err != nil {
			observability.RecordSweepRun("cancelled", time.Since(started).Seconds())
			return nil, err
		}

		outcome, err := o.runOne(ctx, cfg, bars)
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
			o.log("  run failed: %v", err)
			continue
		}

		result.Ranked = append(result.Ranked, outcome)
		o.log("  %s: %d trades, %s=%.4f", outcome.StrategyID,
			outcome.Report.TotalTrades, o.rankMetric, outcome.Report.Metrics()[o.rankMetric])
	}

	rankOutcomes(result.Ranked, o.rankMetric)

	status := "ok"
	if len(result.Errors) > 0 {
		status = "partial"
	}
	observability.RecordSweepRun(status, time.Since(started).Seconds())

	return result, nil
}

// runOne executes a single strategy config end to end.
func (o *Orchestrator) runOne(ctx context.Context, cfg strategy.Config, bars []domain.Bar) (*RunOutcome, error) {
	started := time.Now()

	provider, err := strategy.FromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("build provider %s: %w", cfg.Type, err)
	}

	signals, err := provider.Signals(bars)
	if err != nil {
		return nil, fmt.Errorf("signals %s: %w", provider.ID(), err)
	}

	runner, err := replay.NewRunner(replay.RunnerOptions{
		Config:     o.runConfig,
		StrategyID: provider.ID(),
		Progress:   o.progress,
	})
	if err != nil {
		return nil, fmt.Errorf("runner %s: %w", provider.ID(), err)
	}

	res, err := runner.Run(ctx, bars, signals)
	if err != nil {
		if reason, rejected := rejectionReason(err); rejected {
			observability.RecordSeriesRejected(reason)
		}
		observability.RecordRun("error", time.Since(started).Seconds())
		return nil, fmt.Errorf("replay %s: %w", provider.ID(), err)
	}

	report := stats.Compute(res.Trades, res.Equity, &o.runConfig)
	report.RunID = res.RunID
	report.StrategyID = res.StrategyID

	if err := o.persist(ctx, res, report); err != nil {
		return nil, fmt.Errorf("persist %s: %w", res.RunID, err)
	}

	observability.RecordRun("ok", time.Since(started).Seconds())
	observability.RecordBarsProcessed(len(bars))
	for _, t := range res.Trades {
		observability.RecordTradeOpened()
		observability.RecordTradeClosed(t.ExitReason)
	}
	observability.UpdateReplayState(0, res.FinalEquity)

	return &RunOutcome{
		RunID:      res.RunID,
		StrategyID: res.StrategyID,
		Report:     report,
		Trades:     res.Trades,
		Equity:     res.Equity,
	}, nil
}

// persist stores trades, equity curve and report through whichever stores
// are configured.
func (o *Orchestrator) persist(ctx context.Context, res *replay.Result, report *domain.PerformanceReport) error {
	if o.tradeStore != nil && len(res.Trades) > 0 {
		if err := o.tradeStore.InsertBulk(ctx, res.Trades); err != nil {
			return fmt.Errorf("insert trades: %w", err)
		}
	}
	if o.equityStore != nil && len(res.Equity) > 0 {
		if err := o.equityStore.InsertBulk(ctx, res.RunID, res.Equity); err != nil {
			return fmt.Errorf("insert equity curve: %w", err)
		}
	}
	if o.reportStore != nil {
		if err := o.reportStore.Insert(ctx, report); err != nil {
			return fmt.Errorf("insert report: %w", err)
		}
	}
	return nil
}

// rejectionReason maps a replay validation error to a metric label.
func rejectionReason(err error) (string, bool) {
	switch {
	case errors.Is(err, replay.ErrEmptySeries):
		return "empty", true
	case errors.Is(err, replay.ErrNonMonotonicSeries):
		return "non_monotonic", true
	case errors.Is(err, replay.ErrNonPositivePrice):
		return "non_positive_price", true
	case errors.Is(err, replay.ErrMalformedBar):
		return "malformed_bar", true
	case errors.Is(err, replay.ErrZeroPriceVariance):
		return "zero_variance", true
	case errors.Is(err, replay.ErrSignalMismatch):
		return "signal_mismatch", true
	}
	return "", false
}

// rankOutcomes orders outcomes by the metric, best first. Drawdown-like
// metrics rank ascending, everything else descending. Ties keep run order.
func rankOutcomes(outcomes []*RunOutcome, metric string) {
	ascending := metric == "max_drawdown" || metric == "ulcer_index"
	sort.SliceStable(outcomes, func(i, j int) bool {
		a := outcomes[i].Report.Metrics()[metric]
		b := outcomes[j].Report.Metrics()[metric]
		if ascending {
			return a < b
		}
		return a > b
	})
}

// log prints if verbose mode is enabled.
func (o *Orchestrator) log(format string, args ...interface{}) {
	if o.verbose {
		log.Printf("[orchestrator] "+format, args...)
	}
}
