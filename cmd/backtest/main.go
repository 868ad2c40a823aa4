// Package main provides the single-run backtest entry point.
// Executes: CSV load → signal generation → replay → statistics → report
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"fx-backtest-lab/internal/domain"
	"fx-backtest-lab/internal/feed"
	"fx-backtest-lab/internal/replay"
	"fx-backtest-lab/internal/reporting"
	"fx-backtest-lab/internal/stats"
	"fx-backtest-lab/internal/storage/clickhouse"
	"fx-backtest-lab/internal/storage/migrations"
	pgstore "fx-backtest-lab/internal/storage/postgres"
	"fx-backtest-lab/internal/strategy"
)

func main() {
	// Parse flags
	barsPath := flag.String("bars", "", "Path to OHLCV bar CSV file (required)")
	symbol := flag.String("symbol", "EURUSD", "Instrument symbol")

	strategyType := flag.String("strategy", strategy.TypeSMACross, "Strategy type: SMA_CROSS or RSI_REVERSION")
	fastPeriod := flag.Int("fast", 10, "SMA_CROSS fast period")
	slowPeriod := flag.Int("slow", 30, "SMA_CROSS slow period")
	rsiPeriod := flag.Int("rsi-period", 14, "RSI_REVERSION lookback period")
	rsiLow := flag.Float64("rsi-low", 30, "RSI_REVERSION oversold bound")
	rsiHigh := flag.Float64("rsi-high", 70, "RSI_REVERSION overbought bound")

	capital := flag.Float64("capital", 10000, "Initial capital in USD")
	lotSize := flag.Float64("lot", 0.1, "Position size in standard lots")
	stopPips := flag.Float64("stop-pips", 20, "Stop loss distance in pips (0 disables)")
	targetPips := flag.Float64("target-pips", 40, "Take profit distance in pips (0 disables)")
	slippagePips := flag.Float64("slippage-pips", 0, "Slippage applied to stop fills in pips")
	detailed := flag.Bool("detailed", false, "Capture per-trade context windows")

	format := flag.String("format", "text", "Output format: text, markdown, json, or csv")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL DSN for persisting trades and reports (empty to disable)")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse DSN for persisting the equity curve (empty to disable)")
	verbose := flag.Bool("verbose", false, "Verbose output")

	flag.Parse()

	logger := log.New(os.Stderr, "[backtest] ", log.LstdFlags)

	if *barsPath == "" {
		logger.Fatal("Missing required flag: --bars")
	}

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, cancelling run...", sig)
		cancel()
	}()

	cfg := domain.DefaultRunConfig()
	cfg.Symbol = *symbol
	cfg.InitialCapital = *capital
	cfg.LotSize = *lotSize
	cfg.StopLossPips = *stopPips
	cfg.TakeProfitPips = *targetPips
	cfg.SlippagePips = *slippagePips
	cfg.SaveDetailedTrades = *detailed

	provider, err := buildProvider(*strategyType, *fastPeriod, *slowPeriod, *rsiPeriod, *rsiLow, *rsiHigh)
	if err != nil {
		logger.Fatalf("Strategy config error: %v", err)
	}

	bars, err := feed.LoadBars(*barsPath)
	if err != nil {
		logger.Fatalf("Load bars: %v", err)
	}
	if *verbose {
		logger.Printf("Loaded %d bars for %s", len(bars), *symbol)
	}

	signals, err := provider.Signals(bars)
	if err != nil {
		logger.Fatalf("Signal generation: %v", err)
	}

	var progress replay.ProgressFunc
	if *verbose {
		progress = func(p replay.Progress) {
			logger.Printf("Progress: %d/%d bars, %d open slots, equity %.2f",
				p.Processed, p.Total, p.OpenSlots, p.Equity)
		}
	}

	runner, err := replay.NewRunner(replay.RunnerOptions{
		Config:     cfg,
		StrategyID: provider.ID(),
		Progress:   progress,
	})
	if err != nil {
		logger.Fatalf("Configuration error: %v", err)
	}

	result, err := runner.Run(ctx, bars, signals)
	if err != nil {
		logger.Fatalf("Replay error: %v", err)
	}

	report := stats.Compute(result.Trades, result.Equity, &cfg)
	report.RunID = result.RunID
	report.StrategyID = result.StrategyID

	if err := persist(ctx, logger, *postgresDSN, *clickhouseDSN, result, report); err != nil {
		logger.Fatalf("Persistence error: %v", err)
	}

	if err := render(os.Stdout, *format, report, result); err != nil {
		logger.Fatalf("Render error: %v", err)
	}
}

// buildProvider constructs the signal provider from CLI flags.
func buildProvider(strategyType string, fast, slow, rsiPeriod int, rsiLow, rsiHigh float64) (strategy.SignalProvider, error) {
	cfg := strategy.Config{Type: strategyType}
	switch strategyType {
	case strategy.TypeSMACross:
		cfg.FastPeriod = &fast
		cfg.SlowPeriod = &slow
	case strategy.TypeRSIReversion:
		cfg.RSIPeriod = &rsiPeriod
		cfg.RSILow = &rsiLow
		cfg.RSIHigh = &rsiHigh
	}
	return strategy.FromConfig(cfg)
}

// persist writes trades/report to Postgres and the equity curve to ClickHouse
// when the corresponding DSN is configured.
func persist(ctx context.Context, logger *log.Logger, postgresDSN, clickhouseDSN string, result *replay.Result, report *domain.PerformanceReport) error {
	if postgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, postgresDSN)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			return err
		}

		tradeStore := pgstore.NewTradeStore(pool)
		if len(result.Trades) > 0 {
			if err := tradeStore.InsertBulk(ctx, result.Trades); err != nil {
				return fmt.Errorf("insert trades: %w", err)
			}
		}
		reportStore := pgstore.NewReportStore(pool)
		if err := reportStore.Insert(ctx, report); err != nil {
			return fmt.Errorf("insert report: %w", err)
		}
		logger.Printf("Persisted %d trades and report for run %s", len(result.Trades), result.RunID)
	}

	if clickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
		if err != nil {
			return err
		}
		defer conn.Close()

		equityStore := clickhouse.NewEquityCurveStore(conn)
		if err := equityStore.InsertBulk(ctx, result.RunID, result.Equity); err != nil {
			return fmt.Errorf("insert equity curve: %w", err)
		}
		logger.Printf("Persisted %d equity points for run %s", len(result.Equity), result.RunID)
	}

	return nil
}

// render writes the report in the requested format.
func render(w *os.File, format string, report *domain.PerformanceReport, result *replay.Result) error {
	switch format {
	case "text":
		fmt.Fprintf(w, "Run:           %s\n", report.RunID)
		fmt.Fprintf(w, "Strategy:      %s\n", report.StrategyID)
		fmt.Fprintf(w, "Trades:        %d\n", report.TotalTrades)
		fmt.Fprintf(w, "Final equity:  %.2f\n", report.FinalEquity)
		fmt.Fprintf(w, "Total return:  %.4f\n", report.TotalReturn)
		fmt.Fprintf(w, "Win rate:      %.4f\n", report.WinRate)
		fmt.Fprintf(w, "Profit factor: %.4f\n", report.ProfitFactor)
		fmt.Fprintf(w, "Expectancy:    %.4f\n", report.Expectancy)
		fmt.Fprintf(w, "Max drawdown:  %.4f\n", report.MaxDrawdown)
		fmt.Fprintf(w, "Sharpe:        %.4f\n", report.SharpeRatio)
		fmt.Fprintf(w, "Sortino:       %.4f\n", report.SortinoRatio)
		fmt.Fprintf(w, "Calmar:        %.4f\n", report.CalmarRatio)
		if report.Degenerate {
			fmt.Fprintf(w, "Degenerate:    %s\n", report.DegenerateReason)
		}
		return nil
	case "markdown":
		trades := make([]domain.ClosedTrade, len(result.Trades))
		for i, t := range result.Trades {
			trades[i] = *t
		}
		_, err := fmt.Fprint(w, reporting.RenderMarkdown(report, trades))
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "csv":
		trades := make([]domain.ClosedTrade, len(result.Trades))
		for i, t := range result.Trades {
			trades[i] = *t
		}
		_, err := fmt.Fprint(w, reporting.RenderTradesCSV(trades))
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
