// Package main provides the strategy sweep entry point.
// Executes: CSV load → per-strategy replay → ranking table
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"fx-backtest-lab/internal/domain"
	"fx-backtest-lab/internal/feed"
	"fx-backtest-lab/internal/orchestrator"
	"fx-backtest-lab/internal/reporting"
	"fx-backtest-lab/internal/storage"
	"fx-backtest-lab/internal/storage/migrations"
	pgstore "fx-backtest-lab/internal/storage/postgres"
	"fx-backtest-lab/internal/strategy"
)

func main() {
	// Parse flags
	barsPath := flag.String("bars", "", "Path to OHLCV bar CSV file (required)")
	symbol := flag.String("symbol", "EURUSD", "Instrument symbol")

	smaGrid := flag.String("sma", "10:30,20:50", "SMA_CROSS grid as fast:slow pairs, comma-separated")
	rsiGrid := flag.String("rsi", "14:30:70", "RSI_REVERSION grid as period:low:high triples, comma-separated")

	capital := flag.Float64("capital", 10000, "Initial capital in USD")
	lotSize := flag.Float64("lot", 0.1, "Position size in standard lots")
	stopPips := flag.Float64("stop-pips", 20, "Stop loss distance in pips (0 disables)")
	targetPips := flag.Float64("target-pips", 40, "Take profit distance in pips (0 disables)")

	rankMetric := flag.String("rank", orchestrator.DefaultRankMetric, "Report metric used for ranking")
	format := flag.String("format", "markdown", "Output format: markdown or csv")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL DSN for persisting trades and reports (empty to disable)")
	verbose := flag.Bool("verbose", false, "Verbose output")

	flag.Parse()

	logger := log.New(os.Stderr, "[sweep] ", log.LstdFlags)

	if *barsPath == "" {
		logger.Fatal("Missing required flag: --bars")
	}

	configs, err := parseGrids(*smaGrid, *rsiGrid)
	if err != nil {
		logger.Fatalf("Grid parse error: %v", err)
	}
	if len(configs) == 0 {
		logger.Fatal("Empty sweep: no strategy configs parsed")
	}

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, cancelling sweep...", sig)
		cancel()
	}()

	bars, err := feed.LoadBars(*barsPath)
	if err != nil {
		logger.Fatalf("Load bars: %v", err)
	}
	if *verbose {
		logger.Printf("Loaded %d bars for %s", len(bars), *symbol)
	}

	runConfig := domain.DefaultRunConfig()
	runConfig.Symbol = *symbol
	runConfig.InitialCapital = *capital
	runConfig.LotSize = *lotSize
	runConfig.StopLossPips = *stopPips
	runConfig.TakeProfitPips = *targetPips

	var tradeStore storage.TradeStore
	var reportStore storage.ReportStore
	if *postgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, *postgresDSN)
		if err != nil {
			logger.Fatalf("Postgres connect: %v", err)
		}
		defer pool.Close()

		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			logger.Fatalf("Postgres migrations: %v", err)
		}
		tradeStore = pgstore.NewTradeStore(pool)
		reportStore = pgstore.NewReportStore(pool)
	}

	orch := orchestrator.New(orchestrator.Options{
		TradeStore:      tradeStore,
		ReportStore:     reportStore,
		RunConfig:       runConfig,
		StrategyConfigs: configs,
		RankMetric:      *rankMetric,
		Verbose:         *verbose,
	})

	result, err := orch.Run(ctx, bars)
	if err != nil {
		logger.Fatalf("Sweep error: %v", err)
	}

	for _, e := range result.Errors {
		logger.Printf("Run error: %s", e)
	}

	reports := make([]*domain.PerformanceReport, len(result.Ranked))
	for i, outcome := range result.Ranked {
		reports[i] = outcome.Report
	}

	switch *format {
	case "markdown":
		fmt.Print(reporting.RenderRankingMarkdown(result.RankMetric, reports))
	case "csv":
		fmt.Print(reporting.RenderReportsCSV(reports))
	default:
		logger.Fatalf("Unknown format %q", *format)
	}
}

// parseGrids expands the SMA and RSI grid flags into strategy configs.
func parseGrids(smaGrid, rsiGrid string) ([]strategy.Config, error) {
	var configs []strategy.Config

	for _, pair := range splitList(smaGrid) {
		parts := strings.Split(pair, ":")
		if len(parts) != 2 {
			return nil, fmt.Errorf("sma entry %q: want fast:slow", pair)
		}
		fast, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("sma entry %q: %w", pair, err)
		}
		slow, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("sma entry %q: %w", pair, err)
		}
		configs = append(configs, strategy.Config{
			Type:       strategy.TypeSMACross,
			FastPeriod: &fast,
			SlowPeriod: &slow,
		})
	}

	for _, triple := range splitList(rsiGrid) {
		parts := strings.Split(triple, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("rsi entry %q: want period:low:high", triple)
		}
		period, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("rsi entry %q: %w", triple, err)
		}
		low, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("rsi entry %q: %w", triple, err)
		}
		high, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return nil, fmt.Errorf("rsi entry %q: %w", triple, err)
		}
		configs = append(configs, strategy.Config{
			Type:      strategy.TypeRSIReversion,
			RSIPeriod: &period,
			RSILow:    &low,
			RSIHigh:   &high,
		})
	}

	return configs, nil
}

// splitList splits a comma-separated flag value, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
