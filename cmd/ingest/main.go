// Package main provides the bar ingestion entry point.
// Modes: csv (file import) and ws (live tick capture and aggregation).
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fx-backtest-lab/internal/domain"
	"fx-backtest-lab/internal/feed"
	"fx-backtest-lab/internal/observability"
	"fx-backtest-lab/internal/storage"
	chstore "fx-backtest-lab/internal/storage/clickhouse"
	"fx-backtest-lab/internal/storage/memory"
	"fx-backtest-lab/internal/storage/migrations"
)

func main() {
	// Parse flags
	mode := flag.String("mode", "csv", "Ingestion mode: csv or ws")
	csvPath := flag.String("csv", "", "Path to OHLCV bar CSV file (csv mode)")
	wsEndpoint := flag.String("ws-endpoint", "", "Websocket tick feed endpoint (ws mode)")
	symbol := flag.String("symbol", "EURUSD", "Instrument symbol")
	interval := flag.Duration("interval", time.Minute, "Bar aggregation interval (ws mode)")
	batchSize := flag.Int("batch-size", 500, "Bars per bulk insert (ws mode)")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse DSN for the bar store")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of ClickHouse")
	metricsAddr := flag.String("metrics-addr", ":9090", "Prometheus metrics HTTP address (empty to disable)")

	flag.Parse()

	logger := log.New(os.Stdout, "[ingest] ", log.LstdFlags|log.Lshortfile)

	// Start metrics server if enabled
	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			logger.Printf("Starting metrics server on %s", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil && err != http.ErrServerClosed {
				logger.Printf("Metrics server error: %v", err)
			}
		}()
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()
	}()

	barStore, cleanup, err := createBarStore(ctx, logger, *clickhouseDSN, *useMemory)
	if err != nil {
		logger.Fatalf("Storage setup: %v", err)
	}
	defer cleanup()

	switch *mode {
	case "csv":
		err = runCSV(ctx, logger, barStore, *csvPath, *symbol)
	case "ws":
		err = runWS(ctx, logger, barStore, *wsEndpoint, *symbol, *interval, *batchSize)
	default:
		logger.Fatalf("Unknown mode: %s", *mode)
	}

	if err != nil && err != context.Canceled {
		logger.Fatalf("Error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// createBarStore selects the bar store backend.
func createBarStore(ctx context.Context, logger *log.Logger, clickhouseDSN string, useMemory bool) (storage.BarStore, func(), error) {
	if useMemory {
		logger.Println("Using in-memory bar store")
		return memory.NewBarStore(), func() {}, nil
	}
	if clickhouseDSN == "" {
		logger.Println("No --clickhouse-dsn given, falling back to in-memory bar store")
		return memory.NewBarStore(), func() {}, nil
	}

	conn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
	if err != nil {
		return nil, nil, err
	}
	return chstore.NewBarStore(conn), func() { conn.Close() }, nil
}

// runCSV imports a bar file into the store in one bulk insert.
func runCSV(ctx context.Context, logger *log.Logger, store storage.BarStore, csvPath, symbol string) error {
	if csvPath == "" {
		logger.Fatal("Missing required flag: --csv")
	}

	bars, err := feed.LoadBars(csvPath)
	if err != nil {
		return err
	}
	logger.Printf("Loaded %d bars from %s", len(bars), csvPath)

	if err := store.InsertBulk(ctx, symbol, bars); err != nil {
		observability.RecordFeedError("insert")
		return err
	}

	observability.RecordBarsIngested(len(bars))
	observability.DefaultMetrics.LastSuccessfulIngest.SetToCurrentTime()
	logger.Printf("Ingested %d bars for %s", len(bars), symbol)
	return nil
}

// runWS captures ticks over websocket, aggregates them into bars and flushes
// batches into the store until the context is cancelled.
func runWS(ctx context.Context, logger *log.Logger, store storage.BarStore, endpoint, symbol string, interval time.Duration, batchSize int) error {
	if endpoint == "" {
		logger.Fatal("Missing required flag: --ws-endpoint")
	}

	stream, err := feed.NewTickStream(ctx, endpoint, symbol, nil)
	if err != nil {
		return err
	}
	defer stream.Close()

	aggregator, err := feed.NewTickAggregator(interval.Milliseconds())
	if err != nil {
		return err
	}

	logger.Printf("Capturing %s ticks from %s, %s bars", symbol, endpoint, interval)

	var batch []domain.Bar
	flush := func(ctx context.Context) error {
		if len(batch) == 0 {
			return nil
		}
		if err := store.InsertBulk(ctx, symbol, batch); err != nil {
			observability.RecordFeedError("insert")
			return err
		}
		observability.RecordBarsIngested(len(batch))
		observability.DefaultMetrics.LastSuccessfulIngest.SetToCurrentTime()
		logger.Printf("Flushed %d bars", len(batch))
		batch = batch[:0]
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			// Drain the partial bar before shutdown. The cancelled context
			// cannot carry the final insert, so use a short fresh one.
			if bar, ok := aggregator.Flush(); ok {
				batch = append(batch, bar)
			}
			flushCtx, flushCancel := context.WithTimeout(context.Background(), 10*time.Second)
			err := flush(flushCtx)
			flushCancel()
			if err != nil {
				return err
			}
			return ctx.Err()
		case tick, ok := <-stream.Ticks():
			if !ok {
				if bar, done := aggregator.Flush(); done {
					batch = append(batch, bar)
				}
				return flush(ctx)
			}
			observability.RecordTickCaptured()
			if bar, done := aggregator.Add(tick); done {
				batch = append(batch, bar)
				if len(batch) >= batchSize {
					if err := flush(ctx); err != nil {
						return err
					}
				}
			}
		}
	}
}
