package storage

import (
	"context"

	"fx-backtest-lab/internal/domain"
)

// BarStore provides access to bar series storage.
type BarStore interface {
	// InsertBulk adds multiple bars for a symbol. Intra-batch duplicates
	// of (symbol, timestamp_ms) fail the entire batch.
	InsertBulk(ctx context.Context, symbol string, bars []domain.Bar) error

	// GetBySymbol retrieves all bars for a symbol, ordered by timestamp ASC.
	GetBySymbol(ctx context.Context, symbol string) ([]domain.Bar, error)

	// GetByTimeRange retrieves bars for a symbol within [start, end] (inclusive).
	GetByTimeRange(ctx context.Context, symbol string, start, end int64) ([]domain.Bar, error)
}

// TradeStore provides access to closed-trade storage.
type TradeStore interface {
	// Insert adds a new trade. Returns ErrDuplicateKey if trade_id exists.
	Insert(ctx context.Context, t *domain.ClosedTrade) error

	// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, trades []*domain.ClosedTrade) error

	// GetByID retrieves a trade by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, tradeID string) (*domain.ClosedTrade, error)

	// GetByRunID retrieves all trades for a run, ordered by exit_time ASC.
	GetByRunID(ctx context.Context, runID string) ([]*domain.ClosedTrade, error)
}

// EquityCurveStore provides access to equity curve storage.
type EquityCurveStore interface {
	// InsertBulk adds the curve points for a run.
	InsertBulk(ctx context.Context, runID string, points []domain.EquityPoint) error

	// GetByRunID retrieves all points for a run, ordered by timestamp ASC.
	GetByRunID(ctx context.Context, runID string) ([]domain.EquityPoint, error)
}

// ReportStore provides access to performance report storage.
type ReportStore interface {
	// Insert adds a new report. Returns ErrDuplicateKey if run_id exists.
	Insert(ctx context.Context, r *domain.PerformanceReport) error

	// GetByRunID retrieves the report for a run. Returns ErrNotFound if not exists.
	GetByRunID(ctx context.Context, runID string) (*domain.PerformanceReport, error)
}
