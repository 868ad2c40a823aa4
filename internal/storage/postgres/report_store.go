package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"fx-backtest-lab/internal/domain"
	"fx-backtest-lab/internal/storage"
)

// ReportStore implements storage.ReportStore using PostgreSQL.
type ReportStore struct {
	pool *Pool
}

// NewReportStore creates a new ReportStore.
func NewReportStore(pool *Pool) *ReportStore {
	return &ReportStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ReportStore = (*ReportStore)(nil)

// Insert adds a new report. Returns ErrDuplicateKey if run_id exists.
func (s *ReportStore) Insert(ctx context.Context, r *domain.PerformanceReport) error {
	if r == nil || r.RunID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO performance_reports (
			run_id, strategy_id, total_trades, final_equity,
			total_return, win_rate, profit_factor, profit_factor_capped,
			expectancy, max_drawdown,
			sharpe_ratio, sortino_ratio, calmar_ratio,
			ulcer_index, recovery_factor,
			degenerate, degenerate_reason
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8,
			$9, $10,
			$11, $12, $13,
			$14, $15,
			$16, $17
		)
	`

	_, err := s.pool.Exec(ctx, query,
		r.RunID, r.StrategyID, r.TotalTrades, r.FinalEquity,
		r.TotalReturn, r.WinRate, r.ProfitFactor, r.ProfitFactorCapped,
		r.Expectancy, r.MaxDrawdown,
		r.SharpeRatio, r.SortinoRatio, r.CalmarRatio,
		r.UlcerIndex, r.RecoveryFactor,
		r.Degenerate, r.DegenerateReason,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert performance report: %w", err)
	}
	return nil
}

// GetByRunID retrieves the report for a run. Returns ErrNotFound if not exists.
func (s *ReportStore) GetByRunID(ctx context.Context, runID string) (*domain.PerformanceReport, error) {
	query := `
		SELECT run_id, strategy_id, total_trades, final_equity,
		       total_return, win_rate, profit_factor, profit_factor_capped,
		       expectancy, max_drawdown,
		       sharpe_ratio, sortino_ratio, calmar_ratio,
		       ulcer_index, recovery_factor,
		       degenerate, degenerate_reason
		FROM performance_reports
		WHERE run_id = $1
	`

	var r domain.PerformanceReport
	err := s.pool.QueryRow(ctx, query, runID).Scan(
		&r.RunID, &r.StrategyID, &r.TotalTrades, &r.FinalEquity,
		&r.TotalReturn, &r.WinRate, &r.ProfitFactor, &r.ProfitFactorCapped,
		&r.Expectancy, &r.MaxDrawdown,
		&r.SharpeRatio, &r.SortinoRatio, &r.CalmarRatio,
		&r.UlcerIndex, &r.RecoveryFactor,
		&r.Degenerate, &r.DegenerateReason,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get report by run: %w", err)
	}
	return &r, nil
}
