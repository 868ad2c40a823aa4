package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"fx-backtest-lab/internal/domain"
	"fx-backtest-lab/internal/storage"
)

// TradeStore implements storage.TradeStore using PostgreSQL.
// The optional per-trade Detail snapshots are transient diagnostics and are
// not persisted.
type TradeStore struct {
	pool *Pool
}

// NewTradeStore creates a new TradeStore.
func NewTradeStore(pool *Pool) *TradeStore {
	return &TradeStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TradeStore = (*TradeStore)(nil)

const insertTradeQuery = `
	INSERT INTO closed_trades (
		trade_id, run_id, direction,
		entry_price, exit_price, entry_time, exit_time,
		lot_size, pnl_usd, exit_reason
	) VALUES (
		$1, $2, $3,
		$4, $5, $6, $7,
		$8, $9, $10
	)
`

// Insert adds a new trade. Returns ErrDuplicateKey if trade_id exists.
func (s *TradeStore) Insert(ctx context.Context, t *domain.ClosedTrade) error {
	if t == nil || t.TradeID == "" {
		return storage.ErrInvalidInput
	}

	_, err := s.pool.Exec(ctx, insertTradeQuery,
		t.TradeID, t.RunID, t.Direction.String(),
		t.EntryPrice, t.ExitPrice, t.EntryTime, t.ExitTime,
		t.LotSize, t.PnLUSD, t.ExitReason,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert closed trade: %w", err)
	}
	return nil
}

// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
func (s *TradeStore) InsertBulk(ctx context.Context, trades []*domain.ClosedTrade) error {
	if len(trades) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, t := range trades {
		if t == nil || t.TradeID == "" {
			return storage.ErrInvalidInput
		}
		_, err := tx.Exec(ctx, insertTradeQuery,
			t.TradeID, t.RunID, t.Direction.String(),
			t.EntryPrice, t.ExitPrice, t.EntryTime, t.ExitTime,
			t.LotSize, t.PnLUSD, t.ExitReason,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert closed trade %s: %w", t.TradeID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByID retrieves a trade by its ID. Returns ErrNotFound if not exists.
func (s *TradeStore) GetByID(ctx context.Context, tradeID string) (*domain.ClosedTrade, error) {
	query := `
		SELECT trade_id, run_id, direction,
		       entry_price, exit_price, entry_time, exit_time,
		       lot_size, pnl_usd, exit_reason
		FROM closed_trades
		WHERE trade_id = $1
	`

	row := s.pool.QueryRow(ctx, query, tradeID)
	t, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get trade by id: %w", err)
	}
	return t, nil
}

// GetByRunID retrieves all trades for a run, ordered by exit_time ASC.
func (s *TradeStore) GetByRunID(ctx context.Context, runID string) ([]*domain.ClosedTrade, error) {
	query := `
		SELECT trade_id, run_id, direction,
		       entry_price, exit_price, entry_time, exit_time,
		       lot_size, pnl_usd, exit_reason
		FROM closed_trades
		WHERE run_id = $1
		ORDER BY exit_time ASC, trade_id ASC
	`

	rows, err := s.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query trades by run: %w", err)
	}
	defer rows.Close()

	var result []*domain.ClosedTrade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trades: %w", err)
	}
	return result, nil
}

func scanTrade(row pgx.Row) (*domain.ClosedTrade, error) {
	var t domain.ClosedTrade
	var direction string
	err := row.Scan(
		&t.TradeID, &t.RunID, &direction,
		&t.EntryPrice, &t.ExitPrice, &t.EntryTime, &t.ExitTime,
		&t.LotSize, &t.PnLUSD, &t.ExitReason,
	)
	if err != nil {
		return nil, err
	}
	if direction == domain.DirectionShort.String() {
		t.Direction = domain.DirectionShort
	} else {
		t.Direction = domain.DirectionLong
	}
	return &t, nil
}
