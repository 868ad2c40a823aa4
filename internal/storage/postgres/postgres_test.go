package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"fx-backtest-lab/internal/domain"
	"fx-backtest-lab/internal/storage"
	"fx-backtest-lab/internal/storage/migrations"
	pgstore "fx-backtest-lab/internal/storage/postgres"
)

// setupTestDB starts a PostgreSQL container and applies the embedded
// migrations. Returns a cleanup function that must be called after tests.
func setupTestDB(t *testing.T) (*pgstore.Pool, func()) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	pool, err := pgstore.NewPool(ctx, dsn)
	require.NoError(t, err, "failed to create pool")

	require.NoError(t, migrations.RunPostgresMigrations(ctx, pool), "failed to run migrations")

	cleanup := func() {
		pool.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return pool, cleanup
}

func TestTradeStore_Postgres(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := pgstore.NewTradeStore(pool)
	ctx := context.Background()

	trades := []*domain.ClosedTrade{
		{
			TradeID: "t2", RunID: "r1", Direction: domain.DirectionShort,
			EntryPrice: 1.1050, ExitPrice: 1.1060, EntryTime: 3000, ExitTime: 4000,
			LotSize: 0.1, PnLUSD: -10.00, ExitReason: domain.ExitReasonStop,
		},
		{
			TradeID: "t1", RunID: "r1", Direction: domain.DirectionLong,
			EntryPrice: 1.1000, ExitPrice: 1.1050, EntryTime: 1000, ExitTime: 2000,
			LotSize: 0.1, PnLUSD: 50.00, ExitReason: domain.ExitReasonSignal,
		},
	}
	require.NoError(t, store.InsertBulk(ctx, trades))

	got, err := store.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, domain.DirectionLong, got.Direction)
	assert.Equal(t, 50.00, got.PnLUSD)
	assert.Equal(t, domain.ExitReasonSignal, got.ExitReason)

	// Ordered by exit_time regardless of insert order.
	byRun, err := store.GetByRunID(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, byRun, 2)
	assert.Equal(t, "t1", byRun[0].TradeID)
	assert.Equal(t, "t2", byRun[1].TradeID)

	// Duplicate trade_id maps to the storage sentinel.
	err = store.Insert(ctx, trades[0])
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	_, err = store.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestTradeStore_Postgres_BulkIsAtomic(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := pgstore.NewTradeStore(pool)
	ctx := context.Background()

	trades := []*domain.ClosedTrade{
		{TradeID: "a1", RunID: "r1", Direction: domain.DirectionLong, ExitReason: domain.ExitReasonSignal},
		{TradeID: "a1", RunID: "r1", Direction: domain.DirectionLong, ExitReason: domain.ExitReasonSignal},
	}

	err := store.InsertBulk(ctx, trades)
	require.Error(t, err)
	assert.True(t, errors.Is(err, storage.ErrDuplicateKey))

	// The failed batch left nothing behind.
	_, err = store.GetByID(ctx, "a1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestReportStore_Postgres(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := pgstore.NewReportStore(pool)
	ctx := context.Background()

	report := &domain.PerformanceReport{
		RunID:              "r1",
		StrategyID:         "SMA_CROSS_10_30",
		TotalTrades:        2,
		FinalEquity:        10040,
		TotalReturn:        0.004,
		WinRate:            0.5,
		ProfitFactor:       5.0,
		Expectancy:         20.0,
		MaxDrawdown:        0.001,
		SharpeRatio:        1.2,
		SortinoRatio:       1.5,
		CalmarRatio:        0.8,
		UlcerIndex:         0.05,
		RecoveryFactor:     4.0,
		ProfitFactorCapped: false,
	}
	require.NoError(t, store.Insert(ctx, report))

	got, err := store.GetByRunID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, report, got)

	err = store.Insert(ctx, report)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	_, err = store.GetByRunID(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
