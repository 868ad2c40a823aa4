package memory

import (
	"context"
	"errors"
	"testing"

	"fx-backtest-lab/internal/domain"
	"fx-backtest-lab/internal/storage"
)

func TestTradeStore_InsertAndGet(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()

	trade := &domain.ClosedTrade{
		TradeID:    "t1",
		RunID:      "r1",
		Direction:  domain.DirectionLong,
		EntryPrice: 1.1000,
		ExitPrice:  1.1050,
		EntryTime:  1000,
		ExitTime:   2000,
		LotSize:    0.1,
		PnLUSD:     50.00,
		ExitReason: domain.ExitReasonSignal,
	}

	if err := store.Insert(ctx, trade); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByID(ctx, "t1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.PnLUSD != 50.00 {
		t.Errorf("PnLUSD mismatch: got %f, want %f", got.PnLUSD, 50.00)
	}

	// Stored copy must be isolated from later mutation.
	trade.PnLUSD = 999
	got, err = store.GetByID(ctx, "t1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.PnLUSD != 50.00 {
		t.Errorf("store aliased caller memory: got %f", got.PnLUSD)
	}
}

func TestTradeStore_DuplicateKey(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()

	trade := &domain.ClosedTrade{TradeID: "t1", RunID: "r1"}
	if err := store.Insert(ctx, trade); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.Insert(ctx, trade)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestTradeStore_InvalidInput(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()

	if err := store.Insert(ctx, nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for nil, got %v", err)
	}
	if err := store.Insert(ctx, &domain.ClosedTrade{}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty id, got %v", err)
	}
}

func TestTradeStore_NotFound(t *testing.T) {
	store := NewTradeStore()

	_, err := store.GetByID(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestTradeStore_InsertBulk_IntraBatchDuplicate(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()

	trades := []*domain.ClosedTrade{
		{TradeID: "t1", RunID: "r1"},
		{TradeID: "t1", RunID: "r1"},
	}

	err := store.InsertBulk(ctx, trades)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}

	// Atomic batch: nothing was stored.
	if _, err := store.GetByID(ctx, "t1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected empty store after failed batch, got %v", err)
	}
}

func TestTradeStore_GetByRunID_Ordering(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()

	trades := []*domain.ClosedTrade{
		{TradeID: "t3", RunID: "r1", ExitTime: 3000},
		{TradeID: "t1", RunID: "r1", ExitTime: 1000},
		{TradeID: "t2", RunID: "r1", ExitTime: 2000},
		{TradeID: "x1", RunID: "r2", ExitTime: 500},
	}
	if err := store.InsertBulk(ctx, trades); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	result, err := store.GetByRunID(ctx, "r1")
	if err != nil {
		t.Fatalf("GetByRunID failed: %v", err)
	}
	if len(result) != 3 {
		t.Fatalf("Expected 3 trades, got %d", len(result))
	}
	for i, want := range []string{"t1", "t2", "t3"} {
		if result[i].TradeID != want {
			t.Errorf("position %d: got %s, want %s", i, result[i].TradeID, want)
		}
	}
}
