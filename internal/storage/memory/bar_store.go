package memory

import (
	"context"
	"sort"
	"sync"

	"fx-backtest-lab/internal/domain"
	"fx-backtest-lab/internal/storage"
)

// BarStore is an in-memory implementation of storage.BarStore.
type BarStore struct {
	mu   sync.RWMutex
	data map[string][]domain.Bar // keyed by symbol
	seen map[barKey]struct{}
}

type barKey struct {
	symbol      string
	timestampMs int64
}

// NewBarStore creates a new in-memory bar store.
func NewBarStore() *BarStore {
	return &BarStore{
		data: make(map[string][]domain.Bar),
		seen: make(map[barKey]struct{}),
	}
}

// Compile-time interface check.
var _ storage.BarStore = (*BarStore)(nil)

// InsertBulk adds multiple bars. Fails entire batch on duplicate (symbol, timestamp_ms).
func (s *BarStore) InsertBulk(_ context.Context, symbol string, bars []domain.Bar) error {
	if symbol == "" {
		return storage.ErrInvalidInput
	}
	if len(bars) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[barKey]struct{}, len(bars))
	for _, b := range bars {
		k := barKey{symbol, b.TimestampMs}
		if _, exists := s.seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[k]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[k] = struct{}{}
	}

	for _, b := range bars {
		s.seen[barKey{symbol, b.TimestampMs}] = struct{}{}
		s.data[symbol] = append(s.data[symbol], b)
	}
	sort.Slice(s.data[symbol], func(i, j int) bool {
		return s.data[symbol][i].TimestampMs < s.data[symbol][j].TimestampMs
	})

	return nil
}

// GetBySymbol retrieves all bars for a symbol, ordered by timestamp ASC.
func (s *BarStore) GetBySymbol(_ context.Context, symbol string) ([]domain.Bar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bars := s.data[symbol]
	result := make([]domain.Bar, len(bars))
	copy(result, bars)
	return result, nil
}

// GetByTimeRange retrieves bars for a symbol within [start, end] (inclusive).
func (s *BarStore) GetByTimeRange(_ context.Context, symbol string, start, end int64) ([]domain.Bar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Bar
	for _, b := range s.data[symbol] {
		if b.TimestampMs >= start && b.TimestampMs <= end {
			result = append(result, b)
		}
	}
	return result, nil
}
