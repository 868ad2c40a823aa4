package memory

import (
	"context"
	"sync"

	"fx-backtest-lab/internal/domain"
	"fx-backtest-lab/internal/storage"
)

// ReportStore is an in-memory implementation of storage.ReportStore.
type ReportStore struct {
	mu   sync.RWMutex
	data map[string]*domain.PerformanceReport // keyed by run_id
}

// NewReportStore creates a new in-memory report store.
func NewReportStore() *ReportStore {
	return &ReportStore{
		data: make(map[string]*domain.PerformanceReport),
	}
}

// Compile-time interface check.
var _ storage.ReportStore = (*ReportStore)(nil)

// Insert adds a new report. Returns ErrDuplicateKey if run_id exists.
func (s *ReportStore) Insert(_ context.Context, r *domain.PerformanceReport) error {
	if r == nil || r.RunID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.RunID]; exists {
		return storage.ErrDuplicateKey
	}

	cp := *r
	s.data[r.RunID] = &cp
	return nil
}

// GetByRunID retrieves the report for a run. Returns ErrNotFound if not exists.
func (s *ReportStore) GetByRunID(_ context.Context, runID string) (*domain.PerformanceReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.data[runID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	cp := *r
	return &cp, nil
}
