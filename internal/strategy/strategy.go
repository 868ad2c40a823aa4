// Package strategy contains the signal providers that drive the replay loop.
// The engine only sees the SignalProvider interface; concrete strategy
// families are selected through the config factory.
package strategy

import "fx-backtest-lab/internal/domain"

// SignalProvider produces one signal per bar, aligned 1:1 with the series.
type SignalProvider interface {
	// Signals computes the full signal series for the given bars.
	// The result must have exactly len(bars) entries.
	Signals(bars []domain.Bar) ([]domain.Signal, error)

	// ID returns the provider identifier (includes parameters).
	ID() string
}
