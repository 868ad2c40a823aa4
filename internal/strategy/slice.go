package strategy

import (
	"fmt"

	"fx-backtest-lab/internal/domain"
)

// SliceProvider serves a precomputed signal series. Used for replaying
// externally generated signals and in tests.
type SliceProvider struct {
	name    string
	signals []domain.Signal
}

// NewSliceProvider creates a provider over precomputed signals.
func NewSliceProvider(name string, signals []domain.Signal) *SliceProvider {
	return &SliceProvider{name: name, signals: signals}
}

// Signals returns the precomputed series after checking alignment.
func (p *SliceProvider) Signals(bars []domain.Bar) ([]domain.Signal, error) {
	if len(p.signals) != len(bars) {
		return nil, fmt.Errorf("slice provider %q: %d signals for %d bars", p.name, len(p.signals), len(bars))
	}
	return p.signals, nil
}

// ID returns the provider identifier.
func (p *SliceProvider) ID() string {
	return "SLICE_" + p.name
}

// Ensure SliceProvider implements SignalProvider
var _ SignalProvider = (*SliceProvider)(nil)
