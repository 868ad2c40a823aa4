package strategy

import (
	"fmt"

	"fx-backtest-lab/internal/domain"
)

// SMACrossProvider signals on fast/slow moving-average crossovers: long when
// the fast average crosses above the slow, short when it crosses below.
// Exits happen through the opposing entry signal (stop-and-reverse).
type SMACrossProvider struct {
	FastPeriod int
	SlowPeriod int
}

// NewSMACrossProvider creates a new SMACrossProvider.
func NewSMACrossProvider(fast, slow int) *SMACrossProvider {
	return &SMACrossProvider{FastPeriod: fast, SlowPeriod: slow}
}

// ID returns the provider identifier including parameters.
func (p *SMACrossProvider) ID() string {
	return fmt.Sprintf("SMA_CROSS_%d_%d", p.FastPeriod, p.SlowPeriod)
}

// Signals computes crossover signals over closes. The first SlowPeriod bars
// are warmup and always HOLD.
func (p *SMACrossProvider) Signals(bars []domain.Bar) ([]domain.Signal, error) {
	if p.FastPeriod <= 0 || p.SlowPeriod <= p.FastPeriod {
		return nil, fmt.Errorf("sma cross: invalid periods fast=%d slow=%d", p.FastPeriod, p.SlowPeriod)
	}

	signals := make([]domain.Signal, len(bars))

	var fastSum, slowSum float64
	prevDiff := 0.0

	for i := range bars {
		fastSum += bars[i].Close
		slowSum += bars[i].Close
		if i >= p.FastPeriod {
			fastSum -= bars[i-p.FastPeriod].Close
		}
		if i >= p.SlowPeriod {
			slowSum -= bars[i-p.SlowPeriod].Close
		}

		// Warmup until the slow window is full.
		if i < p.SlowPeriod-1 {
			continue
		}

		diff := fastSum/float64(p.FastPeriod) - slowSum/float64(p.SlowPeriod)

		if i >= p.SlowPeriod {
			if prevDiff <= 0 && diff > 0 {
				signals[i] = domain.SignalLong
			} else if prevDiff >= 0 && diff < 0 {
				signals[i] = domain.SignalShort
			}
		}
		prevDiff = diff
	}

	return signals, nil
}

// Ensure SMACrossProvider implements SignalProvider
var _ SignalProvider = (*SMACrossProvider)(nil)
