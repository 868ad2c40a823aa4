package replay

import (
	"fmt"
	"math"

	"fx-backtest-lab/internal/domain"
)

// ValidateSeries checks the input contract for one backtest run: a non-empty
// bar series with monotonic timestamps, positive finite prices, well-formed
// extremes, non-zero variance, and a 1:1 aligned signal series.
//
// Single-pass; fails fast on the first offending bar.
func ValidateSeries(bars []domain.Bar, signals []domain.Signal) error {
	if len(bars) == 0 {
		return ErrEmptySeries
	}
	if len(signals) != len(bars) {
		return fmt.Errorf("%w: %d signals for %d bars", ErrSignalMismatch, len(signals), len(bars))
	}

	minClose, maxClose := bars[0].Close, bars[0].Close

	for i := range bars {
		b := &bars[i]

		if i > 0 && b.TimestampMs < bars[i-1].TimestampMs {
			return fmt.Errorf("%w: bar %d (ts %d) after ts %d",
				ErrNonMonotonicSeries, i, b.TimestampMs, bars[i-1].TimestampMs)
		}

		for _, p := range [4]float64{b.Open, b.High, b.Low, b.Close} {
			if p <= 0 || math.IsNaN(p) || math.IsInf(p, 0) {
				return fmt.Errorf("%w: bar %d (ts %d)", ErrNonPositivePrice, i, b.TimestampMs)
			}
		}

		if b.High < math.Max(b.Open, b.Close) || b.Low > math.Min(b.Open, b.Close) {
			return fmt.Errorf("%w: bar %d (ts %d)", ErrMalformedBar, i, b.TimestampMs)
		}

		if b.Close < minClose {
			minClose = b.Close
		}
		if b.Close > maxClose {
			maxClose = b.Close
		}
	}

	// A single observation carries no variance by definition; only reject
	// flat multi-bar series.
	if len(bars) > 1 && minClose == maxClose {
		return fmt.Errorf("%w: all %d closes equal %v", ErrZeroPriceVariance, len(bars), minClose)
	}

	return nil
}
