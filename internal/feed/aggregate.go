package feed

import (
	"errors"

	"fx-backtest-lab/internal/domain"
)

// ErrNonPositiveInterval indicates an invalid aggregation interval.
var ErrNonPositiveInterval = errors.New("aggregation interval must be positive")

// TickAggregator rolls a stream of ticks into fixed-interval OHLCV bars.
// Not safe for concurrent use.
type TickAggregator struct {
	intervalMs int64

	open    bool
	bucket  int64
	current domain.Bar
}

// NewTickAggregator creates an aggregator producing bars of intervalMs width.
// Bar timestamps are aligned to interval boundaries.
func NewTickAggregator(intervalMs int64) (*TickAggregator, error) {
	if intervalMs <= 0 {
		return nil, ErrNonPositiveInterval
	}
	return &TickAggregator{intervalMs: intervalMs}, nil
}

// Add folds a tick into the current bar. When the tick crosses an interval
// boundary the completed bar is returned with ok=true.
func (a *TickAggregator) Add(tick domain.Tick) (domain.Bar, bool) {
	bucket := tick.TimestampMs / a.intervalMs

	if !a.open {
		a.startBar(bucket, tick)
		return domain.Bar{}, false
	}

	if bucket != a.bucket {
		done := a.current
		a.startBar(bucket, tick)
		return done, true
	}

	if tick.Price > a.current.High {
		a.current.High = tick.Price
	}
	if tick.Price < a.current.Low {
		a.current.Low = tick.Price
	}
	a.current.Close = tick.Price
	a.current.Volume += tick.Volume
	return domain.Bar{}, false
}

// Flush returns the in-progress bar, if any, and resets the aggregator.
func (a *TickAggregator) Flush() (domain.Bar, bool) {
	if !a.open {
		return domain.Bar{}, false
	}
	done := a.current
	a.open = false
	a.current = domain.Bar{}
	return done, true
}

func (a *TickAggregator) startBar(bucket int64, tick domain.Tick) {
	a.open = true
	a.bucket = bucket
	a.current = domain.Bar{
		TimestampMs: bucket * a.intervalMs,
		Open:        tick.Price,
		High:        tick.Price,
		Low:         tick.Price,
		Close:       tick.Price,
		Volume:      tick.Volume,
	}
}
