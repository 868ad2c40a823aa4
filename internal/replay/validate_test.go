package replay

import (
	"errors"
	"math"
	"testing"

	"fx-backtest-lab/internal/domain"
)

func validBars() []domain.Bar {
	return []domain.Bar{
		{TimestampMs: 1000, Open: 1.1000, High: 1.1010, Low: 1.0990, Close: 1.1005, Volume: 100},
		{TimestampMs: 2000, Open: 1.1005, High: 1.1020, Low: 1.1000, Close: 1.1015, Volume: 120},
		{TimestampMs: 3000, Open: 1.1015, High: 1.1018, Low: 1.0995, Close: 1.1000, Volume: 90},
	}
}

func holdSignals(n int) []domain.Signal {
	return make([]domain.Signal, n)
}

func TestValidateSeries_Valid(t *testing.T) {
	bars := validBars()
	if err := ValidateSeries(bars, holdSignals(len(bars))); err != nil {
		t.Fatalf("expected valid series, got: %v", err)
	}
}

func TestValidateSeries_Empty(t *testing.T) {
	err := ValidateSeries(nil, nil)
	if !errors.Is(err, ErrEmptySeries) {
		t.Errorf("expected ErrEmptySeries, got %v", err)
	}
}

func TestValidateSeries_SignalMismatch(t *testing.T) {
	bars := validBars()
	err := ValidateSeries(bars, holdSignals(len(bars)-1))
	if !errors.Is(err, ErrSignalMismatch) {
		t.Errorf("expected ErrSignalMismatch, got %v", err)
	}
}

func TestValidateSeries_NonMonotonic(t *testing.T) {
	bars := validBars()
	bars[2].TimestampMs = 1500
	err := ValidateSeries(bars, holdSignals(len(bars)))
	if !errors.Is(err, ErrNonMonotonicSeries) {
		t.Errorf("expected ErrNonMonotonicSeries, got %v", err)
	}
}

func TestValidateSeries_EqualTimestampsAllowed(t *testing.T) {
	bars := validBars()
	bars[1].TimestampMs = bars[0].TimestampMs
	if err := ValidateSeries(bars, holdSignals(len(bars))); err != nil {
		t.Errorf("equal timestamps should pass, got %v", err)
	}
}

func TestValidateSeries_BadPrices(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(b *domain.Bar)
		want   error
	}{
		{"zero price", func(b *domain.Bar) { b.Close = 0 }, ErrNonPositivePrice},
		{"negative price", func(b *domain.Bar) { b.Low = -1 }, ErrNonPositivePrice},
		{"nan price", func(b *domain.Bar) { b.Open = math.NaN() }, ErrNonPositivePrice},
		{"inf price", func(b *domain.Bar) { b.High = math.Inf(1) }, ErrNonPositivePrice},
		{"high below close", func(b *domain.Bar) { b.High = b.Close - 0.001 }, ErrMalformedBar},
		{"low above open", func(b *domain.Bar) { b.Low = b.Open + 0.001 }, ErrMalformedBar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bars := validBars()
			tt.mutate(&bars[1])
			err := ValidateSeries(bars, holdSignals(len(bars)))
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestValidateSeries_ZeroVariance(t *testing.T) {
	bars := []domain.Bar{
		{TimestampMs: 1000, Open: 1.1, High: 1.1, Low: 1.1, Close: 1.1},
		{TimestampMs: 2000, Open: 1.1, High: 1.1, Low: 1.1, Close: 1.1},
	}
	err := ValidateSeries(bars, holdSignals(2))
	if !errors.Is(err, ErrZeroPriceVariance) {
		t.Errorf("expected ErrZeroPriceVariance, got %v", err)
	}
}

func TestValidateSeries_SingleBarCarriesNoVariance(t *testing.T) {
	bars := []domain.Bar{
		{TimestampMs: 1000, Open: 1.1, High: 1.1, Low: 1.1, Close: 1.1},
	}
	if err := ValidateSeries(bars, holdSignals(1)); err != nil {
		t.Errorf("single bar series should pass, got %v", err)
	}
}
