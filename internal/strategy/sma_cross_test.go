package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fx-backtest-lab/internal/domain"
)

func barsFromCloses(closes ...float64) []domain.Bar {
	bars := make([]domain.Bar, len(closes))
	for i, c := range closes {
		bars[i] = domain.Bar{
			TimestampMs: int64(i+1) * 60000,
			Open:        c,
			High:        c,
			Low:         c,
			Close:       c,
			Volume:      100,
		}
	}
	return bars
}

func TestSMACrossProvider_Signals(t *testing.T) {
	p := NewSMACrossProvider(2, 3)
	bars := barsFromCloses(10, 10, 10, 10, 11, 12, 9, 8)

	signals, err := p.Signals(bars)
	require.NoError(t, err)
	require.Len(t, signals, len(bars))

	want := []domain.Signal{
		domain.SignalHold, domain.SignalHold, domain.SignalHold, domain.SignalHold,
		domain.SignalLong, // fast average crosses above slow
		domain.SignalHold,
		domain.SignalShort, // and back below
		domain.SignalHold,
	}
	assert.Equal(t, want, signals)
}

func TestSMACrossProvider_WarmupIsAllHold(t *testing.T) {
	p := NewSMACrossProvider(3, 5)
	bars := barsFromCloses(10, 11, 12, 13)

	signals, err := p.Signals(bars)
	require.NoError(t, err)
	for i, s := range signals {
		assert.Equal(t, domain.SignalHold, s, "bar %d", i)
	}
}

func TestSMACrossProvider_InvalidPeriods(t *testing.T) {
	_, err := NewSMACrossProvider(0, 5).Signals(nil)
	assert.Error(t, err)

	_, err = NewSMACrossProvider(5, 5).Signals(nil)
	assert.Error(t, err)
}

func TestSMACrossProvider_ID(t *testing.T) {
	assert.Equal(t, "SMA_CROSS_10_30", NewSMACrossProvider(10, 30).ID())
}
