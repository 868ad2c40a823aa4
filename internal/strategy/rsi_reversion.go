package strategy

import (
	"fmt"

	"fx-backtest-lab/internal/domain"
)

// RSIReversionProvider signals mean reversion on Wilder's RSI: long while
// oversold (RSI below Low), short while overbought (RSI above High), exit
// when RSI returns to the neutral band from either extreme.
type RSIReversionProvider struct {
	Period int
	Low    float64
	High   float64
}

// NewRSIReversionProvider creates a new RSIReversionProvider.
func NewRSIReversionProvider(period int, low, high float64) *RSIReversionProvider {
	return &RSIReversionProvider{Period: period, Low: low, High: high}
}

// ID returns the provider identifier including parameters.
func (p *RSIReversionProvider) ID() string {
	return fmt.Sprintf("RSI_REVERSION_%d_%.0f_%.0f", p.Period, p.Low, p.High)
}

// Signals computes reversion signals. The first Period bars are warmup.
func (p *RSIReversionProvider) Signals(bars []domain.Bar) ([]domain.Signal, error) {
	if p.Period <= 0 {
		return nil, fmt.Errorf("rsi reversion: invalid period %d", p.Period)
	}
	if p.Low <= 0 || p.High >= 100 || p.Low >= p.High {
		return nil, fmt.Errorf("rsi reversion: invalid bounds low=%v high=%v", p.Low, p.High)
	}

	signals := make([]domain.Signal, len(bars))
	if len(bars) <= p.Period {
		return signals, nil
	}

	// Wilder smoothing seeded with a simple average over the first period.
	var avgGain, avgLoss float64
	for i := 1; i <= p.Period; i++ {
		change := bars[i].Close - bars[i-1].Close
		if change > 0 {
			avgGain += change
		} else {
			avgLoss += -change
		}
	}
	avgGain /= float64(p.Period)
	avgLoss /= float64(p.Period)

	prevRSI := rsiValue(avgGain, avgLoss)
	n := float64(p.Period)

	for i := p.Period + 1; i < len(bars); i++ {
		change := bars[i].Close - bars[i-1].Close
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*(n-1) + gain) / n
		avgLoss = (avgLoss*(n-1) + loss) / n

		rsi := rsiValue(avgGain, avgLoss)

		switch {
		case rsi < p.Low:
			signals[i] = domain.SignalLong
		case rsi > p.High:
			signals[i] = domain.SignalShort
		case prevRSI < p.Low || prevRSI > p.High:
			// Back inside the neutral band.
			signals[i] = domain.SignalExit
		}
		prevRSI = rsi
	}

	return signals, nil
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// Ensure RSIReversionProvider implements SignalProvider
var _ SignalProvider = (*RSIReversionProvider)(nil)
