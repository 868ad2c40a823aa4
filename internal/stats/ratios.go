package stats

import "math"

// arithmeticMean divides the sum of all values by the length of values.
func arithmeticMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStandardDeviation uses the n-1 denominator for an unbiased estimator.
func sampleStandardDeviation(values []float64) float64 {
	if len(values) <= 1 {
		return 0
	}
	mean := arithmeticMean(values)
	sumSq := 0.0
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(len(values)-1))
}

// sharpeRatio normalizes mean excess return by total volatility, scaled by
// sqrt(annualization). Returns (0, false) for a zero-variance series.
func sharpeRatio(returns []float64, riskFreeRate, annualization float64) (float64, bool) {
	if len(returns) <= 1 {
		return 0, false
	}
	excess := make([]float64, len(returns))
	for i, r := range returns {
		excess[i] = r - riskFreeRate
	}
	stdDev := sampleStandardDeviation(excess)
	if stdDev == 0 {
		return 0, false
	}
	ratio := (arithmeticMean(returns) - riskFreeRate) / stdDev
	return ratio * math.Sqrt(annualization), true
}

// sortinoRatio normalizes mean excess return by downside deviation only.
// Returns (0, false) when the series has no downside.
func sortinoRatio(returns []float64, riskFreeRate, annualization float64) (float64, bool) {
	if len(returns) == 0 {
		return 0, false
	}
	downsideSq := 0.0
	for _, r := range returns {
		if excess := r - riskFreeRate; excess < 0 {
			downsideSq += excess * excess
		}
	}
	downsideDev := math.Sqrt(downsideSq / float64(len(returns)))
	if downsideDev == 0 {
		return 0, false
	}
	ratio := (arithmeticMean(returns) - riskFreeRate) / downsideDev
	return ratio * math.Sqrt(annualization), true
}

// calmarRatio is annualized mean return over maximum drawdown.
// Returns (0, false) when there was no drawdown.
func calmarRatio(returns []float64, maxDrawdown, annualization float64) (float64, bool) {
	if maxDrawdown == 0 || len(returns) == 0 {
		return 0, false
	}
	return arithmeticMean(returns) * annualization / maxDrawdown, true
}

// drawdowns walks the equity values once and returns the maximum fractional
// drawdown from the running peak, the maximum currency drawdown, and the
// Ulcer index (root mean square of percent drawdowns).
func drawdowns(equity []float64) (maxFrac, maxUSD, ulcer float64) {
	if len(equity) == 0 {
		return 0, 0, 0
	}
	peak := equity[0]
	sumSqPct := 0.0
	for _, e := range equity {
		if e > peak {
			peak = e
		}
		ddUSD := peak - e
		if ddUSD > maxUSD {
			maxUSD = ddUSD
		}
		if peak > 0 {
			frac := ddUSD / peak
			if frac > maxFrac {
				maxFrac = frac
			}
			pct := frac * 100
			sumSqPct += pct * pct
		}
	}
	ulcer = math.Sqrt(sumSqPct / float64(len(equity)))
	return maxFrac, maxUSD, ulcer
}
