package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArithmeticMean(t *testing.T) {
	assert.Equal(t, 0.0, arithmeticMean(nil))
	assert.Equal(t, 2.5, arithmeticMean([]float64{1, 2, 3, 4}))
}

func TestSampleStandardDeviation(t *testing.T) {
	assert.Equal(t, 0.0, sampleStandardDeviation(nil))
	assert.Equal(t, 0.0, sampleStandardDeviation([]float64{5}))

	// Variance of {1,2,3,4} with n-1 denominator is 5/3.
	got := sampleStandardDeviation([]float64{1, 2, 3, 4})
	assert.InDelta(t, math.Sqrt(5.0/3.0), got, 1e-12)
}

func TestSharpeRatio(t *testing.T) {
	ratio, ok := sharpeRatio([]float64{0.02, -0.01, 0.03, 0.01}, 0, 1)
	assert.True(t, ok)
	assert.Greater(t, ratio, 0.0)

	// Zero variance series has no meaningful ratio.
	_, ok = sharpeRatio([]float64{0.01, 0.01, 0.01}, 0, 1)
	assert.False(t, ok)

	_, ok = sharpeRatio([]float64{0.01}, 0, 1)
	assert.False(t, ok)
}

func TestSharpeRatio_AnnualizationScaling(t *testing.T) {
	returns := []float64{0.02, -0.01, 0.03, 0.01}

	base, ok := sharpeRatio(returns, 0, 1)
	assert.True(t, ok)
	annualized, ok := sharpeRatio(returns, 0, 252)
	assert.True(t, ok)

	assert.InDelta(t, base*math.Sqrt(252), annualized, 1e-12)
}

func TestSortinoRatio(t *testing.T) {
	ratio, ok := sortinoRatio([]float64{0.02, -0.01, 0.03}, 0, 1)
	assert.True(t, ok)
	assert.Greater(t, ratio, 0.0)

	// No downside periods: downside deviation is zero.
	_, ok = sortinoRatio([]float64{0.01, 0.02, 0.03}, 0, 1)
	assert.False(t, ok)
}

func TestCalmarRatio(t *testing.T) {
	ratio, ok := calmarRatio([]float64{0.01, 0.02}, 0.10, 1)
	assert.True(t, ok)
	assert.InDelta(t, 0.15, ratio, 1e-12)

	_, ok = calmarRatio([]float64{0.01}, 0, 1)
	assert.False(t, ok)
}

func TestDrawdowns(t *testing.T) {
	maxFrac, maxUSD, ulcer := drawdowns([]float64{100, 120, 90, 130})

	assert.InDelta(t, 0.25, maxFrac, 1e-12)
	assert.InDelta(t, 30.0, maxUSD, 1e-12)
	assert.Greater(t, ulcer, 0.0)
}

func TestDrawdowns_MonotonicCurveHasNone(t *testing.T) {
	maxFrac, maxUSD, ulcer := drawdowns([]float64{100, 110, 120})

	assert.Equal(t, 0.0, maxFrac)
	assert.Equal(t, 0.0, maxUSD)
	assert.Equal(t, 0.0, ulcer)
}
