package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fx-backtest-lab/internal/domain"
)

func testConfig() domain.RunConfig {
	cfg := domain.DefaultRunConfig()
	cfg.AnnualizationFactor = 1
	return cfg
}

func trade(pnl float64) *domain.ClosedTrade {
	return &domain.ClosedTrade{PnLUSD: pnl}
}

func curve(values ...float64) []domain.EquityPoint {
	points := make([]domain.EquityPoint, len(values))
	for i, v := range values {
		points[i] = domain.EquityPoint{TimestampMs: int64(i+1) * 1000, Equity: v}
	}
	return points
}

func TestCompute_NoTrades(t *testing.T) {
	cfg := testConfig()

	report := Compute(nil, curve(10000), &cfg)

	assert.Equal(t, 0, report.TotalTrades)
	assert.Equal(t, 10000.0, report.FinalEquity)
	assert.Equal(t, 0.0, report.TotalReturn)
	assert.True(t, report.Degenerate)
	assert.Equal(t, reasonNoTrades, report.DegenerateReason)
	assert.Equal(t, 0.0, report.SharpeRatio)
	assert.Equal(t, 0.0, report.ProfitFactor)
}

func TestCompute_TradeMetrics(t *testing.T) {
	cfg := testConfig()

	trades := []*domain.ClosedTrade{trade(50), trade(50), trade(-25), trade(-15)}
	equity := curve(10000, 10050, 10100, 10075, 10060)

	report := Compute(trades, equity, &cfg)

	assert.Equal(t, 4, report.TotalTrades)
	assert.Equal(t, 10060.0, report.FinalEquity)
	assert.InDelta(t, 0.006, report.TotalReturn, 1e-12)
	assert.Equal(t, 0.5, report.WinRate)
	assert.InDelta(t, 2.5, report.ProfitFactor, 1e-12) // 100 / 40
	assert.False(t, report.ProfitFactorCapped)
	assert.InDelta(t, 15.0, report.Expectancy, 1e-12) // 60 / 4
	assert.False(t, report.Degenerate)
}

func TestCompute_ProfitFactorCappedWithoutLosses(t *testing.T) {
	cfg := testConfig()

	trades := []*domain.ClosedTrade{trade(30), trade(20)}
	equity := curve(10000, 10030, 10050)

	report := Compute(trades, equity, &cfg)

	// No losing trades: the true ratio is unbounded, so the win sum is
	// reported and flagged instead.
	assert.True(t, report.ProfitFactorCapped)
	assert.Equal(t, 50.0, report.ProfitFactor)
	assert.Equal(t, 1.0, report.WinRate)
}

func TestCompute_ProfitFactorZeroWithoutWins(t *testing.T) {
	cfg := testConfig()

	trades := []*domain.ClosedTrade{trade(-30), trade(-20)}
	equity := curve(10000, 9970, 9950)

	report := Compute(trades, equity, &cfg)

	assert.Equal(t, 0.0, report.ProfitFactor)
	assert.False(t, report.ProfitFactorCapped)
	assert.Equal(t, 0.0, report.WinRate)
}

func TestCompute_ZeroVarianceReturnsAreDegenerate(t *testing.T) {
	cfg := testConfig()

	// Constant 10% growth per period: non-zero but variance-free returns.
	trades := []*domain.ClosedTrade{trade(1000), trade(1100)}
	equity := curve(10000, 11000, 12100)

	report := Compute(trades, equity, &cfg)

	assert.True(t, report.Degenerate)
	assert.Equal(t, reasonZeroVariance, report.DegenerateReason)
	assert.Equal(t, 0.0, report.SharpeRatio)
}

func TestCompute_DrawdownAndRecovery(t *testing.T) {
	cfg := testConfig()

	trades := []*domain.ClosedTrade{trade(2000), trade(-3000), trade(4000)}
	equity := curve(10000, 12000, 9000, 13000)

	report := Compute(trades, equity, &cfg)

	// Peak 12000 to trough 9000: 25% and $3000.
	assert.InDelta(t, 0.25, report.MaxDrawdown, 1e-12)
	assert.InDelta(t, 1.0, report.RecoveryFactor, 1e-12) // 3000 gain / 3000 drawdown
	assert.Greater(t, report.UlcerIndex, 0.0)
}

func TestCompute_Idempotent(t *testing.T) {
	cfg := testConfig()

	trades := []*domain.ClosedTrade{trade(50), trade(-20), trade(35)}
	equity := curve(10000, 10050, 10030, 10065)

	first := Compute(trades, equity, &cfg)
	second := Compute(trades, equity, &cfg)

	require.Equal(t, first, second)
}
