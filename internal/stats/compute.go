// Package stats computes the performance report for a completed run.
// Compute is a pure function over the closed-trade sequence and equity curve;
// running it twice over the same input yields identical output.
package stats

import (
	"fx-backtest-lab/internal/domain"
)

// Degenerate reason notes attached to sentinel-bearing reports.
const (
	reasonNoTrades     = "no trades executed"
	reasonZeroVariance = "zero-variance return series"
)

// Compute derives the performance report from one run's trades and equity
// curve. All ratio metrics guard division by zero: degenerate inputs produce
// 0-valued sentinels and set Degenerate/DegenerateReason instead of NaN.
func Compute(trades []*domain.ClosedTrade, equity []domain.EquityPoint, cfg *domain.RunConfig) *domain.PerformanceReport {
	report := &domain.PerformanceReport{
		TotalTrades: len(trades),
		FinalEquity: cfg.InitialCapital,
	}
	if len(equity) > 0 {
		report.FinalEquity = equity[len(equity)-1].Equity
	}
	report.TotalReturn = (report.FinalEquity - cfg.InitialCapital) / cfg.InitialCapital

	if len(trades) == 0 {
		report.Degenerate = true
		report.DegenerateReason = reasonNoTrades
		return report
	}

	// Trade-level metrics.
	wins := 0
	grossWin, grossLoss, total := 0.0, 0.0, 0.0
	for _, t := range trades {
		total += t.PnLUSD
		if t.PnLUSD > 0 {
			wins++
			grossWin += t.PnLUSD
		} else if t.PnLUSD < 0 {
			grossLoss += -t.PnLUSD
		}
	}
	report.WinRate = float64(wins) / float64(len(trades))
	report.Expectancy = total / float64(len(trades))

	switch {
	case grossWin == 0:
		report.ProfitFactor = 0
	case grossLoss == 0:
		// Wins and zero losses: true ratio is +Inf. Report the win sum
		// and flag it instead of propagating Inf into storage and JSON.
		report.ProfitFactor = grossWin
		report.ProfitFactorCapped = true
	default:
		report.ProfitFactor = grossWin / grossLoss
	}

	// Curve-level metrics.
	values := make([]float64, len(equity))
	for i, p := range equity {
		values[i] = p.Equity
	}
	maxFrac, maxUSD, ulcer := drawdowns(values)
	report.MaxDrawdown = maxFrac
	report.UlcerIndex = ulcer
	if maxUSD > 0 {
		report.RecoveryFactor = (report.FinalEquity - cfg.InitialCapital) / maxUSD
	}

	returns := perPeriodReturns(values)

	annualization := cfg.AnnualizationFactor
	if annualization <= 0 {
		annualization = 1
	}

	var ok bool
	if report.SharpeRatio, ok = sharpeRatio(returns, cfg.RiskFreeRate, annualization); !ok {
		report.Degenerate = true
		report.DegenerateReason = reasonZeroVariance
	}
	report.SortinoRatio, _ = sortinoRatio(returns, cfg.RiskFreeRate, annualization)
	report.CalmarRatio, _ = calmarRatio(returns, maxFrac, annualization)

	return report
}

// perPeriodReturns derives the simple return series from consecutive equity
// samples.
func perPeriodReturns(equity []float64) []float64 {
	if len(equity) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		if equity[i-1] == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, (equity[i]-equity[i-1])/equity[i-1])
	}
	return returns
}
