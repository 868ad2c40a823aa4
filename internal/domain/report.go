package domain

// PerformanceReport holds the summary metrics for one backtest run.
// It is derived entirely and deterministically from the closed-trade sequence
// and equity curve, and is never mutated after computation.
type PerformanceReport struct {
	RunID      string
	StrategyID string

	TotalTrades  int
	FinalEquity  float64
	TotalReturn  float64 // (final - initial) / initial
	WinRate      float64
	ProfitFactor float64 // 0 with no wins; see ProfitFactorCapped
	Expectancy   float64 // mean trade PnL in USD
	MaxDrawdown  float64 // fraction of running peak equity

	SharpeRatio    float64
	SortinoRatio   float64
	CalmarRatio    float64
	UlcerIndex     float64
	RecoveryFactor float64

	// ProfitFactorCapped is true when the run had wins and zero losses;
	// ProfitFactor then holds the win sum rather than +Inf.
	ProfitFactorCapped bool

	// Degenerate is true when one or more metrics were forced to a sentinel
	// (no trades, or a zero-variance return series). DegenerateReason names
	// the cause.
	Degenerate       bool
	DegenerateReason string
}

// Metrics returns the report as a name → value mapping for ranking and export.
func (r *PerformanceReport) Metrics() map[string]float64 {
	return map[string]float64{
		"total_trades":    float64(r.TotalTrades),
		"final_equity":    r.FinalEquity,
		"total_return":    r.TotalReturn,
		"win_rate":        r.WinRate,
		"profit_factor":   r.ProfitFactor,
		"expectancy":      r.Expectancy,
		"max_drawdown":    r.MaxDrawdown,
		"sharpe_ratio":    r.SharpeRatio,
		"sortino_ratio":   r.SortinoRatio,
		"calmar_ratio":    r.CalmarRatio,
		"ulcer_index":     r.UlcerIndex,
		"recovery_factor": r.RecoveryFactor,
	}
}
