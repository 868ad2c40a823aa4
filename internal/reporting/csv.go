package reporting

import (
	"fmt"
	"strings"

	"fx-backtest-lab/internal/domain"
)

// RenderTradesCSV renders a closed trade list as CSV string.
func RenderTradesCSV(trades []domain.ClosedTrade) string {
	var sb strings.Builder

	// Header
	sb.WriteString("trade_id,run_id,direction,entry_price,exit_price,entry_time_ms,exit_time_ms,lot_size,pnl_usd,exit_reason\n")

	// Rows
	for _, t := range trades {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%.6f,%.6f,%d,%d,%.4f,%.2f,%s\n",
			t.TradeID,
			t.RunID,
			t.Direction,
			t.EntryPrice,
			t.ExitPrice,
			t.EntryTime,
			t.ExitTime,
			t.LotSize,
			t.PnLUSD,
			t.ExitReason,
		))
	}

	return sb.String()
}

// RenderReportsCSV renders performance reports as CSV string.
func RenderReportsCSV(reports []*domain.PerformanceReport) string {
	var sb strings.Builder

	// Header
	sb.WriteString("run_id,strategy_id,total_trades,final_equity,total_return,win_rate,profit_factor,profit_factor_capped,")
	sb.WriteString("expectancy,max_drawdown,sharpe_ratio,sortino_ratio,calmar_ratio,ulcer_index,recovery_factor,")
	sb.WriteString("degenerate,degenerate_reason\n")

	// Rows
	for _, r := range reports {
		sb.WriteString(fmt.Sprintf("%s,%s,%d,%.2f,%.6f,%.6f,%.6f,%t,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%t,%s\n",
			r.RunID,
			r.StrategyID,
			r.TotalTrades,
			r.FinalEquity,
			r.TotalReturn,
			r.WinRate,
			r.ProfitFactor,
			r.ProfitFactorCapped,
			r.Expectancy,
			r.MaxDrawdown,
			r.SharpeRatio,
			r.SortinoRatio,
			r.CalmarRatio,
			r.UlcerIndex,
			r.RecoveryFactor,
			r.Degenerate,
			r.DegenerateReason,
		))
	}

	return sb.String()
}
