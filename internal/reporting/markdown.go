package reporting

import (
	"fmt"
	"strings"
	"time"

	"fx-backtest-lab/internal/domain"
)

// maxMarkdownTrades caps the trade list in rendered reports.
const maxMarkdownTrades = 200

// RenderMarkdown renders a single run report with its trade list as Markdown.
func RenderMarkdown(r *domain.PerformanceReport, trades []domain.ClosedTrade) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Backtest Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", time.Now().UTC().Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Run: `%s`\n\n", r.RunID))
	sb.WriteString(fmt.Sprintf("Strategy: %s\n\n", r.StrategyID))

	if r.Degenerate {
		sb.WriteString(fmt.Sprintf("**Degenerate run:** %s\n\n", r.DegenerateReason))
	}

	// Performance
	sb.WriteString("## Performance\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total Trades | %d |\n", r.TotalTrades))
	sb.WriteString(fmt.Sprintf("| Final Equity | %.2f |\n", r.FinalEquity))
	sb.WriteString(fmt.Sprintf("| Total Return | %.4f |\n", r.TotalReturn))
	sb.WriteString(fmt.Sprintf("| Win Rate | %.4f |\n", r.WinRate))
	profitFactor := fmt.Sprintf("%.4f", r.ProfitFactor)
	if r.ProfitFactorCapped {
		profitFactor += " (no losing trades)"
	}
	sb.WriteString(fmt.Sprintf("| Profit Factor | %s |\n", profitFactor))
	sb.WriteString(fmt.Sprintf("| Expectancy | %.4f |\n", r.Expectancy))
	sb.WriteString(fmt.Sprintf("| Max Drawdown | %.4f |\n", r.MaxDrawdown))
	sb.WriteString(fmt.Sprintf("| Sharpe Ratio | %.4f |\n", r.SharpeRatio))
	sb.WriteString(fmt.Sprintf("| Sortino Ratio | %.4f |\n", r.SortinoRatio))
	sb.WriteString(fmt.Sprintf("| Calmar Ratio | %.4f |\n", r.CalmarRatio))
	sb.WriteString(fmt.Sprintf("| Ulcer Index | %.4f |\n", r.UlcerIndex))
	sb.WriteString(fmt.Sprintf("| Recovery Factor | %.4f |\n", r.RecoveryFactor))
	sb.WriteString("\n")

	// Trades
	sb.WriteString("## Trades\n\n")
	if len(trades) > 0 {
		sb.WriteString("| # | Direction | Entry | Exit | Lots | PnL (USD) | Exit Reason |\n")
		sb.WriteString("|---|-----------|-------|------|------|-----------|-------------|\n")
		shown := trades
		if len(shown) > maxMarkdownTrades {
			shown = shown[:maxMarkdownTrades]
		}
		for i, t := range shown {
			sb.WriteString(fmt.Sprintf("| %d | %s | %.5f | %.5f | %.2f | %.2f | %s |\n",
				i+1, t.Direction, t.EntryPrice, t.ExitPrice, t.LotSize, t.PnLUSD, t.ExitReason))
		}
		if len(trades) > maxMarkdownTrades {
			sb.WriteString(fmt.Sprintf("\n%d further trades omitted.\n", len(trades)-maxMarkdownTrades))
		}
	} else {
		sb.WriteString("No trades executed.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

// RenderRankingMarkdown renders a sweep result table ordered as given.
func RenderRankingMarkdown(metric string, reports []*domain.PerformanceReport) string {
	var sb strings.Builder

	sb.WriteString("# Strategy Sweep\n\n")
	sb.WriteString(fmt.Sprintf("Ranked by: %s\n\n", metric))

	if len(reports) == 0 {
		sb.WriteString("No runs completed.\n")
		return sb.String()
	}

	sb.WriteString("| Rank | Strategy | Trades | Return | WinRate | ProfitFactor | MaxDD | Sharpe | Expectancy |\n")
	sb.WriteString("|------|----------|--------|--------|---------|--------------|-------|--------|------------|\n")
	for i, r := range reports {
		sb.WriteString(fmt.Sprintf("| %d | %s | %d | %.4f | %.4f | %.4f | %.4f | %.4f | %.4f |\n",
			i+1, r.StrategyID, r.TotalTrades, r.TotalReturn, r.WinRate,
			r.ProfitFactor, r.MaxDrawdown, r.SharpeRatio, r.Expectancy))
	}
	sb.WriteString("\n")

	return sb.String()
}
