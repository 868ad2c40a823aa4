package replay

import (
	"github.com/shopspring/decimal"

	"fx-backtest-lab/internal/domain"
)

// PnLUSD converts a closed round trip into a currency amount:
//
//	pips   = sign * (exit - entry) / pip_size
//	pnl    = pips * pip_value_per_lot * (lot_size / standard_lot)
//
// sign is +1 for long, -1 for short. The arithmetic runs on decimals and is
// rounded to cents, so a 50-pip win at 0.1 lots with $10/pip is exactly $50.00.
//
// This is deliberately not a fractional price return; percent return exists
// only at the portfolio level.
func PnLUSD(cfg *domain.RunConfig, direction domain.Direction, entryPrice, exitPrice, lotSize float64) float64 {
	delta := decimal.NewFromFloat(exitPrice).Sub(decimal.NewFromFloat(entryPrice))
	if direction == domain.DirectionShort {
		delta = delta.Neg()
	}

	pips := delta.Div(decimal.NewFromFloat(cfg.PipSize))

	pnl := pips.
		Mul(decimal.NewFromFloat(cfg.PipValuePerLot)).
		Mul(decimal.NewFromFloat(lotSize)).
		Div(decimal.NewFromFloat(domain.StandardLotSize))

	return pnl.Round(2).InexactFloat64()
}

// Pips converts a pip distance into price units for the instrument.
func Pips(cfg *domain.RunConfig, pips float64) float64 {
	return decimal.NewFromFloat(pips).
		Mul(decimal.NewFromFloat(cfg.PipSize)).
		InexactFloat64()
}
