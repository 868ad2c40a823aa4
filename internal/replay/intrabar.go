package replay

import "fx-backtest-lab/internal/domain"

// firstTouch indicates which protective level a bar reached first.
type firstTouch int

const (
	touchNone firstTouch = iota
	touchStop
	touchTarget
)

// resolveFirstTouch determines whether the bar's extremes reached the
// position's stop or target. A zero level is treated as disabled.
//
// When both levels are touched within the same bar the true intrabar path is
// unknowable from OHLC data. The stop wins: the worst-for-trader outcome is
// assumed, so reported performance is biased down rather than up. This rule is
// deliberate and applied unconditionally.
func resolveFirstTouch(bar *domain.Bar, pos *domain.Position) firstTouch {
	var stopHit, targetHit bool

	switch pos.Direction {
	case domain.DirectionLong:
		stopHit = pos.StopPrice > 0 && bar.Low <= pos.StopPrice
		targetHit = pos.TargetPrice > 0 && bar.High >= pos.TargetPrice
	case domain.DirectionShort:
		stopHit = pos.StopPrice > 0 && bar.High >= pos.StopPrice
		targetHit = pos.TargetPrice > 0 && bar.Low <= pos.TargetPrice
	}

	if stopHit {
		return touchStop
	}
	if targetHit {
		return touchTarget
	}
	return touchNone
}
