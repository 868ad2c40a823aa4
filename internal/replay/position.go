package replay

import (
	"fmt"

	"fx-backtest-lab/internal/domain"
)

// slot is one independently-sized position slot. Single-lot mode uses exactly
// one slot; multi-lot mode uses one slot per configured tier, all driven by
// the same signal stream.
//
// The slot is a two-state machine: empty <-> open. Any transition attempted
// from the wrong state is a logic defect and fails with ErrInconsistentState.
type slot struct {
	index   int
	lotSize float64
	pos     *domain.Position // nil when empty

	// entryBar is the series index of the bar the open position entered on.
	// Timestamps may repeat across bars, so the entry bar is identified by
	// index. Meaningless while the slot is empty.
	entryBar int
}

func (s *slot) isOpen() bool {
	return s.pos != nil
}

// open enters a position at the given price, deriving stop and target levels
// from the configured pip distances. A zero pip distance disables the level.
func (s *slot) open(cfg *domain.RunConfig, direction domain.Direction, price float64, timestampMs int64) error {
	if s.pos != nil {
		return fmt.Errorf("%w: entry into occupied slot %d", ErrInconsistentState, s.index)
	}

	pos := &domain.Position{
		Direction:   direction,
		EntryPrice:  price,
		EntryTimeMs: timestampMs,
		LotSize:     s.lotSize,
	}

	stopDist := Pips(cfg, cfg.StopLossPips)
	targetDist := Pips(cfg, cfg.TakeProfitPips)

	switch direction {
	case domain.DirectionLong:
		if cfg.StopLossPips > 0 {
			pos.StopPrice = price - stopDist
		}
		if cfg.TakeProfitPips > 0 {
			pos.TargetPrice = price + targetDist
		}
	case domain.DirectionShort:
		if cfg.StopLossPips > 0 {
			pos.StopPrice = price + stopDist
		}
		if cfg.TakeProfitPips > 0 {
			pos.TargetPrice = price - targetDist
		}
	default:
		return fmt.Errorf("%w: entry with direction %d", ErrInconsistentState, direction)
	}

	s.pos = pos
	return nil
}

// close converts the open position into a ClosedTrade and empties the slot.
func (s *slot) close(cfg *domain.RunConfig, exitPrice float64, exitTimeMs int64, reason string) (*domain.ClosedTrade, error) {
	if s.pos == nil {
		return nil, fmt.Errorf("%w: close of empty slot %d", ErrInconsistentState, s.index)
	}

	pos := s.pos
	s.pos = nil

	return &domain.ClosedTrade{
		Direction:  pos.Direction,
		EntryPrice: pos.EntryPrice,
		ExitPrice:  exitPrice,
		EntryTime:  pos.EntryTimeMs,
		ExitTime:   exitTimeMs,
		LotSize:    pos.LotSize,
		PnLUSD:     PnLUSD(cfg, pos.Direction, pos.EntryPrice, exitPrice, pos.LotSize),
		ExitReason: reason,
	}, nil
}

// stopFillPrice returns the modeled fill for a stop touch: the stop level
// itself, shifted against the trader when slippage is configured.
func (s *slot) stopFillPrice(cfg *domain.RunConfig) float64 {
	slip := Pips(cfg, cfg.SlippagePips)
	if s.pos.Direction == domain.DirectionLong {
		return s.pos.StopPrice - slip
	}
	return s.pos.StopPrice + slip
}

// targetFillPrice returns the modeled fill for a target touch. Targets fill
// at the exact level; slippage only widens stop fills.
func (s *slot) targetFillPrice() float64 {
	return s.pos.TargetPrice
}
