// Package replay implements the event-driven simulation core: a strictly
// forward, single-pass loop over a validated bar series that drives the
// per-slot position state machine and accumulates closed trades and the
// equity curve.
package replay

import (
	"context"

	"fx-backtest-lab/internal/domain"
	"fx-backtest-lab/internal/runhash"
)

// Progress is a coarse snapshot reported at the configured cadence.
type Progress struct {
	Processed int
	Total     int
	OpenSlots int
	Equity    float64
}

// ProgressFunc observes replay progress. It is observability, not control
// flow; the loop never blocks on it.
type ProgressFunc func(p Progress)

// RunnerOptions contains configuration for creating a Runner.
type RunnerOptions struct {
	Config     domain.RunConfig
	StrategyID string

	// Recorder overrides the default detail capture. When nil, the runner
	// uses a ContextRecorder if Config.SaveDetailedTrades is set and a
	// NopRecorder otherwise.
	Recorder TradeRecorder

	// Progress is invoked every Config.ProgressInterval bars. Optional.
	Progress ProgressFunc
}

// Runner executes one backtest run. A Runner owns no shared state; distinct
// runs must use distinct Runner values and never alias trade or equity slices.
type Runner struct {
	cfg        domain.RunConfig
	strategyID string
	recorder   TradeRecorder
	progress   ProgressFunc
}

// Result holds the output contract of one run.
type Result struct {
	RunID       string
	StrategyID  string
	Trades      []*domain.ClosedTrade
	Equity      []domain.EquityPoint
	FinalEquity float64
}

// NewRunner validates the configuration and creates a runner.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}

	recorder := opts.Recorder
	if recorder == nil {
		if opts.Config.SaveDetailedTrades {
			recorder = NewContextRecorder(DefaultDetailWindow)
		} else {
			recorder = NopRecorder{}
		}
	}

	return &Runner{
		cfg:        opts.Config,
		strategyID: opts.StrategyID,
		recorder:   recorder,
		progress:   opts.Progress,
	}, nil
}

// Run replays the series against the signals. Per bar, each slot is stepped
// in a fixed order: protective levels against the bar's extremes first, then
// a signal-based exit at the close, then an entry if the slot is empty.
// Entries fill at the signal bar's close; a just-emptied slot may re-enter on
// the same bar (stop-and-reverse on an opposing signal).
//
// O(n) in series length, O(1) extra memory per bar beyond the trade and
// equity appends. Cancellation is best-effort, checked at progress cadence.
func (r *Runner) Run(ctx context.Context, bars []domain.Bar, signals []domain.Signal) (*Result, error) {
	if err := ValidateSeries(bars, signals); err != nil {
		return nil, err
	}

	last := len(bars) - 1
	runID := runhash.ComputeRunID(r.cfg.Symbol, r.strategyID,
		bars[0].TimestampMs, bars[last].TimestampMs, len(bars))

	tiers := r.cfg.Tiers()
	slots := make([]slot, len(tiers))
	for i, lot := range tiers {
		slots[i] = slot{index: i, lotSize: lot}
	}

	result := &Result{
		RunID:      runID,
		StrategyID: r.strategyID,
		Equity: []domain.EquityPoint{
			{TimestampMs: bars[0].TimestampMs, Equity: r.cfg.InitialCapital},
		},
	}
	equity := r.cfg.InitialCapital

	closeSlot := func(s *slot, barIndex int, fillPrice float64, reason string) error {
		trade, err := s.close(&r.cfg, fillPrice, bars[barIndex].TimestampMs, reason)
		if err != nil {
			return err
		}
		trade.RunID = runID
		trade.TradeID = runhash.ComputeTradeID(runID, s.index, trade.EntryTime, trade.ExitTime)

		r.recorder.OnClose(s.index, barIndex, bars, trade)

		equity += trade.PnLUSD
		result.Trades = append(result.Trades, trade)
		result.Equity = append(result.Equity, domain.EquityPoint{
			TimestampMs: trade.ExitTime,
			Equity:      equity,
		})
		return nil
	}

	openSlot := func(s *slot, barIndex int, direction domain.Direction) error {
		if err := s.open(&r.cfg, direction, bars[barIndex].Close, bars[barIndex].TimestampMs); err != nil {
			return err
		}
		s.entryBar = barIndex
		r.recorder.OnOpen(s.index, barIndex, bars, s.pos)
		return nil
	}

	for i := range bars {
		bar := &bars[i]
		sig := signals[i]

		for si := range slots {
			s := &slots[si]

			// 1. Protective levels against the bar's extremes. The entry
			// bar is skipped: the fill at its close postdates its extremes.
			// Compared by index, not timestamp; timestamps may repeat.
			if s.isOpen() && i > s.entryBar {
				switch resolveFirstTouch(bar, s.pos) {
				case touchStop:
					if err := closeSlot(s, i, s.stopFillPrice(&r.cfg), domain.ExitReasonStop); err != nil {
						return nil, err
					}
				case touchTarget:
					if err := closeSlot(s, i, s.targetFillPrice(), domain.ExitReasonTarget); err != nil {
						return nil, err
					}
				}
			}

			// 2. Signal-based exit at the close.
			if s.isOpen() && (sig == domain.SignalExit || opposes(sig, s.pos.Direction)) {
				if err := closeSlot(s, i, bar.Close, domain.ExitReasonSignal); err != nil {
					return nil, err
				}
			}

			// 3. Entry into an empty slot.
			if !s.isOpen() {
				switch sig {
				case domain.SignalLong:
					if err := openSlot(s, i, domain.DirectionLong); err != nil {
						return nil, err
					}
				case domain.SignalShort:
					if err := openSlot(s, i, domain.DirectionShort); err != nil {
						return nil, err
					}
				}
			}
		}

		if r.cfg.ProgressInterval > 0 && (i+1)%r.cfg.ProgressInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if r.progress != nil {
				r.progress(Progress{
					Processed: i + 1,
					Total:     len(bars),
					OpenSlots: countOpen(slots),
					Equity:    equity,
				})
			}
		}
	}

	// End of data: liquidate anything still open at the last close.
	for si := range slots {
		s := &slots[si]
		if s.isOpen() {
			if err := closeSlot(s, last, bars[last].Close, domain.ExitReasonEndOfData); err != nil {
				return nil, err
			}
		}
	}

	result.FinalEquity = equity
	return result, nil
}

// opposes reports whether an entry signal runs against an open direction.
func opposes(sig domain.Signal, d domain.Direction) bool {
	return (sig == domain.SignalLong && d == domain.DirectionShort) ||
		(sig == domain.SignalShort && d == domain.DirectionLong)
}

func countOpen(slots []slot) int {
	n := 0
	for i := range slots {
		if slots[i].isOpen() {
			n++
		}
	}
	return n
}
