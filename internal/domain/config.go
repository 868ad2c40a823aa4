package domain

import (
	"errors"
	"fmt"
)

// Configuration errors. Surfaced at run start, before any simulation work.
var (
	ErrNonPositiveCapital  = errors.New("initial_capital must be positive")
	ErrNonPositiveLotSize  = errors.New("lot_size must be positive")
	ErrNonPositivePipSize  = errors.New("pip_size must be positive")
	ErrNonPositivePipValue = errors.New("pip_value_per_lot must be positive")
	ErrNegativeStopPips    = errors.New("stop_loss_pips must not be negative")
	ErrNegativeTargetPips  = errors.New("take_profit_pips must not be negative")
	ErrNegativeSlippage    = errors.New("slippage_pips must not be negative")
)

// StandardLotSize is the reference position size pip values are quoted against
// (1.0 standard lot = 100,000 base-currency units).
const StandardLotSize = 1.0

// RunConfig holds all parameters for one backtest run. It is passed explicitly
// into the runner at construction time; nothing is read from ambient state.
type RunConfig struct {
	Symbol         string  // instrument identifier, e.g. "EURUSD"
	InitialCapital float64 // starting equity in USD

	// Position sizing. LotTiers, when non-empty, switches the runner into
	// multi-lot mode with one independent slot per tier; otherwise a single
	// slot of LotSize is used.
	LotSize  float64
	LotTiers []float64

	// Instrument conventions.
	PipSize        float64 // price units per pip, e.g. 0.0001
	PipValuePerLot float64 // USD per pip for one standard lot

	// Exit distances in pips. Zero disables the level.
	StopLossPips   float64
	TakeProfitPips float64

	// SlippagePips widens stop fills against the trader.
	// Zero means exact-level fills. Targets always fill at the exact level.
	SlippagePips float64

	// SaveDetailedTrades enables per-trade context capture.
	SaveDetailedTrades bool

	// ProgressInterval is the bar count between progress callbacks.
	// Zero disables progress reporting.
	ProgressInterval int

	// Statistics parameters.
	RiskFreeRate        float64 // per-period, default 0
	AnnualizationFactor float64 // periods per year, default 252
}

// DefaultRunConfig returns a config with the conventional FX defaults.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Symbol:              "EURUSD",
		InitialCapital:      10000,
		LotSize:             0.1,
		PipSize:             0.0001,
		PipValuePerLot:      10,
		StopLossPips:        20,
		TakeProfitPips:      40,
		ProgressInterval:    100000,
		AnnualizationFactor: 252,
	}
}

// Validate checks the configuration. It returns the first configuration
// error found, identifying the offending field.
func (c *RunConfig) Validate() error {
	if c.InitialCapital <= 0 {
		return fmt.Errorf("%w (got %v)", ErrNonPositiveCapital, c.InitialCapital)
	}
	if len(c.LotTiers) == 0 && c.LotSize <= 0 {
		return fmt.Errorf("%w (got %v)", ErrNonPositiveLotSize, c.LotSize)
	}
	for _, tier := range c.LotTiers {
		if tier <= 0 {
			return fmt.Errorf("%w (tier %v)", ErrNonPositiveLotSize, tier)
		}
	}
	if c.PipSize <= 0 {
		return fmt.Errorf("%w (got %v)", ErrNonPositivePipSize, c.PipSize)
	}
	if c.PipValuePerLot <= 0 {
		return fmt.Errorf("%w (got %v)", ErrNonPositivePipValue, c.PipValuePerLot)
	}
	if c.StopLossPips < 0 {
		return fmt.Errorf("%w (got %v)", ErrNegativeStopPips, c.StopLossPips)
	}
	if c.TakeProfitPips < 0 {
		return fmt.Errorf("%w (got %v)", ErrNegativeTargetPips, c.TakeProfitPips)
	}
	if c.SlippagePips < 0 {
		return fmt.Errorf("%w (got %v)", ErrNegativeSlippage, c.SlippagePips)
	}
	return nil
}

// Tiers returns the effective slot sizes: LotTiers in multi-lot mode,
// otherwise a single slot of LotSize.
func (c *RunConfig) Tiers() []float64 {
	if len(c.LotTiers) > 0 {
		return c.LotTiers
	}
	return []float64{c.LotSize}
}
