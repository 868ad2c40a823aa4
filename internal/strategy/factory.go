package strategy

import "errors"

// Factory errors
var (
	ErrUnknownProviderType = errors.New("unknown signal provider type")
	ErrMissingFastPeriod   = errors.New("SMA_CROSS requires FastPeriod")
	ErrMissingSlowPeriod   = errors.New("SMA_CROSS requires SlowPeriod")
	ErrMissingRSIPeriod    = errors.New("RSI_REVERSION requires Period")
	ErrMissingRSIBounds    = errors.New("RSI_REVERSION requires Low and High")
)

// Provider type constants
const (
	TypeSMACross     = "SMA_CROSS"
	TypeRSIReversion = "RSI_REVERSION"
)

// Config selects and parameterizes a signal provider family.
type Config struct {
	Type string // "SMA_CROSS" | "RSI_REVERSION"

	// SMA_CROSS parameters
	FastPeriod *int
	SlowPeriod *int

	// RSI_REVERSION parameters
	RSIPeriod *int
	RSILow    *float64
	RSIHigh   *float64
}

// FromConfig creates a SignalProvider from Config.
// Validates required parameters per provider type.
func FromConfig(cfg Config) (SignalProvider, error) {
	switch cfg.Type {
	case TypeSMACross:
		return fromSMACrossConfig(cfg)
	case TypeRSIReversion:
		return fromRSIReversionConfig(cfg)
	default:
		return nil, ErrUnknownProviderType
	}
}

func fromSMACrossConfig(cfg Config) (*SMACrossProvider, error) {
	if cfg.FastPeriod == nil {
		return nil, ErrMissingFastPeriod
	}
	if cfg.SlowPeriod == nil {
		return nil, ErrMissingSlowPeriod
	}
	return NewSMACrossProvider(*cfg.FastPeriod, *cfg.SlowPeriod), nil
}

func fromRSIReversionConfig(cfg Config) (*RSIReversionProvider, error) {
	if cfg.RSIPeriod == nil {
		return nil, ErrMissingRSIPeriod
	}
	if cfg.RSILow == nil || cfg.RSIHigh == nil {
		return nil, ErrMissingRSIBounds
	}
	return NewRSIReversionProvider(*cfg.RSIPeriod, *cfg.RSILow, *cfg.RSIHigh), nil
}
