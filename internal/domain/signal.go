package domain

// Signal is a discrete trading instruction aligned 1:1 with the bar series.
type Signal int

// Signal constants.
const (
	SignalHold Signal = iota
	SignalLong
	SignalShort
	SignalExit
)

// String returns the canonical signal name.
func (s Signal) String() string {
	switch s {
	case SignalLong:
		return "ENTER_LONG"
	case SignalShort:
		return "ENTER_SHORT"
	case SignalExit:
		return "EXIT"
	default:
		return "HOLD"
	}
}
