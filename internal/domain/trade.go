package domain

// Direction of a position.
type Direction int

// Direction constants.
const (
	DirectionLong Direction = iota + 1
	DirectionShort
)

// String returns the canonical direction name.
func (d Direction) String() string {
	if d == DirectionShort {
		return "short"
	}
	return "long"
}

// Position is one open position in a single slot.
// At most one position is open per slot at any time.
type Position struct {
	Direction   Direction
	EntryPrice  float64
	EntryTimeMs int64
	StopPrice   float64 // 0 when no stop is configured
	TargetPrice float64 // 0 when no target is configured
	LotSize     float64 // in standard lots
}

// Exit reason codes.
const (
	ExitReasonStop      = "stop"
	ExitReasonTarget    = "target"
	ExitReasonSignal    = "signal"
	ExitReasonEndOfData = "end_of_data"
)

// ClosedTrade is the immutable record of a completed round trip.
// Trades are appended in chronological close order; this sequence is the
// sole input to the statistics engine.
type ClosedTrade struct {
	TradeID    string // deterministic hash
	RunID      string // owning backtest run
	Direction  Direction
	EntryPrice float64
	ExitPrice  float64
	EntryTime  int64 // ms
	ExitTime   int64 // ms
	LotSize    float64
	PnLUSD     float64
	ExitReason string

	// Detail is populated only when detailed recording is enabled.
	// It never influences any numeric result.
	Detail *TradeDetail
}

// TradeDetail holds optional auxiliary context captured at open/close.
type TradeDetail struct {
	EntryWindow []Bar // short price-history window ending at entry
	ExitWindow  []Bar // short price-history window ending at exit
	BarsHeld    int
}

// EquityPoint is one sample of the equity curve.
type EquityPoint struct {
	TimestampMs int64
	Equity      float64
}
