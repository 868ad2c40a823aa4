package domain

// Bar represents a single OHLCV price observation.
// Bars are produced by the feed layer and are read-only to the engine.
type Bar struct {
	TimestampMs int64   // Unix timestamp in milliseconds
	Open        float64 // first traded price of the interval
	High        float64 // highest traded price of the interval
	Low         float64 // lowest traded price of the interval
	Close       float64 // last traded price of the interval
	Volume      float64 // traded volume, 0 when the source provides none
}

// Tick represents a single raw price observation before bar aggregation.
type Tick struct {
	TimestampMs int64
	Price       float64
	Volume      float64
}
