package replay

import "errors"

// Validation errors. All are surfaced before any simulation work begins;
// degenerate input is never silently corrected.
var (
	// ErrEmptySeries is returned when the price series has no bars.
	ErrEmptySeries = errors.New("price series is empty")

	// ErrNonMonotonicSeries is returned when timestamps decrease.
	ErrNonMonotonicSeries = errors.New("price series timestamps are not monotonic")

	// ErrNonPositivePrice is returned for zero, negative or non-finite prices.
	ErrNonPositivePrice = errors.New("price series contains non-positive or non-finite price")

	// ErrMalformedBar is returned when a bar's extremes do not bracket open/close.
	ErrMalformedBar = errors.New("bar high/low does not bracket open/close")

	// ErrZeroPriceVariance is returned when every close in a multi-bar series
	// is identical. Simulating such a series produces degenerate all-zero trades.
	ErrZeroPriceVariance = errors.New("price series has zero variance")

	// ErrSignalMismatch is returned when the signal series is not aligned 1:1
	// with the price series.
	ErrSignalMismatch = errors.New("signal series length does not match price series")
)

// ErrInconsistentState indicates a logic defect in the position state machine
// (entering an occupied slot, or closing an empty one). It is fatal, never
// recovered from.
var ErrInconsistentState = errors.New("inconsistent position state")
