package replay

import "fx-backtest-lab/internal/domain"

// TradeRecorder captures auxiliary per-trade context. It is invoked only at
// position open and close, never per bar, and must not influence any numeric
// result. The disabled form is a no-op collaborator rather than a conditional
// in the replay loop.
type TradeRecorder interface {
	// OnOpen is called after a position is entered at bars[barIndex].
	OnOpen(slotIndex, barIndex int, bars []domain.Bar, pos *domain.Position)

	// OnClose is called after a trade is closed at bars[barIndex] and may
	// attach detail to the trade.
	OnClose(slotIndex, barIndex int, bars []domain.Bar, trade *domain.ClosedTrade)
}

// NopRecorder discards all context. It allocates nothing.
type NopRecorder struct{}

func (NopRecorder) OnOpen(int, int, []domain.Bar, *domain.Position)     {}
func (NopRecorder) OnClose(int, int, []domain.Bar, *domain.ClosedTrade) {}

var _ TradeRecorder = NopRecorder{}

// DefaultDetailWindow is the bar count snapshotted around entries and exits.
const DefaultDetailWindow = 20

// ContextRecorder snapshots a short price-history window at each trade's open
// and close. Snapshots are copies; the recorder never aliases the bar series.
type ContextRecorder struct {
	window    int
	openIndex map[int]int // slot index -> bar index of the open
}

// NewContextRecorder creates a recorder with the given window size.
// A non-positive window falls back to DefaultDetailWindow.
func NewContextRecorder(window int) *ContextRecorder {
	if window <= 0 {
		window = DefaultDetailWindow
	}
	return &ContextRecorder{
		window:    window,
		openIndex: make(map[int]int),
	}
}

func (r *ContextRecorder) OnOpen(slotIndex, barIndex int, _ []domain.Bar, _ *domain.Position) {
	r.openIndex[slotIndex] = barIndex
}

func (r *ContextRecorder) OnClose(slotIndex, barIndex int, bars []domain.Bar, trade *domain.ClosedTrade) {
	openIdx, ok := r.openIndex[slotIndex]
	if !ok {
		openIdx = barIndex
	}
	delete(r.openIndex, slotIndex)

	trade.Detail = &domain.TradeDetail{
		EntryWindow: snapshotWindow(bars, openIdx, r.window),
		ExitWindow:  snapshotWindow(bars, barIndex, r.window),
		BarsHeld:    barIndex - openIdx,
	}
}

var _ TradeRecorder = (*ContextRecorder)(nil)

// snapshotWindow copies up to n bars ending at (and including) index end.
func snapshotWindow(bars []domain.Bar, end, n int) []domain.Bar {
	if end >= len(bars) {
		end = len(bars) - 1
	}
	start := end - n + 1
	if start < 0 {
		start = 0
	}
	out := make([]domain.Bar, end-start+1)
	copy(out, bars[start:end+1])
	return out
}
