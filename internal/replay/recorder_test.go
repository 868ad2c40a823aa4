package replay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fx-backtest-lab/internal/domain"
)

func TestNopRecorder_AllocatesNothing(t *testing.T) {
	bars := []domain.Bar{bar(1000, 1.1000, 1.1005, 1.0995, 1.1000)}
	pos := &domain.Position{}
	trade := &domain.ClosedTrade{}

	var rec NopRecorder
	allocs := testing.AllocsPerRun(1000, func() {
		rec.OnOpen(0, 0, bars, pos)
		rec.OnClose(0, 0, bars, trade)
	})
	assert.Zero(t, allocs)
	assert.Nil(t, trade.Detail)
}

func TestContextRecorder_WindowClamping(t *testing.T) {
	bars := []domain.Bar{
		bar(1000, 1.1000, 1.1005, 1.0995, 1.1000),
		bar(2000, 1.1000, 1.1010, 1.0998, 1.1005),
		bar(3000, 1.1005, 1.1015, 1.1000, 1.1010),
	}

	rec := NewContextRecorder(2)
	rec.OnOpen(0, 0, bars, &domain.Position{})

	trade := &domain.ClosedTrade{}
	rec.OnClose(0, 2, bars, trade)

	require.NotNil(t, trade.Detail)
	assert.Len(t, trade.Detail.EntryWindow, 1)
	assert.Len(t, trade.Detail.ExitWindow, 2)
	assert.Equal(t, 2, trade.Detail.BarsHeld)
	assert.Equal(t, bars[1], trade.Detail.ExitWindow[0])
	assert.Equal(t, bars[2], trade.Detail.ExitWindow[1])
}
