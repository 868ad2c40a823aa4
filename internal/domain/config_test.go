package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRunConfig_IsValid(t *testing.T) {
	cfg := DefaultRunConfig()
	require.NoError(t, cfg.Validate())
}

func TestRunConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RunConfig)
		wantErr error
	}{
		{"zero capital", func(c *RunConfig) { c.InitialCapital = 0 }, ErrNonPositiveCapital},
		{"negative capital", func(c *RunConfig) { c.InitialCapital = -100 }, ErrNonPositiveCapital},
		{"zero lot size", func(c *RunConfig) { c.LotSize = 0 }, ErrNonPositiveLotSize},
		{"negative lot tier", func(c *RunConfig) { c.LotTiers = []float64{0.1, -0.2} }, ErrNonPositiveLotSize},
		{"zero pip size", func(c *RunConfig) { c.PipSize = 0 }, ErrNonPositivePipSize},
		{"zero pip value", func(c *RunConfig) { c.PipValuePerLot = 0 }, ErrNonPositivePipValue},
		{"negative stop", func(c *RunConfig) { c.StopLossPips = -1 }, ErrNegativeStopPips},
		{"negative target", func(c *RunConfig) { c.TakeProfitPips = -1 }, ErrNegativeTargetPips},
		{"negative slippage", func(c *RunConfig) { c.SlippagePips = -1 }, ErrNegativeSlippage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultRunConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.wantErr)
		})
	}
}

func TestRunConfig_TiersIgnoreLotSize(t *testing.T) {
	cfg := DefaultRunConfig()
	cfg.LotTiers = []float64{0.1, 0.2, 0.5}
	cfg.LotSize = 0 // unused in multi-lot mode

	require.NoError(t, cfg.Validate())
	assert.Equal(t, []float64{0.1, 0.2, 0.5}, cfg.Tiers())
}

func TestRunConfig_TiersSingleSlot(t *testing.T) {
	cfg := DefaultRunConfig()
	assert.Equal(t, []float64{cfg.LotSize}, cfg.Tiers())
}
