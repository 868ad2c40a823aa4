package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestFromConfig_SMACross(t *testing.T) {
	p, err := FromConfig(Config{
		Type:       TypeSMACross,
		FastPeriod: intPtr(10),
		SlowPeriod: intPtr(30),
	})
	require.NoError(t, err)
	assert.Equal(t, "SMA_CROSS_10_30", p.ID())
}

func TestFromConfig_RSIReversion(t *testing.T) {
	p, err := FromConfig(Config{
		Type:      TypeRSIReversion,
		RSIPeriod: intPtr(14),
		RSILow:    floatPtr(30),
		RSIHigh:   floatPtr(70),
	})
	require.NoError(t, err)
	assert.Equal(t, "RSI_REVERSION_14_30_70", p.ID())
}

func TestFromConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"unknown type", Config{Type: "MOMENTUM"}, ErrUnknownProviderType},
		{"sma missing fast", Config{Type: TypeSMACross, SlowPeriod: intPtr(30)}, ErrMissingFastPeriod},
		{"sma missing slow", Config{Type: TypeSMACross, FastPeriod: intPtr(10)}, ErrMissingSlowPeriod},
		{"rsi missing period", Config{Type: TypeRSIReversion, RSILow: floatPtr(30), RSIHigh: floatPtr(70)}, ErrMissingRSIPeriod},
		{"rsi missing bounds", Config{Type: TypeRSIReversion, RSIPeriod: intPtr(14)}, ErrMissingRSIBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromConfig(tt.cfg)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
