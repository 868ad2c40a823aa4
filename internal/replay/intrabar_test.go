package replay

import (
	"testing"

	"fx-backtest-lab/internal/domain"
)

func TestResolveFirstTouch(t *testing.T) {
	longPos := &domain.Position{
		Direction:   domain.DirectionLong,
		EntryPrice:  1.1000,
		StopPrice:   1.0980,
		TargetPrice: 1.1040,
	}
	shortPos := &domain.Position{
		Direction:   domain.DirectionShort,
		EntryPrice:  1.1000,
		StopPrice:   1.1020,
		TargetPrice: 1.0960,
	}

	tests := []struct {
		name string
		bar  domain.Bar
		pos  *domain.Position
		want firstTouch
	}{
		{"long no touch", domain.Bar{High: 1.1010, Low: 1.0990}, longPos, touchNone},
		{"long stop touched", domain.Bar{High: 1.1010, Low: 1.0975}, longPos, touchStop},
		{"long stop exact", domain.Bar{High: 1.1010, Low: 1.0980}, longPos, touchStop},
		{"long target touched", domain.Bar{High: 1.1045, Low: 1.0990}, longPos, touchTarget},
		{"long target exact", domain.Bar{High: 1.1040, Low: 1.0990}, longPos, touchTarget},
		{"long both touched stop wins", domain.Bar{High: 1.1045, Low: 1.0975}, longPos, touchStop},
		{"short no touch", domain.Bar{High: 1.1010, Low: 1.0990}, shortPos, touchNone},
		{"short stop touched", domain.Bar{High: 1.1025, Low: 1.0990}, shortPos, touchStop},
		{"short target touched", domain.Bar{High: 1.1010, Low: 1.0955}, shortPos, touchTarget},
		{"short both touched stop wins", domain.Bar{High: 1.1025, Low: 1.0955}, shortPos, touchStop},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveFirstTouch(&tt.bar, tt.pos)
			if got != tt.want {
				t.Errorf("resolveFirstTouch = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveFirstTouch_DisabledLevels(t *testing.T) {
	pos := &domain.Position{
		Direction:  domain.DirectionLong,
		EntryPrice: 1.1000,
		// Zero stop and target are disabled.
	}
	bar := domain.Bar{High: 2.0, Low: 0.5}

	if got := resolveFirstTouch(&bar, pos); got != touchNone {
		t.Errorf("expected touchNone with disabled levels, got %v", got)
	}
}
