package feed

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fx-backtest-lab/internal/domain"
)

func TestReadBars_WithHeader(t *testing.T) {
	input := strings.Join([]string{
		"timestamp_ms,open,high,low,close,volume",
		"1000,1.1000,1.1010,1.0990,1.1005,100",
		"2000,1.1005,1.1020,1.1000,1.1015,120",
	}, "\n")

	bars, err := ReadBars(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, bars, 2)

	assert.Equal(t, int64(1000), bars[0].TimestampMs)
	assert.Equal(t, 1.1005, bars[0].Close)
	assert.Equal(t, 120.0, bars[1].Volume)
}

func TestReadBars_WithoutHeader(t *testing.T) {
	input := "1000,1.1000,1.1010,1.0990,1.1005,100\n"

	bars, err := ReadBars(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, 1.1010, bars[0].High)
}

func TestReadBars_BadField(t *testing.T) {
	input := strings.Join([]string{
		"1000,1.1000,1.1010,1.0990,1.1005,100",
		"2000,not-a-price,1.1020,1.1000,1.1015,120",
	}, "\n")

	_, err := ReadBars(strings.NewReader(input))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestReadBars_WrongColumnCount(t *testing.T) {
	_, err := ReadBars(strings.NewReader("1000,1.1,1.2\n"))
	assert.Error(t, err)
}

func TestWriteAndLoadBars_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bars.csv")

	want := []domain.Bar{
		{TimestampMs: 1000, Open: 1.1000, High: 1.1010, Low: 1.0990, Close: 1.1005, Volume: 100},
		{TimestampMs: 2000, Open: 1.1005, High: 1.1020, Low: 1.1000, Close: 1.1015, Volume: 120},
	}

	require.NoError(t, WriteBars(path, want))

	got, err := LoadBars(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadBars_MissingFile(t *testing.T) {
	_, err := LoadBars(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
