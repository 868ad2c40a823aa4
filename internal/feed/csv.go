package feed

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"fx-backtest-lab/internal/domain"
)

// Expected column order for bar CSV files. A header row is detected by a
// non-numeric first field and skipped.
var barColumns = []string{"timestamp_ms", "open", "high", "low", "close", "volume"}

// LoadBars reads an OHLCV series from a CSV file.
func LoadBars(path string) ([]domain.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bar file: %w", err)
	}
	defer f.Close()

	bars, err := ReadBars(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return bars, nil
}

// ReadBars parses bar records from r in barColumns order.
func ReadBars(r io.Reader) ([]domain.Bar, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(barColumns)
	reader.TrimLeadingSpace = true

	var bars []domain.Bar
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		line++

		// Skip the header row if present
		if line == 1 {
			if _, err := strconv.ParseInt(record[0], 10, 64); err != nil {
				continue
			}
		}

		bar, err := parseBarRecord(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

// WriteBars writes an OHLCV series to a CSV file with a header row.
func WriteBars(path string, bars []domain.Bar) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create bar file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(barColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, bar := range bars {
		record := []string{
			strconv.FormatInt(bar.TimestampMs, 10),
			formatFloat(bar.Open),
			formatFloat(bar.High),
			formatFloat(bar.Low),
			formatFloat(bar.Close),
			formatFloat(bar.Volume),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

func parseBarRecord(record []string) (domain.Bar, error) {
	ts, err := strconv.ParseInt(record[0], 10, 64)
	if err != nil {
		return domain.Bar{}, fmt.Errorf("timestamp_ms %q: %w", record[0], err)
	}

	fields := make([]float64, 5)
	for i := 1; i < len(record); i++ {
		v, err := strconv.ParseFloat(record[i], 64)
		if err != nil {
			return domain.Bar{}, fmt.Errorf("%s %q: %w", barColumns[i], record[i], err)
		}
		fields[i-1] = v
	}

	return domain.Bar{
		TimestampMs: ts,
		Open:        fields[0],
		High:        fields[1],
		Low:         fields[2],
		Close:       fields[3],
		Volume:      fields[4],
	}, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
