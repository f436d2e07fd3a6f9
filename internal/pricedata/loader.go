// Package pricedata loads OHLCV candle series from CSV and JSON files
// and validates them before they reach the signal and simulation
// layers.
package pricedata

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/quantfold/helix/internal/core"
	"github.com/tidwall/gjson"
)

// DateLayout is the calendar-day format used across loaders.
const DateLayout = "2006-01-02"

// LoadFile loads candles from path, dispatching on the file extension.
func LoadFile(path string) ([]core.Candle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.WrapError(core.ErrNoData, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(f)
	case ".json":
		b, err := io.ReadAll(f)
		if err != nil {
			return nil, core.WrapError(core.ErrMalformedData, err)
		}
		return ParseJSON(b)
	default:
		return nil, core.WrapError(core.ErrMalformedData,
			fmt.Errorf("unsupported file extension: %s", filepath.Ext(path)))
	}
}

// LoadCSV reads candles from r. The first row must be a header of the
// form date,open,high,low,close,volume; rows follow in that column
// order.
func LoadCSV(r io.Reader) ([]core.Candle, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, core.WrapError(core.ErrNoData, fmt.Errorf("reading csv header: %w", err))
	}
	if len(header) < 6 {
		return nil, core.WrapError(core.ErrMalformedData,
			fmt.Errorf("csv header has %d columns, want 6", len(header)))
	}

	var candles []core.Candle
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, core.WrapError(core.ErrMalformedData, fmt.Errorf("line %d: %w", line, err))
		}

		candle, err := parseCSVRecord(record)
		if err != nil {
			return nil, core.WrapError(core.ErrMalformedData, fmt.Errorf("line %d: %w", line, err))
		}
		candles = append(candles, candle)
	}

	return Validate(candles)
}

func parseCSVRecord(record []string) (core.Candle, error) {
	if len(record) < 6 {
		return core.Candle{}, fmt.Errorf("row has %d columns, want 6", len(record))
	}

	dt, err := time.Parse(DateLayout, record[0])
	if err != nil {
		return core.Candle{}, fmt.Errorf("parsing candle date: %w", err)
	}

	fields := make([]float64, 4)
	for i, name := range []string{"open", "high", "low", "close"} {
		v, err := strconv.ParseFloat(record[i+1], 64)
		if err != nil {
			return core.Candle{}, fmt.Errorf("parsing %s: %w", name, err)
		}
		fields[i] = v
	}
	volume, err := strconv.ParseInt(strings.TrimSuffix(record[5], ".0"), 10, 64)
	if err != nil {
		fv, ferr := strconv.ParseFloat(record[5], 64)
		if ferr != nil {
			return core.Candle{}, fmt.Errorf("parsing volume: %w", err)
		}
		volume = int64(fv)
	}

	return core.Candle{
		Date:      record[0],
		Timestamp: dt.Unix(),
		Open:      fields[0],
		High:      fields[1],
		Low:       fields[2],
		Close:     fields[3],
		Volume:    volume,
	}, nil
}

// ParseJSON reads candles from a JSON array of objects carrying date,
// open, high, low, close and volume keys.
func ParseJSON(data []byte) ([]core.Candle, error) {
	parsed := gjson.ParseBytes(data)
	if !parsed.IsArray() {
		return nil, core.WrapError(core.ErrMalformedData,
			fmt.Errorf("expected a json array of candles"))
	}

	rows := parsed.Array()
	candles := make([]core.Candle, 0, len(rows))
	for idx := range rows {
		date := rows[idx].Get("date").String()
		dt, err := time.Parse(DateLayout, date)
		if err != nil {
			return nil, core.WrapError(core.ErrMalformedData,
				fmt.Errorf("candle %d: parsing date: %w", idx, err))
		}

		candles = append(candles, core.Candle{
			Date:      date,
			Timestamp: dt.Unix(),
			Open:      rows[idx].Get("open").Float(),
			High:      rows[idx].Get("high").Float(),
			Low:       rows[idx].Get("low").Float(),
			Close:     rows[idx].Get("close").Float(),
			Volume:    rows[idx].Get("volume").Int(),
		})
	}

	return Validate(candles)
}

// Validate checks candle series integrity: non-empty, strictly
// ascending unique dates, and coherent OHLC ranges on every bar.
func Validate(candles []core.Candle) ([]core.Candle, error) {
	if len(candles) == 0 {
		return nil, core.ErrNoData
	}

	for i, c := range candles {
		if !c.IsValid() {
			return nil, core.WrapError(core.ErrMalformedData,
				fmt.Errorf("candle %d (%s): incoherent ohlc range", i, c.Date))
		}
		if i == 0 {
			continue
		}
		prev := candles[i-1]
		if c.Date == prev.Date {
			return nil, core.WrapError(core.ErrMalformedData,
				fmt.Errorf("duplicate candle date %s", c.Date))
		}
		if c.Timestamp < prev.Timestamp {
			return nil, core.WrapError(core.ErrMalformedData,
				fmt.Errorf("candles out of order at %s", c.Date))
		}
	}
	return candles, nil
}
