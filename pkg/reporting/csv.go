package reporting

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"

	"github.com/ducminhle1904/futures-connector/pkg/types"
)

// WriteCandles exports candles to path. An .xlsx extension produces a
// workbook, anything else a CSV file.
func WriteCandles(symbol, interval string, candles []types.Candle, path string) error {
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return WriteCandlesXLSX(symbol, interval, candles, path)
	}
	return WriteCandlesCSV(candles, path)
}

// WriteCandlesCSV writes one row per candle below a header row
func WriteCandlesCSV(candles []types.Candle, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(candleHeaders); err != nil {
		return err
	}

	for _, c := range candles {
		if err := w.Write([]string{
			FormatOpenTime(c.Time),
			strconv.FormatInt(c.Time, 10),
			formatFloat(c.Open),
			formatFloat(c.High),
			formatFloat(c.Low),
			formatFloat(c.Close),
			formatFloat(c.Volume),
		}); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
