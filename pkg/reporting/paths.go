package reporting

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultOutputDir returns results/<SYMBOL>_<interval>
func DefaultOutputDir(symbol, interval string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	i := strings.ToLower(strings.TrimSpace(interval))
	if s == "" {
		s = "UNKNOWN"
	}
	if i == "" {
		i = "unknown"
	}

	return filepath.Join("results", fmt.Sprintf("%s_%s", s, i))
}

// CandleExportPath returns the default export file for a symbol and interval.
// ext is "csv" or "xlsx".
func CandleExportPath(symbol, interval, ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		ext = "csv"
	}
	return filepath.Join(DefaultOutputDir(symbol, interval), "candles."+ext)
}
