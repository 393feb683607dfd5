package reporting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/ducminhle1904/futures-connector/pkg/types"
)

const candlesSheet = "Candles"

var candleHeaders = []string{"Open Time", "Timestamp", "Open", "High", "Low", "Close", "Volume"}

// ExcelStyles holds the workbook styles used by the candle export
type ExcelStyles struct {
	HeaderStyle int
	PriceStyle  int
	BaseStyle   int
}

// WriteCandlesXLSX writes candles to an Excel workbook with a single Candles sheet
func WriteCandlesXLSX(symbol, interval string, candles []types.Candle, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	fx := excelize.NewFile()
	defer fx.Close()

	fx.SetSheetName(fx.GetSheetName(0), candlesSheet)

	styles, err := createExcelStyles(fx)
	if err != nil {
		return err
	}

	if err := fx.SetCellValue(candlesSheet, "A1", fmt.Sprintf("%s %s", symbol, interval)); err != nil {
		return err
	}

	for i, h := range candleHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		if err := fx.SetCellValue(candlesSheet, cell, h); err != nil {
			return err
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(candleHeaders))
	if err := fx.SetCellStyle(candlesSheet, "A2", lastCol+"2", styles.HeaderStyle); err != nil {
		return err
	}

	for i, c := range candles {
		row := i + 3
		values := []interface{}{FormatOpenTime(c.Time), c.Time, c.Open, c.High, c.Low, c.Close, c.Volume}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := fx.SetCellValue(candlesSheet, cell, v); err != nil {
				return err
			}
		}
		_ = fx.SetCellStyle(candlesSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), styles.BaseStyle)
		_ = fx.SetCellStyle(candlesSheet, fmt.Sprintf("C%d", row), fmt.Sprintf("%s%d", lastCol, row), styles.PriceStyle)
	}

	_ = fx.SetColWidth(candlesSheet, "A", "A", 20)
	_ = fx.SetColWidth(candlesSheet, "B", lastCol, 16)
	_ = fx.SetPanes(candlesSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      2,
		TopLeftCell: "A3",
		ActivePane:  "bottomLeft",
	})

	return fx.SaveAs(path)
}

func createExcelStyles(fx *excelize.File) (ExcelStyles, error) {
	var styles ExcelStyles
	var err error

	border := []excelize.Border{
		{Type: "left", Color: "E0E0E0", Style: 1},
		{Type: "right", Color: "E0E0E0", Style: 1},
		{Type: "bottom", Color: "E0E0E0", Style: 1},
	}

	// Dark slate header with white text
	styles.HeaderStyle, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:   true,
			Size:   11,
			Color:  "FFFFFF",
			Family: "Calibri",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"2F4F4F"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return styles, err
	}

	priceFormat := "0.00000000"
	styles.PriceStyle, err = fx.NewStyle(&excelize.Style{
		CustomNumFmt: &priceFormat,
		Alignment:    &excelize.Alignment{Horizontal: "right"},
		Border:       border,
	})
	if err != nil {
		return styles, err
	}

	styles.BaseStyle, err = fx.NewStyle(&excelize.Style{Border: border})
	return styles, err
}

func ensureDir(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
