package reporting

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ducminhle1904/futures-connector/pkg/types"
)

// ContractColumns is the number of symbols per row in the contract grid.
const ContractColumns = 4

// ConsoleReporter renders connector data as tables
type ConsoleReporter struct {
	out io.Writer
}

// NewConsoleReporter creates a reporter writing to out, or stdout when out is nil
func NewConsoleReporter(out io.Writer) *ConsoleReporter {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleReporter{out: out}
}

func (r *ConsoleReporter) newTable(title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle(title)
	t.SetStyle(table.StyleRounded)
	return t
}

// RenderContracts prints the contract symbols sorted, four to a row.
func (r *ConsoleReporter) RenderContracts(symbols []string) {
	sorted := append([]string(nil), symbols...)
	sort.Strings(sorted)

	t := r.newTable(fmt.Sprintf("FUTURES CONTRACTS (%d)", len(sorted)))
	for start := 0; start < len(sorted); start += ContractColumns {
		row := make(table.Row, ContractColumns)
		for i := range row {
			row[i] = ""
			if start+i < len(sorted) {
				row[i] = sorted[start+i]
			}
		}
		t.AppendRow(row)
	}

	t.Render()
	fmt.Fprintln(r.out)
}

// RenderBalances prints one row per asset, ordered by asset name.
func (r *ConsoleReporter) RenderBalances(balances map[string]types.Balance) {
	assets := make([]string, 0, len(balances))
	for asset := range balances {
		assets = append(assets, asset)
	}
	sort.Strings(assets)

	t := r.newTable("ACCOUNT BALANCES")
	t.AppendHeader(table.Row{"Asset", "Available", "Wallet"})
	for _, asset := range assets {
		b := balances[asset]
		t.AppendRow(table.Row{asset, fmt.Sprintf("%.8f", b.Available), fmt.Sprintf("%.8f", b.Locked)})
	}
	if len(assets) == 0 {
		t.AppendRow(table.Row{"-", "-", "-"})
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 8, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	t.Render()
	fmt.Fprintln(r.out)
}

// RenderCandles prints candles in the order received
func (r *ConsoleReporter) RenderCandles(symbol, interval string, candles []types.Candle) {
	t := r.newTable(fmt.Sprintf("%s %s CANDLES (%d)", symbol, interval, len(candles)))
	t.AppendHeader(table.Row{"Open Time", "Open", "High", "Low", "Close", "Volume"})
	for _, c := range candles {
		t.AppendRow(table.Row{
			FormatOpenTime(c.Time),
			formatPrice(c.Open),
			formatPrice(c.High),
			formatPrice(c.Low),
			formatPrice(c.Close),
			formatPrice(c.Volume),
		})
	}
	t.Render()
	fmt.Fprintln(r.out)
}

// RenderQuote prints the best bid, best ask and spread for a symbol.
func (r *ConsoleReporter) RenderQuote(symbol string, quote types.PriceQuote) {
	t := r.newTable(symbol + " BOOK TICKER")
	t.AppendRows([]table.Row{
		{"Bid", formatPrice(quote.Bid)},
		{"Ask", formatPrice(quote.Ask)},
		{"Spread", formatPrice(quote.Spread())},
	})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 8, Align: text.AlignLeft},
		{Number: 2, WidthMin: 14, Align: text.AlignRight},
	})
	t.Render()
	fmt.Fprintln(r.out)
}

// FormatOpenTime renders an epoch-millisecond open time in UTC.
func FormatOpenTime(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("2006-01-02 15:04:05")
}

func formatPrice(v float64) string {
	return fmt.Sprintf("%.8g", v)
}
