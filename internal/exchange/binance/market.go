package binance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	"github.com/ducminhle1904/futures-connector/internal/monitoring"
	"github.com/ducminhle1904/futures-connector/pkg/types"
)

const (
	pathExchangeInfo = "/fapi/v1/exchangeInfo"
	pathKlines       = "/fapi/v1/klines"
	pathBookTicker   = "/fapi/v1/ticker/bookTicker"

	// CandleLimit is the fixed page size requested from the klines endpoint.
	CandleLimit = 1000
)

// Kline array layout:
//
//	[0] open time (ms), [1] open, [2] high, [3] low, [4] close, [5] volume,
//	[6] close time, [7] quote volume, [8] trades, ...
const (
	klineTimeIndex = iota
	klineOpenIndex
	klineHighIndex
	klineLowIndex
	klineCloseIndex
	klineVolumeIndex

	klineMinFields
)

// ListContracts returns every listed contract keyed by trading pair. On
// failure the map is empty and the error says why.
func (c *Client) ListContracts(ctx context.Context) (map[string]Contract, error) {
	contracts := make(map[string]Contract)

	body, err := c.Execute(ctx, http.MethodGet, pathExchangeInfo, nil)
	if err != nil {
		return contracts, err
	}

	var info struct {
		Symbols []json.RawMessage `json:"symbols"`
	}
	if err := json.Unmarshal(body, &info); err != nil {
		return contracts, errors.Wrap(err, "failed to decode exchange info")
	}

	for _, raw := range info.Symbols {
		var contract Contract
		if err := json.Unmarshal(raw, &contract); err != nil {
			return make(map[string]Contract), errors.Wrap(err, "failed to decode contract")
		}
		contract.Raw = raw
		contracts[contract.Pair] = contract
	}

	return contracts, nil
}

// GetCandles returns up to CandleLimit of the most recent candles for symbol.
// On failure the slice is empty and the error says why.
func (c *Client) GetCandles(ctx context.Context, symbol, interval string) ([]types.Candle, error) {
	params := Params{}.
		Add("symbol", symbol).
		Add("interval", interval).
		Add("limit", strconv.Itoa(CandleLimit))

	body, err := c.Execute(ctx, http.MethodGet, pathKlines, params)
	if err != nil {
		return []types.Candle{}, err
	}

	var rows [][]interface{}
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	if err := decoder.Decode(&rows); err != nil {
		return []types.Candle{}, errors.Wrap(err, "failed to decode klines")
	}

	candles := make([]types.Candle, 0, len(rows))
	for i, row := range rows {
		candle, err := parseKline(row)
		if err != nil {
			return []types.Candle{}, errors.Wrapf(err, "kline %d", i)
		}
		candles = append(candles, candle)
	}

	return candles, nil
}

func parseKline(row []interface{}) (types.Candle, error) {
	if len(row) < klineMinFields {
		return types.Candle{}, fmt.Errorf("expected at least %d fields, got %d", klineMinFields, len(row))
	}

	openTime, ok := row[klineTimeIndex].(json.Number)
	if !ok {
		return types.Candle{}, fmt.Errorf("failed to assert type of open time (%+v)", row[klineTimeIndex])
	}
	ts, err := openTime.Int64()
	if err != nil {
		return types.Candle{}, errors.Wrap(err, "open time")
	}

	var values [5]float64
	for i := range values {
		idx := klineOpenIndex + i
		values[i], err = parseNumber(row[idx])
		if err != nil {
			return types.Candle{}, errors.Wrapf(err, "field %d", idx)
		}
	}

	return types.Candle{
		Time:   ts,
		Open:   values[0],
		High:   values[1],
		Low:    values[2],
		Close:  values[3],
		Volume: values[4],
	}, nil
}

// parseNumber accepts the exchange's quoted decimals as well as bare numbers.
func parseNumber(v interface{}) (float64, error) {
	switch n := v.(type) {
	case string:
		return strconv.ParseFloat(n, 64)
	case json.Number:
		return n.Float64()
	default:
		return 0, fmt.Errorf("unexpected value type %T", v)
	}
}

// GetBidAsk fetches the best bid and ask for symbol and stores them in the
// quote cache. If the fetch fails the last cached quote is returned together
// with the error; a symbol that was never fetched yields ErrSymbolNotFound.
func (c *Client) GetBidAsk(ctx context.Context, symbol string) (types.PriceQuote, error) {
	params := Params{}.Add("symbol", symbol)

	body, err := c.Execute(ctx, http.MethodGet, pathBookTicker, params)
	if err == nil {
		var ticker struct {
			BidPrice float64 `json:"bidPrice,string"`
			AskPrice float64 `json:"askPrice,string"`
		}
		if decodeErr := json.Unmarshal(body, &ticker); decodeErr != nil {
			err = errors.Wrap(decodeErr, "failed to decode book ticker")
		} else {
			return c.storeQuote(symbol, ticker.BidPrice, ticker.AskPrice), nil
		}
	}

	if quote, ok := c.cachedQuote(symbol); ok {
		return quote, err
	}
	return types.PriceQuote{}, fmt.Errorf("%w: %s: %w", ErrSymbolNotFound, symbol, err)
}

// Prices returns a copy of the quote cache.
func (c *Client) Prices() map[string]types.PriceQuote {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]types.PriceQuote, len(c.prices))
	for symbol, quote := range c.prices {
		out[symbol] = quote
	}
	return out
}

func (c *Client) storeQuote(symbol string, bid, ask float64) types.PriceQuote {
	c.mu.Lock()
	quote := c.prices[symbol]
	quote.Bid = bid
	quote.Ask = ask
	c.prices[symbol] = quote
	c.mu.Unlock()

	monitoring.UpdateQuote(symbol, bid, ask)
	return quote
}

func (c *Client) cachedQuote(symbol string) (types.PriceQuote, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	quote, ok := c.prices[symbol]
	return quote, ok
}
