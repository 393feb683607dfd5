package binance

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/futures-connector/pkg/types"
)

const exchangeInfoTwoPairs = `{
	"timezone": "UTC",
	"symbols": [
		{"symbol":"BTCUSDT","pair":"BTCUSDT","contractType":"PERPETUAL","status":"TRADING","baseAsset":"BTC","quoteAsset":"USDT","marginAsset":"USDT","pricePrecision":2,"quantityPrecision":3,"filters":[{"filterType":"PRICE_FILTER","tickSize":"0.10"}]},
		{"symbol":"ETHUSDT","pair":"ETHUSDT","contractType":"PERPETUAL","status":"TRADING","baseAsset":"ETH","quoteAsset":"USDT","marginAsset":"USDT","pricePrecision":2,"quantityPrecision":3}
	]
}`

func TestListContracts_IndexesByPair(t *testing.T) {
	local := int64(0)
	client, exchange, _ := newTestClient(t, &local)
	exchange.respond(pathExchangeInfo, http.StatusOK, exchangeInfoTwoPairs)

	contracts, err := client.ListContracts(context.Background())
	require.NoError(t, err)

	require.Len(t, contracts, 2)
	assert.Contains(t, contracts, "BTCUSDT")
	assert.Contains(t, contracts, "ETHUSDT")

	btc := contracts["BTCUSDT"]
	assert.Equal(t, "PERPETUAL", btc.ContractType)
	assert.Equal(t, "BTC", btc.BaseAsset)
	assert.Equal(t, 3, btc.QuantityPrecision)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(btc.Raw, &raw))
	assert.Contains(t, raw, "filters")
}

func TestListContracts_EmptySymbolList(t *testing.T) {
	local := int64(0)
	client, exchange, _ := newTestClient(t, &local)
	exchange.respond(pathExchangeInfo, http.StatusOK, `{"symbols":[]}`)

	contracts, err := client.ListContracts(context.Background())

	assert.NoError(t, err)
	assert.NotNil(t, contracts)
	assert.Empty(t, contracts)
}

func TestListContracts_FailureReturnsEmptyMap(t *testing.T) {
	local := int64(0)
	client, exchange, hook := newTestClient(t, &local)
	exchange.respond(pathExchangeInfo, http.StatusTeapot, `{}`)

	contracts, err := client.ListContracts(context.Background())

	assert.True(t, IsRequestError(err))
	assert.NotNil(t, contracts)
	assert.Empty(t, contracts)
	assert.Len(t, errorEntries(hook), 1)
}

func TestGetCandles_ParsesRawKlines(t *testing.T) {
	local := int64(0)
	client, exchange, _ := newTestClient(t, &local)
	exchange.respond(pathKlines, http.StatusOK, `[
		[1499040000000,"0.01634790","0.80000000","0.01575800","0.01577100","148976.11427815",1499644799999,"2434.19055334",308,"1756.87402397","28.46694368","0"],
		[1499644800000,"0.01577100","0.01600000","0.01500000","0.01550000","1000.5",1500249599999,"15.5",12,"500","7.7","0"],
		[1500249600000,"0.01550000","0.01700000","0.01540000","0.01690000","2500",1500854399999,"40",20,"1200","19","0"]
	]`)

	candles, err := client.GetCandles(context.Background(), "BTCUSDT", "1h")
	require.NoError(t, err)
	require.Len(t, candles, 3)

	assert.Equal(t, types.Candle{
		Time:   1499040000000,
		Open:   0.01634790,
		High:   0.8,
		Low:    0.01575800,
		Close:  0.01577100,
		Volume: 148976.11427815,
	}, candles[0])
	assert.Equal(t, int64(1500249600000), candles[2].Time)
	assert.Equal(t, 2500.0, candles[2].Volume)

	req := exchange.lastRequest(pathKlines)
	assert.Equal(t, "symbol=BTCUSDT&interval=1h&limit=1000", req.Query)
}

func TestGetCandles_FailureReturnsEmptySlice(t *testing.T) {
	local := int64(0)
	client, exchange, _ := newTestClient(t, &local)
	exchange.respond(pathKlines, http.StatusBadRequest, `{"code":-1121,"msg":"Invalid symbol."}`)

	candles, err := client.GetCandles(context.Background(), "NOPE", "1h")

	assert.Error(t, err)
	assert.NotNil(t, candles)
	assert.Empty(t, candles)
}

func TestGetCandles_MalformedRow(t *testing.T) {
	local := int64(0)
	client, exchange, _ := newTestClient(t, &local)
	exchange.respond(pathKlines, http.StatusOK, `[[1499040000000,"1","2"]]`)

	candles, err := client.GetCandles(context.Background(), "BTCUSDT", "1h")

	assert.Error(t, err)
	assert.Empty(t, candles)
}

func TestGetBidAsk_InsertsThenUpdatesCache(t *testing.T) {
	local := int64(0)
	client, exchange, _ := newTestClient(t, &local)
	exchange.respond(pathBookTicker, http.StatusOK, `{"symbol":"BTCUSDT","bidPrice":"30000.10","bidQty":"1","askPrice":"30000.20","askQty":"2","time":1}`)

	quote, err := client.GetBidAsk(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	assert.Equal(t, types.PriceQuote{Bid: 30000.10, Ask: 30000.20}, quote)

	exchange.respond(pathBookTicker, http.StatusOK, `{"symbol":"BTCUSDT","bidPrice":"31000","askPrice":"31000.5"}`)

	quote, err = client.GetBidAsk(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	assert.Equal(t, types.PriceQuote{Bid: 31000, Ask: 31000.5}, quote)

	prices := client.Prices()
	require.Len(t, prices, 1)
	assert.Equal(t, quote, prices["BTCUSDT"])
	assert.Equal(t, "symbol=BTCUSDT", exchange.lastRequest(pathBookTicker).Query)
}

func TestGetBidAsk_UnseenSymbolFailure(t *testing.T) {
	local := int64(0)
	client, exchange, _ := newTestClient(t, &local)
	exchange.respond(pathBookTicker, http.StatusBadRequest, `{"code":-1121,"msg":"Invalid symbol."}`)

	quote, err := client.GetBidAsk(context.Background(), "NOPEUSDT")

	assert.ErrorIs(t, err, ErrSymbolNotFound)
	assert.Equal(t, http.StatusBadRequest, StatusCode(err))
	assert.Equal(t, types.PriceQuote{}, quote)
	assert.Empty(t, client.Prices())
}

func TestGetBidAsk_KnownSymbolFailureReturnsCachedQuote(t *testing.T) {
	local := int64(0)
	client, exchange, _ := newTestClient(t, &local)
	exchange.respond(pathBookTicker, http.StatusOK, `{"bidPrice":"100","askPrice":"101"}`)

	_, err := client.GetBidAsk(context.Background(), "SOLUSDT")
	require.NoError(t, err)

	exchange.respond(pathBookTicker, http.StatusInternalServerError, `oops`)

	quote, err := client.GetBidAsk(context.Background(), "SOLUSDT")

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrSymbolNotFound)
	assert.Equal(t, types.PriceQuote{Bid: 100, Ask: 101}, quote)
}

func TestParseNumber(t *testing.T) {
	v, err := parseNumber("1.5")
	require.NoError(t, err)
	assert.Equal(t, 1.5, v)

	v, err = parseNumber(json.Number("42"))
	require.NoError(t, err)
	assert.Equal(t, 42.0, v)

	_, err = parseNumber(true)
	assert.Error(t, err)
}
