package binance

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncTime_ComputesOffset(t *testing.T) {
	local := int64(999000)
	client, exchange, _ := newTestClient(t, &local)
	exchange.respond(pathServerTime, http.StatusOK, `{"serverTime":1000000}`)

	_, resolved := client.TimeOffset()
	assert.False(t, resolved)

	offset, err := client.SyncTime(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1000), offset)

	stored, resolved := client.TimeOffset()
	assert.True(t, resolved)
	assert.Equal(t, int64(1000), stored)
}

func TestSignedRequest_UsesSkewCorrectedTimestamp(t *testing.T) {
	local := int64(999000)
	client, exchange, _ := newTestClient(t, &local)
	exchange.respond(pathServerTime, http.StatusOK, `{"serverTime":1000000}`)
	exchange.respond(pathAccount, http.StatusOK, `{"assets":[]}`)

	_, err := client.SyncTime(context.Background())
	require.NoError(t, err)

	local = 2000000
	_, err = client.GetBalances(context.Background())
	require.NoError(t, err)

	query, err := url.ParseQuery(exchange.lastRequest(pathAccount).Query)
	require.NoError(t, err)
	assert.Equal(t, "2001000", query.Get("timestamp"))
}

func TestSignedRequest_ResolvesOffsetLazilyOnce(t *testing.T) {
	local := int64(5000)
	client, exchange, _ := newTestClient(t, &local)
	exchange.respond(pathServerTime, http.StatusOK, `{"serverTime":4000}`)
	exchange.respond(pathAccount, http.StatusOK, `{"assets":[]}`)
	exchange.respond(pathOrder, http.StatusOK, `{"orderId":7,"symbol":"BTCUSDT","status":"NEW"}`)

	_, err := client.GetBalances(context.Background())
	require.NoError(t, err)
	_, err = client.GetOrderStatus(context.Background(), 7, "BTCUSDT")
	require.NoError(t, err)
	_, err = client.CancelOrder(context.Background(), "BTCUSDT", 7)
	require.NoError(t, err)

	assert.Equal(t, 1, exchange.hitCount(pathServerTime))

	offset, resolved := client.TimeOffset()
	assert.True(t, resolved)
	assert.Equal(t, int64(-1000), offset)
}

func TestSyncTime_FailureLeavesOffsetUnresolved(t *testing.T) {
	local := int64(1000)
	client, exchange, hook := newTestClient(t, &local)
	exchange.respond(pathServerTime, http.StatusInternalServerError, `{"code":-1000,"msg":"unknown"}`)
	exchange.respond(pathAccount, http.StatusOK, `{"assets":[]}`)

	_, err := client.SyncTime(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrClockSync)
	assert.Equal(t, http.StatusInternalServerError, StatusCode(err))

	_, resolved := client.TimeOffset()
	assert.False(t, resolved)
	assert.Len(t, errorEntries(hook), 1)
}

func TestSignedRequest_NotSentWithoutOffset(t *testing.T) {
	local := int64(1000)
	client, exchange, _ := newTestClient(t, &local)
	exchange.respond(pathServerTime, http.StatusBadGateway, `bad gateway`)
	exchange.respond(pathAccount, http.StatusOK, `{"assets":[]}`)

	balances, err := client.GetBalances(context.Background())

	assert.ErrorIs(t, err, ErrClockSync)
	assert.NotNil(t, balances)
	assert.Empty(t, balances)
	assert.Equal(t, 0, exchange.hitCount(pathAccount))
}

func TestSyncTime_CanBeReinvoked(t *testing.T) {
	local := int64(1000)
	client, exchange, _ := newTestClient(t, &local)
	exchange.respond(pathServerTime, http.StatusOK, `{"serverTime":1500}`)

	offset, err := client.SyncTime(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(500), offset)

	local = 1200
	offset, err = client.SyncTime(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(300), offset)
	assert.Equal(t, 2, exchange.hitCount(pathServerTime))
}

func TestServerTime_MalformedBody(t *testing.T) {
	local := int64(0)
	client, exchange, _ := newTestClient(t, &local)
	exchange.respond(pathServerTime, http.StatusOK, `{"unexpected":true}`)

	_, err := client.ServerTime(context.Background())
	assert.Error(t, err)
}
