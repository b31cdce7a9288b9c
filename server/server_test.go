package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"matchbox/exchange"
)

func newTestServer(t *testing.T, cfg config) *httptest.Server {
	t.Helper()
	ex := exchange.New()
	t.Cleanup(ex.Stop)
	srv := newServer(ex, cfg, zap.NewNop())
	ts := httptest.NewServer(srv.routes())
	t.Cleanup(ts.Close)
	return ts
}

func postOrder(t *testing.T, ts *httptest.Server, body string) *http.Response {
	t.Helper()
	res, err := http.Post(ts.URL+"/order", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	return res
}

func decodeJSON(t *testing.T, res *http.Response, out interface{}) {
	t.Helper()
	defer res.Body.Close()
	require.NoError(t, json.NewDecoder(res.Body).Decode(out))
}

func TestSubmitAndBook(t *testing.T) {
	ts := newTestServer(t, config{corsOrigin: "*", wsBuffer: 8})

	res := postOrder(t, ts, `{"side":"Sell","order_type":"Limit","price":101,"quantity":5}`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var submit submitResponse
	decodeJSON(t, res, &submit)
	assert.Empty(t, submit.Trades)

	res = postOrder(t, ts, `{"side":"Buy","order_type":"Limit","price":102,"quantity":3}`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	decodeJSON(t, res, &submit)
	require.Len(t, submit.Trades, 1)
	assert.Equal(t, 101.0, submit.Trades[0].Price)
	assert.Equal(t, 3.0, submit.Trades[0].Quantity)

	res, err := http.Get(ts.URL + "/orderbook")
	require.NoError(t, err)
	var book bookResponse
	decodeJSON(t, res, &book)
	assert.Empty(t, book.Bids)
	require.Len(t, book.Asks, 1)
	assert.Equal(t, 101.0, book.Asks[0].Price)
	require.Len(t, book.Asks[0].Orders, 1)
	assert.Equal(t, 2.0, book.Asks[0].Orders[0].Quantity)
}

func TestRejectsMalformedOrders(t *testing.T) {
	ts := newTestServer(t, config{corsOrigin: "*", wsBuffer: 8})

	cases := []struct {
		name string
		body string
	}{
		{"unknown side", `{"side":"hold","order_type":"Limit","price":100,"quantity":1}`},
		{"unknown type", `{"side":"Buy","order_type":"stop","price":100,"quantity":1}`},
		{"zero quantity", `{"side":"Buy","order_type":"Limit","price":100,"quantity":0}`},
		{"negative quantity", `{"side":"Buy","order_type":"Limit","price":100,"quantity":-2}`},
		{"limit without price", `{"side":"Buy","order_type":"Limit","quantity":1}`},
		{"negative price", `{"side":"Buy","order_type":"Limit","price":-5,"quantity":1}`},
		{"not json", `side=Buy`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			res := postOrder(t, ts, c.body)
			defer res.Body.Close()
			assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		})
	}
}

func TestMarketOrderIgnoresPrice(t *testing.T) {
	ts := newTestServer(t, config{corsOrigin: "*", wsBuffer: 8})

	res := postOrder(t, ts, `{"side":"Sell","order_type":"Limit","price":101,"quantity":2}`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	res.Body.Close()

	// Market orders need no price field at all.
	res = postOrder(t, ts, `{"side":"Buy","order_type":"Market","quantity":2}`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var submit submitResponse
	decodeJSON(t, res, &submit)
	require.Len(t, submit.Trades, 1)
	assert.Equal(t, 101.0, submit.Trades[0].Price)
}

func TestStatsAndClear(t *testing.T) {
	ts := newTestServer(t, config{corsOrigin: "*", wsBuffer: 8})

	postOrder(t, ts, `{"side":"Sell","order_type":"Limit","price":101,"quantity":5}`).Body.Close()
	postOrder(t, ts, `{"side":"Buy","order_type":"Limit","price":102,"quantity":3}`).Body.Close()
	postOrder(t, ts, `{"side":"Buy","order_type":"Market","quantity":10}`).Body.Close()

	res, err := http.Get(ts.URL + "/stats")
	require.NoError(t, err)
	var stats exchange.Stats
	decodeJSON(t, res, &stats)
	assert.Equal(t, 2, stats.TotalTrades)
	assert.InDelta(t, -505.0, stats.BuyNotional, 1e-9)
	assert.InDelta(t, 505.0, stats.SellNotional, 1e-9)

	res, err = http.Post(ts.URL+"/clear", "application/json", nil)
	require.NoError(t, err)
	var status statusResponse
	decodeJSON(t, res, &status)
	assert.Equal(t, "cleared", status.Status)

	res, err = http.Get(ts.URL + "/trades")
	require.NoError(t, err)
	var trades []publicTrade
	decodeJSON(t, res, &trades)
	assert.Empty(t, trades)
}

func TestAuthToken(t *testing.T) {
	ts := newTestServer(t, config{corsOrigin: "*", wsBuffer: 8, authToken: "secret"})

	res, err := http.Get(ts.URL + "/orderbook")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/orderbook", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer secret")
	res, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, config{corsOrigin: "*", wsBuffer: 8})
	res, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}
