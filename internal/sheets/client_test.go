package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"algo-trading-system-go/internal/backtest"
	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// recordedUpdate captures one values update sent to the fake API.
type recordedUpdate struct {
	Range  string          `json:"range"`
	Values [][]interface{} `json:"values"`
}

// setupTestServer runs a fake Sheets values API that records every clear
// and update call.
func setupTestServer(t *testing.T) (*Client, *httptest.Server, *[]recordedUpdate, *[]string) {
	t.Helper()
	var updates []recordedUpdate
	var cleared []string

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Path, "/v4/spreadsheets/sheet-123/values/"))
		switch {
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":clear"):
			name := strings.TrimSuffix(r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:], ":clear")
			cleared = append(cleared, name)
			_, _ = w.Write([]byte(`{}`))
		case r.Method == http.MethodPut:
			assert.Equal(t, "RAW", r.URL.Query().Get("valueInputOption"))
			var update recordedUpdate
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&update))
			updates = append(updates, update)
			_, _ = w.Write([]byte(`{}`))
		default:
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	})

	server := httptest.NewServer(handler)
	c := &Client{
		client:        resty.New().SetBaseURL(server.URL),
		spreadsheetID: "sheet-123",
		logger:        zap.NewNop(),
	}
	return c, server, &updates, &cleared
}

func sampleResult() backtest.Result {
	return backtest.Result{
		Symbol:      "RELIANCE.BSE",
		TotalPnL:    10.5,
		WinRatio:    100.0,
		WinCount:    1,
		LossCount:   0,
		TotalTrades: 1,
		TradeLog: []backtest.TradeRecord{{
			Symbol:    "RELIANCE.BSE",
			BuyDate:   "2024-02-19",
			BuyPrice:  100.0,
			SellDate:  "2024-03-01",
			SellPrice: 110.5,
			PnL:       10.5,
			Status:    backtest.StatusClosed,
		}},
	}
}

func TestWrite_AllThreeTables(t *testing.T) {
	c, server, updates, cleared := setupTestServer(t)
	defer server.Close()

	err := c.Write(context.Background(), []backtest.Result{sampleResult()})

	assert.NoError(t, err)
	assert.Len(t, *cleared, 3)
	assert.Len(t, *updates, 3)

	assert.Equal(t, TradeLogSheet, (*updates)[0].Range)
	assert.Len(t, (*updates)[0].Values, 2) // header + one trade
	assert.Equal(t, "RELIANCE.BSE", (*updates)[0].Values[1][0])

	assert.Equal(t, PnLSummarySheet, (*updates)[1].Range)
	assert.Equal(t, []interface{}{"Symbol", "Total P&L", "Total Trades"}, (*updates)[1].Values[0])

	assert.Equal(t, WinRatioSheet, (*updates)[2].Range)
	assert.Equal(t, "100.00", (*updates)[2].Values[1][1])
}

func TestWrite_EmptyResultsStillWritesHeaders(t *testing.T) {
	c, server, updates, _ := setupTestServer(t)
	defer server.Close()

	err := c.Write(context.Background(), nil)

	assert.NoError(t, err)
	assert.Len(t, *updates, 3)
	for _, update := range *updates {
		// Header row only, never an omitted table.
		assert.Len(t, update.Values, 1)
		assert.NotEmpty(t, update.Values[0])
	}
}

func TestWrite_ZeroTradeResultKeepsSummaryRow(t *testing.T) {
	c, server, updates, _ := setupTestServer(t)
	defer server.Close()

	res := backtest.Result{Symbol: "THIN.BSE", TradeLog: []backtest.TradeRecord{}}
	err := c.Write(context.Background(), []backtest.Result{res})

	assert.NoError(t, err)
	// No trades, but the symbol still shows up in both summaries.
	assert.Len(t, (*updates)[0].Values, 1)
	assert.Len(t, (*updates)[1].Values, 2)
	assert.Equal(t, "THIN.BSE", (*updates)[1].Values[1][0])
	assert.Len(t, (*updates)[2].Values, 2)
}

func TestWrite_APIErrorSurfaces(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error": {"status": "PERMISSION_DENIED"}}`))
	})
	server := httptest.NewServer(handler)
	defer server.Close()

	c := &Client{
		client:        resty.New().SetBaseURL(server.URL),
		spreadsheetID: "sheet-123",
		logger:        zap.NewNop(),
	}

	err := c.Write(context.Background(), []backtest.Result{sampleResult()})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), TradeLogSheet)
}
