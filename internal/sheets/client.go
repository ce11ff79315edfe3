package sheets

import (
	"context"
	"fmt"

	"algo-trading-system-go/internal/backtest"
	"algo-trading-system-go/internal/config"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const defaultBaseURL = "https://sheets.googleapis.com"

// Worksheet titles, matching what readers of the sheet expect.
const (
	TradeLogSheet   = "Trade Log"
	PnLSummarySheet = "P&L Summary"
	WinRatioSheet   = "Win Ratio"
)

// Reporter is the spreadsheet side of the pipeline.
type Reporter interface {
	Write(ctx context.Context, results []backtest.Result) error
}

// Client writes backtest results to a Google Spreadsheet through the
// Sheets v4 values API. It implements the Reporter interface.
type Client struct {
	client        *resty.Client
	spreadsheetID string
	logger        *zap.Logger
}

// ensure Client implements the interface
var _ Reporter = (*Client)(nil)

// NewClient creates a new Sheets reporter. The access token is a bearer
// token for a principal with edit rights on the spreadsheet.
func NewClient(cfg *config.Sheets, logger *zap.Logger) *Client {
	return &Client{
		client:        resty.New().SetBaseURL(defaultBaseURL).SetAuthToken(cfg.AccessToken),
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger.Named("sheets"),
	}
}

// Write replaces the contents of the three result tables. Each table is
// cleared and rewritten in full; a run with no data still writes the
// header row so the tables never silently disappear.
func (c *Client) Write(ctx context.Context, results []backtest.Result) error {
	tables := []struct {
		title  string
		values [][]interface{}
	}{
		{TradeLogSheet, tradeLogRows(results)},
		{PnLSummarySheet, pnlSummaryRows(results)},
		{WinRatioSheet, winRatioRows(results)},
	}

	for _, table := range tables {
		if err := c.writeTable(ctx, table.title, table.values); err != nil {
			return fmt.Errorf("update worksheet %q: %w", table.title, err)
		}
		c.logger.Info("Worksheet updated",
			zap.String("worksheet", table.title),
			zap.Int("rows", len(table.values)-1))
	}
	return nil
}

// writeTable clears a worksheet and uploads the new rows.
func (c *Client) writeTable(ctx context.Context, title string, values [][]interface{}) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("spreadsheetId", c.spreadsheetID).
		SetPathParam("range", title).
		Post("/v4/spreadsheets/{spreadsheetId}/values/{range}:clear")
	if err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("clear failed with status %s: %s", resp.Status(), resp.String())
	}

	body := map[string]interface{}{
		"range":          title,
		"majorDimension": "ROWS",
		"values":         values,
	}
	resp, err = c.client.R().
		SetContext(ctx).
		SetPathParam("spreadsheetId", c.spreadsheetID).
		SetPathParam("range", title).
		SetQueryParam("valueInputOption", "RAW").
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Put("/v4/spreadsheets/{spreadsheetId}/values/{range}")
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("update failed with status %s: %s", resp.Status(), resp.String())
	}
	return nil
}

func tradeLogRows(results []backtest.Result) [][]interface{} {
	rows := [][]interface{}{
		{"symbol", "buy_date", "buy_price", "sell_date", "sell_price", "pnl", "status"},
	}
	for _, res := range results {
		for _, trade := range res.TradeLog {
			rows = append(rows, []interface{}{
				trade.Symbol, trade.BuyDate, trade.BuyPrice,
				trade.SellDate, trade.SellPrice, trade.PnL, trade.Status,
			})
		}
	}
	return rows
}

func pnlSummaryRows(results []backtest.Result) [][]interface{} {
	rows := [][]interface{}{{"Symbol", "Total P&L", "Total Trades"}}
	for _, res := range results {
		rows = append(rows, []interface{}{res.Symbol, res.TotalPnL, res.TotalTrades})
	}
	return rows
}

func winRatioRows(results []backtest.Result) [][]interface{} {
	rows := [][]interface{}{{"Symbol", "Win Ratio (%)", "Wins", "Losses"}}
	for _, res := range results {
		rows = append(rows, []interface{}{
			res.Symbol, fmt.Sprintf("%.2f", res.WinRatio), res.WinCount, res.LossCount,
		})
	}
	return rows
}
