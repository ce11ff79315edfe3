package backtest

// Trade statuses as they appear in the trade log and the spreadsheet.
const (
	StatusClosed     = "Closed"
	StatusForcedExit = "Closed (Forced Exit)"
)

// TradeRecord is one completed simulated trade. Records are immutable
// once appended to a trade log.
type TradeRecord struct {
	Symbol    string  `json:"symbol"`
	BuyDate   string  `json:"buy_date"`
	BuyPrice  float64 `json:"buy_price"`
	SellDate  string  `json:"sell_date"`
	SellPrice float64 `json:"sell_price"`
	PnL       float64 `json:"pnl"`
	Status    string  `json:"status"`
}

// Result aggregates the simulated trades for a single symbol. WinRatio is
// a percentage in [0, 100]; it is 0 when no trades were produced.
type Result struct {
	Symbol      string        `json:"symbol"`
	TotalPnL    float64       `json:"total_pnl"`
	WinRatio    float64       `json:"win_ratio"`
	WinCount    int           `json:"win_count"`
	LossCount   int           `json:"loss_count"`
	TotalTrades int           `json:"total_trades"`
	TradeLog    []TradeRecord `json:"trade_log"`
}
