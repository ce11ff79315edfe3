package models

import "gorm.io/gorm"

// TradeLog is one simulated trade persisted to the journal. Rows accumulate
// across runs; RunID groups the trades belonging to one pipeline run.
type TradeLog struct {
	gorm.Model
	RunID     string  `json:"run_id" gorm:"index"`
	Symbol    string  `json:"symbol" gorm:"index"`
	BuyDate   string  `json:"buy_date"`
	BuyPrice  float64 `json:"buy_price"`
	SellDate  string  `json:"sell_date"`
	SellPrice float64 `json:"sell_price"`
	PnL       float64 `json:"pnl" gorm:"column:pnl"`
	Status    string  `json:"status"`
}
