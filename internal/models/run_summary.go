package models

import "gorm.io/gorm"

// RunSummary is the per-symbol aggregate persisted to the journal, one
// row per symbol per pipeline run.
type RunSummary struct {
	gorm.Model
	RunID       string  `json:"run_id" gorm:"index"`
	Symbol      string  `json:"symbol" gorm:"index"`
	TotalPnL    float64 `json:"total_pnl" gorm:"column:total_pnl"`
	WinRatio    float64 `json:"win_ratio"`
	WinCount    int     `json:"win_count"`
	LossCount   int     `json:"loss_count"`
	TotalTrades int     `json:"total_trades"`
}
