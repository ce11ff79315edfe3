package database

import (
	"fmt"

	"algo-trading-system-go/internal/backtest"
	"algo-trading-system-go/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDatabase opens the journal database and migrates its schema. Unlike
// the fetched price data, the journal accumulates across runs, so the
// migration never drops existing rows.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.TradeLog{}, &models.RunSummary{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	return db, nil
}

// SaveResults journals the results of one run under the given run ID.
// All rows are written in a single transaction so a half-written run
// never shows up in the viewer.
func SaveResults(db *gorm.DB, runID string, results []backtest.Result) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, res := range results {
			summary := models.RunSummary{
				RunID:       runID,
				Symbol:      res.Symbol,
				TotalPnL:    res.TotalPnL,
				WinRatio:    res.WinRatio,
				WinCount:    res.WinCount,
				LossCount:   res.LossCount,
				TotalTrades: res.TotalTrades,
			}
			if err := tx.Create(&summary).Error; err != nil {
				return fmt.Errorf("save summary for %s: %w", res.Symbol, err)
			}

			for _, trade := range res.TradeLog {
				row := models.TradeLog{
					RunID:     runID,
					Symbol:    trade.Symbol,
					BuyDate:   trade.BuyDate,
					BuyPrice:  trade.BuyPrice,
					SellDate:  trade.SellDate,
					SellPrice: trade.SellPrice,
					PnL:       trade.PnL,
					Status:    trade.Status,
				}
				if err := tx.Create(&row).Error; err != nil {
					return fmt.Errorf("save trade for %s: %w", trade.Symbol, err)
				}
			}
		}
		return nil
	})
}
