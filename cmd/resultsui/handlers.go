package main

import (
	"encoding/json"
	"net/http"

	"algo-trading-system-go/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// APIHandler holds dependencies for the API endpoints.
type APIHandler struct {
	log *zap.Logger
	db  *gorm.DB
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(log *zap.Logger, db *gorm.DB) *APIHandler {
	return &APIHandler{log: log, db: db}
}

// TradesHandler returns all journaled trades, most recent run first.
// An optional ?symbol= query narrows the result to one symbol.
func (h *APIHandler) TradesHandler(w http.ResponseWriter, r *http.Request) {
	query := h.db.Order("run_id desc, symbol asc")
	if symbol := r.URL.Query().Get("symbol"); symbol != "" {
		query = query.Where("symbol = ?", symbol)
	}

	var trades []models.TradeLog
	if err := query.Find(&trades).Error; err != nil {
		h.log.Error("Failed to get trades from database", zap.Error(err))
		http.Error(w, "Failed to get trades", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(trades)
}

// SummariesHandler returns the per-symbol run summaries, most recent
// run first.
func (h *APIHandler) SummariesHandler(w http.ResponseWriter, r *http.Request) {
	var summaries []models.RunSummary
	if err := h.db.Order("run_id desc, symbol asc").Find(&summaries).Error; err != nil {
		h.log.Error("Failed to get summaries from database", zap.Error(err))
		http.Error(w, "Failed to get summaries", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summaries)
}

// SymbolStats holds calculated statistics for one symbol across runs.
type SymbolStats struct {
	Symbol        string  `json:"symbol"`
	TotalTrades   int64   `json:"total_trades"`
	WinningTrades int64   `json:"winning_trades"`
	WinRate       float64 `json:"win_rate"`
	TotalPnL      float64 `json:"total_pnl"`
}

// StatisticsHandler aggregates the trade journal per symbol across all
// recorded runs.
func (h *APIHandler) StatisticsHandler(w http.ResponseWriter, r *http.Request) {
	var allTrades []models.TradeLog
	if err := h.db.Find(&allTrades).Error; err != nil {
		h.log.Error("Failed to get trades for statistics", zap.Error(err))
		http.Error(w, "Failed to calculate statistics", http.StatusInternalServerError)
		return
	}

	bySymbol := make(map[string]*SymbolStats)
	order := []string{}
	for _, trade := range allTrades {
		stats, ok := bySymbol[trade.Symbol]
		if !ok {
			stats = &SymbolStats{Symbol: trade.Symbol}
			bySymbol[trade.Symbol] = stats
			order = append(order, trade.Symbol)
		}
		stats.TotalTrades++
		if trade.PnL > 0 {
			stats.WinningTrades++
		}
		stats.TotalPnL += trade.PnL
	}

	response := make([]SymbolStats, 0, len(order))
	for _, symbol := range order {
		stats := bySymbol[symbol]
		if stats.TotalTrades > 0 {
			stats.WinRate = float64(stats.WinningTrades) / float64(stats.TotalTrades)
		}
		response = append(response, *stats)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
