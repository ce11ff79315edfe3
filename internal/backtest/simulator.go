package backtest

import (
	"fmt"

	"algo-trading-system-go/internal/indicators"
	"algo-trading-system-go/internal/market"
	"go.uber.org/zap"
)

// Simulator runs one strategy over an indicator-annotated price series
// and aggregates the resulting trades into a Result.
type Simulator struct {
	logger   *zap.Logger
	strategy Strategy

	// BreakevenWins controls how a zero-P&L trade is classified. Counting
	// breakeven as a loss matches the historical behavior; this exists so
	// the policy is an explicit choice rather than an accident.
	BreakevenWins bool
}

// NewSimulator creates a simulator for the given strategy.
func NewSimulator(logger *zap.Logger, strategy Strategy) *Simulator {
	return &Simulator{
		logger:   logger.Named("backtest"),
		strategy: strategy,
	}
}

// Run annotates the series with indicators, drops bars that are missing
// any indicator value, and hands the eligible remainder to the strategy.
// A series with no eligible bars is not an error: it yields a zero-trade
// result with a warning, so one thin symbol never aborts a batch.
func (s *Simulator) Run(symbol string, series market.PriceSeries) (Result, error) {
	result := Result{Symbol: symbol, TradeLog: []TradeRecord{}}

	set, err := indicators.Compute(series)
	if err != nil {
		return result, fmt.Errorf("compute indicators for %s: %w", symbol, err)
	}

	eligible, eligibleInd := filterEligible(series, set)
	if len(eligible) == 0 {
		s.logger.Warn("No usable data after indicator filtering, skipping simulation",
			zap.String("symbol", symbol),
			zap.Int("raw_bars", len(series)))
		return result, nil
	}

	s.logger.Info("Running backtest",
		zap.String("symbol", symbol),
		zap.String("strategy", s.strategy.Name()),
		zap.Int("eligible_bars", len(eligible)))

	trades := s.strategy.Run(symbol, eligible, eligibleInd)
	for _, trade := range trades {
		result.TradeLog = append(result.TradeLog, trade)
		result.TotalPnL += trade.PnL
		if trade.PnL > 0 || (s.BreakevenWins && trade.PnL == 0) {
			result.WinCount++
		} else {
			result.LossCount++
		}
	}

	result.TotalTrades = len(result.TradeLog)
	if result.TotalTrades > 0 {
		result.WinRatio = 100 * float64(result.WinCount) / float64(result.TotalTrades)
	}

	s.logger.Info("Backtest complete",
		zap.String("symbol", symbol),
		zap.Float64("total_pnl", result.TotalPnL),
		zap.Float64("win_ratio", result.WinRatio),
		zap.Int("total_trades", result.TotalTrades))

	return result, nil
}

// filterEligible keeps the bars where every indicator is defined. The
// returned indicator set stays aligned with the returned bars.
func filterEligible(series market.PriceSeries, set indicators.Set) (market.PriceSeries, indicators.Set) {
	bars := make(market.PriceSeries, 0, len(series))
	rows := make(indicators.Set, 0, len(series))
	for i := range series {
		if set.Defined(i) {
			bars = append(bars, series[i])
			rows = append(rows, set[i])
		}
	}
	return bars, rows
}
