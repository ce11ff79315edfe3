package backtest

import (
	"algo-trading-system-go/internal/indicators"
	"algo-trading-system-go/internal/market"
)

// Entry and exit levels for the gated strategy.
const (
	oversoldRSI      = 30.0
	takeProfitFactor = 1.05
	stopLossFactor   = 0.98
)

// GatedStrategy is the indicator-gated alternate mode: it enters when the
// RSI is oversold and the 20-day average crosses above the 50-day average
// on the same bar, and exits on a +5% profit target, a -2% stop loss, or
// a forced close on the last bar. Never the default; select it explicitly
// via configuration.
type GatedStrategy struct{}

func (s *GatedStrategy) Name() string { return StrategyGated }

func (s *GatedStrategy) Run(symbol string, bars market.PriceSeries, ind indicators.Set) []TradeRecord {
	var trades []TradeRecord
	var open *TradeRecord

	for i := 1; i < len(bars); i++ {
		bar := bars[i]

		if open == nil {
			crossedUp := ind[i-1].SMA20 <= ind[i-1].SMA50 && ind[i].SMA20 > ind[i].SMA50
			if ind[i].RSI14 < oversoldRSI && crossedUp {
				open = &TradeRecord{
					Symbol:   symbol,
					BuyDate:  bar.Date.Format(market.DateLayout),
					BuyPrice: bar.Open,
				}
			}
		}

		// An exit may trigger on the entry bar itself.
		if open != nil {
			target := open.BuyPrice * takeProfitFactor
			stop := open.BuyPrice * stopLossFactor

			var sellPrice float64
			switch {
			case bar.High >= target:
				sellPrice = target
			case bar.Low <= stop:
				sellPrice = stop
			default:
				continue
			}

			open.SellDate = bar.Date.Format(market.DateLayout)
			open.SellPrice = sellPrice
			open.PnL = sellPrice - open.BuyPrice
			open.Status = StatusClosed
			trades = append(trades, *open)
			open = nil
		}
	}

	// Force-close anything still open at the end of the period.
	if open != nil {
		last := bars[len(bars)-1]
		open.SellDate = last.Date.Format(market.DateLayout)
		open.SellPrice = last.Close
		open.PnL = last.Close - open.BuyPrice
		open.Status = StatusForcedExit
		trades = append(trades, *open)
	}

	return trades
}
