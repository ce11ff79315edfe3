package backtest

import (
	"algo-trading-system-go/internal/indicators"
	"algo-trading-system-go/internal/market"
)

// BuyHoldStrategy opens exactly one position at the open of the first
// eligible bar and closes it at the close of the last one. It always
// produces a trade when any eligible bar exists, which keeps the
// reporting path exercised on every run. This is the default.
type BuyHoldStrategy struct{}

func (s *BuyHoldStrategy) Name() string { return StrategyBuyHold }

func (s *BuyHoldStrategy) Run(symbol string, bars market.PriceSeries, _ indicators.Set) []TradeRecord {
	if len(bars) == 0 {
		return nil
	}

	first := bars[0]
	last := bars[len(bars)-1]

	return []TradeRecord{{
		Symbol:    symbol,
		BuyDate:   first.Date.Format(market.DateLayout),
		BuyPrice:  first.Open,
		SellDate:  last.Date.Format(market.DateLayout),
		SellPrice: last.Close,
		PnL:       last.Close - first.Open,
		Status:    StatusClosed,
	}}
}
