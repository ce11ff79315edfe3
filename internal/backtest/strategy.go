package backtest

import (
	"fmt"

	"algo-trading-system-go/internal/indicators"
	"algo-trading-system-go/internal/market"
)

// Strategy names accepted in the configuration.
const (
	StrategyBuyHold = "buy-hold"
	StrategyGated   = "indicator-gated"
)

// Strategy turns an eligible, indicator-annotated series into a sequence
// of closed trades. The simulator has already filtered the series: every
// bar handed to a strategy has all indicators defined, and the indicator
// set stays aligned 1:1 with the bars.
type Strategy interface {
	Name() string
	Run(symbol string, bars market.PriceSeries, ind indicators.Set) []TradeRecord
}

// NewStrategy resolves a strategy by its configured name.
func NewStrategy(name string) (Strategy, error) {
	switch name {
	case StrategyBuyHold, "":
		return &BuyHoldStrategy{}, nil
	case StrategyGated:
		return &GatedStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}
