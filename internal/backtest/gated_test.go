package backtest

import (
	"testing"
	"time"

	"algo-trading-system-go/internal/indicators"
	"algo-trading-system-go/internal/market"
	"github.com/stretchr/testify/assert"
)

// gatedFixture pairs hand-built bars with hand-built indicator rows so
// the entry and exit conditions can be forced precisely.
type gatedFixture struct {
	bars market.PriceSeries
	ind  indicators.Set
}

func newGatedFixture() *gatedFixture {
	return &gatedFixture{}
}

func (f *gatedFixture) add(open, high, low, closing, rsi, sma20, sma50 float64) *gatedFixture {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, len(f.bars))
	f.bars = append(f.bars, market.PriceBar{
		Date: date, Open: open, High: high, Low: low, Close: closing, Volume: 10000,
	})
	f.ind = append(f.ind, indicators.Row{RSI14: rsi, SMA20: sma20, SMA50: sma50})
	return f
}

func TestGatedStrategy_NoSignalNoTrades(t *testing.T) {
	f := newGatedFixture().
		add(100, 101, 99, 100, 55, 95, 98).
		add(100, 101, 99, 100, 56, 95, 98).
		add(100, 101, 99, 100, 57, 95, 98)

	trades := (&GatedStrategy{}).Run("X", f.bars, f.ind)

	assert.Empty(t, trades)
}

func TestGatedStrategy_TakeProfitExit(t *testing.T) {
	f := newGatedFixture().
		// Warm-up bar: SMA20 below SMA50, RSI neutral.
		add(100, 101, 99, 100, 50, 95, 98).
		// Entry: oversold RSI plus the 20/50 cross on the same bar.
		add(100, 101, 99, 100, 25, 99, 98).
		// Exit: high reaches the +5% target (105).
		add(101, 106, 100, 104, 40, 99, 98)

	trades := (&GatedStrategy{}).Run("X", f.bars, f.ind)

	assert.Len(t, trades, 1)
	assert.InDelta(t, 100.0, trades[0].BuyPrice, 1e-9)
	assert.InDelta(t, 105.0, trades[0].SellPrice, 1e-9)
	assert.InDelta(t, 5.0, trades[0].PnL, 1e-9)
	assert.Equal(t, StatusClosed, trades[0].Status)
}

func TestGatedStrategy_StopLossExit(t *testing.T) {
	f := newGatedFixture().
		add(100, 101, 99, 100, 50, 95, 98).
		add(100, 101, 99, 100, 25, 99, 98).
		// Exit: low breaches the -2% stop (98).
		add(99, 100, 97, 97.5, 35, 99, 98)

	trades := (&GatedStrategy{}).Run("X", f.bars, f.ind)

	assert.Len(t, trades, 1)
	assert.InDelta(t, 98.0, trades[0].SellPrice, 1e-9)
	assert.InDelta(t, -2.0, trades[0].PnL, 1e-9)
	assert.Equal(t, StatusClosed, trades[0].Status)
}

func TestGatedStrategy_ForcedExitAtPeriodEnd(t *testing.T) {
	f := newGatedFixture().
		add(100, 101, 99, 100, 50, 95, 98).
		add(100, 101, 99, 100, 25, 99, 98).
		// Neither target nor stop is touched; position survives to the end.
		add(100, 102, 99, 101, 45, 99, 98).
		add(101, 103, 100, 102, 48, 100, 98)

	trades := (&GatedStrategy{}).Run("X", f.bars, f.ind)

	assert.Len(t, trades, 1)
	assert.InDelta(t, 102.0, trades[0].SellPrice, 1e-9)
	assert.InDelta(t, 2.0, trades[0].PnL, 1e-9)
	assert.Equal(t, StatusForcedExit, trades[0].Status)
	assert.Equal(t, "2024-03-04", trades[0].SellDate)
}

func TestGatedStrategy_OversoldAloneIsNotEnough(t *testing.T) {
	// RSI oversold on every bar, but the averages never cross.
	f := newGatedFixture().
		add(100, 101, 99, 100, 20, 95, 98).
		add(100, 101, 99, 100, 20, 96, 98).
		add(100, 101, 99, 100, 20, 97, 98)

	trades := (&GatedStrategy{}).Run("X", f.bars, f.ind)

	assert.Empty(t, trades)
}
