package market

import (
	"fmt"
	"time"
)

// DateLayout is the wire and display format for bar dates.
const DateLayout = "2006-01-02"

// PriceBar holds one calendar day of OHLCV data for a single symbol.
type PriceBar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries is an ordered (ascending by date) sequence of daily bars
// for one symbol. Gaps for non-trading days are fine; duplicate or
// out-of-order dates are not.
type PriceSeries []PriceBar

// Validate checks the series ordering invariants.
func (s PriceSeries) Validate() error {
	for i := 1; i < len(s); i++ {
		prev, cur := s[i-1].Date, s[i].Date
		if !cur.After(prev) {
			return fmt.Errorf("bars out of order at index %d: %s followed by %s",
				i, prev.Format(DateLayout), cur.Format(DateLayout))
		}
	}
	return nil
}

// Closes returns the closing prices of the series in order.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, b := range s {
		closes[i] = b.Close
	}
	return closes
}

// Since returns the suffix of the series whose dates are on or after cutoff.
// The series is ordered, so this is a simple scan for the first kept bar.
func (s PriceSeries) Since(cutoff time.Time) PriceSeries {
	for i, b := range s {
		if !b.Date.Before(cutoff) {
			return s[i:]
		}
	}
	return nil
}
