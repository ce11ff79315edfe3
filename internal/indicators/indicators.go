package indicators

import (
	"errors"
	"math"

	"algo-trading-system-go/internal/market"
)

// Windows used by the trading strategy. The classifier uses MACD on top.
const (
	RSIPeriod = 14
	SMAShort  = 20
	SMALong   = 50
)

// ErrInvalidInput is returned when the price series is empty or malformed.
var ErrInvalidInput = errors.New("indicators: invalid or empty price series")

// Row holds the derived values for one bar. A value is NaN until its
// window has enough history behind it.
type Row struct {
	RSI14 float64
	SMA20 float64
	SMA50 float64
}

// Set is aligned 1:1 by index with the price series it was computed from.
type Set []Row

// Defined reports whether every indicator has a value at index i.
func (s Set) Defined(i int) bool {
	r := s[i]
	return !math.IsNaN(r.RSI14) && !math.IsNaN(r.SMA20) && !math.IsNaN(r.SMA50)
}

// DefinedCount returns the number of bars where all indicators are defined.
func (s Set) DefinedCount() int {
	n := 0
	for i := range s {
		if s.Defined(i) {
			n++
		}
	}
	return n
}

// Compute derives RSI-14, SMA-20 and SMA-50 for every bar of the series.
// It is a pure function: the input series is not modified. A series with
// fewer bars than the longest window simply yields no fully defined rows,
// which the simulator treats as "no usable data" rather than an error.
func Compute(series market.PriceSeries) (Set, error) {
	if len(series) == 0 {
		return nil, ErrInvalidInput
	}
	if err := series.Validate(); err != nil {
		return nil, errors.Join(ErrInvalidInput, err)
	}

	closes := series.Closes()
	rsi := RSISeries(closes, RSIPeriod)
	sma20 := SMASeries(closes, SMAShort)
	sma50 := SMASeries(closes, SMALong)

	set := make(Set, len(series))
	for i := range set {
		set[i] = Row{RSI14: rsi[i], SMA20: sma20[i], SMA50: sma50[i]}
	}
	return set, nil
}

// SMASeries returns the trailing simple moving average for every index,
// NaN for the first period-1 entries. A rolling sum keeps it O(n).
func SMASeries(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period <= 0 || len(values) < period {
		return out
	}

	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// RSISeries returns the Wilder-smoothed relative strength index for every
// index. The first `period` entries are NaN: the seed average needs that
// many close-to-close deltas before the first value exists.
func RSISeries(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period <= 0 || len(values) <= period {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := values[i] - values[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	p := float64(period)
	for i := period + 1; i < len(values); i++ {
		change := values[i] - values[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*(p-1) + gain) / p
		avgLoss = (avgLoss*(p-1) + loss) / p
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}

// EMASeries returns the exponential moving average for every index, seeded
// with the SMA of the first `period` values. NaN for the first period-1
// entries.
func EMASeries(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period <= 0 || len(values) < period {
		return out
	}

	seed := 0.0
	for i := 0; i < period; i++ {
		seed += values[i]
	}
	seed /= float64(period)
	out[period-1] = seed

	k := 2.0 / (float64(period) + 1.0)
	prev := seed
	for i := period; i < len(values); i++ {
		prev = (values[i]-prev)*k + prev
		out[i] = prev
	}
	return out
}

// MACD parameters, the conventional 12/26/9 setup.
const (
	MACDFast   = 12
	MACDSlow   = 26
	MACDSignal = 9
)

// MACDSeries computes the MACD line, signal line and histogram for every
// index. Entries are NaN until both underlying EMAs (and for the signal,
// its own EMA over the line) have enough history.
func MACDSeries(values []float64) (line, signal, hist []float64) {
	fast := EMASeries(values, MACDFast)
	slow := EMASeries(values, MACDSlow)

	line = nanSlice(len(values))
	for i := range values {
		if !math.IsNaN(fast[i]) && !math.IsNaN(slow[i]) {
			line[i] = fast[i] - slow[i]
		}
	}

	// The signal is an EMA over the defined part of the line.
	signal = nanSlice(len(values))
	hist = nanSlice(len(values))
	start := MACDSlow - 1
	if start >= len(values) {
		return line, signal, hist
	}
	sigDefined := EMASeries(line[start:], MACDSignal)
	for i := range sigDefined {
		signal[start+i] = sigDefined[i]
	}
	for i := range values {
		if !math.IsNaN(line[i]) && !math.IsNaN(signal[i]) {
			hist[i] = line[i] - signal[i]
		}
	}
	return line, signal, hist
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
