package ml

import (
	"math"

	"algo-trading-system-go/internal/indicators"
	"algo-trading-system-go/internal/market"
	"go.uber.org/zap"
)

// Feature order inside a sample vector.
var featureNames = []string{"rsi14", "macd", "macd_signal", "macd_hist", "volume"}

// Training knobs. Fixed rather than configurable: the bonus path only
// needs a deterministic, reproducible baseline.
const (
	minSamples   = 10
	testFraction = 0.2
	epochs       = 200
	learningRate = 0.1
)

// Model is a logistic-regression classifier over standardized indicator
// features, predicting whether the next day's close will be higher.
type Model struct {
	weights []float64
	bias    float64
	means   []float64
	stds    []float64
}

// Predict returns 1 for "next close up", 0 otherwise.
func (m *Model) Predict(features []float64) int {
	z := m.bias
	for i, w := range m.weights {
		z += w * m.standardize(i, features[i])
	}
	if sigmoid(z) >= 0.5 {
		return 1
	}
	return 0
}

func (m *Model) standardize(i int, v float64) float64 {
	return (v - m.means[i]) / m.stds[i]
}

// Trainer builds and evaluates per-symbol models.
type Trainer struct {
	logger *zap.Logger
}

// NewTrainer creates a Trainer.
func NewTrainer(logger *zap.Logger) *Trainer {
	return &Trainer{logger: logger.Named("ml")}
}

// TrainAndEvaluate derives RSI-14 and MACD features from the raw series,
// labels each bar with the next day's direction, fits a classifier on the
// chronologically earlier 80% and reports accuracy on the held-out tail.
//
// A (nil, 0, nil) return means "skipped": the series was too thin to
// produce a meaningful split. That is not an error.
func (t *Trainer) TrainAndEvaluate(symbol string, series market.PriceSeries) (*Model, float64, error) {
	if err := series.Validate(); err != nil {
		return nil, 0, err
	}

	samples, labels := buildSamples(series)
	if len(samples) < minSamples {
		t.logger.Warn("Not enough samples for training, skipping",
			zap.String("symbol", symbol),
			zap.Int("samples", len(samples)))
		return nil, 0, nil
	}

	split := len(samples) - int(float64(len(samples))*testFraction)
	if split <= 0 || split >= len(samples) {
		t.logger.Warn("Degenerate train/test split, skipping", zap.String("symbol", symbol))
		return nil, 0, nil
	}
	trainX, testX := samples[:split], samples[split:]
	trainY, testY := labels[:split], labels[split:]

	model := fit(trainX, trainY)

	correct := 0
	for i, x := range testX {
		if model.Predict(x) == testY[i] {
			correct++
		}
	}
	accuracy := float64(correct) / float64(len(testX))

	t.logger.Info("Classifier trained",
		zap.String("symbol", symbol),
		zap.Int("train_samples", len(trainX)),
		zap.Int("test_samples", len(testX)),
		zap.Float64("accuracy", accuracy))

	return model, accuracy, nil
}

// buildSamples produces one feature vector per bar where every feature is
// defined and a next-day label exists.
func buildSamples(series market.PriceSeries) ([][]float64, []int) {
	closes := series.Closes()
	rsi := indicators.RSISeries(closes, indicators.RSIPeriod)
	macd, signal, hist := indicators.MACDSeries(closes)

	var samples [][]float64
	var labels []int
	for i := 0; i < len(series)-1; i++ {
		row := []float64{rsi[i], macd[i], signal[i], hist[i], series[i].Volume}
		if hasNaN(row) {
			continue
		}
		samples = append(samples, row)
		if closes[i+1] > closes[i] {
			labels = append(labels, 1)
		} else {
			labels = append(labels, 0)
		}
	}
	return samples, labels
}

// fit runs plain batch gradient descent on standardized features.
func fit(samples [][]float64, labels []int) *Model {
	n := len(featureNames)
	model := &Model{
		weights: make([]float64, n),
		means:   make([]float64, n),
		stds:    make([]float64, n),
	}

	for j := 0; j < n; j++ {
		sum := 0.0
		for _, x := range samples {
			sum += x[j]
		}
		model.means[j] = sum / float64(len(samples))

		variance := 0.0
		for _, x := range samples {
			d := x[j] - model.means[j]
			variance += d * d
		}
		model.stds[j] = math.Sqrt(variance / float64(len(samples)))
		if model.stds[j] == 0 {
			model.stds[j] = 1 // constant feature carries no signal
		}
	}

	scaled := make([][]float64, len(samples))
	for i, x := range samples {
		row := make([]float64, n)
		for j := range row {
			row[j] = (x[j] - model.means[j]) / model.stds[j]
		}
		scaled[i] = row
	}

	m := float64(len(scaled))
	for epoch := 0; epoch < epochs; epoch++ {
		gradW := make([]float64, n)
		gradB := 0.0
		for i, x := range scaled {
			z := model.bias
			for j, w := range model.weights {
				z += w * x[j]
			}
			err := sigmoid(z) - float64(labels[i])
			for j := range gradW {
				gradW[j] += err * x[j]
			}
			gradB += err
		}
		for j := range model.weights {
			model.weights[j] -= learningRate * gradW[j] / m
		}
		model.bias -= learningRate * gradB / m
	}
	return model
}

func hasNaN(row []float64) bool {
	for _, v := range row {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}
