package ml

import (
	"math"
	"testing"
	"time"

	"algo-trading-system-go/internal/market"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func seriesFromCloses(closes []float64) market.PriceSeries {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make(market.PriceSeries, len(closes))
	for i, c := range closes {
		series[i] = market.PriceBar{
			Date:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 100000 + float64(i),
		}
	}
	return series
}

func TestTrainAndEvaluate_ThinSeriesIsSkipped(t *testing.T) {
	trainer := NewTrainer(zap.NewNop())

	// Too short for MACD features, so no samples survive.
	model, accuracy, err := trainer.TrainAndEvaluate("THIN.BSE", seriesFromCloses([]float64{1, 2, 3}))

	assert.NoError(t, err)
	assert.Nil(t, model)
	assert.Zero(t, accuracy)
}

func TestTrainAndEvaluate_UptrendLearnsAlwaysUp(t *testing.T) {
	trainer := NewTrainer(zap.NewNop())

	closes := make([]float64, 120)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}

	model, accuracy, err := trainer.TrainAndEvaluate("TREND.BSE", seriesFromCloses(closes))

	assert.NoError(t, err)
	assert.NotNil(t, model)
	// Every label in a strict uptrend is "up"; the held-out tail is too.
	assert.InDelta(t, 1.0, accuracy, 1e-9)
}

func TestTrainAndEvaluate_AccuracyWithinBounds(t *testing.T) {
	trainer := NewTrainer(zap.NewNop())

	closes := make([]float64, 150)
	for i := range closes {
		closes[i] = 100 + 15*math.Sin(float64(i)/4) + 0.05*float64(i)
	}

	model, accuracy, err := trainer.TrainAndEvaluate("WAVE.BSE", seriesFromCloses(closes))

	assert.NoError(t, err)
	assert.NotNil(t, model)
	assert.GreaterOrEqual(t, accuracy, 0.0)
	assert.LessOrEqual(t, accuracy, 1.0)
}

func TestTrainAndEvaluate_OutOfOrderSeriesIsAnError(t *testing.T) {
	trainer := NewTrainer(zap.NewNop())

	series := seriesFromCloses(make([]float64, 60))
	series[10].Date = series[5].Date

	_, _, err := trainer.TrainAndEvaluate("BAD.BSE", series)

	assert.Error(t, err)
}

func TestBuildSamples_LabelsAndAlignment(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		if i%2 == 0 {
			closes[i] = 100
		} else {
			closes[i] = 101
		}
	}

	samples, labels := buildSamples(seriesFromCloses(closes))

	assert.Equal(t, len(samples), len(labels))
	assert.NotEmpty(t, samples)
	for _, x := range samples {
		assert.Len(t, x, len(featureNames))
		assert.False(t, hasNaN(x))
	}
	// Even-indexed bars (close 100) are followed by 101: label 1.
	// Odd-indexed bars are followed by 100: label 0.
	up, down := 0, 0
	for _, l := range labels {
		if l == 1 {
			up++
		} else {
			down++
		}
	}
	assert.Greater(t, up, 0)
	assert.Greater(t, down, 0)
}

func TestModel_PredictIsDeterministic(t *testing.T) {
	trainer := NewTrainer(zap.NewNop())

	closes := make([]float64, 100)
	for i := range closes {
		closes[i] = 100 + 10*math.Sin(float64(i)/5)
	}
	model, _, err := trainer.TrainAndEvaluate("DET.BSE", seriesFromCloses(closes))
	assert.NoError(t, err)
	assert.NotNil(t, model)

	features := []float64{55.0, 0.5, 0.3, 0.2, 100000}
	first := model.Predict(features)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, model.Predict(features))
	}
}
