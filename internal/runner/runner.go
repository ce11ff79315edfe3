package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"algo-trading-system-go/internal/alphavantage"
	"algo-trading-system-go/internal/backtest"
	"algo-trading-system-go/internal/config"
	"algo-trading-system-go/internal/database"
	"algo-trading-system-go/internal/market"
	"algo-trading-system-go/internal/ml"
	"algo-trading-system-go/internal/sheets"
	"algo-trading-system-go/internal/telegram"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNoUsableData aborts a run when not a single symbol produced data.
// Anything less than that is logged and worked around per symbol.
var ErrNoUsableData = errors.New("runner: no usable data for any symbol")

// Trainer is the classifier collaborator. A (nil, 0, nil) return means
// the symbol was skipped, not that training failed.
type Trainer interface {
	TrainAndEvaluate(symbol string, series market.PriceSeries) (*ml.Model, float64, error)
}

// symbolData pairs a symbol with its fetched, lookback-trimmed series.
type symbolData struct {
	Symbol string
	Series market.PriceSeries
}

// Runner sequences one full pipeline run: fetch, backtest, report,
// journal, classify, alert. Symbols are processed strictly in the
// configured order, one at a time.
type Runner struct {
	logger    *zap.Logger
	cfg       *config.Config
	provider  alphavantage.ClientInterface
	simulator *backtest.Simulator
	reporter  sheets.Reporter
	alerter   telegram.Alerter
	trainer   Trainer
	db        *gorm.DB // nil disables journaling

	now func() time.Time
}

// New creates a Runner. db and trainer may be nil to disable the journal
// and the classifier pass respectively.
func New(
	logger *zap.Logger,
	cfg *config.Config,
	provider alphavantage.ClientInterface,
	simulator *backtest.Simulator,
	reporter sheets.Reporter,
	alerter telegram.Alerter,
	trainer Trainer,
	db *gorm.DB,
) *Runner {
	return &Runner{
		logger:    logger.Named("runner"),
		cfg:       cfg,
		provider:  provider,
		simulator: simulator,
		reporter:  reporter,
		alerter:   alerter,
		trainer:   trainer,
		db:        db,
		now:       time.Now,
	}
}

// Run executes the pipeline once. Per-symbol and reporting failures are
// logged and alerted but never abort the batch; only a total absence of
// usable data does.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("Starting algo trading system run",
		zap.Strings("symbols", r.cfg.Backtest.Symbols),
		zap.String("strategy", r.cfg.Backtest.Strategy))

	// Step 1: data ingestion.
	entries := r.fetchAll(ctx)
	if len(entries) == 0 {
		r.logger.Error("Failed to fetch any stock data, aborting run")
		r.alerter.Send(ctx, "Algo trading system: failed to fetch stock data. Check API key and connectivity.")
		return ErrNoUsableData
	}
	r.logger.Info("Fetched data", zap.Int("symbols", len(entries)))

	// Step 2: backtests.
	results := make([]backtest.Result, 0, len(entries))
	for _, entry := range entries {
		if len(entry.Series) == 0 {
			r.logger.Warn("Skipping backtest: series is empty", zap.String("symbol", entry.Symbol))
			continue
		}

		result, err := r.simulator.Run(entry.Symbol, entry.Series)
		if err != nil {
			r.logger.Error("Backtest failed", zap.String("symbol", entry.Symbol), zap.Error(err))
			continue
		}
		results = append(results, result)

		if result.TotalTrades > 0 {
			r.alerter.Send(ctx, fmt.Sprintf(
				"Backtest for %s completed.\nTotal P&L: %.2f\nWin ratio: %.2f%%\nTotal trades: %d",
				result.Symbol, result.TotalPnL, result.WinRatio, result.TotalTrades))
		}
	}

	if len(results) == 0 {
		r.logger.Warn("No backtest results generated for any symbol")
		r.alerter.Send(ctx, "Algo trading system: no backtest results generated.")
		return ErrNoUsableData
	}

	// Step 3: spreadsheet reporting. Failure is logged, not fatal.
	if err := r.reporter.Write(ctx, results); err != nil {
		r.logger.Error("Failed to update spreadsheet", zap.Error(err))
		r.alerter.Send(ctx, fmt.Sprintf("Algo trading system: error updating spreadsheet: %v", err))
	} else {
		r.logger.Info("Spreadsheet updated", zap.Int("results", len(results)))
		r.alerter.Send(ctx, "Algo trading system: spreadsheet updated with backtest results.")
	}

	// Step 4: journal (optional).
	if r.db != nil {
		runID := r.now().UTC().Format("20060102T150405Z")
		if err := database.SaveResults(r.db, runID, results); err != nil {
			r.logger.Error("Failed to journal results", zap.String("run_id", runID), zap.Error(err))
		} else {
			r.logger.Info("Results journaled", zap.String("run_id", runID))
		}
	}

	// Step 5: classifier pass (bonus, optional).
	if r.cfg.ML.Enabled && r.trainer != nil {
		r.trainAll(ctx, entries)
	}

	r.logger.Info("Algo trading system run finished")
	r.alerter.Send(ctx, "Algo trading system: all steps completed.")
	return nil
}

// fetchAll retrieves and trims the series for every configured symbol,
// preserving configuration order. Fetch failures drop the symbol from
// the run, nothing more.
func (r *Runner) fetchAll(ctx context.Context) []symbolData {
	cutoff := r.now().AddDate(0, 0, -r.cfg.Backtest.LookbackDays)

	var entries []symbolData
	for _, symbol := range r.cfg.Backtest.Symbols {
		series, err := r.provider.FetchDailySeries(ctx, symbol)
		switch {
		case errors.Is(err, alphavantage.ErrNoData):
			r.logger.Warn("No data for symbol, skipping", zap.String("symbol", symbol))
			continue
		case err != nil:
			r.logger.Error("Failed to fetch symbol", zap.String("symbol", symbol), zap.Error(err))
			r.alerter.Send(ctx, fmt.Sprintf("Algo trading system: failed to fetch data for %s: %v", symbol, err))
			continue
		}

		trimmed := series.Since(cutoff)
		if len(trimmed) == 0 {
			r.logger.Warn("No bars inside lookback window",
				zap.String("symbol", symbol),
				zap.Int("lookback_days", r.cfg.Backtest.LookbackDays))
		} else {
			r.logger.Info("Trimmed series to lookback window",
				zap.String("symbol", symbol),
				zap.Int("bars", len(trimmed)))
		}
		entries = append(entries, symbolData{Symbol: symbol, Series: trimmed})
	}
	return entries
}

// trainAll runs the classifier for every symbol that has data and alerts
// each outcome. Classifier errors never abort the run.
func (r *Runner) trainAll(ctx context.Context, entries []symbolData) {
	for _, entry := range entries {
		if len(entry.Series) == 0 {
			r.logger.Warn("Skipping classifier: series is empty", zap.String("symbol", entry.Symbol))
			continue
		}

		model, accuracy, err := r.trainer.TrainAndEvaluate(entry.Symbol, entry.Series)
		switch {
		case err != nil:
			r.logger.Error("Classifier training failed", zap.String("symbol", entry.Symbol), zap.Error(err))
			r.alerter.Send(ctx, fmt.Sprintf("Algo trading system: classifier error for %s: %v", entry.Symbol, err))
		case model == nil:
			r.logger.Warn("Classifier training skipped", zap.String("symbol", entry.Symbol))
			r.alerter.Send(ctx, fmt.Sprintf("Classifier training skipped for %s.", entry.Symbol))
		default:
			r.logger.Info("Classifier trained",
				zap.String("symbol", entry.Symbol),
				zap.Float64("accuracy", accuracy))
			r.alerter.Send(ctx, fmt.Sprintf("Classifier for %s trained. Accuracy: %.2f", entry.Symbol, accuracy))
		}
	}
}
