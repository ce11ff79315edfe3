package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"algo-trading-system-go/internal/alphavantage"
	"algo-trading-system-go/internal/backtest"
	"algo-trading-system-go/internal/config"
	"algo-trading-system-go/internal/database"
	"algo-trading-system-go/internal/logger"
	"algo-trading-system-go/internal/ml"
	"algo-trading-system-go/internal/runner"
	"algo-trading-system-go/internal/sheets"
	"algo-trading-system-go/internal/telegram"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	// Load application configuration
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		// We can't use the logger here because it's not initialized yet.
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	log.Info("Configuration loaded")

	// Initialize the optional trade journal
	var db *gorm.DB
	if cfg.Database.DSN != "" {
		db, err = database.NewDatabase(cfg.Database.DSN)
		if err != nil {
			log.Fatal("Failed to open journal database", zap.Error(err))
		}
		log.Info("Journal database ready", zap.String("dsn", cfg.Database.DSN))
	} else {
		log.Info("No journal DSN configured, results will not be persisted")
	}

	// Resolve the backtest strategy before doing any network work.
	strategy, err := backtest.NewStrategy(cfg.Backtest.Strategy)
	if err != nil {
		log.Fatal("Invalid backtest strategy", zap.Error(err))
	}
	simulator := backtest.NewSimulator(log, strategy)
	simulator.BreakevenWins = cfg.Backtest.BreakevenWins

	provider := alphavantage.NewClient(&cfg.AlphaVantage, log)
	reporter := sheets.NewClient(&cfg.Sheets, log)
	alerter := telegram.NewClient(&cfg.Telegram, log)

	var trainer runner.Trainer
	if cfg.ML.Enabled {
		trainer = ml.NewTrainer(log)
	}

	// Setup context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sigchan := make(chan os.Signal, 1)
		signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)
		<-sigchan
		log.Info("Shutdown signal received, cancelling run...")
		cancel()
	}()

	run := runner.New(log, &cfg, provider, simulator, reporter, alerter, trainer, db)
	if err := run.Run(ctx); err != nil {
		if errors.Is(err, runner.ErrNoUsableData) {
			log.Error("Run aborted: no usable data", zap.Error(err))
		} else {
			log.Error("Run failed", zap.Error(err))
		}
		os.Exit(1)
	}

	log.Info("Run completed.")
}
