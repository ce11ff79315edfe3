package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	AlphaVantage AlphaVantage `mapstructure:"alphavantage"`
	Backtest     Backtest     `mapstructure:"backtest"`
	Sheets       Sheets       `mapstructure:"sheets"`
	Telegram     Telegram     `mapstructure:"telegram"`
	ML           ML           `mapstructure:"ml"`
	Logger       Logger       `mapstructure:"logger"`
	Server       Server       `mapstructure:"server"`
	Database     Database     `mapstructure:"database"`
}

// AlphaVantage holds the configuration for the market-data provider.
type AlphaVantage struct {
	ApiKey         string  `mapstructure:"api_key"`
	BaseURL        string  `mapstructure:"base_url"`
	RateLimit      float64 `mapstructure:"rate_limit"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
	MaxRetries     int     `mapstructure:"max_retries"`
	RetryWaitSec   int     `mapstructure:"retry_wait_sec"`
}

// Backtest holds the configuration for the strategy simulation.
type Backtest struct {
	Symbols       []string `mapstructure:"symbols"`
	Strategy      string   `mapstructure:"strategy"`
	LookbackDays  int      `mapstructure:"lookback_days"`
	BreakevenWins bool     `mapstructure:"breakeven_wins"`
}

// Sheets holds the configuration for the Google Sheets reporter.
type Sheets struct {
	SpreadsheetID string `mapstructure:"spreadsheet_id"`
	AccessToken   string `mapstructure:"access_token"`
}

// Telegram holds the configuration for the alert bot.
type Telegram struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

// ML holds the configuration for the bonus classifier pass.
type ML struct {
	Enabled bool `mapstructure:"enabled"`
}

// Server holds the configuration for the results web UI.
type Server struct {
	Port int `mapstructure:"port"`
}

// Database holds the configuration for the optional trade journal.
// An empty DSN disables journaling entirely.
type Database struct {
	DSN string `mapstructure:"dsn"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yml")    // or yaml, json

	// Allow environment variables to override config file
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("alphavantage.base_url", "https://www.alphavantage.co")
	viper.SetDefault("alphavantage.rate_limit", 0.5) // requests per second; free tier allows 5/min
	viper.SetDefault("alphavantage.rate_limit_burst", 1)
	viper.SetDefault("alphavantage.max_retries", 3)
	viper.SetDefault("alphavantage.retry_wait_sec", 60)
	viper.SetDefault("backtest.strategy", "buy-hold")
	viper.SetDefault("backtest.lookback_days", 180)
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")
	viper.SetDefault("server.port", 8080)

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
