package telegram

import (
	"context"
	"fmt"

	"algo-trading-system-go/internal/config"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.telegram.org"

// Alerter is the chat side of the pipeline. Send blocks until delivery
// has been attempted; delivery failures are logged, never returned, so a
// broken bot can't take the run down with it.
type Alerter interface {
	Send(ctx context.Context, message string)
}

// Client sends alerts through the Telegram Bot API. It implements the
// Alerter interface.
type Client struct {
	client   *resty.Client
	botToken string
	chatID   string
	logger   *zap.Logger
}

// ensure Client implements the interface
var _ Alerter = (*Client)(nil)

// NewClient creates a new Telegram alerter.
func NewClient(cfg *config.Telegram, logger *zap.Logger) *Client {
	return &Client{
		client:   resty.New().SetBaseURL(defaultBaseURL),
		botToken: cfg.BotToken,
		chatID:   cfg.ChatID,
		logger:   logger.Named("telegram"),
	}
}

// Configured reports whether both credentials are present.
func (c *Client) Configured() bool {
	return c.botToken != "" && c.chatID != ""
}

// Send posts one message to the configured chat. With missing credentials
// it warns and does nothing.
func (c *Client) Send(ctx context.Context, message string) {
	if !c.Configured() {
		c.logger.Warn("Telegram bot token or chat ID is not configured, skipping alert")
		return
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{
			"chat_id": c.chatID,
			"text":    message,
		}).
		Post(fmt.Sprintf("/bot%s/sendMessage", c.botToken))

	if err != nil {
		c.logger.Error("Failed to send Telegram alert", zap.Error(err))
		return
	}
	if resp.IsError() {
		c.logger.Error("Telegram API rejected alert",
			zap.String("status", resp.Status()),
			zap.String("body", resp.String()))
		return
	}
	c.logger.Debug("Telegram alert sent", zap.Int("length", len(message)))
}
