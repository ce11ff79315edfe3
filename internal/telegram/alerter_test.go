package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestClient(serverURL, token, chatID string) *Client {
	return &Client{
		client:   resty.New().SetBaseURL(serverURL),
		botToken: token,
		chatID:   chatID,
		logger:   zap.NewNop(),
	}
}

func TestSend_PostsMessage(t *testing.T) {
	// Arrange
	var gotPath string
	var gotBody map[string]string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"ok": true}`))
	})
	server := httptest.NewServer(handler)
	defer server.Close()

	c := newTestClient(server.URL, "bot-token", "42")

	// Act
	c.Send(context.Background(), "Backtest for RELIANCE.BSE completed")

	// Assert
	assert.Equal(t, "/botbot-token/sendMessage", gotPath)
	assert.Equal(t, "42", gotBody["chat_id"])
	assert.Equal(t, "Backtest for RELIANCE.BSE completed", gotBody["text"])
}

func TestSend_UnconfiguredIsNoOp(t *testing.T) {
	// Arrange: any request to the server would fail the test.
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected when credentials are missing")
	})
	server := httptest.NewServer(handler)
	defer server.Close()

	testCases := []struct {
		name   string
		token  string
		chatID string
	}{
		{name: "missing token", token: "", chatID: "42"},
		{name: "missing chat id", token: "bot-token", chatID: ""},
		{name: "missing both", token: "", chatID: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(server.URL, tc.token, tc.chatID)
			assert.False(t, c.Configured())

			// Act: must not reach the server and must not panic.
			c.Send(context.Background(), "ignored")
		})
	}
}

func TestSend_DeliveryFailureIsSwallowed(t *testing.T) {
	// Arrange
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"ok": false, "description": "Unauthorized"}`))
	})
	server := httptest.NewServer(handler)
	defer server.Close()

	c := newTestClient(server.URL, "bad-token", "42")

	// Act: the failure is logged, not raised.
	c.Send(context.Background(), "hello")
}

func TestSend_TransportFailureIsSwallowed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	c := newTestClient(server.URL, "bot-token", "42")

	c.Send(context.Background(), "hello")
}
