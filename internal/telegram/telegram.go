package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"flickr_syncer/internal/domain"
)

// parseMode is fixed: every caption and report this bot sends is MarkdownV2.
const parseMode = "MarkdownV2"

type Config struct {
	BaseURL  string
	BotToken string
	Timeout  time.Duration
}

// Client is a thin Telegram Bot API client covering the three methods the
// sync needs. A non-ok response is fatal for the run and never retried here:
// the metadata is already persisted, so the next scheduled run re-derives
// the publish decision safely.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logger     *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		token:   cfg.BotToken,
		logger:  logger.With("publisher", "telegram"),
	}
}

// SendPhoto publishes a new photo message and returns its message id.
func (c *Client) SendPhoto(ctx context.Context, chatID, photoURL, caption string) (int64, error) {
	params := url.Values{}
	params.Set("chat_id", chatID)
	params.Set("photo", photoURL)
	params.Set("caption", caption)
	params.Set("parse_mode", parseMode)

	return c.call(ctx, "sendPhoto", params)
}

// EditMessageCaption updates the caption of an existing photo message in
// place; the message identity is preserved.
func (c *Client) EditMessageCaption(ctx context.Context, chatID string, messageID int64, caption string) error {
	params := url.Values{}
	params.Set("chat_id", chatID)
	params.Set("message_id", strconv.FormatInt(messageID, 10))
	params.Set("caption", caption)
	params.Set("parse_mode", parseMode)

	_, err := c.call(ctx, "editMessageCaption", params)
	return err
}

// SendMessage sends a plain text message, used for error reports.
func (c *Client) SendMessage(ctx context.Context, chatID, text string) (int64, error) {
	params := url.Values{}
	params.Set("chat_id", chatID)
	params.Set("text", text)
	params.Set("parse_mode", parseMode)

	return c.call(ctx, "sendMessage", params)
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
	Result      struct {
		MessageID int64 `json:"message_id"`
	} `json:"result"`
}

func (c *Client) call(ctx context.Context, method string, params url.Values) (int64, error) {
	endpoint := fmt.Sprintf("%s/bot%s/%s?%s", c.baseURL, c.token, method, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, domain.E(domain.KindPublishAPI, "telegram api error: create request: %v (%s)", err, method)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, domain.E(domain.KindPublishAPI, "telegram api error: %v (%s)", err, method)
	}
	defer resp.Body.Close()

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return 0, domain.E(domain.KindPublishAPI, "telegram api error: decode response: %v (%s)", err, method)
	}
	if !apiResp.OK {
		return 0, domain.E(domain.KindPublishAPI, "telegram api error: %s (%s)", apiResp.Description, method)
	}

	c.logger.Debug("telegram call ok", "method", method, "message_id", apiResp.Result.MessageID)

	return apiResp.Result.MessageID, nil
}
