package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"dailyimage/pkg/logger"

	"go.uber.org/zap"
)

const (
	defaultTelegramAPI = "https://api.telegram.org"
	// captions longer than this are rejected by sendPhoto
	maxCaptionLength = 1024
)

// ErrTelegramNotConfigured is returned when the token or chat is missing
var ErrTelegramNotConfigured = errors.New("telegram bot token or chat ID not configured")

// TelegramConfig represents Telegram notification configuration
type TelegramConfig struct {
	Enabled  bool   `json:"enabled"`
	BotToken string `json:"bot_token"`
	ChatID   string `json:"chat_id"`
	Timeout  int    `json:"timeout"`
	APIBase  string `json:"api_base,omitempty"`
}

// TelegramNotifier handles Telegram notifications
type TelegramNotifier struct {
	config     *TelegramConfig
	httpClient *http.Client
}

// TelegramMessage represents a message to be sent via Telegram
type TelegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

// TelegramResponse represents Telegram API response
type TelegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
	ErrorCode   int    `json:"error_code,omitempty"`
}

// TelegramAPIError is a response with ok=false
type TelegramAPIError struct {
	Code        int
	Description string
}

func (e *TelegramAPIError) Error() string {
	return fmt.Sprintf("telegram API error: %s (code: %d)", e.Description, e.Code)
}

// NewTelegramNotifier creates a new Telegram notifier
func NewTelegramNotifier(config *TelegramConfig) *TelegramNotifier {
	if config.Timeout <= 0 {
		config.Timeout = 30
	}
	if config.APIBase == "" {
		config.APIBase = defaultTelegramAPI
	}
	return &TelegramNotifier{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.Timeout) * time.Second,
		},
	}
}

// Name identifies the channel in logs
func (t *TelegramNotifier) Name() string {
	return "telegram"
}

// Enabled reports whether the channel should be used
func (t *TelegramNotifier) Enabled() bool {
	return t.config.Enabled
}

// SendMessage sends a text message via Telegram
func (t *TelegramNotifier) SendMessage(ctx context.Context, message string) error {
	if err := t.ValidateConfig(); err != nil {
		return err
	}

	body, err := json.Marshal(TelegramMessage{
		ChatID:    t.config.ChatID,
		Text:      message,
		ParseMode: "Markdown",
	})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	return t.post(ctx, "sendMessage", "application/json", bytes.NewReader(body))
}

// SendPhoto uploads an image with an optional caption
func (t *TelegramNotifier) SendPhoto(ctx context.Context, filename string, image []byte, caption string) error {
	if err := t.ValidateConfig(); err != nil {
		return err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("chat_id", t.config.ChatID); err != nil {
		return fmt.Errorf("failed to build form: %w", err)
	}
	if caption != "" {
		if err := mw.WriteField("caption", truncateRunes(caption, maxCaptionLength)); err != nil {
			return fmt.Errorf("failed to build form: %w", err)
		}
	}
	part, err := mw.CreateFormFile("photo", filename)
	if err != nil {
		return fmt.Errorf("failed to build form: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return fmt.Errorf("failed to build form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to build form: %w", err)
	}

	logger.FromContext(ctx).Debug("Sending Telegram photo",
		zap.String("chat_id", t.config.ChatID),
		zap.String("filename", filename),
		zap.Int("bytes", len(image)))

	return t.post(ctx, "sendPhoto", mw.FormDataContentType(), &buf)
}

// SendDaily uploads the daily image captioned with its summary
func (t *TelegramNotifier) SendDaily(ctx context.Context, d *Daily) error {
	return t.SendPhoto(ctx, d.FileName, d.Image, d.Summary.Caption())
}

func (t *TelegramNotifier) post(ctx context.Context, method, contentType string, body io.Reader) error {
	url := fmt.Sprintf("%s/bot%s/%s", strings.TrimRight(t.config.APIBase, "/"), t.config.BotToken, method)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	var telegramResp TelegramResponse
	if err := json.NewDecoder(resp.Body).Decode(&telegramResp); err != nil {
		return fmt.Errorf("failed to decode response (HTTP %d): %w", resp.StatusCode, err)
	}

	if !telegramResp.OK {
		return &TelegramAPIError{Code: telegramResp.ErrorCode, Description: telegramResp.Description}
	}

	logger.FromContext(ctx).Info("Telegram message sent successfully", zap.String("method", method))
	return nil
}

// ValidateConfig validates Telegram configuration
func (t *TelegramNotifier) ValidateConfig() error {
	if t.config.BotToken == "" || t.config.ChatID == "" {
		return ErrTelegramNotConfigured
	}
	return nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
