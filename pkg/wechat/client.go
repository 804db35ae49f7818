package wechat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"dailyimage/pkg/logger"

	"go.uber.org/zap"
)

// Client 企业微信群机器人客户端
type Client struct {
	webhookURL   string
	httpClient   *http.Client
	maxRetries   int
	retryDelay   time.Duration
	mentionUsers []string
}

// Config 客户端配置
type Config struct {
	WebhookURL   string        `json:"webhook_url"`
	MaxRetries   int           `json:"max_retries"`
	RetryDelay   time.Duration `json:"retry_delay"`
	Timeout      time.Duration `json:"timeout"`
	MentionUsers []string      `json:"mention_users"`
}

// NewClient 创建企业微信客户端
func NewClient(config *Config) *Client {
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	if config.RetryDelay == 0 {
		config.RetryDelay = 2 * time.Second
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &Client{
		webhookURL: config.WebhookURL,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		maxRetries:   config.MaxRetries,
		retryDelay:   config.RetryDelay,
		mentionUsers: config.MentionUsers,
	}
}

// Name identifies the channel in logs
func (c *Client) Name() string {
	return "wechat"
}

// SendText 发送文本消息
func (c *Client) SendText(ctx context.Context, content string) error {
	return c.sendMessage(ctx, BuildTextMessage(content, c.mentionUsers))
}

// SendMarkdown 发送Markdown消息
func (c *Client) SendMarkdown(ctx context.Context, content string) error {
	return c.sendMessage(ctx, BuildMarkdownMessage(content))
}

// SendImage 发送图片消息（JPG/PNG，编码前不超过2MB）
func (c *Client) SendImage(ctx context.Context, data []byte) error {
	msg, err := BuildImageMessage(data)
	if err != nil {
		return err
	}
	return c.sendMessage(ctx, msg)
}

// SendDaily sends the image followed by its summary text
func (c *Client) SendDaily(ctx context.Context, image []byte, summary *DailySummary) error {
	if err := c.SendImage(ctx, image); err != nil {
		return err
	}
	if summary == nil {
		return nil
	}
	return c.SendMarkdown(ctx, FormatDailySummary(summary))
}

// sendMessage 发送消息（带重试）
func (c *Client) sendMessage(ctx context.Context, msg *WebhookMessage) error {
	var lastError error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}

		err := c.doSendMessage(ctx, msg)
		if err == nil {
			return nil
		}

		lastError = err
		if !retryable(err) {
			return err
		}
		if attempt < c.maxRetries {
			logger.FromContext(ctx).Warn("发送企业微信消息失败，稍后重试",
				zap.String("msgtype", string(msg.MsgType)),
				zap.Int("attempt", attempt+1),
				zap.Int("max_retries", c.maxRetries),
				zap.Duration("retry_delay", c.retryDelay),
				zap.Error(err))
		}
	}

	return &RetryError{Attempts: c.maxRetries + 1, LastErr: lastError}
}

// doSendMessage 执行实际的消息发送
func (c *Client) doSendMessage(ctx context.Context, msg *WebhookMessage) error {
	if c.webhookURL == "" {
		return ErrWebhookURLEmpty
	}

	jsonData, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMarshalMessage, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSendRequest, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSendRequest, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSendRequest, err)
	}

	if resp.StatusCode != http.StatusOK {
		return &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(respBody)}
	}

	var webhookResp WebhookResponse
	if err := json.Unmarshal(respBody, &webhookResp); err != nil {
		return fmt.Errorf("%w: %w", ErrUnmarshalResponse, err)
	}

	if !webhookResp.IsSuccess() {
		return &APIError{Code: webhookResp.ErrCode, Message: webhookResp.ErrMsg}
	}

	logger.FromContext(ctx).Debug("企业微信消息发送成功", zap.String("msgtype", string(msg.MsgType)))
	return nil
}
