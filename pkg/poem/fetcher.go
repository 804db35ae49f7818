// Package poem fetches the quotation drawn at the bottom of the daily image.
package poem

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"dailyimage/pkg/logger"

	"go.uber.org/zap"
)

const (
	DefaultEndpoint = "https://v2.jinrishici.com/one.json"
	DefaultTimeout  = 5 * time.Second

	tokenHeader  = "X-User-Token"
	maxBodyBytes = 1 << 20
)

// Source provides a poem for one render. Fetcher is the remote implementation.
type Source interface {
	Fetch(ctx context.Context) Result
}

// Config 诗词接口配置
type Config struct {
	Endpoint           string
	Timeout            time.Duration
	InsecureSkipVerify bool
	Token              string
}

// Fetcher 今日诗词客户端，单次请求，失败时回退到默认诗词
type Fetcher struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

// NewFetcher 创建诗词客户端
func NewFetcher(config *Config) *Fetcher {
	if config == nil {
		config = &Config{InsecureSkipVerify: true}
	}
	endpoint := config.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: config.InsecureSkipVerify} // #nosec G402

	return &Fetcher{
		endpoint: endpoint,
		token:    config.Token,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// Fetch 获取一首诗词。任何失败都返回默认诗词，原因记录在 Result.Reason
func (f *Fetcher) Fetch(ctx context.Context) Result {
	p, err := f.fetch(ctx)
	if err != nil {
		logger.FromContext(ctx).Warn("获取诗词失败，使用默认诗词",
			zap.String("endpoint", f.endpoint),
			zap.Error(err))
		return Result{Poem: Default(), Fallback: true, Reason: err}
	}

	logger.FromContext(ctx).Debug("获取诗词成功",
		zap.String("title", p.Title),
		zap.String("author", p.Author))
	return Result{Poem: p}
}

func (f *Fetcher) fetch(ctx context.Context) (Poem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.endpoint, nil)
	if err != nil {
		return Poem{}, fmt.Errorf("%w: %w", ErrRequest, err)
	}
	req.Header.Set("Accept", "application/json")
	if f.token != "" {
		req.Header.Set(tokenHeader, f.token)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return Poem{}, fmt.Errorf("%w: %w", ErrRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Poem{}, fmt.Errorf("%w: read body: %v", ErrRequest, err)
	}

	if resp.StatusCode != http.StatusOK {
		return Poem{}, &HTTPStatusError{StatusCode: resp.StatusCode, Body: truncate(string(body), 200)}
	}

	var payload oneResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return Poem{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	if payload.Status != "success" {
		return Poem{}, fmt.Errorf("%w: status=%q errCode=%s %s", ErrUnsuccessful, payload.Status, payload.ErrCode, payload.ErrMessage)
	}

	p := Poem{
		Title:   payload.Data.Origin.Title,
		Content: payload.Data.Content,
		Author:  payload.Data.Origin.Author,
	}
	if p.Empty() {
		return Poem{}, ErrEmptyPoem
	}
	return p, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Static always returns the same poem; used when the remote call is disabled
type Static struct {
	Poem Poem
}

func (s Static) Fetch(ctx context.Context) Result {
	if s.Poem.Empty() {
		return Result{Poem: Default(), Fallback: true, Reason: ErrEmptyPoem}
	}
	return Result{Poem: s.Poem}
}
