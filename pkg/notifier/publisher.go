// Package notifier delivers the generated daily image to chat channels.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dailyimage/pkg/logger"
	"dailyimage/pkg/wechat"

	"go.uber.org/zap"
)

// Summary is the text sent along with the image
type Summary struct {
	Date         string
	Weekday      string
	Lunar        string
	ProgressText string
	PoemTitle    string
	PoemContent  string
	PoemAuthor   string
	Fallback     bool
}

// Caption renders the summary as plain text
func (s Summary) Caption() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n%s\n%s\n\n", s.Date, s.Weekday, s.Lunar, s.ProgressText)
	fmt.Fprintf(&b, "%s\n%s\n--- %s", s.PoemTitle, s.PoemContent, s.PoemAuthor)
	return b.String()
}

// Daily is one generated image ready to deliver
type Daily struct {
	FileName string
	Image    []byte
	Summary  Summary
}

// Channel delivers a daily image somewhere
type Channel interface {
	Name() string
	SendDaily(ctx context.Context, d *Daily) error
}

// WeChatChannel adapts the WeChat Work robot client
type WeChatChannel struct {
	Client *wechat.Client
}

func (w WeChatChannel) Name() string {
	return w.Client.Name()
}

func (w WeChatChannel) SendDaily(ctx context.Context, d *Daily) error {
	s := d.Summary
	return w.Client.SendDaily(ctx, d.Image, &wechat.DailySummary{
		Date:         s.Date,
		Weekday:      s.Weekday,
		Lunar:        s.Lunar,
		ProgressText: s.ProgressText,
		PoemTitle:    s.PoemTitle,
		PoemContent:  s.PoemContent,
		PoemAuthor:   s.PoemAuthor,
		Fallback:     s.Fallback,
	})
}

// Publisher fans one image out to every channel. A failing channel does not
// stop the others; all failures are joined into the returned error.
type Publisher struct {
	channels []Channel
}

// NewPublisher creates a publisher over the given channels
func NewPublisher(channels ...Channel) *Publisher {
	return &Publisher{channels: channels}
}

// Add registers another channel
func (p *Publisher) Add(c Channel) {
	p.channels = append(p.channels, c)
}

// Len returns the number of channels
func (p *Publisher) Len() int {
	return len(p.channels)
}

// Publish sends d to every channel
func (p *Publisher) Publish(ctx context.Context, d *Daily) error {
	if len(p.channels) == 0 {
		logger.FromContext(ctx).Debug("no notification channels enabled")
		return nil
	}

	var errs []error
	for _, c := range p.channels {
		start := time.Now()
		if err := c.SendDaily(ctx, d); err != nil {
			logger.FromContext(ctx).Error("推送每日图片失败",
				zap.String("channel", c.Name()),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", c.Name(), err))
			continue
		}
		logger.FromContext(ctx).Info("推送每日图片成功",
			zap.String("channel", c.Name()),
			zap.Duration("elapsed", time.Since(start)))
	}
	return errors.Join(errs...)
}
