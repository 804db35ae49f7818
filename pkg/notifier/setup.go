package notifier

import (
	"path/filepath"
	"time"

	"dailyimage/pkg/config"
	"dailyimage/pkg/daily"
	"dailyimage/pkg/utils/dateutils"
	"dailyimage/pkg/wechat"
)

// FromConfig builds a publisher with every enabled channel
func FromConfig(cfg *config.Config) *Publisher {
	p := NewPublisher()

	if wc := cfg.WeChat; wc != nil && wc.Enabled {
		p.Add(WeChatChannel{Client: wechat.NewClient(&wechat.Config{
			WebhookURL:   wc.WebhookURL,
			MaxRetries:   wc.MaxRetries,
			RetryDelay:   time.Duration(wc.RetryDelay) * time.Second,
			MentionUsers: wc.MentionUsers,
		})})
	}

	if tg := cfg.Telegram; tg != nil && tg.Enabled {
		p.Add(NewTelegramNotifier(&TelegramConfig{
			Enabled:  tg.Enabled,
			BotToken: tg.BotToken,
			ChatID:   tg.ChatID,
			Timeout:  tg.Timeout,
		}))
	}
	return p
}

// FromResult packages a generation result for delivery
func FromResult(res *daily.Result) *Daily {
	rc := res.Context
	return &Daily{
		FileName: filepath.Base(res.Path),
		Image:    res.Bytes,
		Summary: Summary{
			Date:         dateutils.FormatDotted(rc.TargetDate),
			Weekday:      rc.Day.WeekdayName,
			Lunar:        rc.Day.LunarText,
			ProgressText: rc.ProgressText,
			PoemTitle:    rc.Poem.Title,
			PoemContent:  rc.Poem.Content,
			PoemAuthor:   rc.Poem.Author,
			Fallback:     rc.PoemResult.Fallback,
		},
	}
}
