package config

import (
	"fmt"
	"net/url"
	"time"
	_ "time/tzdata"

	"github.com/robfig/cron/v3"
)

// ValidateConfig 验证完整的配置
func (c *Config) ValidateConfig() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Generator.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrGeneratorConfig, err)
	}
	if err := c.Poem.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrPoemConfig, err)
	}
	if err := c.Scheduler.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrSchedulerConfig, err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrServerConfig, err)
	}
	if err := c.WeChat.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrWeChatConfig, err)
	}
	if err := c.Telegram.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrTelegramConfig, err)
	}
	return nil
}

// Validate validates application configuration
func (ac *AppConfig) Validate() error {
	if ac.LogLevel != "" {
		validLevels := []string{"debug", "info", "warn", "error", "fatal"}
		if !isValidValue(ac.LogLevel, validLevels) {
			return fmt.Errorf("%w: log_level必须是%v之一", ErrInvalidValue, validLevels)
		}
	}
	if _, err := ac.Location(); err != nil {
		return fmt.Errorf("%w: timezone %q: %v", ErrInvalidValue, ac.Timezone, err)
	}
	return nil
}

// Location resolves the configured time zone, local time when empty
func (ac *AppConfig) Location() (*time.Location, error) {
	if ac.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(ac.Timezone)
}

// Validate 验证生成配置
func (gc *GeneratorConfig) Validate() error {
	if gc.FontPath == "" {
		return fmt.Errorf("%w: font_path", ErrMissingRequired)
	}
	if gc.JPEGQuality <= 0 || gc.JPEGQuality > 100 {
		gc.JPEGQuality = DefaultJPEGQuality
	}
	return nil
}

// Validate 验证诗词接口配置
func (pc *PoemConfig) Validate() error {
	if pc.Endpoint == "" {
		return fmt.Errorf("%w: endpoint", ErrMissingRequired)
	}
	u, err := url.Parse(pc.Endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: endpoint %q", ErrInvalidValue, pc.Endpoint)
	}
	if pc.Timeout <= 0 {
		pc.Timeout = DefaultPoemTimeout
	}
	return nil
}

// Validate validates the scheduler configuration
func (sc *SchedulerConfig) Validate() error {
	if !sc.Enabled {
		return nil
	}
	if sc.Cron == "" {
		return fmt.Errorf("%w: cron", ErrMissingRequired)
	}
	if _, err := cron.ParseStandard(sc.Cron); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidCron, sc.Cron)
	}
	return nil
}

// Validate validates server configuration
func (sc *ServerConfig) Validate() error {
	if sc.Port <= 0 || sc.Port > 65535 {
		return fmt.Errorf("%w: port必须在1-65535范围内", ErrInvalidValue)
	}
	if sc.Address == "" {
		sc.Address = "0.0.0.0"
	}
	if sc.RenderRateLimit <= 0 {
		sc.RenderRateLimit = 1
	}
	if sc.RenderBurst <= 0 {
		sc.RenderBurst = 1
	}
	return nil
}

// Validate 验证微信配置
func (wc *WeChatConfig) Validate() error {
	if !wc.Enabled {
		return nil
	}
	if wc.WebhookURL == "" {
		return fmt.Errorf("%w: webhook_url", ErrMissingRequired)
	}
	if wc.MaxRetries < 0 {
		wc.MaxRetries = 3
	}
	if wc.RetryDelay <= 0 {
		wc.RetryDelay = 2
	}
	return nil
}

// Validate validates Telegram configuration
func (tc *TelegramConfig) Validate() error {
	if !tc.Enabled {
		return nil
	}
	if tc.BotToken == "" {
		return fmt.Errorf("%w: bot_token", ErrMissingRequired)
	}
	if tc.ChatID == "" {
		return fmt.Errorf("%w: chat_id", ErrMissingRequired)
	}
	if tc.Timeout <= 0 {
		tc.Timeout = 30
	}
	return nil
}

func isValidValue(value string, validValues []string) bool {
	for _, valid := range validValues {
		if value == valid {
			return true
		}
	}
	return false
}
