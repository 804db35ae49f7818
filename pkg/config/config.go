package config

import (
	"os"
	"strconv"
	"strings"
)

// 默认值
const (
	DefaultPoemEndpoint = "https://v2.jinrishici.com/one.json"
	DefaultPoemTimeout  = 5 // seconds
	DefaultFontPath     = "assets/fonts/San.ttf"
	DefaultJPEGQuality  = 90
	DefaultCron         = "0 7 * * *"
	DefaultTimezone     = "Asia/Shanghai"
)

// Config 主配置结构体
type Config struct {
	App       *AppConfig       `json:"app" yaml:"app"`
	Generator *GeneratorConfig `json:"generator" yaml:"generator"`
	Poem      *PoemConfig      `json:"poem" yaml:"poem"`
	Scheduler *SchedulerConfig `json:"scheduler" yaml:"scheduler"`
	Server    *ServerConfig    `json:"server" yaml:"server"`
	WeChat    *WeChatConfig    `json:"wechat" yaml:"wechat"`
	Telegram  *TelegramConfig  `json:"telegram" yaml:"telegram"`
}

// AppConfig represents application configuration settings
type AppConfig struct {
	LogLevel    string `json:"log_level" yaml:"log_level"`
	LogFile     string `json:"log_file" yaml:"log_file"`
	Environment string `json:"environment" yaml:"environment"` // development | production
	Timezone    string `json:"timezone" yaml:"timezone"`
}

// GeneratorConfig 图片生成配置
type GeneratorConfig struct {
	OutputDir   string `json:"output_dir" yaml:"output_dir"`   // 为空则写入当前工作目录
	FontPath    string `json:"font_path" yaml:"font_path"`     // TrueType 字体文件
	JPEGQuality int    `json:"jpeg_quality" yaml:"jpeg_quality"`
}

// PoemConfig 今日诗词接口配置
type PoemConfig struct {
	Endpoint           string `json:"endpoint" yaml:"endpoint"`
	Timeout            int    `json:"timeout" yaml:"timeout"` // seconds
	InsecureSkipVerify bool   `json:"insecure_skip_verify" yaml:"insecure_skip_verify"`
	Token              string `json:"token" yaml:"token"`
}

// SchedulerConfig represents the scheduler configuration
type SchedulerConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Cron    string `json:"cron" yaml:"cron"`
	Push    bool   `json:"push" yaml:"push"` // 生成后推送到已启用的通知渠道
}

// ServerConfig represents server configuration settings
type ServerConfig struct {
	Enabled         bool    `json:"enabled" yaml:"enabled"`
	Address         string  `json:"address" yaml:"address"`
	Port            int     `json:"port" yaml:"port"`
	RenderRateLimit float64 `json:"render_rate_limit" yaml:"render_rate_limit"` // renders per second
	RenderBurst     int     `json:"render_burst" yaml:"render_burst"`
}

// WeChatConfig 企业微信机器人配置
type WeChatConfig struct {
	Enabled      bool     `json:"enabled" yaml:"enabled"`
	WebhookURL   string   `json:"webhook_url" yaml:"webhook_url"`
	MentionUsers []string `json:"mention_users" yaml:"mention_users"`
	MaxRetries   int      `json:"max_retries" yaml:"max_retries"`
	RetryDelay   int      `json:"retry_delay" yaml:"retry_delay"` // seconds
}

// TelegramConfig represents Telegram notification configuration
type TelegramConfig struct {
	Enabled  bool   `json:"enabled" yaml:"enabled"`
	BotToken string `json:"bot_token" yaml:"bot_token"`
	ChatID   string `json:"chat_id" yaml:"chat_id"`
	Timeout  int    `json:"timeout" yaml:"timeout"` // seconds
}

// getDefaultConfig 获取默认配置，所有配置项都使用各自的默认值
func getDefaultConfig() *Config {
	return &Config{
		App:       NewAppConfig(),
		Generator: NewGeneratorConfig(),
		Poem:      NewPoemConfig(),
		Scheduler: NewSchedulerConfig(),
		Server:    NewServerConfig(),
		WeChat:    NewWeChatConfig(),
		Telegram:  NewTelegramConfig(),
	}
}

// Default returns a configuration populated with defaults only
func Default() *Config {
	return getDefaultConfig()
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		LogLevel:    "info",
		Environment: "development",
		Timezone:    DefaultTimezone,
	}
}

func NewGeneratorConfig() *GeneratorConfig {
	return &GeneratorConfig{
		FontPath:    DefaultFontPath,
		JPEGQuality: DefaultJPEGQuality,
	}
}

func NewPoemConfig() *PoemConfig {
	return &PoemConfig{
		Endpoint:           DefaultPoemEndpoint,
		Timeout:            DefaultPoemTimeout,
		InsecureSkipVerify: true,
	}
}

func NewSchedulerConfig() *SchedulerConfig {
	return &SchedulerConfig{
		Enabled: true,
		Cron:    DefaultCron,
	}
}

func NewServerConfig() *ServerConfig {
	return &ServerConfig{
		Address:         "0.0.0.0",
		Port:            8080,
		RenderRateLimit: 1,
		RenderBurst:     3,
	}
}

func NewWeChatConfig() *WeChatConfig {
	return &WeChatConfig{
		MaxRetries: 3,
		RetryDelay: 2,
	}
}

func NewTelegramConfig() *TelegramConfig {
	return &TelegramConfig{
		Timeout: 30,
	}
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// lookupEnvBool reports the parsed value and whether the variable was set
func lookupEnvBool(key string) (bool, bool) {
	value := os.Getenv(key)
	if value == "" {
		return false, false
	}
	return value == "true" || value == "1", true
}

func parseStringList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
