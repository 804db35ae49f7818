package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	// 测试默认配置
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err != nil {
		t.Fatalf("Failed to load default config: %v", err)
	}

	if cfg.Poem == nil || cfg.Poem.Endpoint != DefaultPoemEndpoint {
		t.Fatalf("expected default poem endpoint, got %+v", cfg.Poem)
	}
	if !cfg.Poem.InsecureSkipVerify {
		t.Error("TLS verification should be skipped by default")
	}
	if cfg.Poem.Timeout != DefaultPoemTimeout {
		t.Errorf("expected timeout %d, got %d", DefaultPoemTimeout, cfg.Poem.Timeout)
	}
	if cfg.Generator.FontPath != DefaultFontPath {
		t.Errorf("expected font path %s, got %s", DefaultFontPath, cfg.Generator.FontPath)
	}
	if err := cfg.ValidateConfig(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	tempFile := filepath.Join(t.TempDir(), "test_config.yaml")

	original := Default()
	original.App.LogLevel = "debug"
	original.Generator.OutputDir = "/tmp/daily"
	original.Scheduler.Cron = "30 6 * * *"
	original.WeChat.Enabled = true
	original.WeChat.WebhookURL = "https://qyapi.weixin.qq.com/cgi-bin/webhook/send?key=x"

	if err := SaveConfig(original, tempFile); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	loaded, err := LoadConfig(tempFile)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if loaded.App.LogLevel != "debug" {
		t.Errorf("Expected log level debug, got %s", loaded.App.LogLevel)
	}
	if loaded.Generator.OutputDir != "/tmp/daily" {
		t.Errorf("Expected output dir /tmp/daily, got %s", loaded.Generator.OutputDir)
	}
	if loaded.Scheduler.Cron != "30 6 * * *" {
		t.Errorf("Expected cron 30 6 * * *, got %s", loaded.Scheduler.Cron)
	}
	if !loaded.WeChat.Enabled || loaded.WeChat.WebhookURL != original.WeChat.WebhookURL {
		t.Errorf("WeChat config not round-tripped: %+v", loaded.WeChat)
	}
}

func TestPartialYAMLKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "poem:\n  timeout: 3\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Poem.Timeout != 3 {
		t.Errorf("expected timeout 3, got %d", cfg.Poem.Timeout)
	}
	if cfg.Poem.Endpoint != DefaultPoemEndpoint {
		t.Errorf("endpoint default lost: %q", cfg.Poem.Endpoint)
	}
	if !cfg.Poem.InsecureSkipVerify {
		t.Error("insecure_skip_verify default lost")
	}
	if cfg.Scheduler == nil || cfg.Scheduler.Cron != DefaultCron {
		t.Errorf("scheduler default lost: %+v", cfg.Scheduler)
	}
}

func TestUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("x = 1"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("expected ErrInvalidFormat, got %v", err)
	}
}

func TestConfigWithEnvVars(t *testing.T) {
	t.Setenv("POEM_ENDPOINT", "http://127.0.0.1:9999/one.json")
	t.Setenv("POEM_INSECURE_SKIP_VERIFY", "false")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("WECHAT_MENTION_USERS", "alice, bob,,")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Poem.Endpoint != "http://127.0.0.1:9999/one.json" {
		t.Errorf("Expected env endpoint, got %s", cfg.Poem.Endpoint)
	}
	if cfg.Poem.InsecureSkipVerify {
		t.Error("Expected POEM_INSECURE_SKIP_VERIFY=false to win")
	}
	if cfg.App.LogLevel != "debug" {
		t.Errorf("Expected log level debug, got %s", cfg.App.LogLevel)
	}
	if len(cfg.WeChat.MentionUsers) != 2 || cfg.WeChat.MentionUsers[1] != "bob" {
		t.Errorf("unexpected mention users %v", cfg.WeChat.MentionUsers)
	}
}

func TestValidateConfig(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		want    error
		section error
	}{
		{"bad cron", func(c *Config) { c.Scheduler.Cron = "every day" }, ErrInvalidCron, ErrSchedulerConfig},
		{"disabled scheduler ignores cron", func(c *Config) { c.Scheduler.Enabled = false; c.Scheduler.Cron = "nope" }, nil, nil},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, ErrInvalidValue, ErrServerConfig},
		{"wechat without url", func(c *Config) { c.WeChat.Enabled = true }, ErrMissingRequired, ErrWeChatConfig},
		{"telegram without chat", func(c *Config) { c.Telegram.Enabled = true; c.Telegram.BotToken = "t" }, ErrMissingRequired, ErrTelegramConfig},
		{"bad endpoint", func(c *Config) { c.Poem.Endpoint = "not a url" }, ErrInvalidValue, ErrPoemConfig},
		{"bad timezone", func(c *Config) { c.App.Timezone = "Mars/Olympus" }, ErrInvalidValue, nil},
		{"bad log level", func(c *Config) { c.App.LogLevel = "loud" }, ErrInvalidValue, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.ValidateConfig()
			if tc.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if tc.section != nil && !errors.Is(err, tc.section) {
				t.Errorf("expected section error %v, got %v", tc.section, err)
			}
		})
	}
}
