package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LoadConfig 从指定路径加载配置文件
func LoadConfig(configPath string) (*Config, error) {
	// .env 不存在时忽略
	_ = godotenv.Load()

	if configPath == "" {
		configPath = getDefaultConfigPath()
	}

	config := getDefaultConfig()

	// 如果配置文件不存在，返回默认配置
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		mergeEnvVars(config)
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigNotFound, err)
	}

	ext := filepath.Ext(configPath)
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("%w: JSON parsing failed: %v", ErrInvalidFormat, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("%w: YAML parsing failed: %v", ErrInvalidFormat, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported config file format: %s", ErrInvalidFormat, ext)
	}

	fillMissingSections(config)
	mergeEnvVars(config)
	return config, nil
}

// SaveConfig 保存配置到指定路径
func SaveConfig(config *Config, configPath string) error {
	if configPath == "" {
		configPath = getDefaultConfigPath()
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var data []byte
	var err error

	switch ext := filepath.Ext(configPath); ext {
	case ".json":
		data, err = json.MarshalIndent(config, "", "  ")
	case ".yaml", ".yml":
		data, err = yaml.Marshal(config)
	default:
		return fmt.Errorf("%w: unsupported config file format: %s", ErrInvalidFormat, ext)
	}

	if err != nil {
		return fmt.Errorf("config serialization failed: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// getDefaultConfigPath 获取默认配置文件路径
func getDefaultConfigPath() string {
	// 优先级：当前目录 > 用户配置目录 > 系统配置目录
	paths := []string{
		"./config.yaml",
		"./config.json",
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(homeDir, ".dailyimage", "config.yaml"),
			filepath.Join(homeDir, ".dailyimage", "config.json"),
		)
	}

	paths = append(paths,
		"/etc/dailyimage/config.yaml",
		"/etc/dailyimage/config.json",
	)

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return "./config.yaml"
}

// fillMissingSections 配置文件中显式写为 null 的段落回退到默认值
func fillMissingSections(config *Config) {
	defaults := getDefaultConfig()
	if config.App == nil {
		config.App = defaults.App
	}
	if config.Generator == nil {
		config.Generator = defaults.Generator
	}
	if config.Poem == nil {
		config.Poem = defaults.Poem
	}
	if config.Scheduler == nil {
		config.Scheduler = defaults.Scheduler
	}
	if config.Server == nil {
		config.Server = defaults.Server
	}
	if config.WeChat == nil {
		config.WeChat = defaults.WeChat
	}
	if config.Telegram == nil {
		config.Telegram = defaults.Telegram
	}
}

// mergeEnvVars 将环境变量合并到配置中
func mergeEnvVars(config *Config) {
	mergeAppEnvVars(config.App)
	mergeGeneratorEnvVars(config.Generator)
	mergePoemEnvVars(config.Poem)
	mergeSchedulerEnvVars(config.Scheduler)
	mergeServerEnvVars(config.Server)
	mergeWeChatEnvVars(config.WeChat)
	mergeTelegramEnvVars(config.Telegram)
}

func mergeAppEnvVars(app *AppConfig) {
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		app.LogLevel = logLevel
	}
	if logFile := os.Getenv("LOG_FILE"); logFile != "" {
		app.LogFile = logFile
	}
	if env := os.Getenv("APP_ENV"); env != "" {
		app.Environment = env
	}
	if tz := os.Getenv("TZ_NAME"); tz != "" {
		app.Timezone = tz
	}
}

func mergeGeneratorEnvVars(gen *GeneratorConfig) {
	if dir := os.Getenv("DAILYIMAGE_OUTPUT_DIR"); dir != "" {
		gen.OutputDir = dir
	}
	if font := os.Getenv("DAILYIMAGE_FONT_PATH"); font != "" {
		gen.FontPath = font
	}
	gen.JPEGQuality = getEnvInt("DAILYIMAGE_JPEG_QUALITY", gen.JPEGQuality)
}

func mergePoemEnvVars(poem *PoemConfig) {
	if endpoint := os.Getenv("POEM_ENDPOINT"); endpoint != "" {
		poem.Endpoint = endpoint
	}
	if token := os.Getenv("POEM_TOKEN"); token != "" {
		poem.Token = token
	}
	poem.Timeout = getEnvInt("POEM_TIMEOUT", poem.Timeout)
	if v, ok := lookupEnvBool("POEM_INSECURE_SKIP_VERIFY"); ok {
		poem.InsecureSkipVerify = v
	}
}

func mergeSchedulerEnvVars(sc *SchedulerConfig) {
	if v, ok := lookupEnvBool("SCHEDULER_ENABLED"); ok {
		sc.Enabled = v
	}
	if expr := os.Getenv("SCHEDULER_CRON"); expr != "" {
		sc.Cron = expr
	}
	if v, ok := lookupEnvBool("SCHEDULER_PUSH"); ok {
		sc.Push = v
	}
}

func mergeServerEnvVars(srv *ServerConfig) {
	if v, ok := lookupEnvBool("SERVER_ENABLED"); ok {
		srv.Enabled = v
	}
	if address := os.Getenv("SERVER_ADDRESS"); address != "" {
		srv.Address = address
	}
	srv.Port = getEnvInt("SERVER_PORT", srv.Port)
	srv.RenderRateLimit = getEnvFloat("SERVER_RENDER_RATE_LIMIT", srv.RenderRateLimit)
	srv.RenderBurst = getEnvInt("SERVER_RENDER_BURST", srv.RenderBurst)
}

// mergeWeChatEnvVars 合并微信环境变量
func mergeWeChatEnvVars(wc *WeChatConfig) {
	if url := os.Getenv("WECHAT_WEBHOOK_URL"); url != "" {
		wc.WebhookURL = url
	}
	if users := os.Getenv("WECHAT_MENTION_USERS"); users != "" {
		wc.MentionUsers = parseStringList(users)
	}
	wc.MaxRetries = getEnvInt("WECHAT_MAX_RETRIES", wc.MaxRetries)
	wc.RetryDelay = getEnvInt("WECHAT_RETRY_DELAY", wc.RetryDelay)
	if v, ok := lookupEnvBool("WECHAT_ENABLED"); ok {
		wc.Enabled = v
	}
}

func mergeTelegramEnvVars(tg *TelegramConfig) {
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		tg.BotToken = token
	}
	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		tg.ChatID = chatID
	}
	tg.Timeout = getEnvInt("TELEGRAM_TIMEOUT", tg.Timeout)
	if v, ok := lookupEnvBool("TELEGRAM_ENABLED"); ok {
		tg.Enabled = v
	}
}
