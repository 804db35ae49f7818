package config

import "errors"

// Configuration-related error definitions using sentinel errors pattern
var (
	ErrConfigNotFound = errors.New("configuration file not found")
	ErrInvalidFormat  = errors.New("invalid configuration file format")

	ErrMissingRequired = errors.New("missing required configuration item")
	ErrInvalidValue    = errors.New("invalid configuration value")

	ErrPoemConfig      = errors.New("poem configuration error")
	ErrGeneratorConfig = errors.New("generator configuration error")
	ErrSchedulerConfig = errors.New("scheduler configuration error")
	ErrInvalidCron     = errors.New("invalid Cron expression")
	ErrServerConfig    = errors.New("server configuration error")
	ErrWeChatConfig    = errors.New("WeChat notification configuration error")
	ErrTelegramConfig  = errors.New("telegram notification configuration error")
)
