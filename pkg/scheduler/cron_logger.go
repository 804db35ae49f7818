package scheduler

import (
	"dailyimage/pkg/logger"

	"go.uber.org/zap"
)

// cronLogger routes robfig/cron logs into zap
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Sugar.Debugw("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Sugar.Errorw("cron: "+msg, append(keysAndValues, zap.Error(err))...)
}
