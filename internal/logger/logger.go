package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// InitLogger 构建全局日志器，之后通过 zap.L() / zap.S() 使用
func InitLogger(logLevel string) error {
	level, err := zapcore.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("无效的日志级别 %q: %w", logLevel, err)
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	// 房间满载之类的 warn 属于常规情况，不需要堆栈
	cfg.DisableStacktrace = true

	lgr, err := cfg.Build(zap.Fields(zap.String("service", "impostor-party-be")))
	if err != nil {
		return fmt.Errorf("构建日志器失败: %w", err)
	}

	zap.ReplaceGlobals(lgr)

	return nil
}

// Sync 在进程退出前刷新缓冲的日志
func Sync() {
	_ = zap.L().Sync()
}
