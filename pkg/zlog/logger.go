package zlog

import (
	"os"
	"strings"

	"MaintLens/internal/config"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

func init() {
	logger = New(config.GetConfig().LogConfig)
}

// New 根据日志配置构建 logger：始终输出到 stdout，配置了 logPath 时额外写入滚动文件
func New(conf config.LogConfig) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderConfig)

	level := parseLevel(conf.Level)
	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level),
	}

	if path := strings.TrimSpace(conf.LogPath); path != "" {
		maxSize := conf.MaxSizeMB
		if maxSize <= 0 {
			maxSize = 100
		}
		maxBackups := conf.MaxBackups
		if maxBackups <= 0 {
			maxBackups = 5
		}
		maxAge := conf.MaxAgeDays
		if maxAge <= 0 {
			maxAge = 30
		}
		rotating := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    maxSize,
			MaxBackups: maxBackups,
			MaxAge:     maxAge,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(rotating), level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1))
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// SetLogger 替换全局 logger（测试中可注入 zap.NewNop 或 observer）
func SetLogger(l *zap.Logger) {
	if l != nil {
		logger = l
	}
}

func L() *zap.Logger {
	return logger
}

func With(fields ...zap.Field) *zap.Logger {
	return logger.With(fields...)
}

func Debug(msg string, fields ...zap.Field) {
	logger.Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	logger.Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	logger.Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	logger.Error(msg, fields...)
}

func Fatal(msg string, fields ...zap.Field) {
	logger.Fatal(msg, fields...)
}

func Sync() error {
	return logger.Sync()
}
