package logger

import (
	"os"
	"sync/atomic"
	"time"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"receiptrelay/conf"
)

type Field = zap.Field

var current atomic.Pointer[zap.Logger]

func init() {
	current.Store(zap.NewNop())
}

// InitLogger 初始化全局日志，文件按 lumberjack 规则切割，console 为 true 时同时输出到标准输出
func InitLogger(c *conf.LogConfig, appName string) {
	Replace(New(c, appName))
}

// New 根据配置创建 zap logger
func New(c *conf.LogConfig, appName string) *zap.Logger {
	level := zapcore.InfoLevel
	if c.Level != "" {
		if err := level.UnmarshalText([]byte(c.Level)); err != nil {
			level = zapcore.InfoLevel
		}
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	timeFormat := c.TimeFormat
	if timeFormat == "" {
		timeFormat = time.RFC3339Nano
	}
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout(timeFormat)
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	var cores []zapcore.Core
	if c.FileName != "" {
		w := zapcore.AddSync(&lumberjack.Logger{
			Filename:   c.FileName,
			MaxSize:    c.MaxSize,
			MaxBackups: c.MaxBackups,
			MaxAge:     c.MaxAge,
			Compress:   c.Compress,
			LocalTime:  c.LocalTime,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), w, level))
	}
	if c.Console || len(cores) == 0 {
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stdout), level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1)).
		With(zap.String("app", appName))
}

// Replace 替换全局 logger，测试中可以注入 observer
func Replace(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	current.Store(l)
}

// Pair 构造一个键值对字段
func Pair(key string, v any) Field {
	return zap.Any(key, v)
}

func Err(err error) Field {
	return zap.Error(err)
}

func Info(msg string, fields ...Field) {
	current.Load().Info(msg, fields...)
}

func Warn(msg string, fields ...Field) {
	current.Load().Warn(msg, fields...)
}

func Error(msg string, fields ...Field) {
	current.Load().Error(msg, fields...)
}

func Fatal(msg string, fields ...Field) {
	current.Load().Fatal(msg, fields...)
}

func Infof(template string, args ...any) {
	current.Load().Sugar().Infof(template, args...)
}

func Errorf(template string, args ...any) {
	current.Load().Sugar().Errorf(template, args...)
}

// Sync 刷新缓冲区，退出前调用
func Sync() error {
	return current.Load().Sync()
}
