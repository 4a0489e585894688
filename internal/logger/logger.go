// Package logger 基于 zap 构建结构化日志器，可选输出到滚动日志文件。
package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type options struct {
	file       *lumberjack.Logger
	skipStdout bool
}

// Option 日志器可选项
type Option func(*options)

// WithFile 追加滚动文件输出
func WithFile(path string, maxSizeMB, maxBackups, maxAgeDays int) Option {
	return func(o *options) {
		if strings.TrimSpace(path) == "" {
			return
		}
		o.file = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			Compress:   true,
		}
	}
}

// WithoutStdout 不输出到标准输出（终端界面运行时使用）
func WithoutStdout() Option {
	return func(o *options) { o.skipStdout = true }
}

// New 创建日志器：dev 环境使用 console 编码和彩色级别，其余环境按 encoding 参数决定
func New(env, level, encoding, name, version string, opts ...Option) (*zap.Logger, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	if env == "dev" {
		encCfg = zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoding = "console"
	}

	var enc zapcore.Encoder
	switch encoding {
	case "console":
		enc = zapcore.NewConsoleEncoder(encCfg)
	case "json", "":
		enc = zapcore.NewJSONEncoder(encCfg)
	default:
		return nil, fmt.Errorf("unknown log encoding %q", encoding)
	}

	var sinks []zapcore.WriteSyncer
	if !o.skipStdout {
		sinks = append(sinks, zapcore.Lock(os.Stdout))
	}
	if o.file != nil {
		// 文件中始终使用 JSON，便于采集
		fileEnc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		fileCore := zapcore.NewCore(fileEnc, zapcore.AddSync(o.file), lvl)
		if len(sinks) == 0 {
			return build(fileCore, env, name, version), nil
		}
		return build(zapcore.NewTee(zapcore.NewCore(enc, zapcore.NewMultiWriteSyncer(sinks...), lvl), fileCore), env, name, version), nil
	}
	if len(sinks) == 0 {
		return zap.NewNop(), nil
	}

	return build(zapcore.NewCore(enc, zapcore.NewMultiWriteSyncer(sinks...), lvl), env, name, version), nil
}

func build(core zapcore.Core, env, name, version string) *zap.Logger {
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)).With(
		zap.String("app", name),
		zap.String("version", version),
		zap.String("env", env),
	)
}
