// Package logging は zap ロガーを生成します。
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New は環境に応じたロガーを返します。development では人が読みやすいコンソール形式、
// それ以外では JSON 形式になります。
func New(env string) (*zap.Logger, error) {
	if env == "development" {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return cfg.Build()
	}
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// NewCLI は CLI 用のロガーです。verbose でなければ何も出力しません。
func NewCLI(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}
