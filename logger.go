package main

import (
	"strings"

	"go.uber.org/zap"
)

// logger is replaced in main. The no-op default keeps tests quiet.
var logger = zap.NewNop().Sugar()

// newLogger builds a production (JSON) logger for APP_ENV=production and a
// human-readable development logger otherwise.
func newLogger(env string) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	switch strings.ToLower(env) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}
