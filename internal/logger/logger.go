// Package logger builds the zap logger shared by the HTTP server and the
// migration command.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger returns a development-style console logger by default; setting
// APP_ENV=production switches to sampled JSON output for log shippers.
func NewLogger() *zap.Logger {
	loggerConfig := zap.NewDevelopmentConfig()
	if os.Getenv("APP_ENV") == "production" {
		loggerConfig = zap.NewProductionConfig()
	}
	loggerConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := loggerConfig.Build()
	if nil != err {
		panic(err)
	}

	return logger
}
