package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger logs to stdout and, when logFilePath is set, appends the same
// lines to that file
func NewLogger(logFilePath string, level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	encoderConfig := zap.NewDevelopmentConfig()

	encoder := zapcore.NewConsoleEncoder(encoderConfig.EncoderConfig)

	cores := []zapcore.Core{
		zapcore.NewCore(
			encoder,
			zapcore.AddSync(os.Stdout),
			lvl,
		),
	}

	if logFilePath != "" {
		logFile, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}

		cores = append(cores, zapcore.NewCore(
			encoder,
			zapcore.AddSync(logFile),
			lvl,
		))
	}

	return newLogger(zapcore.NewTee(cores...)), nil
}

// NewFileLogger logs only to a file. The console uses it so log lines do not
// tear through the terminal UI.
func NewFileLogger(logFilePath string, level string) (*zap.Logger, error) {
	if logFilePath == "" {
		return zap.NewNop(), nil
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	logFile, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	encoderConfig := zap.NewDevelopmentConfig()
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig.EncoderConfig),
		zapcore.AddSync(logFile),
		lvl,
	)

	return newLogger(core), nil
}

func newLogger(core zapcore.Core) *zap.Logger {
	return zap.New(
		core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.WarnLevel),
		zap.Development(),
	)
}
