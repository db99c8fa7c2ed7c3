// Package logging builds the application's zap logger and bridges the Wails
// framework log output into it.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	wailslogger "github.com/wailsapp/wails/v2/pkg/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogFile is the log location relative to the data dir.
const LogFile = "logs/app.log"

// New builds a production logger at the given level writing to stderr and,
// when dataDir is not empty, to dataDir/logs/app.log.
func New(level string, dataDir string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.OutputPaths = []string{"stderr"}

	if dataDir != "" {
		path := filepath.Join(dataDir, LogFile)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log dir: %w", err)
		}
		config.OutputPaths = append(config.OutputPaths, path)
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// WailsLogger adapts a zap logger to the Wails logger interface.
type WailsLogger struct {
	log *zap.Logger
}

var _ wailslogger.Logger = (*WailsLogger)(nil)

// NewWailsLogger returns an adapter that writes framework messages to log.
func NewWailsLogger(log *zap.Logger) *WailsLogger {
	return &WailsLogger{log: log.Named("wails").WithOptions(zap.AddCallerSkip(1))}
}

func (w *WailsLogger) Print(message string) { w.log.Info(message) }
func (w *WailsLogger) Trace(message string) { w.log.Debug(message) }
func (w *WailsLogger) Debug(message string) { w.log.Debug(message) }
func (w *WailsLogger) Info(message string) { w.log.Info(message) }
func (w *WailsLogger) Warning(message string) { w.log.Warn(message) }
func (w *WailsLogger) Error(message string) { w.log.Error(message) }

// Fatal logs at error level. The framework decides whether to exit.
func (w *WailsLogger) Fatal(message string) { w.log.Error(message, zap.Bool("fatal", true)) }

// WailsLevel maps a zap level name to the framework's log level.
func WailsLevel(level string) wailslogger.LogLevel {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return wailslogger.INFO
	}
	switch {
	case lvl <= zapcore.DebugLevel:
		return wailslogger.DEBUG
	case lvl == zapcore.InfoLevel:
		return wailslogger.INFO
	case lvl == zapcore.WarnLevel:
		return wailslogger.WARNING
	default:
		return wailslogger.ERROR
	}
}
