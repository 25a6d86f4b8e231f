package contract

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultLogLevel is the level used until InitLogger is called.
const DefaultLogLevel = "warn"

var (
	loggerMu sync.RWMutex
	logger   = newLogger(zapcore.WarnLevel, zapcore.AddSync(os.Stderr))
)

// newLogger builds a console logger. Stdout is reserved for results and the MCP transport.
func newLogger(level zapcore.Level, sink zapcore.WriteSyncer) *zap.Logger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		FunctionKey:    zapcore.OmitKey,
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), sink, level)
	return zap.New(core)
}

// InitLogger replaces the global logger with one at the given level writing to stderr.
func InitLogger(level string) error {
	return InitLoggerWithSink(level, zapcore.AddSync(os.Stderr))
}

// InitLoggerWithSink is InitLogger with a custom destination.
func InitLoggerWithSink(level string, sink zapcore.WriteSyncer) error {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	loggerMu.Lock()
	defer loggerMu.Unlock()
	_ = logger.Sync()
	logger = newLogger(zapLevel, sink)
	return nil
}

// Logger returns the global logger.
func Logger() *zap.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// SyncLogger flushes buffered log entries.
func SyncLogger() {
	_ = Logger().Sync()
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	Logger().Error(msg, zap.Error(err))
	SyncLogger()
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	Logger().Warn(msg, zap.Error(err))
}

// LogInfo logs an informational message with optional fields.
func LogInfo(msg string, fields ...zap.Field) {
	Logger().Info(msg, fields...)
}
