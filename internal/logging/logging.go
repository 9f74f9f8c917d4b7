package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultLogFile = "gridcase.log"

var (
	traceMu      sync.Mutex
	traceEnabled bool
	logPath      = defaultLogFile
	logger       *zap.Logger
	closeLog     func()
)

// Error writes errors to the shared log file. The %+v rendering keeps
// stack traces attached by internal/errors.
func Error(err error) {
	if err == nil {
		return
	}
	l := current()
	if l == nil {
		return
	}
	l.Error(err.Error(), zap.String("detail", fmt.Sprintf("%+v", err)))
}

// Warn records a non-fatal condition.
func Warn(msg string, fields ...zap.Field) {
	if l := current(); l != nil {
		l.Warn(msg, fields...)
	}
}

// SetTraceEnabled toggles emission of structured trace entries.
func SetTraceEnabled(enabled bool) {
	traceMu.Lock()
	traceEnabled = enabled
	traceMu.Unlock()
}

// TraceEnabled reports whether trace entries are being written.
func TraceEnabled() bool {
	traceMu.Lock()
	defer traceMu.Unlock()
	return traceEnabled
}

// Trace appends a structured JSON entry to the shared log when tracing is enabled.
func Trace(event string, payload interface{}) {
	if !TraceEnabled() {
		return
	}
	l := current()
	if l == nil {
		return
	}
	l.Debug(event,
		zap.String("event", event),
		zap.Time("at", time.Now().UTC()),
		zap.Any("payload", payload),
	)
}

// Configure sets the log destination. Empty values fall back to the default
// path. Directories are created automatically when missing.
func Configure(path string) {
	traceMu.Lock()
	defer traceMu.Unlock()
	resetLocked()
	if strings.TrimSpace(path) == "" {
		logPath = defaultLogFile
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "unable to create log directory: %v\n", err)
		logPath = defaultLogFile
		return
	}
	logPath = path
}

// Sync flushes buffered entries and releases the log file.
func Sync() {
	traceMu.Lock()
	defer traceMu.Unlock()
	resetLocked()
}

func resetLocked() {
	if logger != nil {
		_ = logger.Sync()
	}
	if closeLog != nil {
		closeLog()
	}
	logger = nil
	closeLog = nil
}

// current lazily opens the log file so runs that never log leave no file behind.
func current() *zap.Logger {
	traceMu.Lock()
	defer traceMu.Unlock()
	if logger != nil {
		return logger
	}
	sink, closer, err := zap.Open(logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging failed: %v\n", err)
		return nil
	}
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "time"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), sink, zapcore.DebugLevel)
	logger = zap.New(core)
	closeLog = closer
	return logger
}
