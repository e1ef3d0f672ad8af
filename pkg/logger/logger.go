// pkg/logger/logger.go

package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu  sync.RWMutex
	log = zap.NewNop()
)

// Options controls where log output goes.
type Options struct {
	// ConsoleLevel applies to stderr. Terminal prompts bypass it.
	ConsoleLevel zapcore.Level
	// FileLevel applies to the JSON log file.
	FileLevel zapcore.Level
	// FilePath is the JSON log file; empty disables file logging.
	FilePath string
	Stdout   io.Writer
	Stderr   io.Writer
}

// L returns the process logger. It is a no-op logger until initialised.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// SetLogger replaces the process logger and the zap/otelzap globals.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	log = l
	mu.Unlock()
	zap.ReplaceGlobals(l)
	otelzap.ReplaceGlobals(otelzap.New(l))
}

// Sync flushes buffered entries.
func Sync() error {
	return L().Sync()
}

// ParseLogLevel maps LOG_LEVEL values onto zap levels; unknown values yield fallback.
func ParseLogLevel(level string, fallback zapcore.Level) zapcore.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "TRACE", "DEBUG":
		return zapcore.DebugLevel
	case "INFO":
		return zapcore.InfoLevel
	case "WARN", "WARNING":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	case "FATAL":
		return zapcore.FatalLevel
	default:
		return fallback
	}
}

// DefaultConsoleEncoderConfig is the human-readable encoder used on stderr.
func DefaultConsoleEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "T"
	cfg.LevelKey = "L"
	cfg.NameKey = "N"
	cfg.CallerKey = ""
	cfg.MessageKey = "M"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg
}

// New builds a logger from opts without touching globals.
func New(opts Options) (*zap.Logger, error) {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	console := zapcore.NewCore(
		zapcore.NewConsoleEncoder(DefaultConsoleEncoderConfig()),
		zapcore.Lock(zapcore.AddSync(opts.Stderr)),
		opts.ConsoleLevel,
	)
	cores := []zapcore.Core{newTerminalConsoleCore(console, opts.Stdout)}

	var fileErr error
	if opts.FilePath != "" {
		writer, err := GetLogFileWriter(opts.FilePath)
		if err != nil {
			fileErr = err
		} else {
			jsonCfg := zap.NewProductionEncoderConfig()
			jsonCfg.EncodeTime = zapcore.ISO8601TimeEncoder
			jsonCfg.EncodeLevel = zapcore.CapitalLevelEncoder
			cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(jsonCfg), writer, opts.FileLevel))
		}
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddStacktrace(zapcore.ErrorLevel)), fileErr
}

// InitializeWithFallback installs the process logger. Console output starts
// at Warn so command output stays readable; LOG_LEVEL overrides it. The JSON
// file under the XDG state directory records Info and above (Debug when
// COMMITOR_DEBUG=1). If the file cannot be opened, console logging continues.
func InitializeWithFallback() {
	fileLevel := zapcore.InfoLevel
	if os.Getenv("COMMITOR_DEBUG") == "1" {
		fileLevel = zapcore.DebugLevel
	}

	l, err := New(Options{
		ConsoleLevel: ParseLogLevel(os.Getenv("LOG_LEVEL"), zapcore.WarnLevel),
		FileLevel:    fileLevel,
		FilePath:     LogPath(),
	})
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Logging fallback: %v (console only)\n", err)
	}
	SetLogger(l)
	l.Debug("Logger initialized", zap.String("log_path", LogPath()))
}

var initOnce sync.Once

// Init runs InitializeWithFallback at most once per process.
func Init() {
	initOnce.Do(InitializeWithFallback)
}
