package logging

import (
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/janisto/swarm-balance/internal/platform/timeutil"
)

// LevelEnv names the environment variable that selects the minimum log level.
const LevelEnv = "LOG_LEVEL"

var (
	loggerOnce sync.Once
	baseLogger *zap.Logger
	loggerErr  error
)

// encodeTimeMicros formats timestamps as RFC 3339 with fixed microsecond precision.
func encodeTimeMicros(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.UTC().Format(timeutil.RFC3339Micros))
}

// build constructs the shared logger. Non-empty service and version are
// attached to every entry so frontend and backend lines can be told apart in
// a merged stream.
func build(service, version string) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(os.Getenv(LevelEnv)))
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stdout"}
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = encodeTimeMicros
	cfg.EncoderConfig.LevelKey = "severity"
	cfg.EncoderConfig.EncodeLevel = encodeSeverity
	cfg.EncoderConfig.MessageKey = "message"
	cfg.EncoderConfig.CallerKey = "caller"

	var fields []zap.Field
	if service != "" {
		fields = append(fields, zap.String("service", service))
	}
	if version != "" {
		fields = append(fields, zap.String("version", version))
	}

	baseLogger, loggerErr = cfg.Build(zap.AddCaller(), zap.Fields(fields...))
	if loggerErr != nil {
		baseLogger = zap.NewNop()
	}
}

// parseLevel maps LOG_LEVEL values onto zap levels. Unknown values select info.
func parseLevel(raw string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// encodeSeverity maps zap levels to Cloud Logging severity names.
func encodeSeverity(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	var severity string
	switch level {
	case zapcore.DebugLevel:
		severity = "DEBUG"
	case zapcore.InfoLevel:
		severity = "INFO"
	case zapcore.WarnLevel:
		severity = "WARNING"
	case zapcore.ErrorLevel:
		severity = "ERROR"
	case zapcore.DPanicLevel:
		severity = "CRITICAL"
	case zapcore.PanicLevel:
		severity = "ALERT"
	case zapcore.FatalLevel:
		severity = "EMERGENCY"
	default:
		severity = "DEFAULT"
	}
	enc.AppendString(severity)
}

// Init builds the process logger for one service. It must run before the
// first Logger call; later calls return the first result and change nothing.
func Init(service, version string) error {
	loggerOnce.Do(func() { build(service, version) })
	return loggerErr
}

// Logger returns the process-wide zap.Logger, building an unlabelled one if
// Init was never called.
func Logger() *zap.Logger {
	loggerOnce.Do(func() { build("", "") })
	return baseLogger
}

// Sync flushes buffered log entries. Call during shutdown.
func Sync() error {
	return Logger().Sync()
}
