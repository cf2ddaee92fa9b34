package logtrace

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	logger = zap.NewNop()
)

// Setup initializes the process-wide logger. Output goes to stderr so that
// stdout only carries command results.
func Setup(serviceName, env string, level slog.Level) {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if env == "dev" {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), toZapLevel(level))
	SetLogger(zap.New(core).With(zap.String("service", serviceName)))
}

// SetLogger replaces the underlying zap logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	mu.Lock()
	logger = l
	mu.Unlock()
}

// ParseLevel maps a config string to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func toZapLevel(level slog.Level) zapcore.Level {
	switch {
	case level <= slog.LevelDebug:
		return zapcore.DebugLevel
	case level <= slog.LevelInfo:
		return zapcore.InfoLevel
	case level <= slog.LevelWarn:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}

func Debug(ctx context.Context, msg string, fields Fields) {
	write(zapcore.DebugLevel, ctx, msg, fields)
}

func Info(ctx context.Context, msg string, fields Fields) {
	write(zapcore.InfoLevel, ctx, msg, fields)
}

func Warn(ctx context.Context, msg string, fields Fields) {
	write(zapcore.WarnLevel, ctx, msg, fields)
}

func Error(ctx context.Context, msg string, fields Fields) {
	write(zapcore.ErrorLevel, ctx, msg, fields)
}

func write(level zapcore.Level, ctx context.Context, msg string, fields Fields) {
	mu.RLock()
	l := logger
	mu.RUnlock()

	ce := l.Check(level, msg)
	if ce == nil {
		return
	}

	zf := make([]zap.Field, 0, len(fields)+2)
	zf = append(zf, zap.String(FieldCorrelationID, extractCorrelationID(ctx)))
	if origin := OriginFromContext(ctx); origin != "" {
		zf = append(zf, zap.String(FieldOrigin, origin))
	}
	for k, v := range fields {
		zf = append(zf, zap.Any(k, v))
	}
	ce.Write(zf...)
}
