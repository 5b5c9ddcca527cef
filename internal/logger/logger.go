package logger

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is no-op until Init so packages can log from tests without setup.
var Logger = zap.NewNop()

const serviceName = "organizese"

type Options struct {
	Development bool
	// Level overrides the mode default (debug in development, info otherwise).
	Level string
}

func Init(opts Options) error {
	config := zap.NewProductionConfig()
	if opts.Development {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	if opts.Level != "" {
		lvl, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return fmt.Errorf("logging level %q: %w", opts.Level, err)
		}
		config.Level = zap.NewAtomicLevelAt(lvl)
	}
	config.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.DateTime)
	config.InitialFields = map[string]any{"service": serviceName}

	built, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}
	Logger = built
	return nil
}

func Sync() {
	_ = Logger.Sync()
}

type fieldsKey struct{}

// WithFields binds fields to ctx; Request attaches them to every line it writes.
func WithFields(ctx context.Context, fields ...zap.Field) context.Context {
	bound := contextFields(ctx)
	merged := make([]zap.Field, 0, len(bound)+len(fields))
	merged = append(merged, bound...)
	merged = append(merged, fields...)
	return context.WithValue(ctx, fieldsKey{}, merged)
}

func contextFields(ctx context.Context) []zap.Field {
	fields, _ := ctx.Value(fieldsKey{}).([]zap.Field)
	return fields
}

// Request logs an inbound call with its route and the request-scoped fields
// (request id, acting user) bound by the middleware.
func Request(r *http.Request, msg string, fields ...zap.Field) {
	all := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("client_ip", r.RemoteAddr),
	}
	if r.URL.RawQuery != "" {
		all = append(all, zap.String("query", r.URL.RawQuery))
	}
	all = append(all, contextFields(r.Context())...)
	all = append(all, fields...)
	Logger.Info(msg, all...)
}

func Info(msg string, fields ...zap.Field) {
	Logger.Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	Logger.Warn(msg, fields...)
}

func Error(msg string, err error, fields ...zap.Field) {
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	Logger.Error(msg, fields...)
}

func Log(lvl zapcore.Level, msg string, fields ...zap.Field) {
	Logger.Log(lvl, msg, fields...)
}
