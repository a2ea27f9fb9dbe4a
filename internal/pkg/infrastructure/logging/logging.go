package logging

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

type loggerContextKey struct {
	name string
}

var loggerCtxKey = &loggerContextKey{"logger"}

// NewLogger creates a service logger at the given level ("debug", "info", ...) and stores it
// in the returned context. An unknown level falls back to info.
func NewLogger(ctx context.Context, serviceName, serviceVersion, level string) (context.Context, zerolog.Logger) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	logger := log.With().
		Str("service", strings.ToLower(serviceName)).
		Str("version", serviceVersion).
		Logger().Level(lvl)

	return NewContextWithLogger(ctx, logger), logger
}

func NewContextWithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey, logger)
}

// GetFromContext returns the logger stored in ctx, or the global logger if there is none.
func GetFromContext(ctx context.Context) zerolog.Logger {
	logger, ok := ctx.Value(loggerCtxKey).(zerolog.Logger)
	if !ok {
		return log.Logger
	}

	return logger
}

// WithRegion decorates the logger in ctx with a region field.
func WithRegion(ctx context.Context, region string) (context.Context, zerolog.Logger) {
	logger := GetFromContext(ctx).With().Str("region", region).Logger()
	return NewContextWithLogger(ctx, logger), logger
}

// AddTraceIDToLogger decorates the logger with the trace id of span, if it has one, and
// stores the decorated logger in the returned context.
func AddTraceIDToLogger(ctx context.Context, span trace.Span, logger zerolog.Logger) (context.Context, zerolog.Logger) {
	if sc := span.SpanContext(); sc.HasTraceID() {
		logger = logger.With().Str("traceID", sc.TraceID().String()).Logger()
	}

	return NewContextWithLogger(ctx, logger), logger
}
