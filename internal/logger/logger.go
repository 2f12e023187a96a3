package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type LoggerConnectProps struct {
	Production bool
}

type LogMiddleware struct {
	logger *zap.Logger
}

type requestIDKey struct{}

func Connect(args LoggerConnectProps) *LogMiddleware {
	var logger *zap.Logger
	var err error

	if args.Production {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		logger = zap.NewExample()
	}
	// Constructors without a LogMiddleware of their own log through zap.L().
	zap.ReplaceGlobals(logger)
	if args.Production {
		logger.Info("[Logger] Starting Logger with Prod Config")
	}

	return &LogMiddleware{logger: logger}
}

// Nop discards everything; for tests.
func Nop() *LogMiddleware {
	return &LogMiddleware{logger: zap.NewNop()}
}

func FromZap(logger *zap.Logger) *LogMiddleware {
	return &LogMiddleware{logger: logger}
}

func (l *LogMiddleware) Logger(ctx context.Context) *zap.Logger {
	logger := l.logger
	if id := RequestIDFromContext(ctx); id != "" {
		logger = logger.With(zap.String("request_id", id))
	}

	spanContext := trace.SpanContextFromContext(ctx)
	if !spanContext.IsValid() {
		return logger
	}

	return logger.With(
		zap.String("trace_id", spanContext.TraceID().String()),
		zap.String("span_id", spanContext.SpanID().String()),
	)
}

func (l *LogMiddleware) Sync() {
	_ = l.logger.Sync()
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
