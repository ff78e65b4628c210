package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/dwoolworth/inkwell"
	"go.uber.org/zap"
)

// LoggingMiddleware logs every store operation: debug on success, warn on
// failure. Not-found results are expected and logged at debug.
func LoggingMiddleware(log *zap.Logger) inkwell.MiddlewareFunc {
	return func(ctx context.Context, op *inkwell.OpInfo, next func(context.Context) error) error {
		start := time.Now()
		err := next(ctx)

		fields := []zap.Field{
			zap.String("op", string(op.Operation)),
			zap.String("collection", op.Collection),
			zap.Duration("duration", time.Since(start)),
		}
		switch {
		case err == nil:
			log.Debug("store operation", fields...)
		case errors.Is(err, inkwell.ErrNotFound):
			log.Debug("store operation found nothing", fields...)
		default:
			log.Warn("store operation failed", append(fields, zap.Error(err))...)
		}
		return err
	}
}
