package obs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"city-direction-service/internal/logger"
	"city-direction-service/internal/metrics"
)

// Time starts timing op. Call the returned func with the operation's error
// pointer (usually deferred against a named return) to log and record it.
func Time(ctx context.Context, op string) func(errp *error) {
	start := time.Now()
	log := logger.FromContext(ctx)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			metrics.OperationDuration.WithLabelValues(op, "error").Observe(dur.Seconds())
			log.Warn("operation failed", zap.String("op", op), zap.Duration("dur", dur), zap.Error(*errp))
			return
		}
		metrics.OperationDuration.WithLabelValues(op, "ok").Observe(dur.Seconds())
		log.Debug("operation done", zap.String("op", op), zap.Duration("dur", dur))
	}
}
