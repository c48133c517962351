package alert

import (
	"context"

	"go.uber.org/zap"

	"github.com/johnquangdev/clientpulse/internal/domain/entities"
)

// LogAlerter only writes alerts to the structured log. Used when Redis is not
// reachable at startup.
type LogAlerter struct {
	logger *zap.Logger
}

// NewLogAlerter creates a log-only alerter
func NewLogAlerter(logger *zap.Logger) *LogAlerter {
	return &LogAlerter{logger: logger}
}

// Dispatch logs the alert at error or warn level
func (a *LogAlerter) Dispatch(_ context.Context, alert entities.OpsAlert) error {
	if a.logger == nil {
		return nil
	}
	fields := []zap.Field{
		zap.String("event", alert.Event),
		zap.String("severity", string(alert.Severity)),
		zap.Any("details", alert.Details),
		zap.Time("timestamp", alert.Timestamp),
	}
	if alert.Severity == entities.OpsSeverityError {
		a.logger.Error("🚨 "+alert.Message, fields...)
		return nil
	}
	a.logger.Warn("⚠️ "+alert.Message, fields...)
	return nil
}
