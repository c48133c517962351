// Package alert delivers operational alerts about failed sync runs.
package alert

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/clientpulse/errors"
	"github.com/johnquangdev/clientpulse/internal/domain/entities"
)

const historySuffix = ":recent"

// RedisAlerter publishes alerts on a pub/sub channel and keeps a capped list
// of the most recent ones under "<channel>:recent"
type RedisAlerter struct {
	client  *redis.Client
	channel string
	history int64
	logger  *zap.Logger
}

// NewRedisAlerter creates a Redis-backed alerter
func NewRedisAlerter(client *redis.Client, channel string, history int64, logger *zap.Logger) *RedisAlerter {
	if channel == "" {
		channel = "ops:alerts"
	}
	if history <= 0 {
		history = 200
	}
	return &RedisAlerter{
		client:  client,
		channel: channel,
		history: history,
		logger:  logger,
	}
}

// Dispatch publishes the alert and records it in the recent list
func (a *RedisAlerter) Dispatch(ctx context.Context, alert entities.OpsAlert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return apperrors.ErrAlertDispatchFailed(alert.Event, fmt.Errorf("failed to marshal alert: %w", err))
	}

	pipe := a.client.TxPipeline()
	pipe.Publish(ctx, a.channel, payload)
	pipe.LPush(ctx, a.historyKey(), payload)
	pipe.LTrim(ctx, a.historyKey(), 0, a.history-1)
	if _, err := pipe.Exec(ctx); err != nil {
		if a.logger != nil {
			a.logger.Error("❌ Failed to dispatch ops alert",
				zap.String("event", alert.Event),
				zap.Error(err),
			)
		}
		return apperrors.ErrAlertDispatchFailed(alert.Event, err)
	}

	if a.logger != nil {
		a.logger.Warn("🚨 Ops alert dispatched",
			zap.String("event", alert.Event),
			zap.String("severity", string(alert.Severity)),
			zap.String("message", alert.Message),
		)
	}
	return nil
}

// Recent returns up to n of the latest alerts, newest first
func (a *RedisAlerter) Recent(ctx context.Context, n int64) ([]entities.OpsAlert, error) {
	if n <= 0 || n > a.history {
		n = a.history
	}
	raw, err := a.client.LRange(ctx, a.historyKey(), 0, n-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read recent alerts: %w", err)
	}

	alerts := make([]entities.OpsAlert, 0, len(raw))
	for _, item := range raw {
		var alert entities.OpsAlert
		if err := json.Unmarshal([]byte(item), &alert); err != nil {
			continue
		}
		alerts = append(alerts, alert)
	}
	return alerts, nil
}

func (a *RedisAlerter) historyKey() string {
	return a.channel + historySuffix
}
