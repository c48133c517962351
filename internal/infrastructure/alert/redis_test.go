package alert

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/johnquangdev/clientpulse/errors"
	"github.com/johnquangdev/clientpulse/internal/domain/entities"
)

func setupTestAlerter(t *testing.T, history int64) (*RedisAlerter, *miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisAlerter(client, "ops:alerts", history, nil), mr, client
}

func sampleAlert(msg string) entities.OpsAlert {
	return entities.OpsAlert{
		Event:     entities.OpsEventSourceSyncFailed,
		Severity:  entities.OpsSeverityError,
		Message:   msg,
		Details:   map[string]interface{}{"knowledge_source_id": "ks-1"},
		Timestamp: time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
	}
}

func TestDispatchPublishesAndRecords(t *testing.T) {
	a, _, client := setupTestAlerter(t, 10)
	ctx := context.Background()

	sub := client.Subscribe(ctx, "ops:alerts")
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	require.NoError(t, a.Dispatch(ctx, sampleAlert("Gmail sync failed")))

	select {
	case msg := <-sub.Channel():
		var got entities.OpsAlert
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, entities.OpsEventSourceSyncFailed, got.Event)
		assert.Equal(t, entities.OpsSeverityError, got.Severity)
		assert.Equal(t, "ks-1", got.Details["knowledge_source_id"])
	case <-time.After(2 * time.Second):
		t.Fatal("alert was not published")
	}

	recent, err := a.Recent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "Gmail sync failed", recent[0].Message)
}

func TestRecentIsCappedNewestFirst(t *testing.T) {
	a, mr, _ := setupTestAlerter(t, 2)
	ctx := context.Background()

	for _, msg := range []string{"first", "second", "third"} {
		require.NoError(t, a.Dispatch(ctx, sampleAlert(msg)))
	}

	list, err := mr.List("ops:alerts:recent")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	recent, err := a.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "third", recent[0].Message)
	assert.Equal(t, "second", recent[1].Message)
}

func TestDispatchFailureIsAppError(t *testing.T) {
	a, mr, _ := setupTestAlerter(t, 10)
	mr.Close()

	err := a.Dispatch(context.Background(), sampleAlert("lost"))
	require.Error(t, err)

	var appErr apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrorCode_ALERT_DISPATCH_FAILED, appErr.Code)
	assert.Equal(t, entities.OpsEventSourceSyncFailed, appErr.Details["event"])
}

func TestLogAlerterNeverFails(t *testing.T) {
	assert.NoError(t, NewLogAlerter(nil).Dispatch(context.Background(), sampleAlert("x")))
}
