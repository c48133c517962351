package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	apperrors "github.com/johnquangdev/clientpulse/errors"
	"github.com/johnquangdev/clientpulse/internal/adapter/dto/common"
	"github.com/johnquangdev/clientpulse/internal/usecase/ingest"
)

func observedContext(route string) (echo.Context, *httptest.ResponseRecorder, *zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	req := httptest.NewRequest(http.MethodGet, route, nil)
	req.Header.Set(echo.HeaderXRequestID, "req-42")
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.SetPath(route)
	return c, rec, zap.New(core), logs
}

func TestHandleError_LogsErrorCodeAndDetails(t *testing.T) {
	c, rec, logger, logs := observedContext("/v1/cron/knowledge-sources")

	err := apperrors.ErrDBQueryFailed("list knowledge sources", errors.New("connection reset"))
	require.NoError(t, HandleError(logger, c, err))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	entries := logs.FilterMessage("❌ Cron request failed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-42", fields["request_id"])
	assert.Equal(t, http.MethodGet, fields["method"])
	assert.Equal(t, "/v1/cron/knowledge-sources", fields["route"])
	assert.Equal(t, "DB_QUERY_FAILED", fields["error_code"])
	assert.EqualValues(t, http.StatusInternalServerError, fields["status"])
	assert.Equal(t, map[string]string{"query": "list knowledge sources"}, fields["details"])
}

func TestHandleError_PlainErrorIsInternal(t *testing.T) {
	c, rec, logger, logs := observedContext("/v1/cron/knowledge-sources")

	require.NoError(t, HandleError(logger, c, errors.New("boom")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")

	entries := logs.FilterMessage("❌ Cron request failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "INTERNAL", entries[0].ContextMap()["error_code"])
}

func TestHandleSuccess_LogsListTotal(t *testing.T) {
	c, rec, logger, logs := observedContext("/v1/cron/knowledge-sources")

	require.NoError(t, HandleSuccess(logger, c, common.ListResponse{Data: []string{"a", "b"}, Total: 2}))
	assert.Equal(t, http.StatusOK, rec.Code)

	entries := logs.FilterMessage("📤 Cron response sent").All()
	require.Len(t, entries, 1)
	assert.EqualValues(t, 2, entries[0].ContextMap()["total"])
}

func TestRespondSyncReport_LogsRunTotals(t *testing.T) {
	c, rec, logger, logs := observedContext("/v1/cron/sync-knowledge-sources")
	report := &ingest.RunReport{
		RunID: uuid.New(),
		Sources: []ingest.SourceRun{
			{Name: "Sales inbox", Processed: 3, Errors: 1},
			{Name: "Drive", Skipped: true},
		},
	}

	require.NoError(t, respondSyncReport(logger, c, report))
	assert.Equal(t, http.StatusOK, rec.Code)

	entries := logs.FilterMessage("📤 Sync report sent").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, report.RunID.String(), fields["run_id"])
	assert.EqualValues(t, 2, fields["sources"])
	assert.EqualValues(t, 1, fields["sources_skipped"])
	assert.EqualValues(t, 3, fields["processed"])
	assert.EqualValues(t, 1, fields["errors"])
}

func TestHandleHelpers_NilLogger(t *testing.T) {
	c, rec, _, _ := observedContext("/v1/cron/knowledge-sources")
	require.NoError(t, HandleSuccess(nil, c, common.ListResponse{}))
	assert.Equal(t, http.StatusOK, rec.Code)
}
