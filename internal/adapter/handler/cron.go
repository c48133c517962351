package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/clientpulse/internal/adapter/dto/common"
	"github.com/johnquangdev/clientpulse/internal/adapter/presenter"
	"github.com/johnquangdev/clientpulse/internal/usecase/ingest"
)

// SyncRunner runs the knowledge-source scheduler
type SyncRunner interface {
	Run(ctx context.Context) (*ingest.RunReport, error)
	Status(ctx context.Context) ([]ingest.SourceStatus, error)
}

// Cron handles the scheduler endpoints
type Cron struct {
	runner SyncRunner
	logger *zap.Logger
}

// NewCron creates a new cron handler
func NewCron(runner SyncRunner, logger *zap.Logger) *Cron {
	return &Cron{runner: runner, logger: logger}
}

// SyncKnowledgeSources runs one sync pass over every enabled knowledge source
// @Summary      Sync knowledge sources
// @Description  Invoked by the external scheduler. Processes every due knowledge source sequentially and reports per-source results keyed by source name.
// @Tags         Cron
// @Produce      json
// @Security     CronSecret
// @Success      200  {object}  cron.SyncResponse     "Run report"
// @Failure      401  {object}  common.ErrorResponse  "Missing or wrong cron secret"
// @Failure      500  {object}  common.ErrorResponse  "Run could not start"
// @Router       /v1/cron/sync-knowledge-sources [get]
func (h *Cron) SyncKnowledgeSources(c echo.Context) error {
	report, err := h.runner.Run(c.Request().Context())
	if err != nil {
		if h.logger != nil {
			h.logger.Error("❌ Knowledge source sync run failed",
				append(requestFields(c), zap.Error(err))...,
			)
		}
		return c.JSON(http.StatusInternalServerError, common.ErrorResponse{Error: err.Error()})
	}
	return respondSyncReport(h.logger, c, report)
}

// ListKnowledgeSources shows every knowledge source with its schedule
// @Summary      List knowledge source schedules
// @Description  Returns each knowledge source with its interval, last sync, next sync and whether it is due now.
// @Tags         Cron
// @Produce      json
// @Security     CronSecret
// @Success      200  {object}  common.ListResponse  "Knowledge sources"
// @Failure      401  {object}  common.ErrorResponse  "Missing or wrong cron secret"
// @Failure      500  {object}  map[string]interface{}  "Sources could not be loaded"
// @Router       /v1/cron/knowledge-sources [get]
func (h *Cron) ListKnowledgeSources(c echo.Context) error {
	statuses, err := h.runner.Status(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	data := presenter.ToSourceStatusResponses(statuses)
	return HandleSuccess(h.logger, c, common.ListResponse{Data: data, Total: len(data)})
}
