package handler

import (
	stdErrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/clientpulse/errors"
	"github.com/johnquangdev/clientpulse/internal/adapter/dto/common"
	"github.com/johnquangdev/clientpulse/internal/adapter/presenter"
	"github.com/johnquangdev/clientpulse/internal/usecase/ingest"
)

// Response shapes
type success struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type errs struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Info    string      `json:"info,omitempty"`
}

// getRequestID tries to read X-Request-ID from the request
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	if id := c.Request().Header.Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

// requestFields identifies the cron call in every response log
func requestFields(c echo.Context) []zap.Field {
	fields := []zap.Field{zap.String("request_id", getRequestID(c))}
	if c == nil || c.Request() == nil {
		return fields
	}
	return append(fields,
		zap.String("method", c.Request().Method),
		zap.String("route", c.Path()),
	)
}

// HandleSuccess wraps data in the standard envelope. List payloads log their
// total.
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	if logger != nil {
		fields := requestFields(c)
		if list, ok := data.(common.ListResponse); ok {
			fields = append(fields, zap.Int("total", list.Total))
		}
		logger.Info("📤 Cron response sent", fields...)
	}

	return c.JSON(http.StatusOK, success{
		Code:    int(errors.ErrorCode_HTTP_OK),
		Message: "success",
		Data:    data,
	})
}

// HandleError maps AppErrors to their HTTP status and anything else to 500
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		if logger != nil {
			fields := append(requestFields(c),
				zap.Int("status", appErr.HTTPCode),
				zap.String("error_code", appErr.Code.String()),
				zap.Error(err),
			)
			if len(appErr.Details) > 0 {
				fields = append(fields, zap.Any("details", appErr.Details))
			}
			logger.Error("❌ Cron request failed", fields...)
		}

		info := ""
		if appErr.Raw != nil {
			info = appErr.Raw.Error()
		}
		return c.JSON(appErr.HTTPCode, errs{
			Code:    appErr.Code,
			Message: appErr.Message,
			Info:    info,
		})
	}

	if logger != nil {
		logger.Error("❌ Cron request failed",
			append(requestFields(c),
				zap.Int("status", http.StatusInternalServerError),
				zap.String("error_code", errors.ErrorCode_INTERNAL.String()),
				zap.Error(err),
			)...,
		)
	}

	return c.JSON(http.StatusInternalServerError, errs{
		Code:    errors.ErrorCode_INTERNAL,
		Message: "Internal server error",
		Info:    err.Error(),
	})
}

// respondSyncReport writes a finished run's report and logs its totals
func respondSyncReport(logger *zap.Logger, c echo.Context, report *ingest.RunReport) error {
	if logger != nil {
		processed, failed := report.Totals()
		skipped := 0
		for _, s := range report.Sources {
			if s.Skipped {
				skipped++
			}
		}
		logger.Info("📤 Sync report sent",
			append(requestFields(c),
				zap.String("run_id", report.RunID.String()),
				zap.Int("sources", len(report.Sources)),
				zap.Int("sources_skipped", skipped),
				zap.Int("processed", processed),
				zap.Int("errors", failed),
			)...,
		)
	}
	return c.JSON(http.StatusOK, presenter.ToSyncResponse(report))
}
