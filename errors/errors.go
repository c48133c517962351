package errors

import (
	"fmt"
	"net/http"
	"time"
)

// AppError carries an error code and the HTTP status it maps to
type AppError struct {
	Raw       error
	HTTPCode  int
	Code      ErrorCode
	Message   string
	Details   map[string]string
	Timestamp time.Time
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the underlying error to errors.Is / errors.As
func (e AppError) Unwrap() error {
	return e.Raw
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// Sync Errors
func ErrSyncRunFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_SYNC_RUN_FAILED,
		Message:  "Knowledge source sync failed",
	}
}

func ErrProcessorNotFound(sourceType string) AppError {
	return AppError{
		HTTPCode: http.StatusNotImplemented,
		Code:     ErrorCode_PROCESSOR_NOT_FOUND,
		Message:  fmt.Sprintf("No processor registered for source type %q", sourceType),
	}.WithDetail("source_type", sourceType)
}

// Extraction Errors
func ErrNoIntelligence(contentType string) AppError {
	return AppError{
		HTTPCode: http.StatusUnprocessableEntity,
		Code:     ErrorCode_EXTRACTION_FAILED,
		Message:  "No intelligence produced",
	}.WithDetail("content_type", contentType)
}

func ErrQueueBookkeeping(sourceID string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_QUEUE_BOOKKEEPING,
		Message:  "Processing queue update failed",
	}.WithDetail("source_id", sourceID)
}

// Integration Errors
func ErrLLMUnavailable(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusServiceUnavailable,
		Code:     ErrorCode_LLM_UNAVAILABLE,
		Message:  "LLM service temporarily unavailable",
	}
}

func ErrProviderFetchFailed(provider string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadGateway,
		Code:     ErrorCode_PROVIDER_FETCH_FAILED,
		Message:  fmt.Sprintf("Content fetch failed: %s", provider),
	}.WithDetail("provider", provider)
}

func ErrStorageFailed(operation string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_STORAGE_FAILED,
		Message:  fmt.Sprintf("Storage operation failed: %s", operation),
	}
}

func ErrAlertDispatchFailed(event string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_ALERT_DISPATCH_FAILED,
		Message:  "Operational alert dispatch failed",
	}.WithDetail("event", event)
}

// Database Errors
func ErrDBConnectionFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_DB_CONNECTION_FAILED,
		Message:  "Database connection failed",
	}
}

func ErrDBQueryFailed(query string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_DB_QUERY_FAILED,
		Message:  "Database query failed",
	}.WithDetail("query", query)
}
