package cron

import "time"

// SourceResult is the outcome of one knowledge source in a sync run
type SourceResult struct {
	Processed    int    `json:"processed" example:"3"`
	Errors       int    `json:"errors" example:"0"`
	Skipped      bool   `json:"skipped,omitempty" example:"false"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// SyncResponse is returned by GET /v1/cron/sync-knowledge-sources
type SyncResponse struct {
	Success    bool                    `json:"success" example:"true"`
	RunID      string                  `json:"run_id" example:"5b0e7c1e-8a9d-4c55-9a37-0d1d8e7e2f10"`
	StartedAt  time.Time               `json:"started_at"`
	FinishedAt time.Time               `json:"finished_at"`
	Results    map[string]SourceResult `json:"results"`
}

// SourceStatusResponse describes the schedule of one knowledge source
type SourceStatusResponse struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	SourceType          string     `json:"source_type" example:"email"`
	Enabled             bool       `json:"enabled"`
	Registered          bool       `json:"registered"`
	SyncIntervalMinutes int        `json:"sync_interval_minutes" example:"60"`
	LastSyncedAt        *time.Time `json:"last_synced_at,omitempty"`
	NextSyncAt          *time.Time `json:"next_sync_at,omitempty"`
	Due                 bool       `json:"due"`
}
