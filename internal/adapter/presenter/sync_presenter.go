package presenter

import (
	"fmt"

	"github.com/johnquangdev/clientpulse/internal/adapter/dto/cron"
	"github.com/johnquangdev/clientpulse/internal/usecase/ingest"
)

// ToSyncResponse converts a run report into the cron endpoint body. Results
// are keyed by source name; a repeated name gets the source id appended.
func ToSyncResponse(report *ingest.RunReport) *cron.SyncResponse {
	if report == nil {
		return nil
	}

	results := make(map[string]cron.SourceResult, len(report.Sources))
	for _, s := range report.Sources {
		key := s.Name
		if _, taken := results[key]; taken {
			key = fmt.Sprintf("%s (%s)", s.Name, s.SourceID)
		}
		results[key] = cron.SourceResult{
			Processed:    s.Processed,
			Errors:       s.Errors,
			Skipped:      s.Skipped,
			ErrorMessage: s.ErrorMessage,
		}
	}

	return &cron.SyncResponse{
		Success:    true,
		RunID:      report.RunID.String(),
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		Results:    results,
	}
}

// ToSourceStatusResponses converts scheduler status rows
func ToSourceStatusResponses(statuses []ingest.SourceStatus) []cron.SourceStatusResponse {
	out := make([]cron.SourceStatusResponse, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, cron.SourceStatusResponse{
			ID:                  s.ID.String(),
			Name:                s.Name,
			SourceType:          string(s.SourceType),
			Enabled:             s.Enabled,
			Registered:          s.Registered,
			SyncIntervalMinutes: s.SyncIntervalMinutes,
			LastSyncedAt:        s.LastSyncedAt,
			NextSyncAt:          s.NextSyncAt,
			Due:                 s.Due,
		})
	}
	return out
}
