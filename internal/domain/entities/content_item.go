package entities

import "time"

// ContentItem is a normalised piece of content returned by a fetcher.
// ID is stable per provider and used as the dedupe key.
type ContentItem struct {
	ID        string            `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	From      string            `json:"from,omitempty"`
	Title     string            `json:"title,omitempty"`
	Text      string            `json:"text"`
	Kind      ContentKind       `json:"kind"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// FetchBatch is the result of one fetch. Items are oldest first. A fetcher
// that stops at its item cap sets Truncated, and Through is then the newest
// point in time it fully covered; the next sync resumes from there.
type FetchBatch struct {
	Items     []ContentItem
	Truncated bool
	Through   time.Time
}

// ContentKind selects the extraction instruction for a content item
type ContentKind string

const (
	ContentKindEmail      ContentKind = "email"
	ContentKindTranscript ContentKind = "transcript"
	ContentKindDocument   ContentKind = "document"
	ContentKindNote       ContentKind = "note"
)
