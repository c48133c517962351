package storage

import (
	"context"
	"errors"
	"path"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/clientpulse/errors"
	"github.com/johnquangdev/clientpulse/internal/domain/entities"
	"github.com/johnquangdev/clientpulse/pkg/ai"
	"github.com/johnquangdev/clientpulse/pkg/htmltext"
)

const provider = "document_bucket"

// ObjectStore is the subset of the bucket the document fetcher reads
type ObjectStore interface {
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
	ReadObject(ctx context.Context, key string, limit int64) ([]byte, error)
	PresignedURL(ctx context.Context, key string) (string, error)
}

// Transcriber turns a reachable audio URL into transcript text
type Transcriber interface {
	Transcribe(ctx context.Context, audioURL string) (string, error)
}

type documentFormat int

const (
	formatUnsupported documentFormat = iota
	formatText
	formatHTML
	formatAudio
)

var formats = map[string]documentFormat{
	".txt":  formatText,
	".md":   formatText,
	".csv":  formatText,
	".vtt":  formatText,
	".srt":  formatText,
	".html": formatHTML,
	".htm":  formatHTML,
	".mp3":  formatAudio,
	".m4a":  formatAudio,
	".wav":  formatAudio,
	".ogg":  formatAudio,
	".webm": formatAudio,
	".mp4":  formatAudio,
}

// DocumentFetcher reads documents, transcripts and recordings from the bucket.
//
// Source configuration:
//   - "prefix": only objects under this key prefix
//   - "extensions": restrict to these extensions (".md", "txt", ...)
//   - "content_type": "transcript" treats every text object as a transcript
type DocumentFetcher struct {
	store       ObjectStore
	transcriber Transcriber
	maxSize     int64
	logger      *zap.Logger
}

// NewDocumentFetcher creates a document fetcher. transcriber may be nil.
func NewDocumentFetcher(store ObjectStore, transcriber Transcriber, maxSize int64, logger *zap.Logger) *DocumentFetcher {
	return &DocumentFetcher{
		store:       store,
		transcriber: transcriber,
		maxSize:     maxSize,
		logger:      logger,
	}
}

// Fetch returns the objects modified after since, oldest first
func (f *DocumentFetcher) Fetch(ctx context.Context, source *entities.KnowledgeSource, since time.Time) (*entities.FetchBatch, error) {
	objects, err := f.store.ListObjects(ctx, source.ConfigString("prefix"))
	if err != nil {
		return nil, apperrors.ErrProviderFetchFailed(provider, err)
	}

	allowed := allowedExtensions(source.ConfigStrings("extensions"))
	forceTranscript := strings.EqualFold(source.ConfigString("content_type"), string(entities.ContentKindTranscript))

	var items []entities.ContentItem
	for _, obj := range objects {
		if !obj.LastModified.After(since) || strings.HasSuffix(obj.Key, "/") {
			continue
		}
		ext := strings.ToLower(path.Ext(obj.Key))
		if allowed != nil && !allowed[ext] {
			continue
		}

		item, err := f.load(ctx, obj, ext, forceTranscript)
		if err != nil {
			if errors.Is(err, entities.ErrUnsupportedDocument) ||
				errors.Is(err, entities.ErrDocumentTooLarge) ||
				errors.Is(err, ai.ErrTranscriptionDisabled) {
				f.skip(obj, err)
				continue
			}
			return nil, apperrors.ErrProviderFetchFailed(provider, err)
		}
		if item.Text == "" {
			f.skip(obj, errors.New("empty document"))
			continue
		}
		items = append(items, *item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp.Before(items[j].Timestamp)
	})
	return &entities.FetchBatch{Items: items}, nil
}

func (f *DocumentFetcher) load(ctx context.Context, obj ObjectInfo, ext string, forceTranscript bool) (*entities.ContentItem, error) {
	item := &entities.ContentItem{
		ID:        obj.Key,
		Timestamp: obj.LastModified,
		Title:     path.Base(obj.Key),
		Kind:      entities.ContentKindDocument,
		Metadata: map[string]string{
			"object_key": obj.Key,
		},
	}
	if obj.ContentType != "" {
		item.Metadata["content_type"] = obj.ContentType
	}

	switch formats[ext] {
	case formatText:
		data, err := f.read(ctx, obj)
		if err != nil {
			return nil, err
		}
		if !utf8.Valid(data) {
			return nil, entities.ErrUnsupportedDocument
		}
		item.Text = htmltext.Normalize(string(data))
		if forceTranscript || ext == ".vtt" || ext == ".srt" || strings.Contains(strings.ToLower(obj.Key), "transcript") {
			item.Kind = entities.ContentKindTranscript
		}

	case formatHTML:
		data, err := f.read(ctx, obj)
		if err != nil {
			return nil, err
		}
		doc, err := htmltext.Extract(data, path.Base(obj.Key))
		if err != nil {
			return nil, err
		}
		item.Text = doc.Text
		if doc.Title != "" {
			item.Title = doc.Title
		}
		if forceTranscript {
			item.Kind = entities.ContentKindTranscript
		}

	case formatAudio:
		if f.transcriber == nil {
			return nil, ai.ErrTranscriptionDisabled
		}
		audioURL, err := f.store.PresignedURL(ctx, obj.Key)
		if err != nil {
			return nil, err
		}
		text, err := f.transcriber.Transcribe(ctx, audioURL)
		if err != nil {
			return nil, err
		}
		item.Text = strings.TrimSpace(text)
		item.Kind = entities.ContentKindTranscript
		item.Metadata["transcribed"] = "true"

	default:
		return nil, entities.ErrUnsupportedDocument
	}
	return item, nil
}

func (f *DocumentFetcher) read(ctx context.Context, obj ObjectInfo) ([]byte, error) {
	if f.maxSize > 0 && obj.Size > f.maxSize {
		return nil, entities.ErrDocumentTooLarge
	}
	limit := int64(0)
	if f.maxSize > 0 {
		limit = f.maxSize + 1
	}
	data, err := f.store.ReadObject(ctx, obj.Key, limit)
	if err != nil {
		return nil, err
	}
	if f.maxSize > 0 && int64(len(data)) > f.maxSize {
		return nil, entities.ErrDocumentTooLarge
	}
	return data, nil
}

func (f *DocumentFetcher) skip(obj ObjectInfo, reason error) {
	if f.logger != nil {
		f.logger.Warn("⏭️ Skipping document",
			zap.String("object_key", obj.Key),
			zap.Int64("size", obj.Size),
			zap.Error(reason),
		)
	}
}

func allowedExtensions(exts []string) map[string]bool {
	if len(exts) == 0 {
		return nil
	}
	out := make(map[string]bool, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out[ext] = true
	}
	return out
}

