// Package gmail fetches messages through the Gmail API client and normalises
// them into content items for the email processor.
package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	apperrors "github.com/johnquangdev/clientpulse/errors"
	"github.com/johnquangdev/clientpulse/internal/domain/entities"
	"github.com/johnquangdev/clientpulse/pkg/config"
	"github.com/johnquangdev/clientpulse/pkg/htmltext"
)

const (
	provider = "gmail"
	userID   = "me"
)

// HTTPClientSource yields an authenticated client per fetch
type HTTPClientSource interface {
	HTTPClient(ctx context.Context) (*http.Client, error)
}

// Client implements the email fetcher
type Client struct {
	auth     HTTPClientSource
	endpoint string
	pageSize int
	maxItems int
	logger   *zap.Logger
}

// NewClient creates a Gmail fetcher. An empty GmailBaseURL uses the
// library's default endpoint.
func NewClient(auth HTTPClientSource, oauthCfg *config.GoogleOAuthConfig, ingestCfg *config.IngestionConfig, logger *zap.Logger) *Client {
	endpoint := ""
	if base := strings.TrimRight(oauthCfg.GmailBaseURL, "/"); base != "" {
		endpoint = base + "/"
	}
	return &Client{
		auth:     auth,
		endpoint: endpoint,
		pageSize: ingestCfg.PageSize,
		maxItems: ingestCfg.MaxItems,
		logger:   logger,
	}
}

func (c *Client) service(ctx context.Context) (*gmailapi.Service, error) {
	httpClient, err := c.auth.HTTPClient(ctx)
	if err != nil {
		return nil, err
	}
	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if c.endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.endpoint))
	}
	srv, err := gmailapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}
	return srv, nil
}

// Fetch lists messages received after since and returns them oldest first.
// The source configuration may narrow the search with "query" (Gmail search
// syntax) and "labels". When more messages match than the item cap allows,
// the oldest ones are returned and the batch is marked truncated so the
// next sync resumes after the newest fetched message.
func (c *Client) Fetch(ctx context.Context, source *entities.KnowledgeSource, since time.Time) (*entities.FetchBatch, error) {
	srv, err := c.service(ctx)
	if err != nil {
		return nil, apperrors.ErrProviderFetchFailed(provider, err)
	}

	ids, err := c.listMessageIDs(ctx, srv, c.searchQuery(source, since), source.ConfigStrings("labels"))
	if err != nil {
		return nil, apperrors.ErrProviderFetchFailed(provider, err)
	}

	// the API lists newest first
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
	matched := len(ids)
	truncated := c.maxItems > 0 && matched > c.maxItems
	if truncated {
		ids = ids[:c.maxItems]
	}

	items := make([]entities.ContentItem, 0, len(ids))
	for _, id := range ids {
		msg, err := srv.Users.Messages.Get(userID, id).Format("full").Context(ctx).Do()
		if err != nil {
			return nil, apperrors.ErrProviderFetchFailed(provider, fmt.Errorf("failed to get message %s: %w", id, err))
		}
		items = append(items, toContentItem(msg))
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp.Before(items[j].Timestamp)
	})

	batch := &entities.FetchBatch{Items: items, Truncated: truncated}
	if truncated && len(items) > 0 {
		// second resolution of "after:" may hide same-second siblings; the
		// ledger absorbs the re-fetched last item
		batch.Through = items[len(items)-1].Timestamp.Add(-time.Second)
		if c.logger != nil {
			c.logger.Warn("⚠️ Gmail fetch truncated at item cap",
				zap.String("knowledge_source_id", source.ID.String()),
				zap.Int("matched", matched),
				zap.Int("max_items", c.maxItems),
				zap.Time("through", batch.Through),
			)
		}
	}

	if c.logger != nil {
		c.logger.Debug("📥 Gmail messages fetched",
			zap.String("knowledge_source_id", source.ID.String()),
			zap.Int("count", len(items)),
			zap.Time("since", since),
		)
	}
	return batch, nil
}

func (c *Client) searchQuery(source *entities.KnowledgeSource, since time.Time) string {
	q := "after:" + strconv.FormatInt(since.Unix(), 10)
	if extra := strings.TrimSpace(source.ConfigString("query")); extra != "" {
		q += " " + extra
	}
	return q
}

func (c *Client) listMessageIDs(ctx context.Context, srv *gmailapi.Service, query string, labels []string) ([]string, error) {
	call := srv.Users.Messages.List(userID).Q(query)
	if c.pageSize > 0 {
		call = call.MaxResults(int64(c.pageSize))
	}
	if len(labels) > 0 {
		call = call.LabelIds(labels...)
	}

	var ids []string
	err := call.Pages(ctx, func(page *gmailapi.ListMessagesResponse) error {
		for _, m := range page.Messages {
			ids = append(ids, m.Id)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return ids, nil
}

func toContentItem(msg *gmailapi.Message) entities.ContentItem {
	item := entities.ContentItem{
		ID:    msg.Id,
		From:  header(msg.Payload, "From"),
		Title: header(msg.Payload, "Subject"),
		Kind:  entities.ContentKindEmail,
		Metadata: map[string]string{
			"thread_id": msg.ThreadId,
		},
	}
	if len(msg.LabelIds) > 0 {
		item.Metadata["labels"] = strings.Join(msg.LabelIds, ",")
	}
	if msg.InternalDate > 0 {
		item.Timestamp = time.UnixMilli(msg.InternalDate).UTC()
	}

	item.Text = bodyText(msg.Payload)
	if item.Text == "" {
		item.Text = msg.Snippet
	}
	return item
}

func header(p *gmailapi.MessagePart, name string) string {
	if p == nil {
		return ""
	}
	for _, h := range p.Headers {
		if h != nil && strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

// bodyText prefers the first text/plain part and falls back to text/html
func bodyText(root *gmailapi.MessagePart) string {
	if plain := findPart(root, "text/plain"); plain != nil {
		if data, ok := decodeBody(plain.Body.Data); ok {
			return htmltext.Normalize(string(data))
		}
	}
	if rich := findPart(root, "text/html"); rich != nil {
		if data, ok := decodeBody(rich.Body.Data); ok {
			if doc, err := htmltext.Extract(data, "message.html"); err == nil {
				return doc.Text
			}
		}
	}
	return ""
}

func findPart(p *gmailapi.MessagePart, mimeType string) *gmailapi.MessagePart {
	if p == nil {
		return nil
	}
	if p.Filename == "" && strings.EqualFold(p.MimeType, mimeType) && p.Body != nil && p.Body.Data != "" {
		return p
	}
	for _, child := range p.Parts {
		if found := findPart(child, mimeType); found != nil {
			return found
		}
	}
	return nil
}

// decodeBody handles the base64url body data, padded or not
func decodeBody(data string) ([]byte, bool) {
	if data == "" {
		return nil, false
	}
	if out, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(data, "=")); err == nil {
		return out, true
	}
	if out, err := base64.StdEncoding.DecodeString(data); err == nil {
		return out, true
	}
	return nil, false
}
