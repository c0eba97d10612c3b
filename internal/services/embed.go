package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fax1015/mosu-cli/internal/models"
	"github.com/fax1015/mosu-cli/internal/shared"
)

const embedSyncTimeout = 30 * time.Second

// EmbedItem is the public projection of a library item sent to the embed
// endpoint. User-private fields (tags, schedule) are omitted.
type EmbedItem struct {
	Title        string `json:"title"`
	Artist       string `json:"artist"`
	Creator      string `json:"creator"`
	Version      string `json:"version"`
	Mode         int    `json:"mode"`
	BeatmapSetID string `json:"beatmapset_id"`
	DurationMS   int    `json:"duration_ms"`
	Done         bool   `json:"done"`
	Highlights   string `json:"highlights"`
}

// EmbedPayload is the request body for a full library sync.
type EmbedPayload struct {
	SyncedAt time.Time   `json:"synced_at"`
	Items    []EmbedItem `json:"items"`
}

// SyncResult reports the embed endpoint's response.
type SyncResult struct {
	Success bool
	Status  int
	Body    string
}

// EmbedService pushes the public library view to the embed endpoint.
type EmbedService struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewEmbedService creates an embed sync client for the given endpoint
func NewEmbedService(baseURL, apiKey string) *EmbedService {
	return &EmbedService{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: embedSyncTimeout},
	}
}

// SetHTTPClient overrides the HTTP client, used by tests
func (e *EmbedService) SetHTTPClient(client *http.Client) {
	e.httpClient = client
}

// Sync serializes items into the public payload and POSTs it with the
// bearer key. A non-2xx status is reported in the result, not as an error.
func (e *EmbedService) Sync(ctx context.Context, items []*models.Item) (*SyncResult, error) {
	if e.apiKey == "" {
		return nil, shared.ErrMissingAPIKey
	}
	if e.baseURL == "" {
		return nil, fmt.Errorf("%w: embed url not configured", shared.ErrMissingConfig)
	}

	payload := EmbedPayload{
		SyncedAt: time.Now().UTC(),
		Items:    make([]EmbedItem, 0, len(items)),
	}
	for _, item := range items {
		meta := item.Metadata()
		payload.Items = append(payload.Items, EmbedItem{
			Title:        meta.Title,
			Artist:       meta.Artist,
			Creator:      meta.Creator,
			Version:      meta.Version,
			Mode:         meta.Mode,
			BeatmapSetID: meta.BeatmapSetID,
			DurationMS:   item.DurationMS(),
			Done:         item.Done(),
			Highlights:   item.Highlights(),
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode embed payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return nil, fmt.Errorf("failed to read embed response: %w", err)
	}

	return &SyncResult{
		Success: resp.StatusCode >= 200 && resp.StatusCode < 300,
		Status:  resp.StatusCode,
		Body:    string(respBody),
	}, nil
}
