package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dpshade/prompt-overflow/internal/models"
)

// RemoteStore reads prompts from a hosted table through its PostgREST API
type RemoteStore struct {
	baseURL    string
	apiKey     string
	table      string
	httpClient *http.Client
}

// NewRemoteStore creates a store for {baseURL}/rest/v1/{table}. Requests are
// bounded only by the caller's context.
func NewRemoteStore(baseURL, apiKey, table string) *RemoteStore {
	return &RemoteStore{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		table:      table,
		httpClient: &http.Client{},
	}
}

// WithHTTPClient replaces the HTTP client, e.g. to set a request timeout
func (s *RemoteStore) WithHTTPClient(client *http.Client) *RemoteStore {
	s.httpClient = client
	return s
}

// Name implements Repository
func (s *RemoteStore) Name() string {
	return fmt.Sprintf("remote table %q", s.table)
}

// remoteRow mirrors one row of the prompts table
type remoteRow struct {
	ID          flexibleID `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Tags        []string   `json:"tags"`
	Prompt      string     `json:"prompt"`
	CreatedAt   string     `json:"created_at"`
}

// flexibleID accepts both numeric and string primary keys
type flexibleID string

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("unsupported id value %s", string(data))
	}
	*f = flexibleID(n.String())
	return nil
}

func (r remoteRow) toPrompt() models.Prompt {
	return models.Prompt{
		ID:        string(r.ID),
		Name:      r.Title,
		Summary:   r.Description,
		Category:  r.Category,
		Tags:      r.Tags,
		Body:      r.Prompt,
		CreatedAt: parseTimestamp(r.CreatedAt),
	}
}

// endpoint builds the select-all, newest-first query
func (s *RemoteStore) endpoint() string {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("order", "created_at.desc")
	return s.baseURL + "/rest/v1/" + url.PathEscape(s.table) + "?" + query.Encode()
}

// FetchPrompts implements Repository
func (s *RemoteStore) FetchPrompts(ctx context.Context) ([]models.Prompt, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if s.apiKey != "" {
		req.Header.Set("apikey", s.apiKey)
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("remote returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var rows []remoteRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	prompts := make([]models.Prompt, 0, len(rows))
	for _, row := range rows {
		prompts = append(prompts, row.toPrompt())
	}
	return prompts, nil
}
