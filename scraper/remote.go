package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jobgenie/backend/models"
	"github.com/jobgenie/backend/utils"
)

// RemoteClient calls a page-fetching service over HTTP. The service answers
// POST {"url": ...} with a FetchPageResponse.
type RemoteClient struct {
	endpoint string
	token    string
	client   *http.Client
}

// NewRemoteClient creates a client for the fetch service at endpoint. token
// is sent as the service token header when set.
func NewRemoteClient(endpoint, token string, timeout time.Duration) *RemoteClient {
	return &RemoteClient{
		endpoint: endpoint,
		token:    token,
		client:   utils.NewHTTPClient(timeout),
	}
}

// FetchJobPage asks the remote service for pageURL
func (c *RemoteClient) FetchJobPage(ctx context.Context, pageURL string) (*models.FetchPageResponse, error) {
	payload, err := json.Marshal(models.FetchPageRequest{URL: pageURL})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set(models.ServiceTokenHeader, c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch service unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch service error (status %d): %s", resp.StatusCode, utils.Truncate(string(body), 200))
	}

	var out models.FetchPageResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to parse fetch response: %w", err)
	}
	if out.URL == "" {
		out.URL = pageURL
	}
	return &out, nil
}
