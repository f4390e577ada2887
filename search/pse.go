package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jobgenie/backend/models"
	"github.com/jobgenie/backend/utils"
)

const pseBaseURL = "https://www.googleapis.com/customsearch/v1"

// PSEClient searches with Google Programmable Search Engine
type PSEClient struct {
	apiKey   string
	engineID string
	baseURL  string
	client   *http.Client
}

// NewPSEClient creates a Programmable Search client
func NewPSEClient(apiKey, engineID string, client *http.Client) *PSEClient {
	return &PSEClient{
		apiKey:   apiKey,
		engineID: engineID,
		baseURL:  pseBaseURL,
		client:   defaultClient(client),
	}
}

type pseResponse struct {
	Items []pseItem `json:"items"`
}

type pseItem struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Search pages through results 10 at a time until opts.Num are collected
func (c *PSEClient) Search(ctx context.Context, query string, opts Options) ([]models.SearchResult, error) {
	want := opts.Num
	if want <= 0 {
		want = 10
	}

	var results []models.SearchResult
	for start := 1; len(results) < want && start <= 91; start += 10 {
		num := want - len(results)
		if num > 10 {
			num = 10
		}

		items, err := c.searchPage(ctx, query, start, num, opts.Country)
		if err != nil {
			if len(results) > 0 {
				break
			}
			return nil, err
		}
		for _, item := range items {
			results = append(results, models.SearchResult{
				Title:   item.Title,
				Snippet: item.Snippet,
				Link:    item.Link,
			})
		}
		if len(items) < num {
			break
		}
	}
	return results, nil
}

// searchPage fetches a single page of results
func (c *PSEClient) searchPage(ctx context.Context, query string, start, num int, country string) ([]pseItem, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("cx", c.engineID)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(num))
	params.Set("start", strconv.Itoa(start))
	if country != "" {
		params.Set("gl", country)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("PSE API error (status %d): %s", resp.StatusCode, utils.Truncate(string(body), 200))
	}

	var parsed pseResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return parsed.Items, nil
}
