package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jobgenie/backend/models"
	"github.com/jobgenie/backend/utils"
)

const serpAPIBaseURL = "https://serpapi.com/search.json"

// SerpAPIClient queries Google through SerpAPI
type SerpAPIClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewSerpAPIClient creates a SerpAPI search client
func NewSerpAPIClient(apiKey string, client *http.Client) *SerpAPIClient {
	return &SerpAPIClient{
		apiKey:  apiKey,
		baseURL: serpAPIBaseURL,
		client:  defaultClient(client),
	}
}

type serpResponse struct {
	Error          string          `json:"error"`
	OrganicResults []serpOrganic   `json:"organic_results"`
	JobsResults    []serpJobResult `json:"jobs_results"`
}

type serpOrganic struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

type serpJobResult struct {
	Title              string `json:"title"`
	CompanyName        string `json:"company_name"`
	Location           string `json:"location"`
	Description        string `json:"description"`
	ShareLink          string `json:"share_link"`
	DetectedExtensions struct {
		PostedAt     string `json:"posted_at"`
		ScheduleType string `json:"schedule_type"`
	} `json:"detected_extensions"`
	ApplyOptions []struct {
		Title string `json:"title"`
		Link  string `json:"link"`
	} `json:"apply_options"`
}

// Search runs one Google query and merges organic and jobs results
func (c *SerpAPIClient) Search(ctx context.Context, query string, opts Options) ([]models.SearchResult, error) {
	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", query)
	params.Set("api_key", c.apiKey)
	if opts.Num > 0 {
		params.Set("num", strconv.Itoa(opts.Num))
	}
	if opts.Country != "" {
		params.Set("gl", opts.Country)
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
		return nil, fmt.Errorf("SerpAPI error (status %d): %s", resp.StatusCode, utils.Truncate(string(body), 200))
	}

	var parsed serpResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if parsed.Error != "" && len(parsed.OrganicResults) == 0 && len(parsed.JobsResults) == 0 {
		// SerpAPI reports "no results" through the error field
		if strings.Contains(strings.ToLower(parsed.Error), "hasn't returned any results") {
			return nil, nil
		}
		return nil, fmt.Errorf("SerpAPI error: %s", parsed.Error)
	}

	results := make([]models.SearchResult, 0, len(parsed.OrganicResults)+len(parsed.JobsResults))
	for _, item := range parsed.OrganicResults {
		results = append(results, models.SearchResult{
			Title:   item.Title,
			Snippet: item.Snippet,
			Link:    item.Link,
		})
	}
	for _, job := range parsed.JobsResults {
		if r, ok := jobResultToSearchResult(job); ok {
			results = append(results, r)
		}
	}
	return results, nil
}

// jobResultToSearchResult flattens a Google Jobs entry. The posted-at text
// leads the snippet so freshness can be read from it later.
func jobResultToSearchResult(job serpJobResult) (models.SearchResult, bool) {
	link := job.ShareLink
	if len(job.ApplyOptions) > 0 && job.ApplyOptions[0].Link != "" {
		link = job.ApplyOptions[0].Link
	}
	if link == "" {
		return models.SearchResult{}, false
	}

	var snippet []string
	if job.DetectedExtensions.PostedAt != "" {
		snippet = append(snippet, "Posted "+job.DetectedExtensions.PostedAt)
	}
	if job.CompanyName != "" {
		snippet = append(snippet, job.CompanyName)
	}
	if job.Location != "" {
		snippet = append(snippet, job.Location)
	}
	if job.Description != "" {
		snippet = append(snippet, utils.Truncate(job.Description, 300))
	}

	title := job.Title
	if job.CompanyName != "" {
		title = job.Title + " - " + job.CompanyName
	}

	return models.SearchResult{
		Title:   title,
		Snippet: strings.Join(snippet, " · "),
		Link:    link,
	}, true
}
