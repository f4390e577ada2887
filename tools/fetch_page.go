package tools

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jobgenie/backend/models"
	"github.com/jobgenie/backend/scraper"
)

// FetchPageTool fetches a job page and classifies it as a single posting or a list
type FetchPageTool struct {
	fetcher scraper.PageFetcher
}

// NewFetchPageTool creates a new page fetch tool
func NewFetchPageTool(fetcher scraper.PageFetcher) *FetchPageTool {
	return &FetchPageTool{fetcher: fetcher}
}

func (t *FetchPageTool) Name() string {
	return "fetch_job_page"
}

func (t *FetchPageTool) Description() string {
	return `Fetch a job page URL and extract its posting.
Returns type "single" with the scraped job, or type "list" with the postings linked from it.`
}

func (t *FetchPageTool) InputSchema() map[string]interface{} {
	return objectSchema([]string{"url"}, map[string]interface{}{
		"url": property("string", "URL of the job page to fetch"),
	})
}

func (t *FetchPageTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	req, err := decodeInput[models.FetchPageRequest](input)
	if err != nil {
		return NewErrorResult(err.Error())
	}
	if strings.TrimSpace(req.URL) == "" {
		return NewErrorResult("url is required")
	}

	resp, err := t.fetcher.FetchJobPage(ctx, req.URL)
	if err != nil {
		return NewErrorResult(err.Error())
	}
	return NewSuccessResult(resp)
}
