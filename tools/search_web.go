package tools

import (
	"context"
	"encoding/json"

	"github.com/jobgenie/backend/models"
	"github.com/jobgenie/backend/search"
)

// SearchWebTool runs search queries through the configured web search provider
type SearchWebTool struct {
	provider search.Provider
	opts     search.FanOutOptions
}

// NewSearchWebTool creates a new web search tool
func NewSearchWebTool(provider search.Provider, opts search.FanOutOptions) *SearchWebTool {
	return &SearchWebTool{provider: provider, opts: opts}
}

func (t *SearchWebTool) Name() string {
	return "search_web_for_jobs"
}

func (t *SearchWebTool) Description() string {
	return `Search the web for job postings.
Input is either a list of search queries or search refinements to build them from.
Returns deduplicated URLs of individual job postings.`
}

func (t *SearchWebTool) InputSchema() map[string]interface{} {
	return objectSchema(nil, map[string]interface{}{
		"queries": map[string]interface{}{
			"type":        "array",
			"items":       map[string]interface{}{"type": "string"},
			"description": "Search queries, issued in order",
		},
		"refinements": property("object", "Search refinements used to build queries when none are given"),
	})
}

func (t *SearchWebTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	req, err := decodeInput[models.WebSearchRequest](input)
	if err != nil {
		return NewErrorResult(err.Error())
	}

	queries := req.Queries
	if len(queries) == 0 && req.Refinements != nil {
		queries = search.Plan(*req.Refinements)
	}
	if len(queries) == 0 {
		return NewErrorResult("queries or refinements are required")
	}

	fan := search.FanOut(ctx, t.provider, queries, t.opts)
	if fan.AllFailed() {
		return NewErrorResult("all search queries failed")
	}

	urls := make([]string, 0, len(fan.Results))
	for _, r := range fan.Results {
		urls = append(urls, r.Link)
	}
	return NewSuccessResult(models.WebSearchResponse{URLs: urls, Results: fan.Results})
}
