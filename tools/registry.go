package tools

import (
	"github.com/jobgenie/backend/agent"
	"github.com/jobgenie/backend/scraper"
	"github.com/jobgenie/backend/search"
)

// NewDefaultRegistry exposes every pipeline stage of jobAgent as a tool
func NewDefaultRegistry(jobAgent *agent.JobAgent, provider search.Provider, fetcher scraper.PageFetcher, opts search.FanOutOptions, defaultDateRange int) *ToolRegistry {
	return NewToolRegistry(
		NewAnalyzeIntentTool(jobAgent.Analyzer()),
		NewSearchWebTool(provider, opts),
		NewFetchPageTool(fetcher),
		NewStructureJobTool(jobAgent.Structurer(), defaultDateRange),
		NewScoreJobTool(),
	)
}
