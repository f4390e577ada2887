package tools

import (
	"context"
	"encoding/json"

	"github.com/jobgenie/backend/agent"
	"github.com/jobgenie/backend/models"
)

// StructureJobTool normalizes a scraped job into a canonical listing
type StructureJobTool struct {
	structurer       *agent.Structurer
	defaultDateRange int
}

// NewStructureJobTool creates a new structuring tool
func NewStructureJobTool(structurer *agent.Structurer, defaultDateRange int) *StructureJobTool {
	return &StructureJobTool{structurer: structurer, defaultDateRange: defaultDateRange}
}

func (t *StructureJobTool) Name() string {
	return "structure_job"
}

func (t *StructureJobTool) Description() string {
	return `Normalize a scraped job posting into a structured job listing.
Returns no job when the posting is empty or older than the refinements' date range.`
}

func (t *StructureJobTool) InputSchema() map[string]interface{} {
	return objectSchema([]string{"job"}, map[string]interface{}{
		"job":         property("object", "Scraped job with title, company, location, description and postedDateText"),
		"sourceUrl":   property("string", "URL the job was scraped from"),
		"refinements": property("object", "Search refinements; dateRange sets the freshness window"),
	})
}

func (t *StructureJobTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	req, err := decodeInput[models.StructureJobRequest](input)
	if err != nil {
		return NewErrorResult(err.Error())
	}

	req.Refinements.Normalize(t.defaultDateRange)
	job := t.structurer.Structure(ctx, req.Job, req.SourceURL, req.Refinements)
	return NewSuccessResult(models.StructureJobResponse{Job: job})
}
