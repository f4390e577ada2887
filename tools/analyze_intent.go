package tools

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jobgenie/backend/agent"
	"github.com/jobgenie/backend/models"
)

// AnalyzeIntentTool turns a prompt or resume into search refinements
type AnalyzeIntentTool struct {
	analyzer *agent.IntentAnalyzer
}

// NewAnalyzeIntentTool creates a new intent analysis tool
func NewAnalyzeIntentTool(analyzer *agent.IntentAnalyzer) *AnalyzeIntentTool {
	return &AnalyzeIntentTool{analyzer: analyzer}
}

func (t *AnalyzeIntentTool) Name() string {
	return "analyze_search_intent"
}

func (t *AnalyzeIntentTool) Description() string {
	return `Analyze a job seeker's free-text request or resume.
Returns structured search refinements, prompts for missing information and example searches.`
}

func (t *AnalyzeIntentTool) InputSchema() map[string]interface{} {
	return objectSchema([]string{"input"}, map[string]interface{}{
		"input":    property("string", "Free-text search request or resume text"),
		"isResume": property("boolean", "Set when input is a resume"),
	})
}

func (t *AnalyzeIntentTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	req, err := decodeInput[models.AnalyzeIntentRequest](input)
	if err != nil {
		return NewErrorResult(err.Error())
	}
	if strings.TrimSpace(req.Input) == "" {
		return NewErrorResult("input is required")
	}

	result := t.analyzer.Analyze(ctx, req.Input, req.IsResume)
	return NewSuccessResult(IntentResponse(result))
}

// IntentResponse converts an analyzer result to its wire form
func IntentResponse(result agent.IntentResult) models.AnalyzeIntentResponse {
	resp := models.AnalyzeIntentResponse{
		Refinements: result.Refinements,
		MissingInfo: result.MissingInfo,
		Suggestions: result.Suggestions,
	}
	if resp.MissingInfo == nil {
		resp.MissingInfo = []string{}
	}
	if resp.Suggestions == nil {
		resp.Suggestions = []string{}
	}
	return resp
}
