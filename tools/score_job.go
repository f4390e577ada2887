package tools

import (
	"context"
	"encoding/json"

	"github.com/jobgenie/backend/agent"
	"github.com/jobgenie/backend/models"
)

// ScoreJobTool scores a job listing against search refinements
type ScoreJobTool struct{}

// NewScoreJobTool creates a new job scoring tool
func NewScoreJobTool() *ScoreJobTool {
	return &ScoreJobTool{}
}

func (t *ScoreJobTool) Name() string {
	return "score_job_match"
}

func (t *ScoreJobTool) Description() string {
	return `Score how well a job listing matches search refinements.
Returns a match score (70-95), up to three reasons and the must-have skills the listing does not mention.`
}

func (t *ScoreJobTool) InputSchema() map[string]interface{} {
	return objectSchema([]string{"job", "refinements"}, map[string]interface{}{
		"job":         property("object", "Structured job listing"),
		"refinements": property("object", "Search refinements with location, salary and mustHaveSkills"),
	})
}

func (t *ScoreJobTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	req, err := decodeInput[models.ScoreJobRequest](input)
	if err != nil {
		return NewErrorResult(err.Error())
	}

	scored := agent.Enhance(req.Job, req.Refinements)
	return NewSuccessResult(models.ScoreJobResponse{
		MatchScore:    scored.MatchScore,
		MatchReasons:  scored.MatchReasons,
		MissingSkills: scored.MissingSkills,
	})
}
