package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/jobgenie/backend/models"
)

func TestAnalyze_SingleWordSkipsProvider(t *testing.T) {
	gen := replyWith(`{"refinements":{"jobTitles":["Developer"]}}`)
	a := NewIntentAnalyzer(gen, 4)

	got := a.Analyze(context.Background(), "developer", false)
	if gen.calls() != 0 {
		t.Errorf("generator called %d times", gen.calls())
	}
	if len(got.MissingInfo) != 2 {
		t.Errorf("MissingInfo = %v, want title and location prompts", got.MissingInfo)
	}
	if got.Analyzed {
		t.Error("Analyzed should be false for a precheck response")
	}
}

func TestAnalyze_DecodesFencedReply(t *testing.T) {
	reply := "Here you go:\n```json\n" + `{
		"refinements": {
			"jobTitles": "Backend Engineer",
			"location": {"city": "Austin", "remote": false},
			"seniority": "Senior",
			"mustHaveSkills": ["Go", " Postgres "],
			"salary": {"min": "120k", "currency": "USD"},
			"dateRange": null
		},
		"missingInfo": [],
		"suggestions": ["Senior Go engineer in Austin"]
	}` + "\n```"
	a := NewIntentAnalyzer(replyWith(reply), 4)

	got := a.Analyze(context.Background(), "senior go backend engineer in Austin, 120k", false)
	r := got.Refinements
	if len(r.JobTitles) != 1 || r.JobTitles[0] != "Backend Engineer" {
		t.Errorf("JobTitles = %v", r.JobTitles)
	}
	if r.Location.City != "Austin" || r.Seniority != models.SenioritySenior {
		t.Errorf("city=%q seniority=%q", r.Location.City, r.Seniority)
	}
	if len(r.MustHaveSkills) != 2 || r.MustHaveSkills[1] != "Postgres" {
		t.Errorf("MustHaveSkills = %v", r.MustHaveSkills)
	}
	if r.Salary.Min != 120000 {
		t.Errorf("Salary.Min = %v", r.Salary.Min)
	}
	if r.MaxAgeDays() != 4 {
		t.Errorf("DateRange = %d, want default 4", r.MaxAgeDays())
	}
	if len(got.MissingInfo) != 0 {
		t.Errorf("MissingInfo = %v, want none", got.MissingInfo)
	}
	if !got.Analyzed {
		t.Error("Analyzed = false")
	}
}

func TestAnalyze_FlatReply(t *testing.T) {
	a := NewIntentAnalyzer(replyWith(`{"jobTitles":["Nurse"],"location":{"remote":true}}`), 3)

	got := a.Analyze(context.Background(), "remote nurse jobs", false)
	if len(got.Refinements.JobTitles) != 1 || !got.Refinements.Location.Remote {
		t.Errorf("Refinements = %+v", got.Refinements)
	}
	found := false
	for _, m := range got.MissingInfo {
		if m == missingSalary {
			found = true
		}
	}
	if !found {
		t.Errorf("MissingInfo = %v, want a salary prompt", got.MissingInfo)
	}
}

func TestAnalyze_ProviderFailureReturnsDefaults(t *testing.T) {
	for name, gen := range map[string]*fakeGenerator{
		"error":   failingGenerator(),
		"garbage": replyWith("I am unable to produce JSON today."),
	} {
		t.Run(name, func(t *testing.T) {
			got := NewIntentAnalyzer(gen, 4).Analyze(context.Background(), "data analyst jobs near me", false)
			r := got.Refinements
			if !r.Location.Remote || r.Seniority != models.SeniorityMid || r.MaxAgeDays() != 4 {
				t.Errorf("defaults = %+v", r)
			}
			if len(got.MissingInfo) == 0 {
				t.Error("MissingInfo is empty")
			}
		})
	}
}

func TestAnalyze_TruncatesInput(t *testing.T) {
	gen := failingGenerator()
	input := "python developer " + strings.Repeat("z", 5000)

	NewIntentAnalyzer(gen, 4).Analyze(context.Background(), input, true)
	if gen.calls() != 1 {
		t.Fatalf("generator called %d times", gen.calls())
	}
	prompt := gen.prompts[0]
	if !strings.Contains(prompt, "python developer") {
		t.Error("prompt is missing the input")
	}
	if strings.Contains(prompt, strings.Repeat("z", maxIntentInput)) {
		t.Error("prompt carried more than the truncated input")
	}
}

func TestAnalyze_ResumeSkipsPrecheck(t *testing.T) {
	gen := replyWith(`{"refinements":{"jobTitles":["Accountant"],"location":{"city":"Leeds"}}}`)

	got := NewIntentAnalyzer(gen, 4).Analyze(context.Background(), "Accountant", true)
	if gen.calls() != 1 {
		t.Errorf("generator called %d times, want 1", gen.calls())
	}
	if len(got.Refinements.JobTitles) != 1 {
		t.Errorf("JobTitles = %v", got.Refinements.JobTitles)
	}
}
