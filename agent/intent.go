package agent

import (
	"context"
	"log"
	"regexp"
	"strings"

	"github.com/jobgenie/backend/gemini"
	"github.com/jobgenie/backend/models"
	"github.com/jobgenie/backend/utils"
)

// maxIntentInput bounds the text sent to the generative provider
const maxIntentInput = 2000

// Follow-up prompts returned alongside refinements
const (
	missingTitle    = "What job title or role are you looking for?"
	missingLocation = "Where do you want to work? Add a city or say remote."
	missingSalary   = "What is your minimum salary expectation?"
)

var defaultSuggestions = []string{
	"Senior Go developer in Berlin",
	"Remote product designer, $90k+",
	"Junior data analyst in Austin, full-time",
}

var (
	locationHintRe = regexp.MustCompile(`(?i)\b(remote|hybrid|on-?site|wfh|anywhere|(in|near|around|based in)\s+[a-z])`)
	cityStateRe    = regexp.MustCompile(`\b[A-Z][a-z]+,\s*[A-Z]{2}\b`)
	salaryHintRe   = regexp.MustCompile(`(?i)([$€£]\s*\d|\d+\s*k\b|\bsalary\b|per hour|/hr\b|\d{2,3},\d{3})`)
)

// IntentResult is the analyzer output. It is always usable.
type IntentResult struct {
	Refinements models.SearchRefinements
	MissingInfo []string
	Suggestions []string
	// Analyzed is false when defaults were returned without a usable model reply
	Analyzed bool
}

// IntentAnalyzer turns a free-text prompt or a resume into SearchRefinements
type IntentAnalyzer struct {
	gen              gemini.Generator
	defaultDateRange int
}

// NewIntentAnalyzer creates an analyzer backed by gen
func NewIntentAnalyzer(gen gemini.Generator, defaultDateRange int) *IntentAnalyzer {
	return &IntentAnalyzer{gen: gen, defaultDateRange: defaultDateRange}
}

type intentReply struct {
	Refinements *models.SearchRefinements  `json:"refinements"`
	MissingInfo models.FlexibleStringSlice `json:"missingInfo"`
	Suggestions models.FlexibleStringSlice `json:"suggestions"`
}

// Analyze never fails. When the provider is unavailable or its reply cannot
// be decoded, default refinements are returned with follow-up prompts.
func (a *IntentAnalyzer) Analyze(ctx context.Context, input string, isResume bool) IntentResult {
	input = strings.TrimSpace(input)

	if !isResume {
		if missing := precheck(input); missing != nil {
			log.Printf("[Agent] Prompt %q lacks a job title, asking for more detail", input)
			refinements := models.DefaultRefinements(a.defaultDateRange)
			if input != "" && !hasLocationHint(input) {
				refinements.JobTitles = models.FlexibleStringSlice{input}
			}
			return IntentResult{
				Refinements: refinements,
				MissingInfo: missing,
				Suggestions: defaultSuggestions,
			}
		}
	}

	if a.gen == nil {
		return a.fallback()
	}

	prompt := gemini.IntentPrompt(utils.Truncate(input, maxIntentInput), isResume)
	text, err := a.gen.Generate(ctx, prompt)
	if err != nil {
		log.Printf("[Agent] Intent analysis failed, using defaults: %v", err)
		return a.fallback()
	}

	reply, ok := utils.DecodeJSON[intentReply](text)
	refinements := reply.Refinements
	if !ok || refinements == nil {
		// Some replies put the refinement fields at the top level
		flat, flatOK := utils.DecodeJSON[models.SearchRefinements](text)
		if !flatOK {
			log.Printf("[Agent] Intent reply was not decodable, using defaults")
			return a.fallback()
		}
		refinements = &flat
	}
	refinements.Normalize(a.defaultDateRange)

	missing := append([]string{}, reply.MissingInfo...)
	if len(refinements.JobTitles) == 0 {
		missing = appendUnique(missing, missingTitle)
	}
	if refinements.Location.City == "" && !refinements.Location.Remote && !refinements.Location.Hybrid {
		missing = appendUnique(missing, missingLocation)
	}
	if !isResume && refinements.Salary.Min == 0 && !salaryHintRe.MatchString(input) {
		missing = appendUnique(missing, missingSalary)
	}

	suggestions := []string(reply.Suggestions)
	if len(suggestions) == 0 && len(missing) > 0 {
		suggestions = defaultSuggestions
	}

	log.Printf("[Agent] Analyzed intent: titles=%v, city=%q, remote=%v, skills=%v",
		refinements.JobTitles, refinements.Location.City, refinements.Location.Remote, refinements.MustHaveSkills)

	return IntentResult{
		Refinements: *refinements,
		MissingInfo: missing,
		Suggestions: suggestions,
		Analyzed:    true,
	}
}

func (a *IntentAnalyzer) fallback() IntentResult {
	return IntentResult{
		Refinements: models.DefaultRefinements(a.defaultDateRange),
		MissingInfo: []string{missingTitle, missingLocation},
		Suggestions: defaultSuggestions,
	}
}

// precheck returns follow-up prompts when a free-text prompt is too thin to
// analyze, or nil when the provider should be consulted.
// A prompt with at most one word carries no usable job title.
func precheck(input string) []string {
	if len(strings.Fields(input)) > 1 {
		return nil
	}
	missing := []string{missingTitle}
	if !hasLocationHint(input) {
		missing = append(missing, missingLocation)
	}
	return missing
}

func hasLocationHint(input string) bool {
	return locationHintRe.MatchString(input) || cityStateRe.MatchString(input)
}

func appendUnique(list []string, value string) []string {
	for _, v := range list {
		if strings.EqualFold(v, value) {
			return list
		}
	}
	return append(list, value)
}
