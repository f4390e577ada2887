package agent

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/jobgenie/backend/config"
	"github.com/jobgenie/backend/gemini"
	"github.com/jobgenie/backend/models"
	"github.com/jobgenie/backend/scraper"
	"github.com/jobgenie/backend/search"
)

var (
	// ErrEmptyInput is returned when a search has no prompt, resume or refinements
	ErrEmptyInput = errors.New("a prompt, resume or refinements are required")
	// ErrInsufficientCredits is reported when the ledger refuses the search
	ErrInsufficientCredits = errors.New("insufficient credits")
	// ErrCreditCheckFailed is reported when the ledger could not be consulted
	ErrCreditCheckFailed = errors.New("credit check failed")
	// ErrAllQueriesFailed is reported when no search query succeeded
	ErrAllQueriesFailed = errors.New("all search queries failed")
)

// Status is the terminal state of a search run
type Status string

const (
	StatusOK                  Status = "ok"
	StatusNoResults           Status = "no_results"
	StatusNeedsInput          Status = "needs_input"
	StatusInsufficientCredits Status = "insufficient_credits"
	StatusFailed              Status = "failed"
)

// CreditLedger gates searches on the user's balance. Deduct must be atomic
// and fail closed.
type CreditLedger interface {
	HasCredits(ctx context.Context, userID string) (bool, error)
	Deduct(ctx context.Context, userID string) (bool, error)
}

// RunRecorder stores a summary of every finished run
type RunRecorder interface {
	RecordRun(ctx context.Context, run *models.SearchRun) error
}

// SearchInput is one search request
type SearchInput struct {
	UserID      string
	Prompt      string
	ResumeText  string
	Refinements *models.SearchRefinements
}

// SearchStats provides statistics about the search
type SearchStats struct {
	QueriesIssued   int `json:"queries_issued"`
	QueriesFailed   int `json:"queries_failed"`
	URLsFound       int `json:"urls_found"`
	URLsSkipped     int `json:"urls_skipped"`
	PagesVisited    int `json:"pages_visited"`
	PagesFailed     int `json:"pages_failed"`
	ListPages       int `json:"list_pages"`
	JobsScraped     int `json:"jobs_scraped"`
	JobsStructured  int `json:"jobs_structured"`
	FallbacksUsed   int `json:"fallbacks_used"`
	RejectedStale   int `json:"rejected_stale"`
	RejectedEmpty   int `json:"rejected_empty"`
	RejectedQuality int `json:"rejected_quality"`
	Excluded        int `json:"excluded"`
	Duplicates      int `json:"duplicates"`
	JobsReturned    int `json:"jobs_returned"`
}

// SearchOutcome is the result of a search run. Err is set for the failed and
// insufficient_credits statuses.
type SearchOutcome struct {
	Status      Status
	Err         error
	Results     []models.EnhancedJobListing
	Refinements models.SearchRefinements
	MissingInfo []string
	Suggestions []string
	Queries     []string
	Stats       SearchStats
}

// JobAgent runs the search pipeline: intent, queries, fan-out, page
// resolution, structuring, filtering and ranking
type JobAgent struct {
	cfg        *config.Config
	analyzer   *IntentAnalyzer
	provider   search.Provider
	resolver   *Resolver
	structurer *Structurer
	ledger     CreditLedger
	recorder   RunRecorder
	now        func() time.Time
}

// NewJobAgent wires the pipeline. ledger and recorder may be nil, which
// disables credit checks and run history.
func NewJobAgent(cfg *config.Config, gen gemini.Generator, provider search.Provider, fetcher scraper.PageFetcher, ledger CreditLedger, recorder RunRecorder) *JobAgent {
	return &JobAgent{
		cfg:      cfg,
		analyzer: NewIntentAnalyzer(gen, cfg.DefaultDateRangeDays),
		provider: provider,
		resolver: NewResolver(fetcher, ResolverOptions{
			ListFanout:    cfg.ListFanout,
			MaxConcurrent: cfg.MaxConcurrentFetches,
			MaxJobs:       cfg.MaxJobs * 2,
			Timeout:       scraper.FetchBudget(cfg),
		}),
		structurer: NewStructurer(gen),
		ledger:     ledger,
		recorder:   recorder,
		now:        time.Now,
	}
}

// AnalyzeIntent exposes the intent analyzer on its own
func (a *JobAgent) AnalyzeIntent(ctx context.Context, input string, isResume bool) IntentResult {
	return a.analyzer.Analyze(ctx, input, isResume)
}

// Analyzer exposes the intent analyzer used by the pipeline
func (a *JobAgent) Analyzer() *IntentAnalyzer {
	return a.analyzer
}

// Resolver exposes the page resolver used by the pipeline
func (a *JobAgent) Resolver() *Resolver {
	return a.resolver
}

// Structurer exposes the structuring engine used by the pipeline
func (a *JobAgent) Structurer() *Structurer {
	return a.structurer
}

// SearchJobs performs the complete job search flow. Only input errors are
// returned as errors; every other failure is reported in the outcome.
func (a *JobAgent) SearchJobs(ctx context.Context, in SearchInput) (*SearchOutcome, error) {
	prompt := strings.TrimSpace(in.Prompt)
	resume := strings.TrimSpace(in.ResumeText)
	if prompt == "" && resume == "" && in.Refinements == nil {
		return nil, ErrEmptyInput
	}

	log.Printf("[Agent] Starting job search for user=%q, prompt=%q, hasResume=%v, hasRefinements=%v",
		in.UserID, prompt, resume != "", in.Refinements != nil)

	outcome := &SearchOutcome{}

	// Step 1: cheap balance check before any paid work
	if a.ledger != nil {
		ok, err := a.ledger.HasCredits(ctx, in.UserID)
		if err != nil {
			return a.abort(outcome, StatusFailed, ErrCreditCheckFailed, err), nil
		}
		if !ok {
			return a.abort(outcome, StatusInsufficientCredits, ErrInsufficientCredits, nil), nil
		}
	}

	// Step 2: refinements, either supplied or analyzed
	if in.Refinements != nil {
		outcome.Refinements = *in.Refinements
		outcome.Refinements.Normalize(a.cfg.DefaultDateRangeDays)
	} else {
		input, isResume := prompt, false
		if resume != "" {
			input, isResume = resume, true
			if prompt != "" {
				input = prompt + "\n\n" + resume
			}
		}
		intent := a.analyzer.Analyze(ctx, input, isResume)
		outcome.Refinements = intent.Refinements
		outcome.MissingInfo = intent.MissingInfo
		outcome.Suggestions = intent.Suggestions
	}
	if len(outcome.Refinements.JobTitles) == 0 {
		log.Printf("[Agent] No job title could be derived, asking for more input")
		outcome.Status = StatusNeedsInput
		return outcome, nil
	}

	// Step 3: the search is going ahead, take the credit
	if a.ledger != nil {
		ok, err := a.ledger.Deduct(ctx, in.UserID)
		if err != nil {
			return a.abort(outcome, StatusFailed, ErrCreditCheckFailed, err), nil
		}
		if !ok {
			return a.abort(outcome, StatusInsufficientCredits, ErrInsufficientCredits, nil), nil
		}
	}

	a.runPipeline(ctx, outcome)
	a.record(ctx, in.UserID, outcome)
	return outcome, nil
}

func (a *JobAgent) abort(outcome *SearchOutcome, status Status, reason, cause error) *SearchOutcome {
	if cause != nil {
		log.Printf("[Agent] Aborting search: %v: %v", reason, cause)
	} else {
		log.Printf("[Agent] Aborting search: %v", reason)
	}
	outcome.Status = status
	outcome.Err = reason
	return outcome
}

func (a *JobAgent) runPipeline(ctx context.Context, outcome *SearchOutcome) {
	refinements := outcome.Refinements
	stats := &outcome.Stats
	runStart := a.now()

	// Step 4: build and issue queries
	outcome.Queries = search.Plan(refinements)
	log.Printf("[Agent] Built %d queries, first: %s", len(outcome.Queries), outcome.Queries[0])

	fan := search.FanOut(ctx, a.provider, outcome.Queries, search.FanOutOptions{
		PerQuery:  a.cfg.ResultsPerQuery,
		GlobalCap: a.cfg.MaxURLs,
		Country:   a.cfg.SearchCountry,
	})
	stats.QueriesIssued = fan.QueriesIssued
	stats.QueriesFailed = fan.QueriesFailed
	stats.URLsFound = len(fan.Results)
	stats.URLsSkipped = fan.Skipped

	if fan.AllFailed() {
		outcome.Status = StatusFailed
		outcome.Err = ErrAllQueriesFailed
		log.Printf("[Agent] All %d queries failed", fan.QueriesIssued)
		return
	}
	if len(fan.Results) == 0 {
		outcome.Status = StatusNoResults
		outcome.Results = []models.EnhancedJobListing{}
		return
	}

	// Step 5: resolve pages
	resolved, rs := a.resolver.ResolveAll(ctx, fan.Results)
	stats.PagesVisited = rs.Visited
	stats.PagesFailed = rs.Failed
	stats.ListPages = rs.ListPages
	stats.JobsScraped = len(resolved)

	// Step 6: structure concurrently
	listings := a.structureAll(ctx, resolved, refinements, runStart, stats)
	stats.JobsStructured = len(listings)

	// Step 7: quality, exclusions and duplicates
	filtered, report := FilterJobs(listings, refinements.Exclusions)
	stats.RejectedQuality = report.LowQuality
	stats.Excluded = report.Excluded
	stats.Duplicates = report.Duplicates

	// Step 8: score and order
	ranked := Rank(filtered, refinements)
	if len(ranked) > a.cfg.MaxJobs {
		ranked = ranked[:a.cfg.MaxJobs]
	}
	stats.JobsReturned = len(ranked)
	outcome.Results = ranked

	outcome.Status = StatusOK
	if len(ranked) == 0 {
		outcome.Status = StatusNoResults
	}
	log.Printf("[Agent] Returning %d ranked jobs", len(ranked))
}

// structureAll structures jobs with bounded concurrency. Output order follows
// input order.
func (a *JobAgent) structureAll(ctx context.Context, resolved []ResolvedJob, refinements models.SearchRefinements, now time.Time, stats *SearchStats) []models.JobListing {
	type structured struct {
		job     *models.JobListing
		outcome structureOutcome
	}
	out := make([]structured, len(resolved))

	limit := a.cfg.MaxConcurrentFetches
	if limit <= 0 {
		limit = 4
	}
	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup

	for i, rj := range resolved {
		wg.Add(1)
		go func(i int, rj ResolvedJob) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			raw := rj.Job
			if raw.PostedDateText == "" {
				raw.PostedDateText = rj.Snippet
			}
			job, outcome := a.structurer.structure(ctx, raw, rj.SourceURL, refinements, now)
			out[i] = structured{job: job, outcome: outcome}
		}(i, rj)
	}
	wg.Wait()

	listings := make([]models.JobListing, 0, len(out))
	for _, s := range out {
		switch s.outcome {
		case outcomeStale:
			stats.RejectedStale++
		case outcomeEmpty:
			stats.RejectedEmpty++
		case outcomeFallback:
			stats.FallbacksUsed++
		}
		if s.job != nil {
			listings = append(listings, *s.job)
		}
	}
	return listings
}

// record stores the run summary. Failures are logged and never affect the outcome.
func (a *JobAgent) record(ctx context.Context, userID string, outcome *SearchOutcome) {
	if a.recorder == nil || userID == "" {
		return
	}

	run := &models.SearchRun{
		UserID:      userID,
		Status:      string(outcome.Status),
		Refinements: outcome.Refinements,
		Queries:     outcome.Queries,
		URLsVisited: outcome.Stats.PagesVisited,
		JobsFound:   len(outcome.Results),
		CreatedAt:   a.now(),
	}
	if outcome.Err != nil {
		run.Error = outcome.Err.Error()
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := a.recorder.RecordRun(ctx, run); err != nil {
		log.Printf("[Agent] Failed to record search run: %v", err)
	}
}
