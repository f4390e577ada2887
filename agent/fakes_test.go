package agent

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jobgenie/backend/config"
	"github.com/jobgenie/backend/models"
	"github.com/jobgenie/backend/search"
)

var fixedNow = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		MaxURLs:              15,
		MaxJobs:              20,
		ResultsPerQuery:      10,
		ListFanout:           4,
		MaxConcurrentFetches: 4,
		DefaultDateRangeDays: 4,
		HTTPTimeoutSeconds:   5,
		SearchCountry:        "us",
	}
}

type fakeGenerator struct {
	mu      sync.Mutex
	prompts []string
	reply   func(prompt string) (string, error)
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	return f.reply(prompt)
}

func (f *fakeGenerator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func replyWith(text string) *fakeGenerator {
	return &fakeGenerator{reply: func(string) (string, error) { return text, nil }}
}

func failingGenerator() *fakeGenerator {
	return &fakeGenerator{reply: func(string) (string, error) { return "", errors.New("quota exceeded") }}
}

type fakeProvider struct {
	mu      sync.Mutex
	queries []string
	results []models.SearchResult
	err     error
}

func (f *fakeProvider) Search(_ context.Context, query string, _ search.Options) ([]models.SearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func (f *fakeProvider) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

type fakeFetcher struct {
	mu    sync.Mutex
	pages map[string]*models.FetchPageResponse
	errs  map[string]error
	hits  map[string]int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		pages: make(map[string]*models.FetchPageResponse),
		errs:  make(map[string]error),
		hits:  make(map[string]int),
	}
}

func (f *fakeFetcher) single(url string, job models.ScrapedJob) {
	job.URL = url
	f.pages[url] = &models.FetchPageResponse{Type: models.PageTypeSingle, URL: url, Job: &job}
}

func (f *fakeFetcher) list(url string, children ...string) {
	jobs := make([]models.ScrapedJob, 0, len(children))
	for _, c := range children {
		jobs = append(jobs, models.ScrapedJob{Title: "Listed role", URL: c})
	}
	f.pages[url] = &models.FetchPageResponse{Type: models.PageTypeList, URL: url, Jobs: jobs}
}

func (f *fakeFetcher) FetchJobPage(_ context.Context, url string) (*models.FetchPageResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hits[url]++
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	if page, ok := f.pages[url]; ok {
		return page, nil
	}
	return nil, errors.New("not found")
}

func (f *fakeFetcher) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.hits {
		n += c
	}
	return n
}

type fakeLedger struct {
	mu          sync.Mutex
	credits     int
	err         error
	hasCalls    int
	deductCalls int
}

func (l *fakeLedger) HasCredits(context.Context, string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hasCalls++
	if l.err != nil {
		return false, l.err
	}
	return l.credits > 0, nil
}

func (l *fakeLedger) Deduct(context.Context, string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.deductCalls++
	if l.err != nil {
		return false, l.err
	}
	if l.credits <= 0 {
		return false, nil
	}
	l.credits--
	return true, nil
}

type fakeRecorder struct {
	mu   sync.Mutex
	runs []*models.SearchRun
}

func (r *fakeRecorder) RecordRun(_ context.Context, run *models.SearchRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, run)
	return nil
}

// postingDescription is a realistic description with requirement and
// responsibility sections
func postingDescription(datePhrase string) string {
	return "Acme Co is hiring a Backend Engineer to build reliable services in Python. " + datePhrase + "\n" +
		"Requirements:\n" +
		"- 3+ years of Python experience\n" +
		"- Familiarity with PostgreSQL databases\n" +
		"Responsibilities:\n" +
		"- Build and maintain internal APIs\n" +
		"- Review code from teammates\n"
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
