package agent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jobgenie/backend/models"
	"github.com/jobgenie/backend/scraper"
)

// maxResolveDepth is the deepest level a URL can sit at: search results are
// depth 1, postings linked from a list page are depth 2.
const maxResolveDepth = 2

// ResolvedJob is a scraped posting together with where it came from
type ResolvedJob struct {
	Job       models.ScrapedJob
	SourceURL string
	// Snippet is the search snippet of the root result, used as a date hint
	Snippet string
}

// ResolveStats counts resolver activity
type ResolveStats struct {
	Visited   int `json:"visited"`
	Failed    int `json:"failed"`
	ListPages int `json:"list_pages"`
	Dropped   int `json:"dropped"`
}

// ResolverOptions bound a resolution run
type ResolverOptions struct {
	ListFanout    int
	MaxConcurrent int
	// MaxJobs stops dispatching new fetches once this many jobs are collected
	MaxJobs int
	Timeout time.Duration
}

// Resolver turns search result URLs into scraped postings, following list
// pages one level down
type Resolver struct {
	fetcher scraper.PageFetcher
	opts    ResolverOptions
}

// NewResolver creates a resolver over fetcher
func NewResolver(fetcher scraper.PageFetcher, opts ResolverOptions) *Resolver {
	if opts.ListFanout <= 0 {
		opts.ListFanout = 4
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 4
	}
	return &Resolver{fetcher: fetcher, opts: opts}
}

type workItem struct {
	url     string
	snippet string
	depth   int
}

type resolution struct {
	item workItem
	resp *models.FetchPageResponse
	err  error
}

// ResolveAll resolves every result. Each URL is fetched at most once, a
// failing URL never affects the others, and in-flight fetches are drained
// when ctx is cancelled or the job cap is reached.
func (r *Resolver) ResolveAll(ctx context.Context, results []models.SearchResult) ([]ResolvedJob, ResolveStats) {
	var (
		stats    ResolveStats
		jobs     []ResolvedJob
		queue    []workItem
		inFlight int
	)
	visited := make(map[string]bool)
	done := make(chan resolution, r.opts.MaxConcurrent)

	for _, res := range results {
		queue = append(queue, workItem{url: res.Link, snippet: res.Snippet, depth: 1})
	}

	capped := func() bool {
		return r.opts.MaxJobs > 0 && len(jobs) >= r.opts.MaxJobs
	}

	for {
		// Dispatch while there is capacity. This loop is the only writer of
		// visited, queue and jobs.
		for len(queue) > 0 && inFlight < r.opts.MaxConcurrent && !capped() && ctx.Err() == nil {
			item := queue[0]
			queue = queue[1:]

			key := visitKey(item.url)
			if key == "" || visited[key] {
				continue
			}
			visited[key] = true
			stats.Visited++
			inFlight++

			go func(item workItem) {
				resp, err := r.resolve(ctx, item.url)
				done <- resolution{item: item, resp: resp, err: err}
			}(item)
		}

		if inFlight == 0 {
			break
		}

		res := <-done
		inFlight--

		if res.err != nil {
			stats.Failed++
			log.Printf("[Resolver] Failed to resolve %s: %v", res.item.url, res.err)
			continue
		}

		switch res.resp.Type {
		case models.PageTypeList:
			stats.ListPages++
			if res.item.depth >= maxResolveDepth {
				stats.Dropped++
				log.Printf("[Resolver] Dropping nested list page %s", res.item.url)
				continue
			}
			children := res.resp.Jobs
			if len(children) > r.opts.ListFanout {
				children = children[:r.opts.ListFanout]
			}
			log.Printf("[Resolver] List page %s: following %d of %d postings",
				res.item.url, len(children), len(res.resp.Jobs))
			for _, child := range children {
				if child.URL == "" {
					continue
				}
				queue = append(queue, workItem{url: child.URL, depth: res.item.depth + 1})
			}

		default:
			if res.resp.Job == nil || res.resp.Job.IsEmpty() {
				stats.Dropped++
				continue
			}
			source := res.resp.URL
			if source == "" {
				source = res.item.url
			}
			jobs = append(jobs, ResolvedJob{Job: *res.resp.Job, SourceURL: source, Snippet: res.item.snippet})
		}
	}

	if len(queue) > 0 {
		log.Printf("[Resolver] Stopped with %d URLs left unvisited", len(queue))
	}
	log.Printf("[Resolver] Visited %d URLs: %d jobs, %d list pages, %d failed",
		stats.Visited, len(jobs), stats.ListPages, stats.Failed)
	return jobs, stats
}

// Resolve fetches a single URL
func (r *Resolver) Resolve(ctx context.Context, pageURL string) (*models.FetchPageResponse, error) {
	return r.resolve(ctx, pageURL)
}

func (r *Resolver) resolve(ctx context.Context, pageURL string) (*models.FetchPageResponse, error) {
	if r.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
		defer cancel()
	}

	resp, err := r.fetcher.FetchJobPage(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, errors.New("empty fetch response")
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("fetch service: %s", resp.Error)
	}
	return resp, nil
}

func visitKey(pageURL string) string {
	return strings.TrimRight(strings.TrimSpace(pageURL), "/")
}
