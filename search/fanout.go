package search

import (
	"context"
	"log"
	"net/url"
	"strings"

	"github.com/jobgenie/backend/models"
)

// FanOutOptions caps a fan-out
type FanOutOptions struct {
	PerQuery  int
	GlobalCap int
	Country   string
}

// FanOutResult holds the merged results and per-query accounting
type FanOutResult struct {
	Results       []models.SearchResult
	QueriesIssued int
	QueriesFailed int
	Skipped       int
}

// AllFailed reports whether every issued query failed
func (r FanOutResult) AllFailed() bool {
	return r.QueriesIssued > 0 && r.QueriesFailed == r.QueriesIssued
}

// FanOut issues queries one after another, merges results by URL and stops
// issuing once GlobalCap unique URLs are collected. A failing query is
// logged and skipped.
func FanOut(ctx context.Context, p Provider, queries []string, opts FanOutOptions) FanOutResult {
	var out FanOutResult
	seen := make(map[string]bool)

	for _, q := range queries {
		if opts.GlobalCap > 0 && len(out.Results) >= opts.GlobalCap {
			break
		}
		if ctx.Err() != nil {
			log.Printf("[Search] Context done, stopping fan-out: %v", ctx.Err())
			break
		}

		out.QueriesIssued++
		log.Printf("[Search] Searching: %s", q)
		items, err := p.Search(ctx, q, Options{Num: opts.PerQuery, Country: opts.Country})
		if err != nil {
			out.QueriesFailed++
			log.Printf("[Search] Query failed, skipping: %v", err)
			continue
		}

		added := 0
		for _, item := range items {
			if opts.GlobalCap > 0 && len(out.Results) >= opts.GlobalCap {
				break
			}
			key := strings.TrimRight(strings.TrimSpace(item.Link), "/")
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			if !IsJobDetailURL(item.Link) {
				out.Skipped++
				continue
			}
			out.Results = append(out.Results, item)
			added++
		}
		log.Printf("[Search] Got %d results, %d new", len(items), added)
	}

	log.Printf("[Search] Total unique URLs found: %d (%d/%d queries failed)",
		len(out.Results), out.QueriesFailed, out.QueriesIssued)
	return out
}

// Search and browse pages carry these parameters
var browseParams = []string{"q", "query", "keywords", "keyword", "search", "searchterm", "k", "kw", "text"}

// IsJobDetailURL filters out search and browse pages so that only
// individual postings reach the page resolver
func IsJobDetailURL(link string) bool {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}

	host := strings.ToLower(u.Host)
	path := strings.ToLower(u.Path)
	q := u.Query()

	// JobStreet detail pages carry a jobId or live under /job/
	if strings.Contains(host, "jobstreet") {
		return q.Get("jobId") != "" || strings.Contains(path, "/job/")
	}

	// Indeed detail pages reference a specific job via vjk or jk
	if strings.Contains(host, "indeed") {
		return q.Get("vjk") != "" || q.Get("jk") != "" || strings.HasPrefix(path, "/viewjob") || strings.HasPrefix(path, "/rc/clk")
	}

	if strings.Contains(host, "linkedin") && strings.Contains(path, "/jobs/search") {
		return false
	}

	for _, p := range browseParams {
		if q.Has(p) {
			return false
		}
	}
	if strings.HasSuffix(path, "/search") || strings.Contains(path, "/search/") {
		return false
	}
	return true
}
