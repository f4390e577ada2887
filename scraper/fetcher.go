// Package scraper is the page-fetching service: it downloads a job page
// through a ladder of strategies and extracts either a single posting or a
// list of posting links.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jobgenie/backend/config"
	"github.com/jobgenie/backend/models"
	"github.com/jobgenie/backend/utils"
)

var (
	// ErrNotJobPage means the page was fetched but held no posting or posting links
	ErrNotJobPage = errors.New("page does not look like a job posting or job list")
	// ErrAllStrategiesFailed means every rung of the fetch ladder failed
	ErrAllStrategiesFailed = errors.New("all fetch strategies failed")
)

// PageFetcher is the page-fetching capability the pipeline depends on
type PageFetcher interface {
	FetchJobPage(ctx context.Context, pageURL string) (*models.FetchPageResponse, error)
}

const maxBodyBytes = 5 * 1024 * 1024

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// Tried in order after the browser-header attempt
var alternateUserAgents = []string{
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_4) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (iPhone; CPU iPhone OS 17_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Mobile/15E148 Safari/604.1",
}

// Scraper fetches and extracts job pages in process
type Scraper struct {
	client       *http.Client
	registry     *Registry
	proxyURL     string
	userAgents   []string
	allowPrivate bool
}

// NewScraper creates a scraper. cfg.ProxyRelayURL is a relay prefix the
// target URL is appended to (query-escaped); empty disables the proxy rung.
// Loopback, private and link-local targets are refused unless
// cfg.AllowPrivateFetch is set.
func NewScraper(cfg *config.Config, registry *Registry) *Scraper {
	timeout := time.Duration(cfg.HTTPTimeoutSeconds) * time.Second
	client := utils.NewPublicHTTPClient(timeout)
	if cfg.AllowPrivateFetch {
		client = utils.NewHTTPClient(timeout)
	}
	return &Scraper{
		client:       client,
		registry:     registry,
		proxyURL:     cfg.ProxyRelayURL,
		userAgents:   alternateUserAgents,
		allowPrivate: cfg.AllowPrivateFetch,
	}
}

// FetchBudget is the wall time one FetchJobPage call may need when every
// rung of the ladder runs to the per-attempt timeout.
func FetchBudget(cfg *config.Config) time.Duration {
	rungs := 1 + len(alternateUserAgents)
	if cfg.ProxyRelayURL != "" {
		rungs++
	}
	return time.Duration(rungs*cfg.HTTPTimeoutSeconds) * time.Second
}

// FetchJobPage downloads pageURL and extracts a single posting or a list
func (s *Scraper) FetchJobPage(ctx context.Context, pageURL string) (*models.FetchPageResponse, error) {
	body, finalURL, err := s.fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := ParseDocument(body, finalURL)
	if err != nil {
		return nil, err
	}

	strategy := s.registry.Lookup(doc.URL.Hostname())
	page := strategy.Extract(doc)

	switch {
	case len(page.Jobs) > 0:
		log.Printf("[Scraper] %s: list page with %d links (%s)", pageURL, len(page.Jobs), strategy.Name())
		return &models.FetchPageResponse{Type: models.PageTypeList, URL: pageURL, Jobs: page.Jobs}, nil
	case page.Job != nil && !page.Job.IsEmpty():
		log.Printf("[Scraper] %s: single posting %q (%s)", pageURL, page.Job.Title, strategy.Name())
		return &models.FetchPageResponse{Type: models.PageTypeSingle, URL: pageURL, Job: page.Job}, nil
	default:
		return nil, fmt.Errorf("%s: %w", pageURL, ErrNotJobPage)
	}
}

type fetchAttempt struct {
	name      string
	target    string
	userAgent string
}

// fetch walks the ladder: browser headers, alternate user agents, proxy relay
func (s *Scraper) fetch(ctx context.Context, pageURL string) ([]byte, string, error) {
	u, err := url.Parse(pageURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, "", fmt.Errorf("invalid url %q", pageURL)
	}
	// Covers the proxy rung too, which would otherwise relay the target
	if !s.allowPrivate {
		if err := utils.CheckPublicURL(u); err != nil {
			return nil, "", err
		}
	}

	attempts := []fetchAttempt{{name: "direct", target: pageURL, userAgent: chromeUA}}
	for i, ua := range s.userAgents {
		attempts = append(attempts, fetchAttempt{name: fmt.Sprintf("alternate-ua-%d", i+1), target: pageURL, userAgent: ua})
	}
	if s.proxyURL != "" {
		attempts = append(attempts, fetchAttempt{name: "proxy", target: s.proxyURL + url.QueryEscape(pageURL), userAgent: chromeUA})
	}

	var lastErr error
	for _, a := range attempts {
		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}
		body, finalURL, err := s.get(ctx, a)
		if err == nil {
			if a.name == "proxy" {
				finalURL = pageURL
			}
			return body, finalURL, nil
		}
		lastErr = err
		log.Printf("[Scraper] %s attempt failed for %s: %v", a.name, pageURL, err)
	}
	return nil, "", fmt.Errorf("%w: %v", ErrAllStrategiesFailed, lastErr)
}

func (s *Scraper) get(ctx context.Context, a fetchAttempt) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.target, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	// Set headers to mimic a browser
	req.Header.Set("User-Agent", a.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("page returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read body: %w", err)
	}
	if isChallengePage(body) {
		return nil, "", errors.New("bot challenge page")
	}
	return body, resp.Request.URL.String(), nil
}

var challengeMarkers = []string{
	"cf-browser-verification",
	"challenge-platform",
	"just a moment...",
	"captcha-delivery",
	"px-captcha",
}

func isChallengePage(body []byte) bool {
	if len(body) == 0 {
		return true
	}
	head := strings.ToLower(string(body[:min(len(body), 4096)]))
	for _, m := range challengeMarkers {
		if strings.Contains(head, m) {
			return true
		}
	}
	return false
}
