package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jobgenie/backend/config"
	"github.com/jobgenie/backend/models"
	"github.com/jobgenie/backend/utils"
)

const genericPosting = `<html><head><title>Careers</title>
<script type="application/ld+json">{"@type": "JobPosting", "title": "Staff Engineer", "hiringOrganization": {"name": "Initech"}, "datePosted": "2025-03-10", "description": "<p>Lead the storage team.</p>"}</script>
</head><body>
<h1>Engineering Role</h1>
<div class="company">Other Co</div>
<div class="location">Denver, CO</div>
<div class="job-description"><p>DOM description text.</p></div>
</body></html>`

const genericList = `<html><head><title>Open roles</title></head><body><main>
<a href="/jobs/101-backend">Backend Engineer</a>
<a href="/jobs/102-frontend">Frontend Engineer</a>
<a href="/jobs/103-data">Data Engineer</a>
<a href="/about">About us</a>
</main></body></html>`

func newTestScraper(t *testing.T, proxy string) *Scraper {
	t.Helper()
	r, err := DefaultRegistry()
	if err != nil {
		t.Fatalf("DefaultRegistry: %v", err)
	}
	return NewScraper(&config.Config{HTTPTimeoutSeconds: 5, ProxyRelayURL: proxy, AllowPrivateFetch: true}, r)
}

func TestFetchJobPage_GenericPrefersJSONLD(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(genericPosting))
	}))
	defer srv.Close()

	resp, err := newTestScraper(t, "").FetchJobPage(context.Background(), srv.URL+"/jobs/1")
	if err != nil {
		t.Fatalf("FetchJobPage: %v", err)
	}
	if resp.Type != models.PageTypeSingle || resp.Job == nil {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Job.Title != "Staff Engineer" || resp.Job.Company != "Initech" {
		t.Errorf("JSON-LD fields should win: %q / %q", resp.Job.Title, resp.Job.Company)
	}
	if resp.Job.Location != "Denver, CO" {
		t.Errorf("missing JSON-LD field should come from the DOM: %q", resp.Job.Location)
	}
	if !strings.Contains(resp.Job.Description, "Lead the storage team.") {
		t.Errorf("Description = %q", resp.Job.Description)
	}
}

func TestFetchJobPage_GenericList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(genericList))
	}))
	defer srv.Close()

	resp, err := newTestScraper(t, "").FetchJobPage(context.Background(), srv.URL+"/careers")
	if err != nil {
		t.Fatalf("FetchJobPage: %v", err)
	}
	if resp.Type != models.PageTypeList || len(resp.Jobs) != 3 {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Jobs[0].URL != srv.URL+"/jobs/101-backend" || resp.Jobs[0].Title != "Backend Engineer" {
		t.Errorf("first link = %+v", resp.Jobs[0])
	}
}

func TestFetchJobPage_AlternateUserAgent(t *testing.T) {
	var agents []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agents = append(agents, r.UserAgent())
		if strings.Contains(r.UserAgent(), "Chrome") {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		w.Write([]byte(genericPosting))
	}))
	defer srv.Close()

	resp, err := newTestScraper(t, "").FetchJobPage(context.Background(), srv.URL+"/jobs/1")
	if err != nil {
		t.Fatalf("FetchJobPage: %v", err)
	}
	if resp.Job == nil || resp.Job.Title != "Staff Engineer" {
		t.Errorf("resp = %+v", resp)
	}
	if len(agents) != 2 {
		t.Errorf("expected direct attempt then one alternate, got %d requests", len(agents))
	}
}

func TestFetchJobPage_ProxyRung(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/raw" && r.URL.Query().Get("url") != "" {
			w.Write([]byte(genericPosting))
			return
		}
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer srv.Close()

	target := srv.URL + "/blocked"
	resp, err := newTestScraper(t, srv.URL+"/raw?url=").FetchJobPage(context.Background(), target)
	if err != nil {
		t.Fatalf("FetchJobPage: %v", err)
	}
	if resp.URL != target || resp.Job == nil {
		t.Errorf("resp = %+v", resp)
	}
}

func TestFetchJobPage_AllStrategiesFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestScraper(t, "").FetchJobPage(context.Background(), srv.URL+"/jobs/1")
	if !errors.Is(err, ErrAllStrategiesFailed) {
		t.Errorf("err = %v, want ErrAllStrategiesFailed", err)
	}
}

func TestFetchJobPage_NotJobPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>hello</p></body></html>`))
	}))
	defer srv.Close()

	_, err := newTestScraper(t, "").FetchJobPage(context.Background(), srv.URL+"/")
	if !errors.Is(err, ErrNotJobPage) {
		t.Errorf("err = %v, want ErrNotJobPage", err)
	}
}

func TestFetchJobPage_ChallengePageRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Just a moment...</title></head><body></body></html>`))
	}))
	defer srv.Close()

	_, err := newTestScraper(t, "").FetchJobPage(context.Background(), srv.URL+"/jobs/1")
	if !errors.Is(err, ErrAllStrategiesFailed) {
		t.Errorf("err = %v, want ErrAllStrategiesFailed", err)
	}
}

func TestFetchJobPage_RefusesPrivateTargets(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(genericPosting))
	}))
	defer srv.Close()

	r, err := DefaultRegistry()
	if err != nil {
		t.Fatalf("DefaultRegistry: %v", err)
	}
	s := NewScraper(&config.Config{HTTPTimeoutSeconds: 5, ProxyRelayURL: srv.URL + "/relay?url="}, r)

	for _, target := range []string{
		srv.URL + "/jobs/1",
		"http://localhost:9/jobs/1",
		"http://169.254.169.254/latest/meta-data/",
		"http://10.0.0.8/admin",
		"http://[::1]:8080/",
	} {
		if _, err := s.FetchJobPage(context.Background(), target); !errors.Is(err, utils.ErrBlockedAddress) {
			t.Errorf("FetchJobPage(%s) err = %v, want ErrBlockedAddress", target, err)
		}
	}
	if hits != 0 {
		t.Errorf("private server received %d requests, want 0", hits)
	}
}

func TestFetchJobPage_DialGuardChecksResolvedAddress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(genericPosting))
	}))
	defer srv.Close()

	// Skips the URL check so only the dialer stands in the way
	s := &Scraper{client: utils.NewPublicHTTPClient(5 * time.Second)}
	_, _, err := s.get(context.Background(), fetchAttempt{name: "direct", target: srv.URL, userAgent: chromeUA})
	if !errors.Is(err, utils.ErrBlockedAddress) {
		t.Errorf("get(%s) err = %v, want ErrBlockedAddress", srv.URL, err)
	}
}

func TestFetchBudget(t *testing.T) {
	cases := map[string]struct {
		proxy string
		want  time.Duration
	}{
		"without proxy": {"", 20 * time.Second},
		"with proxy":    {"https://relay.example/?u=", 25 * time.Second},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got := FetchBudget(&config.Config{HTTPTimeoutSeconds: 5, ProxyRelayURL: tc.proxy})
			if got != tc.want {
				t.Errorf("FetchBudget = %v, want %v", got, tc.want)
			}
		})
	}
}
