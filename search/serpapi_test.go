package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const serpBody = `{
  "organic_results": [
    {"title": "Backend Engineer - Acme", "link": "https://boards.greenhouse.io/acme/jobs/1", "snippet": "Acme is hiring"}
  ],
  "jobs_results": [
    {
      "title": "Go Developer",
      "company_name": "Globex",
      "location": "Austin, TX",
      "description": "Build services in Go.",
      "detected_extensions": {"posted_at": "2 days ago"},
      "apply_options": [{"title": "Globex Careers", "link": "https://globex.com/careers/77"}]
    },
    {"title": "No link", "company_name": "Nobody"}
  ]
}`

func TestSerpAPI_MergesOrganicAndJobs(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(serpBody))
	}))
	defer srv.Close()

	c := NewSerpAPIClient("secret", srv.Client())
	c.baseURL = srv.URL

	results, err := c.Search(context.Background(), "go developer", Options{Num: 10, Country: "us"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2: %+v", len(results), results)
	}
	if results[1].Link != "https://globex.com/careers/77" {
		t.Errorf("jobs result link = %q", results[1].Link)
	}
	if !strings.HasPrefix(results[1].Snippet, "Posted 2 days ago") {
		t.Errorf("jobs result snippet should lead with posted-at: %q", results[1].Snippet)
	}
	if results[1].Title != "Go Developer - Globex" {
		t.Errorf("jobs result title = %q", results[1].Title)
	}
	for _, want := range []string{"api_key=secret", "num=10", "gl=us", "engine=google"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}
}

func TestSerpAPI_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewSerpAPIClient("k", srv.Client())
	c.baseURL = srv.URL

	if _, err := c.Search(context.Background(), "q", Options{}); err == nil {
		t.Fatal("expected error for 429")
	}
}

func TestPSE_Pages(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Query().Get("cx") != "engine" {
			t.Errorf("cx = %q", r.URL.Query().Get("cx"))
		}
		w.Write([]byte(`{"items":[{"title":"A","link":"https://a.io/1","snippet":"s"}]}`))
	}))
	defer srv.Close()

	c := NewPSEClient("key", "engine", srv.Client())
	c.baseURL = srv.URL

	results, err := c.Search(context.Background(), "q", Options{Num: 5})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	// a short page ends pagination
	if len(results) != 1 || calls != 1 {
		t.Errorf("results = %d, calls = %d", len(results), calls)
	}
}
