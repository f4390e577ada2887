package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/jobgenie/backend/agent"
	"github.com/jobgenie/backend/auth"
	"github.com/jobgenie/backend/models"
)

type fakeSearcher struct {
	outcome *agent.SearchOutcome
	err     error
	last    agent.SearchInput
}

func (f *fakeSearcher) SearchJobs(_ context.Context, in agent.SearchInput) (*agent.SearchOutcome, error) {
	f.last = in
	return f.outcome, f.err
}

func (f *fakeSearcher) AnalyzeIntent(_ context.Context, input string, _ bool) agent.IntentResult {
	return agent.IntentResult{Refinements: models.SearchRefinements{JobTitles: models.FlexibleStringSlice{input}}}
}

type fakeUsers struct {
	user *models.User
	runs []models.SearchRun
}

func (f *fakeUsers) GetUser(context.Context, string) (*models.User, error) {
	if f.user == nil {
		return nil, errors.New("not found")
	}
	return f.user, nil
}

func (f *fakeUsers) ListRuns(_ context.Context, userID string, limit int) ([]models.SearchRun, error) {
	if len(f.runs) > limit {
		return f.runs[:limit], nil
	}
	return f.runs, nil
}

type fakeResumes struct{ text string }

func (f fakeResumes) ResumeText(context.Context, string) (string, error) { return f.text, nil }

type fakeFetcher struct {
	resp *models.FetchPageResponse
	err  error
}

func (f fakeFetcher) FetchJobPage(context.Context, string) (*models.FetchPageResponse, error) {
	return f.resp, f.err
}

const testSecret = "test-secret"

func newRouter(h *SearchHandler, f *FetchHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	jwtService := auth.NewJWTService(testSecret, 0)
	api := router.Group("/api", auth.OptionalAuthMiddleware(jwtService))
	if h != nil {
		api.POST("/search-jobs", h.SearchJobs)
		api.POST("/analyze-intent", h.AnalyzeIntent)
		api.GET("/search-runs", h.SearchRuns)
		api.GET("/tools", h.GetTools)
	}
	if f != nil {
		api.POST("/fetch-job-page", f.FetchJobPage)
	}
	router.GET("/health", HealthCheck)
	return router
}

func do(router *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSearchJobs_StatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		outcome *agent.SearchOutcome
		err     error
		want    int
	}{
		{"ok", &agent.SearchOutcome{Status: agent.StatusOK, Results: []models.EnhancedJobListing{{}}}, nil, http.StatusOK},
		{"no results", &agent.SearchOutcome{Status: agent.StatusNoResults}, nil, http.StatusOK},
		{"needs input", &agent.SearchOutcome{Status: agent.StatusNeedsInput, MissingInfo: []string{"title?"}}, nil, http.StatusOK},
		{"credits", &agent.SearchOutcome{Status: agent.StatusInsufficientCredits, Err: agent.ErrInsufficientCredits}, nil, http.StatusPaymentRequired},
		{"failed", &agent.SearchOutcome{Status: agent.StatusFailed, Err: agent.ErrAllQueriesFailed}, nil, http.StatusBadGateway},
		{"empty input", nil, agent.ErrEmptyInput, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(NewSearchHandler(&fakeSearcher{outcome: tt.outcome, err: tt.err}, nil, nil, nil), nil)
			w := do(router, http.MethodPost, "/api/search-jobs", `{"prompt":"go developer in austin"}`, "")
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestSearchJobs_ResponseBody(t *testing.T) {
	outcome := &agent.SearchOutcome{
		Status:      agent.StatusNoResults,
		Refinements: models.SearchRefinements{JobTitles: models.FlexibleStringSlice{"Go Developer"}},
	}
	router := newRouter(NewSearchHandler(&fakeSearcher{outcome: outcome}, nil, nil, nil), nil)

	w := do(router, http.MethodPost, "/api/search-jobs", `{"prompt":"go developer"}`, "")
	var resp models.SearchJobsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "no_results" || resp.Results == nil || resp.Refinements.JobTitles[0] != "Go Developer" {
		t.Errorf("response = %+v", resp)
	}
}

func TestSearchJobs_UsesSavedResume(t *testing.T) {
	searcher := &fakeSearcher{outcome: &agent.SearchOutcome{Status: agent.StatusOK}}
	users := &fakeUsers{user: &models.User{ID: "u1", ResumeURL: "gs://resumes/u1.txt"}}
	router := newRouter(NewSearchHandler(searcher, users, fakeResumes{text: "Jane Doe, Backend Engineer"}, nil), nil)

	token, _ := auth.NewJWTService(testSecret, 0).GenerateToken("u1", "jane@example.com")
	w := do(router, http.MethodPost, "/api/search-jobs", `{}`, token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if searcher.last.UserID != "u1" || searcher.last.ResumeText != "Jane Doe, Backend Engineer" {
		t.Errorf("input = %+v", searcher.last)
	}
}

func TestSearchJobs_MultipartResume(t *testing.T) {
	searcher := &fakeSearcher{outcome: &agent.SearchOutcome{Status: agent.StatusOK}}
	router := newRouter(NewSearchHandler(searcher, nil, nil, nil), nil)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	_ = mw.WriteField("prompt", "backend roles")
	part, _ := mw.CreateFormFile("resume_file", "resume.txt")
	_, _ = part.Write([]byte("Jane Doe\nBackend Engineer"))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/search-jobs", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if searcher.last.Prompt != "backend roles" || searcher.last.ResumeText == "" {
		t.Errorf("input = %+v", searcher.last)
	}
}

func TestSearchJobs_InvalidJSON(t *testing.T) {
	router := newRouter(NewSearchHandler(&fakeSearcher{}, nil, nil, nil), nil)
	if w := do(router, http.MethodPost, "/api/search-jobs", `{"prompt":`, ""); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestAnalyzeIntent(t *testing.T) {
	router := newRouter(NewSearchHandler(&fakeSearcher{}, nil, nil, nil), nil)

	if w := do(router, http.MethodPost, "/api/analyze-intent", `{"input":""}`, ""); w.Code != http.StatusBadRequest {
		t.Errorf("empty input status = %d, want 400", w.Code)
	}

	w := do(router, http.MethodPost, "/api/analyze-intent", `{"input":"nurse"}`, "")
	var resp models.AnalyzeIntentResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Refinements.JobTitles[0] != "nurse" || resp.MissingInfo == nil {
		t.Errorf("response = %+v", resp)
	}
}

func TestSearchRuns(t *testing.T) {
	users := &fakeUsers{runs: []models.SearchRun{{ID: "r1"}, {ID: "r2"}, {ID: "r3"}}}
	router := newRouter(NewSearchHandler(&fakeSearcher{}, users, nil, nil), nil)

	if w := do(router, http.MethodGet, "/api/search-runs", "", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d, want 401", w.Code)
	}

	token, _ := auth.NewJWTService(testSecret, 0).GenerateToken("u1", "")
	w := do(router, http.MethodGet, "/api/search-runs?limit=2", "", token)
	var runs []models.SearchRun
	if err := json.Unmarshal(w.Body.Bytes(), &runs); err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Errorf("got %d runs, want 2", len(runs))
	}
}

func TestFetchJobPage(t *testing.T) {
	ok := &models.FetchPageResponse{Type: models.PageTypeSingle, URL: "https://jobs.example.com/1", Job: &models.ScrapedJob{Title: "Go Engineer"}}

	router := newRouter(nil, NewFetchHandler(fakeFetcher{resp: ok}))
	if w := do(router, http.MethodPost, "/api/fetch-job-page", `{"url":"ftp://example.com"}`, ""); w.Code != http.StatusBadRequest {
		t.Errorf("bad url status = %d, want 400", w.Code)
	}
	w := do(router, http.MethodPost, "/api/fetch-job-page", `{"url":"https://jobs.example.com/1"}`, "")
	var resp models.FetchPageResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if w.Code != http.StatusOK || resp.Job == nil || resp.Job.Title != "Go Engineer" {
		t.Errorf("status=%d resp=%+v", w.Code, resp)
	}

	router = newRouter(nil, NewFetchHandler(fakeFetcher{err: errors.New("blocked by challenge page")}))
	w = do(router, http.MethodPost, "/api/fetch-job-page", `{"url":"https://jobs.example.com/1"}`, "")
	resp = models.FetchPageResponse{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if w.Code != http.StatusOK || resp.Error == "" {
		t.Errorf("status=%d resp=%+v", w.Code, resp)
	}
}

func TestHealthCheck(t *testing.T) {
	w := do(newRouter(nil, nil), http.MethodGet, "/health", "", "")
	if w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
}
