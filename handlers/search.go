package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jobgenie/backend/agent"
	"github.com/jobgenie/backend/auth"
	"github.com/jobgenie/backend/models"
	"github.com/jobgenie/backend/tools"
	"github.com/jobgenie/backend/utils"
)

// Version is reported by the health check
const Version = "1.0.0"

const (
	maxResumeUpload = 2 << 20
	defaultRunLimit = 20
	maxRunLimit     = 100
)

// Searcher runs searches and intent analysis
type Searcher interface {
	SearchJobs(ctx context.Context, in agent.SearchInput) (*agent.SearchOutcome, error)
	AnalyzeIntent(ctx context.Context, input string, isResume bool) agent.IntentResult
}

// UserStore reads user profiles and run history
type UserStore interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	ListRuns(ctx context.Context, userID string, limit int) ([]models.SearchRun, error)
}

// ResumeStore downloads saved resumes
type ResumeStore interface {
	ResumeText(ctx context.Context, resumeURL string) (string, error)
}

// SearchHandler handles job search requests
type SearchHandler struct {
	searcher Searcher
	users    UserStore
	resumes  ResumeStore
	registry *tools.ToolRegistry
}

// NewSearchHandler creates a new search handler. users, resumes and
// registry may be nil.
func NewSearchHandler(searcher Searcher, users UserStore, resumes ResumeStore, registry *tools.ToolRegistry) *SearchHandler {
	return &SearchHandler{searcher: searcher, users: users, resumes: resumes, registry: registry}
}

// SearchJobs handles job search requests
// @Summary Search for jobs
// @Description Run the search pipeline for a free-text prompt, resume text or explicit refinements. Accepts JSON or multipart/form-data with a resume_file upload. Authenticated users without a resume fall back to their saved resume.
// @Tags Jobs
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param request body models.SearchJobsRequest false "Search request (JSON)"
// @Param resume_file formData file false "Resume file (TXT, MD, HTML)"
// @Param prompt formData string false "Free-text search prompt"
// @Success 200 {object} models.SearchJobsResponse "Search results"
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Failure 402 {object} models.ErrorResponse "Insufficient credits"
// @Failure 502 {object} models.ErrorResponse "Search provider failure"
// @Router /search-jobs [post]
func (h *SearchHandler) SearchJobs(c *gin.Context) {
	req, err := h.bindSearchRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Code:    http.StatusBadRequest,
			Details: err.Error(),
		})
		return
	}

	userID := auth.UserID(c)
	if req.ResumeText == "" && req.Prompt == "" && req.Refinements == nil && userID != "" {
		req.ResumeText = h.savedResume(c.Request.Context(), userID)
	}

	log.Printf("[Handler] SearchJobs request: user=%q, prompt=%q, hasResume=%v, hasRefinements=%v",
		userID, req.Prompt, req.ResumeText != "", req.Refinements != nil)

	outcome, err := h.searcher.SearchJobs(c.Request.Context(), agent.SearchInput{
		UserID:      userID,
		Prompt:      req.Prompt,
		ResumeText:  req.ResumeText,
		Refinements: req.Refinements,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, agent.ErrEmptyInput) {
			status = http.StatusBadRequest
		}
		c.JSON(status, models.ErrorResponse{
			Error:   "Please provide a search prompt, resume or refinements",
			Code:    status,
			Details: err.Error(),
		})
		return
	}

	switch outcome.Status {
	case agent.StatusInsufficientCredits:
		c.JSON(http.StatusPaymentRequired, models.ErrorResponse{
			Error:   "Insufficient credits",
			Code:    http.StatusPaymentRequired,
			Details: errorText(outcome.Err),
		})
		return
	case agent.StatusFailed:
		log.Printf("[Handler] SearchJobs failed: %v", outcome.Err)
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "Job search failed",
			Code:    http.StatusBadGateway,
			Details: errorText(outcome.Err),
		})
		return
	}

	results := outcome.Results
	if results == nil {
		results = []models.EnhancedJobListing{}
	}
	log.Printf("[Handler] SearchJobs %s: returning %d results", outcome.Status, len(results))
	c.JSON(http.StatusOK, models.SearchJobsResponse{
		Status:       string(outcome.Status),
		Results:      results,
		Refinements:  outcome.Refinements,
		MissingInfo:  outcome.MissingInfo,
		TotalResults: len(results),
		Message:      resultMessage(outcome),
	})
}

// AnalyzeIntent turns free text or a resume into refinements
// @Summary Analyze search intent
// @Description Turn a free-text request or resume into search refinements plus prompts for missing information
// @Tags Jobs
// @Accept json
// @Produce json
// @Param request body models.AnalyzeIntentRequest true "Text to analyze"
// @Success 200 {object} models.AnalyzeIntentResponse "Refinements"
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Router /analyze-intent [post]
func (h *SearchHandler) AnalyzeIntent(c *gin.Context) {
	var req models.AnalyzeIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Input) == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "input is required",
			Code:  http.StatusBadRequest,
		})
		return
	}

	result := h.searcher.AnalyzeIntent(c.Request.Context(), req.Input, req.IsResume)
	c.JSON(http.StatusOK, tools.IntentResponse(result))
}

// SearchRuns lists the caller's recent searches
// @Summary List search history
// @Description List the authenticated user's most recent search runs
// @Tags Jobs
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum runs to return (default 20)"
// @Success 200 {array} models.SearchRun "Recent runs"
// @Failure 401 {object} models.ErrorResponse "Not authenticated"
// @Failure 503 {object} models.ErrorResponse "History unavailable"
// @Router /search-runs [get]
func (h *SearchHandler) SearchRuns(c *gin.Context) {
	userID := auth.UserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required", Code: http.StatusUnauthorized})
		return
	}
	if h.users == nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "Search history is disabled", Code: http.StatusServiceUnavailable})
		return
	}

	limit := defaultRunLimit
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = min(n, maxRunLimit)
		}
	}

	runs, err := h.users.ListRuns(c.Request.Context(), userID, limit)
	if err != nil {
		log.Printf("[Handler] ListRuns failed for %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to load search history",
			Code:    http.StatusInternalServerError,
			Details: err.Error(),
		})
		return
	}
	if runs == nil {
		runs = []models.SearchRun{}
	}
	c.JSON(http.StatusOK, runs)
}

// GetTools returns available MCP tools
// @Summary List available tools
// @Description Get a list of all available MCP tools for AI agents
// @Tags Tools
// @Produce json
// @Success 200 {object} map[string]interface{} "List of tools"
// @Router /tools [get]
func (h *SearchHandler) GetTools(c *gin.Context) {
	definitions := []map[string]interface{}{}
	if h.registry != nil {
		definitions = h.registry.GetToolDefinitions()
	}
	c.JSON(http.StatusOK, gin.H{"tools": definitions})
}

// HealthCheck returns server health status
// @Summary Health check
// @Description Check if the server is running and healthy
// @Tags System
// @Produce json
// @Success 200 {object} models.HealthResponse "Server is healthy"
// @Router /health [get]
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "healthy",
		Version:   Version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// bindSearchRequest reads a JSON body or a multipart form with an optional
// resume_file upload
func (h *SearchHandler) bindSearchRequest(c *gin.Context) (models.SearchJobsRequest, error) {
	var req models.SearchJobsRequest

	if strings.Contains(c.ContentType(), "multipart/form-data") {
		req.Prompt = c.PostForm("prompt")
		req.ResumeText = c.PostForm("resume_text")

		file, header, err := c.Request.FormFile("resume_file")
		if err == nil {
			defer file.Close()
			data, err := io.ReadAll(io.LimitReader(file, maxResumeUpload+1))
			if err != nil {
				return req, fmt.Errorf("failed to read resume: %w", err)
			}
			if len(data) > maxResumeUpload {
				return req, errors.New("resume file is larger than 2MB")
			}
			log.Printf("[Handler] Received resume file: %s, size: %d bytes", header.Filename, len(data))
			req.ResumeText = utils.ResumeText(data, header.Filename)
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		return req, err
	}

	req.Prompt = strings.TrimSpace(req.Prompt)
	req.ResumeText = strings.TrimSpace(req.ResumeText)
	return req, nil
}

// savedResume returns the user's stored resume text, or "" when none is available
func (h *SearchHandler) savedResume(ctx context.Context, userID string) string {
	if h.users == nil || h.resumes == nil {
		return ""
	}
	user, err := h.users.GetUser(ctx, userID)
	if err != nil || user.ResumeURL == "" {
		return ""
	}
	text, err := h.resumes.ResumeText(ctx, user.ResumeURL)
	if err != nil {
		log.Printf("[Handler] Failed to download saved resume: %v", err)
		return ""
	}
	log.Printf("[Handler] Using saved resume for user: %s", userID)
	return text
}

func resultMessage(outcome *agent.SearchOutcome) string {
	switch outcome.Status {
	case agent.StatusNeedsInput:
		return "Tell us a bit more about the job you want."
	case agent.StatusNoResults:
		return "No matching jobs found. Try widening the date range or location."
	}
	return fmt.Sprintf("Found %d matching jobs", len(outcome.Results))
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
