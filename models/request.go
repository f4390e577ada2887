package models

// ServiceTokenHeader carries the shared secret of pipeline-to-service calls
const ServiceTokenHeader = "X-Service-Token"

// SearchJobsRequest represents the API request for job search
// @Description Job search request with a free-text prompt or resume text
type SearchJobsRequest struct {
	Prompt      string             `json:"prompt,omitempty" example:"senior golang engineer in Austin, remote ok, 150k+"`
	ResumeText  string             `json:"resumeText,omitempty" example:"Jane Doe\nBackend Engineer with 6 years experience..."`
	Refinements *SearchRefinements `json:"refinements,omitempty"` // Skips intent analysis when set
}

// SearchJobsResponse represents the API response for job search
// @Description Ranked job listings plus the refinements used to find them
type SearchJobsResponse struct {
	Status       string               `json:"status" example:"ok"`
	Results      []EnhancedJobListing `json:"results"`
	Refinements  SearchRefinements    `json:"refinements"`
	MissingInfo  []string             `json:"missingInfo,omitempty"`
	TotalResults int                  `json:"total_results" example:"10"`
	Message      string               `json:"message,omitempty" example:"Found 10 matching jobs"`
}

// AnalyzeIntentRequest represents the request to analyze search intent
// @Description Free text or resume text to turn into search refinements
type AnalyzeIntentRequest struct {
	Input    string `json:"input" example:"react developer berlin"`
	IsResume bool   `json:"isResume,omitempty" example:"false"`
}

// AnalyzeIntentResponse represents the analyzed search intent
// @Description Structured refinements and prompts for missing information
type AnalyzeIntentResponse struct {
	Refinements SearchRefinements `json:"refinements"`
	MissingInfo []string          `json:"missingInfo"`
	Suggestions []string          `json:"suggestions"`
}

// FetchPageRequest represents request to fetch a job page
type FetchPageRequest struct {
	URL string `json:"url" example:"https://www.linkedin.com/jobs/view/123456"`
}

// ErrorResponse represents an API error response
// @Description Standard error response
type ErrorResponse struct {
	Error   string `json:"error" example:"Invalid request body"`
	Code    int    `json:"code" example:"400"`
	Details string `json:"details,omitempty" example:"prompt is required"`
}

// HealthResponse represents health check response
// @Description Server health status
type HealthResponse struct {
	Status    string `json:"status" example:"healthy"`
	Version   string `json:"version" example:"1.0.0"`
	Timestamp string `json:"timestamp" example:"2024-01-15T10:30:00Z"`
}

// WebSearchRequest represents request for web search tool
type WebSearchRequest struct {
	Queries     []string           `json:"queries,omitempty"`
	Refinements *SearchRefinements `json:"refinements,omitempty"` // Used to plan queries when Queries is empty
}

// WebSearchResponse represents response from web search tool
type WebSearchResponse struct {
	URLs    []string       `json:"urls"`
	Results []SearchResult `json:"results,omitempty"`
}

// StructureJobRequest represents request to structure a scraped job
type StructureJobRequest struct {
	Job         ScrapedJob        `json:"job"`
	SourceURL   string            `json:"sourceUrl"`
	Refinements SearchRefinements `json:"refinements"`
}

// StructureJobResponse represents response from job structuring
type StructureJobResponse struct {
	Job *JobListing `json:"job,omitempty"`
}

// ScoreJobRequest represents request to score a job match
type ScoreJobRequest struct {
	Job         JobListing        `json:"job"`
	Refinements SearchRefinements `json:"refinements"`
}

// ScoreJobResponse represents response from job scoring
type ScoreJobResponse struct {
	MatchScore    int      `json:"matchScore"`
	MatchReasons  []string `json:"matchReasons"`
	MissingSkills []string `json:"missingSkills"`
}
