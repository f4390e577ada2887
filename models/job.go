package models

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// FlexibleStringSlice can unmarshal from either a string or []string
type FlexibleStringSlice []string

func (f *FlexibleStringSlice) UnmarshalJSON(data []byte) error {
	// Try to unmarshal as []string first
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*f = arr
		return nil
	}

	// Try to unmarshal as string
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		if str != "" {
			*f = []string{str}
		} else {
			*f = []string{}
		}
		return nil
	}

	// If both fail, return empty slice
	*f = []string{}
	return nil
}

// FlexibleNumber can unmarshal from a number, a numeric string ("120k", "$95,000") or null
type FlexibleNumber float64

func (f *FlexibleNumber) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = FlexibleNumber(num)
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		if parsed, ok := ParseAmount(str); ok {
			*f = FlexibleNumber(parsed)
			return nil
		}
	}

	*f = 0
	return nil
}

// ParseAmount reads the first number out of a salary-like string.
// "120k" is read as 120000, commas and currency symbols are ignored.
func ParseAmount(raw string) (float64, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	start := strings.IndexAny(s, "0123456789")
	if start < 0 {
		return 0, false
	}
	end := start
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || s[end] == ',' || s[end] == '.') {
		end++
	}
	num, err := strconv.ParseFloat(strings.ReplaceAll(s[start:end], ",", ""), 64)
	if err != nil {
		return 0, false
	}
	if end < len(s) && s[end] == 'k' {
		num *= 1000
	}
	return num, true
}

// SearchResult is a single organic or jobs result from the web search provider
type SearchResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
}

// ScrapedJob is the raw output of the page-fetching service. Any field may be empty.
// On list pages only Title, Company and URL are usually populated.
type ScrapedJob struct {
	Title          string `json:"title"`
	Company        string `json:"company"`
	Location       string `json:"location"`
	Description    string `json:"description"`
	Salary         string `json:"salary,omitempty"`
	EmploymentType string `json:"employmentType,omitempty"`
	PostedDateText string `json:"postedDateText,omitempty"`
	URL            string `json:"url,omitempty"`
}

// IsEmpty reports whether the record carries neither a title nor a description
func (s ScrapedJob) IsEmpty() bool {
	return strings.TrimSpace(s.Title) == "" && strings.TrimSpace(s.Description) == ""
}

// CompanyInfo holds optional facts about the hiring company
type CompanyInfo struct {
	About    string `json:"about,omitempty"`
	Size     string `json:"size,omitempty"`
	Industry string `json:"industry,omitempty"`
}

// JobListing is the canonical output unit of the pipeline
type JobListing struct {
	ID               string       `json:"id"`
	Title            string       `json:"title"`
	Company          string       `json:"company"`
	Location         string       `json:"location"`
	Description      string       `json:"description"`
	Salary           string       `json:"salary,omitempty"`
	Currency         string       `json:"currency,omitempty"`
	EmploymentType   string       `json:"employmentType"`
	WorkplaceType    string       `json:"workplaceType"`
	Requirements     []string     `json:"requirements"`
	Responsibilities []string     `json:"responsibilities"`
	PostedDate       time.Time    `json:"postedDate"`
	SourceURL        string       `json:"sourceUrl"`
	CompanyInfo      *CompanyInfo `json:"companyInfo,omitempty"`
}

// EnhancedJobListing is a JobListing with match scoring
type EnhancedJobListing struct {
	JobListing
	MatchScore    int      `json:"matchScore"`   // 0-95
	MatchReasons  []string `json:"matchReasons"` // at most 3
	MissingSkills []string `json:"missingSkills"`
}

// Listing defaults
const (
	DefaultSalary         = "Competitive"
	DefaultCurrency       = "USD"
	DefaultEmploymentType = "Full-time"
	DefaultWorkplaceType  = "Onsite"

	// FallbackDescriptionMarker is the placeholder some fetchers emit when no
	// description could be extracted. Listings containing it never pass the
	// quality filter.
	FallbackDescriptionMarker = "Please visit the job page for full details."
)

// Workplace types
const (
	WorkplaceOnsite = "Onsite"
	WorkplaceRemote = "Remote"
	WorkplaceHybrid = "Hybrid"
)

// NormalizeEmploymentType normalizes various work type strings to display values
func NormalizeEmploymentType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(strings.ReplaceAll(raw, "_", "-"))) {
	case "full-time", "full time", "fulltime", "permanent":
		return "Full-time"
	case "part-time", "part time", "parttime":
		return "Part-time"
	case "contract", "contractor", "temporary", "temp":
		return "Contract"
	case "freelance":
		return "Freelance"
	case "internship", "intern":
		return "Internship"
	case "":
		return DefaultEmploymentType
	default:
		return raw
	}
}

// NormalizeWorkplaceType normalizes various site setting strings to Onsite, Remote or Hybrid
func NormalizeWorkplaceType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "remote", "work from home", "wfh", "telecommute", "fully remote":
		return WorkplaceRemote
	case "hybrid", "flexible":
		return WorkplaceHybrid
	default:
		return DefaultWorkplaceType
	}
}

// FetchPageResponse is the reply of the page-fetching service.
// Type is "single" or "list"; Error is set when the fetch failed.
type FetchPageResponse struct {
	Type  string       `json:"type"`
	URL   string       `json:"url"`
	Job   *ScrapedJob  `json:"job,omitempty"`
	Jobs  []ScrapedJob `json:"jobs,omitempty"`
	Error string       `json:"error,omitempty"`
}

// Page types
const (
	PageTypeSingle = "single"
	PageTypeList   = "list"
)
