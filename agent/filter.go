package agent

import (
	"log"
	"strings"

	"github.com/jobgenie/backend/models"
)

const (
	minTitleLen       = 5
	minCompanyLen     = 2
	minDescriptionLen = 100
)

var placeholderTitles = map[string]bool{
	"job": true, "jobs": true, "job title": true, "title": true, "untitled": true,
	"position": true, "unknown": true, "n/a": true, "not specified": true, "job opening": true,
}

var placeholderCompanies = map[string]bool{
	"company": true, "company name": true, "unknown": true, "n/a": true,
	"not specified": true, "employer": true, "hiring company": true,
}

// Phrases that identify staffing agencies rather than direct employers
var agencyMarkers = []string{"recruitment agency", "staffing agency", "staffing", "recruiting firm", "on behalf of our client", "our client is"}

// FilterReport counts what the filter removed
type FilterReport struct {
	LowQuality int `json:"low_quality"`
	Excluded   int `json:"excluded"`
	Duplicates int `json:"duplicates"`
}

// IsQualityListing reports whether a listing carries enough real content to show
func IsQualityListing(job models.JobListing) bool {
	title := strings.TrimSpace(job.Title)
	if len(title) < minTitleLen || placeholderTitles[strings.ToLower(title)] {
		return false
	}

	company := strings.TrimSpace(job.Company)
	if len(company) < minCompanyLen || placeholderCompanies[strings.ToLower(company)] {
		return false
	}

	if len(strings.TrimSpace(job.Description)) < minDescriptionLen ||
		strings.Contains(job.Description, models.FallbackDescriptionMarker) {
		return false
	}

	return len(job.Requirements) > 0 || len(job.Responsibilities) > 0
}

// Filter drops low-quality listings and duplicates, keeping input order
func Filter(jobs []models.JobListing) []models.JobListing {
	out, _ := FilterJobs(jobs, models.Exclusions{})
	return out
}

// FilterJobs applies the quality predicate, the user's exclusions and
// duplicate removal, in that order. The first occurrence of a duplicate wins.
func FilterJobs(jobs []models.JobListing, exclusions models.Exclusions) ([]models.JobListing, FilterReport) {
	var report FilterReport
	seen := make(map[string]bool)
	out := make([]models.JobListing, 0, len(jobs))

	for _, job := range jobs {
		if !IsQualityListing(job) {
			report.LowQuality++
			continue
		}
		if excluded(job, exclusions) {
			report.Excluded++
			continue
		}

		sigs := signatures(job)
		dup := false
		for _, sig := range sigs {
			if seen[sig] {
				dup = true
				break
			}
		}
		if dup {
			report.Duplicates++
			continue
		}
		for _, sig := range sigs {
			seen[sig] = true
		}
		out = append(out, job)
	}

	if report.LowQuality+report.Excluded+report.Duplicates > 0 {
		log.Printf("[Agent] Filtered %d jobs: %d low quality, %d excluded, %d duplicates",
			len(jobs)-len(out), report.LowQuality, report.Excluded, report.Duplicates)
	}
	return out, report
}

// signatures returns the title_company and title_location keys of a listing.
// An empty location still yields a key, so location-less postings with the
// same title collapse.
func signatures(job models.JobListing) []string {
	title := strings.ToLower(strings.TrimSpace(job.Title))
	return []string{
		title + "_" + strings.ToLower(strings.TrimSpace(job.Company)),
		title + "_" + strings.ToLower(strings.TrimSpace(job.Location)),
	}
}

func excluded(job models.JobListing, ex models.Exclusions) bool {
	company := strings.ToLower(job.Company)
	for _, c := range ex.Companies {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" && strings.Contains(company, c) {
			return true
		}
	}

	text := strings.ToLower(job.Title + " " + job.Description)
	for _, k := range ex.Keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" && strings.Contains(text, k) {
			return true
		}
	}

	if ex.Agencies && (containsAny(company, agencyMarkers) || containsAny(text, agencyMarkers)) {
		return true
	}
	return false
}
