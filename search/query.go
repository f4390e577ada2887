package search

import (
	"strings"

	"github.com/jobgenie/backend/models"
)

// DefaultSiteHints are the job-board paths used for site-scoped variants.
// Each one points at single-posting pages rather than search pages.
var DefaultSiteHints = []string{
	"linkedin.com/jobs/view",
	"indeed.com/viewjob",
	"glassdoor.com/job-listing",
	"greenhouse.io",
	"lever.co",
}

// freshnessTail biases the search engine toward recent postings
const freshnessTail = `"hiring now" ("posted today" OR "posted yesterday" OR "days ago")`

const maxQuerySkills = 3

// Build returns the general query: title OR-group, location or "remote",
// seniority (omitted for mid), up to three must-have skills, freshness tail.
func Build(r models.SearchRefinements) string {
	core := coreTerms(r)
	return strings.Join(append(core, freshnessTail), " ")
}

// BuildSiteScoped returns one query per site. With an empty siteHint every
// entry of DefaultSiteHints gets a variant.
func BuildSiteScoped(r models.SearchRefinements, siteHint string) []string {
	hints := DefaultSiteHints
	if siteHint = strings.TrimSpace(siteHint); siteHint != "" {
		hints = []string{siteHint}
	}

	core := strings.Join(coreTerms(r), " ")
	queries := make([]string, 0, len(hints))
	for _, hint := range hints {
		queries = append(queries, core+" site:"+strings.TrimPrefix(hint, "site:"))
	}
	return queries
}

// Plan is the ordered query list for one run: the general query first,
// then the site-scoped variants.
func Plan(r models.SearchRefinements) []string {
	return append([]string{Build(r)}, BuildSiteScoped(r, "")...)
}

func coreTerms(r models.SearchRefinements) []string {
	var parts []string

	titles := r.AllTitles()
	if len(titles) == 0 {
		parts = append(parts, "jobs")
	} else {
		quoted := make([]string, len(titles))
		for i, t := range titles {
			quoted[i] = quote(t)
		}
		parts = append(parts, "("+strings.Join(quoted, " OR ")+")")
	}

	if city := strings.TrimSpace(r.Location.City); city != "" {
		parts = append(parts, quote(city))
	} else if r.Location.Remote {
		parts = append(parts, "remote")
	}

	if s := strings.ToLower(r.Seniority); s != "" && s != models.SeniorityMid {
		parts = append(parts, s)
	}

	for i, skill := range r.MustHaveSkills {
		if i == maxQuerySkills {
			break
		}
		parts = append(parts, quote(skill))
	}

	return parts
}

func quote(s string) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), `"`, "")
	if !strings.ContainsAny(s, " -") {
		return s
	}
	return `"` + s + `"`
}
