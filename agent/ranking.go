package agent

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jobgenie/backend/models"
)

// Score weights
const (
	baseScore     = 70
	maxScore      = 95
	locationBonus = 10
	remoteBonus   = 10
	salaryBonus   = 5
	skillBonus    = 2
	maxReasons    = 3
)

// Score rates how well job matches the refinements. Reasons are ordered
// location, remote, salary, skills and capped at three.
func Score(job models.JobListing, r models.SearchRefinements) (int, []string) {
	score := baseScore
	var reasons []string

	if city := strings.TrimSpace(r.Location.City); city != "" &&
		strings.Contains(strings.ToLower(job.Location), strings.ToLower(city)) {
		score += locationBonus
		reasons = append(reasons, fmt.Sprintf("Located in %s", city))
	}

	if r.Location.Remote && job.WorkplaceType == models.WorkplaceRemote {
		score += remoteBonus
		reasons = append(reasons, "Remote position")
	}

	if r.Salary.Min > 0 {
		if amount, ok := models.ParseAmount(job.Salary); ok && amount >= float64(r.Salary.Min) {
			score += salaryBonus
			reasons = append(reasons, "Salary meets your minimum")
		}
	}

	matched, _ := matchSkills(job, r.MustHaveSkills)
	if len(matched) > 0 {
		score += skillBonus * len(matched)
		reasons = append(reasons, fmt.Sprintf("Matches %d of %d required skills: %s",
			len(matched), len(r.MustHaveSkills), strings.Join(matched, ", ")))
	}

	if score > maxScore {
		score = maxScore
	}
	if len(reasons) > maxReasons {
		reasons = reasons[:maxReasons]
	}
	return score, reasons
}

// Enhance scores a single listing
func Enhance(job models.JobListing, r models.SearchRefinements) models.EnhancedJobListing {
	score, reasons := Score(job, r)
	_, missing := matchSkills(job, r.MustHaveSkills)
	if reasons == nil {
		reasons = []string{}
	}
	if missing == nil {
		missing = []string{}
	}
	return models.EnhancedJobListing{
		JobListing:    job,
		MatchScore:    score,
		MatchReasons:  reasons,
		MissingSkills: missing,
	}
}

// Rank scores every listing and orders them newest first, then by score.
// Remaining ties fall back to source URL and title so the order is stable
// across runs.
func Rank(jobs []models.JobListing, r models.SearchRefinements) []models.EnhancedJobListing {
	ranked := make([]models.EnhancedJobListing, 0, len(jobs))
	for _, job := range jobs {
		ranked = append(ranked, Enhance(job, r))
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if !a.PostedDate.Equal(b.PostedDate) {
			return a.PostedDate.After(b.PostedDate)
		}
		if a.MatchScore != b.MatchScore {
			return a.MatchScore > b.MatchScore
		}
		if a.SourceURL != b.SourceURL {
			return a.SourceURL < b.SourceURL
		}
		return a.Title < b.Title
	})
	return ranked
}

// matchSkills splits must-have skills into those mentioned in the title or
// description and those missing
func matchSkills(job models.JobListing, skills []string) (matched, missing []string) {
	text := strings.ToLower(job.Title + " " + job.Description)
	for _, skill := range skills {
		s := strings.ToLower(strings.TrimSpace(skill))
		if s == "" {
			continue
		}
		if strings.Contains(text, s) {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}
	return matched, missing
}
