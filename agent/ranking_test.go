package agent

import (
	"strings"
	"testing"
	"time"

	"github.com/jobgenie/backend/models"
)

func TestScore_Bonuses(t *testing.T) {
	job := models.JobListing{
		Title:         "Backend Engineer",
		Location:      "Berlin, Germany",
		Description:   "We use Go, Postgres and Kubernetes.",
		Salary:        "€85,000 - €100,000",
		WorkplaceType: models.WorkplaceRemote,
	}

	tests := []struct {
		name        string
		refinements models.SearchRefinements
		want        int
	}{
		{"base", models.SearchRefinements{}, 70},
		{"city match is case-insensitive", models.SearchRefinements{Location: models.LocationPreference{City: "berlin"}}, 80},
		{"city mismatch", models.SearchRefinements{Location: models.LocationPreference{City: "Munich"}}, 70},
		{"remote", models.SearchRefinements{Location: models.LocationPreference{Remote: true}}, 80},
		{"salary meets minimum", models.SearchRefinements{Salary: models.SalaryPreference{Min: 80000}}, 75},
		{"salary below minimum", models.SearchRefinements{Salary: models.SalaryPreference{Min: 90000}}, 70},
		{"two skills", models.SearchRefinements{MustHaveSkills: models.FlexibleStringSlice{"go", "Kubernetes", "Rust"}}, 74},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := Score(job, tt.refinements)
			if got != tt.want {
				t.Errorf("Score = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestScore_CapAndReasons(t *testing.T) {
	skills := models.FlexibleStringSlice{"go", "sql", "aws", "gcp", "docker"}
	job := models.JobListing{
		Title:         "Go Engineer",
		Location:      "Austin, TX",
		Description:   "go sql aws gcp docker",
		Salary:        "$150k",
		WorkplaceType: models.WorkplaceRemote,
	}
	r := models.SearchRefinements{
		Location:       models.LocationPreference{City: "Austin", Remote: true},
		Salary:         models.SalaryPreference{Min: 120000},
		MustHaveSkills: skills,
	}

	score, reasons := Score(job, r)
	if score != 95 {
		t.Errorf("Score = %d, want capped 95", score)
	}
	if len(reasons) != 3 {
		t.Fatalf("reasons = %v, want 3", reasons)
	}
	if !strings.Contains(reasons[0], "Austin") || !strings.Contains(reasons[1], "Remote") || !strings.Contains(reasons[2], "Salary") {
		t.Errorf("reasons out of order: %v", reasons)
	}
}

func TestScore_AddingSkillNeverLowersScore(t *testing.T) {
	job := models.JobListing{Title: "Data Engineer", Description: "python spark airflow dbt snowflake kafka"}
	all := []string{"python", "spark", "airflow", "dbt", "snowflake", "kafka", "terraform"}

	prev := 0
	for i := range all {
		r := models.SearchRefinements{MustHaveSkills: models.FlexibleStringSlice(all[:i+1])}
		score, _ := Score(job, r)
		if score < prev {
			t.Errorf("score dropped from %d to %d after adding %q", prev, score, all[i])
		}
		if score > 95 {
			t.Errorf("score %d exceeds cap", score)
		}
		prev = score
	}
}

func TestEnhance_MissingSkills(t *testing.T) {
	job := models.JobListing{Title: "Backend Engineer", Description: "Python and Django"}
	r := models.SearchRefinements{MustHaveSkills: models.FlexibleStringSlice{"Python", "Go"}}

	got := Enhance(job, r)
	if len(got.MissingSkills) != 1 || got.MissingSkills[0] != "Go" {
		t.Errorf("MissingSkills = %v", got.MissingSkills)
	}
}

func TestRank_NewestFirstThenScore(t *testing.T) {
	day := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	jobs := []models.JobListing{
		{Title: "Old strong", Location: "Austin", SourceURL: "a", PostedDate: day.AddDate(0, 0, -2)},
		{Title: "New weak", Location: "Dallas", SourceURL: "b", PostedDate: day},
		{Title: "New strong", Location: "Austin", SourceURL: "c", PostedDate: day},
	}
	r := models.SearchRefinements{Location: models.LocationPreference{City: "Austin"}}

	ranked := Rank(jobs, r)
	want := []string{"New strong", "New weak", "Old strong"}
	for i, w := range want {
		if ranked[i].Title != w {
			t.Errorf("ranked[%d] = %q, want %q", i, ranked[i].Title, w)
		}
	}
}
