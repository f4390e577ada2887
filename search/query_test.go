package search

import (
	"strings"
	"testing"

	"github.com/jobgenie/backend/models"
)

func TestBuild_OrderAndTerms(t *testing.T) {
	r := models.SearchRefinements{
		JobTitles:      models.FlexibleStringSlice{"Software Engineer"},
		Synonyms:       models.FlexibleStringSlice{"Backend Developer", "software engineer"},
		Location:       models.LocationPreference{City: "Austin"},
		Seniority:      models.SenioritySenior,
		MustHaveSkills: models.FlexibleStringSlice{"Python", "Go", "SQL", "Kafka"},
	}

	got := Build(r)
	want := `("Software Engineer" OR "Backend Developer") Austin senior Python Go SQL ` + freshnessTail
	if got != want {
		t.Errorf("Build:\n got %q\nwant %q", got, want)
	}
	if strings.Contains(got, "Kafka") {
		t.Error("only the first three skills should be used")
	}
}

func TestBuild_MidSeniorityOmittedAndRemote(t *testing.T) {
	r := models.SearchRefinements{
		JobTitles: models.FlexibleStringSlice{"Designer"},
		Location:  models.LocationPreference{Remote: true},
		Seniority: models.SeniorityMid,
	}

	got := Build(r)
	if !strings.HasPrefix(got, "(Designer) remote ") {
		t.Errorf("Build = %q, want title group then remote", got)
	}
	if strings.Contains(got, " mid ") {
		t.Errorf("mid seniority should be omitted: %q", got)
	}
}

func TestBuildSiteScoped(t *testing.T) {
	r := models.SearchRefinements{JobTitles: models.FlexibleStringSlice{"Data Analyst"}}

	all := BuildSiteScoped(r, "")
	if len(all) != len(DefaultSiteHints) {
		t.Fatalf("got %d variants, want %d", len(all), len(DefaultSiteHints))
	}
	if all[0] != `("Data Analyst") site:linkedin.com/jobs/view` {
		t.Errorf("first variant = %q", all[0])
	}

	one := BuildSiteScoped(r, "site:workable.com")
	if len(one) != 1 || !strings.HasSuffix(one[0], " site:workable.com") {
		t.Errorf("single hint variant = %v", one)
	}
}

func TestPlan_GeneralQueryFirst(t *testing.T) {
	r := models.SearchRefinements{JobTitles: models.FlexibleStringSlice{"Nurse"}}
	plan := Plan(r)
	if len(plan) != 1+len(DefaultSiteHints) {
		t.Fatalf("plan length = %d", len(plan))
	}
	if plan[0] != Build(r) {
		t.Errorf("plan[0] = %q, want general query", plan[0])
	}
}
