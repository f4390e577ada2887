package scraper

import (
	"strings"
	"testing"
)

const jsonLDPage = `<html><head>
<script type="application/ld+json">
{
  "@context": "https://schema.org",
  "@graph": [
    {"@type": "Organization", "name": "Globex"},
    {
      "@type": "JobPosting",
      "title": "Platform Engineer",
      "hiringOrganization": {"@type": "Organization", "name": "Globex"},
      "jobLocation": [{"@type": "Place", "address": {"addressLocality": "Berlin", "addressCountry": "DE"}}],
      "jobLocationType": "TELECOMMUTE",
      "description": "&lt;p&gt;Build the platform&lt;/p&gt;",
      "baseSalary": {"@type": "MonetaryAmount", "currency": "EUR", "value": {"@type": "QuantitativeValue", "minValue": 70000, "maxValue": 90000, "unitText": "YEAR"}},
      "employmentType": ["FULL_TIME", "CONTRACTOR"],
      "datePosted": "2025-03-12"
    }
  ]
}
</script>
</head><body></body></html>`

func TestJobPostings_Graph(t *testing.T) {
	doc := mustParse(t, jsonLDPage, "https://globex.com/jobs/1")
	jobs := jobPostings(doc)
	if len(jobs) != 1 {
		t.Fatalf("got %d postings, want 1", len(jobs))
	}

	j := jobs[0]
	if j.Title != "Platform Engineer" || j.Company != "Globex" {
		t.Errorf("title/company = %q / %q", j.Title, j.Company)
	}
	if j.Location != "Berlin, DE (Remote)" {
		t.Errorf("Location = %q", j.Location)
	}
	if j.Salary != "EUR 70000 - 90000 per year" {
		t.Errorf("Salary = %q", j.Salary)
	}
	if j.EmploymentType != "FULL_TIME" {
		t.Errorf("EmploymentType = %q", j.EmploymentType)
	}
	if j.PostedDateText != "2025-03-12" {
		t.Errorf("PostedDateText = %q", j.PostedDateText)
	}
	if !strings.Contains(j.Description, "Build the platform") || strings.Contains(j.Description, "<p>") {
		t.Errorf("Description = %q", j.Description)
	}
}

func TestJobPostings_RepairsTrailingComma(t *testing.T) {
	doc := mustParse(t, `<script type="application/ld+json">{"@type": "JobPosting", "title": "Nurse", "hiringOrganization": "City Hospital",}</script>`, "https://x.io/")
	jobs := jobPostings(doc)
	if len(jobs) != 1 || jobs[0].Title != "Nurse" || jobs[0].Company != "City Hospital" {
		t.Errorf("jobs = %+v", jobs)
	}
}

func TestJobPostings_IgnoresOtherTypes(t *testing.T) {
	doc := mustParse(t, `<script type="application/ld+json">{"@type": "WebSite", "name": "Acme"}</script>`, "https://x.io/")
	if jobs := jobPostings(doc); len(jobs) != 0 {
		t.Errorf("expected no postings, got %+v", jobs)
	}
}
