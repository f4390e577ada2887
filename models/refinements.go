package models

import "strings"

// Seniority levels
const (
	SeniorityIntern = "intern"
	SeniorityJunior = "junior"
	SeniorityMid    = "mid"
	SenioritySenior = "senior"
	SeniorityLead   = "lead"
)

// Contract types
const (
	ContractFullTime  = "full-time"
	ContractPartTime  = "part-time"
	ContractContract  = "contract"
	ContractFreelance = "freelance"
)

// Salary types
const (
	SalaryHourly = "hourly"
	SalaryYearly = "yearly"
)

// LocationPreference describes where the user wants to work
type LocationPreference struct {
	City     string         `json:"city,omitempty"`
	Remote   bool           `json:"remote,omitempty"`
	Hybrid   bool           `json:"hybrid,omitempty"`
	Radius   FlexibleNumber `json:"radius,omitempty"`
	Timezone string         `json:"timezone,omitempty"`
}

// SalaryPreference describes the expected pay
type SalaryPreference struct {
	Min      FlexibleNumber `json:"min,omitempty"`
	Max      FlexibleNumber `json:"max,omitempty"`
	Currency string         `json:"currency,omitempty"`
	Type     string         `json:"type,omitempty"` // hourly, yearly
}

// Eligibility describes work authorization constraints
type Eligibility struct {
	Visa       string              `json:"visa,omitempty"`
	Relocation bool                `json:"relocation,omitempty"`
	Languages  FlexibleStringSlice `json:"languages,omitempty"`
}

// Exclusions lists what the user never wants to see
type Exclusions struct {
	Companies FlexibleStringSlice `json:"companies,omitempty"`
	Keywords  FlexibleStringSlice `json:"keywords,omitempty"`
	Agencies  bool                `json:"agencies,omitempty"`
}

// SearchRefinements is the normalized user intent for one search.
// It is built once by the intent analyzer and not mutated during a pipeline run.
type SearchRefinements struct {
	JobTitles        FlexibleStringSlice `json:"jobTitles"`
	Synonyms         FlexibleStringSlice `json:"synonyms,omitempty"`
	Location         LocationPreference  `json:"location"`
	Seniority        string              `json:"seniority,omitempty"`
	MustHaveSkills   FlexibleStringSlice `json:"mustHaveSkills,omitempty"`
	NiceToHaveSkills FlexibleStringSlice `json:"niceToHaveSkills,omitempty"`
	Salary           SalaryPreference    `json:"salary,omitempty"`
	ContractType     string              `json:"contractType,omitempty"`
	Eligibility      Eligibility         `json:"eligibility,omitempty"`
	DateRange        *int                `json:"dateRange,omitempty"` // max age in days; nil means unset
	Exclusions       Exclusions          `json:"exclusions,omitempty"`
	TargetCompanies  FlexibleStringSlice `json:"targetCompanies,omitempty"`
}

// DefaultRefinements returns the generic refinements used when the user intent
// could not be analyzed: remote, mid-level, default freshness window.
func DefaultRefinements(dateRange int) SearchRefinements {
	return SearchRefinements{
		JobTitles: FlexibleStringSlice{},
		Location:  LocationPreference{Remote: true},
		Seniority: SeniorityMid,
		DateRange: Days(dateRange),
	}
}

// Days returns a DateRange value
func Days(n int) *int {
	return &n
}

// MaxAgeDays is the freshness window in days. An unset window reads as 0;
// Normalize fills it in.
func (r SearchRefinements) MaxAgeDays() int {
	if r.DateRange == nil {
		return 0
	}
	return *r.DateRange
}

// Normalize trims list entries, lowercases enums and fills DateRange.
// An unset window takes defaultDateRange; 0 is a valid today-only window and
// only negative values are clamped.
func (r *SearchRefinements) Normalize(defaultDateRange int) {
	r.JobTitles = compact(r.JobTitles)
	r.Synonyms = compact(r.Synonyms)
	r.MustHaveSkills = compact(r.MustHaveSkills)
	r.NiceToHaveSkills = compact(r.NiceToHaveSkills)
	r.TargetCompanies = compact(r.TargetCompanies)
	r.Exclusions.Companies = compact(r.Exclusions.Companies)
	r.Exclusions.Keywords = compact(r.Exclusions.Keywords)
	r.Location.City = strings.TrimSpace(r.Location.City)
	if strings.EqualFold(r.Location.City, "remote") {
		r.Location.City = ""
		r.Location.Remote = true
	}

	r.Seniority = normalizeSeniority(r.Seniority)
	r.ContractType = normalizeContractType(r.ContractType)
	r.Salary.Type = strings.ToLower(strings.TrimSpace(r.Salary.Type))
	if r.Salary.Type != SalaryHourly && r.Salary.Type != SalaryYearly {
		r.Salary.Type = ""
	}

	switch {
	case r.DateRange == nil:
		r.DateRange = Days(defaultDateRange)
	case *r.DateRange < 0:
		r.DateRange = Days(0)
	}
}

// AllTitles returns job titles followed by synonyms, deduplicated case-insensitively
func (r SearchRefinements) AllTitles() []string {
	seen := make(map[string]bool)
	var titles []string
	for _, t := range append(append([]string{}, r.JobTitles...), r.Synonyms...) {
		key := strings.ToLower(t)
		if t == "" || seen[key] {
			continue
		}
		seen[key] = true
		titles = append(titles, t)
	}
	return titles
}

func normalizeSeniority(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "intern", "internship", "trainee":
		return SeniorityIntern
	case "junior", "entry", "entry-level", "entry level", "graduate":
		return SeniorityJunior
	case "senior", "sr", "sr.":
		return SenioritySenior
	case "lead", "principal", "staff", "manager", "head":
		return SeniorityLead
	default:
		return SeniorityMid
	}
}

func normalizeContractType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(strings.ReplaceAll(raw, "_", "-"))) {
	case "part-time", "part time":
		return ContractPartTime
	case "contract", "contractor", "temporary":
		return ContractContract
	case "freelance":
		return ContractFreelance
	case "":
		return ""
	default:
		return ContractFullTime
	}
}

func compact(values []string) FlexibleStringSlice {
	out := make(FlexibleStringSlice, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
