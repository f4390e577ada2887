package agent

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"log"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/jobgenie/backend/freshness"
	"github.com/jobgenie/backend/gemini"
	"github.com/jobgenie/backend/models"
	"github.com/jobgenie/backend/utils"
)

const (
	maxStructureDescription = 3000
	maxSectionItems         = 5
	minSectionItemLen       = 10
	maxDerivedTitleLen      = 80
)

// structureOutcome tells the orchestrator what happened to a raw job
type structureOutcome int

const (
	outcomeStructured structureOutcome = iota
	outcomeFallback
	outcomeEmpty
	outcomeStale
)

// Structurer converts a ScrapedJob into a canonical JobListing
type Structurer struct {
	gen gemini.Generator
	now func() time.Time
}

// NewStructurer creates a structurer. gen may be nil, in which case every
// job goes through the deterministic fallback.
func NewStructurer(gen gemini.Generator) *Structurer {
	return &Structurer{gen: gen, now: time.Now}
}

type structuredReply struct {
	Title            string                     `json:"title"`
	Company          string                     `json:"company"`
	Location         string                     `json:"location"`
	Description      string                     `json:"description"`
	Salary           string                     `json:"salary"`
	Currency         string                     `json:"currency"`
	EmploymentType   string                     `json:"employmentType"`
	WorkplaceType    string                     `json:"workplaceType"`
	Requirements     models.FlexibleStringSlice `json:"requirements"`
	Responsibilities models.FlexibleStringSlice `json:"responsibilities"`
	CompanyInfo      *models.CompanyInfo        `json:"companyInfo"`
}

// Structure returns nil when raw has no title and no description, when no
// title, company or description survives structuring, or when its posting
// date falls outside the refinements' freshness window.
func (s *Structurer) Structure(ctx context.Context, raw models.ScrapedJob, sourceURL string, refinements models.SearchRefinements) *models.JobListing {
	job, _ := s.structure(ctx, raw, sourceURL, refinements, s.now())
	return job
}

func (s *Structurer) structure(ctx context.Context, raw models.ScrapedJob, sourceURL string, refinements models.SearchRefinements, now time.Time) (*models.JobListing, structureOutcome) {
	if raw.IsEmpty() {
		return nil, outcomeEmpty
	}
	if sourceURL == "" {
		sourceURL = raw.URL
	}

	fresh := classifyPosting(raw, refinements.MaxAgeDays(), now)
	if !fresh.Accept {
		log.Printf("[Agent] Rejecting stale job %q (%s)", raw.Title, sourceURL)
		return nil, outcomeStale
	}

	raw.Description = strings.ReplaceAll(raw.Description, models.FallbackDescriptionMarker, "")
	raw.Description = utils.Truncate(strings.TrimSpace(raw.Description), maxStructureDescription)

	job, outcome := s.generate(ctx, raw, sourceURL)
	if job == nil {
		job = fallbackListing(raw)
		outcome = outcomeFallback
	}

	if !finalize(job, raw, sourceURL) {
		return nil, outcomeEmpty
	}
	job.PostedDate = now
	if fresh.InferredDate != nil {
		job.PostedDate = *fresh.InferredDate
	}
	return job, outcome
}

// generate asks the provider for the canonical fields. It returns nil on any
// provider or decode failure.
func (s *Structurer) generate(ctx context.Context, raw models.ScrapedJob, sourceURL string) (*models.JobListing, structureOutcome) {
	if s.gen == nil {
		return nil, outcomeFallback
	}

	text, err := s.gen.Generate(ctx, gemini.StructurePrompt(raw, sourceURL))
	if err != nil {
		log.Printf("[Agent] Structuring failed for %s, using fallback: %v", sourceURL, err)
		return nil, outcomeFallback
	}

	reply, ok := utils.DecodeJSON[structuredReply](text)
	if !ok {
		log.Printf("[Agent] Structuring reply for %s was not decodable, using fallback", sourceURL)
		return nil, outcomeFallback
	}

	job := &models.JobListing{
		Title:            firstNonBlank(reply.Title, raw.Title),
		Company:          firstNonBlank(reply.Company, raw.Company),
		Location:         firstNonBlank(reply.Location, raw.Location),
		Description:      raw.Description,
		Salary:           firstNonBlank(reply.Salary, raw.Salary),
		Currency:         strings.ToUpper(strings.TrimSpace(reply.Currency)),
		EmploymentType:   firstNonBlank(reply.EmploymentType, raw.EmploymentType),
		WorkplaceType:    reply.WorkplaceType,
		Requirements:     cleanItems(reply.Requirements),
		Responsibilities: cleanItems(reply.Responsibilities),
		CompanyInfo:      reply.CompanyInfo,
	}
	// Prefer the model's rewrite only when it kept most of the substance
	if d := strings.TrimSpace(reply.Description); raw.Description != "" && len(d) >= 100 && len(d) >= len(raw.Description)/2 {
		job.Description = d
	}
	return job, outcomeStructured
}

// fallbackListing builds a listing from the raw fields alone
func fallbackListing(raw models.ScrapedJob) *models.JobListing {
	reqs, resps := extractSections(raw.Description)
	return &models.JobListing{
		Title:            strings.TrimSpace(raw.Title),
		Company:          strings.TrimSpace(raw.Company),
		Location:         strings.TrimSpace(raw.Location),
		Description:      raw.Description,
		Salary:           strings.TrimSpace(raw.Salary),
		EmploymentType:   raw.EmploymentType,
		Requirements:     reqs,
		Responsibilities: resps,
	}
}

// finalize applies defaults shared by both structuring paths. It returns
// false when no title, company or description can be found.
func finalize(job *models.JobListing, raw models.ScrapedJob, sourceURL string) bool {
	if job.Title == "" {
		job.Title = titleFromDescription(raw.Description)
	}
	if job.Company == "" {
		job.Company = companyFromURL(sourceURL)
	}
	if job.Title == "" || job.Company == "" {
		return false
	}

	job.Description = strings.TrimSpace(strings.ReplaceAll(job.Description, models.FallbackDescriptionMarker, ""))
	if job.Description == "" {
		return false
	}

	if len(job.Requirements) == 0 && len(job.Responsibilities) == 0 {
		job.Requirements, job.Responsibilities = extractSections(raw.Description)
	}
	job.Requirements = capItems(job.Requirements)
	job.Responsibilities = capItems(job.Responsibilities)
	if job.Requirements == nil {
		job.Requirements = []string{}
	}
	if job.Responsibilities == nil {
		job.Responsibilities = []string{}
	}

	if job.Salary == "" {
		job.Salary = models.DefaultSalary
	}
	if job.Currency == "" {
		job.Currency = detectCurrency(job.Salary)
	}
	job.EmploymentType = models.NormalizeEmploymentType(job.EmploymentType)
	if job.WorkplaceType == "" {
		job.WorkplaceType = detectWorkplace(job.Location+" "+job.Title, raw.Description)
	}
	job.WorkplaceType = models.NormalizeWorkplaceType(job.WorkplaceType)

	job.SourceURL = sourceURL
	job.ID = listingID(sourceURL)
	return true
}

// classifyPosting prefers the explicit posted-date text over the description
func classifyPosting(raw models.ScrapedJob, maxAgeDays int, now time.Time) freshness.Result {
	if strings.TrimSpace(raw.PostedDateText) != "" {
		r := freshness.ClassifyAt(raw.PostedDateText, maxAgeDays, now)
		if !r.Accept || r.InferredDate != nil {
			return r
		}
	}
	return freshness.ClassifyAt(raw.Description, maxAgeDays, now)
}

// listingID combines a source URL hash with a random suffix
func listingID(sourceURL string) string {
	sum := sha1.Sum([]byte(sourceURL))
	return hex.EncodeToString(sum[:4]) + "-" + uuid.NewString()
}

// Section heading keywords
var (
	requirementHeadings    = []string{"requirement", "qualification"}
	responsibilityHeadings = []string{"responsibilit", "duties"}
	otherHeadings          = []string{"benefit", "about", "perks", "what we offer", "how to apply", "compensation", "salary", "who we are", "why join"}
)

type sectionKind int

const (
	sectionNone sectionKind = iota
	sectionRequirements
	sectionResponsibilities
)

// extractSections scans description lines for requirement and responsibility
// headings and collects up to five lines of at least ten characters after
// each, stopping at the next heading.
func extractSections(description string) (reqs, resps []string) {
	current := sectionNone
	for _, line := range strings.Split(description, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if kind, heading, rest := parseHeading(line); heading {
			current = kind
			line = rest
			if line == "" {
				continue
			}
		}

		item := strings.TrimSpace(strings.TrimLeft(line, "-•*·–"))
		if len(item) < minSectionItemLen {
			continue
		}
		switch current {
		case sectionRequirements:
			if len(reqs) < maxSectionItems {
				reqs = append(reqs, item)
			}
		case sectionResponsibilities:
			if len(resps) < maxSectionItems {
				resps = append(resps, item)
			}
		}
	}
	return reqs, resps
}

// parseHeading reports whether line is a section heading. Text after a colon
// on the heading line is returned as rest.
func parseHeading(line string) (sectionKind, bool, string) {
	if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "• ") || strings.HasPrefix(line, "* ") {
		return sectionNone, false, ""
	}

	head, rest := line, ""
	if i := strings.Index(line, ":"); i >= 0 {
		head, rest = line[:i], strings.TrimSpace(line[i+1:])
	}
	if len(head) > 60 || len(strings.Fields(head)) > 5 {
		return sectionNone, false, ""
	}

	lower := strings.ToLower(strings.Trim(head, "#* "))
	switch {
	case containsAny(lower, requirementHeadings):
		return sectionRequirements, true, rest
	case containsAny(lower, responsibilityHeadings):
		return sectionResponsibilities, true, rest
	case hasAnyPrefix(lower, otherHeadings) || (rest == "" && strings.HasSuffix(line, ":")):
		return sectionNone, true, rest
	}
	return sectionNone, false, ""
}

func titleFromDescription(description string) string {
	for _, line := range strings.Split(description, "\n") {
		line = strings.TrimSpace(strings.Trim(line, "#*- "))
		if line == "" {
			continue
		}
		if len(line) <= maxDerivedTitleLen {
			return line
		}
		cut := utils.Truncate(line, maxDerivedTitleLen)
		if i := strings.LastIndex(cut, " "); i > 0 {
			cut = cut[:i]
		}
		return cut
	}
	return ""
}

// Hosts whose first path segment names the employer
var boardHosts = []string{"greenhouse.io", "lever.co", "workable.com", "ashbyhq.com", "smartrecruiters.com"}

// companyFromURL derives an employer name from a posting URL
func companyFromURL(sourceURL string) string {
	u, err := url.Parse(sourceURL)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	host := strings.ToLower(u.Hostname())

	for _, board := range boardHosts {
		if host == board || strings.HasSuffix(host, "."+board) {
			segment := strings.Split(strings.Trim(u.Path, "/"), "/")[0]
			if segment != "" {
				return titleCase(segment)
			}
		}
	}

	labels := strings.Split(host, ".")
	for len(labels) > 2 {
		switch labels[0] {
		case "www", "jobs", "careers", "boards", "apply", "job-boards":
			labels = labels[1:]
			continue
		}
		break
	}
	if len(labels) == 0 || labels[0] == "" {
		return ""
	}
	return titleCase(labels[0])
}

func titleCase(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

func detectCurrency(salary string) string {
	upper := strings.ToUpper(salary)
	switch {
	case strings.Contains(salary, "€") || strings.Contains(upper, "EUR"):
		return "EUR"
	case strings.Contains(salary, "£") || strings.Contains(upper, "GBP"):
		return "GBP"
	case strings.Contains(upper, "IDR") || strings.HasPrefix(strings.TrimSpace(salary), "Rp"):
		return "IDR"
	case strings.Contains(upper, "SGD"):
		return "SGD"
	case strings.Contains(upper, "INR") || strings.Contains(salary, "₹"):
		return "INR"
	}
	return models.DefaultCurrency
}

// detectWorkplace reads the workplace type from the location and title, and
// from the description only when it states it outright
func detectWorkplace(header, description string) string {
	lower := strings.ToLower(header)
	desc := strings.ToLower(description)
	switch {
	case strings.Contains(lower, "hybrid"):
		return models.WorkplaceHybrid
	case strings.Contains(lower, "remote") || strings.Contains(lower, "work from home"):
		return models.WorkplaceRemote
	case containsAny(desc, []string{"fully remote", "100% remote", "remote-first", "remote first"}):
		return models.WorkplaceRemote
	case strings.Contains(desc, "hybrid role") || strings.Contains(desc, "hybrid work"):
		return models.WorkplaceHybrid
	}
	return models.WorkplaceOnsite
}

func cleanItems(items []string) []string {
	var out []string
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func capItems(items []string) []string {
	if len(items) > maxSectionItems {
		return items[:maxSectionItems]
	}
	return items
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
