package scraper

import (
	"regexp"
	"strings"

	"github.com/jobgenie/backend/models"
)

const (
	maxShortField  = 200
	minPostingBody = 200
	minListLinks   = 3
	maxListLinks   = 50
)

// selectorStrategy applies one row of the selector table. Fields it cannot
// find are filled from JSON-LD and then from the generic heuristics.
type selectorStrategy struct {
	site SiteConfig
}

func (s *selectorStrategy) Name() string { return s.site.Name }

func (s *selectorStrategy) Extract(doc *Document) Page {
	if s.isListPath(doc.URL.Path) || doc.Text(s.site.Single.Title...) == "" {
		if jobs := s.listJobs(doc); len(jobs) > 0 {
			return Page{Jobs: jobs}
		}
	}

	job := s.singleJob(doc)
	if postings := jobPostings(doc); len(postings) > 0 {
		ld := postings[0]
		fill(&ld, job)
		job = ld
	}
	fill(&job, heuristicJob(doc))

	if job.IsEmpty() {
		if links := jobLinks(doc); len(links) >= minListLinks {
			return Page{Jobs: links}
		}
		return Page{}
	}
	return Page{Job: &job}
}

func (s *selectorStrategy) isListPath(path string) bool {
	for _, p := range s.site.ListPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func (s *selectorStrategy) singleJob(doc *Document) models.ScrapedJob {
	f := s.site.Single
	job := models.ScrapedJob{
		Title:          cleanField(doc.ShortText(maxShortField, f.Title...)),
		Company:        cleanField(doc.ShortText(maxShortField, f.Company...)),
		Location:       cleanField(doc.ShortText(maxShortField, f.Location...)),
		Salary:         cleanField(doc.ShortText(maxShortField, f.Salary...)),
		EmploymentType: cleanField(doc.ShortText(100, f.EmploymentType...)),
		PostedDateText: cleanField(doc.ShortText(100, f.Posted...)),
		URL:            doc.URL.String(),
	}
	if n := doc.First(f.Description...); n != nil {
		job.Description = textify(renderNode(n))
	}
	return job
}

func (s *selectorStrategy) listJobs(doc *Document) []models.ScrapedJob {
	l := s.site.List
	for _, cardSel := range l.Card {
		seen := make(map[string]bool)
		var jobs []models.ScrapedJob
		for _, card := range doc.All(cardSel) {
			var link string
			for _, sel := range l.Link {
				if nodes := queryAll(card, sel); len(nodes) > 0 {
					link = doc.Resolve(attr(nodes[0], "href"))
					if link != "" {
						break
					}
				}
			}
			if link == "" || seen[link] {
				continue
			}
			seen[link] = true

			title := firstText(card, l.Title, maxShortField)
			if title == "" {
				title = firstText(card, l.Link, maxShortField)
			}
			jobs = append(jobs, models.ScrapedJob{
				Title:    cleanField(title),
				Company:  cleanField(firstText(card, l.Company, maxShortField)),
				Location: cleanField(firstText(card, l.Location, maxShortField)),
				URL:      link,
			})
			if len(jobs) == maxListLinks {
				break
			}
		}
		if len(jobs) > 0 {
			return jobs
		}
	}
	return nil
}

// genericStrategy handles hosts with no table entry: JSON-LD first, then
// h1 and class-name heuristics, then a scan for job links.
type genericStrategy struct{}

func (genericStrategy) Name() string { return "generic" }

func (genericStrategy) Extract(doc *Document) Page {
	postings := jobPostings(doc)
	if len(postings) > 1 {
		var jobs []models.ScrapedJob
		for _, p := range postings {
			if p.URL != "" {
				p.URL = doc.Resolve(p.URL)
				jobs = append(jobs, p)
			}
		}
		if len(jobs) > 1 {
			return Page{Jobs: jobs}
		}
	}

	job := heuristicJob(doc)
	fromLD := len(postings) > 0
	if fromLD {
		ld := postings[0]
		fill(&ld, job)
		ld.URL = doc.URL.String()
		job = ld
	}

	if fromLD || (job.Title != "" && len(job.Description) >= minPostingBody) {
		return Page{Job: &job}
	}
	if links := jobLinks(doc); len(links) >= minListLinks {
		return Page{Jobs: links}
	}
	if job.IsEmpty() {
		return Page{}
	}
	return Page{Job: &job}
}

// "Role at Company", "Role - Company", "Role | Company"
var titleSeparatorRe = regexp.MustCompile(`(?i)^(.+?)\s+(?:at|[-–—|])\s+(.+)$`)

func heuristicJob(doc *Document) models.ScrapedJob {
	job := models.ScrapedJob{
		Title: doc.ShortText(maxShortField, "h1", "[class*=job-title]", "[class*=jobtitle]", "[class*=jobTitle]"),
		Company: doc.ShortText(maxShortField,
			"[itemprop=hiringOrganization]", "[class*=company-name]", "[class*=companyName]",
			"[class*=employer]", "[class*=company]", "[data-company]"),
		Location: doc.ShortText(maxShortField,
			"[itemprop=jobLocation]", "[class*=job-location]", "[class*=jobLocation]", "[class*=location]"),
		Salary:         doc.ShortText(maxShortField, "[class*=salary]", "[class*=compensation]"),
		EmploymentType: doc.ShortText(100, "[class*=employment-type]", "[class*=job-type]", "[class*=jobType]"),
		PostedDateText: doc.ShortText(100, "[class*=posted]", "[class*=date-posted]", "[class*=postedDate]"),
		URL:            doc.URL.String(),
	}

	if job.Title == "" {
		pageTitle := firstNonEmpty(doc.Meta("og:title"), doc.ShortText(300, "title"))
		job.Title = pageTitle
		if m := titleSeparatorRe.FindStringSubmatch(pageTitle); m != nil && job.Company == "" {
			job.Title, job.Company = m[1], m[2]
		}
	}
	if job.Title == "" {
		job.Title = doc.ShortText(maxShortField, "[class*=title]")
	}
	if job.Company == "" {
		job.Company = doc.Meta("og:site_name")
	}
	if job.PostedDateText == "" {
		if n := doc.First("time[datetime]"); n != nil {
			job.PostedDateText = attr(n, "datetime")
		}
	}

	if n := doc.First(
		"[itemprop=description]", "[class*=job-description]", "[class*=jobDescription]",
		"[id*=job-description]", "[id*=jobDescription]", "[class*=description]", "[id*=description]",
		"article", "main",
	); n != nil {
		job.Description = textify(renderNode(n))
	}
	if job.Description == "" {
		job.Description = firstNonEmpty(doc.Meta("description"), doc.Meta("og:description"))
	}

	job.Title = cleanField(job.Title)
	job.Company = cleanField(job.Company)
	job.Location = cleanField(job.Location)
	job.Salary = cleanField(job.Salary)
	job.EmploymentType = cleanField(job.EmploymentType)
	job.PostedDateText = cleanField(job.PostedDateText)
	return job
}

var jobLinkRe = regexp.MustCompile(`(?i)/(jobs?|careers?|positions?|openings?|vacanc(?:y|ies)|viewjob|job-listing|opportunities|postings?)(/|\?|-)[^#]*[0-9a-z]`)

// jobLinks collects anchors that look like individual postings
func jobLinks(doc *Document) []models.ScrapedJob {
	self := strings.TrimRight(doc.URL.String(), "/")
	seen := map[string]bool{self: true}

	var jobs []models.ScrapedJob
	for _, a := range doc.All("a[href]") {
		link := doc.Resolve(attr(a, "href"))
		if link == "" || seen[strings.TrimRight(link, "/")] || !jobLinkRe.MatchString(link) {
			continue
		}
		text := nodeText(a)
		if len(text) < 4 || len(text) > maxShortField {
			continue
		}
		seen[strings.TrimRight(link, "/")] = true
		jobs = append(jobs, models.ScrapedJob{Title: cleanField(text), URL: link})
		if len(jobs) == maxListLinks {
			break
		}
	}
	return jobs
}

// fill copies src fields into empty dst fields
func fill(dst *models.ScrapedJob, src models.ScrapedJob) {
	if dst.Title == "" {
		dst.Title = src.Title
	}
	if dst.Company == "" {
		dst.Company = src.Company
	}
	if dst.Location == "" {
		dst.Location = src.Location
	}
	if dst.Description == "" {
		dst.Description = src.Description
	}
	if dst.Salary == "" {
		dst.Salary = src.Salary
	}
	if dst.EmploymentType == "" {
		dst.EmploymentType = src.EmploymentType
	}
	if dst.PostedDateText == "" {
		dst.PostedDateText = src.PostedDateText
	}
	if dst.URL == "" {
		dst.URL = src.URL
	}
}
