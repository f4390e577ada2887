package scraper

import (
	"encoding/json"
	"html"
	"strconv"
	"strings"

	"github.com/jobgenie/backend/models"
	"github.com/jobgenie/backend/utils"
)

// jobPostings returns every schema.org JobPosting embedded as JSON-LD
func jobPostings(doc *Document) []models.ScrapedJob {
	var jobs []models.ScrapedJob
	for _, n := range doc.All("script[type*=ld+json]") {
		if n.FirstChild == nil {
			continue
		}
		raw := strings.TrimSpace(n.FirstChild.Data)

		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			repaired, ok := utils.RepairJSON(raw)
			if !ok || json.Unmarshal(repaired, &v) != nil {
				continue
			}
		}
		for _, m := range collectPostings(v) {
			jobs = append(jobs, postingToScraped(m))
		}
	}
	return jobs
}

func collectPostings(v any) []map[string]any {
	switch t := v.(type) {
	case []any:
		var out []map[string]any
		for _, item := range t {
			out = append(out, collectPostings(item)...)
		}
		return out
	case map[string]any:
		if hasType(t, "JobPosting") {
			return []map[string]any{t}
		}
		var out []map[string]any
		if g, ok := t["@graph"]; ok {
			out = append(out, collectPostings(g)...)
		}
		if items, ok := t["itemListElement"]; ok {
			out = append(out, collectPostings(items)...)
		}
		if item, ok := t["item"]; ok {
			out = append(out, collectPostings(item)...)
		}
		return out
	}
	return nil
}

func hasType(m map[string]any, want string) bool {
	switch t := m["@type"].(type) {
	case string:
		return strings.EqualFold(t, want)
	case []any:
		for _, v := range t {
			if s, ok := v.(string); ok && strings.EqualFold(s, want) {
				return true
			}
		}
	}
	return false
}

func postingToScraped(m map[string]any) models.ScrapedJob {
	job := models.ScrapedJob{
		Title:          cleanField(firstNonEmpty(str(m["title"]), str(m["name"]))),
		Company:        cleanField(orgName(m["hiringOrganization"])),
		Location:       cleanField(locationText(m["jobLocation"])),
		Description:    textify(html.UnescapeString(str(m["description"]))),
		Salary:         salaryText(m["baseSalary"]),
		EmploymentType: firstString(m["employmentType"]),
		PostedDateText: str(m["datePosted"]),
		URL:            str(m["url"]),
	}

	if strings.Contains(strings.ToUpper(str(m["jobLocationType"])), "TELECOMMUTE") {
		if job.Location == "" {
			job.Location = "Remote"
		} else {
			job.Location += " (Remote)"
		}
	}
	return job
}

func orgName(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		return str(t["name"])
	case []any:
		if len(t) > 0 {
			return orgName(t[0])
		}
	}
	return ""
}

func locationText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		var parts []string
		for _, item := range t {
			if s := locationText(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "; ")
	case map[string]any:
		addr, ok := t["address"]
		if !ok {
			return str(t["name"])
		}
		if s, ok := addr.(string); ok {
			return s
		}
		a, _ := addr.(map[string]any)
		var parts []string
		for _, key := range []string{"addressLocality", "addressRegion", "addressCountry"} {
			if s := firstNonEmpty(str(a[key]), orgName(a[key])); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

func salaryText(v any) string {
	m, ok := v.(map[string]any)
	if !ok {
		return str(v)
	}

	currency := str(m["currency"])
	var amount, unit string
	switch val := m["value"].(type) {
	case map[string]any:
		unit = strings.ToLower(str(val["unitText"]))
		minV, maxV := str(val["minValue"]), str(val["maxValue"])
		switch {
		case minV != "" && maxV != "":
			amount = minV + " - " + maxV
		case minV != "":
			amount = minV
		case maxV != "":
			amount = maxV
		default:
			amount = str(val["value"])
		}
	default:
		amount = str(val)
	}
	if amount == "" {
		return ""
	}

	out := amount
	if currency != "" {
		out = currency + " " + out
	}
	if unit != "" {
		out += " per " + unit
	}
	return out
}

func firstString(v any) string {
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if s := str(item); s != "" {
				return s
			}
		}
		return ""
	default:
		return str(v)
	}
}

// str renders JSON scalars as text
func str(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
