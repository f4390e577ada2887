// Package freshness turns natural-language posting-age phrases into an
// inclusion decision and an inferred posting date.
package freshness

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Result is the outcome of classifying a date phrase.
// InferredDate is nil when the text carried no recognizable date; callers use
// the current time in that case.
type Result struct {
	Accept       bool
	InferredDate *time.Time
}

var (
	todayRe     = regexp.MustCompile(`\b(today|just posted|just now)\b`)
	hoursRe     = regexp.MustCompile(`\b(\d+|an|a)\s*(hours?|hrs?|minutes?|mins?)\s+ago\b`)
	yesterdayRe = regexp.MustCompile(`\byesterday\b`)
	daysRe      = regexp.MustCompile(`\b(\d+|a)\+?\s*days?\s+ago\b`)
	weeksRe     = regexp.MustCompile(`\b(\d+|a)\+?\s*weeks?\s+ago\b`)
	monthsRe    = regexp.MustCompile(`\b(\d+|a|many|several)?\+?\s*months?\s+ago\b`)
	isoDateRe   = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})(t[0-9:.]+(z|[+-]\d{2}:?\d{2})?)?\b`)
)

// Classify classifies text against a freshness window of maxAgeDays, relative to now.
func Classify(text string, maxAgeDays int) Result {
	return ClassifyAt(text, maxAgeDays, time.Now())
}

// ClassifyAt is Classify with an explicit reference time.
//
// Rules are applied in priority order: today/hours ago, yesterday, N days ago,
// N weeks ago (always rejected), months ago (always rejected), absolute ISO
// dates. Text with no recognizable phrase is accepted with a nil date.
func ClassifyAt(text string, maxAgeDays int, now time.Time) Result {
	s := strings.ToLower(text)

	if m := hoursRe.FindStringSubmatch(s); m != nil {
		n := count(m[1])
		unit := time.Hour
		if strings.HasPrefix(m[2], "m") {
			unit = time.Minute
		}
		return accept(now.Add(-time.Duration(n) * unit))
	}
	if todayRe.MatchString(s) {
		return accept(now)
	}

	if yesterdayRe.MatchString(s) {
		return accept(now.AddDate(0, 0, -1))
	}

	if m := daysRe.FindStringSubmatch(s); m != nil {
		n := count(m[1])
		if n > maxAgeDays {
			return Result{Accept: false}
		}
		return accept(now.AddDate(0, 0, -n))
	}

	if m := weeksRe.FindStringSubmatch(s); m != nil {
		// Week counts are integers >= 1, so this never accepts.
		if count(m[1]) < 1 {
			return accept(now)
		}
		return Result{Accept: false}
	}

	if monthsRe.MatchString(s) {
		return Result{Accept: false}
	}

	if m := isoDateRe.FindStringSubmatch(s); m != nil {
		posted, err := time.Parse("2006-01-02", m[1])
		if err == nil {
			age := int(now.Sub(posted).Hours() / 24)
			if age > maxAgeDays {
				return Result{Accept: false}
			}
			if posted.After(now) {
				posted = now
			}
			return accept(posted)
		}
	}

	return Result{Accept: true}
}

// Age returns the inferred age in whole days, or -1 when no date was inferred.
func (r Result) Age(now time.Time) int {
	if r.InferredDate == nil {
		return -1
	}
	return int(now.Sub(*r.InferredDate).Hours() / 24)
}

func accept(t time.Time) Result {
	return Result{Accept: true, InferredDate: &t}
}

func count(token string) int {
	switch token {
	case "a", "an", "":
		return 1
	case "many", "several":
		return 2
	}
	n, err := strconv.Atoi(token)
	if err != nil {
		return 1
	}
	return n
}
