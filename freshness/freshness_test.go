package freshness_test

import (
	"testing"
	"time"

	"github.com/jobgenie/backend/freshness"
)

var now = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// ── today / hours ──────────────────────────────────────────────────────────

func TestClassify_TodayAcceptsForAnyWindow(t *testing.T) {
	for _, n := range []int{0, 1, 4, 30} {
		got := freshness.ClassifyAt("Posted today", n, now)
		if !got.Accept {
			t.Errorf("ClassifyAt(posted today, %d) rejected", n)
		}
		if got.InferredDate == nil || !got.InferredDate.Equal(now) {
			t.Errorf("ClassifyAt(posted today, %d) date = %v, want now", n, got.InferredDate)
		}
	}
}

func TestClassify_HoursAgoAdjustsDate(t *testing.T) {
	got := freshness.ClassifyAt("Reposted 5 hours ago", 0, now)
	if !got.Accept {
		t.Fatal("5 hours ago should be accepted")
	}
	want := now.Add(-5 * time.Hour)
	if !got.InferredDate.Equal(want) {
		t.Errorf("date = %v, want %v", got.InferredDate, want)
	}

	got = freshness.ClassifyAt("an hour ago", 0, now)
	if !got.Accept || !got.InferredDate.Equal(now.Add(-time.Hour)) {
		t.Errorf("an hour ago: %+v", got)
	}
}

func TestClassify_Yesterday(t *testing.T) {
	got := freshness.ClassifyAt("Posted yesterday", 4, now)
	if !got.Accept {
		t.Fatal("yesterday should be accepted")
	}
	if !sameDay(*got.InferredDate, now.AddDate(0, 0, -1)) {
		t.Errorf("date = %v, want now-1d", got.InferredDate)
	}
}

// ── days ───────────────────────────────────────────────────────────────────

func TestClassify_DayBoundary(t *testing.T) {
	if !freshness.ClassifyAt("4 days ago", 4, now).Accept {
		t.Error("4 days ago with window 4 should be accepted")
	}
	if freshness.ClassifyAt("5 days ago", 4, now).Accept {
		t.Error("5 days ago with window 4 should be rejected")
	}
}

func TestClassify_DaysAgoInfersDate(t *testing.T) {
	got := freshness.ClassifyAt("Senior role. Posted 2 days ago. Apply now", 4, now)
	if !got.Accept {
		t.Fatal("2 days ago should be accepted")
	}
	if !sameDay(*got.InferredDate, now.AddDate(0, 0, -2)) {
		t.Errorf("date = %v, want now-2d", got.InferredDate)
	}
	if got.Age(now) != 2 {
		t.Errorf("Age = %d, want 2", got.Age(now))
	}
}

func TestClassify_ThirtyPlusDays(t *testing.T) {
	if freshness.ClassifyAt("30+ days ago", 4, now).Accept {
		t.Error("30+ days ago should be rejected")
	}
}

// ── weeks / months ─────────────────────────────────────────────────────────

func TestClassify_WeeksAlwaysReject(t *testing.T) {
	for _, text := range []string{"1 week ago", "3 weeks ago", "a week ago"} {
		if freshness.ClassifyAt(text, 30, now).Accept {
			t.Errorf("%q should be rejected", text)
		}
	}
}

func TestClassify_MonthsAlwaysReject(t *testing.T) {
	for _, n := range []int{0, 4, 90, 365} {
		if freshness.ClassifyAt("3 months ago", n, now).Accept {
			t.Errorf("3 months ago accepted for window %d", n)
		}
	}
	if freshness.ClassifyAt("a month ago", 365, now).Accept {
		t.Error("a month ago should be rejected")
	}
}

// ── absolute dates / no evidence ───────────────────────────────────────────

func TestClassify_ISODate(t *testing.T) {
	got := freshness.ClassifyAt("2025-03-12T09:00:00Z", 4, now)
	if !got.Accept {
		t.Fatal("date two days old should be accepted")
	}
	if freshness.ClassifyAt("2025-02-01", 4, now).Accept {
		t.Error("date six weeks old should be rejected")
	}
}

func TestClassify_NoPhraseAcceptsWithoutDate(t *testing.T) {
	got := freshness.ClassifyAt("We are hiring a backend engineer", 4, now)
	if !got.Accept {
		t.Error("text without a date phrase should be accepted")
	}
	if got.InferredDate != nil {
		t.Errorf("InferredDate = %v, want nil", got.InferredDate)
	}
	if got.Age(now) != -1 {
		t.Errorf("Age = %d, want -1", got.Age(now))
	}
}
