package scheduling

import (
	"testing"
	"time"
)

func testGenerator() *SlotGenerator {
	return NewSlotGenerator("America/Los_Angeles", 9, 17, 30)
}

func TestGenerateForDateWindow(t *testing.T) {
	g := testGenerator()
	date := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	slots := g.GenerateForDate(date, "")
	if len(slots) != 16 {
		t.Fatalf("expected 16 half-hour slots in a 9-17 day, got %d", len(slots))
	}

	first := slots[0]
	if first.StartTime.In(g.Zone()).Hour() != 9 {
		t.Fatalf("first slot should start at 09:00, got %v", first.StartTime.In(g.Zone()))
	}
	last := slots[len(slots)-1]
	if got := last.EndTime.In(g.Zone()); got.Hour() != 17 || got.Minute() != 0 {
		t.Fatalf("last slot should end at 17:00, got %v", got)
	}
}

func TestGenerateForDateExcludesSpillover(t *testing.T) {
	g := testGenerator()
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	// A 45 minute consult starting 16:30 would end 17:15, past the window.
	slots := g.GenerateForDate(date, "consult")
	for _, slot := range slots {
		end := slot.EndTime.In(g.Zone())
		if end.Hour() > 17 || (end.Hour() == 17 && end.Minute() > 0) {
			t.Fatalf("slot spills past window end: %v", end)
		}
	}
	last := slots[len(slots)-1]
	if got := last.StartTime.In(g.Zone()); got.Hour() != 16 || got.Minute() != 0 {
		t.Fatalf("last consult slot should start 16:00, got %v", got)
	}
}

func TestGenerateForDateDeterministic(t *testing.T) {
	g := testGenerator()
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	a := g.GenerateForDate(date, "extended")
	b := g.GenerateForDate(date, "extended")
	if len(a) != len(b) {
		t.Fatalf("generation not deterministic: %d vs %d slots", len(a), len(b))
	}
	for i := range a {
		if !a[i].StartTime.Equal(b[i].StartTime) || !a[i].EndTime.Equal(b[i].EndTime) {
			t.Fatalf("slot %d differs between runs", i)
		}
	}
}

func TestServiceDuration(t *testing.T) {
	g := testGenerator()
	cases := []struct {
		serviceType string
		want        time.Duration
	}{
		{"", 30 * time.Minute},
		{"default", 30 * time.Minute},
		{"consult", 45 * time.Minute},
		{"follow_up", 30 * time.Minute},
		{"extended", 60 * time.Minute},
		{"unknown_type", 30 * time.Minute},
	}
	for _, tc := range cases {
		if got := g.ServiceDuration(tc.serviceType); got != tc.want {
			t.Fatalf("ServiceDuration(%q) = %v, want %v", tc.serviceType, got, tc.want)
		}
	}
}

func TestGenerateRangeCoversConsecutiveDays(t *testing.T) {
	g := testGenerator()
	start := time.Date(2026, 3, 10, 0, 0, 0, 0, g.Zone())

	slots := g.GenerateRange(start, 3, "")
	perDay := len(g.GenerateForDate(start, ""))
	if len(slots) != 3*perDay {
		t.Fatalf("expected %d slots over 3 days, got %d", 3*perDay, len(slots))
	}

	seen := map[string]bool{}
	for _, slot := range slots {
		day := slot.StartTime.In(g.Zone()).Format("2006-01-02")
		seen[day] = true
	}
	if len(seen) != 3 {
		t.Fatalf("expected slots across 3 distinct days, got %d", len(seen))
	}
}

func TestUnknownTimezoneFallsBackToUTC(t *testing.T) {
	g := NewSlotGenerator("Not/AZone", 9, 17, 30)
	if g.Zone() != time.UTC {
		t.Fatalf("expected UTC fallback, got %v", g.Zone())
	}
}
