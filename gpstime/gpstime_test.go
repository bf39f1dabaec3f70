package gpstime

import "testing"

// TestWeekRollover mirrors the worked example of a receiver reporting a
// 10-bit week that has wrapped: week=905 with a known-good leap-second
// count of 18 must be promoted to week=2953 (905 + 1024 + 1024).
func TestWeekRollover(t *testing.T) {
	got := PromoteWeek(905)
	want := 905 + 1024*2
	if got != want {
		t.Fatalf("PromoteWeek(905) = %d, want %d", got, want)
	}
}

func TestResolveWeekTOWPromotesOnKnownGoodLeap(t *testing.T) {
	resolved := ResolveWeekTOW(905, 100, 0, 18)
	week, _ := ToGPSWeekTOW(resolved, 18)
	if week < weekRolloverThreshold {
		t.Fatalf("expected promoted week, got %d", week)
	}
}

func TestResolveWeekTOWLeavesUnknownLeapAlone(t *testing.T) {
	resolved := ResolveWeekTOW(905, 100, 0, 0)
	week, _ := ToGPSWeekTOW(resolved, 0)
	if week != 905 {
		t.Fatalf("expected no promotion without known-good leap seconds, got %d", week)
	}
}

func TestRoundTripWeekTOW(t *testing.T) {
	const leap = 18
	orig := ResolveWeekTOW(2200, 12345.5, 0, leap)
	week, tow := ToGPSWeekTOW(orig, leap)
	back := ResolveWeekTOW(week, tow, 0, leap)
	if back.Sec != orig.Sec {
		t.Fatalf("round trip mismatch: %d vs %d", back.Sec, orig.Sec)
	}
}

func TestAddAndSub(t *testing.T) {
	base := Time{Sec: 1000, Nanosec: 0}
	advanced := base.Add(1.5)
	if advanced.Sec != 1001 || advanced.Nanosec != 5e8 {
		t.Fatalf("Add(1.5) = %+v", advanced)
	}
	if diff := Sub(advanced, base); diff != 1.5 {
		t.Fatalf("Sub = %v, want 1.5", diff)
	}
}

func TestDaysInMonth(t *testing.T) {
	if DaysInMonth(2024, 2) != 29 {
		t.Fatalf("2024 is a leap year")
	}
	if DaysInMonth(2023, 2) != 28 {
		t.Fatalf("2023 is not a leap year")
	}
	if DaysInMonth(1900, 2) != 28 {
		t.Fatalf("1900 is not a leap year (divisible by 100, not 400)")
	}
	if DaysInMonth(2000, 2) != 29 {
		t.Fatalf("2000 is a leap year (divisible by 400)")
	}
}
