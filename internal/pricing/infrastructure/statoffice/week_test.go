package statoffice

import (
	"testing"
	"time"
)

func TestWeekCode(t *testing.T) {
	cases := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2024, 9, 4, 12, 0, 0, 0, time.UTC), "202436"},
		// Jan 1st 2023 was a Sunday, still ISO week 52 of 2022.
		{time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), "202252"},
		{time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "202401"},
	}
	for _, tc := range cases {
		if got := WeekCode(tc.in); got != tc.want {
			t.Fatalf("WeekCode(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestWeekRangeClosedMondayToSunday(t *testing.T) {
	from, to := WeekRange(2024, 36)
	wantFrom := time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)
	wantTo := time.Date(2024, 9, 8, 0, 0, 0, 0, time.UTC)
	if !from.Equal(wantFrom) {
		t.Fatalf("from = %s, want %s", from, wantFrom)
	}
	if !to.Equal(wantTo) {
		t.Fatalf("to = %s, want %s", to, wantTo)
	}
	if from.Weekday() != time.Monday {
		t.Fatalf("from weekday = %s, want Monday", from.Weekday())
	}
}

func TestWeekRangeRoundTripsWeekCode(t *testing.T) {
	for _, code := range []string{"202252", "202301", "202436", "202001"} {
		year, week, err := ParseWeekCode(code)
		if err != nil {
			t.Fatalf("ParseWeekCode(%s): %v", code, err)
		}
		from, _ := WeekRange(year, week)
		if got := WeekCode(from); got != code {
			t.Fatalf("WeekCode(WeekRange(%s)) = %s", code, got)
		}
	}
}

func TestLastWeekCodes(t *testing.T) {
	now := time.Date(2024, 9, 4, 0, 0, 0, 0, time.UTC)
	codes := LastWeekCodes(now, 3)
	want := []string{"202434", "202435", "202436"}
	if len(codes) != len(want) {
		t.Fatalf("got %d codes, want %d", len(codes), len(want))
	}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("codes[%d] = %s, want %s", i, codes[i], want[i])
		}
	}
}

func TestParseWeekCodeRejectsGarbage(t *testing.T) {
	for _, code := range []string{"", "2024", "2024w6", "202400", "202499"} {
		if _, _, err := ParseWeekCode(code); err == nil {
			t.Fatalf("ParseWeekCode(%q) accepted", code)
		}
	}
}
