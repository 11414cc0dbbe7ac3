package statoffice

import (
	"fmt"
	"time"
)

// WeekCode formats a time as the statistical office week code, the ISO year
// followed by the two-digit ISO week number, e.g. "202436".
func WeekCode(t time.Time) string {
	year, week := t.UTC().ISOWeek()
	return fmt.Sprintf("%d%02d", year, week)
}

// WeekRange returns the closed validity window of an ISO week: Monday at
// UTC midnight through the following Sunday at UTC midnight.
func WeekRange(isoYear, isoWeek int) (time.Time, time.Time) {
	// January 4th is always inside ISO week 1 of its year.
	jan4 := time.Date(isoYear, time.January, 4, 0, 0, 0, 0, time.UTC)
	weekday := int(jan4.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	week1Monday := jan4.AddDate(0, 0, 1-weekday)
	from := week1Monday.AddDate(0, 0, (isoWeek-1)*7)
	to := from.AddDate(0, 0, 6)
	return from, to
}

// LastWeekCodes returns the codes of the n ISO weeks ending with the week
// that contains now, oldest first.
func LastWeekCodes(now time.Time, n int) []string {
	if n <= 0 {
		return nil
	}
	codes := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		codes = append(codes, WeekCode(now.AddDate(0, 0, -7*i)))
	}
	return codes
}

// ParseWeekCode splits a week code back into ISO year and week.
func ParseWeekCode(code string) (int, int, error) {
	if len(code) != 6 {
		return 0, 0, fmt.Errorf("statoffice: bad week code %q", code)
	}
	var year, week int
	if _, err := fmt.Sscanf(code, "%4d%2d", &year, &week); err != nil {
		return 0, 0, fmt.Errorf("statoffice: bad week code %q", code)
	}
	if week < 1 || week > 53 {
		return 0, 0, fmt.Errorf("statoffice: bad week code %q", code)
	}
	return year, week, nil
}
