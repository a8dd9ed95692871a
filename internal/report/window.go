package report

import "time"

const isoDay = "2006-01-02"

// PreviousPeriod computes the comparison window immediately preceding
// [start, end]. A window that spans exactly one calendar month shifts to
// the prior calendar month (so 31 days can compare against 28); any
// other window shifts back by its own length in days. The aggregation
// itself does not care: callers query records for the returned range
// and run Totals on them.
func PreviousPeriod(start, end string) (string, string, error) {
	s, err := time.Parse(isoDay, start)
	if err != nil {
		return "", "", err
	}
	e, err := time.Parse(isoDay, end)
	if err != nil {
		return "", "", err
	}

	if isCalendarMonth(s, e) {
		prevEnd := s.AddDate(0, 0, -1)                                        // last day of prior month
		prevStart := time.Date(prevEnd.Year(), prevEnd.Month(), 1, 0, 0, 0, 0, time.UTC)
		return prevStart.Format(isoDay), prevEnd.Format(isoDay), nil
	}

	length := int(e.Sub(s).Hours()/24) + 1
	prevEnd := s.AddDate(0, 0, -1)
	prevStart := prevEnd.AddDate(0, 0, -(length - 1))
	return prevStart.Format(isoDay), prevEnd.Format(isoDay), nil
}

// isCalendarMonth reports whether [s, e] is exactly the first through
// last day of one month.
func isCalendarMonth(s, e time.Time) bool {
	if s.Day() != 1 {
		return false
	}
	if s.Year() != e.Year() || s.Month() != e.Month() {
		return false
	}
	lastDay := time.Date(s.Year(), s.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	return e.Day() == lastDay
}
