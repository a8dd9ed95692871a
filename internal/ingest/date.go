package ingest

import (
	"regexp"
	"time"
)

var (
	isoDateRe   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	slashDateRe = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
)

// fallbackLayouts are tried in order when a date is neither ISO nor
// DD/MM/YYYY shaped. Covers the formats seen in platform exports.
var fallbackLayouts = []string{
	"2006-01-02 15:04:05",
	"Jan 2, 2006",
	"2 Jan 2006",
	"2006/01/02",
	"01-02-2006",
}

// NormalizeDate converts a raw date cell to YYYY-MM-DD. ISO input passes
// through unchanged; slash dates are read as day/month/year. When nothing
// parses the raw string comes back as-is; record building filters on the
// 10-character shape, so malformed dates drop out downstream instead of
// failing the import. A 10-character non-date slips through that gate;
// known looseness, kept deliberately.
func NormalizeDate(raw string) string {
	if isoDateRe.MatchString(raw) {
		return raw
	}
	if m := slashDateRe.FindStringSubmatch(raw); m != nil {
		t, err := time.Parse("2/1/2006", raw)
		if err == nil {
			return t.Format("2006-01-02")
		}
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return raw
}
