package ingest

import (
	"strings"

	"github.com/adverto/adreport/internal/models"
)

// ParseDelimitedText splits raw delimited text into a header row and one
// map per data row. Tokenization is comma-based with quote awareness: a
// double quote toggles quoted mode and commas inside quotes are literal.
// There is no escaped-quote handling beyond the toggle; platform exports
// do not produce nested quotes.
//
// Fewer than two non-blank lines (no header plus at least one data row)
// yields empty results. Rows where every cell is empty are dropped.
func ParseDelimitedText(text string) ([]string, []map[string]string) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) < 2 {
		return nil, nil
	}

	headers := splitLine(lines[0])

	var rows []map[string]string
	for _, line := range lines[1:] {
		cells := splitLine(line)
		row := make(map[string]string, len(headers))
		empty := true
		for i, h := range headers {
			v := ""
			if i < len(cells) {
				v = cells[i]
			}
			row[h] = v
			if v != "" {
				empty = false
			}
		}
		if !empty {
			rows = append(rows, row)
		}
	}
	return headers, rows
}

// splitLine tokenizes one CSV line. Missing trailing cells are the
// caller's concern; this just yields what the line contains.
func splitLine(line string) []string {
	var cells []string
	var cur strings.Builder
	inQuotes := false
	for _, r := range strings.TrimRight(line, "\r") {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			cells = append(cells, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	cells = append(cells, strings.TrimSpace(cur.String()))
	return cells
}

// headerPatterns lists, per target field, the known substrings from
// Google Ads and Meta Ads export headers. Order matters: the first
// pattern that matches any header wins, so ties between headers break by
// pattern position, not header position.
var headerPatterns = []struct {
	field    string
	patterns []string
}{
	{"date", []string{"day", "date"}},
	{"spend", []string{"cost (eur)", "cost (usd)", "amount spent", "cost", "spend"}},
	{"impressions", []string{"impr.", "impressions", "impr"}},
	{"clicks", []string{"clicks", "link clicks"}},
	{"conversions", []string{"conversions", "conv.", "results", "purchases"}},
	{"leads", []string{"leads", "lead"}},
	{"conversionValue", []string{"conv. value", "conversion value", "purchase value", "total conv. value", "value"}},
}

// AutoDetectMapping heuristically maps CSV headers onto metric fields by
// case-insensitive substring match. Unmatched fields stay unmapped and
// default to zero at commit time; the user can override before commit.
func AutoDetectMapping(headers []string) models.ColumnMapping {
	lowered := make([]string, len(headers))
	for i, h := range headers {
		lowered[i] = strings.ToLower(strings.TrimSpace(h))
	}

	find := func(patterns []string) string {
		for _, p := range patterns {
			for i, h := range lowered {
				if strings.Contains(h, p) {
					return headers[i]
				}
			}
		}
		return ""
	}

	var m models.ColumnMapping
	for _, hp := range headerPatterns {
		match := find(hp.patterns)
		switch hp.field {
		case "date":
			m.Date = match
		case "spend":
			m.Spend = match
		case "impressions":
			m.Impressions = match
		case "clicks":
			m.Clicks = match
		case "conversions":
			m.Conversions = match
		case "leads":
			m.Leads = match
		case "conversionValue":
			m.ConversionValue = match
		}
	}
	return m
}
