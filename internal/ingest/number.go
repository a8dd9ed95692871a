package ingest

import (
	"strconv"
	"strings"
)

// ParseNumber parses a locale-ambiguous numeric string. Currency symbols,
// percent signs and whitespace are stripped first. When both "," and "."
// appear, whichever comes later is the decimal point and the other is a
// thousands separator. With only commas, a comma followed by at most two
// digits is a decimal point; anything longer is grouping.
//
// The returned flag is true when the value was guessed: either the
// comma-only heuristic fired or the input was unparsable and defaulted to
// zero. Parsing never fails; bad input is 0, not an error, so a messy
// export never blocks an import.
func ParseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	for _, sym := range []string{"€", "$", "£", "%"} {
		s = strings.ReplaceAll(s, sym, "")
	}
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, true
	}

	guessed := false
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			// European: 1.234,56
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			// Anglo: 1,234.56
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		guessed = true
		if len(s)-lastComma-1 <= 2 {
			// Short tail reads as decimals: 1234,5
			s = strings.ReplaceAll(s, ",", ".")
			// Only the final comma can be a decimal point; earlier ones
			// were grouping.
			if strings.Count(s, ".") > 1 {
				tail := strings.LastIndex(s, ".")
				s = strings.ReplaceAll(s[:tail], ".", "") + s[tail:]
			}
		} else {
			// Long tail is grouping: 2,500
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastDot >= 0:
		// Same ambiguity for dot-only input: "2.500" is European
		// grouping, "1234.56" is a plain decimal.
		if len(s)-lastDot-1 > 2 || strings.Count(s, ".") > 1 {
			guessed = true
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, true
	}
	return v, guessed
}
