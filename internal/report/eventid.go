package report

import (
	"fmt"
	"strconv"
	"time"
)

// NormalizeEventID derives a stable event identity for a matchup. Bookmaker
// event ids can change between fetches for the same game, so anything
// persisted keys on this instead of the raw id. Resolution order: a numeric
// raw id is used in integer form (feeds sometimes format ids as "123.0");
// otherwise HOME-AWAY-YYYY-MM-DD from the date field or the start timestamp;
// otherwise HOME-AWAY-<start>; otherwise the raw id unchanged. Non-integral
// numeric ids are not stable across fetches and are treated as absent.
func NormalizeEventID(rawID, date, startTime, homeAbbr, awayAbbr string) string {
	if id, ok := integerID(rawID); ok {
		return id
	}
	if homeAbbr != "" && awayAbbr != "" {
		datePart := DateOf(date)
		if datePart == "" {
			datePart = DateOf(startTime)
		}
		if datePart != "" {
			return fmt.Sprintf("%s-%s-%s", homeAbbr, awayAbbr, datePart)
		}
		if startTime != "" {
			return fmt.Sprintf("%s-%s-%s", homeAbbr, awayAbbr, startTime)
		}
	}
	return rawID
}

// DateOf extracts the YYYY-MM-DD calendar date from a start timestamp,
// returning "" when it does not parse.
func DateOf(startTime string) string {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, startTime); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

// integerID returns the integer form of a numeric raw id. Pure digit strings
// pass through untouched so long ids never round-trip through a float.
func integerID(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	if isDigits(s) {
		return s, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return "", false
	}
	if v != float64(int64(v)) {
		return "", false
	}
	return strconv.FormatInt(int64(v), 10), true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
