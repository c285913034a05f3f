package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const releaseDateLayout = "2006-01-02"

var yearRegex = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)

// ExtractYear extracts a 4-digit year from a title or date string
// Returns 0 if no year is found
// Matches years like: (2009), 2009, 2009-05-01, etc.
func ExtractYear(s string) int {
	matches := yearRegex.FindStringSubmatch(s)
	if len(matches) > 1 {
		year, err := strconv.Atoi(matches[1])
		if err == nil {
			return year
		}
	}
	return 0
}

// ParseReleaseDate parses a YYYY-MM-DD release date as returned by TMDB.
// Longer timestamps are truncated to their date part.
func ParseReleaseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty release date")
	}
	if len(raw) > len(releaseDateLayout) {
		raw = raw[:len(releaseDateLayout)]
	}
	t, err := time.Parse(releaseDateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid release date %q: %w", raw, err)
	}
	return t, nil
}
