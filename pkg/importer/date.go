package importer

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

var dateSeparatorRegex = regexp.MustCompile(`[/-]`)

var fallbackDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"02/01/2006 15:04:05",
	"02.01.2006",
}

// ParseDate reads dates such as "15/03/2024", "15-03-2024" or "2024-03-15".
// A four digit first part means year-month-day, anything else day-month-year.
// Empty or unreadable text yields now.
func ParseDate(text string, now time.Time) time.Time {
	text = strings.TrimSpace(text)
	if text == "" {
		return now
	}

	parts := dateSeparatorRegex.Split(text, -1)
	if len(parts) == 3 {
		if date, ok := dateFromParts(parts); ok {
			return date
		}
	}

	for _, layout := range fallbackDateLayouts {
		if date, err := time.Parse(layout, text); err == nil {
			return date
		}
	}
	log.Warnf("could not parse date %q, using current date", text)
	return now
}

func dateFromParts(parts []string) (time.Time, bool) {
	numbers := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return time.Time{}, false
		}
		numbers[i] = n
	}

	year, month, day := numbers[2], numbers[1], numbers[0]
	if len(strings.TrimSpace(parts[0])) == 4 {
		year, day = numbers[0], numbers[2]
	}
	if year < 100 {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Day() != day {
		return time.Time{}, false
	}
	return date, true
}
