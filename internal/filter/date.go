package filter

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	isoDateRegex  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	yearOnlyRegex = regexp.MustCompile(`\b(20\d{2})\b`)
	relativeRegex = regexp.MustCompile(`(?i)(\d+)\+?\s*(minute|min|hour|hr|day|d|week|wk|month|mo)s?\b`)
)

// IsRecentJob reports whether a posted date is within maxAge of now.
// Dates it cannot read count as recent.
func IsRecentJob(dateStr string, now time.Time, maxAge time.Duration) bool {
	dateStr = strings.TrimSpace(dateStr)
	lower := strings.ToLower(dateStr)
	if dateStr == "" || dateStr == "N/A" || lower == "recent" || lower == "today" || lower == "just posted" || lower == "new" {
		return true
	}

	//Case 1: ISO format "2026-01-27" or 2026-01-27T...
	if isoDateRegex.MatchString(dateStr) {
		if jobDate, err := time.Parse("2006-01-02", dateStr[:10]); err == nil {
			return isWithin(now, jobDate, maxAge)
		}
	}

	//case 2: relative "3 days ago", "30+ days ago", "5h"
	if match := relativeRegex.FindStringSubmatch(dateStr); match != nil {
		n, _ := strconv.Atoi(match[1])
		var unit time.Duration
		switch strings.ToLower(match[2]) {
		case "minute", "min":
			unit = time.Minute
		case "hour", "hr":
			unit = time.Hour
		case "day", "d":
			unit = 24 * time.Hour
		case "week", "wk":
			unit = 7 * 24 * time.Hour
		case "month", "mo":
			unit = 30 * 24 * time.Hour
		}
		return time.Duration(n)*unit <= maxAge
	}

	//case 3: dd/mm/yyyy
	if strings.Contains(dateStr, "/") {
		parts := strings.Split(dateStr, "/")
		if len(parts) >= 3 {
			day, errD := strconv.Atoi(parts[0])
			month, errM := strconv.Atoi(parts[1])
			year, errY := strconv.Atoi(strings.TrimSpace(parts[2]))
			if errD == nil && errM == nil && errY == nil {
				jobDate := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
				return isWithin(now, jobDate, maxAge)
			}
		}
	}

	//case 4: year only fallback
	if match := yearOnlyRegex.FindStringSubmatch(dateStr); match != nil {
		year, _ := strconv.Atoi(match[1])
		return year == now.Year() || year == now.Year()-1
	}

	//default
	return true
}

func isWithin(now, jobDate time.Time, maxAge time.Duration) bool {
	diff := now.Sub(jobDate)
	if diff > maxAge {
		return false
	}

	//reject if future date >2 days (timezone issues)
	if diff < -2*24*time.Hour {
		return false
	}
	return true
}
