package main

import (
	"regexp"
	"strconv"
	"time"
)

// datePattern is one recognized filename date shape. Patterns are tried in
// order, so datetime-with-seconds shapes must come before date-only shapes:
// "2023-12-15_14-20-30" should yield a time of day, not just a date.
type datePattern struct {
	re *regexp.Regexp
}

var filenameDatePatterns = []datePattern{
	// Camera and phone conventions: IMG_20231215_142030, VID_20231215_142030
	{regexp.MustCompile(`(?:IMG|VID)[-_](\d{4})(\d{2})(\d{2})[-_](\d{2})(\d{2})(\d{2})`)},
	// Android screenshots: Screenshot_20231215-142030, Screenshot_20231215_142030
	{regexp.MustCompile(`Screenshot[-_](\d{4})(\d{2})(\d{2})[-_](\d{2})(\d{2})(\d{2})`)},
	// macOS screenshots: Screen Shot 2023-12-15 at 14.20.30
	{regexp.MustCompile(`Screen Shot (\d{4})-(\d{2})-(\d{2}) at (\d{1,2})\.(\d{2})\.(\d{2})`)},
	// ISO-like datetimes: 2023-12-15T14:20:30, 20231215T142030
	{regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})T(\d{2})[:.](\d{2})[:.](\d{2})`)},
	{regexp.MustCompile(`(\d{4})(\d{2})(\d{2})T(\d{2})(\d{2})(\d{2})`)},
	// Separated datetime: 2023-12-15_14-20-30
	{regexp.MustCompile(`(\d{4})[-_](\d{2})[-_](\d{2})[-_ ](\d{2})[-_.](\d{2})[-_.](\d{2})`)},
	// Compact datetime: 20231215_142030
	{regexp.MustCompile(`(\d{4})(\d{2})(\d{2})[-_](\d{2})(\d{2})(\d{2})`)},
	// Date-only shapes.
	{regexp.MustCompile(`(?:IMG|VID)[-_](\d{4})(\d{2})(\d{2})`)},
	{regexp.MustCompile(`(\d{4})[-_](\d{2})[-_](\d{2})`)},
	{regexp.MustCompile(`(\d{2})[-_](\d{2})[-_](\d{4})`)},
	{regexp.MustCompile(`(\d{4})(\d{2})(\d{2})`)},
	{regexp.MustCompile(`(\d{2})(\d{2})(\d{4})`)},
}

// extractFilenameDate scans a filename for a recognizable date. The first
// pattern whose captured groups form a calendar-valid date wins; an invalid
// match (month 13, February 30) falls through to the next pattern. Returns
// nil when nothing matches.
func extractFilenameDate(name string) *time.Time {
	for _, p := range filenameDatePatterns {
		m := p.re.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		if t, ok := dateFromGroups(m[1:]); ok {
			return &t
		}
	}
	return nil
}

// dateFromGroups converts captured digit groups into a timestamp. The first
// three groups are the date; a four-digit first group means year-first,
// otherwise day-first. Groups beyond the third are hour, minute, second.
func dateFromGroups(groups []string) (time.Time, bool) {
	if len(groups) < 3 {
		return time.Time{}, false
	}

	nums := make([]int, len(groups))
	for i, g := range groups {
		n, err := strconv.Atoi(g)
		if err != nil {
			return time.Time{}, false
		}
		nums[i] = n
	}

	var year, month, day int
	if len(groups[0]) == 4 {
		year, month, day = nums[0], nums[1], nums[2]
	} else {
		day, month, year = nums[0], nums[1], nums[2]
	}

	var hour, minute, second int
	if len(nums) > 3 {
		hour = nums[3]
	}
	if len(nums) > 4 {
		minute = nums[4]
	}
	if len(nums) > 5 {
		second = nums[5]
	}

	if year < minPlausibleYear || year > 2100 {
		return time.Time{}, false
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	if hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.Local)
	// time.Date normalizes out-of-range days (Feb 30 becomes Mar 2); a
	// shifted component means the captured groups were not a real date.
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}
