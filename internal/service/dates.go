package service

import "time"

// dateLayouts are the two accepted input shapes. Parsing "2006-01"
// anchors the result to the first day of the month.
var dateLayouts = []string{"2006-01-02", "2006-01"}

// ParseMonthOrDate parses a 'YYYY-MM-DD' or 'YYYY-MM' string into a
// calendar date, normalizing month strings to the month's first day.
// Returns ErrInvalidDateFormat when neither layout matches.
func ParseMonthOrDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if dt, err := time.Parse(layout, s); err == nil {
			return dt, nil
		}
	}
	return time.Time{}, ErrInvalidDateFormat
}
