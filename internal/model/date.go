package model

import "time"

// DateLayout is the calendar date format used in per-date storage keys.
const DateLayout = "2006-01-02"

// DateOf formats t as a calendar date in t's own location.
func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}

func IsDate(value string) bool {
	_, err := time.Parse(DateLayout, value)
	return err == nil
}
