package dateutils

import (
	"fmt"
	"strings"
	"time"
)

// Common date layouts used throughout the application
const (
	LayoutDate     = "2006-01-02"
	LayoutDateTime = "2006-01-02 15:04:05"
	LayoutDotted   = "2006.01.02"

	// 月、日可不补零，如 2023-3-15
	LayoutDateLoose     = "2006-1-2"
	LayoutDateTimeLoose = "2006-1-2 15:04:05"

	MinValidYear = 1901
	MaxValidYear = 2099
)

// ParseTargetDate parses the target date of a generation run.
// Supports: "2006-01-02", "2006-01-02 15:04:05" and the unpadded
// "2006-1-2" forms. Empty input means now.
func ParseTargetDate(dateStr string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}

	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return time.Now().In(loc), nil
	}

	for _, layout := range []string{LayoutDate, LayoutDateTime, LayoutDateLoose, LayoutDateTimeLoose} {
		if date, err := time.ParseInLocation(layout, dateStr, loc); err == nil {
			if err := validateDateRange(date); err != nil {
				return time.Time{}, err
			}
			return date, nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid date format: %s, expected YYYY-MM-DD", dateStr)
}

// FormatDate formats a date as YYYY-MM-DD
func FormatDate(date time.Time) string {
	return date.Format(LayoutDate)
}

// FormatDotted formats a date as Y.m.d, e.g. 2023.03.15
func FormatDotted(date time.Time) string {
	return date.Format(LayoutDotted)
}

// validateDateRange 农历换算只覆盖有限的年份范围
func validateDateRange(date time.Time) error {
	if date.Year() < MinValidYear || date.Year() > MaxValidYear {
		return fmt.Errorf("year %d out of supported range %d-%d", date.Year(), MinValidYear, MaxValidYear)
	}
	return nil
}
