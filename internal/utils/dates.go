package utils

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidDate = errors.New("invalid date format")

// isoLayouts are tried in order; layouts without a zone are read as UTC
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseISODate parses an ISO-8601 date or timestamp and returns it in UTC
func ParseISODate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrInvalidDate
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrInvalidDate
}
