package analytics

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Rrens/support-chat/internal/domain"
)

// ParseFilter builds a StatsFilter from query string values. Dates accept
// RFC3339 or YYYY-MM-DD in loc; a date-only dateTo covers the whole day.
func ParseFilter(dateFrom, dateTo, withMicro string, loc *time.Location) (domain.StatsFilter, error) {
	if loc == nil {
		loc = time.UTC
	}

	var f domain.StatsFilter
	if v := strings.TrimSpace(dateFrom); v != "" {
		t, _, err := parseDate(v, loc)
		if err != nil {
			return f, fmt.Errorf("%w: dateFrom: %v", domain.ErrInvalidInput, err)
		}
		f.DateFrom = &t
	}

	if v := strings.TrimSpace(dateTo); v != "" {
		t, dateOnly, err := parseDate(v, loc)
		if err != nil {
			return f, fmt.Errorf("%w: dateTo: %v", domain.ErrInvalidInput, err)
		}
		if dateOnly {
			t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		f.DateTo = &t
	}

	if f.DateFrom != nil && f.DateTo != nil && f.DateTo.Before(*f.DateFrom) {
		return f, fmt.Errorf("%w: dateTo is before dateFrom", domain.ErrInvalidInput)
	}

	if v := strings.TrimSpace(withMicro); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, fmt.Errorf("%w: withMicroInteractions must be true or false", domain.ErrInvalidInput)
		}
		f.WithMicroInteractions = &b
	}

	return f, nil
}

func parseDate(v string, loc *time.Location) (time.Time, bool, error) {
	if t, err := time.ParseInLocation(dayLayout, v, loc); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("expected RFC3339 or YYYY-MM-DD, got %q", v)
	}
	return t, false, nil
}
