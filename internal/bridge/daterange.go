package bridge

import (
	"fmt"
	"time"

	"github.com/claude/healthbridge/internal/models"
)

// DateRange is a ready-to-query pair of wire-format timestamps.
type DateRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// CreateDateRange builds a range for a named period relative to now.
// Supported periods: today, yesterday, week, month, year.
func CreateDateRange(period string) (DateRange, error) {
	return createDateRangeAt(period, time.Now().UTC())
}

func createDateRangeAt(period string, now time.Time) (DateRange, error) {
	now = now.UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var start, end time.Time
	switch period {
	case "today":
		start, end = midnight, now
	case "yesterday":
		start, end = midnight.AddDate(0, 0, -1), midnight
	case "week":
		start, end = now.AddDate(0, 0, -7), now
	case "month":
		start, end = now.AddDate(0, -1, 0), now
	case "year":
		start, end = now.AddDate(-1, 0, 0), now
	default:
		return DateRange{}, fmt.Errorf("unknown period %q: want today, yesterday, week, month or year", period)
	}

	return DateRange{
		StartDate: models.FormatISO(start),
		EndDate:   models.FormatISO(end),
	}, nil
}
