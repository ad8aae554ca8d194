package bridge

import (
	"time"

	"github.com/claude/healthbridge/internal/models"
)

// Units whose samples add up over time. Everything else (rates, levels,
// percentages) averages within a bucket instead.
var cumulativeUnits = map[string]bool{
	"count": true,
	"kcal":  true,
	"km":    true,
}

// aggregateSamples buckets quantity samples by the requested period and
// collapses each bucket to a single sample. Samples without a numeric
// value or a unit (category and workout rows) pass through untouched, so
// aggregation is a no-op for non-quantity identifiers.
func aggregateSamples(samples []models.Sample, aggregation string) []models.Sample {
	type bucket struct {
		start time.Time
		first models.Sample
		sum   float64
		n     int
	}

	var order []time.Time
	buckets := map[time.Time]*bucket{}
	out := []models.Sample{}

	for _, s := range samples {
		v, ok := s.Value.(float64)
		if !ok || s.Unit == "" {
			out = append(out, s)
			continue
		}
		start, err := models.ParseISO(s.StartDate)
		if err != nil {
			out = append(out, s)
			continue
		}
		key := bucketStart(start.UTC(), aggregation)
		b, seen := buckets[key]
		if !seen {
			b = &bucket{start: key, first: s}
			buckets[key] = b
			order = append(order, key)
		}
		b.sum += v
		b.n++
	}

	for _, key := range order {
		b := buckets[key]
		value := b.sum
		if !cumulativeUnits[b.first.Unit] {
			value = b.sum / float64(b.n)
		}
		agg := b.first
		agg.StartDate = models.FormatISO(b.start)
		agg.EndDate = models.FormatISO(bucketEnd(b.start, aggregation))
		agg.CreationDate = agg.StartDate
		agg.Value = value
		agg.Metadata = nil
		out = append(out, agg)
	}
	return out
}

func bucketStart(t time.Time, aggregation string) time.Time {
	switch aggregation {
	case "hourly":
		return t.Truncate(time.Hour)
	case "daily":
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	case "weekly":
		// ISO weeks start on Monday.
		midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		offset := (int(midnight.Weekday()) + 6) % 7
		return midnight.AddDate(0, 0, -offset)
	case "monthly":
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return t
	}
}

func bucketEnd(start time.Time, aggregation string) time.Time {
	switch aggregation {
	case "hourly":
		return start.Add(time.Hour)
	case "daily":
		return start.AddDate(0, 0, 1)
	case "weekly":
		return start.AddDate(0, 0, 7)
	case "monthly":
		return start.AddDate(0, 1, 0)
	default:
		return start
	}
}
