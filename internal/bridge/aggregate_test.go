package bridge

import (
	"testing"

	"github.com/claude/healthbridge/internal/models"
)

func quantitySample(start, end string, unit string, value float64) models.Sample {
	return models.Sample{
		Type:         "HKQuantityTypeIdentifierStepCount",
		SourceName:   "Test",
		CreationDate: start,
		StartDate:    start,
		EndDate:      end,
		Unit:         unit,
		Value:        value,
	}
}

// TestAggregateSumsCumulativeUnits verifies that count-like units sum
// within a bucket while rate units average.
func TestAggregateSumsCumulativeUnits(t *testing.T) {
	steps := []models.Sample{
		quantitySample("2024-01-01T08:00:00.000Z", "2024-01-01T08:01:00.000Z", "count", 100),
		quantitySample("2024-01-01T08:30:00.000Z", "2024-01-01T08:31:00.000Z", "count", 200),
		quantitySample("2024-01-01T09:15:00.000Z", "2024-01-01T09:16:00.000Z", "count", 50),
	}

	got := aggregateSamples(steps, "hourly")
	if len(got) != 2 {
		t.Fatalf("got %d buckets, want 2", len(got))
	}
	if got[0].Value != 300.0 {
		t.Fatalf("first bucket = %v, want 300", got[0].Value)
	}
	if got[0].StartDate != "2024-01-01T08:00:00.000Z" || got[0].EndDate != "2024-01-01T09:00:00.000Z" {
		t.Fatalf("first bucket range = %s..%s", got[0].StartDate, got[0].EndDate)
	}
	if got[1].Value != 50.0 {
		t.Fatalf("second bucket = %v, want 50", got[1].Value)
	}

	rates := []models.Sample{
		quantitySample("2024-01-01T08:00:00.000Z", "2024-01-01T08:00:05.000Z", "count/min", 60),
		quantitySample("2024-01-01T08:30:00.000Z", "2024-01-01T08:30:05.000Z", "count/min", 80),
	}
	got = aggregateSamples(rates, "hourly")
	if len(got) != 1 {
		t.Fatalf("got %d buckets, want 1", len(got))
	}
	if got[0].Value != 70.0 {
		t.Fatalf("rate bucket = %v, want 70 (mean)", got[0].Value)
	}
}

func TestAggregateBucketBoundaries(t *testing.T) {
	cases := []struct {
		name        string
		aggregation string
		start       string
		wantStart   string
		wantEnd     string
	}{
		{"daily", "daily", "2024-01-01T13:45:00.000Z", "2024-01-01T00:00:00.000Z", "2024-01-02T00:00:00.000Z"},
		{"weekly snaps to monday", "weekly", "2024-03-15T10:00:00.000Z", "2024-03-11T00:00:00.000Z", "2024-03-18T00:00:00.000Z"},
		{"monthly", "monthly", "2024-02-20T10:00:00.000Z", "2024-02-01T00:00:00.000Z", "2024-03-01T00:00:00.000Z"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := aggregateSamples([]models.Sample{
				quantitySample(tc.start, tc.start, "count", 1),
			}, tc.aggregation)
			if len(got) != 1 {
				t.Fatalf("got %d buckets, want 1", len(got))
			}
			if got[0].StartDate != tc.wantStart || got[0].EndDate != tc.wantEnd {
				t.Fatalf("bucket = %s..%s, want %s..%s", got[0].StartDate, got[0].EndDate, tc.wantStart, tc.wantEnd)
			}
		})
	}
}

// TestAggregatePassesThroughCategorySamples verifies non-numeric samples
// survive aggregation untouched.
func TestAggregatePassesThroughCategorySamples(t *testing.T) {
	sleep := models.Sample{
		Type:      "HKCategoryTypeIdentifierSleepAnalysis",
		StartDate: "2024-01-01T22:00:00.000Z",
		EndDate:   "2024-01-02T06:00:00.000Z",
		Value:     "HKCategoryValueSleepAnalysisAsleepDeep",
	}
	got := aggregateSamples([]models.Sample{sleep}, "daily")
	if len(got) != 1 {
		t.Fatalf("got %d samples, want 1", len(got))
	}
	if got[0].Value != sleep.Value || got[0].StartDate != sleep.StartDate {
		t.Fatalf("sample was modified: %+v", got[0])
	}
}
