package healthkit

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/claude/healthbridge/internal/models"
	"github.com/claude/healthbridge/internal/provider"
)

func testProvider(t *testing.T) (*Provider, *Store) {
	t.Helper()
	store, err := OpenStore(":memory:")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewProvider(store, log), store
}

func seedSteps(t *testing.T, store *Store, values []float64, base time.Time) {
	t.Helper()
	var rows []models.HKQuantityRow
	for i, v := range values {
		rows = append(rows, models.HKQuantityRow{
			TypeID:       "HKQuantityTypeIdentifierStepCount",
			Value:        v,
			SourceName:   "iPhone",
			CreationTime: base.Add(time.Duration(i) * time.Hour),
			StartTime:    base.Add(time.Duration(i) * time.Hour),
			EndTime:      base.Add(time.Duration(i)*time.Hour + time.Minute),
		})
	}
	if _, err := store.InsertQuantitySamples(context.Background(), rows); err != nil {
		t.Fatalf("seeding steps: %v", err)
	}
}

// TestQueryQuantityAscending verifies the full read path: seeded step
// samples come back normalized, ascending by start time.
func TestQueryQuantityAscending(t *testing.T) {
	p, store := testProvider(t)
	base := time.Date(2024, 2, 6, 8, 0, 0, 0, time.UTC)
	seedSteps(t, store, []float64{500, 750, 920}, base)

	res := p.Query(context.Background(), provider.QueryRequest{
		Identifier: "HKQuantityTypeIdentifierStepCount",
		Start:      base.Add(-time.Hour),
		End:        base.Add(12 * time.Hour),
		Ascending:  true,
	})
	if !res.Success {
		t.Fatalf("query failed: %v", res.Error)
	}
	if len(res.Data) != 3 {
		t.Fatalf("got %d samples, want 3", len(res.Data))
	}
	if res.Data[0].Value != 500.0 || res.Data[2].Value != 920.0 {
		t.Errorf("order wrong: first=%v last=%v", res.Data[0].Value, res.Data[2].Value)
	}
	if res.Data[0].Unit != "count" {
		t.Errorf("unit = %q, want count", res.Data[0].Unit)
	}
}

// TestQueryLimitAndDescending verifies the optional limit and ordering
// knobs reach the store.
func TestQueryLimitAndDescending(t *testing.T) {
	p, store := testProvider(t)
	base := time.Date(2024, 2, 6, 8, 0, 0, 0, time.UTC)
	seedSteps(t, store, []float64{1, 2, 3, 4}, base)

	res := p.Query(context.Background(), provider.QueryRequest{
		Identifier: "HKQuantityTypeIdentifierStepCount",
		Start:      base.Add(-time.Hour),
		End:        base.Add(12 * time.Hour),
		Limit:      2,
		Ascending:  false,
	})
	if !res.Success {
		t.Fatalf("query failed: %v", res.Error)
	}
	if len(res.Data) != 2 {
		t.Fatalf("got %d samples, want 2", len(res.Data))
	}
	if res.Data[0].Value != 4.0 {
		t.Errorf("descending first = %v, want 4", res.Data[0].Value)
	}
}

// TestQueryTimeRangeBounds verifies the [start, end) window: a sample at
// exactly end is excluded, one at start included.
func TestQueryTimeRangeBounds(t *testing.T) {
	p, store := testProvider(t)
	base := time.Date(2024, 2, 6, 8, 0, 0, 0, time.UTC)
	seedSteps(t, store, []float64{10, 20}, base) // at base and base+1h

	res := p.Query(context.Background(), provider.QueryRequest{
		Identifier: "HKQuantityTypeIdentifierStepCount",
		Start:      base,
		End:        base.Add(time.Hour),
		Ascending:  true,
	})
	if !res.Success || len(res.Data) != 1 {
		t.Fatalf("got %d samples, want 1 (half-open range)", len(res.Data))
	}
	if res.Data[0].Value != 10.0 {
		t.Errorf("value = %v, want 10", res.Data[0].Value)
	}
}

// TestQueryUnsupportedIdentifier verifies that unrecognized identifiers
// resolve with the unsupported_identifier code and an empty data slice.
func TestQueryUnsupportedIdentifier(t *testing.T) {
	p, _ := testProvider(t)
	res := p.Query(context.Background(), provider.QueryRequest{
		Identifier: "HKQuantityTypeIdentifierNope",
		Start:      time.Now().Add(-time.Hour),
		End:        time.Now(),
	})
	if res.Success {
		t.Fatal("expected failure")
	}
	if res.Error == nil || res.Error.Code != models.ErrUnsupportedIdentifier {
		t.Errorf("error = %v, want unsupported_identifier", res.Error)
	}
	if res.Data == nil || len(res.Data) != 0 {
		t.Errorf("data = %v, want empty slice", res.Data)
	}
}

// TestQuerySleepCategory verifies category reads return mapped sleep
// stage names.
func TestQuerySleepCategory(t *testing.T) {
	p, store := testProvider(t)
	base := time.Date(2024, 2, 6, 0, 0, 0, 0, time.UTC)
	_, err := store.InsertCategorySamples(context.Background(), []models.HKCategoryRow{
		{
			TypeID:       "HKCategoryTypeIdentifierSleepAnalysis",
			Value:        5,
			CreationTime: base,
			StartTime:    base,
			EndTime:      base.Add(90 * time.Minute),
		},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	res := p.Query(context.Background(), provider.QueryRequest{
		Identifier: "HKCategoryTypeIdentifierSleepAnalysis",
		Start:      base.Add(-time.Hour),
		End:        base.Add(8 * time.Hour),
		Ascending:  true,
	})
	if !res.Success || len(res.Data) != 1 {
		t.Fatalf("got %d samples, want 1 (err=%v)", len(res.Data), res.Error)
	}
	if res.Data[0].Value != "HKCategoryValueSleepAnalysisAsleepREM" {
		t.Errorf("value = %v", res.Data[0].Value)
	}
}

// TestQueryWorkouts verifies the workout read path end to end.
func TestQueryWorkouts(t *testing.T) {
	p, store := testProvider(t)
	base := time.Date(2024, 2, 6, 7, 0, 0, 0, time.UTC)
	energy := 350.0
	_, err := store.InsertWorkouts(context.Background(), []models.HKWorkoutRow{
		{
			ActivityType:    37,
			DurationSec:     1800,
			TotalEnergyKcal: &energy,
			SourceName:      "Apple Watch",
			CreationTime:    base,
			StartTime:       base,
			EndTime:         base.Add(30 * time.Minute),
		},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	res := p.Query(context.Background(), provider.QueryRequest{
		Identifier: "HKWorkoutTypeIdentifier",
		Start:      base.Add(-time.Hour),
		End:        base.Add(2 * time.Hour),
		Ascending:  true,
	})
	if !res.Success || len(res.Data) != 1 {
		t.Fatalf("got %d samples, want 1 (err=%v)", len(res.Data), res.Error)
	}
	if res.Data[0].WorkoutActivityType != "Running" {
		t.Errorf("activity = %q", res.Data[0].WorkoutActivityType)
	}
}

// TestQueryEmptyRange verifies that an empty result set is a success
// with an empty (non-nil) data slice.
func TestQueryEmptyRange(t *testing.T) {
	p, _ := testProvider(t)
	res := p.Query(context.Background(), provider.QueryRequest{
		Identifier: "HKQuantityTypeIdentifierHeartRate",
		Start:      time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		End:        time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC),
		Ascending:  true,
	})
	if !res.Success {
		t.Fatalf("query failed: %v", res.Error)
	}
	if res.Data == nil || len(res.Data) != 0 {
		t.Errorf("data = %#v, want empty slice", res.Data)
	}
}

// TestAuthorizeAllOrNothing verifies that authorization reports the full
// identifier set granted, and the full set denied when the store is gone.
func TestAuthorizeAllOrNothing(t *testing.T) {
	p, _ := testProvider(t)
	res := p.Authorize(context.Background())
	if !res.Success {
		t.Fatalf("authorize failed: %v", res.Error)
	}
	if len(res.Granted) == 0 || len(res.Denied) != 0 {
		t.Errorf("granted=%d denied=%d, want all granted", len(res.Granted), len(res.Denied))
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	noStore := NewProvider(nil, log)
	res = noStore.Authorize(context.Background())
	if res.Success {
		t.Fatal("expected failure without a store")
	}
	if len(res.Denied) == 0 || len(res.Granted) != 0 {
		t.Errorf("granted=%d denied=%d, want all denied", len(res.Granted), len(res.Denied))
	}
}

// TestQueryPanicResolvesException verifies that a panic below the store
// boundary comes back as a coded exception result with an empty data
// slice, never as a crash.
func TestQueryPanicResolvesException(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	// A Store with no database panics on first use.
	p := NewProvider(&Store{}, log)

	res := p.Query(context.Background(), provider.QueryRequest{
		Identifier: "HKQuantityTypeIdentifierStepCount",
		Start:      time.Date(2024, 2, 6, 0, 0, 0, 0, time.UTC),
		End:        time.Date(2024, 2, 7, 0, 0, 0, 0, time.UTC),
		Ascending:  true,
	})
	if res.Success {
		t.Fatal("expected failure")
	}
	if res.Error == nil || res.Error.Code != models.ErrException {
		t.Errorf("error = %v, want code %s", res.Error, models.ErrException)
	}
	if res.Data == nil || len(res.Data) != 0 {
		t.Errorf("data = %v, want empty slice", res.Data)
	}
}
