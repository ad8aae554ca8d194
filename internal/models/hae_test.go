package models

import (
	"encoding/json"
	"testing"
	"time"
)

// TestParseHAETimeFullDatetime verifies parsing the standard HAE datetime
// format used by all metric data points.
func TestParseHAETimeFullDatetime(t *testing.T) {
	got, err := ParseHAETime("2024-02-06 14:30:00 -0800")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, 2, 6, 14, 30, 0, 0, time.FixedZone("", -8*3600))
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

// TestParseHAETimeInvalid verifies that an invalid date string returns an
// error rather than a zero time.
func TestParseHAETimeInvalid(t *testing.T) {
	_, err := ParseHAETime("not-a-date")
	if err == nil {
		t.Fatal("expected error for invalid date")
	}
}

// TestHAEPayloadUnmarshal verifies parsing a complete export payload with
// the nested data.metrics structure.
func TestHAEPayloadUnmarshal(t *testing.T) {
	raw := `{
		"data": {
			"metrics": [
				{
					"name": "step_count",
					"units": "count",
					"data": [
						{"date": "2024-02-06 14:30:00 -0800", "qty": 500}
					]
				}
			],
			"workouts": []
		}
	}`
	var p HAEPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if len(p.Data.Metrics) != 1 {
		t.Fatalf("metrics count = %d, want 1", len(p.Data.Metrics))
	}
	if p.Data.Metrics[0].Name != "step_count" {
		t.Errorf("name = %q, want %q", p.Data.Metrics[0].Name, "step_count")
	}

	var dp HAEMetricDataPoint
	if err := json.Unmarshal(p.Data.Metrics[0].Data[0], &dp); err != nil {
		t.Fatalf("unmarshal data point: %v", err)
	}
	if dp.Qty != 500 {
		t.Errorf("qty = %f, want 500", dp.Qty)
	}
}

// TestHAEWorkoutUnmarshal verifies parsing a workout with nested quantity
// objects — units are inline objects, unlike metrics.
func TestHAEWorkoutUnmarshal(t *testing.T) {
	raw := `{
		"id": "550e8400-e29b-41d4-a716-446655440000",
		"name": "Running",
		"start": "2024-02-06 07:00:00 -0800",
		"end": "2024-02-06 07:30:00 -0800",
		"duration": 1800,
		"activeEnergyBurned": {"qty": 350, "units": "kcal"},
		"distance": {"qty": 3.5, "units": "km"}
	}`
	var w HAEWorkout
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if w.ID != "550e8400-e29b-41d4-a716-446655440000" {
		t.Errorf("id = %q", w.ID)
	}
	if w.Duration != 1800 {
		t.Errorf("duration = %f, want 1800", w.Duration)
	}
	if w.ActiveEnergyBurned == nil || w.ActiveEnergyBurned.Qty != 350 {
		t.Errorf("activeEnergyBurned = %v", w.ActiveEnergyBurned)
	}
	if w.Distance == nil || w.Distance.Qty != 3.5 {
		t.Errorf("distance = %v", w.Distance)
	}
}
