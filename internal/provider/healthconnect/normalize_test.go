package healthconnect

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/claude/healthbridge/internal/models"
	"github.com/claude/healthbridge/internal/provider"
)

var testStart = time.Date(2024, 2, 6, 8, 0, 0, 0, time.UTC)
var testEnd = time.Date(2024, 2, 6, 9, 0, 0, 0, time.UTC)

// TestNormalizeQuantitySteps verifies that a Steps record normalizes to
// unit "count" with the stored magnitude.
func TestNormalizeQuantitySteps(t *testing.T) {
	v := 500.0
	row := models.HCSampleRow{
		RecordType:   "Steps",
		Value:        &v,
		SourceName:   "Pixel",
		CreationTime: testEnd,
		StartTime:    testStart,
		EndTime:      testEnd,
	}
	got := normalizeQuantity(row, "count")
	if got.Type != "Steps" {
		t.Errorf("type = %q", got.Type)
	}
	if got.Unit != "count" || got.Value != 500.0 {
		t.Errorf("unit=%q value=%v, want count/500", got.Unit, got.Value)
	}
	if got.StartDate != "2024-02-06T08:00:00.000Z" {
		t.Errorf("startDate = %q", got.StartDate)
	}
}

// TestSleepStageNames verifies the stage constant table and the
// placeholder for unknown constants.
func TestSleepStageNames(t *testing.T) {
	cases := []struct {
		code int
		want string
	}{
		{1, "STAGE_TYPE_AWAKE"},
		{4, "STAGE_TYPE_LIGHT"},
		{5, "STAGE_TYPE_DEEP"},
		{6, "STAGE_TYPE_REM"},
		{42, "STAGE_TYPE_UNKNOWN(42)"},
	}
	for _, tc := range cases {
		if got := SleepStageName(tc.code); got != tc.want {
			t.Errorf("SleepStageName(%d) = %q, want %q", tc.code, got, tc.want)
		}
	}
}

// TestNormalizeCategorySleepSession verifies that sleep sessions carry
// named stages while other coded records keep the raw code.
func TestNormalizeCategorySleepSession(t *testing.T) {
	code := 6
	row := models.HCSampleRow{
		RecordType:   "SleepSession",
		Code:         &code,
		CreationTime: testEnd,
		StartTime:    testStart,
		EndTime:      testEnd,
	}
	got := normalizeCategory(row)
	if got.Value != "STAGE_TYPE_REM" {
		t.Errorf("sleep value = %v", got.Value)
	}

	row.RecordType = "MindfulnessSession"
	got = normalizeCategory(row)
	if got.Value != 6 {
		t.Errorf("mindfulness value = %v, want raw 6", got.Value)
	}
}

// TestExerciseTypeNames verifies the exercise enumeration and its
// fallback.
func TestExerciseTypeNames(t *testing.T) {
	cases := []struct {
		code int
		want string
	}{
		{8, "Biking"},
		{56, "Running"},
		{79, "Walking"},
		{83, "Yoga"},
		{0, "Other Workout"},
		{999, "Other Workout"},
	}
	for _, tc := range cases {
		if got := ExerciseTypeName(tc.code); got != tc.want {
			t.Errorf("ExerciseTypeName(%d) = %q, want %q", tc.code, got, tc.want)
		}
	}
	if got := ExerciseTypeCode("Running"); got != 56 {
		t.Errorf("ExerciseTypeCode(Running) = %d, want 56", got)
	}
}

// TestNormalizeExercise verifies the workout-specific fields on an
// exercise session sample.
func TestNormalizeExercise(t *testing.T) {
	energy := 420.0
	row := models.HCExerciseRow{
		ExerciseType:    56,
		DurationSec:     2400,
		TotalEnergyKcal: &energy,
		SourceName:      "Pixel Watch",
		CreationTime:    testEnd,
		StartTime:       testStart,
		EndTime:         testEnd,
	}
	got := normalizeExercise(row)
	if got.Type != "ExerciseSession" {
		t.Errorf("type = %q", got.Type)
	}
	if got.WorkoutActivityType != "Running" {
		t.Errorf("activity = %q", got.WorkoutActivityType)
	}
	if got.Duration == nil || *got.Duration != 2400 {
		t.Errorf("duration = %v", got.Duration)
	}
	if got.TotalEnergyBurned == nil || *got.TotalEnergyBurned != 420 {
		t.Errorf("totalEnergyBurned = %v", got.TotalEnergyBurned)
	}
	if got.TotalDistance != nil {
		t.Errorf("totalDistance = %v, want absent", got.TotalDistance)
	}
}

// TestProviderUnavailable verifies that a provider without a reachable
// store resolves every call with health_connect_unavailable, never an
// error or panic.
func TestProviderUnavailable(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := NewProvider(nil, log)
	ctx := context.Background()

	auth := p.Authorize(ctx)
	if auth.Success {
		t.Fatal("expected authorize failure")
	}
	if auth.Error == nil || auth.Error.Code != models.ErrHealthConnectUnavailable {
		t.Errorf("authorize error = %v", auth.Error)
	}

	res := p.Query(ctx, provider.QueryRequest{
		Identifier: "Steps",
		Start:      testStart,
		End:        testEnd,
		Ascending:  true,
	})
	if res.Success {
		t.Fatal("expected query failure")
	}
	if res.Error == nil || res.Error.Code != models.ErrHealthConnectUnavailable {
		t.Errorf("query error = %v", res.Error)
	}
	if res.Data == nil || len(res.Data) != 0 {
		t.Errorf("data = %v, want empty slice", res.Data)
	}
}

// TestQueryFailureCode verifies that an insufficient-privilege error from
// the mirror maps to permission_denied while everything else stays a
// plain query_error.
func TestQueryFailureCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"insufficient privilege", &pgconn.PgError{Code: "42501", Message: "permission denied for table hc_samples"}, models.ErrPermissionDenied},
		{"other pg error", &pgconn.PgError{Code: "42P01", Message: "relation does not exist"}, models.ErrQuery},
		{"plain error", errors.New("connection reset"), models.ErrQuery},
		{"wrapped privilege error", fmt.Errorf("query samples: %w", &pgconn.PgError{Code: "42501"}), models.ErrPermissionDenied},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := queryFailureCode(tc.err); got != tc.want {
				t.Errorf("queryFailureCode(%v) = %q, want %q", tc.err, got, tc.want)
			}
		})
	}
}

// TestQueryPanicResolvesException verifies that a panic below the store
// boundary comes back as a coded exception result with an empty data
// slice, never as a crash.
func TestQueryPanicResolvesException(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	// A Store with no pool panics on first use.
	p := NewProvider(&Store{}, log)

	res := p.Query(context.Background(), provider.QueryRequest{
		Identifier: "Steps",
		Start:      testStart,
		End:        testEnd,
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
