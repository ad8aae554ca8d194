package idmap

import (
	"slices"
	"testing"
)

// TestPlatformIdentifierIOS verifies unified→HealthKit mapping for every
// entry in the table.
func TestPlatformIdentifierIOS(t *testing.T) {
	cases := []struct {
		unified string
		want    string
	}{
		{"stepCount", "HKQuantityTypeIdentifierStepCount"},
		{"heartRate", "HKQuantityTypeIdentifierHeartRate"},
		{"heartRateVariability", "HKQuantityTypeIdentifierHeartRateVariabilitySDNN"},
		{"distanceWalkingRunning", "HKQuantityTypeIdentifierDistanceWalkingRunning"},
		{"flightsClimbed", "HKQuantityTypeIdentifierFlightsClimbed"},
		{"vo2Max", "HKQuantityTypeIdentifierVO2Max"},
		{"sleepAnalysis", "HKCategoryTypeIdentifierSleepAnalysis"},
		{"workout", "HKWorkoutTypeIdentifier"},
	}
	for _, tc := range cases {
		if got := PlatformIdentifier(tc.unified, PlatformIOS); got != tc.want {
			t.Errorf("PlatformIdentifier(%q, ios) = %q, want %q", tc.unified, got, tc.want)
		}
	}
}

// TestPlatformIdentifierAndroid verifies unified→Health Connect mapping.
func TestPlatformIdentifierAndroid(t *testing.T) {
	cases := []struct {
		unified string
		want    string
	}{
		{"stepCount", "Steps"},
		{"heartRate", "HeartRate"},
		{"activeEnergyBurned", "ActiveCaloriesBurned"},
		{"flightsClimbed", "FloorsClimbed"},
		{"bodyMass", "Weight"},
		{"sleepAnalysis", "SleepSession"},
		{"workout", "ExerciseSession"},
	}
	for _, tc := range cases {
		if got := PlatformIdentifier(tc.unified, PlatformAndroid); got != tc.want {
			t.Errorf("PlatformIdentifier(%q, android) = %q, want %q", tc.unified, got, tc.want)
		}
	}
}

// TestPlatformIdentifierPassthrough verifies that platform-native
// identifiers bypass mapping: HK-prefixed strings on iOS, known record
// names on Android.
func TestPlatformIdentifierPassthrough(t *testing.T) {
	if got := PlatformIdentifier("HKQuantityTypeIdentifierStepCount", PlatformIOS); got != "HKQuantityTypeIdentifierStepCount" {
		t.Errorf("iOS passthrough = %q", got)
	}
	if got := PlatformIdentifier("Steps", PlatformAndroid); got != "Steps" {
		t.Errorf("android passthrough = %q", got)
	}
}

// TestPlatformIdentifierUnknown verifies that unknown identifiers are
// returned unchanged; rejection happens later in the query executor.
func TestPlatformIdentifierUnknown(t *testing.T) {
	if got := PlatformIdentifier("bogus-id", PlatformIOS); got != "bogus-id" {
		t.Errorf("unknown id = %q, want unchanged", got)
	}
	if got := PlatformIdentifier("bogus-id", PlatformAndroid); got != "bogus-id" {
		t.Errorf("unknown id = %q, want unchanged", got)
	}
}

// TestReverseLookups verifies the native→unified direction used by the
// normalizers to pick units.
func TestReverseLookups(t *testing.T) {
	if u, ok := UnifiedFromHealthKit("HKQuantityTypeIdentifierStepCount"); !ok || u != "stepCount" {
		t.Errorf("UnifiedFromHealthKit = %q, %v", u, ok)
	}
	if u, ok := UnifiedFromHealthConnect("Steps"); !ok || u != "stepCount" {
		t.Errorf("UnifiedFromHealthConnect = %q, %v", u, ok)
	}
	// Non-injective Android mapping resolves to the first table entry.
	if u, _ := UnifiedFromHealthConnect("Distance"); u != "distanceWalkingRunning" {
		t.Errorf("UnifiedFromHealthConnect(Distance) = %q", u)
	}
	if _, ok := UnifiedFromHealthKit("HKQuantityTypeIdentifierNope"); ok {
		t.Error("expected unknown HK identifier to miss")
	}
}

// TestSupportedIdentifiersStable verifies that repeated calls return
// identical ordered lists.
func TestSupportedIdentifiersStable(t *testing.T) {
	for _, p := range []Platform{PlatformIOS, PlatformAndroid} {
		a := SupportedIdentifiers(p)
		b := SupportedIdentifiers(p)
		if len(a) == 0 {
			t.Fatalf("SupportedIdentifiers(%s) is empty", p)
		}
		if !slices.Equal(a, b) {
			t.Errorf("SupportedIdentifiers(%s) not stable: %v vs %v", p, a, b)
		}
	}
	if got := SupportedIdentifiers(Platform("web")); got != nil {
		t.Errorf("unsupported platform list = %v, want nil", got)
	}
}

// TestIsValidIdentifier verifies unified-table membership checks.
func TestIsValidIdentifier(t *testing.T) {
	if !IsValidIdentifier("stepCount") {
		t.Error("stepCount should be valid")
	}
	if IsValidIdentifier("HKQuantityTypeIdentifierStepCount") {
		t.Error("native identifiers are not unified identifiers")
	}
	if IsValidIdentifier("bogus-id") {
		t.Error("bogus-id should be invalid")
	}
}
