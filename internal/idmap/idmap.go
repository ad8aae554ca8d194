// Package idmap holds the static cross-platform identifier table: every
// unified identifier maps to exactly one HealthKit identifier and one
// Health Connect record name.
package idmap

import "strings"

// Platform names a supported native health API.
type Platform string

const (
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
)

// Supported reports whether p is one of the two supported platforms.
func (p Platform) Supported() bool {
	return p == PlatformIOS || p == PlatformAndroid
}

type mapping struct {
	Unified       string
	HealthKit     string
	HealthConnect string
}

// mappings is the single source of truth. Order is the stable order
// returned by SupportedIdentifiers and UnifiedIdentifiers.
var mappings = []mapping{
	{"stepCount", "HKQuantityTypeIdentifierStepCount", "Steps"},
	{"heartRate", "HKQuantityTypeIdentifierHeartRate", "HeartRate"},
	{"restingHeartRate", "HKQuantityTypeIdentifierRestingHeartRate", "RestingHeartRate"},
	{"walkingHeartRateAverage", "HKQuantityTypeIdentifierWalkingHeartRateAverage", "HeartRate"},
	{"heartRateVariability", "HKQuantityTypeIdentifierHeartRateVariabilitySDNN", "HeartRateVariabilityRmssd"},
	{"respiratoryRate", "HKQuantityTypeIdentifierRespiratoryRate", "RespiratoryRate"},
	{"distanceWalkingRunning", "HKQuantityTypeIdentifierDistanceWalkingRunning", "Distance"},
	{"distanceCycling", "HKQuantityTypeIdentifierDistanceCycling", "Distance"},
	{"flightsClimbed", "HKQuantityTypeIdentifierFlightsClimbed", "FloorsClimbed"},
	{"activeEnergyBurned", "HKQuantityTypeIdentifierActiveEnergyBurned", "ActiveCaloriesBurned"},
	{"basalEnergyBurned", "HKQuantityTypeIdentifierBasalEnergyBurned", "BasalMetabolicRate"},
	{"vo2Max", "HKQuantityTypeIdentifierVO2Max", "Vo2Max"},
	{"bodyMass", "HKQuantityTypeIdentifierBodyMass", "Weight"},
	{"height", "HKQuantityTypeIdentifierHeight", "Height"},
	{"bodyFatPercentage", "HKQuantityTypeIdentifierBodyFatPercentage", "BodyFat"},
	{"oxygenSaturation", "HKQuantityTypeIdentifierOxygenSaturation", "OxygenSaturation"},
	{"bloodGlucose", "HKQuantityTypeIdentifierBloodGlucose", "BloodGlucose"},
	{"bodyTemperature", "HKQuantityTypeIdentifierBodyTemperature", "BodyTemperature"},
	{"bloodPressureSystolic", "HKQuantityTypeIdentifierBloodPressureSystolic", "BloodPressure"},
	{"bloodPressureDiastolic", "HKQuantityTypeIdentifierBloodPressureDiastolic", "BloodPressure"},
	{"sleepAnalysis", "HKCategoryTypeIdentifierSleepAnalysis", "SleepSession"},
	{"mindfulSession", "HKCategoryTypeIdentifierMindfulSession", "MindfulnessSession"},
	{"workout", "HKWorkoutTypeIdentifier", "ExerciseSession"},
}

var (
	toHealthKit     = map[string]string{}
	toHealthConnect = map[string]string{}
	fromHealthKit   = map[string]string{}
	fromConnect     = map[string]string{}
	connectNatives  = map[string]bool{}
)

func init() {
	for _, m := range mappings {
		toHealthKit[m.Unified] = m.HealthKit
		toHealthConnect[m.Unified] = m.HealthConnect
		connectNatives[m.HealthConnect] = true
		// First mapping wins for non-injective reverse lookups
		// (both distances resolve to Distance on Android).
		if _, ok := fromHealthKit[m.HealthKit]; !ok {
			fromHealthKit[m.HealthKit] = m.Unified
		}
		if _, ok := fromConnect[m.HealthConnect]; !ok {
			fromConnect[m.HealthConnect] = m.Unified
		}
	}
}

// PlatformIdentifier translates a unified identifier to the given
// platform's native identifier. Identifiers already native to that
// platform pass through unchanged, as do unknown strings — the query
// executor rejects those with unsupported_identifier, not the mapper.
func PlatformIdentifier(id string, platform Platform) string {
	if IsNative(id, platform) {
		return id
	}
	switch platform {
	case PlatformIOS:
		if native, ok := toHealthKit[id]; ok {
			return native
		}
	case PlatformAndroid:
		if native, ok := toHealthConnect[id]; ok {
			return native
		}
	}
	return id
}

// IsNative reports whether id is already a platform-native identifier:
// an HK-prefixed string on iOS, a known record name on Android.
func IsNative(id string, platform Platform) bool {
	switch platform {
	case PlatformIOS:
		return strings.HasPrefix(id, "HK")
	case PlatformAndroid:
		return connectNatives[id]
	}
	return false
}

// UnifiedFromHealthKit maps a HealthKit identifier back to its unified name.
func UnifiedFromHealthKit(native string) (string, bool) {
	u, ok := fromHealthKit[native]
	return u, ok
}

// UnifiedFromHealthConnect maps a Health Connect record name back to its
// unified name.
func UnifiedFromHealthConnect(native string) (string, bool) {
	u, ok := fromConnect[native]
	return u, ok
}

// IsValidIdentifier reports whether id is a known unified identifier.
func IsValidIdentifier(id string) bool {
	_, ok := toHealthKit[id]
	return ok
}

// UnifiedIdentifiers returns all unified identifiers in table order.
func UnifiedIdentifiers() []string {
	out := make([]string, len(mappings))
	for i, m := range mappings {
		out[i] = m.Unified
	}
	return out
}

// SupportedIdentifiers returns the platform-native identifiers for the
// given platform, in table order, duplicates removed. Unsupported
// platforms get an empty list.
func SupportedIdentifiers(platform Platform) []string {
	var out []string
	seen := map[string]bool{}
	for _, m := range mappings {
		var native string
		switch platform {
		case PlatformIOS:
			native = m.HealthKit
		case PlatformAndroid:
			native = m.HealthConnect
		default:
			return nil
		}
		if !seen[native] {
			seen[native] = true
			out = append(out, native)
		}
	}
	return out
}
