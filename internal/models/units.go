package models

// unitTable maps unified identifiers to the fixed unit every quantity
// sample of that type is expressed in. Values coming out of the mirror
// stores are already stored in these units; normalization never converts.
var unitTable = map[string]string{
	"stepCount":                "count",
	"flightsClimbed":           "count",
	"heartRate":                "count/min",
	"restingHeartRate":         "count/min",
	"walkingHeartRateAverage":  "count/min",
	"respiratoryRate":          "count/min",
	"distanceWalkingRunning":   "km",
	"distanceCycling":          "km",
	"activeEnergyBurned":       "kcal",
	"basalEnergyBurned":        "kcal",
	"heartRateVariability":     "ms",
	"vo2Max":                   "mL/kg·min",
	"bodyMass":                 "kg",
	"height":                   "cm",
	"bodyFatPercentage":        "%",
	"oxygenSaturation":         "%",
	"bloodGlucose":             "mg/dL",
	"bodyTemperature":          "degC",
	"bloodPressureSystolic":    "mmHg",
	"bloodPressureDiastolic":   "mmHg",
}

// UnitFor returns the canonical unit for a unified quantity identifier.
// The second return is false for identifiers with no quantity unit
// (category and workout types).
func UnitFor(unified string) (string, bool) {
	u, ok := unitTable[unified]
	return u, ok
}
