package healthkit

import (
	"fmt"
	"time"

	"github.com/claude/healthbridge/internal/models"
)

// sleepAnalysisValues maps HKCategoryValueSleepAnalysis codes to their
// named stages. Codes outside the table get a placeholder embedding the
// raw value.
var sleepAnalysisValues = map[int]string{
	0: "HKCategoryValueSleepAnalysisInBed",
	1: "HKCategoryValueSleepAnalysisAsleep",
	2: "HKCategoryValueSleepAnalysisAwake",
	3: "HKCategoryValueSleepAnalysisAsleepCore",
	4: "HKCategoryValueSleepAnalysisAsleepDeep",
	5: "HKCategoryValueSleepAnalysisAsleepREM",
}

const sleepAnalysisTypeID = "HKCategoryTypeIdentifierSleepAnalysis"

// SleepAnalysisValue translates a raw sleep-analysis code to its stage name.
func SleepAnalysisValue(code int) string {
	if name, ok := sleepAnalysisValues[code]; ok {
		return name
	}
	return fmt.Sprintf("HKCategoryValueSleepAnalysisUnknown(%d)", code)
}

// activityNames maps HKWorkoutActivityType codes to readable names.
var activityNames = map[int]string{
	1:    "American Football",
	2:    "Archery",
	3:    "Australian Football",
	4:    "Badminton",
	5:    "Baseball",
	6:    "Basketball",
	7:    "Bowling",
	8:    "Boxing",
	9:    "Climbing",
	10:   "Cricket",
	11:   "Cross Training",
	12:   "Curling",
	13:   "Cycling",
	14:   "Dance",
	16:   "Elliptical",
	17:   "Equestrian Sports",
	18:   "Fencing",
	19:   "Fishing",
	20:   "Functional Strength Training",
	21:   "Golf",
	22:   "Gymnastics",
	23:   "Handball",
	24:   "Hiking",
	25:   "Hockey",
	26:   "Hunting",
	27:   "Lacrosse",
	28:   "Martial Arts",
	29:   "Mind and Body",
	31:   "Paddle Sports",
	32:   "Play",
	33:   "Preparation and Recovery",
	34:   "Racquetball",
	35:   "Rowing",
	36:   "Rugby",
	37:   "Running",
	38:   "Sailing",
	39:   "Skating Sports",
	40:   "Snow Sports",
	41:   "Soccer",
	42:   "Softball",
	43:   "Squash",
	44:   "Stair Climbing",
	45:   "Surfing Sports",
	46:   "Swimming",
	47:   "Table Tennis",
	48:   "Tennis",
	49:   "Track and Field",
	50:   "Traditional Strength Training",
	51:   "Volleyball",
	52:   "Walking",
	53:   "Water Fitness",
	54:   "Water Polo",
	55:   "Water Sports",
	56:   "Wrestling",
	57:   "Yoga",
	58:   "Barre",
	59:   "Core Training",
	60:   "Cross Country Skiing",
	61:   "Downhill Skiing",
	62:   "Flexibility",
	63:   "High Intensity Interval Training",
	64:   "Jump Rope",
	65:   "Kickboxing",
	66:   "Pilates",
	67:   "Snowboarding",
	68:   "Stairs",
	69:   "Step Training",
	70:   "Wheelchair Walk Pace",
	71:   "Wheelchair Run Pace",
	72:   "Tai Chi",
	73:   "Mixed Cardio",
	74:   "Hand Cycling",
	75:   "Disc Sports",
	76:   "Fitness Gaming",
	3000: "Other",
}

// ActivityName resolves an HKWorkoutActivityType code; unmapped or future
// codes report "Other".
func ActivityName(code int) string {
	if name, ok := activityNames[code]; ok {
		return name
	}
	return "Other"
}

// activityCodes is the reverse lookup used by the import pipeline to
// translate workout names from export dumps back into activity codes.
var activityCodes = func() map[string]int {
	m := make(map[string]int, len(activityNames))
	for code, name := range activityNames {
		m[name] = code
	}
	return m
}()

// ActivityCode resolves a readable activity name back to its code,
// falling back to the "Other" code for unknown names.
func ActivityCode(name string) int {
	if code, ok := activityCodes[name]; ok {
		return code
	}
	return 3000
}

// scalarMetadata keeps only scalar-compatible metadata entries: strings,
// numbers, booleans, and times (rendered as ISO strings). Nested or
// opaque values are dropped silently.
func scalarMetadata(in map[string]any) map[string]any {
	if len(in) == 0 {
		return nil
	}
	out := map[string]any{}
	for k, v := range in {
		switch val := v.(type) {
		case string, bool, int, int64, float64:
			out[k] = val
		case time.Time:
			out[k] = models.FormatISO(val)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// normalizeQuantity converts one mirror quantity row into a Sample. The
// unit is resolved by the caller from the fixed identifier→unit table.
func normalizeQuantity(r models.HKQuantityRow, unit string) models.Sample {
	return models.Sample{
		Type:          r.TypeID,
		SourceName:    r.SourceName,
		SourceVersion: r.SourceVersion,
		Device:        r.Device,
		CreationDate:  models.FormatISO(r.CreationTime),
		StartDate:     models.FormatISO(r.StartTime),
		EndDate:       models.FormatISO(r.EndTime),
		Metadata:      scalarMetadata(r.Metadata),
		Unit:          unit,
		Value:         r.Value,
	}
}

// normalizeCategory converts one mirror category row into a Sample.
// Sleep-analysis codes become named stages; every other category type
// keeps its raw integer code.
func normalizeCategory(r models.HKCategoryRow) models.Sample {
	var value any = r.Value
	if r.TypeID == sleepAnalysisTypeID {
		value = SleepAnalysisValue(r.Value)
	}
	return models.Sample{
		Type:          r.TypeID,
		SourceName:    r.SourceName,
		SourceVersion: r.SourceVersion,
		Device:        r.Device,
		CreationDate:  models.FormatISO(r.CreationTime),
		StartDate:     models.FormatISO(r.StartTime),
		EndDate:       models.FormatISO(r.EndTime),
		Metadata:      scalarMetadata(r.Metadata),
		Value:         value,
	}
}

// normalizeWorkout converts one mirror workout row into a Sample with the
// workout-specific fields populated.
func normalizeWorkout(r models.HKWorkoutRow) models.Sample {
	duration := r.DurationSec
	s := models.Sample{
		Type:                "HKWorkoutTypeIdentifier",
		SourceName:          r.SourceName,
		SourceVersion:       r.SourceVersion,
		Device:              r.Device,
		CreationDate:        models.FormatISO(r.CreationTime),
		StartDate:           models.FormatISO(r.StartTime),
		EndDate:             models.FormatISO(r.EndTime),
		Metadata:            scalarMetadata(r.Metadata),
		WorkoutActivityType: ActivityName(r.ActivityType),
		Duration:            &duration,
		DurationUnit:        "s",
	}
	if r.TotalEnergyKcal != nil {
		v := *r.TotalEnergyKcal
		s.TotalEnergyBurned = &v
		s.TotalEnergyBurnedUnit = "kcal"
	}
	if r.TotalDistanceKm != nil {
		v := *r.TotalDistanceKm
		s.TotalDistance = &v
		s.TotalDistanceUnit = "km"
	}
	return s
}
