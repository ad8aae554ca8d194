package healthconnect

import (
	"fmt"
	"time"

	"github.com/claude/healthbridge/internal/models"
)

// sleepStageNames maps Health Connect SleepSessionRecord stage constants
// to their names.
var sleepStageNames = map[int]string{
	0: "STAGE_TYPE_UNKNOWN",
	1: "STAGE_TYPE_AWAKE",
	2: "STAGE_TYPE_SLEEPING",
	3: "STAGE_TYPE_OUT_OF_BED",
	4: "STAGE_TYPE_LIGHT",
	5: "STAGE_TYPE_DEEP",
	6: "STAGE_TYPE_REM",
	7: "STAGE_TYPE_AWAKE_IN_BED",
}

// SleepStageName translates a raw stage constant to its name; unknown
// constants get a placeholder embedding the raw value.
func SleepStageName(code int) string {
	if name, ok := sleepStageNames[code]; ok {
		return name
	}
	return fmt.Sprintf("STAGE_TYPE_UNKNOWN(%d)", code)
}

// exerciseTypeNames maps ExerciseSessionRecord EXERCISE_TYPE constants to
// readable names.
var exerciseTypeNames = map[int]string{
	0:  "Other Workout",
	2:  "Badminton",
	4:  "Baseball",
	5:  "Basketball",
	8:  "Biking",
	9:  "Stationary Biking",
	10: "Boot Camp",
	11: "Boxing",
	13: "Calisthenics",
	14: "Cricket",
	16: "Dancing",
	25: "Elliptical",
	26: "Exercise Class",
	27: "Fencing",
	28: "American Football",
	29: "Australian Football",
	31: "Frisbee Disc",
	32: "Golf",
	33: "Guided Breathing",
	34: "Gymnastics",
	35: "Handball",
	36: "High Intensity Interval Training",
	37: "Hiking",
	38: "Ice Hockey",
	39: "Ice Skating",
	44: "Martial Arts",
	46: "Paddling",
	47: "Paragliding",
	48: "Pilates",
	50: "Racquetball",
	51: "Rock Climbing",
	52: "Roller Hockey",
	53: "Rowing",
	54: "Rowing Machine",
	55: "Rugby",
	56: "Running",
	57: "Treadmill Running",
	58: "Sailing",
	59: "Scuba Diving",
	60: "Skating",
	61: "Skiing",
	62: "Snowboarding",
	63: "Snowshoeing",
	64: "Soccer",
	65: "Softball",
	66: "Squash",
	68: "Stair Climbing",
	69: "Stair Climbing Machine",
	70: "Strength Training",
	71: "Stretching",
	72: "Surfing",
	73: "Open Water Swimming",
	74: "Pool Swimming",
	75: "Table Tennis",
	76: "Tennis",
	78: "Volleyball",
	79: "Walking",
	80: "Water Polo",
	81: "Weightlifting",
	82: "Wheelchair",
	83: "Yoga",
}

// ExerciseTypeName resolves an exercise type constant; unmapped or future
// constants report "Other Workout".
func ExerciseTypeName(code int) string {
	if name, ok := exerciseTypeNames[code]; ok {
		return name
	}
	return "Other Workout"
}

// exerciseTypeCodes is the reverse lookup used when feeding the mirror
// from readable session names.
var exerciseTypeCodes = func() map[string]int {
	m := make(map[string]int, len(exerciseTypeNames))
	for code, name := range exerciseTypeNames {
		m[name] = code
	}
	return m
}()

// ExerciseTypeCode resolves a readable name back to its constant, falling
// back to the "Other Workout" code.
func ExerciseTypeCode(name string) int {
	if code, ok := exerciseTypeCodes[name]; ok {
		return code
	}
	return 0
}

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

// normalizeQuantity converts one quantity record into a Sample. The unit
// comes from the shared identifier→unit table, resolved by the caller.
func normalizeQuantity(r models.HCSampleRow, unit string) models.Sample {
	var value float64
	if r.Value != nil {
		value = *r.Value
	}
	return models.Sample{
		Type:          r.RecordType,
		SourceName:    r.SourceName,
		SourceVersion: r.SourceVersion,
		Device:        r.Device,
		CreationDate:  models.FormatISO(r.CreationTime),
		StartDate:     models.FormatISO(r.StartTime),
		EndDate:       models.FormatISO(r.EndTime),
		Metadata:      scalarMetadata(r.Metadata),
		Unit:          unit,
		Value:         value,
	}
}

// normalizeCategory converts one coded record into a Sample. Sleep
// sessions carry named stages; other coded types keep the raw code.
func normalizeCategory(r models.HCSampleRow) models.Sample {
	code := 0
	if r.Code != nil {
		code = *r.Code
	}
	var value any = code
	if r.RecordType == "SleepSession" {
		value = SleepStageName(code)
	}
	return models.Sample{
		Type:          r.RecordType,
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

// normalizeExercise converts one exercise session into a workout Sample.
func normalizeExercise(r models.HCExerciseRow) models.Sample {
	duration := r.DurationSec
	s := models.Sample{
		Type:                "ExerciseSession",
		SourceName:          r.SourceName,
		SourceVersion:       r.SourceVersion,
		Device:              r.Device,
		CreationDate:        models.FormatISO(r.CreationTime),
		StartDate:           models.FormatISO(r.StartTime),
		EndDate:             models.FormatISO(r.EndTime),
		Metadata:            scalarMetadata(r.Metadata),
		WorkoutActivityType: ExerciseTypeName(r.ExerciseType),
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
