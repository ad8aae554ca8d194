package models

import (
	"time"

	"github.com/google/uuid"
)

// Row types for the two platform mirror stores. The mirrors hold records
// in each platform's own vocabulary; normalization into Sample happens in
// the provider packages, never here.

// HKQuantityRow is one HealthKit quantity sample in the SQLite mirror.
type HKQuantityRow struct {
	ID            uuid.UUID
	TypeID        string // HKQuantityTypeIdentifier*
	Value         float64
	SourceName    string
	SourceVersion string
	Device        string
	CreationTime  time.Time
	StartTime     time.Time
	EndTime       time.Time
	Metadata      map[string]any
}

// HKCategoryRow is one HealthKit category sample. Value is the raw
// HKCategoryValue integer code.
type HKCategoryRow struct {
	ID            uuid.UUID
	TypeID        string // HKCategoryTypeIdentifier*
	Value         int
	SourceName    string
	SourceVersion string
	Device        string
	CreationTime  time.Time
	StartTime     time.Time
	EndTime       time.Time
	Metadata      map[string]any
}

// HKWorkoutRow is one HealthKit workout. ActivityType is the raw
// HKWorkoutActivityType integer code.
type HKWorkoutRow struct {
	ID              uuid.UUID
	ActivityType    int
	DurationSec     float64
	TotalEnergyKcal *float64
	TotalDistanceKm *float64
	SourceName      string
	SourceVersion   string
	Device          string
	CreationTime    time.Time
	StartTime       time.Time
	EndTime         time.Time
	Metadata        map[string]any
}

// HCSampleRow is one Health Connect record in the Postgres mirror.
// Quantity records carry Value; stage/category records carry Code.
type HCSampleRow struct {
	ID            uuid.UUID
	RecordType    string // Steps, HeartRate, SleepSession, ...
	Value         *float64
	Code          *int
	SourceName    string
	SourceVersion string
	Device        string
	CreationTime  time.Time
	StartTime     time.Time
	EndTime       time.Time
	Metadata      map[string]any
}

// HCExerciseRow is one Health Connect exercise session. ExerciseType is
// the raw EXERCISE_TYPE integer constant.
type HCExerciseRow struct {
	ID              uuid.UUID
	ExerciseType    int
	DurationSec     float64
	TotalEnergyKcal *float64
	TotalDistanceKm *float64
	SourceName      string
	SourceVersion   string
	Device          string
	CreationTime    time.Time
	StartTime       time.Time
	EndTime         time.Time
	Metadata        map[string]any
}
