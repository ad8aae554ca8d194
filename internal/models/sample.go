package models

// Sample is one normalized health record, the shape shared by both
// platform providers. Value holds a float64 for quantity records, an
// integer code or mapped stage name for category records, and is unset
// for workout records (which carry the workout-specific fields instead).
type Sample struct {
	Type          string         `json:"type"`
	SourceName    string         `json:"sourceName"`
	SourceVersion string         `json:"sourceVersion,omitempty"`
	Device        string         `json:"device,omitempty"`
	CreationDate  string         `json:"creationDate"`
	StartDate     string         `json:"startDate"`
	EndDate       string         `json:"endDate"`
	Metadata      map[string]any `json:"metadata,omitempty"`

	Unit  string `json:"unit,omitempty"`
	Value any    `json:"value,omitempty"`

	WorkoutActivityType   string   `json:"workoutActivityType,omitempty"`
	Duration              *float64 `json:"duration,omitempty"`
	DurationUnit          string   `json:"durationUnit,omitempty"`
	TotalEnergyBurned     *float64 `json:"totalEnergyBurned,omitempty"`
	TotalEnergyBurnedUnit string   `json:"totalEnergyBurnedUnit,omitempty"`
	TotalDistance         *float64 `json:"totalDistance,omitempty"`
	TotalDistanceUnit     string   `json:"totalDistanceUnit,omitempty"`
}

// GetHealthDataResult is the resolved outcome of a health data query.
// Exactly one of Data/Error is meaningful, selected by Success.
type GetHealthDataResult struct {
	Success bool         `json:"success"`
	Data    []Sample     `json:"data"`
	Error   *BridgeError `json:"error,omitempty"`
}

// AuthorizeResult is the resolved outcome of an authorization request.
// The underlying permission APIs report only whole-set success or
// failure, so Granted/Denied carry the full identifier set, never a
// per-identifier split.
type AuthorizeResult struct {
	Success bool         `json:"success"`
	Granted []string     `json:"granted"`
	Denied  []string     `json:"denied"`
	Error   *BridgeError `json:"error,omitempty"`
}

// OpResult is the resolved outcome of a state-changing call with no
// data payload (background sync enable/disable/register).
type OpResult struct {
	Success bool         `json:"success"`
	Error   *BridgeError `json:"error,omitempty"`
}

// SyncStatus is a point-in-time snapshot of the background sync state.
// LastSync is empty until the first tick after an enable.
type SyncStatus struct {
	Enabled  bool         `json:"enabled"`
	LastSync string       `json:"lastSync,omitempty"`
	Error    *BridgeError `json:"error,omitempty"`
}

// HealthDataQuery is the caller-facing query shape. Dates are ISO-8601
// strings; the facade validates them before any provider sees the query.
type HealthDataQuery struct {
	Identifier  string `json:"identifier"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Aggregation string `json:"aggregation,omitempty"`
	Limit       int    `json:"limit,omitempty"`
	Ascending   *bool  `json:"ascending,omitempty"`
}
