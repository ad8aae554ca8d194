package healthkit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/claude/healthbridge/internal/models"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store is the SQLite-backed HealthKit mirror: quantity samples, category
// samples, and workouts in HealthKit's own vocabulary.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS hk_quantity_samples (
	id             TEXT PRIMARY KEY,
	type_id        TEXT NOT NULL,
	value          REAL NOT NULL,
	source_name    TEXT NOT NULL DEFAULT '',
	source_version TEXT NOT NULL DEFAULT '',
	device         TEXT NOT NULL DEFAULT '',
	creation_ms    INTEGER NOT NULL,
	start_ms       INTEGER NOT NULL,
	end_ms         INTEGER NOT NULL,
	metadata       TEXT NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS idx_hk_quantity_type_start ON hk_quantity_samples(type_id, start_ms);

CREATE TABLE IF NOT EXISTS hk_category_samples (
	id             TEXT PRIMARY KEY,
	type_id        TEXT NOT NULL,
	value          INTEGER NOT NULL,
	source_name    TEXT NOT NULL DEFAULT '',
	source_version TEXT NOT NULL DEFAULT '',
	device         TEXT NOT NULL DEFAULT '',
	creation_ms    INTEGER NOT NULL,
	start_ms       INTEGER NOT NULL,
	end_ms         INTEGER NOT NULL,
	metadata       TEXT NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS idx_hk_category_type_start ON hk_category_samples(type_id, start_ms);

CREATE TABLE IF NOT EXISTS hk_workouts (
	id               TEXT PRIMARY KEY,
	activity_type    INTEGER NOT NULL,
	duration_sec     REAL NOT NULL,
	total_energy_kcal REAL,
	total_distance_km REAL,
	source_name      TEXT NOT NULL DEFAULT '',
	source_version   TEXT NOT NULL DEFAULT '',
	device           TEXT NOT NULL DEFAULT '',
	creation_ms      INTEGER NOT NULL,
	start_ms         INTEGER NOT NULL,
	end_ms           INTEGER NOT NULL,
	metadata         TEXT NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS idx_hk_workouts_start ON hk_workouts(start_ms);
`

// OpenStore opens (or creates) the mirror database at the given path.
// ":memory:" gives an ephemeral store for tests.
func OpenStore(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating mirror dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening mirror db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating mirror schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func metadataJSON(m map[string]any) string {
	if len(m) == 0 {
		return "{}"
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func metadataFromJSON(raw string) map[string]any {
	if raw == "" || raw == "{}" {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil
	}
	return m
}

// InsertQuantitySamples inserts quantity rows, skipping IDs already
// present. Returns the number actually inserted.
func (s *Store) InsertQuantitySamples(ctx context.Context, rows []models.HKQuantityRow) (int64, error) {
	var inserted int64
	for _, r := range rows {
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}
		res, err := s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO hk_quantity_samples
			 (id, type_id, value, source_name, source_version, device, creation_ms, start_ms, end_ms, metadata)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID.String(), r.TypeID, r.Value, r.SourceName, r.SourceVersion, r.Device,
			r.CreationTime.UnixMilli(), r.StartTime.UnixMilli(), r.EndTime.UnixMilli(),
			metadataJSON(r.Metadata))
		if err != nil {
			return inserted, fmt.Errorf("inserting quantity sample: %w", err)
		}
		n, _ := res.RowsAffected()
		inserted += n
	}
	return inserted, nil
}

// InsertCategorySamples inserts category rows, skipping duplicates.
func (s *Store) InsertCategorySamples(ctx context.Context, rows []models.HKCategoryRow) (int64, error) {
	var inserted int64
	for _, r := range rows {
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}
		res, err := s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO hk_category_samples
			 (id, type_id, value, source_name, source_version, device, creation_ms, start_ms, end_ms, metadata)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID.String(), r.TypeID, r.Value, r.SourceName, r.SourceVersion, r.Device,
			r.CreationTime.UnixMilli(), r.StartTime.UnixMilli(), r.EndTime.UnixMilli(),
			metadataJSON(r.Metadata))
		if err != nil {
			return inserted, fmt.Errorf("inserting category sample: %w", err)
		}
		n, _ := res.RowsAffected()
		inserted += n
	}
	return inserted, nil
}

// InsertWorkouts inserts workout rows, skipping duplicates.
func (s *Store) InsertWorkouts(ctx context.Context, rows []models.HKWorkoutRow) (int64, error) {
	var inserted int64
	for _, r := range rows {
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}
		res, err := s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO hk_workouts
			 (id, activity_type, duration_sec, total_energy_kcal, total_distance_km,
			  source_name, source_version, device, creation_ms, start_ms, end_ms, metadata)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID.String(), r.ActivityType, r.DurationSec, r.TotalEnergyKcal, r.TotalDistanceKm,
			r.SourceName, r.SourceVersion, r.Device,
			r.CreationTime.UnixMilli(), r.StartTime.UnixMilli(), r.EndTime.UnixMilli(),
			metadataJSON(r.Metadata))
		if err != nil {
			return inserted, fmt.Errorf("inserting workout: %w", err)
		}
		n, _ := res.RowsAffected()
		inserted += n
	}
	return inserted, nil
}

func orderAndLimit(ascending bool, limit int) string {
	dir := "ASC"
	if !ascending {
		dir = "DESC"
	}
	clause := " ORDER BY start_ms " + dir
	if limit > 0 {
		clause += fmt.Sprintf(" LIMIT %d", limit)
	}
	return clause
}

// QueryQuantity returns quantity samples of one type within [start, end),
// ordered by start time.
func (s *Store) QueryQuantity(ctx context.Context, typeID string, start, end time.Time, limit int, ascending bool) ([]models.HKQuantityRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, type_id, value, source_name, source_version, device, creation_ms, start_ms, end_ms, metadata
		 FROM hk_quantity_samples
		 WHERE type_id = ? AND start_ms >= ? AND start_ms < ?`+orderAndLimit(ascending, limit),
		typeID, start.UnixMilli(), end.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("querying quantity samples: %w", err)
	}
	defer rows.Close()

	var out []models.HKQuantityRow
	for rows.Next() {
		var (
			r              models.HKQuantityRow
			idStr, meta    string
			cMs, sMs, eMs  int64
		)
		if err := rows.Scan(&idStr, &r.TypeID, &r.Value, &r.SourceName, &r.SourceVersion, &r.Device, &cMs, &sMs, &eMs, &meta); err != nil {
			return nil, fmt.Errorf("scanning quantity sample: %w", err)
		}
		r.ID, _ = uuid.Parse(idStr)
		r.CreationTime = time.UnixMilli(cMs).UTC()
		r.StartTime = time.UnixMilli(sMs).UTC()
		r.EndTime = time.UnixMilli(eMs).UTC()
		r.Metadata = metadataFromJSON(meta)
		out = append(out, r)
	}
	return out, rows.Err()
}

// QueryCategory returns category samples of one type within [start, end).
func (s *Store) QueryCategory(ctx context.Context, typeID string, start, end time.Time, limit int, ascending bool) ([]models.HKCategoryRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, type_id, value, source_name, source_version, device, creation_ms, start_ms, end_ms, metadata
		 FROM hk_category_samples
		 WHERE type_id = ? AND start_ms >= ? AND start_ms < ?`+orderAndLimit(ascending, limit),
		typeID, start.UnixMilli(), end.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("querying category samples: %w", err)
	}
	defer rows.Close()

	var out []models.HKCategoryRow
	for rows.Next() {
		var (
			r              models.HKCategoryRow
			idStr, meta    string
			cMs, sMs, eMs  int64
		)
		if err := rows.Scan(&idStr, &r.TypeID, &r.Value, &r.SourceName, &r.SourceVersion, &r.Device, &cMs, &sMs, &eMs, &meta); err != nil {
			return nil, fmt.Errorf("scanning category sample: %w", err)
		}
		r.ID, _ = uuid.Parse(idStr)
		r.CreationTime = time.UnixMilli(cMs).UTC()
		r.StartTime = time.UnixMilli(sMs).UTC()
		r.EndTime = time.UnixMilli(eMs).UTC()
		r.Metadata = metadataFromJSON(meta)
		out = append(out, r)
	}
	return out, rows.Err()
}

// QueryWorkouts returns workouts within [start, end).
func (s *Store) QueryWorkouts(ctx context.Context, start, end time.Time, limit int, ascending bool) ([]models.HKWorkoutRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, activity_type, duration_sec, total_energy_kcal, total_distance_km,
		        source_name, source_version, device, creation_ms, start_ms, end_ms, metadata
		 FROM hk_workouts
		 WHERE start_ms >= ? AND start_ms < ?`+orderAndLimit(ascending, limit),
		start.UnixMilli(), end.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	var out []models.HKWorkoutRow
	for rows.Next() {
		var (
			r              models.HKWorkoutRow
			idStr, meta    string
			cMs, sMs, eMs  int64
		)
		if err := rows.Scan(&idStr, &r.ActivityType, &r.DurationSec, &r.TotalEnergyKcal, &r.TotalDistanceKm,
			&r.SourceName, &r.SourceVersion, &r.Device, &cMs, &sMs, &eMs, &meta); err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		r.ID, _ = uuid.Parse(idStr)
		r.CreationTime = time.UnixMilli(cMs).UTC()
		r.StartTime = time.UnixMilli(sMs).UTC()
		r.EndTime = time.UnixMilli(eMs).UTC()
		r.Metadata = metadataFromJSON(meta)
		out = append(out, r)
	}
	return out, rows.Err()
}
