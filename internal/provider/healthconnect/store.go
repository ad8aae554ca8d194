package healthconnect

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/healthbridge/internal/models"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the Postgres-backed Health Connect mirror.
type Store struct {
	Pool *pgxpool.Pool
}

// NewStore creates a Store with a connection pool.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Store{Pool: pool}, nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	s.Pool.Close()
}

// Ping checks mirror reachability; the provider's availability probe.
func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

// RunMigrations applies all pending migrations from the given directory.
func RunMigrations(dsn, migrationsPath string) error {
	m, err := migrate.New("file://"+migrationsPath, dsn)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// InsertSamples batch-inserts sample rows, skipping duplicate IDs.
// Returns the number actually inserted.
func (s *Store) InsertSamples(ctx context.Context, rows []models.HCSampleRow) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	var inserted int64
	for _, r := range rows {
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}
		tag, err := s.Pool.Exec(ctx,
			`INSERT INTO hc_samples
			 (id, record_type, value, code, source_name, source_version, device, creation_time, start_time, end_time, metadata)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			 ON CONFLICT DO NOTHING`,
			r.ID, r.RecordType, r.Value, r.Code, r.SourceName, r.SourceVersion, r.Device,
			r.CreationTime, r.StartTime, r.EndTime, r.Metadata)
		if err != nil {
			return inserted, fmt.Errorf("inserting sample: %w", err)
		}
		inserted += tag.RowsAffected()
	}
	return inserted, nil
}

// InsertExerciseSessions batch-inserts exercise sessions, skipping
// duplicate IDs.
func (s *Store) InsertExerciseSessions(ctx context.Context, rows []models.HCExerciseRow) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	var inserted int64
	for _, r := range rows {
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}
		tag, err := s.Pool.Exec(ctx,
			`INSERT INTO hc_exercise_sessions
			 (id, exercise_type, duration_sec, total_energy_kcal, total_distance_km,
			  source_name, source_version, device, creation_time, start_time, end_time, metadata)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			 ON CONFLICT DO NOTHING`,
			r.ID, r.ExerciseType, r.DurationSec, r.TotalEnergyKcal, r.TotalDistanceKm,
			r.SourceName, r.SourceVersion, r.Device, r.CreationTime, r.StartTime, r.EndTime, r.Metadata)
		if err != nil {
			return inserted, fmt.Errorf("inserting exercise session: %w", err)
		}
		inserted += tag.RowsAffected()
	}
	return inserted, nil
}

func orderClause(ascending bool) string {
	if ascending {
		return " ORDER BY start_time ASC"
	}
	return " ORDER BY start_time DESC"
}

// QuerySamples retrieves records of one type within [start, end).
func (s *Store) QuerySamples(ctx context.Context, recordType string, start, end time.Time, limit int, ascending bool) ([]models.HCSampleRow, error) {
	query := `SELECT id, record_type, value, code, source_name, source_version, device, creation_time, start_time, end_time, metadata
		 FROM hc_samples
		 WHERE record_type = $1 AND start_time >= $2 AND start_time < $3` + orderClause(ascending)
	args := []any{recordType, start, end}
	if limit > 0 {
		query += " LIMIT $4"
		args = append(args, limit)
	}

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying samples: %w", err)
	}
	defer rows.Close()

	var result []models.HCSampleRow
	for rows.Next() {
		var r models.HCSampleRow
		if err := rows.Scan(&r.ID, &r.RecordType, &r.Value, &r.Code, &r.SourceName, &r.SourceVersion,
			&r.Device, &r.CreationTime, &r.StartTime, &r.EndTime, &r.Metadata); err != nil {
			return nil, fmt.Errorf("scanning sample: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// QueryExerciseSessions retrieves exercise sessions within [start, end).
func (s *Store) QueryExerciseSessions(ctx context.Context, start, end time.Time, limit int, ascending bool) ([]models.HCExerciseRow, error) {
	query := `SELECT id, exercise_type, duration_sec, total_energy_kcal, total_distance_km,
		        source_name, source_version, device, creation_time, start_time, end_time, metadata
		 FROM hc_exercise_sessions
		 WHERE start_time >= $1 AND start_time < $2` + orderClause(ascending)
	args := []any{start, end}
	if limit > 0 {
		query += " LIMIT $3"
		args = append(args, limit)
	}

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying exercise sessions: %w", err)
	}
	defer rows.Close()

	var result []models.HCExerciseRow
	for rows.Next() {
		var r models.HCExerciseRow
		if err := rows.Scan(&r.ID, &r.ExerciseType, &r.DurationSec, &r.TotalEnergyKcal, &r.TotalDistanceKm,
			&r.SourceName, &r.SourceVersion, &r.Device, &r.CreationTime, &r.StartTime, &r.EndTime, &r.Metadata); err != nil {
			return nil, fmt.Errorf("scanning exercise session: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
