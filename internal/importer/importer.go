// Package importer loads Health Auto Export payloads into the HealthKit
// mirror store. Metric names in the payload use the unified identifier
// vocabulary; anything unknown is counted and skipped, never fatal.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/claude/healthbridge/internal/events"
	"github.com/claude/healthbridge/internal/idmap"
	"github.com/claude/healthbridge/internal/models"
	"github.com/claude/healthbridge/internal/provider/healthkit"
)

// Summary tracks what one import wrote.
type Summary struct {
	QuantitySamples int64    `json:"quantitySamples"`
	CategorySamples int64    `json:"categorySamples"`
	Workouts        int64    `json:"workouts"`
	RejectedMetrics []string `json:"rejectedMetrics,omitempty"`
}

// Sleep stage names as they appear in export payloads, mapped to the
// HealthKit category codes the mirror stores.
var sleepStageCodes = map[string]int{
	"InBed":  0,
	"Asleep": 1,
	"Awake":  2,
	"Core":   3,
	"Deep":   4,
	"REM":    5,
}

// Importer writes export payloads into the SQLite mirror.
type Importer struct {
	store   *healthkit.Store
	emitter *events.Emitter
	log     *slog.Logger
	dryRun  bool
}

// New creates an Importer. emitter may be nil for one-shot CLI runs.
func New(store *healthkit.Store, emitter *events.Emitter, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{store: store, emitter: emitter, log: log, dryRun: dryRun}
}

// ImportFile reads one export file (plain or gzipped JSON) and imports it.
func (imp *Importer) ImportFile(ctx context.Context, path string) (*Summary, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	data, err := maybeGunzip(raw)
	if err != nil {
		return nil, fmt.Errorf("decompressing %s: %w", path, err)
	}

	var payload models.HAEPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return imp.Import(ctx, &payload)
}

// Import writes one payload into the mirror and reports what landed.
func (imp *Importer) Import(ctx context.Context, payload *models.HAEPayload) (*Summary, error) {
	summary := &Summary{}
	rejected := map[string]bool{}

	for _, metric := range payload.Data.Metrics {
		if !idmap.IsValidIdentifier(metric.Name) {
			if !rejected[metric.Name] {
				rejected[metric.Name] = true
				summary.RejectedMetrics = append(summary.RejectedMetrics, metric.Name)
			}
			imp.log.Info("skipping unknown metric", "metric", metric.Name)
			continue
		}

		typeID := idmap.PlatformIdentifier(metric.Name, idmap.PlatformIOS)
		if metric.Name == "sleepAnalysis" {
			n, err := imp.importSleepMetric(ctx, typeID, metric)
			if err != nil {
				return summary, fmt.Errorf("importing %s: %w", metric.Name, err)
			}
			summary.CategorySamples += n
			imp.emitChange(metric.Name, n)
			continue
		}

		n, err := imp.importQuantityMetric(ctx, typeID, metric)
		if err != nil {
			return summary, fmt.Errorf("importing %s: %w", metric.Name, err)
		}
		summary.QuantitySamples += n
		imp.emitChange(metric.Name, n)
	}

	n, err := imp.importWorkouts(ctx, payload.Data.Workouts)
	if err != nil {
		return summary, fmt.Errorf("importing workouts: %w", err)
	}
	summary.Workouts = n
	imp.emitChange("workout", n)

	return summary, nil
}

func (imp *Importer) importQuantityMetric(ctx context.Context, typeID string, metric models.HAEMetric) (int64, error) {
	var rows []models.HKQuantityRow
	for _, raw := range metric.Data {
		var dp models.HAEMetricDataPoint
		if err := json.Unmarshal(raw, &dp); err != nil {
			imp.log.Warn("skipping malformed data point", "metric", metric.Name, "error", err)
			continue
		}
		rows = append(rows, models.HKQuantityRow{
			TypeID:       typeID,
			Value:        dp.Qty,
			SourceName:   dp.Source,
			CreationTime: dp.Date.Time,
			StartTime:    dp.Date.Time,
			EndTime:      dp.Date.Time,
		})
	}
	if len(rows) == 0 || imp.dryRun {
		return int64(len(rows)), nil
	}
	return imp.store.InsertQuantitySamples(ctx, rows)
}

func (imp *Importer) importSleepMetric(ctx context.Context, typeID string, metric models.HAEMetric) (int64, error) {
	var rows []models.HKCategoryRow
	for _, raw := range metric.Data {
		var stage models.HAESleepStage
		if err := json.Unmarshal(raw, &stage); err != nil {
			imp.log.Warn("skipping malformed sleep stage", "error", err)
			continue
		}
		code, ok := sleepStageCodes[stage.Value]
		if !ok {
			imp.log.Warn("skipping unknown sleep stage", "stage", stage.Value)
			continue
		}
		rows = append(rows, models.HKCategoryRow{
			TypeID:       typeID,
			Value:        code,
			SourceName:   stage.Source,
			CreationTime: stage.StartDate.Time,
			StartTime:    stage.StartDate.Time,
			EndTime:      stage.EndDate.Time,
		})
	}
	if len(rows) == 0 || imp.dryRun {
		return int64(len(rows)), nil
	}
	return imp.store.InsertCategorySamples(ctx, rows)
}

func (imp *Importer) importWorkouts(ctx context.Context, workouts []models.HAEWorkout) (int64, error) {
	var rows []models.HKWorkoutRow
	for _, w := range workouts {
		row := models.HKWorkoutRow{
			ActivityType: healthkit.ActivityCode(w.Name),
			DurationSec:  w.Duration,
			SourceName:   "Health Auto Export",
			CreationTime: w.Start.Time,
			StartTime:    w.Start.Time,
			EndTime:      w.End.Time,
		}
		if id, err := uuid.Parse(w.ID); err == nil {
			row.ID = id
		}
		if energy := pickEnergy(w); energy != nil {
			row.TotalEnergyKcal = energy
		}
		if w.Distance != nil {
			km := w.Distance.Qty
			row.TotalDistanceKm = &km
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 || imp.dryRun {
		return int64(len(rows)), nil
	}
	return imp.store.InsertWorkouts(ctx, rows)
}

// pickEnergy prefers totalEnergy and falls back to activeEnergyBurned.
func pickEnergy(w models.HAEWorkout) *float64 {
	if w.TotalEnergy != nil {
		v := w.TotalEnergy.Qty
		return &v
	}
	if w.ActiveEnergyBurned != nil {
		v := w.ActiveEnergyBurned.Qty
		return &v
	}
	return nil
}

func (imp *Importer) emitChange(dataType string, added int64) {
	if imp.emitter == nil || imp.dryRun || added == 0 {
		return
	}
	imp.emitter.EmitHealthDataChange(dataType, int(added))
}
