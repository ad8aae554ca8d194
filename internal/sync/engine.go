// Package sync owns the background sync state machine. Scheduling is
// real (a cron entry fires at the requested interval); the tick stamps
// the sync time and emits a completion event, but fetches and uploads
// nothing.
package sync

import (
	"fmt"
	"log/slog"
	stdsync "sync"
	"time"

	"github.com/claude/healthbridge/internal/events"
	"github.com/claude/healthbridge/internal/idmap"
	"github.com/claude/healthbridge/internal/models"
	"github.com/claude/healthbridge/internal/observability"
	"github.com/robfig/cron/v3"
)

// MinIntervalIOS is the scheduler floor applied on the iOS platform,
// matching the native background refresh minimum.
const MinIntervalIOS = 15 * time.Minute

// DefaultInterval is used when an enable request names no interval.
const DefaultInterval = 30 * time.Minute

// EnableRequest carries the background sync options. Only the interval
// affects scheduling; the rest is recorded and reported back.
type EnableRequest struct {
	SyncIntervalMinutes int      `json:"syncInterval,omitempty"`
	DataTypes           []string `json:"dataTypes,omitempty"`
	WifiOnly            bool     `json:"wifiOnly,omitempty"`
	MinBatteryPercent   int      `json:"minBatteryPercent,omitempty"`
}

// Engine holds the process-lifetime sync state. It always starts
// disabled; nothing survives a restart.
type Engine struct {
	platform        idmap.Platform
	emitter         *events.Emitter
	log             *slog.Logger
	defaultInterval time.Duration

	mu         stdsync.Mutex
	cron       *cron.Cron
	entryID    cron.EntryID
	registered bool
	enabled    bool
	lastSync   time.Time
	interval   time.Duration
}

// NewEngine creates a disengaged Engine for the given platform.
// defaultInterval is used for enable requests that name no interval;
// zero falls back to DefaultInterval.
func NewEngine(platform idmap.Platform, emitter *events.Emitter, log *slog.Logger, defaultInterval time.Duration) *Engine {
	if defaultInterval <= 0 {
		defaultInterval = DefaultInterval
	}
	return &Engine{
		platform:        platform,
		emitter:         emitter,
		log:             log,
		defaultInterval: defaultInterval,
		cron:            cron.New(),
	}
}

// Register arms the scheduler backend. Idempotent; Enable fails until
// this has been called once.
func (e *Engine) Register() *models.OpResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.registered {
		e.cron.Start()
		e.registered = true
		e.log.Info("background task handler registered", "platform", e.platform)
	}
	return &models.OpResult{Success: true}
}

// Enable schedules the periodic wake-up and marks the engine enabled.
// The iOS platform clamps the interval to the native scheduler minimum.
func (e *Engine) Enable(req EnableRequest) *models.OpResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.registered {
		return &models.OpResult{
			Success: false,
			Error:   models.NewError(models.ErrInternal, "background task handler is not registered"),
		}
	}

	interval := e.defaultInterval
	if req.SyncIntervalMinutes > 0 {
		interval = time.Duration(req.SyncIntervalMinutes) * time.Minute
	}
	if e.platform == idmap.PlatformIOS && interval < MinIntervalIOS {
		interval = MinIntervalIOS
	}

	if e.enabled {
		e.cron.Remove(e.entryID)
	}
	id, err := e.cron.AddFunc(fmt.Sprintf("@every %s", interval), e.tick)
	if err != nil {
		return &models.OpResult{
			Success: false,
			Error:   models.NewError(models.ErrInternal, fmt.Sprintf("scheduling sync: %v", err)),
		}
	}

	e.entryID = id
	e.enabled = true
	e.interval = interval
	e.log.Info("background sync enabled", "interval", interval.String(), "dataTypes", len(req.DataTypes))
	return &models.OpResult{Success: true}
}

// Disable tears down the scheduled entry and marks the engine disabled.
// Disabling an already-disabled engine succeeds.
func (e *Engine) Disable() *models.OpResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.enabled {
		e.cron.Remove(e.entryID)
		e.enabled = false
		e.log.Info("background sync disabled")
	}
	return &models.OpResult{Success: true}
}

// Status returns the in-memory snapshot. LastSync stays empty until the
// first tick after an enable.
func (e *Engine) Status() *models.SyncStatus {
	e.mu.Lock()
	defer e.mu.Unlock()

	status := &models.SyncStatus{Enabled: e.enabled}
	if !e.lastSync.IsZero() {
		status.LastSync = models.FormatISO(e.lastSync)
	}
	return status
}

// Interval reports the currently scheduled interval (zero when disabled).
func (e *Engine) Interval() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.enabled {
		return 0
	}
	return e.interval
}

// Stop halts the scheduler; used on process shutdown.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cron.Stop()
}

// tick is one background wake-up: stamp the time, emit completion with an
// empty synced-type list. No data moves here.
func (e *Engine) tick() {
	e.mu.Lock()
	if !e.enabled {
		e.mu.Unlock()
		return
	}
	now := time.Now()
	e.lastSync = now
	e.mu.Unlock()

	observability.RecordSyncCompleted(now)
	e.emitter.EmitBackgroundSyncComplete(events.BackgroundSyncComplete{
		Success:         true,
		SyncedDataTypes: []string{},
		Timestamp:       models.FormatISO(now),
	})
}
