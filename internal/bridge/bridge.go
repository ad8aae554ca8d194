// Package bridge is the cross-platform entry point: it validates caller
// input, maps unified identifiers to the active platform's vocabulary,
// dispatches to the platform provider, and shapes every failure into the
// shared coded-result contract. Nothing below this package is reachable
// without passing through its validation.
package bridge

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/claude/healthbridge/internal/events"
	"github.com/claude/healthbridge/internal/idmap"
	"github.com/claude/healthbridge/internal/models"
	"github.com/claude/healthbridge/internal/provider"
	"github.com/claude/healthbridge/internal/sync"
)

// Aggregation modes accepted on a query.
var validAggregations = map[string]bool{
	"":        true, // treated as raw
	"raw":     true,
	"hourly":  true,
	"daily":   true,
	"weekly":  true,
	"monthly": true,
}

// Bridge is the facade over one active platform provider.
type Bridge struct {
	platform  idmap.Platform
	providers map[idmap.Platform]provider.Provider
	engine    *sync.Engine
	emitter   *events.Emitter
	log       *slog.Logger
}

// New creates a Bridge for the given platform. Providers for other
// platforms may be registered but are never dispatched to.
func New(platform idmap.Platform, providers []provider.Provider, engine *sync.Engine, emitter *events.Emitter, log *slog.Logger) *Bridge {
	byPlatform := map[idmap.Platform]provider.Provider{}
	for _, p := range providers {
		byPlatform[p.Platform()] = p
	}
	return &Bridge{
		platform:  platform,
		providers: byPlatform,
		engine:    engine,
		emitter:   emitter,
		log:       log,
	}
}

// Platform returns the active platform.
func (b *Bridge) Platform() idmap.Platform {
	return b.platform
}

// Emitter exposes the event channel for transports that push events.
func (b *Bridge) Emitter() *events.Emitter {
	return b.emitter
}

func (b *Bridge) activeProvider() (provider.Provider, bool) {
	if !b.platform.Supported() {
		return nil, false
	}
	p, ok := b.providers[b.platform]
	return p, ok
}

func unsupportedPlatformMsg(p idmap.Platform) string {
	return fmt.Sprintf("platform %q is not supported; health data is available on ios and android only", p)
}

// Authorize requests read permission for the full supported identifier
// set on the active platform. Always resolves.
func (b *Bridge) Authorize(ctx context.Context) *models.AuthorizeResult {
	p, ok := b.activeProvider()
	if !ok {
		return &models.AuthorizeResult{
			Success: false,
			Granted: []string{},
			Denied:  []string{},
			Error:   models.NewError(models.ErrUnsupportedPlatform, unsupportedPlatformMsg(b.platform)),
		}
	}
	return p.Authorize(ctx)
}

// GetHealthData validates the query, maps the identifier, and issues one
// read against the active platform. Non-raw aggregation modes bucket the
// returned quantity samples before the result leaves the facade.
func (b *Bridge) GetHealthData(ctx context.Context, q models.HealthDataQuery) *models.GetHealthDataResult {
	if q.Identifier == "" || q.StartDate == "" || q.EndDate == "" {
		return provider.QueryFailure(models.ErrMissingArguments,
			"identifier, startDate and endDate are required")
	}
	if !models.IsValidISODate(q.StartDate) || !models.IsValidISODate(q.EndDate) {
		return provider.QueryFailure(models.ErrInvalidDate,
			"dates must match YYYY-MM-DDTHH:mm:ss[.sss]Z")
	}
	if !validAggregations[q.Aggregation] {
		return provider.QueryFailure(models.ErrMissingArguments,
			fmt.Sprintf("aggregation %q is not one of raw, hourly, daily, weekly, monthly", q.Aggregation))
	}

	start, err := models.ParseISO(q.StartDate)
	if err != nil {
		return provider.QueryFailure(models.ErrInvalidDate, err.Error())
	}
	end, err := models.ParseISO(q.EndDate)
	if err != nil {
		return provider.QueryFailure(models.ErrInvalidDate, err.Error())
	}

	p, ok := b.activeProvider()
	if !ok {
		return provider.QueryFailure(models.ErrUnsupportedPlatform, unsupportedPlatformMsg(b.platform))
	}

	ascending := true
	if q.Ascending != nil {
		ascending = *q.Ascending
	}

	res := p.Query(ctx, provider.QueryRequest{
		Identifier: idmap.PlatformIdentifier(q.Identifier, b.platform),
		Start:      start,
		End:        end,
		Limit:      q.Limit,
		Ascending:  ascending,
	})

	if res.Success && q.Aggregation != "" && q.Aggregation != "raw" {
		res.Data = aggregateSamples(res.Data, q.Aggregation)
	}
	return res
}

// PlatformIdentifier translates a unified identifier for the active
// platform. Pure.
func (b *Bridge) PlatformIdentifier(id string) string {
	return idmap.PlatformIdentifier(id, b.platform)
}

// SupportedIdentifiers lists the active platform's native identifiers in
// stable order.
func (b *Bridge) SupportedIdentifiers() []string {
	return idmap.SupportedIdentifiers(b.platform)
}

// IsValidIdentifier reports whether id is a known unified identifier.
func (b *Bridge) IsValidIdentifier(id string) bool {
	return idmap.IsValidIdentifier(id)
}

// RegisterBackgroundTaskHandler arms the sync scheduler.
func (b *Bridge) RegisterBackgroundTaskHandler() *models.OpResult {
	if !b.platform.Supported() {
		return &models.OpResult{
			Success: false,
			Error:   models.NewError(models.ErrUnsupportedPlatform, unsupportedPlatformMsg(b.platform)),
		}
	}
	return b.engine.Register()
}

// EnableBackgroundSync schedules periodic background wake-ups.
func (b *Bridge) EnableBackgroundSync(req sync.EnableRequest) *models.OpResult {
	if !b.platform.Supported() {
		return &models.OpResult{
			Success: false,
			Error:   models.NewError(models.ErrUnsupportedPlatform, unsupportedPlatformMsg(b.platform)),
		}
	}
	return b.engine.Enable(req)
}

// DisableBackgroundSync tears down the scheduled wake-ups.
func (b *Bridge) DisableBackgroundSync() *models.OpResult {
	if !b.platform.Supported() {
		return &models.OpResult{
			Success: false,
			Error:   models.NewError(models.ErrUnsupportedPlatform, unsupportedPlatformMsg(b.platform)),
		}
	}
	return b.engine.Disable()
}

// GetBackgroundSyncStatus returns the in-memory sync state.
func (b *Bridge) GetBackgroundSyncStatus() *models.SyncStatus {
	if !b.platform.Supported() {
		return &models.SyncStatus{
			Enabled: false,
			Error:   models.NewError(models.ErrUnsupportedPlatform, unsupportedPlatformMsg(b.platform)),
		}
	}
	return b.engine.Status()
}
