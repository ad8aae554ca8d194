// Package healthconnect implements the Android side of the bridge
// against a Postgres mirror of the Health Connect datastore.
package healthconnect

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/claude/healthbridge/internal/idmap"
	"github.com/claude/healthbridge/internal/models"
	"github.com/claude/healthbridge/internal/provider"
)

const unavailableMsg = "Health Connect is not available on this device; install the Health Connect app to enable health data access"

// Provider answers authorization and query requests in Health Connect's
// vocabulary. A nil or unreachable store is the Go rendition of the
// Health Connect app not being installed.
type Provider struct {
	store *Store
	log   *slog.Logger
}

// NewProvider creates a Health Connect provider over the given mirror store.
func NewProvider(store *Store, log *slog.Logger) *Provider {
	return &Provider{store: store, log: log}
}

// Platform returns the platform this provider serves.
func (p *Provider) Platform() idmap.Platform {
	return idmap.PlatformAndroid
}

func (p *Provider) available(ctx context.Context) bool {
	return p.store != nil && p.store.Ping(ctx) == nil
}

// Authorize reports static availability. Per-type consent lives in the
// platform's own UI flow, so an available store grants the full supported
// list; an unavailable one fails immediately with explanatory text.
func (p *Provider) Authorize(ctx context.Context) *models.AuthorizeResult {
	if !p.available(ctx) {
		return &models.AuthorizeResult{
			Success: false,
			Granted: []string{},
			Denied:  []string{},
			Error:   models.NewError(models.ErrHealthConnectUnavailable, unavailableMsg),
		}
	}
	return &models.AuthorizeResult{
		Success: true,
		Granted: idmap.SupportedIdentifiers(idmap.PlatformAndroid),
		Denied:  []string{},
	}
}

// Query issues exactly one time-bounded read for the requested record
// type and normalizes the full result set.
func (p *Provider) Query(ctx context.Context, req provider.QueryRequest) (res *models.GetHealthDataResult) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("health connect query panic", "identifier", req.Identifier, "panic", r)
			res = provider.QueryFailure(models.ErrException, fmt.Sprintf("unexpected failure: %v", r))
		}
	}()

	if !p.available(ctx) {
		return provider.QueryFailure(models.ErrHealthConnectUnavailable, unavailableMsg)
	}

	unified, ok := idmap.UnifiedFromHealthConnect(req.Identifier)
	if !ok {
		return provider.QueryFailure(models.ErrUnsupportedIdentifier,
			fmt.Sprintf("identifier %q is not a supported Health Connect record type", req.Identifier))
	}

	switch req.Identifier {
	case "ExerciseSession":
		return p.queryExercise(ctx, req)
	case "SleepSession", "MindfulnessSession":
		return p.queryCategory(ctx, req)
	default:
		unit, ok := models.UnitFor(unified)
		if !ok {
			return provider.QueryFailure(models.ErrInternal,
				fmt.Sprintf("no unit registered for %q", unified))
		}
		return p.queryQuantity(ctx, req, unit)
	}
}

// queryFailureCode distinguishes a revoked grant on the mirror from an
// ordinary store error. SQLSTATE 42501 is insufficient_privilege.
func queryFailureCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "42501" {
		return models.ErrPermissionDenied
	}
	return models.ErrQuery
}

func (p *Provider) queryQuantity(ctx context.Context, req provider.QueryRequest, unit string) *models.GetHealthDataResult {
	rows, err := p.store.QuerySamples(ctx, req.Identifier, req.Start, req.End, req.Limit, req.Ascending)
	if err != nil {
		p.log.Error("sample query failed", "identifier", req.Identifier, "error", err)
		return provider.QueryFailure(queryFailureCode(err), err.Error())
	}

	samples := make([]models.Sample, 0, len(rows))
	for _, r := range rows {
		samples = append(samples, normalizeQuantity(r, unit))
	}
	return provider.QuerySuccess(samples)
}

func (p *Provider) queryCategory(ctx context.Context, req provider.QueryRequest) *models.GetHealthDataResult {
	rows, err := p.store.QuerySamples(ctx, req.Identifier, req.Start, req.End, req.Limit, req.Ascending)
	if err != nil {
		p.log.Error("sample query failed", "identifier", req.Identifier, "error", err)
		return provider.QueryFailure(queryFailureCode(err), err.Error())
	}

	samples := make([]models.Sample, 0, len(rows))
	for _, r := range rows {
		samples = append(samples, normalizeCategory(r))
	}
	return provider.QuerySuccess(samples)
}

func (p *Provider) queryExercise(ctx context.Context, req provider.QueryRequest) *models.GetHealthDataResult {
	rows, err := p.store.QueryExerciseSessions(ctx, req.Start, req.End, req.Limit, req.Ascending)
	if err != nil {
		p.log.Error("exercise query failed", "error", err)
		return provider.QueryFailure(queryFailureCode(err), err.Error())
	}

	samples := make([]models.Sample, 0, len(rows))
	for _, r := range rows {
		samples = append(samples, normalizeExercise(r))
	}
	return provider.QuerySuccess(samples)
}
