// Package healthkit implements the iOS side of the bridge against a
// SQLite mirror of the HealthKit store.
package healthkit

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/claude/healthbridge/internal/idmap"
	"github.com/claude/healthbridge/internal/models"
	"github.com/claude/healthbridge/internal/provider"
)

// Provider answers authorization and query requests in HealthKit's
// vocabulary.
type Provider struct {
	store *Store
	log   *slog.Logger
}

// NewProvider creates a HealthKit provider over the given mirror store.
func NewProvider(store *Store, log *slog.Logger) *Provider {
	return &Provider{store: store, log: log}
}

// Platform returns the platform this provider serves.
func (p *Provider) Platform() idmap.Platform {
	return idmap.PlatformIOS
}

// Authorize issues one permission request covering the full identifier
// set. HealthKit reports only whole-set success or failure, so the full
// set lands in Granted or Denied, never split.
func (p *Provider) Authorize(ctx context.Context) *models.AuthorizeResult {
	ids := idmap.SupportedIdentifiers(idmap.PlatformIOS)

	if p.store == nil {
		return &models.AuthorizeResult{
			Success: false,
			Granted: []string{},
			Denied:  ids,
			Error:   models.NewError(models.ErrInternal, "health store is not available"),
		}
	}
	if err := ctx.Err(); err != nil {
		return &models.AuthorizeResult{
			Success: false,
			Granted: []string{},
			Denied:  ids,
			Error:   models.NewError(models.ErrInternal, fmt.Sprintf("authorization request failed: %v", err)),
		}
	}
	return &models.AuthorizeResult{Success: true, Granted: ids, Denied: []string{}}
}

// Query issues exactly one time-bounded read for the requested record
// type and normalizes the full result set. Every failure, including a
// panic below the store boundary, resolves into a coded result.
func (p *Provider) Query(ctx context.Context, req provider.QueryRequest) (res *models.GetHealthDataResult) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("healthkit query panic", "identifier", req.Identifier, "panic", r)
			res = provider.QueryFailure(models.ErrException, fmt.Sprintf("unexpected failure: %v", r))
		}
	}()

	if p.store == nil {
		return provider.QueryFailure(models.ErrInternal, "health store is not available")
	}

	switch {
	case req.Identifier == "HKWorkoutTypeIdentifier":
		return p.queryWorkouts(ctx, req)
	case strings.HasPrefix(req.Identifier, "HKQuantityTypeIdentifier"):
		return p.queryQuantity(ctx, req)
	case strings.HasPrefix(req.Identifier, "HKCategoryTypeIdentifier"):
		return p.queryCategory(ctx, req)
	default:
		return provider.QueryFailure(models.ErrUnsupportedIdentifier,
			fmt.Sprintf("identifier %q is not a supported HealthKit type", req.Identifier))
	}
}

func (p *Provider) queryQuantity(ctx context.Context, req provider.QueryRequest) *models.GetHealthDataResult {
	unified, ok := idmap.UnifiedFromHealthKit(req.Identifier)
	if !ok {
		return provider.QueryFailure(models.ErrUnsupportedIdentifier,
			fmt.Sprintf("identifier %q is not a supported HealthKit type", req.Identifier))
	}
	unit, ok := models.UnitFor(unified)
	if !ok {
		return provider.QueryFailure(models.ErrInternal,
			fmt.Sprintf("no unit registered for %q", unified))
	}

	rows, err := p.store.QueryQuantity(ctx, req.Identifier, req.Start, req.End, req.Limit, req.Ascending)
	if err != nil {
		p.log.Error("quantity query failed", "identifier", req.Identifier, "error", err)
		return provider.QueryFailure(models.ErrQuery, err.Error())
	}

	samples := make([]models.Sample, 0, len(rows))
	for _, r := range rows {
		samples = append(samples, normalizeQuantity(r, unit))
	}
	return provider.QuerySuccess(samples)
}

func (p *Provider) queryCategory(ctx context.Context, req provider.QueryRequest) *models.GetHealthDataResult {
	if _, ok := idmap.UnifiedFromHealthKit(req.Identifier); !ok {
		return provider.QueryFailure(models.ErrUnsupportedIdentifier,
			fmt.Sprintf("identifier %q is not a supported HealthKit type", req.Identifier))
	}

	rows, err := p.store.QueryCategory(ctx, req.Identifier, req.Start, req.End, req.Limit, req.Ascending)
	if err != nil {
		p.log.Error("category query failed", "identifier", req.Identifier, "error", err)
		return provider.QueryFailure(models.ErrQuery, err.Error())
	}

	samples := make([]models.Sample, 0, len(rows))
	for _, r := range rows {
		samples = append(samples, normalizeCategory(r))
	}
	return provider.QuerySuccess(samples)
}

func (p *Provider) queryWorkouts(ctx context.Context, req provider.QueryRequest) *models.GetHealthDataResult {
	rows, err := p.store.QueryWorkouts(ctx, req.Start, req.End, req.Limit, req.Ascending)
	if err != nil {
		p.log.Error("workout query failed", "error", err)
		return provider.QueryFailure(models.ErrQuery, err.Error())
	}

	samples := make([]models.Sample, 0, len(rows))
	for _, r := range rows {
		samples = append(samples, normalizeWorkout(r))
	}
	return provider.QuerySuccess(samples)
}
