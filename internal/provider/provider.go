// Package provider defines the capability every platform implementation
// exposes to the facade: authorize, query. Results are always resolved
// objects; a provider never returns a Go error to the facade.
package provider

import (
	"context"
	"time"

	"github.com/claude/healthbridge/internal/idmap"
	"github.com/claude/healthbridge/internal/models"
)

// QueryRequest is a query with the identifier already translated to the
// provider's native vocabulary and dates already parsed.
type QueryRequest struct {
	Identifier string // platform-native
	Start      time.Time
	End        time.Time
	Limit      int  // 0 = no limit
	Ascending  bool // order by start time
}

// Provider is one platform's implementation of the bridge capability.
type Provider interface {
	Platform() idmap.Platform
	Authorize(ctx context.Context) *models.AuthorizeResult
	Query(ctx context.Context, req QueryRequest) *models.GetHealthDataResult
}

// QueryFailure builds a failed query result. Data is an empty slice, not
// nil — callers receive [] on every failure path.
func QueryFailure(code, message string) *models.GetHealthDataResult {
	return &models.GetHealthDataResult{
		Success: false,
		Data:    []models.Sample{},
		Error:   models.NewError(code, message),
	}
}

// QuerySuccess builds a successful query result, normalizing nil data to
// an empty slice.
func QuerySuccess(data []models.Sample) *models.GetHealthDataResult {
	if data == nil {
		data = []models.Sample{}
	}
	return &models.GetHealthDataResult{Success: true, Data: data}
}
