package mcp

import (
	"context"

	"github.com/claude/healthbridge/internal/bridge"
	"github.com/claude/healthbridge/internal/idmap"
	"github.com/claude/healthbridge/internal/models"
)

// IdentifierCatalog is the identifier inventory exposed to MCP clients:
// the platform-native identifiers plus the unified names that map onto
// them.
type IdentifierCatalog struct {
	Platform    string   `json:"platform"`
	Identifiers []string `json:"identifiers"`
	Unified     []string `json:"unified"`
}

// DataSource abstracts the bridge for MCP tools. Both the in-process
// bridge (local mode) and HTTPClient (remote via REST API) satisfy this
// interface. The error return carries transport failures only; bridge
// failures always arrive as resolved results with coded errors.
type DataSource interface {
	Authorize(ctx context.Context) (*models.AuthorizeResult, error)
	GetHealthData(ctx context.Context, q models.HealthDataQuery) (*models.GetHealthDataResult, error)
	ListIdentifiers(ctx context.Context) (*IdentifierCatalog, error)
	SyncStatus(ctx context.Context) (*models.SyncStatus, error)
}

// LocalSource adapts an in-process bridge to the DataSource interface.
type LocalSource struct {
	Bridge *bridge.Bridge
}

// Compile-time check: *LocalSource satisfies DataSource.
var _ DataSource = (*LocalSource)(nil)

func (s *LocalSource) Authorize(ctx context.Context) (*models.AuthorizeResult, error) {
	return s.Bridge.Authorize(ctx), nil
}

func (s *LocalSource) GetHealthData(ctx context.Context, q models.HealthDataQuery) (*models.GetHealthDataResult, error) {
	return s.Bridge.GetHealthData(ctx, q), nil
}

func (s *LocalSource) ListIdentifiers(_ context.Context) (*IdentifierCatalog, error) {
	return &IdentifierCatalog{
		Platform:    string(s.Bridge.Platform()),
		Identifiers: s.Bridge.SupportedIdentifiers(),
		Unified:     idmap.UnifiedIdentifiers(),
	}, nil
}

func (s *LocalSource) SyncStatus(_ context.Context) (*models.SyncStatus, error) {
	return s.Bridge.GetBackgroundSyncStatus(), nil
}
