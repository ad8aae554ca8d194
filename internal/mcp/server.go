package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("HealthBridge", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("HealthBridge cross-platform health data server. Query normalized samples from the device health store, request read authorization, and inspect background sync. Operations never fail as tool errors: failures come back as JSON results with success=false and a machine-readable error code."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetHealthData, Handler: h.getHealthData},
		server.ServerTool{Tool: toolAuthorize, Handler: h.authorize},
		server.ServerTool{Tool: toolListIdentifiers, Handler: h.listIdentifiers},
		server.ServerTool{Tool: toolGetBackgroundSyncStatus, Handler: h.getBackgroundSyncStatus},
		server.ServerTool{Tool: toolCreateDateRange, Handler: h.createDateRange},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resIdentifierCatalog, Handler: h.identifierCatalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resIdentifierCatalog = mcp.NewResource(
	"healthbridge://identifier_catalog",
	"Identifier Catalog",
	mcp.WithResourceDescription("All health data identifiers the active platform supports, in its native vocabulary"),
	mcp.WithMIMEType("application/json"),
)
