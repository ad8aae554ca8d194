package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/healthbridge/internal/bridge"
	"github.com/claude/healthbridge/internal/models"
)

// defaultDateRange returns wire-format start/end strings defaulting to
// the last 7 days. Explicit values pass through untouched so the bridge
// gets to apply its own validation.
func defaultDateRange(startStr, endStr string) (string, string) {
	if startStr != "" && endStr != "" {
		return startStr, endStr
	}
	now := time.Now().UTC()
	if endStr == "" {
		endStr = models.FormatISO(now)
	}
	if startStr == "" {
		startStr = models.FormatISO(now.AddDate(0, 0, -7))
	}
	return startStr, endStr
}

// --- Tool definitions ---

var toolGetHealthData = mcp.NewTool("get_health_data",
	mcp.WithDescription("Query normalized health samples for one identifier. Accepts unified identifiers (e.g. stepCount, heartRate, sleepAnalysis) or platform-native ones. Returns {success, data, error} where data is always an array."),
	mcp.WithString("identifier", mcp.Required(), mcp.Description("Data type identifier (e.g. stepCount, heartRate, sleepAnalysis, workout)")),
	mcp.WithString("startDate", mcp.Description("Range start, ISO 8601 (YYYY-MM-DDTHH:mm:ss[.sss]Z). Defaults to 7 days ago.")),
	mcp.WithString("endDate", mcp.Description("Range end, exclusive. Defaults to now.")),
	mcp.WithString("aggregation", mcp.Description("Bucket quantity samples. Defaults to raw."), mcp.Enum("raw", "hourly", "daily", "weekly", "monthly")),
	mcp.WithNumber("limit", mcp.Description("Maximum samples to return. Unlimited when omitted.")),
	mcp.WithBoolean("ascending", mcp.Description("Sort by start date ascending (default true).")),
)

var toolAuthorize = mcp.NewTool("authorize",
	mcp.WithDescription("Request read permission for all supported identifiers on the active platform. Returns granted and denied identifier lists."),
)

var toolListIdentifiers = mcp.NewTool("list_identifiers",
	mcp.WithDescription("List the active platform's supported identifiers in its native vocabulary."),
)

var toolGetBackgroundSyncStatus = mcp.NewTool("get_background_sync_status",
	mcp.WithDescription("Report whether background sync is enabled and when it last completed."),
)

var toolCreateDateRange = mcp.NewTool("create_date_range",
	mcp.WithDescription("Build a ready-to-query {startDate, endDate} pair for a named period."),
	mcp.WithString("period", mcp.Required(), mcp.Description("One of: today, yesterday, week, month, year"), mcp.Enum("today", "yesterday", "week", "month", "year")),
)

// --- Tool handlers ---

func (h *handlers) getHealthData(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	identifier, err := req.RequireString("identifier")
	if err != nil {
		return mcp.NewToolResultError("identifier parameter is required"), nil
	}

	start, end := defaultDateRange(req.GetString("startDate", ""), req.GetString("endDate", ""))
	query := models.HealthDataQuery{
		Identifier:  identifier,
		StartDate:   start,
		EndDate:     end,
		Aggregation: req.GetString("aggregation", ""),
	}
	if limit := req.GetInt("limit", 0); limit > 0 {
		query.Limit = limit
	}
	if !req.GetBool("ascending", true) {
		asc := false
		query.Ascending = &asc
	}

	result, err := h.ds.GetHealthData(ctx, query)
	if err != nil {
		h.log.Error("mcp get_health_data", "error", err)
		return mcp.NewToolResultError("bridge unreachable: " + err.Error()), nil
	}
	return toolJSON(result)
}

func (h *handlers) authorize(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := h.ds.Authorize(ctx)
	if err != nil {
		h.log.Error("mcp authorize", "error", err)
		return mcp.NewToolResultError("bridge unreachable: " + err.Error()), nil
	}
	return toolJSON(result)
}

func (h *handlers) listIdentifiers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	catalog, err := h.ds.ListIdentifiers(ctx)
	if err != nil {
		h.log.Error("mcp list_identifiers", "error", err)
		return mcp.NewToolResultError("bridge unreachable: " + err.Error()), nil
	}
	return toolJSON(catalog)
}

func (h *handlers) getBackgroundSyncStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := h.ds.SyncStatus(ctx)
	if err != nil {
		h.log.Error("mcp get_background_sync_status", "error", err)
		return mcp.NewToolResultError("bridge unreachable: " + err.Error()), nil
	}
	return toolJSON(status)
}

func (h *handlers) createDateRange(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	period, err := req.RequireString("period")
	if err != nil {
		return mcp.NewToolResultError("period parameter is required"), nil
	}

	dr, err := bridge.CreateDateRange(period)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolJSON(dr)
}

// --- Resource handlers ---

func (h *handlers) identifierCatalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	catalog, err := h.ds.ListIdentifiers(ctx)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func toolJSON(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
