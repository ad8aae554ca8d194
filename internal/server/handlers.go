package server

import (
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/claude/healthbridge/internal/bridge"
	"github.com/claude/healthbridge/internal/idmap"
	"github.com/claude/healthbridge/internal/models"
	"github.com/claude/healthbridge/internal/observability"
	"github.com/claude/healthbridge/internal/sync"
)

func (s *Server) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	result := s.bridge.Authorize(r.Context())
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealthData(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := models.HealthDataQuery{
		Identifier:  q.Get("identifier"),
		StartDate:   q.Get("startDate"),
		EndDate:     q.Get("endDate"),
		Aggregation: q.Get("aggregation"),
	}
	if v := q.Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 {
			query.Limit = limit
		}
	}
	if v := q.Get("ascending"); v != "" {
		if asc, err := strconv.ParseBool(v); err == nil {
			query.Ascending = &asc
		}
	}

	result := s.bridge.GetHealthData(r.Context(), query)

	code := ""
	if result.Error != nil {
		code = result.Error.Code
	}
	observability.RecordQuery(string(s.bridge.Platform()), code, len(result.Data))

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleIdentifiers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"platform":    s.bridge.Platform(),
		"identifiers": s.bridge.SupportedIdentifiers(),
		"unified":     idmap.UnifiedIdentifiers(),
	})
}

func (s *Server) handleIdentifierLookup(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	writeJSON(w, http.StatusOK, map[string]any{
		"identifier":         id,
		"valid":              s.bridge.IsValidIdentifier(id),
		"platformIdentifier": s.bridge.PlatformIdentifier(id),
	})
}

func (s *Server) handleDateRange(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	dr, err := bridge.CreateDateRange(period)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, dr)
}

func (s *Server) handleSyncStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.bridge.GetBackgroundSyncStatus())
}

func (s *Server) handleSyncRegister(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.bridge.RegisterBackgroundTaskHandler())
}

func (s *Server) handleSyncEnable(w http.ResponseWriter, r *http.Request) {
	var req sync.EnableRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, s.bridge.EnableBackgroundSync(req))
}

func (s *Server) handleSyncDisable(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.bridge.DisableBackgroundSync())
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if s.importer == nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "no import target on this platform"})
		return
	}

	body := io.Reader(r.Body)
	if strings.EqualFold(r.Header.Get("Content-Encoding"), "gzip") {
		zr, err := gzip.NewReader(r.Body)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid gzip body: " + err.Error()})
			return
		}
		defer zr.Close()
		body = zr
	}

	var payload models.HAEPayload
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	summary, err := s.importer.Import(r.Context(), &payload)
	if err != nil {
		s.log.Error("import error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
