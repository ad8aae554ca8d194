package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/claude/healthbridge/internal/models"
)

// TestHTTPClientGetHealthData verifies the query parameters sent to the
// REST API and the decoding of a resolved result.
func TestHTTPClientGetHealthData(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/health-data" {
			t.Errorf("path = %s", r.URL.Path)
		}
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		json.NewEncoder(w).Encode(models.GetHealthDataResult{
			Success: true,
			Data: []models.Sample{
				{Type: "HKQuantityTypeIdentifierStepCount", Unit: "count", Value: 500.0},
			},
		})
	}))
	defer srv.Close()

	asc := false
	c := NewHTTPClient(srv.URL)
	result, err := c.GetHealthData(context.Background(), models.HealthDataQuery{
		Identifier:  "stepCount",
		StartDate:   "2024-01-01T00:00:00Z",
		EndDate:     "2024-01-02T00:00:00Z",
		Aggregation: "daily",
		Limit:       10,
		Ascending:   &asc,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotQuery["identifier"] != "stepCount" {
		t.Errorf("identifier param = %q", gotQuery["identifier"])
	}
	if gotQuery["aggregation"] != "daily" {
		t.Errorf("aggregation param = %q", gotQuery["aggregation"])
	}
	if gotQuery["limit"] != "10" {
		t.Errorf("limit param = %q", gotQuery["limit"])
	}
	if gotQuery["ascending"] != "false" {
		t.Errorf("ascending param = %q", gotQuery["ascending"])
	}
	if !result.Success || len(result.Data) != 1 {
		t.Fatalf("result = %+v", result)
	}
}

// TestHTTPClientCodedFailurePassesThrough verifies a success=false body
// decodes as a resolved result, not a transport error.
func TestHTTPClientCodedFailurePassesThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.GetHealthDataResult{
			Success: false,
			Data:    []models.Sample{},
			Error:   models.NewError(models.ErrUnsupportedIdentifier, "unknown identifier"),
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	result, err := c.GetHealthData(context.Background(), models.HealthDataQuery{
		Identifier: "bogus",
		StartDate:  "2024-01-01T00:00:00Z",
		EndDate:    "2024-01-02T00:00:00Z",
	})
	if err != nil {
		t.Fatalf("unexpected transport error: %v", err)
	}
	if result.Success {
		t.Fatal("expected resolved failure")
	}
	if result.Error == nil || result.Error.Code != models.ErrUnsupportedIdentifier {
		t.Fatalf("error = %v", result.Error)
	}
	if result.Data == nil || len(result.Data) != 0 {
		t.Fatalf("data = %v, want empty array", result.Data)
	}
}

// TestHTTPClientAuthorize verifies the authorize POST round trip.
func TestHTTPClientAuthorize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		json.NewEncoder(w).Encode(models.AuthorizeResult{
			Success: true,
			Granted: []string{"HKQuantityTypeIdentifierStepCount"},
			Denied:  []string{},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	result, err := c.Authorize(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success || len(result.Granted) != 1 {
		t.Fatalf("result = %+v", result)
	}
}

// TestHTTPClientServerError verifies non-200 responses surface as errors.
func TestHTTPClientServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	if _, err := c.ListIdentifiers(context.Background()); err == nil {
		t.Fatal("expected error for 500 response")
	}
}
