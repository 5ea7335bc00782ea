package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/specmock/specmock/internal/engine"
	"github.com/specmock/specmock/internal/models"
	"github.com/specmock/specmock/internal/stats"
	"github.com/specmock/specmock/internal/tracing"
)

func setupTestRouter(t *testing.T) (*Router, *engine.Engine, *tracing.Service) {
	t.Helper()

	collector := stats.NewCollector()
	tracingSvc := tracing.NewService(100)
	mockEngine := engine.New(collector, tracingSvc)

	err := mockEngine.Register(&models.Handler{
		ID:         "h1",
		Source:     models.SourceArchive,
		Method:     "GET",
		URLPattern: "/users",
		Resolve: func(*http.Request) *models.Descriptor {
			return &models.Descriptor{
				Status:  200,
				Headers: []models.HeaderValue{{Name: "Content-Type", Value: "application/json"}},
				Body:    []byte(`[]`),
			}
		},
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	return NewRouter(mockEngine, collector, tracingSvc), mockEngine, tracingSvc
}

func doRequest(router *Router, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.Handler().ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestRouter_InterceptedRequest(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	w := doRequest(router, "GET", "/users")
	if w.Code != 200 {
		t.Errorf("Expected 200, got %d", w.Code)
	}
	if w.Body.String() != "[]" {
		t.Errorf("Expected mock body, got %q", w.Body.String())
	}
}

func TestRouter_InterceptedMiss(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	w := doRequest(router, "GET", "/nope")
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}

func TestListHandlers(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	w := doRequest(router, "GET", "/_api/handlers")
	if w.Code != 200 {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var handlers []models.Handler
	if err := json.Unmarshal(w.Body.Bytes(), &handlers); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(handlers) != 1 || handlers[0].ID != "h1" {
		t.Errorf("Unexpected handlers: %v", handlers)
	}
}

func TestGetGlobalStats(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	// Drive one intercepted request so there is something to report.
	doRequest(router, "GET", "/users")

	w := doRequest(router, "GET", "/_api/stats")
	if w.Code != 200 {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var global models.GlobalStats
	if err := json.Unmarshal(w.Body.Bytes(), &global); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if global.TotalRequests != 1 {
		t.Errorf("Expected 1 total request, got %d", global.TotalRequests)
	}
	if global.TotalHandlers != 1 {
		t.Errorf("Expected 1 handler, got %d", global.TotalHandlers)
	}
}

func TestGetHandlerStats(t *testing.T) {
	router, _, _ := setupTestRouter(t)
	doRequest(router, "GET", "/users")

	w := doRequest(router, "GET", "/_api/stats/handlers/h1")
	if w.Code != 200 {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var stat models.HandlerStat
	if err := json.Unmarshal(w.Body.Bytes(), &stat); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if stat.HandlerID != "h1" || stat.TotalRequests != 1 {
		t.Errorf("Unexpected stat: %+v", stat)
	}

	w = doRequest(router, "GET", "/_api/stats/handlers/missing")
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown handler, got %d", w.Code)
	}
}

func TestResetStats(t *testing.T) {
	router, _, _ := setupTestRouter(t)
	doRequest(router, "GET", "/users")

	w := doRequest(router, "POST", "/_api/stats/reset")
	if w.Code != 200 {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	w = doRequest(router, "GET", "/_api/stats")
	var global models.GlobalStats
	json.Unmarshal(w.Body.Bytes(), &global)
	if global.TotalRequests != 0 {
		t.Errorf("Expected stats reset, got %d requests", global.TotalRequests)
	}
}

func TestListTraces(t *testing.T) {
	router, _, _ := setupTestRouter(t)
	doRequest(router, "GET", "/users")
	doRequest(router, "GET", "/users")

	w := doRequest(router, "GET", "/_api/traces")
	if w.Code != 200 {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var traces []models.Trace
	if err := json.Unmarshal(w.Body.Bytes(), &traces); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(traces) != 2 {
		t.Errorf("Expected 2 traces, got %d", len(traces))
	}

	w = doRequest(router, "GET", "/_api/traces?limit=1")
	traces = nil
	json.Unmarshal(w.Body.Bytes(), &traces)
	if len(traces) != 1 {
		t.Errorf("Expected limit honored, got %d traces", len(traces))
	}

	w = doRequest(router, "GET", "/_api/traces?method=POST")
	traces = nil
	json.Unmarshal(w.Body.Bytes(), &traces)
	if len(traces) != 0 {
		t.Errorf("Expected method filter to exclude traces, got %d", len(traces))
	}
}

func TestGetTrace(t *testing.T) {
	router, _, tracingSvc := setupTestRouter(t)
	doRequest(router, "GET", "/users")

	recorded := tracingSvc.GetTraces(nil)
	if len(recorded) == 0 {
		t.Fatal("Expected a recorded trace")
	}

	w := doRequest(router, "GET", "/_api/traces/"+recorded[0].ID)
	if w.Code != 200 {
		t.Errorf("Expected 200, got %d", w.Code)
	}

	w = doRequest(router, "GET", "/_api/traces/missing")
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown trace, got %d", w.Code)
	}
}

func TestClearTraces(t *testing.T) {
	router, _, tracingSvc := setupTestRouter(t)
	doRequest(router, "GET", "/users")

	w := doRequest(router, "DELETE", "/_api/traces")
	if w.Code != 200 {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if len(tracingSvc.GetTraces(nil)) != 0 {
		t.Error("Expected traces cleared")
	}
}

func TestHealthCheck(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	w := doRequest(router, "GET", "/_api/health")
	if w.Code != 200 {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var body map[string]any
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["status"] != "ok" {
		t.Errorf("Unexpected health payload: %v", body)
	}
}
