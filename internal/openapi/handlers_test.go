package openapi

import (
	"net/http/httptest"
	"testing"

	"github.com/specmock/specmock/internal/models"
)

func TestHandlers(t *testing.T) {
	doc := `
openapi: "3.0.0"
info:
  title: Multi
  version: "1.0"
servers:
  - url: https://a.example.com/v1
  - url: /v1
paths:
  /pets/{petId}:
    parameters:
      - name: petId
        in: path
        required: true
        schema:
          type: string
    get:
      responses:
        "200":
          description: ok
          content:
            application/json:
              example: {"name": "rex"}
`
	d, err := Load([]byte(doc))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	handlers, err := Handlers(d)
	if err != nil {
		t.Fatalf("Handlers failed: %v", err)
	}

	// One handler per declared server root.
	if len(handlers) != 2 {
		t.Fatalf("Expected 2 handlers, got %d", len(handlers))
	}
	if handlers[0].URLPattern != "https://a.example.com/v1/pets/:petId" {
		t.Errorf("Unexpected first pattern: %s", handlers[0].URLPattern)
	}
	if handlers[1].URLPattern != "/v1/pets/:petId" {
		t.Errorf("Unexpected second pattern: %s", handlers[1].URLPattern)
	}

	for _, h := range handlers {
		if h.Source != models.SourceOpenAPI {
			t.Errorf("Expected source %s, got %s", models.SourceOpenAPI, h.Source)
		}
		if h.Method != "GET" {
			t.Errorf("Expected method GET, got %s", h.Method)
		}
		if h.ID == "" {
			t.Error("Expected a handler ID")
		}
	}

	// Both handlers resolve through the same operation.
	req := httptest.NewRequest("GET", "/v1/pets/1", nil)
	d1 := handlers[0].Resolve(req)
	d2 := handlers[1].Resolve(req)
	if string(d1.Body) != `{"name":"rex"}` {
		t.Errorf("Unexpected body: %s", d1.Body)
	}
	if string(d1.Body) != string(d2.Body) {
		t.Error("Expected identical resolution across server roots")
	}
}
