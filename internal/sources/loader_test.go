package sources

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/specmock/specmock/internal/config"
	"github.com/specmock/specmock/internal/models"
)

const sessionHAR = `{
	"log": {
		"version": "1.2",
		"entries": [{
			"request": {"method": "GET", "url": "https://api.example.com/users"},
			"response": {
				"status": 200,
				"headers": [{"name": "Content-Type", "value": "application/json"}],
				"content": {"text": "[]"}
			}
		}]
	}
}`

const petstoreSpec = `
openapi: "3.0.0"
info:
  title: Petstore
  version: "1.0"
paths:
  /pets:
    get:
      responses:
        "200":
          description: ok
          content:
            application/json:
              example: []
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	harPath := writeFile(t, dir, "session.har", sessionHAR)
	specPath := writeFile(t, dir, "petstore.yaml", petstoreSpec)

	handlers, err := Load(config.SourcesConfig{
		Archives: []string{harPath},
		Specs:    []string{specPath},
		Rewrite:  config.RewriteConfig{StripHost: true},
	})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(handlers) != 2 {
		t.Fatalf("Expected 2 handlers, got %d", len(handlers))
	}

	// Archive handlers come first, with hosts stripped.
	if handlers[0].Source != models.SourceArchive {
		t.Errorf("Expected archive handler first, got %s", handlers[0].Source)
	}
	if handlers[0].URLPattern != "/users" {
		t.Errorf("Expected stripped pattern /users, got %s", handlers[0].URLPattern)
	}

	if handlers[1].Source != models.SourceOpenAPI {
		t.Errorf("Expected spec handler second, got %s", handlers[1].Source)
	}
	if handlers[1].URLPattern != "/pets" {
		t.Errorf("Expected pattern /pets, got %s", handlers[1].URLPattern)
	}
}

func TestLoad_KeepHost(t *testing.T) {
	dir := t.TempDir()
	harPath := writeFile(t, dir, "session.har", sessionHAR)

	handlers, err := Load(config.SourcesConfig{
		Archives: []string{harPath},
		Rewrite:  config.RewriteConfig{Host: "localhost:8080"},
	})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if handlers[0].URLPattern != "https://localhost:8080/users" {
		t.Errorf("Expected replaced host kept, got %s", handlers[0].URLPattern)
	}
}

func TestLoad_MissingArchive(t *testing.T) {
	_, err := Load(config.SourcesConfig{Archives: []string{"/nonexistent.har"}})
	if err == nil {
		t.Fatal("Expected error for missing archive")
	}
}

func TestLoad_MissingSpec(t *testing.T) {
	_, err := Load(config.SourcesConfig{Specs: []string{"/nonexistent.yaml"}})
	if err == nil {
		t.Fatal("Expected error for missing spec")
	}
}

func TestLoad_InvalidSpec(t *testing.T) {
	dir := t.TempDir()
	specPath := writeFile(t, dir, "broken.yaml", "openapi: \"3.0.0\"\npaths: {}\n")

	_, err := Load(config.SourcesConfig{Specs: []string{specPath}})
	if err == nil {
		t.Fatal("Expected error for invalid spec")
	}
}
