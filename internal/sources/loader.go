// Package sources turns the configured declarative inputs, HAR traffic
// archives and OpenAPI documents, into handlers ready for registration.
package sources

import (
	"fmt"
	"log"

	"github.com/specmock/specmock/internal/archive"
	"github.com/specmock/specmock/internal/config"
	"github.com/specmock/specmock/internal/models"
	"github.com/specmock/specmock/internal/openapi"
	"github.com/specmock/specmock/internal/replay"
)

// Load reads every configured archive and spec and returns the combined
// handler list. Archive handlers come first, in file and entry order, then
// spec handlers in file and declaration order.
func Load(cfg config.SourcesConfig) ([]*models.Handler, error) {
	rewrite := rewriteChain(cfg.Rewrite)

	var handlers []*models.Handler

	for _, path := range cfg.Archives {
		exchanges, err := archive.Load(path, archive.Options{IncludeStatic: cfg.IncludeStatic})
		if err != nil {
			return nil, fmt.Errorf("load archive %s: %w", path, err)
		}
		hs := replay.Handlers(exchanges, rewrite)
		log.Printf("Loaded %d handlers from archive %s", len(hs), path)
		handlers = append(handlers, hs...)
	}

	for _, path := range cfg.Specs {
		doc, err := openapi.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load spec %s: %w", path, err)
		}
		hs, err := openapi.Handlers(doc)
		if err != nil {
			return nil, fmt.Errorf("build handlers for spec %s: %w", path, err)
		}
		log.Printf("Loaded %d handlers from spec %s (%s)", len(hs), path, doc.Title())
		handlers = append(handlers, hs...)
	}

	return handlers, nil
}

// rewriteChain builds the recorded-URL rewrite from configuration. Host
// replacement runs before host stripping so an explicit host wins only when
// stripping is off.
func rewriteChain(cfg config.RewriteConfig) replay.Rewrite {
	var rewrites []replay.Rewrite
	if cfg.Host != "" {
		rewrites = append(rewrites, replay.ReplaceHost(cfg.Host))
	}
	if cfg.StripHost {
		rewrites = append(rewrites, replay.StripHost())
	}
	return replay.Chain(rewrites...)
}
