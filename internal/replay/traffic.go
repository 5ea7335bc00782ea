// Package replay turns recorded exchanges into interception handlers that
// play back the recorded response, reproducing recorded latency.
package replay

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/specmock/specmock/internal/models"
)

// Rewrite canonicalizes a recorded URL before it is registered as a pattern,
// e.g. to erase host/port differences between recording time and replay time.
type Rewrite func(url string) string

// Handlers converts exchanges into handlers, one per exchange, in archive
// order. Exchanges sharing (method, url) each get their own handler; the
// engine's first-match dispatch decides which one answers.
func Handlers(exchanges []models.Exchange, rewrite Rewrite) []*models.Handler {
	handlers := make([]*models.Handler, 0, len(exchanges))
	for _, ex := range exchanges {
		pattern := ex.URL
		if rewrite != nil {
			pattern = rewrite(pattern)
		}
		handlers = append(handlers, &models.Handler{
			ID:         uuid.New().String(),
			Source:     models.SourceArchive,
			Method:     ex.Method,
			URLPattern: stripQuery(pattern),
			Resolve:    exchangeResolver(ex),
		})
	}
	return handlers
}

// exchangeResolver replays the recorded exchange verbatim. There is no
// failure path: absent data is replayed as absent, never synthesized. The
// recorded elapsed time rides along as the descriptor delay.
func exchangeResolver(ex models.Exchange) models.Resolver {
	return func(*http.Request) *models.Descriptor {
		status := ex.Status
		if status == 0 {
			status = http.StatusOK
		}
		return &models.Descriptor{
			Status:  status,
			Headers: ex.ResponseHeaders,
			Body:    ex.Body,
			Delay:   ex.Timing,
		}
	}
}

// StripHost returns a rewrite that reduces an absolute URL to its path,
// making pattern matching host-agnostic.
func StripHost() Rewrite {
	return func(raw string) string {
		u, err := url.Parse(raw)
		if err != nil || !u.IsAbs() {
			return raw
		}
		if u.Path == "" {
			return "/"
		}
		return u.Path
	}
}

// ReplaceHost returns a rewrite that substitutes the host component of
// absolute URLs, e.g. to point recorded production traffic at localhost.
func ReplaceHost(host string) Rewrite {
	return func(raw string) string {
		u, err := url.Parse(raw)
		if err != nil || !u.IsAbs() {
			return raw
		}
		u.Host = host
		return u.String()
	}
}

// Chain composes rewrites left to right.
func Chain(rewrites ...Rewrite) Rewrite {
	return func(raw string) string {
		for _, rw := range rewrites {
			if rw != nil {
				raw = rw(raw)
			}
		}
		return raw
	}
}

func stripQuery(raw string) string {
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		return raw[:i]
	}
	return raw
}
