// Package engine is the interception runtime: it accepts handler
// registrations keyed by (method, url pattern) and dispatches incoming
// requests to the first matching handler's resolver.
package engine

import (
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/specmock/specmock/internal/models"
	"github.com/specmock/specmock/internal/stats"
	"github.com/specmock/specmock/internal/tracing"
)

// Engine dispatches intercepted requests to registered handlers.
type Engine struct {
	statsCollector *stats.Collector
	tracingService *tracing.Service

	mu     sync.RWMutex
	routes map[string][]*route // method -> routes, in registration order
}

// route is one compiled registration.
type route struct {
	handler *models.Handler
	host    string // matched only when the pattern was absolute
	pattern *regexp.Regexp
}

// New creates an engine. Collector and tracing service may be nil.
func New(statsCollector *stats.Collector, tracingService *tracing.Service) *Engine {
	return &Engine{
		statsCollector: statsCollector,
		tracingService: tracingService,
		routes:         make(map[string][]*route),
	}
}

// Register compiles and installs a handler. Handlers are matched in
// registration order: the first match wins, so archive-order registration
// gives archive-order dispatch semantics.
func (e *Engine) Register(h *models.Handler) error {
	host, pattern, err := compilePattern(h.URLPattern)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	method := strings.ToUpper(h.Method)
	e.routes[method] = append(e.routes[method], &route{
		handler: h,
		host:    host,
		pattern: pattern,
	})
	return nil
}

// RegisterAll registers handlers in order, stopping at the first error.
func (e *Engine) RegisterAll(handlers []*models.Handler) error {
	for _, h := range handlers {
		if err := e.Register(h); err != nil {
			return err
		}
	}
	return nil
}

var paramPattern = regexp.MustCompile(`:([A-Za-z0-9_]+)`)

// compilePattern builds the matcher for a URL pattern. ":name" segments
// match a single path segment, "*" matches any run of characters, and an
// absolute pattern additionally pins the host.
func compilePattern(urlPattern string) (host string, re *regexp.Regexp, err error) {
	pathPart := urlPattern
	if u, perr := url.Parse(urlPattern); perr == nil && u.IsAbs() {
		host = u.Host
		pathPart = u.Path
	}
	if pathPart == "" {
		pathPart = "/"
	}

	escaped := regexp.QuoteMeta(pathPart)
	result := paramPattern.ReplaceAllString(escaped, `([^/]+)`)
	// QuoteMeta turned "*" into `\*`.
	result = strings.ReplaceAll(result, `\*`, `.*`)

	re, err = regexp.Compile("^" + result + "$")
	return host, re, err
}

// ServeHTTP dispatches an intercepted request. A miss is a 404; a match runs
// the handler's resolver, applies any replay delay without blocking other
// in-flight requests, and writes the descriptor.
func (e *Engine) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()

	e.mu.RLock()
	matched := e.matchRoute(r.Method, r.Host, r.URL.Path)
	e.mu.RUnlock()

	if matched == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": "no handler registered for request"}`))
		return
	}

	d := matched.handler.Resolve(r)
	if d == nil {
		d = &models.Descriptor{Status: http.StatusNotImplemented}
	}

	// Timed completion, not a busy wait: the goroutine serving this request
	// parks while other requests keep resolving.
	if d.Delay > 0 {
		select {
		case <-time.After(d.Delay):
		case <-r.Context().Done():
			return
		}
	}

	for _, h := range d.Headers {
		w.Header().Add(h.Name, h.Value)
	}
	status := d.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if len(d.Body) > 0 {
		w.Write(d.Body)
	}

	duration := time.Since(startTime)
	if e.statsCollector != nil {
		e.statsCollector.RecordRequest(matched.handler, duration, status)
	}
	if e.tracingService != nil {
		e.tracingService.RecordTrace(&models.Trace{
			HandlerID: matched.handler.ID,
			Source:    matched.handler.Source,
			Method:    matched.handler.Method,
			Pattern:   matched.handler.URLPattern,
			Timestamp: startTime,
			Duration:  duration.Nanoseconds(),
			Request: models.TraceRequest{
				Method:  r.Method,
				URL:     r.URL.String(),
				Path:    r.URL.Path,
				Query:   r.URL.Query(),
				Headers: r.Header,
			},
			Response: models.TraceResponse{
				StatusCode: status,
				Headers:    d.Headers,
				Body:       string(d.Body),
			},
		})
	}
}

// Handler returns an http.Handler for the engine.
func (e *Engine) Handler() http.Handler {
	return http.HandlerFunc(e.ServeHTTP)
}

// matchRoute finds the first registered route matching the request.
func (e *Engine) matchRoute(method, requestHost, requestPath string) *route {
	for _, rt := range e.routes[strings.ToUpper(method)] {
		if rt.host != "" && !strings.EqualFold(rt.host, requestHost) {
			continue
		}
		if rt.pattern.MatchString(requestPath) {
			return rt
		}
	}
	return nil
}

// Routes returns the registered handlers, grouped by method in sorted order,
// preserving registration order within each method.
func (e *Engine) Routes() []models.Handler {
	e.mu.RLock()
	defer e.mu.RUnlock()

	methods := make([]string, 0, len(e.routes))
	for method := range e.routes {
		methods = append(methods, method)
	}
	sort.Strings(methods)

	var out []models.Handler
	for _, method := range methods {
		for _, rt := range e.routes[method] {
			out = append(out, *rt.handler)
		}
	}
	return out
}
