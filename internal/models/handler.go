package models

import (
	"net/http"
	"time"
)

// Sources of resolved handlers.
const (
	SourceArchive = "archive"
	SourceOpenAPI = "openapi"
)

// Resolver computes a response descriptor from an intercepted request. It is
// a pure function of the request and the handler's declarative source: no
// shared mutable state, safe for concurrent invocation.
type Resolver func(r *http.Request) *Descriptor

// Handler is the unit registered with the interception engine: a resolver
// bound to an HTTP method and URL pattern.
type Handler struct {
	ID         string   `json:"id"`
	Source     string   `json:"source"` // "archive" or "openapi"
	Method     string   `json:"method"`
	URLPattern string   `json:"urlPattern"`
	Resolve    Resolver `json:"-"`
}

// Descriptor describes the response a resolver decided on: status, headers in
// emission order, body, and an optional transport delay applied before the
// response is delivered.
type Descriptor struct {
	Status  int
	Headers []HeaderValue
	Body    []byte
	Delay   time.Duration
}

// AddHeader appends a header to the descriptor.
func (d *Descriptor) AddHeader(name, value string) {
	d.Headers = append(d.Headers, HeaderValue{Name: name, Value: value})
}

// HasHeader reports whether the descriptor already carries the named header.
func (d *Descriptor) HasHeader(name string) bool {
	_, ok := Header(d.Headers, name)
	return ok
}
