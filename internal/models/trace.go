package models

import (
	"time"
)

// Trace represents one resolved request captured by the engine.
type Trace struct {
	ID        string        `json:"id"`
	HandlerID string        `json:"handlerId"`
	Source    string        `json:"source"`
	Method    string        `json:"method"`
	Pattern   string        `json:"pattern"`
	Timestamp time.Time     `json:"timestamp"`
	Duration  int64         `json:"duration"` // nanoseconds, including replay delay
	Request   TraceRequest  `json:"request"`
	Response  TraceResponse `json:"response"`
}

// TraceRequest is the captured request side of a trace.
type TraceRequest struct {
	Method  string              `json:"method"`
	URL     string              `json:"url"`
	Path    string              `json:"path"`
	Query   map[string][]string `json:"query"`
	Headers map[string][]string `json:"headers"`
}

// TraceResponse is the captured response side of a trace.
type TraceResponse struct {
	StatusCode int           `json:"statusCode"`
	Headers    []HeaderValue `json:"headers"`
	Body       string        `json:"body"`
}

// TraceFilter selects traces when querying the trace service.
type TraceFilter struct {
	HandlerID  string    `json:"handlerId,omitempty"`
	Source     string    `json:"source,omitempty"`
	Method     string    `json:"method,omitempty"`
	StatusCode int       `json:"statusCode,omitempty"`
	StartTime  time.Time `json:"startTime,omitempty"`
	EndTime    time.Time `json:"endTime,omitempty"`
	Limit      int       `json:"limit,omitempty"`
}
