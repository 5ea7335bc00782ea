package models

import (
	"sync/atomic"
	"time"
)

// GlobalStats aggregates statistics across all registered handlers.
type GlobalStats struct {
	TotalRequests     int64         `json:"totalRequests"`
	TotalErrors       int64         `json:"totalErrors"`
	TotalHandlers     int           `json:"totalHandlers"`
	AvgResponseTimeMs float64       `json:"avgResponseTimeMs"`
	RequestsPerSecond float64       `json:"requestsPerSecond"`
	StartTime         time.Time     `json:"startTime"`
	TopHandlers       []HandlerStat `json:"topHandlers"`
	RecentErrors      []ErrorStat   `json:"recentErrors"`
}

// HandlerStat is the per-handler request aggregate.
type HandlerStat struct {
	HandlerID         string  `json:"handlerId"`
	Source            string  `json:"source"`
	Method            string  `json:"method"`
	Pattern           string  `json:"pattern"`
	TotalRequests     int64   `json:"totalRequests"`
	TotalErrors       int64   `json:"totalErrors"`
	AvgResponseTimeMs float64 `json:"avgResponseTimeMs"`
	MinResponseTimeMs float64 `json:"minResponseTimeMs"`
	MaxResponseTimeMs float64 `json:"maxResponseTimeMs"`
	LastRequestTime   string  `json:"lastRequestTime,omitempty"`
}

// ErrorStat records one error response (status >= 400).
type ErrorStat struct {
	Timestamp  time.Time `json:"timestamp"`
	HandlerID  string    `json:"handlerId"`
	Method     string    `json:"method"`
	Pattern    string    `json:"pattern"`
	StatusCode int       `json:"statusCode"`
}

// AtomicHandlerStat is the lock-free accumulation form of HandlerStat.
type AtomicHandlerStat struct {
	HandlerID       string
	Source          string
	Method          string
	Pattern         string
	TotalRequests   atomic.Int64
	TotalErrors     atomic.Int64
	TotalTimeNs     atomic.Int64
	MinTimeNs       atomic.Int64
	MaxTimeNs       atomic.Int64
	LastRequestTime atomic.Value // stores time.Time
}

// ToHandlerStat converts the atomic form to a snapshot.
func (a *AtomicHandlerStat) ToHandlerStat() HandlerStat {
	totalReqs := a.TotalRequests.Load()
	totalTimeNs := a.TotalTimeNs.Load()
	var avgMs float64
	if totalReqs > 0 {
		avgMs = float64(totalTimeNs) / float64(totalReqs) / 1e6
	}

	var lastReqTime string
	if t, ok := a.LastRequestTime.Load().(time.Time); ok && !t.IsZero() {
		lastReqTime = t.Format(time.RFC3339)
	}

	return HandlerStat{
		HandlerID:         a.HandlerID,
		Source:            a.Source,
		Method:            a.Method,
		Pattern:           a.Pattern,
		TotalRequests:     totalReqs,
		TotalErrors:       a.TotalErrors.Load(),
		AvgResponseTimeMs: avgMs,
		MinResponseTimeMs: float64(a.MinTimeNs.Load()) / 1e6,
		MaxResponseTimeMs: float64(a.MaxTimeNs.Load()) / 1e6,
		LastRequestTime:   lastReqTime,
	}
}
