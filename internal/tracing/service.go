package tracing

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/specmock/specmock/internal/models"
)

// Service keeps a bounded buffer of resolved-request traces and fans new
// traces out to live subscribers.
type Service struct {
	mu          sync.RWMutex
	traces      []*models.Trace
	maxTraces   int
	subscribers map[string]chan *models.Trace
}

// NewService creates a new tracing service.
func NewService(maxTraces int) *Service {
	if maxTraces <= 0 {
		maxTraces = 1000
	}
	return &Service{
		maxTraces:   maxTraces,
		subscribers: make(map[string]chan *models.Trace),
	}
}

// RecordTrace records a new trace.
func (s *Service) RecordTrace(trace *models.Trace) {
	s.mu.Lock()

	if trace.ID == "" {
		trace.ID = uuid.New().String()
	}
	if trace.Timestamp.IsZero() {
		trace.Timestamp = time.Now()
	}

	s.traces = append(s.traces, trace)
	if len(s.traces) > s.maxTraces {
		s.traces = s.traces[len(s.traces)-s.maxTraces:]
	}

	// Non-blocking notify; a slow subscriber misses traces rather than
	// stalling dispatch. Sends happen under the lock so Unsubscribe cannot
	// close a channel mid-send.
	for _, ch := range s.subscribers {
		select {
		case ch <- trace:
		default:
		}
	}

	s.mu.Unlock()
}

// GetTraces returns traces matching the filter, newest first.
func (s *Service) GetTraces(filter *models.TraceFilter) []*models.Trace {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.Trace, 0)
	for i := len(s.traces) - 1; i >= 0; i-- {
		trace := s.traces[i]

		if filter != nil {
			if filter.HandlerID != "" && trace.HandlerID != filter.HandlerID {
				continue
			}
			if filter.Source != "" && trace.Source != filter.Source {
				continue
			}
			if filter.Method != "" && trace.Request.Method != filter.Method {
				continue
			}
			if filter.StatusCode != 0 && trace.Response.StatusCode != filter.StatusCode {
				continue
			}
			if !filter.StartTime.IsZero() && trace.Timestamp.Before(filter.StartTime) {
				continue
			}
			if !filter.EndTime.IsZero() && trace.Timestamp.After(filter.EndTime) {
				continue
			}
		}

		result = append(result, trace)
		if filter != nil && filter.Limit > 0 && len(result) >= filter.Limit {
			break
		}
	}
	return result
}

// GetTrace returns a single trace by ID.
func (s *Service) GetTrace(id string) *models.Trace {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, trace := range s.traces {
		if trace.ID == id {
			return trace
		}
	}
	return nil
}

// ClearTraces removes all traces.
func (s *Service) ClearTraces() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.traces = nil
}

// Subscribe creates a subscription for live traces.
func (s *Service) Subscribe() (string, chan *models.Trace) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()
	ch := make(chan *models.Trace, 100)
	s.subscribers[id] = ch
	return id, ch
}

// Unsubscribe removes a subscription.
func (s *Service) Unsubscribe(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ch, ok := s.subscribers[id]; ok {
		close(ch)
		delete(s.subscribers, id)
	}
}
