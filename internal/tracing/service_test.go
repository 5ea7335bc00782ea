package tracing

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/specmock/specmock/internal/models"
)

func newTrace(handlerID, method string, status int) *models.Trace {
	return &models.Trace{
		HandlerID: handlerID,
		Source:    models.SourceArchive,
		Method:    method,
		Request:   models.TraceRequest{Method: method, Path: "/users"},
		Response:  models.TraceResponse{StatusCode: status},
	}
}

func TestRecordTrace(t *testing.T) {
	s := NewService(10)
	s.RecordTrace(newTrace("h1", "GET", 200))

	traces := s.GetTraces(nil)
	if len(traces) != 1 {
		t.Fatalf("Expected 1 trace, got %d", len(traces))
	}
	if traces[0].ID == "" {
		t.Error("Expected trace ID assigned")
	}
	if traces[0].Timestamp.IsZero() {
		t.Error("Expected timestamp assigned")
	}
}

func TestGetTraces_NewestFirst(t *testing.T) {
	s := NewService(10)
	for i := 0; i < 3; i++ {
		tr := newTrace("h1", "GET", 200)
		tr.ID = fmt.Sprintf("t%d", i)
		s.RecordTrace(tr)
	}

	traces := s.GetTraces(nil)
	if len(traces) != 3 {
		t.Fatalf("Expected 3 traces, got %d", len(traces))
	}
	if traces[0].ID != "t2" || traces[2].ID != "t0" {
		t.Errorf("Expected newest first, got %s ... %s", traces[0].ID, traces[2].ID)
	}
}

func TestGetTraces_Filter(t *testing.T) {
	s := NewService(10)
	s.RecordTrace(newTrace("h1", "GET", 200))
	s.RecordTrace(newTrace("h2", "POST", 500))
	s.RecordTrace(newTrace("h1", "GET", 404))

	tests := []struct {
		name     string
		filter   *models.TraceFilter
		expected int
	}{
		{"by handler", &models.TraceFilter{HandlerID: "h1"}, 2},
		{"by method", &models.TraceFilter{Method: "POST"}, 1},
		{"by status", &models.TraceFilter{StatusCode: 404}, 1},
		{"by source", &models.TraceFilter{Source: models.SourceArchive}, 3},
		{"no match", &models.TraceFilter{Source: models.SourceOpenAPI}, 0},
		{"limit", &models.TraceFilter{Limit: 2}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.GetTraces(tt.filter)
			if len(got) != tt.expected {
				t.Errorf("Expected %d traces, got %d", tt.expected, len(got))
			}
		})
	}
}

func TestTraceBuffer_Bounded(t *testing.T) {
	s := NewService(5)
	for i := 0; i < 20; i++ {
		tr := newTrace("h1", "GET", 200)
		tr.ID = fmt.Sprintf("t%d", i)
		s.RecordTrace(tr)
	}

	traces := s.GetTraces(nil)
	if len(traces) != 5 {
		t.Fatalf("Expected buffer bounded at 5, got %d", len(traces))
	}
	if traces[0].ID != "t19" {
		t.Errorf("Expected newest trace kept, got %s", traces[0].ID)
	}
}

func TestGetTrace(t *testing.T) {
	s := NewService(10)
	tr := newTrace("h1", "GET", 200)
	tr.ID = "known"
	s.RecordTrace(tr)

	if got := s.GetTrace("known"); got == nil || got.ID != "known" {
		t.Errorf("Expected trace by ID, got %v", got)
	}
	if s.GetTrace("missing") != nil {
		t.Error("Expected nil for unknown trace ID")
	}
}

func TestClearTraces(t *testing.T) {
	s := NewService(10)
	s.RecordTrace(newTrace("h1", "GET", 200))
	s.ClearTraces()

	if got := s.GetTraces(nil); len(got) != 0 {
		t.Errorf("Expected no traces after clear, got %d", len(got))
	}
}

func TestSubscribe(t *testing.T) {
	s := NewService(10)
	id, ch := s.Subscribe()
	defer s.Unsubscribe(id)

	s.RecordTrace(newTrace("h1", "GET", 200))

	select {
	case tr := <-ch:
		if tr.HandlerID != "h1" {
			t.Errorf("Unexpected trace: %+v", tr)
		}
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for subscribed trace")
	}
}

func TestRecordTrace_ConcurrentUnsubscribe(t *testing.T) {
	s := NewService(10)

	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
					s.RecordTrace(newTrace("h1", "GET", 200))
				}
			}
		}()
	}

	// Subscribe/unsubscribe churn against concurrent recording must never
	// land a send on a closed channel.
	for i := 0; i < 200; i++ {
		id, ch := s.Subscribe()
		select {
		case <-ch:
		default:
		}
		s.Unsubscribe(id)
	}

	close(done)
	wg.Wait()
}

func TestUnsubscribe(t *testing.T) {
	s := NewService(10)
	id, ch := s.Subscribe()
	s.Unsubscribe(id)

	if _, ok := <-ch; ok {
		t.Error("Expected channel closed after unsubscribe")
	}

	// Recording after unsubscribe must not panic.
	s.RecordTrace(newTrace("h1", "GET", 200))
}
