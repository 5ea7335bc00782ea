package stats

import (
	"sort"
	"sync"
	"time"

	"github.com/specmock/specmock/internal/models"
)

// Collector aggregates per-handler request statistics.
type Collector struct {
	mu           sync.RWMutex
	startTime    time.Time
	handlers     map[string]*models.AtomicHandlerStat // handler ID -> stats
	recentErrors []models.ErrorStat
	maxErrors    int
}

// NewCollector creates a new statistics collector.
func NewCollector() *Collector {
	return &Collector{
		startTime: time.Now(),
		handlers:  make(map[string]*models.AtomicHandlerStat),
		maxErrors: 100,
	}
}

// RecordRequest records one resolved request for a handler.
func (c *Collector) RecordRequest(h *models.Handler, duration time.Duration, statusCode int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	hs, ok := c.handlers[h.ID]
	if !ok {
		hs = &models.AtomicHandlerStat{
			HandlerID: h.ID,
			Source:    h.Source,
			Method:    h.Method,
			Pattern:   h.URLPattern,
		}
		hs.MinTimeNs.Store(duration.Nanoseconds())
		c.handlers[h.ID] = hs
	}

	hs.TotalRequests.Add(1)
	hs.TotalTimeNs.Add(duration.Nanoseconds())
	hs.LastRequestTime.Store(time.Now())

	durationNs := duration.Nanoseconds()
	for {
		currentMin := hs.MinTimeNs.Load()
		if durationNs >= currentMin || hs.MinTimeNs.CompareAndSwap(currentMin, durationNs) {
			break
		}
	}
	for {
		currentMax := hs.MaxTimeNs.Load()
		if durationNs <= currentMax || hs.MaxTimeNs.CompareAndSwap(currentMax, durationNs) {
			break
		}
	}

	if statusCode >= 400 {
		hs.TotalErrors.Add(1)
		c.recentErrors = append(c.recentErrors, models.ErrorStat{
			Timestamp:  time.Now(),
			HandlerID:  h.ID,
			Method:     h.Method,
			Pattern:    h.URLPattern,
			StatusCode: statusCode,
		})
		if len(c.recentErrors) > c.maxErrors {
			c.recentErrors = c.recentErrors[1:]
		}
	}
}

// GetGlobalStats returns aggregated statistics for all handlers.
func (c *Collector) GetGlobalStats(totalHandlers int) *models.GlobalStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var totalRequests, totalErrors, totalTimeNs int64

	handlerStats := make([]models.HandlerStat, 0, len(c.handlers))
	for _, hs := range c.handlers {
		stat := hs.ToHandlerStat()
		handlerStats = append(handlerStats, stat)
		totalRequests += stat.TotalRequests
		totalErrors += stat.TotalErrors
		totalTimeNs += hs.TotalTimeNs.Load()
	}

	sort.Slice(handlerStats, func(i, j int) bool {
		return handlerStats[i].TotalRequests > handlerStats[j].TotalRequests
	})
	topHandlers := handlerStats
	if len(topHandlers) > 10 {
		topHandlers = topHandlers[:10]
	}

	var avgResponseTimeMs float64
	if totalRequests > 0 {
		avgResponseTimeMs = float64(totalTimeNs) / float64(totalRequests) / 1e6
	}

	uptime := time.Since(c.startTime).Seconds()
	var requestsPerSecond float64
	if uptime > 0 {
		requestsPerSecond = float64(totalRequests) / uptime
	}

	return &models.GlobalStats{
		TotalRequests:     totalRequests,
		TotalErrors:       totalErrors,
		TotalHandlers:     totalHandlers,
		AvgResponseTimeMs: avgResponseTimeMs,
		RequestsPerSecond: requestsPerSecond,
		StartTime:         c.startTime,
		TopHandlers:       topHandlers,
		RecentErrors:      c.recentErrors,
	}
}

// GetHandlerStats returns statistics for one handler.
func (c *Collector) GetHandlerStats(handlerID string) *models.HandlerStat {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if hs, ok := c.handlers[handlerID]; ok {
		stat := hs.ToHandlerStat()
		return &stat
	}
	return nil
}

// Reset clears all statistics.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.startTime = time.Now()
	c.handlers = make(map[string]*models.AtomicHandlerStat)
	c.recentErrors = nil
}
