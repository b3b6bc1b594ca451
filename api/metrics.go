package api

import (
	"sort"
	"sync"
	"time"
)

// RouteMetrics aggregates requests served by one route
type RouteMetrics struct {
	Method      string        `json:"method"`
	Path        string        `json:"path"`
	Count       int64         `json:"count"`
	ErrorCount  int64         `json:"errorCount"`
	TotalTime   time.Duration `json:"totalTime"`
	AvgTime     time.Duration `json:"avgTime"`
	MinTime     time.Duration `json:"minTime"`
	MaxTime     time.Duration `json:"maxTime"`
	LastRequest time.Time     `json:"lastRequest"`
}

// Metrics collects per route request counts and timings since Start
type Metrics struct {
	mu     sync.RWMutex
	start  time.Time
	routes map[string]*RouteMetrics
}

// NewMetrics returns an empty collector
func NewMetrics() *Metrics {
	return &Metrics{start: time.Now(), routes: make(map[string]*RouteMetrics)}
}

// Record adds one request. Status codes of 400 and above count as errors.
func (m *Metrics) Record(method, path string, status int, d time.Duration) {
	key := method + " " + path

	m.mu.Lock()
	defer m.mu.Unlock()
	rm, ok := m.routes[key]
	if !ok {
		rm = &RouteMetrics{Method: method, Path: path, MinTime: d}
		m.routes[key] = rm
	}
	rm.Count++
	if status >= 400 {
		rm.ErrorCount++
	}
	rm.TotalTime += d
	rm.AvgTime = rm.TotalTime / time.Duration(rm.Count)
	if d < rm.MinTime {
		rm.MinTime = d
	}
	if d > rm.MaxTime {
		rm.MaxTime = d
	}
	rm.LastRequest = time.Now()
}

// Summary is a point in time copy of the collected metrics
type Summary struct {
	Since         time.Time      `json:"since"`
	TotalRequests int64          `json:"totalRequests"`
	TotalErrors   int64          `json:"totalErrors"`
	Routes        []RouteMetrics `json:"routes"`
}

// Snapshot returns the metrics sorted by request count, busiest first
func (m *Metrics) Snapshot() Summary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := Summary{Since: m.start, Routes: make([]RouteMetrics, 0, len(m.routes))}
	for _, rm := range m.routes {
		s.TotalRequests += rm.Count
		s.TotalErrors += rm.ErrorCount
		s.Routes = append(s.Routes, *rm)
	}
	sort.Slice(s.Routes, func(i, j int) bool {
		if s.Routes[i].Count != s.Routes[j].Count {
			return s.Routes[i].Count > s.Routes[j].Count
		}
		return s.Routes[i].Method+s.Routes[i].Path < s.Routes[j].Method+s.Routes[j].Path
	})
	return s
}
