package metrics

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// UnmatchedRoute is the route key for requests no route pattern matched.
// Raw paths are never used as keys so the route map stays bounded.
const UnmatchedRoute = "unmatched"

type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	notFound        uint64
	totalDurationMs uint64

	mu     sync.Mutex
	routes map[string]uint64
}

func New() *Collector {
	return &Collector{routes: map[string]uint64{}}
}

func (c *Collector) Record(route string, status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	if status == 404 {
		atomic.AddUint64(&c.notFound, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))

	c.mu.Lock()
	c.routes[route]++
	c.mu.Unlock()
}

type RouteCount struct {
	Route    string `json:"route"`
	Requests uint64 `json:"requests"`
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	errs := atomic.LoadUint64(&c.errorRequests)
	notFound := atomic.LoadUint64(&c.notFound)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}

	c.mu.Lock()
	routes := make([]RouteCount, 0, len(c.routes))
	for route, count := range c.routes {
		routes = append(routes, RouteCount{Route: route, Requests: count})
	}
	c.mu.Unlock()
	sort.Slice(routes, func(i, j int) bool { return routes[i].Route < routes[j].Route })

	return map[string]any{
		"requestsTotal":   total,
		"errorsTotal":     errs,
		"notFoundTotal":   notFound,
		"avgDurationMs":   avg,
		"totalDurationMs": totalMs,
		"routes":          routes,
	}
}
