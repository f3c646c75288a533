package metrics

import (
	"sync/atomic"
	"time"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Add(n uint64) {
	atomic.AddUint64(&c.value, n)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Registry holds the process-wide storefront counters. A nil *Registry is
// valid and records nothing.
type Registry struct {
	Searches          Counter
	SearchFailures    Counter
	CategoryFetches   Counter
	CartMutations     Counter
	CartEvents        Counter
	CartEventsDropped Counter

	lastSearch atomic.Int64
}

func NewRegistry() *Registry {
	return &Registry{}
}

// ObserveSearch records one catalog search and how long it took.
func (r *Registry) ObserveSearch(d time.Duration, err error) {
	if r == nil {
		return
	}
	r.Searches.Inc()
	if err != nil {
		r.SearchFailures.Inc()
	}
	r.lastSearch.Store(int64(d))
}

func (r *Registry) IncCategoryFetches() {
	if r != nil {
		r.CategoryFetches.Inc()
	}
}

func (r *Registry) IncCartMutations() {
	if r != nil {
		r.CartMutations.Inc()
	}
}

func (r *Registry) IncCartEvents() {
	if r != nil {
		r.CartEvents.Inc()
	}
}

func (r *Registry) IncCartEventsDropped() {
	if r != nil {
		r.CartEventsDropped.Inc()
	}
}

type Snapshot struct {
	Searches          uint64  `json:"searches"`
	SearchFailures    uint64  `json:"searchFailures"`
	CategoryFetches   uint64  `json:"categoryFetches"`
	CartMutations     uint64  `json:"cartMutations"`
	CartEvents        uint64  `json:"cartEvents"`
	CartEventsDropped uint64  `json:"cartEventsDropped"`
	LastSearchMs      float64 `json:"lastSearchMs"`
}

func (r *Registry) Snapshot() Snapshot {
	if r == nil {
		return Snapshot{}
	}
	return Snapshot{
		Searches:          r.Searches.Load(),
		SearchFailures:    r.SearchFailures.Load(),
		CategoryFetches:   r.CategoryFetches.Load(),
		CartMutations:     r.CartMutations.Load(),
		CartEvents:        r.CartEvents.Load(),
		CartEventsDropped: r.CartEventsDropped.Load(),
		LastSearchMs:      float64(r.lastSearch.Load()) / float64(time.Millisecond),
	}
}
