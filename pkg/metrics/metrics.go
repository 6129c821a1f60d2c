// Package metrics provides a small Prometheus-compatible registry for the
// pipeline's batch counters, exposed over HTTP in the text exposition format.
package metrics

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Counter is a monotonically increasing counter.
type Counter struct{ val atomic.Int64 }

func (c *Counter) Inc()         { c.val.Add(1) }
func (c *Counter) Add(n int64)  { c.val.Add(n) }
func (c *Counter) Value() int64 { return c.val.Load() }

// Gauge can go up and down.
type Gauge struct{ val atomic.Int64 }

func (g *Gauge) Set(n int64)  { g.val.Store(n) }
func (g *Gauge) Inc()         { g.val.Add(1) }
func (g *Gauge) Dec()         { g.val.Add(-1) }
func (g *Gauge) Value() int64 { return g.val.Load() }

type entry struct {
	name string // full name including any {labels}
	base string
	typ  string
	help string
}

// Registry holds named metrics. Label pairs are baked into the name as
// name{k="v"} so each label combination is a distinct series.
type Registry struct {
	mu       sync.RWMutex
	counters map[string]*Counter
	gauges   map[string]*Gauge
	entries  []entry
	seen     map[string]bool
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		counters: make(map[string]*Counter),
		gauges:   make(map[string]*Gauge),
		seen:     make(map[string]bool),
	}
}

// Counter returns (or creates) the named counter.
func (r *Registry) Counter(name, help string) *Counter {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.counters[name]; ok {
		return c
	}
	c := &Counter{}
	r.counters[name] = c
	r.record(name, "counter", help)
	return c
}

// Gauge returns (or creates) the named gauge.
func (r *Registry) Gauge(name, help string) *Gauge {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g, ok := r.gauges[name]; ok {
		return g
	}
	g := &Gauge{}
	r.gauges[name] = g
	r.record(name, "gauge", help)
	return g
}

// record must be called with mu held.
func (r *Registry) record(name, typ, help string) {
	base := name
	if idx := strings.IndexByte(name, '{'); idx != -1 {
		base = name[:idx]
	}
	r.entries = append(r.entries, entry{name: name, base: base, typ: typ, help: help})
}

// WithLabels builds a labeled metric name: WithLabels("x", "k", "v") is
// `x{k="v"}`.
func WithLabels(name string, kvs ...string) string {
	if len(kvs) == 0 || len(kvs)%2 != 0 {
		return name
	}
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('{')
	for i := 0; i < len(kvs); i += 2 {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%s=%q", kvs[i], kvs[i+1])
	}
	b.WriteByte('}')
	return b.String()
}

// Render returns the Prometheus text exposition of every metric. Series
// sharing a base name are grouped under one TYPE header, sorted by name.
func (r *Registry) Render() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byBase := make(map[string][]entry)
	var order []string
	for _, e := range r.entries {
		if _, ok := byBase[e.base]; !ok {
			order = append(order, e.base)
		}
		byBase[e.base] = append(byBase[e.base], e)
	}

	var b strings.Builder
	for _, base := range order {
		group := byBase[base]
		if group[0].help != "" {
			fmt.Fprintf(&b, "# HELP %s %s\n", base, group[0].help)
		}
		fmt.Fprintf(&b, "# TYPE %s %s\n", base, group[0].typ)

		sort.Slice(group, func(i, j int) bool { return group[i].name < group[j].name })
		for _, e := range group {
			switch e.typ {
			case "counter":
				fmt.Fprintf(&b, "%s %d\n", e.name, r.counters[e.name].Value())
			case "gauge":
				fmt.Fprintf(&b, "%s %d\n", e.name, r.gauges[e.name].Value())
			}
		}
	}
	return b.String()
}

// Handler serves the registry at /metrics, with OTel HTTP instrumentation.
func (r *Registry) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		_, _ = w.Write([]byte(r.Render()))
	})
	return otelhttp.NewHandler(mux, "metrics")
}

// ServeAsync serves /metrics on the given port in a background goroutine.
// A port of 0 disables the server.
func (r *Registry) ServeAsync(port int) {
	if port <= 0 {
		return
	}
	go func() {
		_ = http.ListenAndServe(fmt.Sprintf(":%d", port), r.Handler())
	}()
}
