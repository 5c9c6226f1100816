package server

import (
	"context"
	"maps"
	"net/http"
	"sync"
	"time"

	"github.com/matzehuels/labelsheet/pkg/observability"
)

// Stats counts pipeline, export, cache and asset download events. It
// implements every hook interface in package observability; install it
// with [Stats.Register] and expose it with [WithStats].
type Stats struct {
	mu      sync.Mutex
	started time.Time

	plans        int
	planFailures int
	renders      map[string]int
	renderErrors map[string]int
	renderBytes  int64

	exports        int
	exportsFailed  int
	pagesExported  int
	exportDuration time.Duration

	cacheHits   map[string]int
	cacheMisses map[string]int

	fetches      int
	fetchErrors  int
	fetchLatency time.Duration
}

// NewStats returns an empty collector.
func NewStats() *Stats {
	return &Stats{
		started:      time.Now(),
		renders:      map[string]int{},
		renderErrors: map[string]int{},
		cacheHits:    map[string]int{},
		cacheMisses:  map[string]int{},
	}
}

// Register installs s as the process-wide observability hooks.
func (s *Stats) Register() {
	observability.SetPipelineHooks(s)
	observability.SetExportHooks(s)
	observability.SetCacheHooks(s)
	observability.SetHTTPHooks(s)
}

func (s *Stats) OnPlan(_ context.Context, _ string, _, _ int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans++
	if err != nil {
		s.planFailures++
	}
}

func (s *Stats) OnRenderStart(context.Context, string, int) {}

func (s *Stats) OnRenderComplete(_ context.Context, format string, size int, _ time.Duration, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.renderErrors[format]++
		return
	}
	s.renders[format]++
	s.renderBytes += int64(size)
}

func (s *Stats) OnExportStart(context.Context, int) {
	s.mu.Lock()
	s.exports++
	s.mu.Unlock()
}

func (s *Stats) OnExportPage(context.Context, int, int, time.Duration) {
	s.mu.Lock()
	s.pagesExported++
	s.mu.Unlock()
}

func (s *Stats) OnExportComplete(_ context.Context, _ int, d time.Duration, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exportDuration += d
	if err != nil {
		s.exportsFailed++
	}
}

func (s *Stats) OnCacheHit(_ context.Context, keyType string) {
	s.mu.Lock()
	s.cacheHits[keyType]++
	s.mu.Unlock()
}

func (s *Stats) OnCacheMiss(_ context.Context, keyType string) {
	s.mu.Lock()
	s.cacheMisses[keyType]++
	s.mu.Unlock()
}

func (s *Stats) OnCacheSet(context.Context, string, int) {}

func (s *Stats) OnRequest(context.Context, string, string, string) {}

func (s *Stats) OnResponse(_ context.Context, _, _, _ string, _ int, d time.Duration) {
	s.mu.Lock()
	s.fetches++
	s.fetchLatency += d
	s.mu.Unlock()
}

func (s *Stats) OnError(context.Context, string, string, string, error) {
	s.mu.Lock()
	s.fetchErrors++
	s.mu.Unlock()
}

// StatsSnapshot is the JSON form of [Stats].
type StatsSnapshot struct {
	Uptime        string         `json:"uptime"`
	Plans         int            `json:"plans"`
	PlanFailures  int            `json:"planFailures"`
	Renders       map[string]int `json:"renders"`
	RenderErrors  map[string]int `json:"renderErrors"`
	RenderBytes   int64          `json:"renderBytes"`
	Exports       int            `json:"exports"`
	ExportsFailed int            `json:"exportsFailed"`
	PagesExported int            `json:"pagesExported"`
	AvgExportPage string         `json:"avgExportPage"`
	CacheHits     map[string]int `json:"cacheHits"`
	CacheMisses   map[string]int `json:"cacheMisses"`
	AssetFetches  int            `json:"assetFetches"`
	AssetErrors   int            `json:"assetErrors"`
}

// Snapshot returns a copy of the current counters.
func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := StatsSnapshot{
		Uptime:        time.Since(s.started).Round(time.Second).String(),
		Plans:         s.plans,
		PlanFailures:  s.planFailures,
		Renders:       maps.Clone(s.renders),
		RenderErrors:  maps.Clone(s.renderErrors),
		RenderBytes:   s.renderBytes,
		Exports:       s.exports,
		ExportsFailed: s.exportsFailed,
		PagesExported: s.pagesExported,
		CacheHits:     maps.Clone(s.cacheHits),
		CacheMisses:   maps.Clone(s.cacheMisses),
		AssetFetches:  s.fetches,
		AssetErrors:   s.fetchErrors,
	}
	if s.pagesExported > 0 {
		snap.AvgExportPage = (s.exportDuration / time.Duration(s.pagesExported)).Round(time.Millisecond).String()
	}
	return snap
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.stats.Snapshot())
}

var (
	_ observability.PipelineHooks = (*Stats)(nil)
	_ observability.ExportHooks   = (*Stats)(nil)
	_ observability.CacheHooks    = (*Stats)(nil)
	_ observability.HTTPHooks     = (*Stats)(nil)
)
