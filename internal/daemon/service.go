// Package daemon provides the long-running background KPI monitor service.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/vivilo-commits/armonyco-v1-sub000/internal/model"
	"github.com/vivilo-commits/armonyco-v1-sub000/internal/pipeline"
	"github.com/vivilo-commits/armonyco-v1-sub000/internal/store"
)

// Config controls the daemon runtime behavior.
type Config struct {
	DataDir      string
	TenantID     string
	Days         int
	Workflow     string
	UseCache     bool
	UseCashflow  bool
	Interval     time.Duration
	Addr         string
	EventsBuffer int
}

// Snapshot is a compact KPI state for status/event payloads.
type Snapshot struct {
	At                time.Time `json:"at"`
	Executions        int       `json:"executions"`
	SuccessRate       int       `json:"success_rate"`
	FailureRate       float64   `json:"failure_rate"`
	DecisionIntegrity float64   `json:"decision_integrity"`
	OpenEscalations   int       `json:"open_escalations"`
	ValueGoverned     float64   `json:"value_governed"`
	MedianLatencyMs   float64   `json:"median_latency_ms"`
	P95LatencyMs      float64   `json:"p95_latency_ms"`
	Transactions      int       `json:"transactions"`
	ServicesRevenue   float64   `json:"services_revenue"`
}

// Delta captures snapshot deltas between polls.
type Delta struct {
	Executions      int     `json:"executions"`
	OpenEscalations int     `json:"open_escalations"`
	Transactions    int     `json:"transactions"`
	ValueGoverned   float64 `json:"value_governed"`
	ServicesRevenue float64 `json:"services_revenue"`
	SuccessRate     int     `json:"success_rate"`
}

func (d Delta) isZero() bool {
	return d.Executions == 0 &&
		d.OpenEscalations == 0 &&
		d.Transactions == 0 &&
		d.ValueGoverned == 0 &&
		d.ServicesRevenue == 0 &&
		d.SuccessRate == 0
}

// Event is emitted whenever the KPI snapshot updates.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	DataDir         string    `json:"data_dir"`
	TenantID        string    `json:"tenant_id"`
	Days            int       `json:"days"`
	Workflow        string    `json:"workflow,omitempty"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// KPIs is served at /v1/kpis.
type KPIs struct {
	TenantID  string      `json:"tenant_id"`
	At        time.Time   `json:"at"`
	Dashboard []model.KPI `json:"dashboard"`
	Growth    []model.KPI `json:"growth"`
}

// LoadFunc returns the tenant's current records.
type LoadFunc func() (*pipeline.LoadResult, error)

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg     Config
	log     *zap.Logger
	load    LoadFunc
	now     func() time.Time
	metrics *metrics

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	kpis        KPIs
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// Option customizes a Service.
type Option func(*Service)

// WithLoader replaces the filesystem loader.
func WithLoader(fn LoadFunc) Option {
	return func(s *Service) { s.load = fn }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New returns a new daemon service with the provided config.
// A nil logger disables logging.
func New(cfg Config, logger *zap.Logger, opts ...Option) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 10 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Service{
		cfg:       cfg,
		log:       logger.With(zap.String("tenant_id", cfg.TenantID)),
		now:       time.Now,
		metrics:   newMetrics(cfg.TenantID),
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
	s.load = s.loadRecords
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/kpis", s.handleKPIs)
	mux.HandleFunc("/v1/events", s.handleEvents)
	mux.HandleFunc("/v1/stream", s.handleStream)
	mux.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))
	return mux
}

// Run starts HTTP endpoints and polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Info("daemon listening",
		zap.String("addr", s.cfg.Addr),
		zap.Duration("interval", s.cfg.Interval))

	// Seed initial snapshot so status is useful immediately.
	s.pollOnce()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("daemon shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.pollOnce()
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

func (s *Service) pollOnce() {
	start := time.Now()
	res, err := s.load()
	now := s.now()
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = now
		s.pollCount++
		s.mu.Unlock()
		s.metrics.pollErrors.Inc()
		s.log.Warn("poll failed", zap.Error(err))
		return
	}

	filter := pipeline.LastDays(s.cfg.Days, now)
	filter.Workflow = s.cfg.Workflow
	filter.UseCashflow = s.cfg.UseCashflow
	rep := pipeline.BuildReport(res, filter)
	snap := snapshotFromReport(rep, now)
	s.metrics.observe(snap)

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.kpis = KPIs{TenantID: s.cfg.TenantID, At: now, Dashboard: rep.DashboardKPIs, Growth: rep.GrowthKPIs}
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""

	if !prevExists {
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      "snapshot",
			Timestamp: now,
			Snapshot:  snap,
		}
		publish = true
	} else if delta := diffSnapshots(prev, snap); !delta.isZero() {
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      "update",
			Timestamp: now,
			Snapshot:  snap,
			Delta:     delta,
		}
		publish = true
	}
	s.mu.Unlock()

	s.log.Debug("poll complete",
		zap.Int("executions", snap.Executions),
		zap.Int("transactions", snap.Transactions),
		zap.Bool("changed", publish),
		zap.Duration("took", time.Since(start)))

	if publish {
		s.publishEvent(ev)
	}
}

func (s *Service) loadRecords() (*pipeline.LoadResult, error) {
	if s.cfg.UseCache {
		cache, err := store.Open(pipeline.CachePath())
		if err == nil {
			defer func() { _ = cache.Close() }()
			cr, loadErr := pipeline.LoadWithCache(s.cfg.DataDir, s.cfg.TenantID, cache, nil)
			if loadErr == nil {
				return &cr.LoadResult, nil
			}
			s.log.Warn("cached load failed, falling back", zap.Error(loadErr))
		} else {
			s.log.Warn("cache unavailable", zap.Error(err))
		}
	}

	return pipeline.Load(s.cfg.DataDir, s.cfg.TenantID, nil)
}

func snapshotFromReport(rep pipeline.Report, at time.Time) Snapshot {
	d := rep.Dashboard
	return Snapshot{
		At:                at,
		Executions:        d.TotalCount,
		SuccessRate:       d.SuccessRate,
		FailureRate:       d.FailureRate,
		DecisionIntegrity: d.DecisionIntegrity,
		OpenEscalations:   d.OpenEscalations,
		ValueGoverned:     d.ValueGoverned,
		MedianLatencyMs:   d.MedianLatencyMs,
		P95LatencyMs:      d.P95LatencyMs,
		Transactions:      rep.Growth.Categories.TotalCount,
		ServicesRevenue:   rep.Growth.Categories.ServicesTotal,
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Executions:      curr.Executions - prev.Executions,
		OpenEscalations: curr.OpenEscalations - prev.OpenEscalations,
		Transactions:    curr.Transactions - prev.Transactions,
		ValueGoverned:   curr.ValueGoverned - prev.ValueGoverned,
		ServicesRevenue: curr.ServicesRevenue - prev.ServicesRevenue,
		SuccessRate:     curr.SuccessRate - prev.SuccessRate,
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		DataDir:         s.cfg.DataDir,
		TenantID:        s.cfg.TenantID,
		Days:            s.cfg.Days,
		Workflow:        s.cfg.Workflow,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.snapshotStatus())
}

func (s *Service) handleKPIs(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	kpis := s.kpis
	ready := s.hasSnapshot
	s.mu.RUnlock()

	if !ready {
		http.Error(w, "no snapshot yet", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, kpis)
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, events)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	current := Event{
		Type:      "snapshot",
		Timestamp: s.now(),
		Snapshot:  s.snapshotStatus().Summary,
	}
	writeSSE(w, current)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if ev.ID > 0 {
		_, _ = fmt.Fprintf(w, "id: %d\n", ev.ID)
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
