// Package server exposes one budgeting session over an HTTP JSON API with
// a server-sent event stream of changes.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/theirongolddev/mbudget/internal/analytics"
	"github.com/theirongolddev/mbudget/internal/model"
	"github.com/theirongolddev/mbudget/internal/planner"
)

// Config controls the server runtime behavior.
type Config struct {
	Addr         string
	EventsBuffer int
}

// Service owns the session and serves the HTTP API.
type Service struct {
	cfg    Config
	logger zerolog.Logger
	now    func() time.Time

	mu          sync.RWMutex
	startedAt   time.Time
	session     model.Session
	actions     int64
	rejections  int64
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a service with an empty session.
func New(cfg Config, logger zerolog.Logger) *Service {
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}

	return &Service{
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
		startedAt: time.Now(),
		session:   model.NewSession(),
		subs:      make(map[int]chan Event),
	}
}

// Router builds the HTTP handler.
func (s *Service) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/session", s.handleSession)
		r.Get("/summary", s.handleSummary)
		r.Get("/redzones", s.handleRedZones)
		r.Get("/top", s.handleTop)
		r.Get("/categories/{index}/history", s.handleHistory)
		r.Get("/export/{format}", s.handleExport)
		r.Get("/events", s.handleEvents)
		r.Get("/stream", s.handleStream)

		r.Post("/categories", s.handleAddCategory)
		r.Post("/start", s.handleStartMonth)
		r.Post("/spend", s.handleLogSpend)
		r.Post("/reset", s.handleReset)
	})
	return r
}

// Run serves HTTP until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.cfg.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info().Msg("shutdown initiated")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error().Err(err).Msg("graceful shutdown failed")
			return server.Close()
		}
		return nil
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
}

// Session returns a copy of the current session.
func (s *Service) Session() model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Clone()
}

// Dispatch applies an action atomically and publishes the resulting events.
func (s *Service) Dispatch(ctx context.Context, a planner.Action) (model.Session, error) {
	logger := zerolog.Ctx(ctx)

	s.mu.Lock()
	prev := s.session
	next, err := planner.Apply(prev, a)
	if err != nil {
		s.rejections++
		s.mu.Unlock()
		logger.Info().Str("action", a.Kind()).Err(err).Msg("action rejected")
		return prev.Clone(), err
	}
	s.session = next
	s.actions++
	for _, ev := range s.eventsFor(a, prev, next) {
		s.publishEvent(ev)
	}
	s.mu.Unlock()

	logger.Debug().Str("action", a.Kind()).Str("phase", next.Phase.String()).Msg("action applied")
	return next.Clone(), nil
}

// eventsFor must be called with s.mu held.
func (s *Service) eventsFor(a planner.Action, prev, next model.Session) []Event {
	now := s.now()
	totals := totalsOf(next)
	mk := func(typ string) Event {
		s.nextEventID++
		return Event{ID: s.nextEventID, Type: typ, Timestamp: now, Totals: totals}
	}

	var out []Event
	switch a.Kind() {
	case "add_category":
		ev := mk("category_added")
		ev.Category = next.Categories[len(next.Categories)-1].Name
		out = append(out, ev)
	case "start_month":
		out = append(out, mk("month_started"))
	case "log_spend":
		if ev, ok := spendEvent(prev, next); ok {
			e := mk("spend_logged")
			e.Category, e.Subcategory, e.Day, e.Amount = ev.Category, ev.Subcategory, ev.Day, ev.Amount
			out = append(out, e)
		}
		if prev.Phase != model.PhaseSummary && next.Phase == model.PhaseSummary {
			out = append(out, mk("summary_reached"))
		}
	case "reset":
		out = append(out, mk("reset"))
	}
	return out
}

// spendEvent finds the single entry a log_spend added between prev and next.
func spendEvent(prev, next model.Session) (Event, bool) {
	for i, c := range next.Categories {
		if i >= len(prev.Categories) || c.DaysLogged() == prev.Categories[i].DaysLogged() {
			continue
		}
		day := c.DaysLogged()
		return Event{
			Category:    c.Name,
			Subcategory: analytics.SubcategoryForDay(c, day),
			Day:         day,
			Amount:      num(c.Spent[day-1]),
		}, true
	}
	return Event{}, false
}

// publishEvent must be called with s.mu held so IDs reach the buffer and
// subscribers in order.
func (s *Service) publishEvent(ev Event) {
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
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		Actions:         s.actions,
		Rejections:      s.rejections,
		Totals:          totalsOf(s.session),
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
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

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// intParam parses a positive query or path integer, falling back to def.
func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid integer %q", raw)
	}
	return n, nil
}
