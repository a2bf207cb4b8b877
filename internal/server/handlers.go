package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/theirongolddev/mbudget/internal/analytics"
	"github.com/theirongolddev/mbudget/internal/export"
	"github.com/theirongolddev/mbudget/internal/planner"
)

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleSession(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, sessionViewOf(s.Session()))
}

func (s *Service) handleSummary(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, summaryViewOf(s.Session()))
}

func (s *Service) handleRedZones(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, redZonesOf(analytics.RedZones(s.Session())))
}

func (s *Service) handleTop(w http.ResponseWriter, r *http.Request) {
	n, err := intParam(r.URL.Query().Get("n"), analytics.DefaultTopN)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, areasOf(analytics.TopSpending(s.Session(), n)))
}

func (s *Service) handleHistory(w http.ResponseWriter, r *http.Request) {
	sess := s.Session()
	idx, err := intParam(chi.URLParam(r, "index"), -1)
	if err != nil || idx < 0 || idx >= len(sess.Categories) {
		writeError(w, http.StatusNotFound, fmt.Errorf("category %q: %w", chi.URLParam(r, "index"), planner.ErrUnknownCategory))
		return
	}
	rows := analytics.History(sess.Categories[idx])
	out := make([]historyView, 0, len(rows))
	for _, row := range rows {
		out = append(out, historyView{Day: row.Day, Subcategory: row.Subcategory, Amount: num(row.Amount)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Service) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", export.FileName(format, s.now())))
	if err := export.Write(w, format, s.Session()); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("export failed")
	}
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
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

	writeSSE(w, Event{
		Type:      "snapshot",
		Timestamp: s.now(),
		Totals:    s.snapshotStatus().Totals,
	})
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
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

// decodeBody reads a JSON request body, rejecting unknown fields.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func (s *Service) dispatch(w http.ResponseWriter, r *http.Request, a planner.Action) {
	next, err := s.Dispatch(r.Context(), a)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, planner.ErrUnknownCategory) || errors.Is(err, planner.ErrUnknownSubcategory) {
			status = http.StatusNotFound
		}
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionViewOf(next))
}

func (s *Service) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	var req addCategoryRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.dispatch(w, r, planner.AddCategory{
		Name:          req.Name,
		Budget:        req.Budget,
		Subcategories: req.Subcategories,
	})
}

func (s *Service) handleStartMonth(w http.ResponseWriter, r *http.Request) {
	var req startMonthRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.dispatch(w, r, planner.StartMonth{Days: req.Days})
}

func (s *Service) handleLogSpend(w http.ResponseWriter, r *http.Request) {
	var req logSpendRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.dispatch(w, r, planner.LogSpendNamed{
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Amount:      req.Amount,
	})
}

func (s *Service) handleReset(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, planner.Reset{})
}
