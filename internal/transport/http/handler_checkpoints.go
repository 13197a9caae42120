package httptransport

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	appcheckpoint "pit-custody/internal/app/checkpoint"
)

type CheckpointHandlers struct {
	svc *appcheckpoint.Service
}

func NewCheckpointHandlers(svc *appcheckpoint.Service) *CheckpointHandlers {
	return &CheckpointHandlers{svc: svc}
}

func (h *CheckpointHandlers) Capture() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in appcheckpoint.CaptureInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		cp, err := h.svc.Capture(r.Context(), requestActor(r), in)
		if err != nil {
			WriteDomainError(w, err)
			return
		}
		metricCheckpointCaptureTotal.Add(1)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(cp)
	}
}

func (h *CheckpointHandlers) Delta() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := h.svc.Delta(r.Context(), r.URL.Query().Get("casino_id"))
		if err != nil {
			WriteDomainError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(res)
	}
}

func (h *CheckpointHandlers) Replay() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := h.svc.Replay(r.Context(), chi.URLParam(r, "checkpoint_id"))
		if err != nil {
			WriteDomainError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(res)
	}
}

func (h *CheckpointHandlers) ReplayWindow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		from, errFrom := time.Parse(time.RFC3339, q.Get("from"))
		to, errTo := time.Parse(time.RFC3339, q.Get("to"))
		if errFrom != nil || errTo != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		metrics, err := h.svc.ReplayWindow(r.Context(), q.Get("casino_id"), from, to)
		if err != nil {
			WriteDomainError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"casino_id":    q.Get("casino_id"),
			"window_start": from,
			"window_end":   to,
			"metrics":      metrics,
		})
	}
}

func (h *CheckpointHandlers) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := ParsePagination(r)
		items, err := h.svc.List(r.Context(), r.URL.Query().Get("casino_id"), limit)
		if err != nil {
			WriteDomainError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": items, "limit": limit})
	}
}
