package httptransport

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	apprundown "pit-custody/internal/app/rundown"
)

type RundownHandlers struct {
	svc *apprundown.Service
}

func NewRundownHandlers(svc *apprundown.Service) *RundownHandlers {
	return &RundownHandlers{svc: svc}
}

func (h *RundownHandlers) Persist() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in apprundown.PersistInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		report, err := h.svc.Persist(r.Context(), requestActor(r), in)
		if err != nil {
			WriteDomainError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(report)
	}
}

func (h *RundownHandlers) Finalize() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := h.svc.Finalize(r.Context(), requestActor(r), chi.URLParam(r, "report_id"))
		if err != nil {
			WriteDomainError(w, err)
			return
		}
		metricReportFinalizeTotal.Add(1)
		_ = json.NewEncoder(w).Encode(report)
	}
}

func (h *RundownHandlers) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := h.svc.Get(r.Context(), chi.URLParam(r, "report_id"))
		if err != nil {
			WriteDomainError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(report)
	}
}

func (h *RundownHandlers) GetBySession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := h.svc.GetBySession(r.Context(), chi.URLParam(r, "session_id"))
		if err != nil {
			WriteDomainError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(report)
	}
}
