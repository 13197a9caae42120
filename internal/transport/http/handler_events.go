package httptransport

import (
	"context"
	"encoding/json"
	"net/http"

	apptotals "pit-custody/internal/app/totals"
	"pit-custody/internal/authz"
	"pit-custody/internal/store"
)

type EventHandlers struct {
	svc *apptotals.Service
}

func NewEventHandlers(svc *apptotals.Service) *EventHandlers {
	return &EventHandlers{svc: svc}
}

func (h *EventHandlers) Fill() http.HandlerFunc {
	return h.apply(h.svc.ApplyFill)
}

func (h *EventHandlers) Credit() http.HandlerFunc {
	return h.apply(h.svc.ApplyCredit)
}

func (h *EventHandlers) Drop() http.HandlerFunc {
	return h.apply(h.svc.PostDrop)
}

func (h *EventHandlers) apply(fn func(context.Context, authz.Actor, apptotals.EventInput) (*store.ApplyEventResult, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in apptotals.EventInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		res, err := fn(r.Context(), requestActor(r), in)
		if err != nil {
			metricEventApplyErrors.Add(1)
			WriteDomainError(w, err)
			return
		}
		metricEventApplyTotal.Add(1)
		if res.Late {
			metricLateEventTotal.Add(1)
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(res)
	}
}
