package httptransport

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	appsession "pit-custody/internal/app/session"
	"pit-custody/internal/authz"
	"pit-custody/internal/custody"
)

type SessionHandlers struct {
	svc *appsession.Service
}

func NewSessionHandlers(svc *appsession.Service) *SessionHandlers {
	return &SessionHandlers{svc: svc}
}

func requestActor(r *http.Request) authz.Actor {
	actor, _ := ActorFromContext(r.Context())
	return actor
}

func (h *SessionHandlers) Open() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in appsession.OpenInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		sess, err := h.svc.Open(r.Context(), requestActor(r), in)
		if err != nil {
			WriteDomainError(w, err)
			return
		}
		metricSessionOpenTotal.Add(1)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(sess)
	}
}

func (h *SessionHandlers) Advance() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Target string `json:"target"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		target, ok := custody.ParseStatus(in.Target)
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		sess, err := h.svc.Advance(r.Context(), requestActor(r), chi.URLParam(r, "session_id"), target)
		if err != nil {
			WriteDomainError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(sess)
	}
}

func (h *SessionHandlers) Close() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in appsession.CloseInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		in.SessionID = chi.URLParam(r, "session_id")
		sess, report, err := h.svc.Close(r.Context(), requestActor(r), in)
		if err != nil {
			metricSessionCloseErrors.Add(1)
			WriteDomainError(w, err)
			return
		}
		metricSessionCloseTotal.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]any{"session": sess, "report": report})
	}
}

func (h *SessionHandlers) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := h.svc.Get(r.Context(), chi.URLParam(r, "session_id"))
		if err != nil {
			WriteDomainError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(sess)
	}
}

func (h *SessionHandlers) ListLive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := ParsePagination(r)
		items, err := h.svc.ListLive(r.Context(), r.URL.Query().Get("casino_id"), limit, offset)
		if err != nil {
			WriteDomainError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": items, "limit": limit, "offset": offset})
	}
}
