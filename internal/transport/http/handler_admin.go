package httptransport

import (
	"encoding/json"
	"net/http"

	"pit-custody/internal/store"
)

type AdminHandlers struct {
	store *store.Store
}

func NewAdminHandlers(st *store.Store) *AdminHandlers {
	return &AdminHandlers{store: st}
}

func (h *AdminHandlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.store.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "db": "down"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "db": "up"})
	}
}

func (h *AdminHandlers) Audit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		casinoID := r.URL.Query().Get("casino_id")
		if casinoID == "" {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		limit, offset := ParsePagination(r)
		items, err := h.store.ListAuditRecords(r.Context(), casinoID, r.URL.Query().Get("kind"), limit, offset)
		if err != nil {
			WriteDomainError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": items, "limit": limit, "offset": offset})
	}
}
