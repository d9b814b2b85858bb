package api

import (
	"encoding/json"
	"net/http"

	"github.com/dgallion1/docoutline/internal/pathstore"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) handleListOutlines(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		jsonError(w, "publication is disabled", http.StatusServiceUnavailable)
		return
	}
	limit := positiveInt(r.URL.Query().Get("limit"), 200)
	outlines, err := s.store.List(r.Context(), limit)
	if err != nil {
		jsonError(w, "failed to list outlines: "+err.Error(), http.StatusBadGateway)
		return
	}
	if outlines == nil {
		outlines = []pathstore.Summary{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"outlines": outlines})
}

// handleDeleteOutline removes a published outline with all its sections.
func (s *Server) handleDeleteOutline(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		jsonError(w, "publication is disabled", http.StatusServiceUnavailable)
		return
	}
	docID := chi.URLParam(r, "docID")
	if _, err := uuid.Parse(docID); err != nil {
		jsonError(w, "invalid document id", http.StatusBadRequest)
		return
	}
	if err := s.store.Delete(r.Context(), docID); err != nil {
		jsonError(w, "failed to delete outline: "+err.Error(), http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"doc_id": docID, "deleted": true})
}
