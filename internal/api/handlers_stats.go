package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"queue_depth": s.orchestrator.QueueDepth(),
		"publishing":  s.store != nil,
		"processing":  s.orchestrator.Stats(),
	})
}

// handleCatalog returns the active typography catalog as YAML.
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	if err := s.orchestrator.Catalog().WriteYAML(w); err != nil {
		s.log.Error("catalog encode failed", "error", err)
	}
}
