package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/gray-logic-assistant/internal/assistant"
)

// handleForm serves the installer's configuration form.
func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	form, err := s.registry.BuildForm(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sections": form})
}

// handleTranslations serves the merged phrase table for the form.
func (s *Server) handleTranslations(w http.ResponseWriter, r *http.Request) {
	translations, err := s.registry.BuildTranslations()
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, translations)
}

// handleGetDevices returns the stored records of one device type.
func (s *Server) handleGetDevices(w http.ResponseWriter, r *http.Request) {
	deviceType := chi.URLParam(r, "type")
	records, err := s.registry.Records(r.Context(), deviceType)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if records == nil {
		records = []assistant.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"type":    deviceType,
		"records": records,
	})
}

// handlePutDevices replaces the records of one device type. Identifiers are
// assigned on the next apply.
func (s *Server) handlePutDevices(w http.ResponseWriter, r *http.Request) {
	deviceType := chi.URLParam(r, "type")

	var records []assistant.Record
	if err := json.NewDecoder(r.Body).Decode(&records); err != nil {
		writeBadRequest(w, "body must be a JSON list of records")
		return
	}

	if err := s.registry.SetRecords(r.Context(), deviceType, records); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.logger.Info("device records replaced",
		"type", deviceType,
		"count", len(records),
		"subject", subjectOf(r),
	)
	writeJSON(w, http.StatusOK, map[string]any{
		"type":  deviceType,
		"count": len(records),
	})
}

// handleApply commits the configuration. Apply hooks repair identifiers and
// notify WebSocket subscribers.
func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	owner := s.registry.Owner()
	if err := s.store.ApplyChanges(r.Context(), owner); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.logger.Info("configuration applied", "owner", owner, "subject", subjectOf(r))
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "applied",
		"owner":  owner,
	})
}

func subjectOf(r *http.Request) string {
	if claims := claimsFromContext(r.Context()); claims != nil {
		return claims.Subject
	}
	return ""
}
