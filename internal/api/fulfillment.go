package api

import (
	"encoding/json"
	"net/http"

	"github.com/nerrad567/gray-logic-assistant/internal/fulfillment"
)

// handleFulfillment serves POST /api/v1/fulfillment.
func (s *Server) handleFulfillment(w http.ResponseWriter, r *http.Request) {
	var req fulfillment.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	resp, err := s.fulfillment.Handle(r.Context(), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	if claims := claimsFromContext(r.Context()); claims != nil && len(req.Inputs) > 0 {
		s.logger.Debug("fulfillment served",
			"intent", req.Inputs[0].Intent,
			"request_id", req.RequestID,
			"subject", claims.Subject,
		)
	}
	writeJSON(w, http.StatusOK, resp)
}
