package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/quorumgate/quorumgate/internal/domain/participant"
)

type registerParticipantBody struct {
	ID         string  `json:"id"`
	Role       string  `json:"role"`
	Trust      float64 `json:"trust"`
	Locality   string  `json:"locality,omitempty"`
	Policy     string  `json:"policy,omitempty"`
	PolicyExpr string  `json:"policyExpr,omitempty"`
}

func (s *Server) registerParticipant(w http.ResponseWriter, r *http.Request) {
	var body registerParticipantBody
	if err := decodeBody(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	role := participant.Role(strings.ToUpper(strings.TrimSpace(body.Role)))
	p, err := s.registrySvc.Register(r.Context(), body.ID, body.Trust, role, body.Locality, body.Policy, body.PolicyExpr)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{"participant": p})
}

func (s *Server) listParticipants(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("active") == "true" {
		active, err := s.registrySvc.Active(r.Context(), time.Now().UTC())
		if err != nil {
			respondDomainError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{"participants": active, "total": len(active)})
		return
	}
	all, err := s.registrySvc.List(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"participants": all, "total": len(all)})
}

func (s *Server) getParticipant(w http.ResponseWriter, r *http.Request) {
	p, err := s.registrySvc.Get(r.Context(), chi.URLParam(r, "participantId"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"participant": p})
}

func (s *Server) unregisterParticipant(w http.ResponseWriter, r *http.Request) {
	if err := s.registrySvc.Unregister(r.Context(), chi.URLParam(r, "participantId")); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"status": "removed"})
}

func (s *Server) heartbeat(w http.ResponseWriter, r *http.Request) {
	if err := s.registrySvc.Heartbeat(r.Context(), chi.URLParam(r, "participantId")); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"status": "ok"})
}
