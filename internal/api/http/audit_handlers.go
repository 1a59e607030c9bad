package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) listRevocations(w http.ResponseWriter, r *http.Request) {
	records := s.revocationSvc.Records()
	respondJSON(w, http.StatusOK, map[string]interface{}{"revocations": records, "total": len(records)})
}

func (s *Server) getRevocationState(w http.ResponseWriter, r *http.Request) {
	subject := chi.URLParam(r, "subjectId")
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"subject": subject,
		"state":   s.revocationSvc.StateOf(subject),
	})
}

func (s *Server) listAudit(w http.ResponseWriter, r *http.Request) {
	limit, offset := parseLimitOffset(r, 100, 500)
	entries, err := s.auditSvc.List(r.Context(), limit, offset)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"entries": entries, "total": len(entries)})
}

func (s *Server) listAuditByRef(w http.ResponseWriter, r *http.Request) {
	entries, err := s.auditSvc.ListByRef(r.Context(), chi.URLParam(r, "refId"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"entries": entries, "total": len(entries)})
}
