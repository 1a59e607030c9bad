// Package httpapi exposes the consensus core over HTTP for the out-of-core
// callers: the boot loader, the syscall bridge and the emergency notifier.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	appAudit "github.com/quorumgate/quorumgate/internal/application/audit"
	appConsensus "github.com/quorumgate/quorumgate/internal/application/consensus"
	appRegistry "github.com/quorumgate/quorumgate/internal/application/registry"
	appRevocation "github.com/quorumgate/quorumgate/internal/application/revocation"
	appSecrets "github.com/quorumgate/quorumgate/internal/application/secrets"
	"github.com/quorumgate/quorumgate/internal/domain/consensus"
	"github.com/quorumgate/quorumgate/internal/domain/participant"
	"github.com/quorumgate/quorumgate/internal/domain/policy"
	"github.com/quorumgate/quorumgate/internal/domain/shamir"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	coordinator   *appConsensus.Coordinator
	registrySvc   *appRegistry.Service
	secretsSvc    *appSecrets.Service
	revocationSvc *appRevocation.Service
	auditSvc      *appAudit.Service
}

func NewServer(
	coordinator *appConsensus.Coordinator,
	registrySvc *appRegistry.Service,
	secretsSvc *appSecrets.Service,
	revocationSvc *appRevocation.Service,
	auditSvc *appAudit.Service,
) *Server {
	return &Server{
		coordinator:   coordinator,
		registrySvc:   registrySvc,
		secretsSvc:    secretsSvc,
		revocationSvc: revocationSvc,
		auditSvc:      auditSvc,
	}
}

// Router builds the HTTP router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/healthz", s.healthz)

		r.Route("/requests", func(r chi.Router) {
			r.Post("/", s.submitRequest)
			r.Get("/{requestId}", s.getRequest)
			r.Get("/{requestId}/result", s.getResult)
			r.Post("/{requestId}/votes", s.castVote)
			r.Post("/{requestId}/solicit", s.solicitVotes)
			r.Post("/{requestId}/withdraw", s.withdrawRequest)
		})

		r.Route("/participants", func(r chi.Router) {
			r.Post("/", s.registerParticipant)
			r.Get("/", s.listParticipants)
			r.Get("/{participantId}", s.getParticipant)
			r.Delete("/{participantId}", s.unregisterParticipant)
			r.Post("/{participantId}/heartbeat", s.heartbeat)
		})

		r.Route("/secrets", func(r chi.Router) {
			r.Post("/split", s.splitSecret)
			r.Post("/reconstruct", s.reconstructSecret)
		})

		r.Route("/revocations", func(r chi.Router) {
			r.Get("/", s.listRevocations)
			r.Get("/{subjectId}", s.getRevocationState)
		})

		r.Route("/audit", func(r chi.Router) {
			r.Get("/", s.listAudit)
			r.Get("/{refId}", s.listAuditByRef)
		})

		r.Get("/consensus/stats", s.consensusStats)
	})

	return r
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{"status": "ok"})
}

func (s *Server) consensusStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.coordinator.Stats())
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, map[string]interface{}{
		"error":   code,
		"message": message,
	})
}

// respondDomainError maps domain sentinel errors to HTTP statuses.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, consensus.ErrInvalidRequest),
		errors.Is(err, consensus.ErrInvalidVote),
		errors.Is(err, participant.ErrInvalidParticipant),
		errors.Is(err, policy.ErrUnknownPolicy),
		errors.Is(err, policy.ErrInvalidRule),
		errors.Is(err, shamir.ErrInvalidThreshold),
		errors.Is(err, shamir.ErrEmptySecret),
		errors.Is(err, shamir.ErrSecretTooLarge),
		errors.Is(err, shamir.ErrMalformedShare),
		errors.Is(err, shamir.ErrDuplicateShareX):
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
	case errors.Is(err, consensus.ErrRequestNotFound),
		errors.Is(err, participant.ErrParticipantNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, consensus.ErrUnknownParticipant):
		respondError(w, http.StatusForbidden, "UNKNOWN_PARTICIPANT", err.Error())
	case errors.Is(err, consensus.ErrRequestClosed):
		respondError(w, http.StatusConflict, "REQUEST_CLOSED", err.Error())
	case errors.Is(err, consensus.ErrDuplicateRequest),
		errors.Is(err, participant.ErrDuplicateParticipant):
		respondError(w, http.StatusConflict, "DUPLICATE", err.Error())
	case errors.Is(err, shamir.ErrInsufficientShares):
		respondError(w, http.StatusUnprocessableEntity, "INSUFFICIENT_SHARES", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}

func parseUUIDParam(r *http.Request, key string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, key))
}

func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func parseLimitOffset(r *http.Request, defaultLimit, maxLimit int) (int, int) {
	limit := defaultLimit
	offset := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if l, err := strconv.Atoi(v); err == nil {
			limit = l
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if o, err := strconv.Atoi(v); err == nil {
			offset = o
		}
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
