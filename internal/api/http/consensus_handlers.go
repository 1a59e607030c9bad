package httpapi

import (
	"net/http"
	"strings"

	"github.com/quorumgate/quorumgate/internal/domain/consensus"
)

type submitRequestBody struct {
	Subject     string                 `json:"subject"`
	Operation   string                 `json:"operation"`
	Sensitivity string                 `json:"sensitivity"`
	Originator  string                 `json:"originator,omitempty"`
	Evidence    map[string]interface{} `json:"evidence,omitempty"`
}

func (s *Server) submitRequest(w http.ResponseWriter, r *http.Request) {
	var body submitRequestBody
	if err := decodeBody(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	sensitivity := consensus.Sensitivity(strings.ToUpper(strings.TrimSpace(body.Sensitivity)))
	request, err := s.coordinator.Submit(r.Context(), body.Subject, body.Operation, sensitivity, body.Originator, body.Evidence)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{"request": request})
}

func (s *Server) getRequest(w http.ResponseWriter, r *http.Request) {
	requestID, err := parseUUIDParam(r, "requestId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid requestId")
		return
	}
	request, err := s.coordinator.GetRequest(r.Context(), requestID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	result, status, err := s.coordinator.GetResult(r.Context(), requestID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"request": request,
		"status":  status,
		"result":  result,
	})
}

func (s *Server) getResult(w http.ResponseWriter, r *http.Request) {
	requestID, err := parseUUIDParam(r, "requestId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid requestId")
		return
	}
	result, status, err := s.coordinator.GetResult(r.Context(), requestID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if result == nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{"status": "PENDING"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": status,
		"result": result,
	})
}

type castVoteBody struct {
	ParticipantID string `json:"participantId"`
	Value         string `json:"value"`
}

func (s *Server) castVote(w http.ResponseWriter, r *http.Request) {
	requestID, err := parseUUIDParam(r, "requestId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid requestId")
		return
	}
	var body castVoteBody
	if err := decodeBody(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	value := consensus.VoteValue(strings.ToUpper(strings.TrimSpace(body.Value)))
	if err := s.coordinator.CastVote(r.Context(), requestID, body.ParticipantID, value); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]interface{}{"status": "accepted"})
}

// solicitVotes asks every active participant's policy to vote on the round.
func (s *Server) solicitVotes(w http.ResponseWriter, r *http.Request) {
	requestID, err := parseUUIDParam(r, "requestId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid requestId")
		return
	}
	cast, err := s.coordinator.SolicitVotes(r.Context(), requestID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"votesCast": cast})
}

type withdrawBody struct {
	Actor string `json:"actor"`
}

func (s *Server) withdrawRequest(w http.ResponseWriter, r *http.Request) {
	requestID, err := parseUUIDParam(r, "requestId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid requestId")
		return
	}
	var body withdrawBody
	if err := decodeBody(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	if err := s.coordinator.Withdraw(r.Context(), requestID, body.Actor); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"status": string(consensus.StatusWithdrawn)})
}
