// Package consensus holds the voting-round domain model: requests, votes,
// sensitivity levels and the quorum tally. A round starts OPEN and converges
// to exactly one terminal outcome.
package consensus

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Sensitivity is the ordinal risk class of a requested operation.
type Sensitivity string

const (
	SensitivityLow      Sensitivity = "LOW"
	SensitivityMedium   Sensitivity = "MEDIUM"
	SensitivityHigh     Sensitivity = "HIGH"
	SensitivityCritical Sensitivity = "CRITICAL"
)

// Ordinal orders sensitivities from least to most severe. Unknown values
// return -1.
func (s Sensitivity) Ordinal() int {
	switch s {
	case SensitivityLow:
		return 0
	case SensitivityMedium:
		return 1
	case SensitivityHigh:
		return 2
	case SensitivityCritical:
		return 3
	default:
		return -1
	}
}

// Valid reports whether s is a known sensitivity level.
func (s Sensitivity) Valid() bool { return s.Ordinal() >= 0 }

// VoteValue is a participant's stance on a request.
type VoteValue string

const (
	VoteApprove VoteValue = "APPROVE"
	VoteDeny    VoteValue = "DENY"
	VoteAbstain VoteValue = "ABSTAIN"
)

// Valid reports whether v is a known vote value.
func (v VoteValue) Valid() bool {
	return v == VoteApprove || v == VoteDeny || v == VoteAbstain
}

// Status is the lifecycle state of a request's round.
type Status string

const (
	StatusOpen      Status = "OPEN"
	StatusResolved  Status = "RESOLVED"
	StatusExpired   Status = "EXPIRED"
	StatusWithdrawn Status = "WITHDRAWN"
)

// Decision is the final verdict carried by a Result.
type Decision string

const (
	DecisionApproved  Decision = "APPROVED"
	DecisionDenied    Decision = "DENIED"
	DecisionExpired   Decision = "EXPIRED"
	DecisionWithdrawn Decision = "WITHDRAWN"
)

var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrRequestNotFound    = errors.New("request not found")
	ErrRequestClosed      = errors.New("request is closed")
	ErrUnknownParticipant = errors.New("unknown participant")
	ErrDuplicateRequest   = errors.New("duplicate open request for subject and operation")
	ErrSubjectRevoked     = errors.New("subject is permanently revoked")
	ErrInvalidVote        = errors.New("invalid vote")
)

// Request describes one sensitive operation awaiting a decision. The fields
// are immutable after construction; only the round state around a request
// changes.
type Request struct {
	ID          uuid.UUID              `json:"id"`
	Subject     string                 `json:"subject"`
	Operation   string                 `json:"operation"`
	Sensitivity Sensitivity            `json:"sensitivity"`
	Originator  string                 `json:"originator,omitempty"`
	Evidence    map[string]interface{} `json:"evidence,omitempty"`
	CreatedAt   time.Time              `json:"createdAt"`
	ExpiresAt   time.Time              `json:"expiresAt"`
}

// Validate rejects malformed requests up front so a round never starts on
// input that cannot resolve cleanly.
func (r *Request) Validate() error {
	if r.Subject == "" || r.Operation == "" {
		return ErrInvalidRequest
	}
	if !r.Sensitivity.Valid() {
		return ErrInvalidRequest
	}
	if !r.ExpiresAt.After(r.CreatedAt) {
		return ErrInvalidRequest
	}
	return nil
}

// Vote is one participant's stance on one request. Weight is the trust
// weight snapshotted at cast time. A later vote from the same participant
// replaces the earlier one.
type Vote struct {
	RequestID     uuid.UUID `json:"requestId"`
	ParticipantID string    `json:"participantId"`
	Value         VoteValue `json:"value"`
	Weight        float64   `json:"weight"`
	CastAt        time.Time `json:"castAt"`
}

// Result is the immutable outcome of one round. Exactly one result exists
// per request once the round reaches a terminal state.
type Result struct {
	RequestID     uuid.UUID            `json:"requestId"`
	Decision      Decision             `json:"decision"`
	ApproveWeight float64              `json:"approveWeight"`
	DenyWeight    float64              `json:"denyWeight"`
	ThresholdUsed float64              `json:"thresholdUsed"`
	Weighted      bool                 `json:"weighted"`
	Votes         map[string]VoteValue `json:"votes"`
	DecidedAt     time.Time            `json:"decidedAt"`
}

// Approved reports whether the round ended in approval.
func (r *Result) Approved() bool { return r.Decision == DecisionApproved }
