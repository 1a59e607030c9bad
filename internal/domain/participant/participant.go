// Package participant defines the voting participants: identity, trust
// weight, role and liveness.
package participant

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// Role tags what kind of device or actor a participant is. Physical-token
// roles are treated as harder to compromise by some voting policies.
type Role string

const (
	RolePhone  Role = "PHONE"
	RoleToken  Role = "TOKEN"
	RoleCloud  Role = "CLOUD"
	RoleFriend Role = "FRIEND"
	RoleServer Role = "SERVER"
)

// Status represents participant status.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusDisabled Status = "DISABLED"
)

// Trust weight bounds. Weights are mutated only by the reputation tracker.
const (
	MinTrust = 0.0
	MaxTrust = 1.0
)

// Participant is a long-lived registered voter. TrustWeight is in [0,1];
// LastSeen drives the liveness window. PolicyExpr carries the boolean rule
// source for participants registered with the "rule" policy.
type Participant struct {
	ID           string    `json:"id"`
	Role         Role      `json:"role"`
	TrustWeight  float64   `json:"trustWeight"`
	Locality     string    `json:"locality,omitempty"`
	Status       Status    `json:"status"`
	PolicyName   string    `json:"policyName,omitempty"`
	PolicyExpr   string    `json:"policyExpr,omitempty"`
	RegisteredAt time.Time `json:"registeredAt"`
	LastSeen     time.Time `json:"lastSeen"`
}

var (
	ErrDuplicateParticipant = errors.New("participant already registered")
	ErrParticipantNotFound  = errors.New("participant not found")
	ErrInvalidParticipant   = errors.New("invalid participant")
)

var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]{1,62}$`)

// NormalizeID lowercases and trims a participant id.
func NormalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// Validate checks registration invariants.
func (p *Participant) Validate() error {
	if !idPattern.MatchString(p.ID) {
		return ErrInvalidParticipant
	}
	if p.TrustWeight < MinTrust || p.TrustWeight > MaxTrust {
		return ErrInvalidParticipant
	}
	switch p.Role {
	case RolePhone, RoleToken, RoleCloud, RoleFriend, RoleServer:
	default:
		return ErrInvalidParticipant
	}
	return nil
}

// IsPhysicalToken reports whether the role is a physical possession factor.
func (p *Participant) IsPhysicalToken() bool {
	return p.Role == RoleToken || p.Role == RolePhone
}

// AliveAt reports whether the participant counts as online at the given
// time for the supplied liveness window.
func (p *Participant) AliveAt(at time.Time, window time.Duration) bool {
	if p.Status != StatusActive {
		return false
	}
	return !p.LastSeen.Before(at.Add(-window))
}

// ClampTrust bounds a trust weight into [MinTrust, MaxTrust].
func ClampTrust(w float64) float64 {
	if w < MinTrust {
		return MinTrust
	}
	if w > MaxTrust {
		return MaxTrust
	}
	return w
}
