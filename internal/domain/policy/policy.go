// Package policy implements the pluggable voting personalities. A Decider is
// a pure function of (participant state, request): no hidden mutable state,
// no sleeping, no randomness.
package policy

import (
	"errors"
	"time"

	"github.com/quorumgate/quorumgate/internal/domain/consensus"
	"github.com/quorumgate/quorumgate/internal/domain/participant"
)

// AbstainFloor is the global trust floor. A participant below it abstains
// on every request regardless of personality.
const AbstainFloor = 0.3

var (
	ErrUnknownPolicy = errors.New("unknown voting policy")
	ErrInvalidRule   = errors.New("invalid rule expression")
)

// Decider maps a participant and a request to a vote value.
type Decider interface {
	Name() string
	Decide(p *participant.Participant, r *consensus.Request) (consensus.VoteValue, error)
}

// applyFloor downgrades any stance to ABSTAIN for low-trust participants.
func applyFloor(p *participant.Participant, v consensus.VoteValue) consensus.VoteValue {
	if p.TrustWeight < AbstainFloor {
		return consensus.VoteAbstain
	}
	return v
}

// ThresholdByOperation approves everything except requests whose operation
// belongs to a protected class; those it approves only when the
// participant's trust clears the per-class cutoff, and denies otherwise.
type ThresholdByOperation struct {
	// ProtectedCutoffs maps an operation kind to the minimum trust weight
	// allowed to approve it.
	ProtectedCutoffs map[string]float64
}

// NewThresholdByOperation returns the stock operation policy: revocation
// and key-release operations demand near-maximal trust.
func NewThresholdByOperation() *ThresholdByOperation {
	return &ThresholdByOperation{
		ProtectedCutoffs: map[string]float64{
			"revoke_device":   0.9,
			"release_secret":  0.9,
			"rotate_master":   0.9,
			"firmware_update": 0.8,
		},
	}
}

func (t *ThresholdByOperation) Name() string { return "threshold_by_operation" }

func (t *ThresholdByOperation) Decide(p *participant.Participant, r *consensus.Request) (consensus.VoteValue, error) {
	cutoff, protected := t.ProtectedCutoffs[r.Operation]
	if !protected {
		return applyFloor(p, consensus.VoteApprove), nil
	}
	if p.TrustWeight >= cutoff {
		return applyFloor(p, consensus.VoteApprove), nil
	}
	return applyFloor(p, consensus.VoteDeny), nil
}

// SelfInterest approves any request the participant itself originated and
// falls back to a delegate policy otherwise. It models the compromised or
// self-serving node the quorum math must out-vote.
type SelfInterest struct {
	Fallback Decider
}

func (s *SelfInterest) Name() string { return "self_interest" }

func (s *SelfInterest) Decide(p *participant.Participant, r *consensus.Request) (consensus.VoteValue, error) {
	if r.Originator != "" && r.Originator == p.ID {
		return applyFloor(p, consensus.VoteApprove), nil
	}
	if s.Fallback != nil {
		return s.Fallback.Decide(p, r)
	}
	return applyFloor(p, consensus.VoteDeny), nil
}

// TemporalHeuristic votes by wall-clock hour, a deterministic stand-in for
// the social-trust heuristic of companion devices: approve inside the
// waking window, deny outside it. The clock is injected for testability.
type TemporalHeuristic struct {
	StartHour int
	EndHour   int
	Now       func() time.Time
}

// NewTemporalHeuristic approves between 08:00 and 22:00 local time.
func NewTemporalHeuristic() *TemporalHeuristic {
	return &TemporalHeuristic{StartHour: 8, EndHour: 22, Now: time.Now}
}

func (h *TemporalHeuristic) Name() string { return "temporal_heuristic" }

func (h *TemporalHeuristic) Decide(p *participant.Participant, r *consensus.Request) (consensus.VoteValue, error) {
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	hour := now().Hour()
	if hour >= h.StartHour && hour < h.EndHour {
		return applyFloor(p, consensus.VoteApprove), nil
	}
	return applyFloor(p, consensus.VoteDeny), nil
}

// Conservative denies anything at or above its sensitivity bar unless the
// participant holds a physical token role, and approves the rest.
type Conservative struct {
	DenyAtOrAbove consensus.Sensitivity
}

// NewConservative denies HIGH and CRITICAL requests for non-token roles.
func NewConservative() *Conservative {
	return &Conservative{DenyAtOrAbove: consensus.SensitivityHigh}
}

func (c *Conservative) Name() string { return "conservative" }

func (c *Conservative) Decide(p *participant.Participant, r *consensus.Request) (consensus.VoteValue, error) {
	if r.Sensitivity.Ordinal() >= c.DenyAtOrAbove.Ordinal() && !p.IsPhysicalToken() {
		return applyFloor(p, consensus.VoteDeny), nil
	}
	return applyFloor(p, consensus.VoteApprove), nil
}

// Permissive approves everything above the abstain floor.
type Permissive struct{}

func (Permissive) Name() string { return "permissive" }

func (Permissive) Decide(p *participant.Participant, r *consensus.Request) (consensus.VoteValue, error) {
	return applyFloor(p, consensus.VoteApprove), nil
}
