// Package reputation adjusts participant trust after each resolved round.
package reputation

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/quorumgate/quorumgate/internal/domain/consensus"
	"github.com/quorumgate/quorumgate/internal/domain/participant"
)

// Tracker nudges trust weights toward voters that side with the eventual
// outcome. Disagreement is penalized at twice the reward step by default,
// matching a Byzantine-resistance bias; the floor keeps a consistently
// out-voted participant from being silenced entirely.
type Tracker struct {
	repo    participant.Repository
	reward  float64
	penalty float64
	floor   float64
	logger  zerolog.Logger
}

// NewTracker creates a new reputation tracker.
func NewTracker(repo participant.Repository, reward, penalty, floor float64, logger zerolog.Logger) *Tracker {
	return &Tracker{
		repo:    repo,
		reward:  reward,
		penalty: penalty,
		floor:   floor,
		logger:  logger.With().Str("service", "reputation").Logger(),
	}
}

// Apply updates trust for every voter of a resolved round. Only APPROVED
// and DENIED outcomes carry a majority signal; expiry and withdrawal leave
// trust untouched. Abstainers are neither rewarded nor penalized.
func (t *Tracker) Apply(ctx context.Context, votes map[string]consensus.Vote, result *consensus.Result) error {
	if result == nil {
		return nil
	}
	var agreeing consensus.VoteValue
	switch result.Decision {
	case consensus.DecisionApproved:
		agreeing = consensus.VoteApprove
	case consensus.DecisionDenied:
		agreeing = consensus.VoteDeny
	default:
		return nil
	}

	for id, vote := range votes {
		if vote.Value == consensus.VoteAbstain {
			continue
		}
		p, err := t.repo.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("load participant %s: %w", id, err)
		}
		before := p.TrustWeight
		if vote.Value == agreeing {
			p.TrustWeight = participant.ClampTrust(p.TrustWeight + t.reward)
		} else {
			p.TrustWeight = participant.ClampTrust(p.TrustWeight - t.penalty)
			if p.TrustWeight < t.floor {
				p.TrustWeight = t.floor
			}
		}
		if p.TrustWeight == before {
			continue
		}
		if err := t.repo.Update(ctx, p); err != nil {
			return fmt.Errorf("update participant %s: %w", id, err)
		}
		t.logger.Debug().
			Str("participant", id).
			Float64("before", before).
			Float64("after", p.TrustWeight).
			Str("decision", string(result.Decision)).
			Msg("trust adjusted")
	}
	return nil
}
