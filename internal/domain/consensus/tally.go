package consensus

import "time"

// TallySnapshot is the aggregated weight of the current vote set. Abstain
// weight never counts toward approval or denial but does consume the
// abstainer's remaining voting potential.
type TallySnapshot struct {
	Approve float64
	Deny    float64
	Abstain float64
	Voted   float64
}

// Summarize aggregates the vote set. In weighted mode each vote counts at
// the trust weight snapshotted when it was cast; otherwise every vote
// counts as 1.
func Summarize(votes map[string]Vote, weighted bool) TallySnapshot {
	var snapshot TallySnapshot
	for _, vote := range votes {
		weight := 1.0
		if weighted {
			weight = vote.Weight
		}
		switch vote.Value {
		case VoteApprove:
			snapshot.Approve += weight
		case VoteDeny:
			snapshot.Deny += weight
		case VoteAbstain:
			snapshot.Abstain += weight
		}
		snapshot.Voted += weight
	}
	return snapshot
}

// Quorum is the rule a round evaluates against: a fixed required weight for
// count rules, or a share of participating weight for fractional rules.
// Required is always set for reporting; Threshold ignores it when Fraction
// is positive.
type Quorum struct {
	Required float64
	Fraction float64
}

// Threshold resolves the effective quorum for a snapshot. A fractional rule
// counts only participating (non-abstaining) weight in its denominator,
// plus whatever remaining weight the caller says can still join; abstainers
// drop out entirely.
func (q Quorum) Threshold(snapshot TallySnapshot, remaining float64) float64 {
	if q.Fraction > 0 {
		participating := snapshot.Voted - snapshot.Abstain
		if participating < 0 {
			participating = 0
		}
		return q.Fraction * (participating + remaining)
	}
	return q.Required
}

// Evaluate decides whether a round has reached a terminal outcome.
//
// Approval wins as soon as approve weight meets the quorum. Before the
// deadline a fractional quorum is judged against the worst case where every
// remaining voter still joins the denominator; at the deadline non-voters
// lapse and the quorum settles against the weight that actually
// participated. Denial is declared early once approval has become
// unreachable: the cast approvals plus every active participant who has not
// yet voted still fall short. A round nobody participates in is not a
// denial; it waits for its deadline and expires. The deadline check comes
// last so a quorum reached before expiry is honored.
func Evaluate(snapshot TallySnapshot, quorum Quorum, activeWeight float64, now, deadline time.Time) (Decision, bool) {
	remaining := activeWeight - snapshot.Voted
	if remaining < 0 {
		remaining = 0
	}
	atDeadline := !now.Before(deadline)
	approveBar := quorum.Threshold(snapshot, remaining)
	if atDeadline {
		approveBar = quorum.Threshold(snapshot, 0)
	}
	if snapshot.Approve > 0 && snapshot.Approve >= approveBar {
		return DecisionApproved, true
	}
	if snapshot.Voted > 0 && snapshot.Approve+remaining < quorum.Threshold(snapshot, remaining) {
		return DecisionDenied, true
	}
	if atDeadline {
		return DecisionExpired, true
	}
	return "", false
}
