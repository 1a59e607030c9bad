package policy

import (
	"fmt"
	"strings"

	"github.com/Knetic/govaluate"

	"github.com/quorumgate/quorumgate/internal/domain/consensus"
	"github.com/quorumgate/quorumgate/internal/domain/participant"
)

// RulePolicy evaluates an operator-supplied boolean expression against the
// participant and request. A true result approves, false denies; evaluation
// errors surface to the caller instead of defaulting to either stance.
//
// Exposed variables: trust, role, locality, operation, subject, sensitivity,
// originator, plus every flattened evidence key.
type RulePolicy struct {
	expression *govaluate.EvaluableExpression
	source     string
}

// NewRulePolicy compiles the expression once; a malformed expression is a
// configuration error caught at construction.
func NewRulePolicy(expression string) (*RulePolicy, error) {
	trimmed := strings.TrimSpace(expression)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrInvalidRule)
	}
	compiled, err := govaluate.NewEvaluableExpression(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRule, err)
	}
	return &RulePolicy{expression: compiled, source: trimmed}, nil
}

func (rp *RulePolicy) Name() string { return "rule" }

func (rp *RulePolicy) Decide(p *participant.Participant, r *consensus.Request) (consensus.VoteValue, error) {
	params := map[string]interface{}{
		"trust":       p.TrustWeight,
		"role":        string(p.Role),
		"locality":    p.Locality,
		"operation":   r.Operation,
		"subject":     r.Subject,
		"sensitivity": r.Sensitivity.Ordinal(),
		"originator":  r.Originator,
	}
	flattenEvidence("", r.Evidence, params)

	result, err := rp.expression.Evaluate(params)
	if err != nil {
		return "", fmt.Errorf("evaluate rule expression: %w", err)
	}
	approved, ok := result.(bool)
	if !ok {
		return "", fmt.Errorf("rule expression %q did not evaluate to a boolean", rp.source)
	}
	if approved {
		return applyFloor(p, consensus.VoteApprove), nil
	}
	return applyFloor(p, consensus.VoteDeny), nil
}

func flattenEvidence(prefix string, m map[string]interface{}, out map[string]interface{}) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch vv := v.(type) {
		case map[string]interface{}:
			flattenEvidence(key, vv, out)
		default:
			out[key] = vv
		}
	}
}

// ForName builds a decider by name so participants can be registered with a
// policy string. The "rule" policy needs an expression; use New for it.
func ForName(name string) (Decider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "threshold_by_operation":
		return NewThresholdByOperation(), nil
	case "self_interest":
		return &SelfInterest{Fallback: NewThresholdByOperation()}, nil
	case "temporal_heuristic":
		return NewTemporalHeuristic(), nil
	case "conservative":
		return NewConservative(), nil
	case "permissive":
		return Permissive{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownPolicy, name)
	}
}

// New resolves a decider from a registered policy name and optional rule
// expression. The expression is required by, and only meaningful to, the
// "rule" policy.
func New(name, expression string) (Decider, error) {
	if strings.EqualFold(strings.TrimSpace(name), "rule") {
		return NewRulePolicy(expression)
	}
	if strings.TrimSpace(expression) != "" {
		return nil, fmt.Errorf("%w: expression supplied for policy %q", ErrInvalidRule, name)
	}
	return ForName(name)
}

// ForParticipant resolves the decider a participant registered with.
func ForParticipant(p *participant.Participant) (Decider, error) {
	return New(p.PolicyName, p.PolicyExpr)
}
