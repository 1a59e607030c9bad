package consensus

import (
	"fmt"
	"strconv"
	"strings"
)

// ThresholdRule expresses the quorum required for one sensitivity level.
// Either Count (absolute approvals) or Fraction (share of participating,
// non-abstaining weight) is set; Fraction takes precedence when positive.
type ThresholdRule struct {
	Count    int     `json:"count"`
	Fraction float64 `json:"fraction,omitempty"`
}

// ThresholdTable maps sensitivity levels to their quorum rules.
//
// The defaults intentionally invert the usual risk ordering: low-risk
// operations need a broad majority while critical ones resolve on a single
// approval, acting as a fast kill switch for emergencies. The table is
// configuration, not a constant, so deployments can restore the
// conventional ordering.
type ThresholdTable map[Sensitivity]ThresholdRule

// DefaultThresholds returns the stock table: LOW 3, MEDIUM 2, HIGH 1,
// CRITICAL 1.
func DefaultThresholds() ThresholdTable {
	return ThresholdTable{
		SensitivityLow:      {Count: 3},
		SensitivityMedium:   {Count: 2},
		SensitivityHigh:     {Count: 1},
		SensitivityCritical: {Count: 1},
	}
}

// Required resolves the initial threshold for a sensitivity given the
// number of active participants. For fractional rules this is the bar
// before anyone abstains; the effective quorum is resolved per tally via
// Quorum.Threshold. Count rules are capped at participantCount so a small
// deployment can still reach quorum.
func (t ThresholdTable) Required(s Sensitivity, participantCount int) (float64, error) {
	rule, ok := t[s]
	if !ok {
		return 0, fmt.Errorf("%w: no threshold for sensitivity %s", ErrInvalidRequest, s)
	}
	if rule.Fraction > 0 {
		if rule.Fraction > 1 {
			return 0, fmt.Errorf("%w: fraction %v above 1", ErrInvalidRequest, rule.Fraction)
		}
		return rule.Fraction * float64(participantCount), nil
	}
	if rule.Count < 1 {
		return 0, fmt.Errorf("%w: threshold count %d below 1", ErrInvalidRequest, rule.Count)
	}
	required := rule.Count
	if participantCount > 0 && required > participantCount {
		required = participantCount
	}
	return float64(required), nil
}

// Quorum resolves the rule for a sensitivity into the form rounds evaluate
// against. Count rules fix the required weight when the round opens;
// fractional rules stay relative to participating weight and are resolved
// at tally time. Required carries the initial bar either way for reporting.
func (t ThresholdTable) Quorum(s Sensitivity, participantCount int) (Quorum, error) {
	required, err := t.Required(s, participantCount)
	if err != nil {
		return Quorum{}, err
	}
	if rule := t[s]; rule.Fraction > 0 {
		return Quorum{Required: required, Fraction: rule.Fraction}, nil
	}
	return Quorum{Required: required}, nil
}

// ParseThresholdTable parses the "LOW:3,MEDIUM:2,HIGH:1,CRITICAL:1" form
// used in configuration. Values with a decimal point are fractions.
func ParseThresholdTable(raw string) (ThresholdTable, error) {
	table := ThresholdTable{}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed threshold entry %q", pair)
		}
		level := Sensitivity(strings.ToUpper(strings.TrimSpace(parts[0])))
		if !level.Valid() {
			return nil, fmt.Errorf("unknown sensitivity %q", parts[0])
		}
		value := strings.TrimSpace(parts[1])
		if strings.Contains(value, ".") {
			fraction, err := strconv.ParseFloat(value, 64)
			if err != nil || fraction <= 0 || fraction > 1 {
				return nil, fmt.Errorf("invalid threshold fraction %q", value)
			}
			table[level] = ThresholdRule{Fraction: fraction}
			continue
		}
		count, err := strconv.Atoi(value)
		if err != nil || count < 1 {
			return nil, fmt.Errorf("invalid threshold count %q", value)
		}
		table[level] = ThresholdRule{Count: count}
	}
	for _, level := range []Sensitivity{SensitivityLow, SensitivityMedium, SensitivityHigh, SensitivityCritical} {
		if _, ok := table[level]; !ok {
			return nil, fmt.Errorf("threshold table missing level %s", level)
		}
	}
	return table, nil
}
