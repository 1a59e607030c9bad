// Package revocation models the irreversible exclusion of a subject. The
// state machine is ACTIVE -> PENDING_REVOCATION -> REVOKED; REVOKED is
// terminal and no code path clears it.
package revocation

import (
	"errors"
	"sync"
	"time"

	"github.com/quorumgate/quorumgate/internal/domain/consensus"
)

// State is a subject's revocation state. Subjects with no recorded state
// are ACTIVE.
type State string

const (
	StateActive  State = "ACTIVE"
	StatePending State = "PENDING_REVOCATION"
	StateRevoked State = "REVOKED"
)

var (
	ErrAlreadyRevoked      = errors.New("subject is already revoked")
	ErrRevocationPending   = errors.New("revocation already pending for subject")
	ErrNoPendingRevocation = errors.New("no pending revocation for subject")
)

// Record is the permanent evidence of one executed revocation.
type Record struct {
	SubjectID  string            `json:"subjectId"`
	Reason     string            `json:"reason"`
	Result     *consensus.Result `json:"result"`
	ExecutedAt time.Time         `json:"executedAt"`
}

// Machine tracks revocation state per subject. All transitions hold the
// machine lock; a committed revocation can never transition again.
type Machine struct {
	mu      sync.RWMutex
	states  map[string]State
	records map[string]*Record
}

func NewMachine() *Machine {
	return &Machine{
		states:  map[string]State{},
		records: map[string]*Record{},
	}
}

// StateOf returns the subject's current state.
func (m *Machine) StateOf(subject string) State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stateLocked(subject)
}

func (m *Machine) stateLocked(subject string) State {
	if state, ok := m.states[subject]; ok {
		return state
	}
	return StateActive
}

// Revoked reports whether the subject reached the terminal state.
func (m *Machine) Revoked(subject string) bool {
	return m.StateOf(subject) == StateRevoked
}

// Begin moves an ACTIVE subject to PENDING_REVOCATION while its revocation
// round runs.
func (m *Machine) Begin(subject string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.stateLocked(subject) {
	case StateRevoked:
		return ErrAlreadyRevoked
	case StatePending:
		return ErrRevocationPending
	}
	m.states[subject] = StatePending
	return nil
}

// Lapse returns a PENDING_REVOCATION subject to ACTIVE after its round
// expired, was denied or was withdrawn.
func (m *Machine) Lapse(subject string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.stateLocked(subject) {
	case StateRevoked:
		return ErrAlreadyRevoked
	case StateActive:
		return ErrNoPendingRevocation
	}
	m.states[subject] = StateActive
	return nil
}

// Commit executes a pending revocation. The transition is one-way; the
// record keeps the approving result for audit.
func (m *Machine) Commit(subject, reason string, result *consensus.Result) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.stateLocked(subject) {
	case StateRevoked:
		return nil, ErrAlreadyRevoked
	case StateActive:
		return nil, ErrNoPendingRevocation
	}
	record := &Record{
		SubjectID:  subject,
		Reason:     reason,
		Result:     result,
		ExecutedAt: time.Now().UTC(),
	}
	m.states[subject] = StateRevoked
	m.records[subject] = record
	return record, nil
}

// RecordOf returns the revocation record for a revoked subject.
func (m *Machine) RecordOf(subject string) (*Record, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.records[subject]
	return record, ok
}

// Records returns every executed revocation.
func (m *Machine) Records() []*Record {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Record, 0, len(m.records))
	for _, record := range m.records {
		out = append(out, record)
	}
	return out
}
