// Package audit defines the signed append-only trail written for every
// round: requests, votes, results, revocations and registry changes.
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// EntryKind classifies what an entry records.
type EntryKind string

const (
	KindRequestSubmitted   EntryKind = "REQUEST_SUBMITTED"
	KindVoteCast           EntryKind = "VOTE_CAST"
	KindResultEmitted      EntryKind = "RESULT_EMITTED"
	KindRequestWithdrawn   EntryKind = "REQUEST_WITHDRAWN"
	KindRevocationExecuted EntryKind = "REVOCATION_EXECUTED"
	KindParticipantChange  EntryKind = "PARTICIPANT_CHANGE"
)

var ErrInvalidEntry = errors.New("invalid audit entry")

// Entry is one immutable record in the trail. RefID points at the request,
// subject or participant the entry concerns. Signature covers every other
// field.
type Entry struct {
	ID        uuid.UUID       `json:"id"`
	Kind      EntryKind       `json:"kind"`
	RefID     string          `json:"refId"`
	Actor     string          `json:"actor"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	Signature []byte          `json:"signature,omitempty"`
}

// NewEntry builds an unsigned entry; payload is marshaled once here so the
// signed bytes never drift from what is stored.
func NewEntry(kind EntryKind, refID, actor string, payload interface{}) (*Entry, error) {
	if kind == "" || refID == "" {
		return nil, ErrInvalidEntry
	}
	if actor == "" {
		actor = "system"
	}
	var raw json.RawMessage
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		raw = encoded
	}
	return &Entry{
		ID:        uuid.New(),
		Kind:      kind,
		RefID:     refID,
		Actor:     actor,
		Payload:   raw,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Trail is the append-only store of entries.
type Trail interface {
	Append(ctx context.Context, entry *Entry) error
	List(ctx context.Context, limit, offset int) ([]*Entry, error)
	ListByRef(ctx context.Context, refID string) ([]*Entry, error)
}
