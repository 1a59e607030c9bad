// Package audit provides the application-level recorder that signs and
// appends trail entries.
package audit

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	domainAudit "github.com/quorumgate/quorumgate/internal/domain/audit"
)

// Service signs audit entries with the active key and appends them to the
// trail.
type Service struct {
	trail  domainAudit.Trail
	keyID  string
	key    []byte
	logger zerolog.Logger
}

// NewService creates a new audit service.
func NewService(trail domainAudit.Trail, keyID string, key []byte, logger zerolog.Logger) *Service {
	return &Service{
		trail:  trail,
		keyID:  keyID,
		key:    key,
		logger: logger.With().Str("service", "audit").Logger(),
	}
}

// Record builds, signs and appends one entry. Payloads are marshaled once;
// the stored bytes are exactly the signed bytes.
func (s *Service) Record(ctx context.Context, kind domainAudit.EntryKind, refID, actor string, payload interface{}) error {
	entry, err := domainAudit.NewEntry(kind, refID, actor, payload)
	if err != nil {
		return fmt.Errorf("build audit entry: %w", err)
	}
	signature, err := domainAudit.Sign(entry, s.key)
	if err != nil {
		return fmt.Errorf("sign audit entry: %w", err)
	}
	entry.Signature = signature
	if err := s.trail.Append(ctx, entry); err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	s.logger.Debug().
		Str("kind", string(kind)).
		Str("ref", refID).
		Str("keyId", s.keyID).
		Msg("audit entry recorded")
	return nil
}

// List returns trail entries in append order.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*domainAudit.Entry, error) {
	return s.trail.List(ctx, limit, offset)
}

// ListByRef returns every entry concerning one request, subject or
// participant.
func (s *Service) ListByRef(ctx context.Context, refID string) ([]*domainAudit.Entry, error) {
	return s.trail.ListByRef(ctx, refID)
}

// VerifyAll re-checks every stored signature, for audit replay. Returns the
// number of entries that failed verification.
func (s *Service) VerifyAll(ctx context.Context) (int, error) {
	const pageSize = 500
	bad := 0
	for offset := 0; ; offset += pageSize {
		entries, err := s.trail.List(ctx, pageSize, offset)
		if err != nil {
			return bad, err
		}
		for _, entry := range entries {
			ok, err := domainAudit.Verify(entry, s.key)
			if err != nil {
				return bad, err
			}
			if !ok {
				bad++
			}
		}
		if len(entries) < pageSize {
			return bad, nil
		}
	}
}
