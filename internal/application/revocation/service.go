// Package revocation exposes revocation state and runs the dead-man sweep
// that files revocation rounds for long-silent participants.
package revocation

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/quorumgate/quorumgate/internal/domain/consensus"
	"github.com/quorumgate/quorumgate/internal/domain/participant"
	domainRevocation "github.com/quorumgate/quorumgate/internal/domain/revocation"
)

// Submitter opens a consensus round; the coordinator satisfies this.
type Submitter interface {
	Submit(ctx context.Context, subject, operation string, sensitivity consensus.Sensitivity, originator string, evidence map[string]interface{}) (*consensus.Request, error)
}

// StaleLister reports participants whose heartbeat is older than a window.
type StaleLister interface {
	Stale(ctx context.Context, asOf time.Time, window time.Duration) ([]*participant.Participant, error)
}

// Service wraps the revocation machine for read access and drives the
// dead-man switch.
type Service struct {
	machine       *domainRevocation.Machine
	submitter     Submitter
	staleLister   StaleLister
	deadManWindow time.Duration
	logger        zerolog.Logger
}

// NewService creates a new revocation service.
func NewService(machine *domainRevocation.Machine, submitter Submitter, staleLister StaleLister, deadManWindow time.Duration, logger zerolog.Logger) *Service {
	return &Service{
		machine:       machine,
		submitter:     submitter,
		staleLister:   staleLister,
		deadManWindow: deadManWindow,
		logger:        logger.With().Str("service", "revocation").Logger(),
	}
}

// StateOf returns a subject's revocation state.
func (s *Service) StateOf(subject string) domainRevocation.State {
	return s.machine.StateOf(subject)
}

// Records returns every executed revocation.
func (s *Service) Records() []*domainRevocation.Record {
	return s.machine.Records()
}

// Sweep files a CRITICAL-sensitivity revocation round for every participant
// silent beyond the dead-man window. Subjects already pending or revoked
// are skipped; duplicate open rounds are tolerated. Returns the ids swept.
func (s *Service) Sweep(ctx context.Context) ([]string, error) {
	now := time.Now().UTC()
	stale, err := s.staleLister.Stale(ctx, now, s.deadManWindow)
	if err != nil {
		return nil, err
	}
	swept := make([]string, 0, len(stale))
	for _, p := range stale {
		if s.machine.StateOf(p.ID) != domainRevocation.StateActive {
			continue
		}
		evidence := map[string]interface{}{
			"reason":   "dead man switch",
			"lastSeen": p.LastSeen.UTC().Format(time.RFC3339),
		}
		if _, err := s.submitter.Submit(ctx, p.ID, "revoke_device", consensus.SensitivityCritical, "", evidence); err != nil {
			if errors.Is(err, consensus.ErrDuplicateRequest) {
				continue
			}
			s.logger.Warn().Err(err).Str("subject", p.ID).Msg("dead man sweep submit failed")
			continue
		}
		s.logger.Info().Str("subject", p.ID).Time("lastSeen", p.LastSeen).Msg("dead man revocation round opened")
		swept = append(swept, p.ID)
	}
	return swept, nil
}

// Run sweeps periodically until the context is canceled.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("dead man sweep failed")
			}
		}
	}
}
