// Package registry manages the participant set: registration, liveness and
// lookups for the coordinator.
package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	appAudit "github.com/quorumgate/quorumgate/internal/application/audit"
	domainAudit "github.com/quorumgate/quorumgate/internal/domain/audit"
	"github.com/quorumgate/quorumgate/internal/domain/participant"
	"github.com/quorumgate/quorumgate/internal/domain/policy"
)

// Service handles participant registry operations.
type Service struct {
	repo           participant.Repository
	auditor        *appAudit.Service
	livenessWindow time.Duration
	logger         zerolog.Logger
}

// NewService creates a new registry service.
func NewService(repo participant.Repository, auditor *appAudit.Service, livenessWindow time.Duration, logger zerolog.Logger) *Service {
	return &Service{
		repo:           repo,
		auditor:        auditor,
		livenessWindow: livenessWindow,
		logger:         logger.With().Str("service", "registry").Logger(),
	}
}

// Register adds a new participant. The policy name must resolve to a known
// voting personality, with "rule" compiling the supplied expression up
// front; duplicate ids are rejected.
func (s *Service) Register(ctx context.Context, id string, initialTrust float64, role participant.Role, locality, policyName, policyExpr string) (*participant.Participant, error) {
	id = participant.NormalizeID(id)
	if policyName != "" || policyExpr != "" {
		if _, err := policy.New(policyName, policyExpr); err != nil {
			return nil, err
		}
	}
	now := time.Now().UTC()
	p := &participant.Participant{
		ID:           id,
		Role:         role,
		TrustWeight:  initialTrust,
		Locality:     locality,
		Status:       participant.StatusActive,
		PolicyName:   policyName,
		PolicyExpr:   policyExpr,
		RegisteredAt: now,
		LastSeen:     now,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Insert(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info().Str("participant", id).Str("role", string(role)).Float64("trust", initialTrust).Msg("participant registered")
	s.recordAudit(ctx, id, "registered", map[string]interface{}{"role": role, "trust": initialTrust})
	return p, nil
}

// Unregister removes a participant from the registry.
func (s *Service) Unregister(ctx context.Context, id string) error {
	id = participant.NormalizeID(id)
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("participant", id).Msg("participant unregistered")
	s.recordAudit(ctx, id, "unregistered", nil)
	return nil
}

// Get returns one participant by id.
func (s *Service) Get(ctx context.Context, id string) (*participant.Participant, error) {
	return s.repo.Get(ctx, participant.NormalizeID(id))
}

// List returns every registered participant.
func (s *Service) List(ctx context.Context) ([]*participant.Participant, error) {
	return s.repo.List(ctx)
}

// Active returns the participants counting toward quorum at the given time:
// ACTIVE status and seen within the liveness window.
func (s *Service) Active(ctx context.Context, asOf time.Time) ([]*participant.Participant, error) {
	all, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*participant.Participant, 0, len(all))
	for _, p := range all {
		if p.AliveAt(asOf, s.livenessWindow) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Heartbeat refreshes a participant's last-seen timestamp.
func (s *Service) Heartbeat(ctx context.Context, id string) error {
	id = participant.NormalizeID(id)
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	p.LastSeen = time.Now().UTC()
	if err := s.repo.Update(ctx, p); err != nil {
		return fmt.Errorf("update last seen: %w", err)
	}
	return nil
}

// Stale returns participants whose last heartbeat is older than the given
// window, the input to the dead-man sweep.
func (s *Service) Stale(ctx context.Context, asOf time.Time, window time.Duration) ([]*participant.Participant, error) {
	all, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*participant.Participant, 0)
	for _, p := range all {
		if !p.AliveAt(asOf, window) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Service) recordAudit(ctx context.Context, id, change string, detail map[string]interface{}) {
	if s.auditor == nil {
		return
	}
	payload := map[string]interface{}{"change": change}
	for k, v := range detail {
		payload[k] = v
	}
	if err := s.auditor.Record(ctx, domainAudit.KindParticipantChange, id, "registry", payload); err != nil {
		s.logger.Warn().Err(err).Str("participant", id).Msg("audit record failed")
	}
}
