// Package consensus implements the coordinator that runs voting rounds:
// request submission, vote collection, quorum tally, deadlines and the
// revocation short-circuit.
package consensus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	appAudit "github.com/quorumgate/quorumgate/internal/application/audit"
	domainAudit "github.com/quorumgate/quorumgate/internal/domain/audit"
	"github.com/quorumgate/quorumgate/internal/domain/consensus"
	"github.com/quorumgate/quorumgate/internal/domain/participant"
	"github.com/quorumgate/quorumgate/internal/domain/policy"
	"github.com/quorumgate/quorumgate/internal/domain/revocation"
)

// Directory supplies the participant set for weighting and membership
// checks.
type Directory interface {
	Get(ctx context.Context, id string) (*participant.Participant, error)
	Active(ctx context.Context, asOf time.Time) ([]*participant.Participant, error)
}

// ReputationApplier adjusts trust after a round resolves.
type ReputationApplier interface {
	Apply(ctx context.Context, votes map[string]consensus.Vote, result *consensus.Result) error
}

// Options tune a coordinator.
type Options struct {
	Thresholds    consensus.ThresholdTable
	Weighted      bool
	VoteWindow    time.Duration
	RevocationOps []string
}

// Coordinator owns all round state. One coordinator instance exists per
// deployment; callers hold a reference, there are no package-level
// singletons.
type Coordinator struct {
	directory   Directory
	reputation  ReputationApplier
	revocations *revocation.Machine
	log         consensus.Log
	auditor     *appAudit.Service
	logger      zerolog.Logger

	thresholds    consensus.ThresholdTable
	weighted      bool
	voteWindow    time.Duration
	revocationOps map[string]struct{}

	mu       sync.RWMutex
	rounds   map[uuid.UUID]*round
	openKeys map[string]uuid.UUID
}

// round carries the mutable state of one request. Vote writes and the tally
// run under the round mutex so a tally never observes a half-applied vote.
type round struct {
	mu           sync.Mutex
	request      *consensus.Request
	votes        map[string]consensus.Vote
	status       consensus.Status
	result       *consensus.Result
	quorum       consensus.Quorum
	activeWeight float64
	timer        *time.Timer
}

// NewCoordinator creates a new consensus coordinator.
func NewCoordinator(
	directory Directory,
	reputation ReputationApplier,
	revocations *revocation.Machine,
	log consensus.Log,
	auditor *appAudit.Service,
	opts Options,
	logger zerolog.Logger,
) *Coordinator {
	if opts.Thresholds == nil {
		opts.Thresholds = consensus.DefaultThresholds()
	}
	if opts.VoteWindow <= 0 {
		opts.VoteWindow = 300 * time.Second
	}
	if len(opts.RevocationOps) == 0 {
		opts.RevocationOps = []string{"revoke_device"}
	}
	revocationOps := make(map[string]struct{}, len(opts.RevocationOps))
	for _, op := range opts.RevocationOps {
		revocationOps[op] = struct{}{}
	}
	return &Coordinator{
		directory:     directory,
		reputation:    reputation,
		revocations:   revocations,
		log:           log,
		auditor:       auditor,
		logger:        logger.With().Str("service", "consensus").Logger(),
		thresholds:    opts.Thresholds,
		weighted:      opts.Weighted,
		voteWindow:    opts.VoteWindow,
		revocationOps: revocationOps,
	}
}

func openKey(subject, operation string) string {
	return subject + "|" + operation
}

func (c *Coordinator) isRevocationOp(operation string) bool {
	_, ok := c.revocationOps[operation]
	return ok
}

// Submit opens a new voting round. Requests naming a revoked subject never
// run a vote: they resolve DENIED immediately. Concurrent duplicate rounds
// for the same (subject, operation) are rejected.
func (c *Coordinator) Submit(ctx context.Context, subject, operation string, sensitivity consensus.Sensitivity, originator string, evidence map[string]interface{}) (*consensus.Request, error) {
	now := time.Now().UTC()
	request := &consensus.Request{
		ID:          uuid.New(),
		Subject:     subject,
		Operation:   operation,
		Sensitivity: sensitivity,
		Originator:  originator,
		Evidence:    evidence,
		CreatedAt:   now,
		ExpiresAt:   now.Add(c.voteWindow),
	}
	if err := request.Validate(); err != nil {
		return nil, err
	}

	active, err := c.directory.Active(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("load active participants: %w", err)
	}
	quorum, err := c.thresholds.Quorum(sensitivity, len(active))
	if err != nil {
		return nil, err
	}
	activeWeight := float64(len(active))
	if c.weighted {
		activeWeight = 0
		for _, p := range active {
			activeWeight += p.TrustWeight
		}
	}

	if c.revocations.Revoked(subject) {
		return c.denyRevoked(ctx, request, quorum)
	}

	r := &round{
		request:      request,
		votes:        map[string]consensus.Vote{},
		status:       consensus.StatusOpen,
		quorum:       quorum,
		activeWeight: activeWeight,
	}

	c.mu.Lock()
	key := openKey(subject, operation)
	if _, busy := c.openKeys[key]; busy {
		c.mu.Unlock()
		return nil, consensus.ErrDuplicateRequest
	}
	if c.rounds == nil {
		c.rounds = map[uuid.UUID]*round{}
	}
	if c.openKeys == nil {
		c.openKeys = map[string]uuid.UUID{}
	}
	c.rounds[request.ID] = r
	c.openKeys[key] = request.ID
	c.mu.Unlock()

	if c.isRevocationOp(operation) {
		if err := c.revocations.Begin(subject); err != nil {
			c.removeRound(request.ID, key)
			if errors.Is(err, revocation.ErrAlreadyRevoked) {
				return c.denyRevoked(ctx, request, quorum)
			}
			return nil, err
		}
	}

	r.timer = time.AfterFunc(time.Until(request.ExpiresAt), func() {
		c.expire(request.ID)
	})

	if err := c.log.AppendRequest(ctx, request); err != nil {
		c.logger.Warn().Err(err).Str("request", request.ID.String()).Msg("decision log append failed")
	}
	c.recordAudit(ctx, domainAudit.KindRequestSubmitted, request.ID.String(), originator, request)
	c.logger.Info().
		Str("request", request.ID.String()).
		Str("subject", subject).
		Str("operation", operation).
		Str("sensitivity", string(sensitivity)).
		Float64("required", quorum.Required).
		Int("activeParticipants", len(active)).
		Msg("round opened")
	return request, nil
}

// denyRevoked records the short-circuit denial for a permanently revoked
// subject. No participant is consulted.
func (c *Coordinator) denyRevoked(ctx context.Context, request *consensus.Request, quorum consensus.Quorum) (*consensus.Request, error) {
	result := &consensus.Result{
		RequestID:     request.ID,
		Decision:      consensus.DecisionDenied,
		ThresholdUsed: quorum.Required,
		Weighted:      c.weighted,
		Votes:         map[string]consensus.VoteValue{},
		DecidedAt:     time.Now().UTC(),
	}
	r := &round{
		request: request,
		votes:   map[string]consensus.Vote{},
		status:  consensus.StatusResolved,
		result:  result,
	}
	c.mu.Lock()
	if c.rounds == nil {
		c.rounds = map[uuid.UUID]*round{}
	}
	c.rounds[request.ID] = r
	c.mu.Unlock()

	if err := c.log.AppendRequest(ctx, request); err != nil {
		c.logger.Warn().Err(err).Str("request", request.ID.String()).Msg("decision log append failed")
	}
	if err := c.log.AppendResult(ctx, result); err != nil {
		c.logger.Warn().Err(err).Str("request", request.ID.String()).Msg("decision log append failed")
	}
	c.recordAudit(ctx, domainAudit.KindResultEmitted, request.ID.String(), "coordinator", result)
	c.logger.Info().
		Str("request", request.ID.String()).
		Str("subject", request.Subject).
		Msg("request denied: subject revoked")
	return request, nil
}

// CastVote records one participant's vote. A later vote from the same
// participant replaces the earlier one while the round stays open.
func (c *Coordinator) CastVote(ctx context.Context, requestID uuid.UUID, participantID string, value consensus.VoteValue) error {
	if !value.Valid() {
		return consensus.ErrInvalidVote
	}
	r, err := c.round(requestID)
	if err != nil {
		return err
	}
	voter, err := c.directory.Get(ctx, participantID)
	if err != nil {
		if errors.Is(err, participant.ErrParticipantNotFound) {
			return fmt.Errorf("%w: %s", consensus.ErrUnknownParticipant, participantID)
		}
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status != consensus.StatusOpen {
		return consensus.ErrRequestClosed
	}
	now := time.Now().UTC()
	if !now.Before(r.request.ExpiresAt) {
		// The deadline passed but the timer has not fired yet; expiry wins
		// over the late vote.
		c.resolveLocked(ctx, r, consensus.DecisionExpired)
		return consensus.ErrRequestClosed
	}

	vote := consensus.Vote{
		RequestID:     requestID,
		ParticipantID: voter.ID,
		Value:         value,
		Weight:        voter.TrustWeight,
		CastAt:        now,
	}
	r.votes[voter.ID] = vote
	if err := c.log.AppendVote(ctx, &vote); err != nil {
		c.logger.Warn().Err(err).Str("request", requestID.String()).Msg("decision log append failed")
	}
	c.recordAudit(ctx, domainAudit.KindVoteCast, requestID.String(), voter.ID, vote)

	snapshot := consensus.Summarize(r.votes, c.weighted)
	if decision, done := consensus.Evaluate(snapshot, r.quorum, r.activeWeight, now, r.request.ExpiresAt); done {
		c.resolveLocked(ctx, r, decision)
	}
	return nil
}

// SolicitVotes renders a vote from every active participant through its
// registered policy and casts it on the round. The pass stops as soon as
// the round resolves; a participant whose policy errors is skipped and the
// rest still vote. Returns the number of votes cast.
func (c *Coordinator) SolicitVotes(ctx context.Context, requestID uuid.UUID) (int, error) {
	r, err := c.round(requestID)
	if err != nil {
		return 0, err
	}
	r.mu.Lock()
	request := r.request
	open := r.status == consensus.StatusOpen
	r.mu.Unlock()
	if !open {
		return 0, consensus.ErrRequestClosed
	}

	active, err := c.directory.Active(ctx, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("load active participants: %w", err)
	}
	cast := 0
	for _, p := range active {
		decider, err := policy.ForParticipant(p)
		if err != nil {
			c.logger.Warn().Err(err).Str("participant", p.ID).Msg("solicitation skipped: no decider")
			continue
		}
		value, err := decider.Decide(p, request)
		if err != nil {
			c.logger.Warn().Err(err).Str("participant", p.ID).Msg("policy decision failed")
			continue
		}
		if err := c.CastVote(ctx, requestID, p.ID, value); err != nil {
			if errors.Is(err, consensus.ErrRequestClosed) {
				break
			}
			c.logger.Warn().Err(err).Str("participant", p.ID).Msg("solicited vote rejected")
			continue
		}
		cast++
	}
	c.logger.Info().Str("request", requestID.String()).Int("votesCast", cast).Msg("votes solicited")
	return cast, nil
}

// Withdraw cancels an open round. Only the originator may withdraw a
// request that declared one.
func (c *Coordinator) Withdraw(ctx context.Context, requestID uuid.UUID, actor string) error {
	r, err := c.round(requestID)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status != consensus.StatusOpen {
		return consensus.ErrRequestClosed
	}
	if r.request.Originator != "" && actor != r.request.Originator {
		return fmt.Errorf("%w: only the originator may withdraw", consensus.ErrInvalidRequest)
	}
	c.resolveLocked(ctx, r, consensus.DecisionWithdrawn)
	c.recordAudit(ctx, domainAudit.KindRequestWithdrawn, requestID.String(), actor, nil)
	return nil
}

// Tally returns the round's result, resolving a passed deadline on the
// spot. Repeated calls after resolution return the same cached result.
func (c *Coordinator) Tally(ctx context.Context, requestID uuid.UUID) (*consensus.Result, error) {
	r, err := c.round(requestID)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.result != nil {
		return r.result, nil
	}
	now := time.Now().UTC()
	snapshot := consensus.Summarize(r.votes, c.weighted)
	if decision, done := consensus.Evaluate(snapshot, r.quorum, r.activeWeight, now, r.request.ExpiresAt); done {
		c.resolveLocked(ctx, r, decision)
		return r.result, nil
	}
	return nil, nil
}

// GetResult returns the result and lifecycle status for a request; result
// is nil while the round is still open.
func (c *Coordinator) GetResult(ctx context.Context, requestID uuid.UUID) (*consensus.Result, consensus.Status, error) {
	r, err := c.round(requestID)
	if err != nil {
		return nil, "", err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.result, r.status, nil
}

// GetRequest returns the immutable request for an id.
func (c *Coordinator) GetRequest(ctx context.Context, requestID uuid.UUID) (*consensus.Request, error) {
	r, err := c.round(requestID)
	if err != nil {
		return nil, err
	}
	return r.request, nil
}

// Stats summarizes round counts for the stats endpoint.
type Stats struct {
	Total     int            `json:"total"`
	Open      int            `json:"open"`
	Decisions map[string]int `json:"decisions"`
}

func (c *Coordinator) Stats() Stats {
	c.mu.RLock()
	rounds := make([]*round, 0, len(c.rounds))
	for _, r := range c.rounds {
		rounds = append(rounds, r)
	}
	c.mu.RUnlock()

	stats := Stats{Decisions: map[string]int{}}
	for _, r := range rounds {
		r.mu.Lock()
		stats.Total++
		if r.status == consensus.StatusOpen {
			stats.Open++
		} else if r.result != nil {
			stats.Decisions[string(r.result.Decision)]++
		}
		r.mu.Unlock()
	}
	return stats
}

func (c *Coordinator) round(requestID uuid.UUID) (*round, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.rounds[requestID]
	if !ok {
		return nil, consensus.ErrRequestNotFound
	}
	return r, nil
}

func (c *Coordinator) removeRound(requestID uuid.UUID, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.rounds, requestID)
	if c.openKeys[key] == requestID {
		delete(c.openKeys, key)
	}
}

// expire forces an unresolved round to EXPIRED at its deadline.
func (c *Coordinator) expire(requestID uuid.UUID) {
	r, err := c.round(requestID)
	if err != nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status != consensus.StatusOpen {
		return
	}
	c.resolveLocked(context.Background(), r, consensus.DecisionExpired)
}

// resolveLocked finalizes a round. Callers hold the round mutex; the vote
// map can no longer change, so the emitted result snapshot is stable. The
// reputation update runs here, strictly after the tally it is based on.
func (c *Coordinator) resolveLocked(ctx context.Context, r *round, decision consensus.Decision) {
	snapshot := consensus.Summarize(r.votes, c.weighted)
	voteValues := make(map[string]consensus.VoteValue, len(r.votes))
	for id, vote := range r.votes {
		voteValues[id] = vote.Value
	}
	now := time.Now().UTC()
	remaining := r.activeWeight - snapshot.Voted
	if remaining < 0 || !now.Before(r.request.ExpiresAt) {
		remaining = 0
	}
	result := &consensus.Result{
		RequestID:     r.request.ID,
		Decision:      decision,
		ApproveWeight: snapshot.Approve,
		DenyWeight:    snapshot.Deny,
		ThresholdUsed: r.quorum.Threshold(snapshot, remaining),
		Weighted:      c.weighted,
		Votes:         voteValues,
		DecidedAt:     now,
	}
	r.result = result
	switch decision {
	case consensus.DecisionExpired:
		r.status = consensus.StatusExpired
	case consensus.DecisionWithdrawn:
		r.status = consensus.StatusWithdrawn
	default:
		r.status = consensus.StatusResolved
	}
	if r.timer != nil {
		r.timer.Stop()
	}
	c.releaseKey(r.request)

	if err := c.log.AppendResult(ctx, result); err != nil {
		c.logger.Warn().Err(err).Str("request", r.request.ID.String()).Msg("decision log append failed")
	}
	c.recordAudit(ctx, domainAudit.KindResultEmitted, r.request.ID.String(), "coordinator", result)

	if decision == consensus.DecisionApproved || decision == consensus.DecisionDenied {
		if err := c.reputation.Apply(ctx, r.votes, result); err != nil {
			c.logger.Warn().Err(err).Str("request", r.request.ID.String()).Msg("reputation update failed")
		}
	}

	if c.isRevocationOp(r.request.Operation) {
		c.settleRevocationLocked(ctx, r, decision)
	}

	c.logger.Info().
		Str("request", r.request.ID.String()).
		Str("decision", string(decision)).
		Float64("approveWeight", result.ApproveWeight).
		Float64("denyWeight", result.DenyWeight).
		Float64("threshold", result.ThresholdUsed).
		Msg("round resolved")
}

func (c *Coordinator) settleRevocationLocked(ctx context.Context, r *round, decision consensus.Decision) {
	subject := r.request.Subject
	if decision == consensus.DecisionApproved {
		reason := ""
		if raw, ok := r.request.Evidence["reason"].(string); ok {
			reason = raw
		}
		record, err := c.revocations.Commit(subject, reason, r.result)
		if err != nil {
			c.logger.Error().Err(err).Str("subject", subject).Msg("revocation commit failed")
			return
		}
		c.recordAudit(ctx, domainAudit.KindRevocationExecuted, subject, "coordinator", record)
		c.logger.Info().Str("subject", subject).Msg("subject permanently revoked")
		return
	}
	if err := c.revocations.Lapse(subject); err != nil && !errors.Is(err, revocation.ErrNoPendingRevocation) {
		c.logger.Warn().Err(err).Str("subject", subject).Msg("revocation lapse failed")
	}
}

func (c *Coordinator) releaseKey(request *consensus.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := openKey(request.Subject, request.Operation)
	if c.openKeys[key] == request.ID {
		delete(c.openKeys, key)
	}
}

func (c *Coordinator) recordAudit(ctx context.Context, kind domainAudit.EntryKind, refID, actor string, payload interface{}) {
	if c.auditor == nil {
		return
	}
	if err := c.auditor.Record(ctx, kind, refID, actor, payload); err != nil {
		c.logger.Warn().Err(err).Str("ref", refID).Msg("audit record failed")
	}
}
