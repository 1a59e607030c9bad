package consensus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quorumgate/quorumgate/internal/application/registry"
	"github.com/quorumgate/quorumgate/internal/application/reputation"
	domainConsensus "github.com/quorumgate/quorumgate/internal/domain/consensus"
	"github.com/quorumgate/quorumgate/internal/domain/participant"
	"github.com/quorumgate/quorumgate/internal/domain/revocation"
	"github.com/quorumgate/quorumgate/internal/infrastructure/memstore"
)

type fixture struct {
	coordinator *Coordinator
	registry    *registry.Service
	repo        *memstore.ParticipantRepository
	revocations *revocation.Machine
	log         *memstore.DecisionLog
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	repo := memstore.NewParticipantRepository()
	reg := registry.NewService(repo, nil, 5*time.Minute, zerolog.Nop())
	tracker := reputation.NewTracker(repo, 0.01, 0.02, 0.05, zerolog.Nop())
	revocations := revocation.NewMachine()
	log := memstore.NewDecisionLog()
	coordinator := NewCoordinator(reg, tracker, revocations, log, nil, opts, zerolog.Nop())
	return &fixture{coordinator: coordinator, registry: reg, repo: repo, revocations: revocations, log: log}
}

func (f *fixture) addParticipants(t *testing.T, trust float64, ids ...string) {
	t.Helper()
	for _, id := range ids {
		_, err := f.registry.Register(context.Background(), id, trust, participant.RolePhone, "", "", "")
		require.NoError(t, err)
	}
}

func TestSingleApprovalResolvesCritical(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{VoteWindow: time.Minute})
	f.addParticipants(t, 0.7, "a1", "b1", "c1", "d1", "e1")

	request, err := f.coordinator.Submit(ctx, "vault-key", "release_secret", domainConsensus.SensitivityCritical, "", nil)
	require.NoError(t, err)

	require.NoError(t, f.coordinator.CastVote(ctx, request.ID, "a1", domainConsensus.VoteApprove))

	result, status, err := f.coordinator.GetResult(ctx, request.ID)
	require.NoError(t, err)
	require.NotNil(t, result, "critical threshold 1 resolves on the first approval")
	assert.Equal(t, domainConsensus.DecisionApproved, result.Decision)
	assert.Equal(t, domainConsensus.StatusResolved, status)
	assert.Equal(t, 1.0, result.ApproveWeight)
}

func TestMajorityShortfallDenies(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{VoteWindow: time.Minute})
	f.addParticipants(t, 0.7, "a1", "b1", "c1", "d1", "e1")

	request, err := f.coordinator.Submit(ctx, "workstation", "read_file", domainConsensus.SensitivityLow, "", nil)
	require.NoError(t, err)

	votes := []struct {
		id    string
		value domainConsensus.VoteValue
	}{
		{"a1", domainConsensus.VoteApprove},
		{"b1", domainConsensus.VoteApprove},
		{"c1", domainConsensus.VoteDeny},
		{"d1", domainConsensus.VoteDeny},
		{"e1", domainConsensus.VoteAbstain},
	}
	for _, v := range votes {
		require.NoError(t, f.coordinator.CastVote(ctx, request.ID, v.id, v.value))
	}

	result, _, err := f.coordinator.GetResult(ctx, request.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, domainConsensus.DecisionDenied, result.Decision, "2 approvals cannot reach threshold 3 once all five voted")
	assert.Equal(t, 2.0, result.ApproveWeight)
	assert.Equal(t, 2.0, result.DenyWeight)
}

func TestVoteAfterResolutionIsRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{VoteWindow: time.Minute})
	f.addParticipants(t, 0.7, "a1", "b1")

	request, err := f.coordinator.Submit(ctx, "vault-key", "release_secret", domainConsensus.SensitivityCritical, "", nil)
	require.NoError(t, err)
	require.NoError(t, f.coordinator.CastVote(ctx, request.ID, "a1", domainConsensus.VoteApprove))

	err = f.coordinator.CastVote(ctx, request.ID, "b1", domainConsensus.VoteDeny)
	assert.ErrorIs(t, err, domainConsensus.ErrRequestClosed)
}

func TestLastWriteWinsVoteReplacement(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{VoteWindow: time.Minute})
	f.addParticipants(t, 0.7, "a1", "b1", "c1")

	request, err := f.coordinator.Submit(ctx, "workstation", "read_file", domainConsensus.SensitivityMedium, "", nil)
	require.NoError(t, err)

	require.NoError(t, f.coordinator.CastVote(ctx, request.ID, "a1", domainConsensus.VoteDeny))
	require.NoError(t, f.coordinator.CastVote(ctx, request.ID, "a1", domainConsensus.VoteApprove))
	require.NoError(t, f.coordinator.CastVote(ctx, request.ID, "b1", domainConsensus.VoteApprove))

	result, _, err := f.coordinator.GetResult(ctx, request.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, domainConsensus.DecisionApproved, result.Decision)
	assert.Equal(t, 2.0, result.ApproveWeight, "the replaced deny must not linger")
	assert.Equal(t, 0.0, result.DenyWeight)
}

func TestExpiryDeterminism(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{VoteWindow: 30 * time.Millisecond})
	f.addParticipants(t, 0.7, "a1", "b1", "c1", "d1", "e1")

	request, err := f.coordinator.Submit(ctx, "workstation", "read_file", domainConsensus.SensitivityLow, "", nil)
	require.NoError(t, err)
	require.NoError(t, f.coordinator.CastVote(ctx, request.ID, "a1", domainConsensus.VoteApprove))

	time.Sleep(80 * time.Millisecond)

	result, status, err := f.coordinator.GetResult(ctx, request.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, domainConsensus.DecisionExpired, result.Decision)
	assert.Equal(t, domainConsensus.StatusExpired, status)

	// A vote that would have reached quorum arrives too late.
	err = f.coordinator.CastVote(ctx, request.ID, "b1", domainConsensus.VoteApprove)
	assert.ErrorIs(t, err, domainConsensus.ErrRequestClosed)
}

func TestIdempotentTally(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{VoteWindow: time.Minute})
	f.addParticipants(t, 0.7, "a1", "b1")

	request, err := f.coordinator.Submit(ctx, "vault-key", "release_secret", domainConsensus.SensitivityCritical, "", nil)
	require.NoError(t, err)
	require.NoError(t, f.coordinator.CastVote(ctx, request.ID, "a1", domainConsensus.VoteApprove))

	first, err := f.coordinator.Tally(ctx, request.ID)
	require.NoError(t, err)
	second, err := f.coordinator.Tally(ctx, request.ID)
	require.NoError(t, err)
	assert.Same(t, first, second, "repeated tallies return the cached result")
}

func TestDuplicateOpenRequestRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{VoteWindow: time.Minute})
	f.addParticipants(t, 0.7, "a1", "b1", "c1")

	_, err := f.coordinator.Submit(ctx, "workstation", "read_file", domainConsensus.SensitivityLow, "", nil)
	require.NoError(t, err)
	_, err = f.coordinator.Submit(ctx, "workstation", "read_file", domainConsensus.SensitivityLow, "", nil)
	assert.ErrorIs(t, err, domainConsensus.ErrDuplicateRequest)

	// A different operation on the same subject is its own round.
	_, err = f.coordinator.Submit(ctx, "workstation", "exec_process", domainConsensus.SensitivityLow, "", nil)
	assert.NoError(t, err)
}

func TestSubmitValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{VoteWindow: time.Minute})

	_, err := f.coordinator.Submit(ctx, "", "read_file", domainConsensus.SensitivityLow, "", nil)
	assert.ErrorIs(t, err, domainConsensus.ErrInvalidRequest)
	_, err = f.coordinator.Submit(ctx, "workstation", "read_file", domainConsensus.Sensitivity("SHRUG"), "", nil)
	assert.ErrorIs(t, err, domainConsensus.ErrInvalidRequest)
}

func TestUnknownParticipantAndVote(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{VoteWindow: time.Minute})
	f.addParticipants(t, 0.7, "a1")

	request, err := f.coordinator.Submit(ctx, "workstation", "read_file", domainConsensus.SensitivityLow, "", nil)
	require.NoError(t, err)

	err = f.coordinator.CastVote(ctx, request.ID, "ghost-1", domainConsensus.VoteApprove)
	assert.ErrorIs(t, err, domainConsensus.ErrUnknownParticipant)

	err = f.coordinator.CastVote(ctx, request.ID, "a1", domainConsensus.VoteValue("MAYBE"))
	assert.ErrorIs(t, err, domainConsensus.ErrInvalidVote)

	err = f.coordinator.CastVote(ctx, uuid.New(), "a1", domainConsensus.VoteApprove)
	assert.ErrorIs(t, err, domainConsensus.ErrRequestNotFound)
}

func TestWithdraw(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{VoteWindow: time.Minute})
	f.addParticipants(t, 0.7, "a1", "b1", "c1")

	request, err := f.coordinator.Submit(ctx, "workstation", "read_file", domainConsensus.SensitivityLow, "a1", nil)
	require.NoError(t, err)

	err = f.coordinator.Withdraw(ctx, request.ID, "b1")
	assert.ErrorIs(t, err, domainConsensus.ErrInvalidRequest, "only the originator may withdraw")

	require.NoError(t, f.coordinator.Withdraw(ctx, request.ID, "a1"))
	result, status, err := f.coordinator.GetResult(ctx, request.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, domainConsensus.DecisionWithdrawn, result.Decision)
	assert.Equal(t, domainConsensus.StatusWithdrawn, status)

	assert.ErrorIs(t, f.coordinator.Withdraw(ctx, request.ID, "a1"), domainConsensus.ErrRequestClosed)
}

func TestRevocationPermanence(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{VoteWindow: time.Minute})
	f.addParticipants(t, 0.95, "a1", "b1", "c1")

	request, err := f.coordinator.Submit(ctx, "device-7", "revoke_device", domainConsensus.SensitivityCritical, "", map[string]interface{}{"reason": "stolen"})
	require.NoError(t, err)
	assert.Equal(t, revocation.StatePending, f.revocations.StateOf("device-7"))

	require.NoError(t, f.coordinator.CastVote(ctx, request.ID, "a1", domainConsensus.VoteApprove))
	assert.True(t, f.revocations.Revoked("device-7"))
	record, ok := f.revocations.RecordOf("device-7")
	require.True(t, ok)
	assert.Equal(t, "stolen", record.Reason)

	// Every later request naming the subject resolves DENIED with no votes.
	later, err := f.coordinator.Submit(ctx, "device-7", "read_file", domainConsensus.SensitivityLow, "", nil)
	require.NoError(t, err)
	result, status, err := f.coordinator.GetResult(ctx, later.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, domainConsensus.DecisionDenied, result.Decision)
	assert.Equal(t, domainConsensus.StatusResolved, status)
	assert.Empty(t, result.Votes)

	err = f.coordinator.CastVote(ctx, later.ID, "b1", domainConsensus.VoteApprove)
	assert.ErrorIs(t, err, domainConsensus.ErrRequestClosed)
}

func TestDeniedRevocationLapses(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{VoteWindow: time.Minute, Thresholds: domainConsensus.ThresholdTable{
		domainConsensus.SensitivityLow:      {Count: 3},
		domainConsensus.SensitivityMedium:   {Count: 2},
		domainConsensus.SensitivityHigh:     {Count: 2},
		domainConsensus.SensitivityCritical: {Count: 2},
	}})
	f.addParticipants(t, 0.95, "a1", "b1")

	request, err := f.coordinator.Submit(ctx, "device-7", "revoke_device", domainConsensus.SensitivityHigh, "", nil)
	require.NoError(t, err)
	// One deny out of two voters makes a threshold of 2 unreachable.
	require.NoError(t, f.coordinator.CastVote(ctx, request.ID, "a1", domainConsensus.VoteDeny))

	result, _, err := f.coordinator.GetResult(ctx, request.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, domainConsensus.DecisionDenied, result.Decision)
	assert.Equal(t, revocation.StateActive, f.revocations.StateOf("device-7"), "denied revocation lapses back to ACTIVE")

	// The subject can be targeted again later.
	_, err = f.coordinator.Submit(ctx, "device-7", "revoke_device", domainConsensus.SensitivityHigh, "", nil)
	assert.NoError(t, err)
}

func TestReputationAppliedOnResolution(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{VoteWindow: time.Minute})
	f.addParticipants(t, 0.50, "a1", "b1", "c1")

	request, err := f.coordinator.Submit(ctx, "vault-key", "release_secret", domainConsensus.SensitivityMedium, "", nil)
	require.NoError(t, err)
	require.NoError(t, f.coordinator.CastVote(ctx, request.ID, "a1", domainConsensus.VoteDeny))
	require.NoError(t, f.coordinator.CastVote(ctx, request.ID, "b1", domainConsensus.VoteApprove))
	require.NoError(t, f.coordinator.CastVote(ctx, request.ID, "c1", domainConsensus.VoteApprove))

	result, _, err := f.coordinator.GetResult(ctx, request.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Equal(t, domainConsensus.DecisionApproved, result.Decision)

	agree, err := f.repo.Get(ctx, "b1")
	require.NoError(t, err)
	dissent, err := f.repo.Get(ctx, "a1")
	require.NoError(t, err)
	assert.InDelta(t, 0.51, agree.TrustWeight, 1e-9)
	assert.InDelta(t, 0.48, dissent.TrustWeight, 1e-9)
}

func TestWeightedVoting(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{VoteWindow: time.Minute, Weighted: true})
	_, err := f.registry.Register(ctx, "strong-1", 1.0, participant.RoleToken, "", "", "")
	require.NoError(t, err)
	_, err = f.registry.Register(ctx, "weak-1", 0.5, participant.RoleCloud, "", "", "")
	require.NoError(t, err)

	request, err := f.coordinator.Submit(ctx, "vault-key", "release_secret", domainConsensus.SensitivityCritical, "", nil)
	require.NoError(t, err)

	// A 0.5-weight approval does not clear a threshold of 1.
	require.NoError(t, f.coordinator.CastVote(ctx, request.ID, "weak-1", domainConsensus.VoteApprove))
	result, _, err := f.coordinator.GetResult(ctx, request.ID)
	require.NoError(t, err)
	assert.Nil(t, result)

	require.NoError(t, f.coordinator.CastVote(ctx, request.ID, "strong-1", domainConsensus.VoteApprove))
	result, _, err = f.coordinator.GetResult(ctx, request.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, domainConsensus.DecisionApproved, result.Decision)
	assert.InDelta(t, 1.5, result.ApproveWeight, 1e-9)
}

func TestFractionalThresholdExcludesAbstainers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{VoteWindow: time.Minute, Thresholds: domainConsensus.ThresholdTable{
		domainConsensus.SensitivityLow:      {Fraction: 0.5},
		domainConsensus.SensitivityMedium:   {Count: 2},
		domainConsensus.SensitivityHigh:     {Count: 1},
		domainConsensus.SensitivityCritical: {Count: 1},
	}})
	f.addParticipants(t, 0.7, "a1", "b1", "c1", "d1")

	request, err := f.coordinator.Submit(ctx, "workstation", "read_file", domainConsensus.SensitivityLow, "", nil)
	require.NoError(t, err)

	require.NoError(t, f.coordinator.CastVote(ctx, request.ID, "a1", domainConsensus.VoteApprove))
	require.NoError(t, f.coordinator.CastVote(ctx, request.ID, "b1", domainConsensus.VoteAbstain))
	require.NoError(t, f.coordinator.CastVote(ctx, request.ID, "c1", domainConsensus.VoteAbstain))

	// One approval of one participating voter clears 0.5 even if the last
	// voter were to join and deny; abstentions leave the denominator.
	result, status, err := f.coordinator.GetResult(ctx, request.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, domainConsensus.DecisionApproved, result.Decision)
	assert.Equal(t, domainConsensus.StatusResolved, status)
	assert.Equal(t, 1.0, result.ApproveWeight)
	assert.Equal(t, 1.0, result.ThresholdUsed)

	err = f.coordinator.CastVote(ctx, request.ID, "d1", domainConsensus.VoteAbstain)
	assert.ErrorIs(t, err, domainConsensus.ErrRequestClosed)
}

func TestSolicitVotesResolvesRound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{VoteWindow: time.Minute})
	for _, id := range []string{"a1", "b1", "c1", "d1", "e1"} {
		_, err := f.registry.Register(ctx, id, 0.7, participant.RolePhone, "", "permissive", "")
		require.NoError(t, err)
	}

	request, err := f.coordinator.Submit(ctx, "workstation", "read_file", domainConsensus.SensitivityLow, "", nil)
	require.NoError(t, err)

	cast, err := f.coordinator.SolicitVotes(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, cast, "solicitation stops once the third approval resolves the round")

	result, status, err := f.coordinator.GetResult(ctx, request.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, domainConsensus.DecisionApproved, result.Decision)
	assert.Equal(t, domainConsensus.StatusResolved, status)

	_, err = f.coordinator.SolicitVotes(ctx, request.ID)
	assert.ErrorIs(t, err, domainConsensus.ErrRequestClosed)
}

func TestSolicitVotesHonorsPolicies(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{VoteWindow: time.Minute, Thresholds: domainConsensus.ThresholdTable{
		domainConsensus.SensitivityLow:      {Count: 3},
		domainConsensus.SensitivityMedium:   {Count: 2},
		domainConsensus.SensitivityHigh:     {Count: 2},
		domainConsensus.SensitivityCritical: {Count: 1},
	}})
	_, err := f.registry.Register(ctx, "a-token", 0.95, participant.RoleToken, "", "permissive", "")
	require.NoError(t, err)
	_, err = f.registry.Register(ctx, "b-guard", 0.8, participant.RoleCloud, "", "conservative", "")
	require.NoError(t, err)
	_, err = f.registry.Register(ctx, "c-guard", 0.8, participant.RoleCloud, "", "conservative", "")
	require.NoError(t, err)
	_, err = f.registry.Register(ctx, "d-new", 0.2, participant.RolePhone, "", "permissive", "")
	require.NoError(t, err)

	request, err := f.coordinator.Submit(ctx, "workstation", "read_file", domainConsensus.SensitivityHigh, "", nil)
	require.NoError(t, err)

	cast, err := f.coordinator.SolicitVotes(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, cast)

	// Conservative cloud nodes deny HIGH, the token approves, the low-trust
	// phone abstains: one approval cannot reach a threshold of two.
	result, _, err := f.coordinator.GetResult(ctx, request.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, domainConsensus.DecisionDenied, result.Decision)
	assert.Equal(t, 1.0, result.ApproveWeight)
	assert.Equal(t, 2.0, result.DenyWeight)
	assert.Equal(t, domainConsensus.VoteAbstain, result.Votes["d-new"])
}

func TestSolicitVotesRulePolicy(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{VoteWindow: time.Minute})
	_, err := f.registry.Register(ctx, "gate-1", 0.8, participant.RoleServer, "", "rule", `trust >= 0.5 && operation == "read_file"`)
	require.NoError(t, err)

	request, err := f.coordinator.Submit(ctx, "workstation", "read_file", domainConsensus.SensitivityCritical, "", nil)
	require.NoError(t, err)

	cast, err := f.coordinator.SolicitVotes(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, cast)

	result, _, err := f.coordinator.GetResult(ctx, request.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, domainConsensus.DecisionApproved, result.Decision, "rule expression approves a trusted read")

	// The same rule denies other operations.
	denied, err := f.coordinator.Submit(ctx, "workstation", "exec_process", domainConsensus.SensitivityCritical, "", nil)
	require.NoError(t, err)
	_, err = f.coordinator.SolicitVotes(ctx, denied.ID)
	require.NoError(t, err)
	result, _, err = f.coordinator.GetResult(ctx, denied.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, domainConsensus.DecisionDenied, result.Decision)
}

func TestConcurrentVoting(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{VoteWindow: time.Minute})
	ids := []string{"a1", "b1", "c1", "d1", "e1", "f1", "g1", "h1"}
	f.addParticipants(t, 0.7, ids...)

	request, err := f.coordinator.Submit(ctx, "workstation", "read_file", domainConsensus.SensitivityLow, "", nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			err := f.coordinator.CastVote(ctx, request.ID, id, domainConsensus.VoteApprove)
			if err != nil && err != domainConsensus.ErrRequestClosed {
				t.Errorf("cast vote %s: %v", id, err)
			}
		}(id)
	}
	wg.Wait()

	result, _, err := f.coordinator.GetResult(ctx, request.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, domainConsensus.DecisionApproved, result.Decision)
	assert.GreaterOrEqual(t, result.ApproveWeight, 3.0)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{VoteWindow: time.Minute})
	f.addParticipants(t, 0.7, "a1", "b1", "c1")

	open, err := f.coordinator.Submit(ctx, "workstation", "read_file", domainConsensus.SensitivityLow, "", nil)
	require.NoError(t, err)
	_ = open
	approved, err := f.coordinator.Submit(ctx, "vault-key", "release_secret", domainConsensus.SensitivityCritical, "", nil)
	require.NoError(t, err)
	require.NoError(t, f.coordinator.CastVote(ctx, approved.ID, "a1", domainConsensus.VoteApprove))

	stats := f.coordinator.Stats()
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Open)
	assert.Equal(t, 1, stats.Decisions[string(domainConsensus.DecisionApproved)])

	requests, votes, results := f.log.Counts()
	assert.Equal(t, 2, requests)
	assert.Equal(t, 1, votes)
	assert.Equal(t, 1, results)
}
