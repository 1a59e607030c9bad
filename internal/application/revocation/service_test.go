package revocation

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quorumgate/quorumgate/internal/domain/consensus"
	"github.com/quorumgate/quorumgate/internal/domain/participant"
	domainRevocation "github.com/quorumgate/quorumgate/internal/domain/revocation"
)

type fakeSubmitter struct {
	submitted []string
	err       error
}

func (f *fakeSubmitter) Submit(ctx context.Context, subject, operation string, sensitivity consensus.Sensitivity, originator string, evidence map[string]interface{}) (*consensus.Request, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.submitted = append(f.submitted, subject)
	return &consensus.Request{ID: uuid.New(), Subject: subject, Operation: operation, Sensitivity: sensitivity}, nil
}

type fakeStaleLister struct {
	stale []*participant.Participant
}

func (f *fakeStaleLister) Stale(ctx context.Context, asOf time.Time, window time.Duration) ([]*participant.Participant, error) {
	return f.stale, nil
}

func staleParticipant(id string) *participant.Participant {
	return &participant.Participant{
		ID: id, Role: participant.RolePhone, Status: participant.StatusActive,
		LastSeen: time.Now().Add(-48 * time.Hour),
	}
}

func TestSweepFilesRevocationRounds(t *testing.T) {
	machine := domainRevocation.NewMachine()
	submitter := &fakeSubmitter{}
	lister := &fakeStaleLister{stale: []*participant.Participant{staleParticipant("phone-1"), staleParticipant("token-1")}}
	svc := NewService(machine, submitter, lister, 24*time.Hour, zerolog.Nop())

	swept, err := svc.Sweep(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"phone-1", "token-1"}, swept)
	assert.ElementsMatch(t, []string{"phone-1", "token-1"}, submitter.submitted)
}

func TestSweepSkipsNonActiveSubjects(t *testing.T) {
	machine := domainRevocation.NewMachine()
	require.NoError(t, machine.Begin("pending-1"))
	require.NoError(t, machine.Begin("revoked-1"))
	_, err := machine.Commit("revoked-1", "stolen", nil)
	require.NoError(t, err)

	submitter := &fakeSubmitter{}
	lister := &fakeStaleLister{stale: []*participant.Participant{
		staleParticipant("pending-1"),
		staleParticipant("revoked-1"),
		staleParticipant("fresh-target"),
	}}
	svc := NewService(machine, submitter, lister, 24*time.Hour, zerolog.Nop())

	swept, err := svc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh-target"}, swept)
}

func TestSweepToleratesDuplicateRounds(t *testing.T) {
	machine := domainRevocation.NewMachine()
	submitter := &fakeSubmitter{err: consensus.ErrDuplicateRequest}
	lister := &fakeStaleLister{stale: []*participant.Participant{staleParticipant("phone-1")}}
	svc := NewService(machine, submitter, lister, 24*time.Hour, zerolog.Nop())

	swept, err := svc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Empty(t, swept)
}

func TestSweepToleratesWrappedDuplicate(t *testing.T) {
	machine := domainRevocation.NewMachine()
	submitter := &fakeSubmitter{err: fmt.Errorf("open round: %w", consensus.ErrDuplicateRequest)}
	lister := &fakeStaleLister{stale: []*participant.Participant{staleParticipant("phone-1")}}
	svc := NewService(machine, submitter, lister, 24*time.Hour, zerolog.Nop())

	swept, err := svc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Empty(t, swept)
}

func TestStateAccessors(t *testing.T) {
	machine := domainRevocation.NewMachine()
	svc := NewService(machine, &fakeSubmitter{}, &fakeStaleLister{}, 24*time.Hour, zerolog.Nop())

	assert.Equal(t, domainRevocation.StateActive, svc.StateOf("device-7"))
	require.NoError(t, machine.Begin("device-7"))
	_, err := machine.Commit("device-7", "stolen", nil)
	require.NoError(t, err)
	assert.Equal(t, domainRevocation.StateRevoked, svc.StateOf("device-7"))
	assert.Len(t, svc.Records(), 1)
}
