// Package memstore provides the in-memory persistence used by the service:
// a participant table and append-only logs for rounds and audit entries.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/quorumgate/quorumgate/internal/domain/participant"
)

// ParticipantRepository is an in-memory participant.Repository.
type ParticipantRepository struct {
	mu    sync.RWMutex
	items map[string]*participant.Participant
}

func NewParticipantRepository() *ParticipantRepository {
	return &ParticipantRepository{items: map[string]*participant.Participant{}}
}

func clone(p *participant.Participant) *participant.Participant {
	cp := *p
	return &cp
}

func (r *ParticipantRepository) Insert(ctx context.Context, p *participant.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[p.ID]; exists {
		return participant.ErrDuplicateParticipant
	}
	r.items[p.ID] = clone(p)
	return nil
}

func (r *ParticipantRepository) Get(ctx context.Context, id string) (*participant.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.items[id]
	if !ok {
		return nil, participant.ErrParticipantNotFound
	}
	return clone(p), nil
}

func (r *ParticipantRepository) Update(ctx context.Context, p *participant.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[p.ID]; !exists {
		return participant.ErrParticipantNotFound
	}
	r.items[p.ID] = clone(p)
	return nil
}

func (r *ParticipantRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[id]; !exists {
		return participant.ErrParticipantNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *ParticipantRepository) List(ctx context.Context) ([]*participant.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*participant.Participant, 0, len(r.items))
	for _, p := range r.items {
		out = append(out, clone(p))
	}
	sortByID(out)
	return out, nil
}

func (r *ParticipantRepository) ListActive(ctx context.Context) ([]*participant.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*participant.Participant, 0, len(r.items))
	for _, p := range r.items {
		if p.Status == participant.StatusActive {
			out = append(out, clone(p))
		}
	}
	sortByID(out)
	return out, nil
}

func sortByID(items []*participant.Participant) {
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
}
