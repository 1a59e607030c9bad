package memstore

import (
	"context"
	"sync"

	"github.com/quorumgate/quorumgate/internal/domain/audit"
)

// AuditTrail is an in-memory append-only audit.Trail.
type AuditTrail struct {
	mu      sync.RWMutex
	entries []*audit.Entry
}

func NewAuditTrail() *AuditTrail {
	return &AuditTrail{}
}

func (t *AuditTrail) Append(ctx context.Context, entry *audit.Entry) error {
	if entry == nil || entry.Kind == "" || entry.RefID == "" {
		return audit.ErrInvalidEntry
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	cp := *entry
	t.entries = append(t.entries, &cp)
	return nil
}

func (t *AuditTrail) List(ctx context.Context, limit, offset int) ([]*audit.Entry, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	start, end := pageWindow(len(t.entries), limit, offset)
	out := make([]*audit.Entry, 0, end-start)
	for _, entry := range t.entries[start:end] {
		cp := *entry
		out = append(out, &cp)
	}
	return out, nil
}

func (t *AuditTrail) ListByRef(ctx context.Context, refID string) ([]*audit.Entry, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*audit.Entry, 0)
	for _, entry := range t.entries {
		if entry.RefID == refID {
			cp := *entry
			out = append(out, &cp)
		}
	}
	return out, nil
}
