package memstore

import (
	"context"
	"sync"

	"github.com/quorumgate/quorumgate/internal/domain/consensus"
)

// DecisionLog is an in-memory append-only consensus.Log. Entries are stored
// in arrival order and never mutated; replaying them reproduces every round.
type DecisionLog struct {
	mu       sync.RWMutex
	requests []*consensus.Request
	votes    []*consensus.Vote
	results  []*consensus.Result
}

func NewDecisionLog() *DecisionLog {
	return &DecisionLog{}
}

func (l *DecisionLog) AppendRequest(ctx context.Context, request *consensus.Request) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	cp := *request
	l.requests = append(l.requests, &cp)
	return nil
}

func (l *DecisionLog) AppendVote(ctx context.Context, vote *consensus.Vote) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	cp := *vote
	l.votes = append(l.votes, &cp)
	return nil
}

func (l *DecisionLog) AppendResult(ctx context.Context, result *consensus.Result) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	cp := *result
	if result.Votes != nil {
		cp.Votes = make(map[string]consensus.VoteValue, len(result.Votes))
		for k, v := range result.Votes {
			cp.Votes[k] = v
		}
	}
	l.results = append(l.results, &cp)
	return nil
}

func (l *DecisionLog) Results(ctx context.Context, limit, offset int) ([]*consensus.Result, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	start, end := pageWindow(len(l.results), limit, offset)
	out := make([]*consensus.Result, 0, end-start)
	for _, result := range l.results[start:end] {
		cp := *result
		out = append(out, &cp)
	}
	return out, nil
}

// Counts reports the log sizes for the stats endpoint.
func (l *DecisionLog) Counts() (requests, votes, results int) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.requests), len(l.votes), len(l.results)
}

func pageWindow(total, limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return total, total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return offset, end
}
