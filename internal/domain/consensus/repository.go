package consensus

import "context"

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_log.go -package=mocks -source=repository.go

// Log is the append-only audit record of every round: requests, votes and
// results are written once and never mutated. Replaying the log in order
// reproduces each round's history.
type Log interface {
	AppendRequest(ctx context.Context, request *Request) error
	AppendVote(ctx context.Context, vote *Vote) error
	AppendResult(ctx context.Context, result *Result) error
	Results(ctx context.Context, limit, offset int) ([]*Result, error)
}
