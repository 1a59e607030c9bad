package participant

import "context"

// Repository defines the interface for participant persistence.
type Repository interface {
	Insert(ctx context.Context, p *Participant) error
	Get(ctx context.Context, id string) (*Participant, error)
	Update(ctx context.Context, p *Participant) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Participant, error)
	ListActive(ctx context.Context) ([]*Participant, error)
}
