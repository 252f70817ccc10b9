package apprenant

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the learner storage port.
type Repository interface {
	Create(ctx context.Context, a *Apprenant) error
	GetByID(ctx context.Context, id uuid.UUID) (*Apprenant, error)
	GetByEmail(ctx context.Context, email string) (*Apprenant, error)
	Update(ctx context.Context, a *Apprenant) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f Filter, limit, offset int) ([]*Apprenant, int, error)
}
