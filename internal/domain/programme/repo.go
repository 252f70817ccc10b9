package programme

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the programme storage port.
type Repository interface {
	Create(ctx context.Context, p *Programme) error
	GetByID(ctx context.Context, id uuid.UUID) (*Programme, error)
	GetByCode(ctx context.Context, code string) (*Programme, error)
	Update(ctx context.Context, p *Programme) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f Filter, limit, offset int) ([]*Programme, int, error)
}
