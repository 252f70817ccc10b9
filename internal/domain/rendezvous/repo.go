package rendezvous

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the single persistence port for appointments. Lookups miss
// with a not-found application error, never a raw driver error.
type Repository interface {
	Create(ctx context.Context, rdv *RendezVous) error
	GetByID(ctx context.Context, id uuid.UUID) (*RendezVous, error)
	GetByLegacyID(ctx context.Context, legacyID string) (*RendezVous, error)
	Update(ctx context.Context, rdv *RendezVous) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f Filter, limit, offset int) ([]*RendezVous, int, error)
	ListAll(ctx context.Context, f Filter) ([]*RendezVous, error)
}
