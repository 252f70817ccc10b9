package contact

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the contact-message storage port.
type Repository interface {
	Create(ctx context.Context, m *Contact) error
	GetByID(ctx context.Context, id uuid.UUID) (*Contact, error)
	UpdateStatut(ctx context.Context, id uuid.UUID, statut string) (*Contact, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f Filter, limit, offset int) ([]*Contact, int, error)
}
