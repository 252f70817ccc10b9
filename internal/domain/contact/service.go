package contact

import (
	"context"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/gestionmax/formation-api/internal/platform/apperr"
)

// Service carries the contact-message rules. Submission is deliberately
// lenient: the form is public, so only the fields needed to answer the
// sender are enforced.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Submit validates and stores an inbound message. Every new message starts
// in statut nouveau regardless of what the caller sends.
func (s *Service) Submit(ctx context.Context, m *Contact) error {
	m.Nom = strings.TrimSpace(m.Nom)
	m.Message = strings.TrimSpace(m.Message)
	if m.Nom == "" {
		return apperr.Validation("nom est requis")
	}
	if m.Email == "" {
		return apperr.Validation("email est requis")
	}
	if _, err := mail.ParseAddress(m.Email); err != nil {
		return apperr.Validation("email invalide: %s", m.Email)
	}
	if m.Message == "" {
		return apperr.Validation("message est requis")
	}
	m.Statut = StatutNouveau
	return s.repo.Create(ctx, m)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Contact, error) {
	return s.repo.GetByID(ctx, id)
}

// SetStatut moves a message through triage. Like appointment statuses, any
// transition is allowed.
func (s *Service) SetStatut(ctx context.Context, id uuid.UUID, statut string) (*Contact, error) {
	if !ValidStatut(statut) {
		return nil, apperr.Validation("statut invalide: %s", statut)
	}
	return s.repo.UpdateStatut(ctx, id, statut)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]*Contact, int, error) {
	return s.repo.List(ctx, f, limit, offset)
}
