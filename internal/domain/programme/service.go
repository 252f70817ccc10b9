package programme

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/gestionmax/formation-api/internal/platform/apperr"
)

// Service carries the catalogue business rules.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// TitreByID satisfies the resolver port the appointment domain snapshots
// programme titles through.
func (s *Service) TitreByID(ctx context.Context, id uuid.UUID) (string, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return p.Titre, nil
}

// Create validates and persists a new programme. Codes are normalized to
// upper case so "wp-init" and "WP-INIT" collide on the unique key.
func (s *Service) Create(ctx context.Context, p *Programme) error {
	p.Code = strings.ToUpper(strings.TrimSpace(p.Code))
	if p.Code == "" {
		return apperr.Validation("code est requis")
	}
	if p.Titre == "" {
		return apperr.Validation("titre est requis")
	}
	if p.Niveau != "" && !ValidNiveau(p.Niveau) {
		return apperr.Validation("niveau invalide: %s", p.Niveau)
	}
	if p.Duree < 0 {
		return apperr.Validation("duree ne peut pas être négative")
	}
	if p.Prix < 0 {
		return apperr.Validation("prix ne peut pas être négatif")
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Programme, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByCode looks up a programme by its catalogue reference.
func (s *Service) GetByCode(ctx context.Context, code string) (*Programme, error) {
	return s.repo.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
}

// Update applies a typed partial update. The code business key is not
// patchable.
func (s *Service) Update(ctx context.Context, id uuid.UUID, patch *Patch) (*Programme, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Titre != nil {
		if *patch.Titre == "" {
			return nil, apperr.Validation("titre est requis")
		}
		p.Titre = *patch.Titre
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Duree != nil {
		if *patch.Duree < 0 {
			return nil, apperr.Validation("duree ne peut pas être négative")
		}
		p.Duree = *patch.Duree
	}
	if patch.Prix != nil {
		if *patch.Prix < 0 {
			return nil, apperr.Validation("prix ne peut pas être négatif")
		}
		p.Prix = *patch.Prix
	}
	if patch.Niveau != nil {
		if !ValidNiveau(*patch.Niveau) {
			return nil, apperr.Validation("niveau invalide: %s", *patch.Niveau)
		}
		p.Niveau = *patch.Niveau
	}
	if patch.Publie != nil {
		p.Publie = *patch.Publie
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]*Programme, int, error) {
	return s.repo.List(ctx, f, limit, offset)
}
