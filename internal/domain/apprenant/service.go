package apprenant

import (
	"context"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/gestionmax/formation-api/internal/platform/apperr"
	"github.com/gestionmax/formation-api/internal/platform/datefmt"
)

// Service carries the learner business rules: email as unique business key,
// pipeline status validation and registration-date normalization.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and persists a new learner. Emails are lower-cased so the
// unique key is case-insensitive. Missing statut defaults to prospect.
func (s *Service) Create(ctx context.Context, a *Apprenant) error {
	if a.Nom == "" {
		return apperr.Validation("nom est requis")
	}
	email, err := normalizeEmail(a.Email)
	if err != nil {
		return err
	}
	a.Email = email
	if a.Statut == "" {
		a.Statut = StatutProspect
	} else if !ValidStatut(a.Statut) {
		return apperr.Validation("statut invalide: %s", a.Statut)
	}
	if a.DateInscription != "" {
		date, err := datefmt.Normalize(a.DateInscription)
		if err != nil {
			return apperr.Validation("%v", err)
		}
		a.DateInscription = date
	}
	return s.repo.Create(ctx, a)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Apprenant, error) {
	return s.repo.GetByID(ctx, id)
}

// Update applies a typed partial update with the same normalization rules as
// Create.
func (s *Service) Update(ctx context.Context, id uuid.UUID, p *Patch) (*Apprenant, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Nom != nil {
		if *p.Nom == "" {
			return nil, apperr.Validation("nom est requis")
		}
		a.Nom = *p.Nom
	}
	if p.Prenom != nil {
		a.Prenom = *p.Prenom
	}
	if p.Email != nil {
		email, err := normalizeEmail(*p.Email)
		if err != nil {
			return nil, err
		}
		a.Email = email
	}
	if p.Telephone != nil {
		a.Telephone = p.Telephone
	}
	if p.ProgrammeID != nil {
		a.ProgrammeID = p.ProgrammeID
	}
	if p.Statut != nil {
		if !ValidStatut(*p.Statut) {
			return nil, apperr.Validation("statut invalide: %s", *p.Statut)
		}
		a.Statut = *p.Statut
	}
	if p.DateInscription != nil {
		date, err := datefmt.Normalize(*p.DateInscription)
		if err != nil {
			return nil, apperr.Validation("%v", err)
		}
		a.DateInscription = date
	}
	if p.Notes != nil {
		a.Notes = p.Notes
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]*Apprenant, int, error) {
	return s.repo.List(ctx, f, limit, offset)
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", apperr.Validation("email est requis")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", apperr.Validation("email invalide: %s", email)
	}
	return email, nil
}
