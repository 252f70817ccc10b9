package rendezvous

import (
	"context"
	"net/mail"

	"github.com/google/uuid"

	"github.com/gestionmax/formation-api/internal/platform/apperr"
	"github.com/gestionmax/formation-api/internal/platform/auth"
)

// ProgrammeTitrePlaceholder is stored when the referenced programme cannot
// be resolved at write time. The reference itself is still required; only
// the title snapshot degrades.
const ProgrammeTitrePlaceholder = "Programme non trouvé"

// ProgrammeResolver resolves a programme id to its current title. The
// rendezvous service snapshots the title at write time; it never joins at
// read time.
type ProgrammeResolver interface {
	TitreByID(ctx context.Context, id uuid.UUID) (string, error)
}

// Service carries the appointment business rules: input normalization,
// defaults, dual-identifier lookup and the typed patch merge.
type Service struct {
	repo       Repository
	programmes ProgrammeResolver
}

func NewService(repo Repository, programmes ProgrammeResolver) *Service {
	return &Service{repo: repo, programmes: programmes}
}

// Create validates and persists a new appointment. Missing statut defaults
// to enAttente and rappelEnvoye always starts false. A date carrying a time
// component is truncated to its date portion before storage.
func (s *Service) Create(ctx context.Context, rdv *RendezVous) error {
	if rdv.ProgrammeID == uuid.Nil {
		return apperr.Validation("programmeId est requis")
	}
	if rdv.Client.Nom == "" {
		return apperr.Validation("client.nom est requis")
	}
	if err := validateEmail(rdv.Client.Email); err != nil {
		return err
	}
	if rdv.Type == "" {
		return apperr.Validation("type est requis")
	}
	if rdv.Statut == "" {
		rdv.Statut = StatutEnAttente
	} else if !ValidStatut(rdv.Statut) {
		return apperr.Validation("statut invalide: %s", rdv.Statut)
	}
	if rdv.Lieu != "" && !ValidLieu(rdv.Lieu) {
		return apperr.Validation("lieu invalide: %s", rdv.Lieu)
	}
	if rdv.Date != "" {
		date, err := NormalizeDate(rdv.Date)
		if err != nil {
			return apperr.Validation("%v", err)
		}
		rdv.Date = date
	}

	rdv.ProgrammeTitre = s.resolveTitre(ctx, rdv.ProgrammeID)
	rdv.RappelEnvoye = false
	if actor := auth.UserIDFromContext(ctx); actor != "" {
		rdv.CreatedBy = actor
	}

	return s.repo.Create(ctx, rdv)
}

// Get looks up an appointment by identifier. A well-formed UUID is tried as
// the structured id first; on miss (or if the identifier is not a UUID at
// all) the value is retried as a legacy string key.
func (s *Service) Get(ctx context.Context, rawID string) (*RendezVous, error) {
	if id, err := uuid.Parse(rawID); err == nil {
		rdv, err := s.repo.GetByID(ctx, id)
		if err == nil {
			return rdv, nil
		}
		if !apperr.IsNotFound(err) {
			return nil, err
		}
	}
	return s.repo.GetByLegacyID(ctx, rawID)
}

// Update applies a typed partial update: only the fields set on the patch
// are merged over the existing record, updatedAt is always refreshed and
// the date normalization rule applies to a patched date. Statut changes are
// deliberately unrestricted.
func (s *Service) Update(ctx context.Context, rawID string, p *Patch) (*RendezVous, error) {
	rdv, err := s.Get(ctx, rawID)
	if err != nil {
		return nil, err
	}

	if p.Statut != nil {
		if !ValidStatut(*p.Statut) {
			return nil, apperr.Validation("statut invalide: %s", *p.Statut)
		}
		rdv.Statut = *p.Statut
	}
	if p.Date != nil {
		date, err := NormalizeDate(*p.Date)
		if err != nil {
			return nil, apperr.Validation("%v", err)
		}
		rdv.Date = date
	}
	if p.Client != nil {
		if p.Client.Nom == "" {
			return nil, apperr.Validation("client.nom est requis")
		}
		if err := validateEmail(p.Client.Email); err != nil {
			return nil, err
		}
		rdv.Client = *p.Client
	}
	if p.Type != nil {
		if *p.Type == "" {
			return nil, apperr.Validation("type est requis")
		}
		rdv.Type = *p.Type
	}
	if p.ProgrammeID != nil {
		if *p.ProgrammeID == uuid.Nil {
			return nil, apperr.Validation("programmeId est requis")
		}
		rdv.ProgrammeID = *p.ProgrammeID
		rdv.ProgrammeTitre = s.resolveTitre(ctx, *p.ProgrammeID)
	}
	if p.Lieu != nil {
		if !ValidLieu(*p.Lieu) {
			return nil, apperr.Validation("lieu invalide: %s", *p.Lieu)
		}
		rdv.Lieu = *p.Lieu
	}
	if p.Heure != nil {
		rdv.Heure = *p.Heure
	}
	if p.Duree != nil {
		rdv.Duree = *p.Duree
	}
	if p.Adresse != nil {
		rdv.Adresse = p.Adresse
	}
	if p.LienVisio != nil {
		rdv.LienVisio = p.LienVisio
	}
	if p.Notes != nil {
		rdv.Notes = p.Notes
	}
	if p.RappelEnvoye != nil {
		rdv.RappelEnvoye = *p.RappelEnvoye
	}

	if err := s.repo.Update(ctx, rdv); err != nil {
		return nil, err
	}
	return rdv, nil
}

// Delete removes an appointment permanently, using the same dual-identifier
// lookup as Get. Deleting an unknown identifier is not-found every time.
func (s *Service) Delete(ctx context.Context, rawID string) error {
	rdv, err := s.Get(ctx, rawID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, rdv.ID)
}

// List returns one page of matching appointments plus the total match count.
func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]*RendezVous, int, error) {
	return s.repo.List(ctx, f, limit, offset)
}

// StatsFor recomputes the dashboard statistics over the full filtered set.
func (s *Service) StatsFor(ctx context.Context, f Filter) (Stats, error) {
	all, err := s.repo.ListAll(ctx, f)
	if err != nil {
		return Stats{}, err
	}
	return CalculateStats(all, Today()), nil
}

// resolveTitre snapshots the programme title. A resolver miss or failure
// degrades to the placeholder instead of failing the appointment write.
func (s *Service) resolveTitre(ctx context.Context, id uuid.UUID) string {
	if s.programmes == nil {
		return ProgrammeTitrePlaceholder
	}
	titre, err := s.programmes.TitreByID(ctx, id)
	if err != nil || titre == "" {
		return ProgrammeTitrePlaceholder
	}
	return titre
}

func validateEmail(email string) error {
	if email == "" {
		return apperr.Validation("client.email est requis")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return apperr.Validation("client.email invalide: %s", email)
	}
	return nil
}
