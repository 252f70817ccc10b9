// Package apprenant manages learner records: the people moving through the
// training pipeline from first contact to completed (or abandoned) training.
package apprenant

import (
	"time"

	"github.com/google/uuid"
)

// Pipeline statuses.
const (
	StatutProspect    = "prospect"
	StatutInscrit     = "inscrit"
	StatutEnFormation = "en_formation"
	StatutTermine     = "termine"
	StatutAbandonne   = "abandonne"
)

var validStatuts = map[string]bool{
	StatutProspect: true, StatutInscrit: true, StatutEnFormation: true,
	StatutTermine: true, StatutAbandonne: true,
}

// ValidStatut reports whether s is a known pipeline status.
func ValidStatut(s string) bool { return validStatuts[s] }

// Apprenant maps to the apprenants table. Email is the unique business key:
// the same person registering twice is a conflict, not a second record.
type Apprenant struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	Nom             string     `db:"nom" json:"nom"`
	Prenom          string     `db:"prenom" json:"prenom"`
	Email           string     `db:"email" json:"email"`
	Telephone       *string    `db:"telephone" json:"telephone,omitempty"`
	ProgrammeID     *uuid.UUID `db:"programme_id" json:"programmeId,omitempty"`
	Statut          string     `db:"statut" json:"statut"`
	DateInscription string     `db:"date_inscription" json:"dateInscription,omitempty"`
	Notes           *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updatedAt"`
}

// Filter holds the optional list filters, combined with AND. Search matches
// surname, first name and email.
type Filter struct {
	Statut      string
	ProgrammeID *uuid.UUID
	Search      string
}

// Patch enumerates the fields a caller may change on update.
type Patch struct {
	Nom             *string    `json:"nom,omitempty"`
	Prenom          *string    `json:"prenom,omitempty"`
	Email           *string    `json:"email,omitempty"`
	Telephone       *string    `json:"telephone,omitempty"`
	ProgrammeID     *uuid.UUID `json:"programmeId,omitempty"`
	Statut          *string    `json:"statut,omitempty"`
	DateInscription *string    `json:"dateInscription,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
}
