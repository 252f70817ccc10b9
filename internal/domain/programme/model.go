// Package programme manages the training programme catalogue. Programmes are
// the reference data appointments and learners point at; the appointment
// domain consumes this package through its resolver port only.
package programme

import (
	"time"

	"github.com/google/uuid"
)

// Difficulty levels.
const (
	NiveauDebutant      = "debutant"
	NiveauIntermediaire = "intermediaire"
	NiveauAvance        = "avance"
)

var validNiveaux = map[string]bool{
	NiveauDebutant: true, NiveauIntermediaire: true, NiveauAvance: true,
}

// ValidNiveau reports whether n is a known difficulty level.
func ValidNiveau(n string) bool { return validNiveaux[n] }

// Programme maps to the programmes table. Code is the human-facing business
// key (catalogue reference, e.g. "WP-INIT"); it is unique and immutable once
// other records reference it.
type Programme struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Code        string    `db:"code" json:"code"`
	Titre       string    `db:"titre" json:"titre"`
	Description string    `db:"description" json:"description,omitempty"`
	Duree       int       `db:"duree" json:"duree,omitempty"` // hours
	Prix        int       `db:"prix" json:"prix,omitempty"`   // cents
	Niveau      string    `db:"niveau" json:"niveau,omitempty"`
	Publie      bool      `db:"publie" json:"publie"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// Filter holds the optional catalogue list filters, combined with AND.
type Filter struct {
	Niveau string
	Publie *bool
	Search string
}

// Patch enumerates the fields a caller may change on update. Code has no
// patch slot: the business key is fixed at creation.
type Patch struct {
	Titre       *string `json:"titre,omitempty"`
	Description *string `json:"description,omitempty"`
	Duree       *int    `json:"duree,omitempty"`
	Prix        *int    `json:"prix,omitempty"`
	Niveau      *string `json:"niveau,omitempty"`
	Publie      *bool   `json:"publie,omitempty"`
}
