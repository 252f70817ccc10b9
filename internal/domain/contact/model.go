// Package contact stores the messages submitted through the public contact
// form. Submission is unauthenticated; triage (read, processed, deleted) is
// an admin operation.
package contact

import (
	"time"

	"github.com/google/uuid"
)

// Triage statuses.
const (
	StatutNouveau = "nouveau"
	StatutLu      = "lu"
	StatutTraite  = "traite"
)

var validStatuts = map[string]bool{
	StatutNouveau: true, StatutLu: true, StatutTraite: true,
}

// ValidStatut reports whether s is a known triage status.
func ValidStatut(s string) bool { return validStatuts[s] }

// Contact maps to the contacts table.
type Contact struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Nom       string    `db:"nom" json:"nom"`
	Email     string    `db:"email" json:"email"`
	Telephone *string   `db:"telephone" json:"telephone,omitempty"`
	Sujet     *string   `db:"sujet" json:"sujet,omitempty"`
	Message   string    `db:"message" json:"message"`
	Statut    string    `db:"statut" json:"statut"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Filter holds the optional list filters.
type Filter struct {
	Statut string
	Search string
}
