// Package rendezvous implements the appointment lifecycle: the central
// stateful resource of the back office. An appointment ties a client to a
// training programme with a scheduled date, a lifecycle status and the
// logistics of the meeting (on-site, remote or phone).
package rendezvous

import (
	"time"

	"github.com/google/uuid"

	"github.com/gestionmax/formation-api/internal/platform/datefmt"
)

// Lifecycle statuses. Any status may follow any other: administrators
// routinely correct bookings after the fact, so no transition table is
// enforced.
const (
	StatutEnAttente = "enAttente"
	StatutConfirme  = "confirme"
	StatutAnnule    = "annule"
	StatutTermine   = "termine"
	StatutReporte   = "reporte"
)

// Meeting formats.
const (
	LieuPresentiel = "presentiel"
	LieuDistanciel = "distanciel"
	LieuTelephone  = "telephone"
)

// Appointment types.
const (
	TypePositionnement = "positionnement"
	TypeSuivi          = "suivi"
	TypeBilan          = "bilan"
	TypeInformation    = "information"
)

var validStatuts = map[string]bool{
	StatutEnAttente: true, StatutConfirme: true, StatutAnnule: true,
	StatutTermine: true, StatutReporte: true,
}

var validLieux = map[string]bool{
	LieuPresentiel: true, LieuDistanciel: true, LieuTelephone: true,
}

// ValidStatut reports whether s is a known lifecycle status.
func ValidStatut(s string) bool { return validStatuts[s] }

// ValidLieu reports whether l is a known meeting format.
func ValidLieu(l string) bool { return validLieux[l] }

// Client is the person the appointment is booked for, embedded as a value
// object: contact identity is not reconciled against the learner registry.
type Client struct {
	Nom    string `json:"nom"`
	Prenom string `json:"prenom"`
	Email  string `json:"email"`
}

// RendezVous maps to the rendez_vous table. ProgrammeTitre is a snapshot
// taken at write time and may go stale if the programme is later renamed;
// that staleness is accepted so reads never depend on the programme store.
type RendezVous struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	LegacyID       *string    `db:"legacy_id" json:"legacyId,omitempty"`
	ProgrammeID    uuid.UUID  `db:"programme_id" json:"programmeId"`
	ProgrammeTitre string     `db:"programme_titre" json:"programmeTitre"`
	Client         Client     `db:"client" json:"client"`
	Type           string     `db:"type" json:"type"`
	Statut         string     `db:"statut" json:"statut"`
	Date           string     `db:"date" json:"date"`
	Heure          string     `db:"heure" json:"heure,omitempty"`
	Duree          int        `db:"duree" json:"duree,omitempty"`
	Lieu           string     `db:"lieu" json:"lieu"`
	Adresse        *string    `db:"adresse" json:"adresse,omitempty"`
	LienVisio      *string    `db:"lien_visio" json:"lienVisio,omitempty"`
	Notes          *string    `db:"notes" json:"notes,omitempty"`
	RappelEnvoye   bool       `db:"rappel_envoye" json:"rappelEnvoye"`
	CreatedBy      string     `db:"created_by" json:"createdBy"`
	CreatedAt      time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updatedAt"`
}

// Filter holds the optional list filters, combined with AND. Search is one
// case-insensitive term matched against client surname, first name, email
// and programme title.
type Filter struct {
	Statut      string
	Type        string
	Lieu        string
	ProgrammeID *uuid.UUID
	DateDebut   string
	DateFin     string
	Search      string
}

// Patch enumerates the fields a caller may change on update. Server-managed
// fields (id, createdAt, createdBy) have no patch slot, so a merge can never
// touch them.
type Patch struct {
	ProgrammeID  *uuid.UUID `json:"programmeId,omitempty"`
	Client       *Client    `json:"client,omitempty"`
	Type         *string    `json:"type,omitempty"`
	Statut       *string    `json:"statut,omitempty"`
	Date         *string    `json:"date,omitempty"`
	Heure        *string    `json:"heure,omitempty"`
	Duree        *int       `json:"duree,omitempty"`
	Lieu         *string    `json:"lieu,omitempty"`
	Adresse      *string    `json:"adresse,omitempty"`
	LienVisio    *string    `json:"lienVisio,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
	RappelEnvoye *bool      `json:"rappelEnvoye,omitempty"`
}

// NormalizeDate truncates a date-with-time value to its date portion and
// validates the result is a zero-padded ISO date. Dates are stored and
// compared as plain YYYY-MM-DD strings, so lexicographic order must equal
// chronological order.
func NormalizeDate(raw string) (string, error) {
	return datefmt.Normalize(raw)
}

// Today returns the current date as a YYYY-MM-DD string.
func Today() string {
	return datefmt.Today()
}
