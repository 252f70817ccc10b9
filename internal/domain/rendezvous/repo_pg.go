package rendezvous

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gestionmax/formation-api/internal/platform/apperr"
	"github.com/gestionmax/formation-api/internal/platform/store"
)

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG creates the PostgreSQL appointment repository. The client value
// object is persisted as a JSONB document; everything else is a flat column.
func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const rdvCols = `id, legacy_id, programme_id, programme_titre, client, type, statut,
	date, heure, duree, lieu, adresse, lien_visio, notes, rappel_envoye,
	created_by, created_at, updated_at`

// searchCols are the fields the free-text filter matches against.
var searchCols = []string{"client->>'nom'", "client->>'prenom'", "client->>'email'", "programme_titre"}

func scanRdv(row pgx.Row) (*RendezVous, error) {
	var rdv RendezVous
	err := row.Scan(&rdv.ID, &rdv.LegacyID, &rdv.ProgrammeID, &rdv.ProgrammeTitre,
		&rdv.Client, &rdv.Type, &rdv.Statut,
		&rdv.Date, &rdv.Heure, &rdv.Duree, &rdv.Lieu, &rdv.Adresse,
		&rdv.LienVisio, &rdv.Notes, &rdv.RappelEnvoye,
		&rdv.CreatedBy, &rdv.CreatedAt, &rdv.UpdatedAt)
	return &rdv, err
}

func (r *repoPG) Create(ctx context.Context, rdv *RendezVous) error {
	rdv.ID = uuid.New()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO rendez_vous (id, legacy_id, programme_id, programme_titre, client,
			type, statut, date, heure, duree, lieu, adresse, lien_visio, notes,
			rappel_envoye, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
		RETURNING created_at, updated_at`,
		rdv.ID, rdv.LegacyID, rdv.ProgrammeID, rdv.ProgrammeTitre, rdv.Client,
		rdv.Type, rdv.Statut, rdv.Date, rdv.Heure, rdv.Duree, rdv.Lieu,
		rdv.Adresse, rdv.LienVisio, rdv.Notes, rdv.RappelEnvoye, rdv.CreatedBy)
	if err := row.Scan(&rdv.CreatedAt, &rdv.UpdatedAt); err != nil {
		return apperr.Store(err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*RendezVous, error) {
	rdv, err := scanRdv(r.pool.QueryRow(ctx,
		`SELECT `+rdvCols+` FROM rendez_vous WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("rendez-vous %s introuvable", id)
		}
		return nil, apperr.Store(err)
	}
	return rdv, nil
}

func (r *repoPG) GetByLegacyID(ctx context.Context, legacyID string) (*RendezVous, error) {
	rdv, err := scanRdv(r.pool.QueryRow(ctx,
		`SELECT `+rdvCols+` FROM rendez_vous WHERE legacy_id = $1`, legacyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("rendez-vous %s introuvable", legacyID)
		}
		return nil, apperr.Store(err)
	}
	return rdv, nil
}

func (r *repoPG) Update(ctx context.Context, rdv *RendezVous) error {
	row := r.pool.QueryRow(ctx, `
		UPDATE rendez_vous SET programme_id=$2, programme_titre=$3, client=$4,
			type=$5, statut=$6, date=$7, heure=$8, duree=$9, lieu=$10,
			adresse=$11, lien_visio=$12, notes=$13, rappel_envoye=$14,
			updated_at=NOW()
		WHERE id = $1
		RETURNING updated_at`,
		rdv.ID, rdv.ProgrammeID, rdv.ProgrammeTitre, rdv.Client,
		rdv.Type, rdv.Statut, rdv.Date, rdv.Heure, rdv.Duree, rdv.Lieu,
		rdv.Adresse, rdv.LienVisio, rdv.Notes, rdv.RappelEnvoye)
	if err := row.Scan(&rdv.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("rendez-vous %s introuvable", rdv.ID)
		}
		return apperr.Store(err)
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM rendez_vous WHERE id = $1`, id)
	if err != nil {
		return apperr.Store(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("rendez-vous %s introuvable", id)
	}
	return nil
}

func buildQuery(f Filter) *store.Query {
	qb := store.NewQuery("rendez_vous", rdvCols)
	if f.Statut != "" {
		qb.Equal("statut", f.Statut)
	}
	if f.Type != "" {
		qb.Equal("type", f.Type)
	}
	if f.Lieu != "" {
		qb.Equal("lieu", f.Lieu)
	}
	if f.ProgrammeID != nil {
		qb.Equal("programme_id", *f.ProgrammeID)
	}
	if f.DateDebut != "" {
		qb.GTE("date", f.DateDebut)
	}
	if f.DateFin != "" {
		qb.LTE("date", f.DateFin)
	}
	if f.Search != "" {
		qb.SearchAny(searchCols, f.Search)
	}
	qb.OrderBy("created_at DESC")
	return qb
}

func (r *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*RendezVous, int, error) {
	qb := buildQuery(f)

	var total int
	if err := r.pool.QueryRow(ctx, qb.CountSQL(), qb.CountArgs()...).Scan(&total); err != nil {
		return nil, 0, apperr.Store(err)
	}

	rows, err := r.pool.Query(ctx, qb.DataSQL(), qb.DataArgs(limit, offset)...)
	if err != nil {
		return nil, 0, apperr.Store(err)
	}
	defer rows.Close()

	var items []*RendezVous
	for rows.Next() {
		rdv, err := scanRdv(rows)
		if err != nil {
			return nil, 0, apperr.Store(err)
		}
		items = append(items, rdv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.Store(err)
	}
	return items, total, nil
}

func (r *repoPG) ListAll(ctx context.Context, f Filter) ([]*RendezVous, error) {
	qb := buildQuery(f)

	rows, err := r.pool.Query(ctx, qb.AllSQL(), qb.AllArgs()...)
	if err != nil {
		return nil, apperr.Store(err)
	}
	defer rows.Close()

	var items []*RendezVous
	for rows.Next() {
		rdv, err := scanRdv(rows)
		if err != nil {
			return nil, apperr.Store(err)
		}
		items = append(items, rdv)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store(err)
	}
	return items, nil
}
