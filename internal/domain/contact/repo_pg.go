package contact

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

// NewRepoPG creates the PostgreSQL contact-message repository.
func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const contactCols = `id, nom, email, telephone, sujet, message, statut,
	created_at, updated_at`

var searchCols = []string{"nom", "email", "sujet", "message"}

func scanContact(row pgx.Row) (*Contact, error) {
	var m Contact
	err := row.Scan(&m.ID, &m.Nom, &m.Email, &m.Telephone, &m.Sujet,
		&m.Message, &m.Statut, &m.CreatedAt, &m.UpdatedAt)
	return &m, err
}

func (r *repoPG) Create(ctx context.Context, m *Contact) error {
	m.ID = uuid.New()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO contacts (id, nom, email, telephone, sujet, message, statut)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at`,
		m.ID, m.Nom, m.Email, m.Telephone, m.Sujet, m.Message, m.Statut)
	if err := row.Scan(&m.CreatedAt, &m.UpdatedAt); err != nil {
		return apperr.Store(err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Contact, error) {
	m, err := scanContact(r.pool.QueryRow(ctx,
		`SELECT `+contactCols+` FROM contacts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("message %s introuvable", id)
		}
		return nil, apperr.Store(err)
	}
	return m, nil
}

func (r *repoPG) UpdateStatut(ctx context.Context, id uuid.UUID, statut string) (*Contact, error) {
	m, err := scanContact(r.pool.QueryRow(ctx, `
		UPDATE contacts SET statut=$2, updated_at=NOW()
		WHERE id = $1
		RETURNING `+contactCols, id, statut))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("message %s introuvable", id)
		}
		return nil, apperr.Store(err)
	}
	return m, nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return apperr.Store(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("message %s introuvable", id)
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Contact, int, error) {
	qb := store.NewQuery("contacts", contactCols)
	if f.Statut != "" {
		qb.Equal("statut", f.Statut)
	}
	if f.Search != "" {
		qb.SearchAny(searchCols, f.Search)
	}
	qb.OrderBy("created_at DESC")

	var total int
	if err := r.pool.QueryRow(ctx, qb.CountSQL(), qb.CountArgs()...).Scan(&total); err != nil {
		return nil, 0, apperr.Store(err)
	}

	rows, err := r.pool.Query(ctx, qb.DataSQL(), qb.DataArgs(limit, offset)...)
	if err != nil {
		return nil, 0, apperr.Store(err)
	}
	defer rows.Close()

	var items []*Contact
	for rows.Next() {
		m, err := scanContact(rows)
		if err != nil {
			return nil, 0, apperr.Store(err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.Store(err)
	}
	return items, total, nil
}
