package apprenant

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gestionmax/formation-api/internal/platform/apperr"
	"github.com/gestionmax/formation-api/internal/platform/store"
)

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG creates the PostgreSQL learner repository.
func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const apprenantCols = `id, nom, prenom, email, telephone, programme_id, statut,
	date_inscription, notes, created_at, updated_at`

var searchCols = []string{"nom", "prenom", "email"}

func scanApprenant(row pgx.Row) (*Apprenant, error) {
	var a Apprenant
	err := row.Scan(&a.ID, &a.Nom, &a.Prenom, &a.Email, &a.Telephone,
		&a.ProgrammeID, &a.Statut, &a.DateInscription, &a.Notes,
		&a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *repoPG) Create(ctx context.Context, a *Apprenant) error {
	a.ID = uuid.New()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO apprenants (id, nom, prenom, email, telephone, programme_id,
			statut, date_inscription, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at, updated_at`,
		a.ID, a.Nom, a.Prenom, a.Email, a.Telephone, a.ProgrammeID,
		a.Statut, a.DateInscription, a.Notes)
	if err := row.Scan(&a.CreatedAt, &a.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("un apprenant avec l'email %s existe déjà", a.Email)
		}
		return apperr.Store(err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Apprenant, error) {
	a, err := scanApprenant(r.pool.QueryRow(ctx,
		`SELECT `+apprenantCols+` FROM apprenants WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("apprenant %s introuvable", id)
		}
		return nil, apperr.Store(err)
	}
	return a, nil
}

func (r *repoPG) GetByEmail(ctx context.Context, email string) (*Apprenant, error) {
	a, err := scanApprenant(r.pool.QueryRow(ctx,
		`SELECT `+apprenantCols+` FROM apprenants WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("apprenant %s introuvable", email)
		}
		return nil, apperr.Store(err)
	}
	return a, nil
}

func (r *repoPG) Update(ctx context.Context, a *Apprenant) error {
	row := r.pool.QueryRow(ctx, `
		UPDATE apprenants SET nom=$2, prenom=$3, email=$4, telephone=$5,
			programme_id=$6, statut=$7, date_inscription=$8, notes=$9,
			updated_at=NOW()
		WHERE id = $1
		RETURNING updated_at`,
		a.ID, a.Nom, a.Prenom, a.Email, a.Telephone, a.ProgrammeID,
		a.Statut, a.DateInscription, a.Notes)
	if err := row.Scan(&a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("apprenant %s introuvable", a.ID)
		}
		if isUniqueViolation(err) {
			return apperr.Conflict("un apprenant avec l'email %s existe déjà", a.Email)
		}
		return apperr.Store(err)
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM apprenants WHERE id = $1`, id)
	if err != nil {
		return apperr.Store(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("apprenant %s introuvable", id)
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Apprenant, int, error) {
	qb := store.NewQuery("apprenants", apprenantCols)
	if f.Statut != "" {
		qb.Equal("statut", f.Statut)
	}
	if f.ProgrammeID != nil {
		qb.Equal("programme_id", *f.ProgrammeID)
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

	var items []*Apprenant
	for rows.Next() {
		a, err := scanApprenant(rows)
		if err != nil {
			return nil, 0, apperr.Store(err)
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.Store(err)
	}
	return items, total, nil
}
