package programme

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

// NewRepoPG creates the PostgreSQL programme repository.
func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const progCols = `id, code, titre, description, duree, prix, niveau, publie,
	created_at, updated_at`

var searchCols = []string{"code", "titre", "description"}

func scanProgramme(row pgx.Row) (*Programme, error) {
	var p Programme
	err := row.Scan(&p.ID, &p.Code, &p.Titre, &p.Description, &p.Duree, &p.Prix,
		&p.Niveau, &p.Publie, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *repoPG) Create(ctx context.Context, p *Programme) error {
	p.ID = uuid.New()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO programmes (id, code, titre, description, duree, prix, niveau, publie)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at, updated_at`,
		p.ID, p.Code, p.Titre, p.Description, p.Duree, p.Prix, p.Niveau, p.Publie)
	if err := row.Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("un programme avec le code %s existe déjà", p.Code)
		}
		return apperr.Store(err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Programme, error) {
	p, err := scanProgramme(r.pool.QueryRow(ctx,
		`SELECT `+progCols+` FROM programmes WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("programme %s introuvable", id)
		}
		return nil, apperr.Store(err)
	}
	return p, nil
}

func (r *repoPG) GetByCode(ctx context.Context, code string) (*Programme, error) {
	p, err := scanProgramme(r.pool.QueryRow(ctx,
		`SELECT `+progCols+` FROM programmes WHERE code = $1`, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("programme %s introuvable", code)
		}
		return nil, apperr.Store(err)
	}
	return p, nil
}

func (r *repoPG) Update(ctx context.Context, p *Programme) error {
	row := r.pool.QueryRow(ctx, `
		UPDATE programmes SET titre=$2, description=$3, duree=$4, prix=$5,
			niveau=$6, publie=$7, updated_at=NOW()
		WHERE id = $1
		RETURNING updated_at`,
		p.ID, p.Titre, p.Description, p.Duree, p.Prix, p.Niveau, p.Publie)
	if err := row.Scan(&p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("programme %s introuvable", p.ID)
		}
		return apperr.Store(err)
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM programmes WHERE id = $1`, id)
	if err != nil {
		return apperr.Store(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("programme %s introuvable", id)
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Programme, int, error) {
	qb := store.NewQuery("programmes", progCols)
	if f.Niveau != "" {
		qb.Equal("niveau", f.Niveau)
	}
	if f.Publie != nil {
		qb.Equal("publie", *f.Publie)
	}
	if f.Search != "" {
		qb.SearchAny(searchCols, f.Search)
	}
	qb.OrderBy("titre ASC")

	var total int
	if err := r.pool.QueryRow(ctx, qb.CountSQL(), qb.CountArgs()...).Scan(&total); err != nil {
		return nil, 0, apperr.Store(err)
	}

	rows, err := r.pool.Query(ctx, qb.DataSQL(), qb.DataArgs(limit, offset)...)
	if err != nil {
		return nil, 0, apperr.Store(err)
	}
	defer rows.Close()

	var items []*Programme
	for rows.Next() {
		p, err := scanProgramme(rows)
		if err != nil {
			return nil, 0, apperr.Store(err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.Store(err)
	}
	return items, total, nil
}
