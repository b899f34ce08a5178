package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/edusales/leads-api/internal/models"
)

// CareerRepository handles persistence of careers, deduplicated by name.
type CareerRepository struct {
	db *sqlx.DB
}

// NewCareerRepository constructs the repository.
func NewCareerRepository(db *sqlx.DB) *CareerRepository {
	return &CareerRepository{db: db}
}

func (r *CareerRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// FindByName returns the career with the exact name, or sql.ErrNoRows.
func (r *CareerRepository) FindByName(ctx context.Context, exec sqlx.ExtContext, name string) (*models.Career, error) {
	const query = `SELECT id, name FROM careers WHERE name = $1`
	var career models.Career
	if err := sqlx.GetContext(ctx, r.exec(exec), &career, query, name); err != nil {
		return nil, err
	}
	return &career, nil
}

// ResolveByName returns the career with the given name, creating the row on
// first use. The insert uses ON CONFLICT DO NOTHING so a concurrent writer
// racing on the unique name constraint does not abort the surrounding
// transaction; when the insert returns no row the winner's row is read back.
func (r *CareerRepository) ResolveByName(ctx context.Context, exec sqlx.ExtContext, name string) (*models.Career, error) {
	target := r.exec(exec)

	career, err := r.FindByName(ctx, target, name)
	if err == nil {
		return career, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("find career %q: %w", name, err)
	}

	const insert = `INSERT INTO careers (name) VALUES ($1) ON CONFLICT (name) DO NOTHING RETURNING id`
	created := models.Career{Name: name}
	err = sqlx.GetContext(ctx, target, &created.ID, insert, name)
	if err == nil {
		return &created, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("create career %q: %w", name, err)
	}

	// Lost the race; the conflicting row exists now.
	career, err = r.FindByName(ctx, target, name)
	if err != nil {
		return nil, fmt.Errorf("reread career %q after conflict: %w", name, err)
	}
	return career, nil
}
