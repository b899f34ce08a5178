package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/edusales/leads-api/internal/models"
)

// RegistrationRepository handles persistence of course registrations, keyed
// by (year, career_id, lead_id, course_id).
type RegistrationRepository struct {
	db *sqlx.DB
}

// NewRegistrationRepository constructs the repository.
func NewRegistrationRepository(db *sqlx.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

func (r *RegistrationRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// Create inserts a registration row. The (year, career_id, lead_id) triple
// must match an existing enrollment term.
func (r *RegistrationRepository) Create(ctx context.Context, exec sqlx.ExtContext, reg *models.Registration) error {
	const query = `INSERT INTO registrations (year, career_id, lead_id, course_id, times_taken)
        VALUES (:year, :career_id, :lead_id, :course_id, :times_taken)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, reg); err != nil {
		return fmt.Errorf("create registration: %w", err)
	}
	return nil
}

// ListByTerm returns the registrations belonging to one enrollment term with
// the course name joined in.
func (r *RegistrationRepository) ListByTerm(ctx context.Context, year int, careerID, leadID int64) ([]models.RegistrationDetail, error) {
	const query = `SELECT g.year, g.career_id, g.lead_id, g.course_id, g.times_taken, s.name AS course_name
        FROM registrations g
        JOIN courses s ON s.id = g.course_id
        WHERE g.year = $1 AND g.career_id = $2 AND g.lead_id = $3
        ORDER BY g.course_id`
	regs := []models.RegistrationDetail{}
	if err := r.db.SelectContext(ctx, &regs, query, year, careerID, leadID); err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return regs, nil
}
