package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/edusales/leads-api/internal/models"
)

// EnrollmentTermRepository handles persistence of enrollment terms, keyed by
// (year, career_id, lead_id).
type EnrollmentTermRepository struct {
	db *sqlx.DB
}

// NewEnrollmentTermRepository constructs the repository.
func NewEnrollmentTermRepository(db *sqlx.DB) *EnrollmentTermRepository {
	return &EnrollmentTermRepository{db: db}
}

func (r *EnrollmentTermRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// Create inserts an enrollment term row. Career and lead rows must already
// exist; the caller threads their identifiers in.
func (r *EnrollmentTermRepository) Create(ctx context.Context, exec sqlx.ExtContext, term *models.EnrollmentTerm) error {
	const query = `INSERT INTO enrollment_terms (year, career_id, lead_id, university)
        VALUES (:year, :career_id, :lead_id, :university)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, term); err != nil {
		return fmt.Errorf("create enrollment term: %w", err)
	}
	return nil
}

// ListByLead returns all enrollment terms for a lead with the career name
// joined in, ordered by year then career.
func (r *EnrollmentTermRepository) ListByLead(ctx context.Context, leadID int64) ([]models.EnrollmentTermDetail, error) {
	const query = `SELECT t.year, t.career_id, t.lead_id, t.university, c.name AS career_name
        FROM enrollment_terms t
        JOIN careers c ON c.id = t.career_id
        WHERE t.lead_id = $1
        ORDER BY t.year, t.career_id`
	terms := []models.EnrollmentTermDetail{}
	if err := r.db.SelectContext(ctx, &terms, query, leadID); err != nil {
		return nil, fmt.Errorf("list enrollment terms: %w", err)
	}
	return terms, nil
}
