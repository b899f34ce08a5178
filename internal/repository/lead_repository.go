package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/edusales/leads-api/internal/models"
)

// LeadRepository handles persistence of leads.
type LeadRepository struct {
	db *sqlx.DB
}

// NewLeadRepository constructs the repository.
func NewLeadRepository(db *sqlx.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

func (r *LeadRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// Create inserts a lead and fills in the generated id and timestamp.
func (r *LeadRepository) Create(ctx context.Context, exec sqlx.ExtContext, lead *models.Lead) error {
	const query = `INSERT INTO leads (name, surname, email, address, phone)
        VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	row := r.exec(exec).QueryRowxContext(ctx, query, lead.Name, lead.Surname, lead.Email, lead.Address, lead.Phone)
	if err := row.Scan(&lead.ID, &lead.CreatedAt); err != nil {
		return fmt.Errorf("create lead: %w", err)
	}
	return nil
}

// List returns a page of leads in insertion order (id ascending) plus the
// total row count.
func (r *LeadRepository) List(ctx context.Context, filter models.LeadFilter) ([]models.Lead, int, error) {
	const query = `SELECT id, name, surname, email, address, phone, created_at
        FROM leads ORDER BY id ASC LIMIT $1 OFFSET $2`
	leads := []models.Lead{}
	if err := r.db.SelectContext(ctx, &leads, query, filter.Limit, filter.Offset); err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}

	const countQuery = `SELECT COUNT(*) FROM leads`
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery); err != nil {
		return nil, 0, fmt.Errorf("count leads: %w", err)
	}
	return leads, total, nil
}

// FindByID returns a lead by its id. sql.ErrNoRows passes through so the
// service can translate it to the domain not-found condition.
func (r *LeadRepository) FindByID(ctx context.Context, id int64) (*models.Lead, error) {
	const query = `SELECT id, name, surname, email, address, phone, created_at FROM leads WHERE id = $1`
	var lead models.Lead
	if err := r.db.GetContext(ctx, &lead, query, id); err != nil {
		return nil, err
	}
	return &lead, nil
}
