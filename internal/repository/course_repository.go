package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/edusales/leads-api/internal/models"
)

// CourseRepository handles persistence of courses, deduplicated by name.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

func (r *CourseRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// FindByName returns the course with the exact name, or sql.ErrNoRows.
// Lookup is by name alone; the career reference only matters on creation.
func (r *CourseRepository) FindByName(ctx context.Context, exec sqlx.ExtContext, name string) (*models.Course, error) {
	const query = `SELECT id, name, career_id FROM courses WHERE name = $1`
	var course models.Course
	if err := sqlx.GetContext(ctx, r.exec(exec), &course, query, name); err != nil {
		return nil, err
	}
	return &course, nil
}

// ResolveByName returns the course with the given name, creating it under
// careerID on first use. Concurrent creation under the same name falls back
// to reading the winner's row, mirroring CareerRepository.ResolveByName.
func (r *CourseRepository) ResolveByName(ctx context.Context, exec sqlx.ExtContext, name string, careerID int64) (*models.Course, error) {
	target := r.exec(exec)

	course, err := r.FindByName(ctx, target, name)
	if err == nil {
		return course, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("find course %q: %w", name, err)
	}

	const insert = `INSERT INTO courses (name, career_id) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING RETURNING id`
	created := models.Course{Name: name, CareerID: careerID}
	err = sqlx.GetContext(ctx, target, &created.ID, insert, name, careerID)
	if err == nil {
		return &created, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("create course %q: %w", name, err)
	}

	course, err = r.FindByName(ctx, target, name)
	if err != nil {
		return nil, fmt.Errorf("reread course %q after conflict: %w", name, err)
	}
	return course, nil
}
