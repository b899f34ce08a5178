package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Table creation statements, ordered parent-first so the foreign keys of
// dependent tables always resolve. The UNIQUE constraints on careers.name
// and courses.name back the read-or-create resolution: a concurrent insert
// under the same name fails with a unique violation instead of producing a
// duplicate row.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS leads (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		surname TEXT NOT NULL,
		email TEXT,
		address TEXT,
		phone TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS careers (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS courses (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		career_id BIGINT NOT NULL REFERENCES careers(id)
	)`,
	`CREATE TABLE IF NOT EXISTS enrollment_terms (
		year INT NOT NULL,
		career_id BIGINT NOT NULL REFERENCES careers(id),
		lead_id BIGINT NOT NULL REFERENCES leads(id),
		university TEXT,
		PRIMARY KEY (year, career_id, lead_id)
	)`,
	`CREATE TABLE IF NOT EXISTS registrations (
		year INT NOT NULL,
		career_id BIGINT NOT NULL,
		lead_id BIGINT NOT NULL,
		course_id BIGINT NOT NULL REFERENCES courses(id),
		times_taken INT NOT NULL CHECK (times_taken >= 1),
		PRIMARY KEY (year, career_id, lead_id, course_id),
		FOREIGN KEY (year, career_id, lead_id)
			REFERENCES enrollment_terms(year, career_id, lead_id)
	)`,
}

// EnsureSchema creates the lead tracking tables when they do not exist yet.
func EnsureSchema(db *sqlx.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement: %w", err)
		}
	}
	return nil
}
