package models

import "time"

// Lead represents a prospective student row.
type Lead struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Surname   string    `db:"surname" json:"surname"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Address   *string   `db:"address" json:"address,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// LeadFilter bounds lead listing. Both values must be >= 0.
type LeadFilter struct {
	Limit  int
	Offset int
}

// LeadDetail is a lead together with its enrollment history, assembled by
// explicit foreign-key queries rather than object-graph navigation.
type LeadDetail struct {
	Lead
	Enrollments []EnrollmentTermDetail `json:"enrollments"`
}
