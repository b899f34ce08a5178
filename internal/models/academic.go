package models

// Career is a degree program, deduplicated by name.
type Career struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Course is a subject belonging to a career, deduplicated by name.
type Course struct {
	ID       int64  `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	CareerID int64  `db:"career_id" json:"career_id"`
}

// EnrollmentTerm ties one lead to one career in one year. The triple is the
// primary key; there is at most one row per (year, career, lead).
type EnrollmentTerm struct {
	Year       int     `db:"year" json:"year"`
	CareerID   int64   `db:"career_id" json:"career_id"`
	LeadID     int64   `db:"lead_id" json:"lead_id"`
	University *string `db:"university" json:"university,omitempty"`
}

// Registration records a lead taking a course within an enrollment term.
// TimesTaken counts re-enrollments and is always >= 1.
type Registration struct {
	Year       int   `db:"year" json:"year"`
	CareerID   int64 `db:"career_id" json:"career_id"`
	LeadID     int64 `db:"lead_id" json:"lead_id"`
	CourseID   int64 `db:"course_id" json:"course_id"`
	TimesTaken int   `db:"times_taken" json:"times_taken"`
}

// EnrollmentTermDetail is an enrollment term with its career name and
// registrations resolved.
type EnrollmentTermDetail struct {
	EnrollmentTerm
	CareerName    string               `db:"career_name" json:"career_name"`
	Registrations []RegistrationDetail `json:"registrations"`
}

// RegistrationDetail is a registration with its course name resolved.
type RegistrationDetail struct {
	Registration
	CourseName string `db:"course_name" json:"course_name"`
}
