package dto

// CreateLeadRequest is the nested lead document accepted by POST /leads.
// Careers and courses are referenced by name; the service resolves or
// creates the normalized rows behind them.
type CreateLeadRequest struct {
	Name        string                `json:"name" validate:"required"`
	Surname     string                `json:"surname" validate:"required"`
	Email       *string               `json:"email"`
	Address     *string               `json:"address"`
	Phone       *string               `json:"phone"`
	Enrollments []EnrollmentTermInput `json:"enrollments" validate:"dive"`
}

// EnrollmentTermInput describes one year of enrollment in a career.
type EnrollmentTermInput struct {
	Career        string              `json:"career" validate:"required"`
	Year          int                 `json:"year" validate:"required"`
	University    *string             `json:"university"`
	Registrations []RegistrationInput `json:"registrations" validate:"dive"`
}

// RegistrationInput describes one course registration within a term.
type RegistrationInput struct {
	Course     string `json:"course" validate:"required"`
	TimesTaken int    `json:"times_taken" validate:"required,min=1"`
}

// CreateLeadResponse echoes back only the generated identifier.
type CreateLeadResponse struct {
	LeadID int64 `json:"lead_id"`
}
