package models

// Semester is seeded reference data.
type Semester struct {
	ID        int64  `json:"id" db:"id"`
	Name      string `json:"name" db:"name" example:"Fall 2026"`
	StartDate string `json:"startDate" db:"start_date" example:"2026-09-14"`
	EndDate   string `json:"endDate" db:"end_date" example:"2027-01-22"`
}

// GetID returns the semester id.
func (s Semester) GetID() int64 { return s.ID }
