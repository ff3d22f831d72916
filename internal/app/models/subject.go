package models

// Subject is an academic topic with a credit value.
type Subject struct {
	ID      int64  `json:"id" db:"id" example:"1"`
	Name    string `json:"name" db:"name" example:"Algorithms"`
	Credits int    `json:"credits" db:"credits" example:"6"`
}

// GetID returns the subject id.
func (s Subject) GetID() int64 { return s.ID }
