package models

// Instructor defines the instructor model based on the 'instructors' table
type Instructor struct {
	ID          int64            `json:"id" db:"id" example:"1"`
	FirstName   string           `json:"firstName" db:"first_name" example:"Ada"`
	LastName    string           `json:"lastName" db:"last_name" example:"Lovelace"`
	Email       string           `json:"email" db:"email" example:"ada@school.edu"`
	Phone       string           `json:"phone" db:"phone" example:"+905321234567"`
	DateOfBirth string           `json:"dateOfBirth" db:"date_of_birth" example:"1985-12-10"`
	Status      InstructorStatus `json:"status" db:"status" example:"Active"`
	Avatar      *string          `json:"avatar,omitempty" db:"avatar" example:"avatars/ada.png"` // object key (nullable)

	// AvatarURL is resolved from Avatar when the instructor is served; never stored.
	AvatarURL *string `json:"avatarUrl,omitempty" db:"-"`
}

// GetID returns the instructor id.
func (i Instructor) GetID() int64 { return i.ID }
