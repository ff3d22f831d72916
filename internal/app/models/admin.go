package models

// Admin defines an administrator account based on the 'admins' table
type Admin struct {
	ID       int64    `json:"id" db:"id" example:"1"`
	Email    string   `json:"email" db:"email" example:"admin@school.edu"`
	Password string   `json:"-" db:"password"` // bcrypt hash, never serialized
	Role     RoleType `json:"role" db:"role" example:"ADMIN"`
	IsActive bool     `json:"isActive" db:"is_active" example:"true"`
}
