package models

// RoleType defines the account role type
type RoleType string

const (
	RoleAdmin RoleType = "ADMIN"
)

// InstructorStatus is the employment status of an instructor
type InstructorStatus string

const (
	InstructorActive   InstructorStatus = "Active"
	InstructorInactive InstructorStatus = "Inactive"
)

// Valid reports whether s is a known status.
func (s InstructorStatus) Valid() bool {
	return s == InstructorActive || s == InstructorInactive
}
