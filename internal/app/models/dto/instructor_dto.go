package dto

// CreateInstructorRequest is the body of POST /instructors
type CreateInstructorRequest struct {
	FirstName   string  `json:"firstName" binding:"required,max=100" example:"Ada"`
	LastName    string  `json:"lastName" binding:"required,max=100" example:"Lovelace"`
	Email       string  `json:"email" binding:"required,email" example:"ada@school.edu"`
	Phone       string  `json:"phone" binding:"required,phone" example:"+905321234567"`
	DateOfBirth string  `json:"dateOfBirth" binding:"required,pastdate" example:"1985-12-10"`
	Status      string  `json:"status" binding:"required,oneof=Active Inactive" example:"Active"`
	Avatar      *string `json:"avatar,omitempty" binding:"omitempty,max=512" example:"avatars/ada.png"`
}

// UpdateInstructorRequest is the body of PATCH /instructors/:id; absent fields are left unchanged
type UpdateInstructorRequest struct {
	FirstName   *string `json:"firstName,omitempty" binding:"omitempty,max=100"`
	LastName    *string `json:"lastName,omitempty" binding:"omitempty,max=100"`
	Email       *string `json:"email,omitempty" binding:"omitempty,email"`
	Phone       *string `json:"phone,omitempty" binding:"omitempty,phone"`
	DateOfBirth *string `json:"dateOfBirth,omitempty" binding:"omitempty,pastdate"`
	Status      *string `json:"status,omitempty" binding:"omitempty,oneof=Active Inactive"`
	Avatar      *string `json:"avatar,omitempty" binding:"omitempty,max=512"`
}

// IsEmpty reports whether the patch changes nothing
func (r UpdateInstructorRequest) IsEmpty() bool {
	return r.FirstName == nil && r.LastName == nil && r.Email == nil && r.Phone == nil &&
		r.DateOfBirth == nil && r.Status == nil && r.Avatar == nil
}
