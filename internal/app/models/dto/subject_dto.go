package dto

// CreateSubjectRequest is the body of POST /subjects
type CreateSubjectRequest struct {
	Name    string `json:"name" binding:"required,min=2,max=100" example:"Algorithms"`
	Credits int    `json:"credits" binding:"required,min=1,max=20" example:"6"`
}

// UpdateSubjectRequest is the body of PATCH /subjects/:id; absent fields are left unchanged
type UpdateSubjectRequest struct {
	Name    *string `json:"name,omitempty" binding:"omitempty,min=2,max=100"`
	Credits *int    `json:"credits,omitempty" binding:"omitempty,min=1,max=20"`
}

// IsEmpty reports whether the patch changes nothing
func (r UpdateSubjectRequest) IsEmpty() bool {
	return r.Name == nil && r.Credits == nil
}
