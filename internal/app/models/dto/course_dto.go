package dto

// CreateCourseRequest is the body of POST /courses
type CreateCourseRequest struct {
	SubjectID    int64 `json:"subjectId" binding:"required,gt=0" example:"1"`
	InstructorID int64 `json:"instructorId" binding:"required,gt=0" example:"1"`
	SemesterID   int64 `json:"semesterId" binding:"required,gt=0" example:"1"`
}

// UpdateCourseRequest is the body of PATCH /courses/:id; absent fields are left unchanged
type UpdateCourseRequest struct {
	SubjectID    *int64 `json:"subjectId,omitempty" binding:"omitempty,gt=0"`
	InstructorID *int64 `json:"instructorId,omitempty" binding:"omitempty,gt=0"`
	SemesterID   *int64 `json:"semesterId,omitempty" binding:"omitempty,gt=0"`
}

// IsEmpty reports whether the patch changes nothing
func (r UpdateCourseRequest) IsEmpty() bool {
	return r.SubjectID == nil && r.InstructorID == nil && r.SemesterID == nil
}
