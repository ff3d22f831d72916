package models

// Course assigns an instructor to teach a subject in a semester.
type Course struct {
	ID           int64 `json:"id" db:"id"`
	SubjectID    int64 `json:"subjectId" db:"subject_id"`
	InstructorID int64 `json:"instructorId" db:"instructor_id"`
	SemesterID   int64 `json:"semesterId" db:"semester_id"`

	// Cross references, populated by joins on read
	SubjectName         string  `json:"subjectName" db:"-"`
	InstructorFirstName string  `json:"instructorFirstName" db:"-"`
	InstructorLastName  string  `json:"instructorLastName" db:"-"`
	InstructorAvatar    *string `json:"-" db:"-"`
	InstructorAvatarURL *string `json:"instructorAvatarUrl,omitempty" db:"-"`
	SemesterName        string  `json:"semesterName" db:"-"`
}

// GetID returns the course id.
func (c Course) GetID() int64 { return c.ID }
