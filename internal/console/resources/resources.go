// Package resources describes the collections the console manages: how each is
// addressed on the server, sorted, searched, rendered and validated.
package resources

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yigit/schooladmin/internal/app/models"
	"github.com/yigit/schooladmin/internal/app/models/dto"
	"github.com/yigit/schooladmin/internal/console/projector"
	"github.com/yigit/schooladmin/internal/pkg/apperrors"
	"github.com/yigit/schooladmin/internal/pkg/validation"
)

// DefaultPageSize is the number of rows per page when none is requested.
const DefaultPageSize = 5

// Column is one rendered table column.
type Column[T any] struct {
	Header string
	Value  func(T) string
}

// Descriptor bundles everything the console needs for one collection.
type Descriptor[T any, C any, P any] struct {
	Name           string
	Path           string
	Schema         projector.Schema[T]
	DefaultQuery   projector.Query
	Columns        []Column[T]
	ValidateCreate func(C) error
	ValidateUpdate func(P) error
}

// Query returns the default query with any non-zero overrides applied.
func (d Descriptor[T, C, P]) Query(sortKey string, dir projector.Direction, filter string, page, size int) projector.Query {
	q := d.DefaultQuery
	if sortKey != "" {
		q.SortKey = sortKey
	}
	if dir != "" {
		q.Direction = dir
	}
	if size != 0 {
		q.PageSize = size
	}
	q.Filter = filter
	q.Page = page
	return q
}

// Row renders item as table cells in column order.
func (d Descriptor[T, C, P]) Row(item T) []string {
	cells := make([]string, len(d.Columns))
	for i, col := range d.Columns {
		cells[i] = col.Value(item)
	}
	return cells
}

// Headers returns the column headers.
func (d Descriptor[T, C, P]) Headers() []string {
	out := make([]string, len(d.Columns))
	for i, col := range d.Columns {
		out[i] = col.Header
	}
	return out
}

func str(s string) (any, bool) { return s, s != "" }

func id(v int64) string { return strconv.FormatInt(v, 10) }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Subjects describes /subjects.
func Subjects() Descriptor[models.Subject, dto.CreateSubjectRequest, dto.UpdateSubjectRequest] {
	return Descriptor[models.Subject, dto.CreateSubjectRequest, dto.UpdateSubjectRequest]{
		Name: "subjects",
		Path: "/subjects",
		Schema: projector.Schema[models.Subject]{
			Fields: map[string]projector.Field[models.Subject]{
				"id":      func(s models.Subject) (any, bool) { return s.ID, true },
				"name":    func(s models.Subject) (any, bool) { return str(s.Name) },
				"credits": func(s models.Subject) (any, bool) { return s.Credits, true },
			},
			Searchable: []string{"name"},
		},
		DefaultQuery: projector.Query{SortKey: "name", Direction: projector.Asc, PageSize: DefaultPageSize},
		Columns: []Column[models.Subject]{
			{Header: "ID", Value: func(s models.Subject) string { return id(s.ID) }},
			{Header: "Name", Value: func(s models.Subject) string { return s.Name }},
			{Header: "Credits", Value: func(s models.Subject) string { return strconv.Itoa(s.Credits) }},
		},
		ValidateCreate: func(r dto.CreateSubjectRequest) error {
			if err := subjectName(r.Name); err != nil {
				return err
			}
			return credits(r.Credits)
		},
		ValidateUpdate: func(r dto.UpdateSubjectRequest) error {
			if r.IsEmpty() {
				return errNothingToUpdate
			}
			if r.Name != nil {
				if err := subjectName(*r.Name); err != nil {
					return err
				}
			}
			if r.Credits != nil {
				return credits(*r.Credits)
			}
			return nil
		},
	}
}

// Instructors describes /instructors.
func Instructors() Descriptor[models.Instructor, dto.CreateInstructorRequest, dto.UpdateInstructorRequest] {
	return Descriptor[models.Instructor, dto.CreateInstructorRequest, dto.UpdateInstructorRequest]{
		Name: "instructors",
		Path: "/instructors",
		Schema: projector.Schema[models.Instructor]{
			Fields: map[string]projector.Field[models.Instructor]{
				"id":          func(i models.Instructor) (any, bool) { return i.ID, true },
				"firstName":   func(i models.Instructor) (any, bool) { return str(i.FirstName) },
				"lastName":    func(i models.Instructor) (any, bool) { return str(i.LastName) },
				"email":       func(i models.Instructor) (any, bool) { return str(i.Email) },
				"phone":       func(i models.Instructor) (any, bool) { return str(i.Phone) },
				"dateOfBirth": dateOfBirth,
				"status":      func(i models.Instructor) (any, bool) { return str(string(i.Status)) },
			},
			Searchable: []string{"firstName", "lastName"},
		},
		DefaultQuery: projector.Query{SortKey: "lastName", Direction: projector.Asc, PageSize: DefaultPageSize},
		Columns: []Column[models.Instructor]{
			{Header: "ID", Value: func(i models.Instructor) string { return id(i.ID) }},
			{Header: "First name", Value: func(i models.Instructor) string { return i.FirstName }},
			{Header: "Last name", Value: func(i models.Instructor) string { return i.LastName }},
			{Header: "Email", Value: func(i models.Instructor) string { return i.Email }},
			{Header: "Phone", Value: func(i models.Instructor) string { return i.Phone }},
			{Header: "Born", Value: func(i models.Instructor) string { return i.DateOfBirth }},
			{Header: "Status", Value: func(i models.Instructor) string { return string(i.Status) }},
			{Header: "Avatar", Value: func(i models.Instructor) string { return deref(i.AvatarURL) }},
		},
		ValidateCreate: func(r dto.CreateInstructorRequest) error {
			return firstError(
				required("firstName", "First name", r.FirstName),
				required("lastName", "Last name", r.LastName),
				email(r.Email),
				phone(r.Phone),
				pastDate(r.DateOfBirth),
				status(r.Status),
			)
		},
		ValidateUpdate: func(r dto.UpdateInstructorRequest) error {
			if r.IsEmpty() {
				return errNothingToUpdate
			}
			var errs []error
			if r.FirstName != nil {
				errs = append(errs, required("firstName", "First name", *r.FirstName))
			}
			if r.LastName != nil {
				errs = append(errs, required("lastName", "Last name", *r.LastName))
			}
			if r.Email != nil {
				errs = append(errs, email(*r.Email))
			}
			if r.Phone != nil {
				errs = append(errs, phone(*r.Phone))
			}
			if r.DateOfBirth != nil {
				errs = append(errs, pastDate(*r.DateOfBirth))
			}
			if r.Status != nil {
				errs = append(errs, status(*r.Status))
			}
			return firstError(errs...)
		},
	}
}

// Courses describes /courses. Sorting and searching use the server-resolved
// cross references so rows read by name.
func Courses() Descriptor[models.Course, dto.CreateCourseRequest, dto.UpdateCourseRequest] {
	return Descriptor[models.Course, dto.CreateCourseRequest, dto.UpdateCourseRequest]{
		Name: "courses",
		Path: "/courses",
		Schema: projector.Schema[models.Course]{
			Fields: map[string]projector.Field[models.Course]{
				"id":                  func(c models.Course) (any, bool) { return c.ID, true },
				"subjectName":         func(c models.Course) (any, bool) { return str(c.SubjectName) },
				"instructorFirstName": func(c models.Course) (any, bool) { return str(c.InstructorFirstName) },
				"instructorLastName":  func(c models.Course) (any, bool) { return str(c.InstructorLastName) },
				"semesterName":        func(c models.Course) (any, bool) { return str(c.SemesterName) },
				"semesterId":          func(c models.Course) (any, bool) { return c.SemesterID, true },
			},
			Searchable: []string{"subjectName", "instructorFirstName", "instructorLastName", "semesterName"},
		},
		DefaultQuery: projector.Query{SortKey: "instructorLastName", Direction: projector.Asc, PageSize: DefaultPageSize},
		Columns: []Column[models.Course]{
			{Header: "ID", Value: func(c models.Course) string { return id(c.ID) }},
			{Header: "Subject", Value: func(c models.Course) string { return c.SubjectName }},
			{Header: "Instructor", Value: func(c models.Course) string {
				return strings.TrimSpace(c.InstructorFirstName + " " + c.InstructorLastName)
			}},
			{Header: "Semester", Value: func(c models.Course) string { return c.SemesterName }},
		},
		ValidateCreate: func(r dto.CreateCourseRequest) error {
			return firstError(
				reference("subjectId", "Subject", r.SubjectID),
				reference("instructorId", "Instructor", r.InstructorID),
				reference("semesterId", "Semester", r.SemesterID),
			)
		},
		ValidateUpdate: func(r dto.UpdateCourseRequest) error {
			if r.IsEmpty() {
				return errNothingToUpdate
			}
			var errs []error
			if r.SubjectID != nil {
				errs = append(errs, reference("subjectId", "Subject", *r.SubjectID))
			}
			if r.InstructorID != nil {
				errs = append(errs, reference("instructorId", "Instructor", *r.InstructorID))
			}
			if r.SemesterID != nil {
				errs = append(errs, reference("semesterId", "Semester", *r.SemesterID))
			}
			return firstError(errs...)
		},
	}
}

func dateOfBirth(i models.Instructor) (any, bool) {
	t, err := time.Parse(validation.DateLayout, i.DateOfBirth)
	if err != nil {
		return nil, false
	}
	return t, true
}

var errNothingToUpdate = apperrors.NewValidationError("", "Nothing to update")

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func subjectName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperrors.NewValidationError("name", "Name is required")
	}
	if !validation.NewStringValidation(name).
		WithMinLength(validation.NameMinLength).
		WithMaxLength(validation.NameMaxLength).Validate() {
		return apperrors.NewValidationError("name", fmt.Sprintf("Name must be between %d and %d characters", validation.NameMinLength, validation.NameMaxLength))
	}
	return nil
}

func credits(v int) error {
	if !validation.NewNumericValidation(v).WithMin(validation.CreditsMin).WithMax(validation.CreditsMax).Validate() {
		return apperrors.NewValidationError("credits", fmt.Sprintf("Credits must be between %d and %d", validation.CreditsMin, validation.CreditsMax))
	}
	return nil
}

func required(field, label, v string) error {
	if strings.TrimSpace(v) == "" {
		return apperrors.NewValidationError(field, label+" is required")
	}
	return nil
}

func email(v string) error {
	if err := required("email", "Email", v); err != nil {
		return err
	}
	if !validation.IsEmail(v) {
		return apperrors.NewValidationError("email", "Email must be a valid email address")
	}
	return nil
}

func phone(v string) error {
	if err := required("phone", "Phone", v); err != nil {
		return err
	}
	if !validation.IsPhone(v) {
		return apperrors.NewValidationError("phone", fmt.Sprintf("Phone must contain %d to %d digits", validation.PhoneMinDigits, validation.PhoneMaxDigits))
	}
	return nil
}

func pastDate(v string) error {
	if err := required("dateOfBirth", "Date of birth", v); err != nil {
		return err
	}
	if !validation.IsPastDate(v, time.Now()) {
		return apperrors.NewValidationError("dateOfBirth", "Date of birth must be a past date in YYYY-MM-DD format")
	}
	return nil
}

func status(v string) error {
	if err := required("status", "Status", v); err != nil {
		return err
	}
	if models.InstructorStatus(v).Valid() {
		return nil
	}
	return apperrors.NewValidationError("status", "Status must be Active or Inactive")
}

func reference(field, label string, v int64) error {
	if v <= 0 {
		return apperrors.NewValidationError(field, label+" is required")
	}
	return nil
}
