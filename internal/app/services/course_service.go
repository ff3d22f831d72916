package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/schooladmin/internal/app/models"
	"github.com/yigit/schooladmin/internal/app/models/dto"
	"github.com/yigit/schooladmin/internal/app/repositories"
	"github.com/yigit/schooladmin/internal/pkg/apperrors"
	"github.com/yigit/schooladmin/internal/pkg/avatar"
	"github.com/yigit/schooladmin/internal/pkg/logger"
)

// CourseService defines the interface for course-related operations
type CourseService interface {
	List(ctx context.Context) ([]*models.Course, error)
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	Create(ctx context.Context, req dto.CreateCourseRequest) (*models.Course, error)
	Update(ctx context.Context, id int64, req dto.UpdateCourseRequest) (*models.Course, error)
	Delete(ctx context.Context, id int64) error
}

type courseServiceImpl struct {
	courseRepo     *repositories.CourseRepository
	subjectRepo    *repositories.SubjectRepository
	instructorRepo *repositories.InstructorRepository
	semesterRepo   *repositories.SemesterRepository
	avatars        avatar.Resolver
	locks          *KeyLock
}

// NewCourseService creates a new course service instance
func NewCourseService(
	courseRepo *repositories.CourseRepository,
	subjectRepo *repositories.SubjectRepository,
	instructorRepo *repositories.InstructorRepository,
	semesterRepo *repositories.SemesterRepository,
	avatars avatar.Resolver,
	locks *KeyLock,
) CourseService {
	return &courseServiceImpl{
		courseRepo:     courseRepo,
		subjectRepo:    subjectRepo,
		instructorRepo: instructorRepo,
		semesterRepo:   semesterRepo,
		avatars:        avatars,
		locks:          locks,
	}
}

type assignment struct {
	subjectID, instructorID, semesterID int64
}

func (a assignment) lockKeys() []string {
	return []string{
		fmt.Sprintf("course:%d:%d:%d", a.subjectID, a.instructorID, a.semesterID),
		fmt.Sprintf("subject:%d", a.subjectID),
		fmt.Sprintf("instructor:%d", a.instructorID),
	}
}

func (a assignment) String() string {
	return fmt.Sprintf("subjectId=%d,instructorId=%d,semesterId=%d", a.subjectID, a.instructorID, a.semesterID)
}

func courseConflict(a assignment) error {
	return apperrors.NewConflictError("course", a.String(),
		"This instructor is already assigned to this subject in the selected semester")
}

func validateReferenceID(field string, id int64) error {
	if id <= 0 {
		return apperrors.NewValidationError(field, field+" is required")
	}
	return nil
}

// checkReferences makes sure each referenced record is live. A dangling reference is
// reported as a validation error on the offending field.
func (s *courseServiceImpl) checkReferences(ctx context.Context, a assignment) error {
	if _, err := s.subjectRepo.GetByID(ctx, a.subjectID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NewValidationError("subjectId", fmt.Sprintf("Subject %d does not exist", a.subjectID))
		}
		return storeErr("checking subject", err)
	}
	if _, err := s.instructorRepo.GetByID(ctx, a.instructorID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NewValidationError("instructorId", fmt.Sprintf("Instructor %d does not exist", a.instructorID))
		}
		return storeErr("checking instructor", err)
	}
	if _, err := s.semesterRepo.GetByID(ctx, a.semesterID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NewValidationError("semesterId", fmt.Sprintf("Semester %d does not exist", a.semesterID))
		}
		return storeErr("checking semester", err)
	}
	return nil
}

func (s *courseServiceImpl) withAvatarURL(ctx context.Context, c *models.Course) *models.Course {
	c.InstructorAvatarURL = resolveAvatar(ctx, s.avatars, c.InstructorAvatar)
	return c
}

// List returns all live courses with cross references
func (s *courseServiceImpl) List(ctx context.Context) ([]*models.Course, error) {
	courses, err := s.courseRepo.List(ctx)
	if err != nil {
		return nil, storeErr("retrieving courses", err)
	}
	for _, c := range courses {
		s.withAvatarURL(ctx, c)
	}
	return courses, nil
}

// GetByID retrieves a live course
func (s *courseServiceImpl) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("Course", id)
		}
		return nil, storeErr("retrieving course", err)
	}
	return s.withAvatarURL(ctx, course), nil
}

// Create validates references and stores a new course
func (s *courseServiceImpl) Create(ctx context.Context, req dto.CreateCourseRequest) (*models.Course, error) {
	a := assignment{req.SubjectID, req.InstructorID, req.SemesterID}
	for _, err := range []error{
		validateReferenceID("subjectId", a.subjectID),
		validateReferenceID("instructorId", a.instructorID),
		validateReferenceID("semesterId", a.semesterID),
	} {
		if err != nil {
			return nil, err
		}
	}

	unlock := s.locks.Lock(a.lockKeys()...)
	defer unlock()

	if err := s.checkReferences(ctx, a); err != nil {
		return nil, err
	}

	exists, err := s.courseRepo.ExistsAssignment(ctx, a.subjectID, a.instructorID, a.semesterID, 0)
	if err != nil {
		return nil, storeErr("checking course", err)
	}
	if exists {
		return nil, courseConflict(a)
	}

	course := &models.Course{SubjectID: a.subjectID, InstructorID: a.instructorID, SemesterID: a.semesterID}
	if err := s.courseRepo.Create(ctx, course); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, courseConflict(a)
		}
		return nil, storeErr("creating course", err)
	}

	logger.Info().Int64("courseID", course.ID).Str("assignment", a.String()).Msg("Course created")
	return s.GetByID(ctx, course.ID)
}

// Update applies the present references of req to a live course
func (s *courseServiceImpl) Update(ctx context.Context, id int64, req dto.UpdateCourseRequest) (*models.Course, error) {
	changes := map[string]interface{}{}
	for _, f := range []struct {
		field, column string
		value         *int64
	}{
		{"subjectId", "subject_id", req.SubjectID},
		{"instructorId", "instructor_id", req.InstructorID},
		{"semesterId", "semester_id", req.SemesterID},
	} {
		if f.value == nil {
			continue
		}
		if err := validateReferenceID(f.field, *f.value); err != nil {
			return nil, err
		}
		changes[f.column] = *f.value
	}

	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(changes) == 0 {
		return current, nil
	}

	a := assignment{current.SubjectID, current.InstructorID, current.SemesterID}
	if req.SubjectID != nil {
		a.subjectID = *req.SubjectID
	}
	if req.InstructorID != nil {
		a.instructorID = *req.InstructorID
	}
	if req.SemesterID != nil {
		a.semesterID = *req.SemesterID
	}

	unlock := s.locks.Lock(a.lockKeys()...)
	defer unlock()

	if err := s.checkReferences(ctx, a); err != nil {
		return nil, err
	}
	exists, err := s.courseRepo.ExistsAssignment(ctx, a.subjectID, a.instructorID, a.semesterID, id)
	if err != nil {
		return nil, storeErr("checking course", err)
	}
	if exists {
		return nil, courseConflict(a)
	}

	if err := s.courseRepo.Update(ctx, id, changes); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return nil, notFound("Course", id)
		case errors.Is(err, repositories.ErrDuplicate):
			return nil, courseConflict(a)
		}
		return nil, storeErr("updating course", err)
	}

	return s.GetByID(ctx, id)
}

// Delete soft-deletes a course
func (s *courseServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.courseRepo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound("Course", id)
		}
		return storeErr("deleting course", err)
	}
	logger.Info().Int64("courseID", id).Msg("Course deleted")
	return nil
}
