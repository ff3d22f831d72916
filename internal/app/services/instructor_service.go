package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yigit/schooladmin/internal/app/models"
	"github.com/yigit/schooladmin/internal/app/models/dto"
	"github.com/yigit/schooladmin/internal/app/repositories"
	"github.com/yigit/schooladmin/internal/pkg/apperrors"
	"github.com/yigit/schooladmin/internal/pkg/avatar"
	"github.com/yigit/schooladmin/internal/pkg/logger"
	"github.com/yigit/schooladmin/internal/pkg/validation"
)

// InstructorService defines the interface for instructor-related operations
type InstructorService interface {
	List(ctx context.Context) ([]*models.Instructor, error)
	GetByID(ctx context.Context, id int64) (*models.Instructor, error)
	Create(ctx context.Context, req dto.CreateInstructorRequest) (*models.Instructor, error)
	Update(ctx context.Context, id int64, req dto.UpdateInstructorRequest) (*models.Instructor, error)
	Delete(ctx context.Context, id int64) error
}

// instructorServiceImpl implements the InstructorService interface
type instructorServiceImpl struct {
	instructorRepo *repositories.InstructorRepository
	avatars        avatar.Resolver
	locks          *KeyLock
}

// NewInstructorService creates a new instructor service instance
func NewInstructorService(instructorRepo *repositories.InstructorRepository, avatars avatar.Resolver, locks *KeyLock) InstructorService {
	return &instructorServiceImpl{
		instructorRepo: instructorRepo,
		avatars:        avatars,
		locks:          locks,
	}
}

func validatePersonName(field, label, value string) error {
	if value == "" {
		return apperrors.NewValidationError(field, label+" is required")
	}
	if !validation.NewStringValidation(value).WithMaxLength(validation.NameMaxLength).Validate() {
		return apperrors.NewValidationError(field, fmt.Sprintf("%s must be at most %d characters", label, validation.NameMaxLength))
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return apperrors.NewValidationError("email", "Email is required")
	}
	if !validation.IsEmail(email) {
		return apperrors.NewValidationError("email", "Email must be a valid email address")
	}
	return nil
}

func validatePhone(phone string) error {
	if phone == "" {
		return apperrors.NewValidationError("phone", "Phone is required")
	}
	if !validation.IsPhone(phone) {
		return apperrors.NewValidationError("phone", fmt.Sprintf("Phone must contain %d to %d digits", validation.PhoneMinDigits, validation.PhoneMaxDigits))
	}
	return nil
}

func validateDateOfBirth(dob string) error {
	if dob == "" {
		return apperrors.NewValidationError("dateOfBirth", "Date of birth is required")
	}
	if !validation.IsPastDate(dob, clock()) {
		return apperrors.NewValidationError("dateOfBirth", "Date of birth must be a past date in YYYY-MM-DD format")
	}
	return nil
}

func validateStatus(status string) error {
	if status == "" {
		return apperrors.NewValidationError("status", "Status is required")
	}
	if !models.InstructorStatus(status).Valid() {
		return apperrors.NewValidationError("status", "Status must be Active or Inactive")
	}
	return nil
}

// normalizeAvatar trims the object key; blank means no avatar.
func normalizeAvatar(key *string) *string {
	if key == nil {
		return nil
	}
	k := strings.TrimSpace(*key)
	if k == "" {
		return nil
	}
	return &k
}

func instructorEmailConflict(email string) error {
	return apperrors.NewConflictError("email", email, fmt.Sprintf("Instructor with email '%s' already exists", email))
}

func instructorEmailKey(email string) string {
	return "instructor:email:" + validation.NormalizeKey(email)
}

func (s *instructorServiceImpl) withAvatarURL(ctx context.Context, i *models.Instructor) *models.Instructor {
	i.AvatarURL = resolveAvatar(ctx, s.avatars, i.Avatar)
	return i
}

// List returns all live instructors with avatar URLs resolved
func (s *instructorServiceImpl) List(ctx context.Context) ([]*models.Instructor, error) {
	instructors, err := s.instructorRepo.List(ctx)
	if err != nil {
		return nil, storeErr("retrieving instructors", err)
	}
	for _, i := range instructors {
		s.withAvatarURL(ctx, i)
	}
	return instructors, nil
}

// GetByID retrieves a live instructor
func (s *instructorServiceImpl) GetByID(ctx context.Context, id int64) (*models.Instructor, error) {
	instructor, err := s.instructorRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("Instructor", id)
		}
		return nil, storeErr("retrieving instructor", err)
	}
	return s.withAvatarURL(ctx, instructor), nil
}

// Create validates and stores a new instructor
func (s *instructorServiceImpl) Create(ctx context.Context, req dto.CreateInstructorRequest) (*models.Instructor, error) {
	instructor := &models.Instructor{
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Email:       strings.TrimSpace(req.Email),
		Phone:       strings.TrimSpace(req.Phone),
		DateOfBirth: strings.TrimSpace(req.DateOfBirth),
		Status:      models.InstructorStatus(strings.TrimSpace(req.Status)),
		Avatar:      normalizeAvatar(req.Avatar),
	}

	for _, err := range []error{
		validatePersonName("firstName", "First name", instructor.FirstName),
		validatePersonName("lastName", "Last name", instructor.LastName),
		validateEmail(instructor.Email),
		validatePhone(instructor.Phone),
		validateDateOfBirth(instructor.DateOfBirth),
		validateStatus(string(instructor.Status)),
	} {
		if err != nil {
			return nil, err
		}
	}

	unlock := s.locks.Lock(instructorEmailKey(instructor.Email))
	defer unlock()

	exists, err := s.instructorRepo.ExistsByEmail(ctx, instructor.Email, 0)
	if err != nil {
		return nil, storeErr("checking instructor email", err)
	}
	if exists {
		return nil, instructorEmailConflict(instructor.Email)
	}

	if err := s.instructorRepo.Create(ctx, instructor); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, instructorEmailConflict(instructor.Email)
		}
		return nil, storeErr("creating instructor", err)
	}

	logger.Info().Int64("instructorID", instructor.ID).Msg("Instructor created")
	return s.withAvatarURL(ctx, instructor), nil
}

// Update applies the present fields of req to a live instructor
func (s *instructorServiceImpl) Update(ctx context.Context, id int64, req dto.UpdateInstructorRequest) (*models.Instructor, error) {
	changes := map[string]interface{}{}
	trimmed := func(p *string) string { return strings.TrimSpace(*p) }

	if req.FirstName != nil {
		v := trimmed(req.FirstName)
		if err := validatePersonName("firstName", "First name", v); err != nil {
			return nil, err
		}
		changes["first_name"] = v
	}
	if req.LastName != nil {
		v := trimmed(req.LastName)
		if err := validatePersonName("lastName", "Last name", v); err != nil {
			return nil, err
		}
		changes["last_name"] = v
	}
	var email string
	if req.Email != nil {
		email = trimmed(req.Email)
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		changes["email"] = email
	}
	if req.Phone != nil {
		v := trimmed(req.Phone)
		if err := validatePhone(v); err != nil {
			return nil, err
		}
		changes["phone"] = v
	}
	if req.DateOfBirth != nil {
		v := trimmed(req.DateOfBirth)
		if err := validateDateOfBirth(v); err != nil {
			return nil, err
		}
		changes["date_of_birth"] = v
	}
	if req.Status != nil {
		v := trimmed(req.Status)
		if err := validateStatus(v); err != nil {
			return nil, err
		}
		changes["status"] = v
	}
	if req.Avatar != nil {
		// present but blank clears the avatar
		changes["avatar"] = normalizeAvatar(req.Avatar)
	}
	if len(changes) == 0 {
		return s.GetByID(ctx, id)
	}

	if req.Email != nil {
		unlock := s.locks.Lock(instructorEmailKey(email))
		defer unlock()

		exists, err := s.instructorRepo.ExistsByEmail(ctx, email, id)
		if err != nil {
			return nil, storeErr("checking instructor email", err)
		}
		if exists {
			return nil, instructorEmailConflict(email)
		}
	}

	if err := s.instructorRepo.Update(ctx, id, changes); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return nil, notFound("Instructor", id)
		case errors.Is(err, repositories.ErrDuplicate):
			return nil, instructorEmailConflict(email)
		}
		return nil, storeErr("updating instructor", err)
	}

	return s.GetByID(ctx, id)
}

// Delete soft-deletes an instructor who teaches no live course
func (s *instructorServiceImpl) Delete(ctx context.Context, id int64) error {
	unlock := s.locks.Lock(fmt.Sprintf("instructor:%d", id))
	defer unlock()

	if err := s.instructorRepo.SoftDelete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return notFound("Instructor", id)
		case errors.Is(err, repositories.ErrHasRelations):
			return apperrors.NewRelationConflictError(apperrors.ErrInstructorHasCourses)
		}
		return storeErr("deleting instructor", err)
	}
	logger.Info().Int64("instructorID", id).Msg("Instructor deleted")
	return nil
}
