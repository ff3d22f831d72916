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
	"github.com/yigit/schooladmin/internal/pkg/logger"
	"github.com/yigit/schooladmin/internal/pkg/validation"
)

// SubjectService defines the interface for subject-related operations
type SubjectService interface {
	List(ctx context.Context) ([]*models.Subject, error)
	GetByID(ctx context.Context, id int64) (*models.Subject, error)
	Create(ctx context.Context, req dto.CreateSubjectRequest) (*models.Subject, error)
	Update(ctx context.Context, id int64, req dto.UpdateSubjectRequest) (*models.Subject, error)
	Delete(ctx context.Context, id int64) error
}

// subjectServiceImpl implements the SubjectService interface
type subjectServiceImpl struct {
	subjectRepo *repositories.SubjectRepository
	locks       *KeyLock
}

// NewSubjectService creates a new subject service instance
func NewSubjectService(subjectRepo *repositories.SubjectRepository, locks *KeyLock) SubjectService {
	return &subjectServiceImpl{subjectRepo: subjectRepo, locks: locks}
}

func validateSubjectName(name string) error {
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

func validateCredits(credits int) error {
	if !validation.NewNumericValidation(credits).WithMin(validation.CreditsMin).WithMax(validation.CreditsMax).Validate() {
		return apperrors.NewValidationError("credits", fmt.Sprintf("Credits must be between %d and %d", validation.CreditsMin, validation.CreditsMax))
	}
	return nil
}

func subjectNameConflict(name string) error {
	return apperrors.NewConflictError("name", name, fmt.Sprintf("Subject with name '%s' already exists", name))
}

func subjectNameKey(name string) string {
	return "subject:name:" + validation.NormalizeKey(name)
}

// List returns all live subjects
func (s *subjectServiceImpl) List(ctx context.Context) ([]*models.Subject, error) {
	subjects, err := s.subjectRepo.List(ctx)
	if err != nil {
		return nil, storeErr("retrieving subjects", err)
	}
	return subjects, nil
}

// GetByID retrieves a live subject
func (s *subjectServiceImpl) GetByID(ctx context.Context, id int64) (*models.Subject, error) {
	subject, err := s.subjectRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("Subject", id)
		}
		return nil, storeErr("retrieving subject", err)
	}
	return subject, nil
}

// Create validates and stores a new subject
func (s *subjectServiceImpl) Create(ctx context.Context, req dto.CreateSubjectRequest) (*models.Subject, error) {
	subject := &models.Subject{Name: strings.TrimSpace(req.Name), Credits: req.Credits}
	if err := validateSubjectName(subject.Name); err != nil {
		return nil, err
	}
	if err := validateCredits(subject.Credits); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(subjectNameKey(subject.Name))
	defer unlock()

	exists, err := s.subjectRepo.ExistsByName(ctx, subject.Name, 0)
	if err != nil {
		return nil, storeErr("checking subject name", err)
	}
	if exists {
		return nil, subjectNameConflict(subject.Name)
	}

	if err := s.subjectRepo.Create(ctx, subject); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, subjectNameConflict(subject.Name)
		}
		return nil, storeErr("creating subject", err)
	}

	logger.Info().Int64("subjectID", subject.ID).Str("name", subject.Name).Msg("Subject created")
	return subject, nil
}

// Update applies the present fields of req to a live subject
func (s *subjectServiceImpl) Update(ctx context.Context, id int64, req dto.UpdateSubjectRequest) (*models.Subject, error) {
	changes := map[string]interface{}{}
	var name string
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		if err := validateSubjectName(name); err != nil {
			return nil, err
		}
		changes["name"] = name
	}
	if req.Credits != nil {
		if err := validateCredits(*req.Credits); err != nil {
			return nil, err
		}
		changes["credits"] = *req.Credits
	}
	if len(changes) == 0 {
		return s.GetByID(ctx, id)
	}

	if req.Name != nil {
		unlock := s.locks.Lock(subjectNameKey(name))
		defer unlock()

		exists, err := s.subjectRepo.ExistsByName(ctx, name, id)
		if err != nil {
			return nil, storeErr("checking subject name", err)
		}
		if exists {
			return nil, subjectNameConflict(name)
		}
	}

	if err := s.subjectRepo.Update(ctx, id, changes); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return nil, notFound("Subject", id)
		case errors.Is(err, repositories.ErrDuplicate):
			return nil, subjectNameConflict(name)
		}
		return nil, storeErr("updating subject", err)
	}

	return s.GetByID(ctx, id)
}

// Delete soft-deletes a subject that no live course references
func (s *subjectServiceImpl) Delete(ctx context.Context, id int64) error {
	unlock := s.locks.Lock(fmt.Sprintf("subject:%d", id))
	defer unlock()

	if err := s.subjectRepo.SoftDelete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return notFound("Subject", id)
		case errors.Is(err, repositories.ErrHasRelations):
			return apperrors.NewRelationConflictError(apperrors.ErrSubjectHasCourses)
		}
		return storeErr("deleting subject", err)
	}
	logger.Info().Int64("subjectID", id).Msg("Subject deleted")
	return nil
}
