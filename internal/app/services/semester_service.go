package services

import (
	"context"

	"github.com/yigit/schooladmin/internal/app/models"
	"github.com/yigit/schooladmin/internal/app/repositories"
)

// SemesterService exposes the seeded semester list
type SemesterService interface {
	List(ctx context.Context) ([]*models.Semester, error)
}

type semesterServiceImpl struct {
	semesterRepo *repositories.SemesterRepository
}

// NewSemesterService creates a new SemesterService
func NewSemesterService(semesterRepo *repositories.SemesterRepository) SemesterService {
	return &semesterServiceImpl{semesterRepo: semesterRepo}
}

func (s *semesterServiceImpl) List(ctx context.Context) ([]*models.Semester, error) {
	semesters, err := s.semesterRepo.List(ctx)
	if err != nil {
		return nil, storeErr("retrieving semesters", err)
	}
	return semesters, nil
}
