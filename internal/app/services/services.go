package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yigit/schooladmin/internal/app/repositories"
	"github.com/yigit/schooladmin/internal/pkg/apperrors"
	"github.com/yigit/schooladmin/internal/pkg/avatar"
	"github.com/yigit/schooladmin/internal/pkg/auth"
	"github.com/yigit/schooladmin/internal/pkg/logger"
)

// Services defined in this package:
// - AuthService: admin login
// - SubjectService, InstructorService, CourseService: validated CRUD with natural-key uniqueness
// - SemesterService: read-only reference data

// Services bundles every service the HTTP layer needs
type Services struct {
	AuthService       AuthService
	SubjectService    SubjectService
	InstructorService InstructorService
	CourseService     CourseService
	SemesterService   SemesterService
}

// NewServices wires services over the repositories. The key lock is shared so
// course writes and subject/instructor deletes serialize on the same references.
func NewServices(repos *repositories.Repositories, jwtService *auth.JWTService, avatars avatar.Resolver) *Services {
	locks := NewKeyLock()
	return &Services{
		AuthService:       NewAuthService(repos.AdminRepository, jwtService),
		SubjectService:    NewSubjectService(repos.SubjectRepository, locks),
		InstructorService: NewInstructorService(repos.InstructorRepository, avatars, locks),
		CourseService:     NewCourseService(repos.CourseRepository, repos.SubjectRepository, repos.InstructorRepository, repos.SemesterRepository, avatars, locks),
		SemesterService:   NewSemesterService(repos.SemesterRepository),
	}
}

// clock is overridden in tests that depend on "today".
var clock = time.Now

func notFound(entity string, id int64) error {
	return apperrors.NewResourceNotFoundError(fmt.Sprintf("%s %d not found", entity, id))
}

// storeErr wraps an unexpected repository error; known repository errors are mapped
// by the callers before this is reached.
func storeErr(op string, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.ErrResourceNotFound
	}
	return fmt.Errorf("error %s: %w", op, err)
}

// resolveAvatar returns the URL for key, logging and omitting it if the resolver fails.
func resolveAvatar(ctx context.Context, r avatar.Resolver, key *string) *string {
	u, err := avatar.Resolve(ctx, r, key)
	if err != nil {
		logger.Warn().Err(err).Str("avatar", *key).Msg("Failed to resolve avatar URL")
		return nil
	}
	return u
}
