package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/schooladmin/internal/app/models"
	"github.com/yigit/schooladmin/internal/app/models/dto"
	"github.com/yigit/schooladmin/internal/app/repositories"
	"github.com/yigit/schooladmin/internal/pkg/apperrors"
	"github.com/yigit/schooladmin/internal/pkg/auth"
	"github.com/yigit/schooladmin/internal/pkg/avatar"
	"github.com/yigit/schooladmin/internal/testutil"
	"golang.org/x/crypto/bcrypt"
)

func ptr[T any](v T) *T { return &v }

func newTestServices(t *testing.T) (*Services, *repositories.Repositories) {
	t.Helper()
	repos := repositories.NewRepositories(testutil.NewSQLite(t))
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "test", AccessTokenExp: time.Hour, TokenIssuer: "test"})
	resolver, err := avatar.NewStaticResolver("https://cdn.school.edu")
	require.NoError(t, err)

	svc := NewServices(repos, jwtService, resolver)
	svc.AuthService.(*authServiceImpl).hash = func(p string) (string, error) {
		return auth.HashPasswordWithCost(p, bcrypt.MinCost)
	}
	return svc, repos
}

func validInstructor(email string) dto.CreateInstructorRequest {
	return dto.CreateInstructorRequest{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       email,
		Phone:       "+90 532 123 4567",
		DateOfBirth: "1985-12-10",
		Status:      "Active",
		Avatar:      ptr("avatars/ada.png"),
	}
}

func TestSubjectService_Create(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestServices(t)
	subjects := svc.SubjectService

	created, err := subjects.Create(ctx, dto.CreateSubjectRequest{Name: "  Algorithms ", Credits: 6})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Algorithms", created.Name)

	_, err = subjects.Create(ctx, dto.CreateSubjectRequest{Name: "algorithms", Credits: 3})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	assert.Equal(t, "name", apperrors.FieldOf(err))
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	tests := []struct {
		name  string
		req   dto.CreateSubjectRequest
		field string
	}{
		{"missing name", dto.CreateSubjectRequest{Credits: 3}, "name"},
		{"short name", dto.CreateSubjectRequest{Name: "A", Credits: 3}, "name"},
		{"zero credits", dto.CreateSubjectRequest{Name: "Physics"}, "credits"},
		{"too many credits", dto.CreateSubjectRequest{Name: "Physics", Credits: 21}, "credits"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := subjects.Create(ctx, tt.req)
			assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
			assert.Equal(t, tt.field, apperrors.FieldOf(err))
		})
	}

	list, err := subjects.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSubjectService_NonASCIINameConflicts(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestServices(t)
	subjects := svc.SubjectService

	_, err := subjects.Create(ctx, dto.CreateSubjectRequest{Name: "Économie", Credits: 4})
	require.NoError(t, err)

	_, err = subjects.Create(ctx, dto.CreateSubjectRequest{Name: "économie", Credits: 4})
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	other, err := subjects.Create(ctx, dto.CreateSubjectRequest{Name: "Öffentliches Recht", Credits: 3})
	require.NoError(t, err)
	_, err = subjects.Update(ctx, other.ID, dto.UpdateSubjectRequest{Name: ptr("ÉCONOMIE")})
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	list, err := subjects.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestSubjectService_ConcurrentCreateSameName(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestServices(t)

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.SubjectService.Create(ctx, dto.CreateSubjectRequest{Name: "Databases", Credits: 5})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	}
	assert.Equal(t, 1, succeeded)
}

func TestSubjectService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestServices(t)
	subjects := svc.SubjectService

	a, err := subjects.Create(ctx, dto.CreateSubjectRequest{Name: "Algebra", Credits: 4})
	require.NoError(t, err)
	b, err := subjects.Create(ctx, dto.CreateSubjectRequest{Name: "Biology", Credits: 4})
	require.NoError(t, err)

	updated, err := subjects.Update(ctx, a.ID, dto.UpdateSubjectRequest{Credits: ptr(7)})
	require.NoError(t, err)
	assert.Equal(t, "Algebra", updated.Name)
	assert.Equal(t, 7, updated.Credits)

	// renaming to its own name in another case is not a conflict
	updated, err = subjects.Update(ctx, a.ID, dto.UpdateSubjectRequest{Name: ptr("ALGEBRA")})
	require.NoError(t, err)
	assert.Equal(t, "ALGEBRA", updated.Name)

	_, err = subjects.Update(ctx, b.ID, dto.UpdateSubjectRequest{Name: ptr("algebra")})
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	require.NoError(t, subjects.Delete(ctx, b.ID))
	err = subjects.Delete(ctx, b.ID)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	_, err = subjects.Update(ctx, b.ID, dto.UpdateSubjectRequest{Credits: ptr(3)})
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	_, err = subjects.GetByID(ctx, b.ID)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestInstructorService(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestServices(t)
	instructors := svc.InstructorService

	created, err := instructors.Create(ctx, validInstructor("ada@school.edu"))
	require.NoError(t, err)
	require.NotNil(t, created.AvatarURL)
	assert.Equal(t, "https://cdn.school.edu/avatars/ada.png", *created.AvatarURL)

	_, err = instructors.Create(ctx, validInstructor("ADA@School.edu"))
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	assert.Equal(t, "email", apperrors.FieldOf(err))

	bad := validInstructor("grace@school.edu")
	bad.DateOfBirth = time.Now().AddDate(1, 0, 0).Format("2006-01-02")
	_, err = instructors.Create(ctx, bad)
	assert.Equal(t, "dateOfBirth", apperrors.FieldOf(err))

	bad = validInstructor("grace@school.edu")
	bad.Phone = "123"
	_, err = instructors.Create(ctx, bad)
	assert.Equal(t, "phone", apperrors.FieldOf(err))

	bad = validInstructor("grace@school.edu")
	bad.Status = "Retired"
	_, err = instructors.Create(ctx, bad)
	assert.Equal(t, "status", apperrors.FieldOf(err))

	updated, err := instructors.Update(ctx, created.ID, dto.UpdateInstructorRequest{Status: ptr("Inactive"), Avatar: ptr("")})
	require.NoError(t, err)
	assert.Equal(t, models.InstructorInactive, updated.Status)
	assert.Nil(t, updated.Avatar)
	assert.Nil(t, updated.AvatarURL)
	assert.Equal(t, "ada@school.edu", updated.Email)
}

func TestCourseService(t *testing.T) {
	ctx := context.Background()
	svc, repos := newTestServices(t)

	subject, err := svc.SubjectService.Create(ctx, dto.CreateSubjectRequest{Name: "Compilers", Credits: 6})
	require.NoError(t, err)
	instructor, err := svc.InstructorService.Create(ctx, validInstructor("ada@school.edu"))
	require.NoError(t, err)
	fall, err := repos.SemesterRepository.EnsureByName(ctx, &models.Semester{Name: "Fall 2026", StartDate: "2026-09-14", EndDate: "2027-01-22"})
	require.NoError(t, err)
	spring, err := repos.SemesterRepository.EnsureByName(ctx, &models.Semester{Name: "Spring 2027", StartDate: "2027-02-15", EndDate: "2027-06-10"})
	require.NoError(t, err)

	_, err = svc.CourseService.Create(ctx, dto.CreateCourseRequest{SubjectID: 999, InstructorID: instructor.ID, SemesterID: fall.ID})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Equal(t, "subjectId", apperrors.FieldOf(err))

	course, err := svc.CourseService.Create(ctx, dto.CreateCourseRequest{SubjectID: subject.ID, InstructorID: instructor.ID, SemesterID: fall.ID})
	require.NoError(t, err)
	assert.Equal(t, "Compilers", course.SubjectName)
	assert.Equal(t, "Ada", course.InstructorFirstName)
	assert.Equal(t, "Fall 2026", course.SemesterName)
	require.NotNil(t, course.InstructorAvatarURL)

	_, err = svc.CourseService.Create(ctx, dto.CreateCourseRequest{SubjectID: subject.ID, InstructorID: instructor.ID, SemesterID: fall.ID})
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	err = svc.SubjectService.Delete(ctx, subject.ID)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	assert.ErrorIs(t, err, apperrors.ErrSubjectHasCourses)
	err = svc.InstructorService.Delete(ctx, instructor.ID)
	assert.ErrorIs(t, err, apperrors.ErrInstructorHasCourses)

	moved, err := svc.CourseService.Update(ctx, course.ID, dto.UpdateCourseRequest{SemesterID: ptr(spring.ID)})
	require.NoError(t, err)
	assert.Equal(t, spring.ID, moved.SemesterID)
	assert.Equal(t, "Spring 2027", moved.SemesterName)

	require.NoError(t, svc.CourseService.Delete(ctx, course.ID))
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(svc.CourseService.Delete(ctx, course.ID)))
	assert.NoError(t, svc.SubjectService.Delete(ctx, subject.ID))
}

func TestAuthService(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestServices(t)

	_, err := svc.AuthService.EnsureAdmin(ctx, "admin@school.edu", "first")
	require.NoError(t, err)
	// second call resets the password
	_, err = svc.AuthService.EnsureAdmin(ctx, "admin@school.edu", "second")
	require.NoError(t, err)

	tok, err := svc.AuthService.Login(ctx, dto.LoginRequest{Email: "Admin@School.edu", Password: "second"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", tok.TokenType)
	assert.NotEmpty(t, tok.AccessToken)

	_, err = svc.AuthService.Login(ctx, dto.LoginRequest{Email: "admin@school.edu", Password: "first"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	_, err = svc.AuthService.Login(ctx, dto.LoginRequest{Email: "nobody@school.edu", Password: "x"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}
