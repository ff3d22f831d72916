package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/schooladmin/internal/app/models"
	"github.com/yigit/schooladmin/internal/testutil"
)

type fixture struct {
	repos      *Repositories
	subject    *models.Subject
	instructor *models.Instructor
	semester   *models.Semester
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	repos := NewRepositories(testutil.NewSQLite(t))

	subject := &models.Subject{Name: "Algorithms", Credits: 6}
	require.NoError(t, repos.SubjectRepository.Create(ctx, subject))

	avatar := "avatars/ada.png"
	instructor := &models.Instructor{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@school.edu", Phone: "+905321234567",
		DateOfBirth: "1985-12-10", Status: models.InstructorActive, Avatar: &avatar,
	}
	require.NoError(t, repos.InstructorRepository.Create(ctx, instructor))

	semester, err := repos.SemesterRepository.EnsureByName(ctx, &models.Semester{Name: "Fall 2026", StartDate: "2026-09-14", EndDate: "2027-01-22"})
	require.NoError(t, err)

	return &fixture{repos: repos, subject: subject, instructor: instructor, semester: semester}
}

func TestSubjectRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	subjects := f.repos.SubjectRepository

	assert.NotZero(t, f.subject.ID)

	exists, err := subjects.ExistsByName(ctx, "ALGORITHMS", 0)
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = subjects.ExistsByName(ctx, "algorithms", f.subject.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	err = subjects.Create(ctx, &models.Subject{Name: "algorithms", Credits: 3})
	assert.ErrorIs(t, err, ErrDuplicate)

	require.NoError(t, subjects.Update(ctx, f.subject.ID, map[string]interface{}{"credits": 8}))
	got, err := subjects.GetByID(ctx, f.subject.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, got.Credits)
	assert.Equal(t, "Algorithms", got.Name)

	require.NoError(t, subjects.SoftDelete(ctx, f.subject.ID))
	_, err = subjects.GetByID(ctx, f.subject.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, subjects.SoftDelete(ctx, f.subject.ID), ErrNotFound)
	assert.ErrorIs(t, subjects.Update(ctx, f.subject.ID, map[string]interface{}{"credits": 2}), ErrNotFound)

	list, err := subjects.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	// the name is free again once the old row is deleted
	assert.NoError(t, subjects.Create(ctx, &models.Subject{Name: "Algorithms", Credits: 5}))
}

func TestSubjectRepository_KeyFoldsNonASCII(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	subjects := f.repos.SubjectRepository

	require.NoError(t, subjects.Create(ctx, &models.Subject{Name: "Économie", Credits: 4}))
	exists, err := subjects.ExistsByName(ctx, " économie ", 0)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.ErrorIs(t, subjects.Create(ctx, &models.Subject{Name: "économie", Credits: 4}), ErrDuplicate)

	// renaming keeps the key in step with the name
	require.NoError(t, subjects.Update(ctx, f.subject.ID, map[string]interface{}{"name": "Ökonometrie"}))
	exists, err = subjects.ExistsByName(ctx, "ÖKONOMETRIE", 0)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.ErrorIs(t, subjects.Update(ctx, f.subject.ID, map[string]interface{}{"name": "ÉCONOMIE"}), ErrDuplicate)
}

func TestInstructorRepository_EmailUniqueness(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	instructors := f.repos.InstructorRepository

	dup := *f.instructor
	dup.ID = 0
	dup.Email = "ADA@school.edu"
	assert.ErrorIs(t, instructors.Create(ctx, &dup), ErrDuplicate)

	got, err := instructors.GetByID(ctx, f.instructor.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Avatar)
	assert.Equal(t, "avatars/ada.png", *got.Avatar)
	assert.Equal(t, models.InstructorActive, got.Status)

	require.NoError(t, instructors.Update(ctx, got.ID, map[string]interface{}{"avatar": nil, "status": "Inactive"}))
	got, err = instructors.GetByID(ctx, f.instructor.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Avatar)
	assert.Equal(t, models.InstructorInactive, got.Status)
}

func TestCourseRepository_JoinsAndGuards(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	courses := f.repos.CourseRepository

	course := &models.Course{SubjectID: f.subject.ID, InstructorID: f.instructor.ID, SemesterID: f.semester.ID}
	require.NoError(t, courses.Create(ctx, course))

	got, err := courses.GetByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, "Algorithms", got.SubjectName)
	assert.Equal(t, "Lovelace", got.InstructorLastName)
	assert.Equal(t, "Fall 2026", got.SemesterName)
	require.NotNil(t, got.InstructorAvatar)

	dup := &models.Course{SubjectID: f.subject.ID, InstructorID: f.instructor.ID, SemesterID: f.semester.ID}
	assert.ErrorIs(t, courses.Create(ctx, dup), ErrDuplicate)

	exists, err := courses.ExistsAssignment(ctx, f.subject.ID, f.instructor.ID, f.semester.ID, 0)
	require.NoError(t, err)
	assert.True(t, exists)

	assert.ErrorIs(t, f.repos.SubjectRepository.SoftDelete(ctx, f.subject.ID), ErrHasRelations)
	assert.ErrorIs(t, f.repos.InstructorRepository.SoftDelete(ctx, f.instructor.ID), ErrHasRelations)

	require.NoError(t, courses.SoftDelete(ctx, course.ID))
	assert.NoError(t, f.repos.SubjectRepository.SoftDelete(ctx, f.subject.ID))

	list, err := courses.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAdminRepository(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admins := f.repos.AdminRepository

	a := &models.Admin{Email: "root@school.edu", Password: "hash", Role: models.RoleAdmin, IsActive: true}
	require.NoError(t, admins.Create(ctx, a))

	got, err := admins.GetByEmail(ctx, "ROOT@school.edu")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	assert.True(t, got.IsActive)

	_, err = admins.GetByEmail(ctx, "nobody@school.edu")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSemesterRepository_EnsureIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	again, err := f.repos.SemesterRepository.EnsureByName(ctx, &models.Semester{Name: "fall 2026", StartDate: "2026-09-01", EndDate: "2027-01-01"})
	require.NoError(t, err)
	assert.Equal(t, f.semester.ID, again.ID)

	list, err := f.repos.SemesterRepository.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
