package repositories

import (
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/schooladmin/internal/db"
	"github.com/yigit/schooladmin/internal/pkg/dberrors"
	"github.com/yigit/schooladmin/internal/pkg/validation"
)

// Shared repository errors
var (
	// ErrNotFound is returned when no live row matches.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write collides with a live natural key.
	ErrDuplicate = errors.New("record with the same key already exists")
	// ErrHasRelations is returned when a delete is blocked by live courses.
	ErrHasRelations = errors.New("record is referenced by live courses")
)

// Repositories holds all the repository instances
type Repositories struct {
	SubjectRepository    *SubjectRepository
	InstructorRepository *InstructorRepository
	CourseRepository     *CourseRepository
	SemesterRepository   *SemesterRepository
	AdminRepository      *AdminRepository
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.Database) *Repositories {
	return &Repositories{
		SubjectRepository:    NewSubjectRepository(database),
		InstructorRepository: NewInstructorRepository(database),
		CourseRepository:     NewCourseRepository(database),
		SemesterRepository:   NewSemesterRepository(database),
		AdminRepository:      NewAdminRepository(database),
	}
}

// live filters out soft-deleted rows of the given table or alias.
func live(table string) squirrel.Eq {
	return squirrel.Eq{table + ".deleted_at": nil}
}

// now is the dialect-neutral current timestamp expression.
var now = squirrel.Expr("CURRENT_TIMESTAMP")

// withKey returns changes plus the normalized key column when column is changed.
// Uniqueness is enforced on the key column, so it is never written by callers.
func withKey(changes map[string]interface{}, column, keyColumn string) map[string]interface{} {
	v, ok := changes[column].(string)
	if !ok {
		return changes
	}
	out := make(map[string]interface{}, len(changes)+1)
	for k, val := range changes {
		out[k] = val
	}
	out[keyColumn] = validation.NormalizeKey(v)
	return out
}

// translateWriteErr maps driver errors from INSERT/UPDATE onto repository errors.
func translateWriteErr(err error) error {
	if dberrors.IsUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// notFoundIfNoRows maps sql.ErrNoRows to ErrNotFound.
func notFoundIfNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
