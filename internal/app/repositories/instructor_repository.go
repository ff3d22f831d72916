package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/schooladmin/internal/app/models"
	"github.com/yigit/schooladmin/internal/db"
	"github.com/yigit/schooladmin/internal/pkg/logger"
	"github.com/yigit/schooladmin/internal/pkg/validation"
)

// InstructorRepository handles instructor database operations
type InstructorRepository struct {
	db *db.Database
	sb squirrel.StatementBuilderType
}

// NewInstructorRepository creates a new InstructorRepository
func NewInstructorRepository(database *db.Database) *InstructorRepository {
	return &InstructorRepository{
		db: database,
		sb: database.Builder(),
	}
}

var instructorColumns = []string{
	"id", "first_name", "last_name", "email", "phone", "date_of_birth", "status", "avatar",
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInstructor(row rowScanner) (*models.Instructor, error) {
	i := &models.Instructor{}
	err := row.Scan(&i.ID, &i.FirstName, &i.LastName, &i.Email, &i.Phone, &i.DateOfBirth, &i.Status, &i.Avatar)
	if err != nil {
		return nil, err
	}
	return i, nil
}

// List returns all live instructors ordered by id
func (r *InstructorRepository) List(ctx context.Context) ([]*models.Instructor, error) {
	query, args, err := r.sb.Select(instructorColumns...).
		From("instructors").
		Where(live("instructors")).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list instructors query: %w", err)
	}

	rows, err := r.db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list instructors query")
		return nil, fmt.Errorf("error querying instructors: %w", err)
	}
	defer rows.Close()

	instructors := []*models.Instructor{}
	for rows.Next() {
		i, err := scanInstructor(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning instructor row: %w", err)
		}
		instructors = append(instructors, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating instructor rows: %w", err)
	}
	return instructors, nil
}

// GetByID retrieves a live instructor by ID
func (r *InstructorRepository) GetByID(ctx context.Context, id int64) (*models.Instructor, error) {
	query, args, err := r.sb.Select(instructorColumns...).
		From("instructors").
		Where(squirrel.Eq{"id": id}).
		Where(live("instructors")).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get instructor query: %w", err)
	}

	i, err := scanInstructor(r.db.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, notFoundIfNoRows(err)
	}
	return i, nil
}

// ExistsByEmail reports whether another live instructor uses email (case-insensitive).
// excludeID of 0 excludes nothing.
func (r *InstructorRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	q := r.sb.Select("COUNT(*)").
		From("instructors").
		Where(squirrel.Eq{"email_key": validation.NormalizeKey(email)}).
		Where(live("instructors"))
	if excludeID > 0 {
		q = q.Where(squirrel.NotEq{"id": excludeID})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build instructor exists query: %w", err)
	}

	var n int
	if err := r.db.DB.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, fmt.Errorf("error checking instructor email: %w", err)
	}
	return n > 0, nil
}

// Create inserts an instructor and sets its ID
func (r *InstructorRepository) Create(ctx context.Context, i *models.Instructor) error {
	query, args, err := r.sb.Insert("instructors").
		Columns("first_name", "last_name", "email", "email_key", "phone", "date_of_birth", "status", "avatar").
		Values(i.FirstName, i.LastName, i.Email, validation.NormalizeKey(i.Email), i.Phone, i.DateOfBirth, string(i.Status), i.Avatar).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create instructor query: %w", err)
	}

	if err := r.db.DB.QueryRowContext(ctx, query, args...).Scan(&i.ID); err != nil {
		return translateWriteErr(err)
	}
	return nil
}

// Update applies the column changes to a live instructor in one statement
func (r *InstructorRepository) Update(ctx context.Context, id int64, changes map[string]interface{}) error {
	query, args, err := r.sb.Update("instructors").
		SetMap(withKey(changes, "email", "email_key")).
		Set("updated_at", now).
		Where(squirrel.Eq{"id": id}).
		Where(live("instructors")).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update instructor query: %w", err)
	}

	res, err := r.db.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return translateWriteErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDelete marks an instructor deleted unless they still teach a live course
func (r *InstructorRepository) SoftDelete(ctx context.Context, id int64) error {
	query, args, err := r.sb.Update("instructors").
		Set("deleted_at", now).
		Where(squirrel.Eq{"id": id}).
		Where(live("instructors")).
		Where("NOT EXISTS (SELECT 1 FROM courses WHERE courses.instructor_id = instructors.id AND courses.deleted_at IS NULL)").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete instructor query: %w", err)
	}

	res, err := r.db.DB.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Int64("instructorID", id).Msg("Error executing delete instructor query")
		return fmt.Errorf("error deleting instructor: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return ErrHasRelations
}
