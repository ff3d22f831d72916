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

// SubjectRepository handles subject database operations
type SubjectRepository struct {
	db *db.Database
	sb squirrel.StatementBuilderType
}

// NewSubjectRepository creates a new SubjectRepository
func NewSubjectRepository(database *db.Database) *SubjectRepository {
	return &SubjectRepository{
		db: database,
		sb: database.Builder(),
	}
}

var subjectColumns = []string{"id", "name", "credits"}

// List returns all live subjects ordered by id
func (r *SubjectRepository) List(ctx context.Context) ([]*models.Subject, error) {
	query, args, err := r.sb.Select(subjectColumns...).
		From("subjects").
		Where(live("subjects")).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list subjects query: %w", err)
	}

	rows, err := r.db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list subjects query")
		return nil, fmt.Errorf("error querying subjects: %w", err)
	}
	defer rows.Close()

	subjects := []*models.Subject{}
	for rows.Next() {
		s := &models.Subject{}
		if err := rows.Scan(&s.ID, &s.Name, &s.Credits); err != nil {
			return nil, fmt.Errorf("error scanning subject row: %w", err)
		}
		subjects = append(subjects, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subject rows: %w", err)
	}
	return subjects, nil
}

// GetByID retrieves a live subject by ID
func (r *SubjectRepository) GetByID(ctx context.Context, id int64) (*models.Subject, error) {
	query, args, err := r.sb.Select(subjectColumns...).
		From("subjects").
		Where(squirrel.Eq{"id": id}).
		Where(live("subjects")).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get subject query: %w", err)
	}

	s := &models.Subject{}
	err = r.db.DB.QueryRowContext(ctx, query, args...).Scan(&s.ID, &s.Name, &s.Credits)
	if err != nil {
		return nil, notFoundIfNoRows(err)
	}
	return s, nil
}

// ExistsByName reports whether another live subject already uses name, compared
// case-insensitively. excludeID of 0 excludes nothing.
func (r *SubjectRepository) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	q := r.sb.Select("COUNT(*)").
		From("subjects").
		Where(squirrel.Eq{"name_key": validation.NormalizeKey(name)}).
		Where(live("subjects"))
	if excludeID > 0 {
		q = q.Where(squirrel.NotEq{"id": excludeID})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build subject exists query: %w", err)
	}

	var n int
	if err := r.db.DB.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, fmt.Errorf("error checking subject name: %w", err)
	}
	return n > 0, nil
}

// Create inserts a subject and sets its ID
func (r *SubjectRepository) Create(ctx context.Context, s *models.Subject) error {
	query, args, err := r.sb.Insert("subjects").
		Columns("name", "name_key", "credits").
		Values(s.Name, validation.NormalizeKey(s.Name), s.Credits).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create subject query: %w", err)
	}

	if err := r.db.DB.QueryRowContext(ctx, query, args...).Scan(&s.ID); err != nil {
		return translateWriteErr(err)
	}
	return nil
}

// Update applies the column changes to a live subject in one statement
func (r *SubjectRepository) Update(ctx context.Context, id int64, changes map[string]interface{}) error {
	query, args, err := r.sb.Update("subjects").
		SetMap(withKey(changes, "name", "name_key")).
		Set("updated_at", now).
		Where(squirrel.Eq{"id": id}).
		Where(live("subjects")).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update subject query: %w", err)
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

// SoftDelete marks a subject deleted unless a live course still uses it
func (r *SubjectRepository) SoftDelete(ctx context.Context, id int64) error {
	query, args, err := r.sb.Update("subjects").
		Set("deleted_at", now).
		Where(squirrel.Eq{"id": id}).
		Where(live("subjects")).
		Where("NOT EXISTS (SELECT 1 FROM courses WHERE courses.subject_id = subjects.id AND courses.deleted_at IS NULL)").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete subject query: %w", err)
	}

	res, err := r.db.DB.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Int64("subjectID", id).Msg("Error executing delete subject query")
		return fmt.Errorf("error deleting subject: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	// Nothing changed: either gone already or still referenced.
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return ErrHasRelations
}
