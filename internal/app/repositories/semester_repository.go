package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/schooladmin/internal/app/models"
	"github.com/yigit/schooladmin/internal/db"
)

// SemesterRepository reads and seeds semesters
type SemesterRepository struct {
	db *db.Database
	sb squirrel.StatementBuilderType
}

// NewSemesterRepository creates a new SemesterRepository
func NewSemesterRepository(database *db.Database) *SemesterRepository {
	return &SemesterRepository{db: database, sb: database.Builder()}
}

// List returns all semesters ordered by start date
func (r *SemesterRepository) List(ctx context.Context) ([]*models.Semester, error) {
	query, args, err := r.sb.Select("id", "name", "start_date", "end_date").
		From("semesters").
		OrderBy("start_date ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list semesters query: %w", err)
	}

	rows, err := r.db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying semesters: %w", err)
	}
	defer rows.Close()

	semesters := []*models.Semester{}
	for rows.Next() {
		s := &models.Semester{}
		if err := rows.Scan(&s.ID, &s.Name, &s.StartDate, &s.EndDate); err != nil {
			return nil, fmt.Errorf("error scanning semester row: %w", err)
		}
		semesters = append(semesters, s)
	}
	return semesters, rows.Err()
}

// GetByID retrieves a semester by ID
func (r *SemesterRepository) GetByID(ctx context.Context, id int64) (*models.Semester, error) {
	query, args, err := r.sb.Select("id", "name", "start_date", "end_date").
		From("semesters").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get semester query: %w", err)
	}

	s := &models.Semester{}
	if err := r.db.DB.QueryRowContext(ctx, query, args...).Scan(&s.ID, &s.Name, &s.StartDate, &s.EndDate); err != nil {
		return nil, notFoundIfNoRows(err)
	}
	return s, nil
}

// EnsureByName inserts the semester unless one with the same name exists; it
// returns the stored semester either way.
func (r *SemesterRepository) EnsureByName(ctx context.Context, s *models.Semester) (*models.Semester, error) {
	query, args, err := r.sb.Select("id", "name", "start_date", "end_date").
		From("semesters").
		Where("LOWER(name) = LOWER(?)", s.Name).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build find semester query: %w", err)
	}
	existing := &models.Semester{}
	err = r.db.DB.QueryRowContext(ctx, query, args...).Scan(&existing.ID, &existing.Name, &existing.StartDate, &existing.EndDate)
	if err == nil {
		return existing, nil
	}
	if err = notFoundIfNoRows(err); !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	insert, args, err := r.sb.Insert("semesters").
		Columns("name", "start_date", "end_date").
		Values(s.Name, s.StartDate, s.EndDate).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build create semester query: %w", err)
	}
	created := *s
	if err := r.db.DB.QueryRowContext(ctx, insert, args...).Scan(&created.ID); err != nil {
		return nil, translateWriteErr(err)
	}
	return &created, nil
}
