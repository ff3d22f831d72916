package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/schooladmin/internal/app/models"
	"github.com/yigit/schooladmin/internal/db"
	"github.com/yigit/schooladmin/internal/pkg/logger"
)

// CourseRepository handles course database operations
type CourseRepository struct {
	db *db.Database
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(database *db.Database) *CourseRepository {
	return &CourseRepository{
		db: database,
		sb: database.Builder(),
	}
}

// selectCourses joins the cross-reference names every read returns.
func (r *CourseRepository) selectCourses() squirrel.SelectBuilder {
	return r.sb.Select(
		"c.id", "c.subject_id", "c.instructor_id", "c.semester_id",
		"s.name", "i.first_name", "i.last_name", "i.avatar", "se.name",
	).
		From("courses c").
		Join("subjects s ON s.id = c.subject_id").
		Join("instructors i ON i.id = c.instructor_id").
		Join("semesters se ON se.id = c.semester_id").
		Where(live("c"))
}

func scanCourse(row rowScanner) (*models.Course, error) {
	c := &models.Course{}
	err := row.Scan(
		&c.ID, &c.SubjectID, &c.InstructorID, &c.SemesterID,
		&c.SubjectName, &c.InstructorFirstName, &c.InstructorLastName, &c.InstructorAvatar, &c.SemesterName,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// List returns all live courses with their cross references, ordered by id
func (r *CourseRepository) List(ctx context.Context) ([]*models.Course, error) {
	query, args, err := r.selectCourses().OrderBy("c.id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list courses query: %w", err)
	}

	rows, err := r.db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list courses query")
		return nil, fmt.Errorf("error querying courses: %w", err)
	}
	defer rows.Close()

	courses := []*models.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning course row: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course rows: %w", err)
	}
	return courses, nil
}

// GetByID retrieves a live course with its cross references
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	query, args, err := r.selectCourses().Where(squirrel.Eq{"c.id": id}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	c, err := scanCourse(r.db.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, notFoundIfNoRows(err)
	}
	return c, nil
}

// ExistsAssignment reports whether another live course has the same
// subject, instructor and semester. excludeID of 0 excludes nothing.
func (r *CourseRepository) ExistsAssignment(ctx context.Context, subjectID, instructorID, semesterID, excludeID int64) (bool, error) {
	q := r.sb.Select("COUNT(*)").
		From("courses").
		Where(squirrel.Eq{
			"subject_id":    subjectID,
			"instructor_id": instructorID,
			"semester_id":   semesterID,
		}).
		Where(live("courses"))
	if excludeID > 0 {
		q = q.Where(squirrel.NotEq{"id": excludeID})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build course exists query: %w", err)
	}

	var n int
	if err := r.db.DB.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, fmt.Errorf("error checking course assignment: %w", err)
	}
	return n > 0, nil
}

// Create inserts a course and sets its ID
func (r *CourseRepository) Create(ctx context.Context, c *models.Course) error {
	query, args, err := r.sb.Insert("courses").
		Columns("subject_id", "instructor_id", "semester_id").
		Values(c.SubjectID, c.InstructorID, c.SemesterID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create course query: %w", err)
	}

	if err := r.db.DB.QueryRowContext(ctx, query, args...).Scan(&c.ID); err != nil {
		return translateWriteErr(err)
	}
	return nil
}

// Update applies the column changes to a live course in one statement
func (r *CourseRepository) Update(ctx context.Context, id int64, changes map[string]interface{}) error {
	query, args, err := r.sb.Update("courses").
		SetMap(changes).
		Set("updated_at", now).
		Where(squirrel.Eq{"id": id}).
		Where(live("courses")).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update course query: %w", err)
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

// SoftDelete marks a course deleted
func (r *CourseRepository) SoftDelete(ctx context.Context, id int64) error {
	query, args, err := r.sb.Update("courses").
		Set("deleted_at", now).
		Where(squirrel.Eq{"id": id}).
		Where(live("courses")).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete course query: %w", err)
	}

	res, err := r.db.DB.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", id).Msg("Error executing delete course query")
		return fmt.Errorf("error deleting course: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
