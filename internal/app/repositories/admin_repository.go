package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/schooladmin/internal/app/models"
	"github.com/yigit/schooladmin/internal/db"
)

// AdminRepository handles administrator accounts
type AdminRepository struct {
	db *db.Database
	sb squirrel.StatementBuilderType
}

// NewAdminRepository creates a new AdminRepository
func NewAdminRepository(database *db.Database) *AdminRepository {
	return &AdminRepository{db: database, sb: database.Builder()}
}

// GetByEmail finds an admin by email, case-insensitively
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	query, args, err := r.sb.Select("id", "email", "password", "role", "is_active").
		From("admins").
		Where("LOWER(email) = LOWER(?)", email).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get admin query: %w", err)
	}

	a := &models.Admin{}
	err = r.db.DB.QueryRowContext(ctx, query, args...).Scan(&a.ID, &a.Email, &a.Password, &a.Role, &a.IsActive)
	if err != nil {
		return nil, notFoundIfNoRows(err)
	}
	return a, nil
}

// Create inserts an admin and sets its ID
func (r *AdminRepository) Create(ctx context.Context, a *models.Admin) error {
	query, args, err := r.sb.Insert("admins").
		Columns("email", "password", "role", "is_active").
		Values(a.Email, a.Password, string(a.Role), a.IsActive).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create admin query: %w", err)
	}
	if err := r.db.DB.QueryRowContext(ctx, query, args...).Scan(&a.ID); err != nil {
		return translateWriteErr(err)
	}
	return nil
}

// UpdatePassword replaces the stored hash and re-activates the account
func (r *AdminRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	query, args, err := r.sb.Update("admins").
		Set("password", hash).
		Set("is_active", true).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update admin query: %w", err)
	}
	res, err := r.db.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
