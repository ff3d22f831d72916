package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/schooladmin/internal/app/models"
	appRepos "github.com/yigit/schooladmin/internal/app/repositories"
	appServices "github.com/yigit/schooladmin/internal/app/services"
)

// DefaultSemesters is the reference data courses are scheduled into.
var DefaultSemesters = []appModels.Semester{
	{Name: "Fall 2025", StartDate: "2025-09-15", EndDate: "2026-01-23"},
	{Name: "Spring 2026", StartDate: "2026-02-16", EndDate: "2026-06-12"},
	{Name: "Fall 2026", StartDate: "2026-09-14", EndDate: "2027-01-22"},
	{Name: "Spring 2027", StartDate: "2027-02-15", EndDate: "2027-06-11"},
}

// CreateDefaultData creates the semesters and, when credentials are configured,
// the admin account. Existing rows are left in place.
func CreateDefaultData(ctx context.Context, repos *appRepos.Repositories, authService appServices.AuthService, adminEmail, adminPassword string, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (Semesters/Admin)...")
	var finalErr error

	for _, s := range DefaultSemesters {
		semester := s
		if _, err := repos.SemesterRepository.EnsureByName(ctx, &semester); err != nil {
			lgr.Error().Err(err).Str("semester", s.Name).Msg("Error creating semester")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if adminEmail == "" {
		lgr.Warn().Msg("No admin credentials configured; skipping admin account")
		return finalErr
	}

	admin, err := authService.EnsureAdmin(ctx, adminEmail, adminPassword)
	if err != nil {
		lgr.Error().Err(err).Str("email", adminEmail).Msg("Error creating admin account")
		return errors.Join(finalErr, err)
	}
	lgr.Info().Int64("adminID", admin.ID).Str("email", admin.Email).Msg("Admin account ready")

	return finalErr
}
