package seed

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/campusbuzz/backend/internal/app/models"
	appRepos "github.com/campusbuzz/backend/internal/app/repositories"
	"github.com/campusbuzz/backend/internal/pkg/auth"
)

const (
	defaultAdminEmail    = "admin@campusbuzz.app"
	defaultAdminUsername = "admin"
	defaultAdminPassword = "Admin123!"
)

// CreateDefaultData creates the default admin account if it doesn't exist.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data...")
	var finalErr error

	exists, err := userRepo.ExistsByEmail(ctx, defaultAdminEmail)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking if admin user exists")
		finalErr = errors.Join(finalErr, err)
	} else if !exists {
		lgr.Info().Msg("Creating default admin user...")

		hashedPassword, err := auth.HashPassword(defaultAdminPassword)
		if err != nil {
			lgr.Error().Err(err).Msg("Error hashing admin password")
			finalErr = errors.Join(finalErr, err)
		} else {
			admin := &appModels.User{
				Email:     defaultAdminEmail,
				Username:  defaultAdminUsername,
				Password:  hashedPassword,
				FirstName: "System",
				LastName:  "Administrator",
				RoleType:  appModels.RoleAdmin,
				IsActive:  true,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}

			if err := userRepo.Create(ctx, admin); err != nil {
				lgr.Error().Err(err).Msg("Error creating admin user")
				finalErr = errors.Join(finalErr, err)
			} else {
				lgr.Info().Int64("adminID", admin.ID).Msg("Default admin user created successfully")
			}
		}
	} else {
		lgr.Info().Msg("Admin user already exists, skipping creation")
	}

	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}
