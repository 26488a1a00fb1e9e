package main

import (
	"context"
	"errors"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-user-resource-api/config"
	"github.com/oksasatya/go-user-resource-api/internal/domain/entity"
	"github.com/oksasatya/go-user-resource-api/internal/domain/repository"
	pginfra "github.com/oksasatya/go-user-resource-api/internal/infrastructure/postgres"
	"github.com/oksasatya/go-user-resource-api/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), 2, 0, cfg.DBMaxConnLife)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to postgres")
	}
	defer pool.Close()

	roles := pginfra.NewRoleRepository(pool)
	users := pginfra.NewUserRepository(pool)

	var admin *entity.Role
	for _, name := range []string{"admin", "member"} {
		r, err := roles.Ensure(ctx, name)
		if err != nil {
			logger.WithError(err).WithField("role", name).Fatal("failed to upsert role")
		}
		if name == "admin" {
			admin = r
		}
		logger.WithField("role", name).WithField("role_id", r.ID).Info("role ensured")
	}

	hash, err := helpers.HashPasswordCost(cfg.SeedAdminPassword, cfg.BcryptCost)
	if err != nil {
		logger.WithError(err).Fatal("failed to hash password")
	}

	u, err := users.GetByEmail(ctx, cfg.SeedAdminEmail)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		u = &entity.User{
			Name:             cfg.SeedAdminName,
			Email:            cfg.SeedAdminEmail,
			Password:         hash,
			RoleID:           &admin.ID,
			MembershipStatus: entity.MembershipVIP,
		}
		if err := users.Create(ctx, u); err != nil {
			logger.WithError(err).Fatal("failed to seed admin")
		}
		logger.WithField("user_id", u.ID).WithField("email", u.Email).Info("admin user created")
	case err != nil:
		logger.WithError(err).Fatal("failed to look up admin")
	default:
		u.Name = cfg.SeedAdminName
		u.RoleID = &admin.ID
		if err := users.Update(ctx, u); err != nil {
			logger.WithError(err).Fatal("failed to update admin")
		}
		logger.WithField("user_id", u.ID).Info("admin user already present; name and role refreshed")
	}
}
