// Command seed registers a demo user and fills in a profile for it, using the
// same storage settings as the API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"go-profile-backend/config"
	"go-profile-backend/internal/domain"
	"go-profile-backend/internal/repository/mongodb"
	"go-profile-backend/internal/repository/postgres"
	"go-profile-backend/internal/usecase"
	"go-profile-backend/pkg/apperror"
	"go-profile-backend/pkg/auth"
	"go-profile-backend/pkg/database"
	"go-profile-backend/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	email := flag.String("email", "demo@example.com", "demo user email")
	password := flag.String("password", "demo123", "demo user password")
	handle := flag.String("handle", "demo", "profile handle")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	log := logger.New(cfg.AppEnv)
	defer func() { _ = log.Sync() }()

	if err := run(context.Background(), cfg, log, *email, *password, *handle); err != nil {
		log.Error("seed failed", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log logger.Logger, email, password, handle string) error {
	pool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		return err
	}

	client, err := database.NewMongoConnection(ctx, cfg.MongoURI)
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	db := client.Database(cfg.MongoDatabase)
	if err := mongodb.EnsureProfileIndexes(ctx, db); err != nil {
		return err
	}

	users := postgres.NewUserRepository(pool)
	authUC := usecase.NewAuthUsecase(users, auth.NewJWTService(cfg.JWTSecret, cfg.JWTTTL, nil), nil, log)
	profileUC := usecase.NewProfileUsecase(mongodb.NewProfileRepository(db), users, log)

	user, err := authUC.Register(ctx, domain.RegisterInput{
		Name: "Demo User", Email: email, Password: password, Password2: password,
	})
	if err != nil {
		var appErr *apperror.AppError
		if !errors.As(err, &appErr) || appErr.Fields["email"] == "" {
			return err
		}
		// Already seeded; reuse the existing account.
		if user, err = users.GetByEmail(ctx, email); err != nil {
			return err
		}
	}

	if _, err := profileUC.Upsert(ctx, user.ID, domain.ProfileInput{
		Handle:         handle,
		Status:         string(domain.StatusDeveloper),
		Company:        "Example Inc",
		Skills:         "go,postgres,mongodb",
		GithubUsername: "octocat",
	}); err != nil {
		return err
	}
	if _, err := profileUC.AddExperience(ctx, user.ID, domain.ExperienceInput{
		Title: "Backend Engineer", Company: "Example Inc", From: "2021-03-01", Current: true,
	}); err != nil {
		return err
	}

	log.Info("seeded", zap.String("user_id", user.ID), zap.String("handle", handle))
	return nil
}
