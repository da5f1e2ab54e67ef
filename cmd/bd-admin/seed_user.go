package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/tuanvumaihuynh/bizdesk/internal/config"
	"github.com/tuanvumaihuynh/bizdesk/internal/log"
	"github.com/tuanvumaihuynh/bizdesk/internal/model"
	"github.com/tuanvumaihuynh/bizdesk/internal/repository"
	"github.com/tuanvumaihuynh/bizdesk/internal/service"
	"github.com/tuanvumaihuynh/bizdesk/internal/storage/db"
)

type seedUserOptions struct {
	username string
	password string
	role     string
}

func newSeedUserCmd() *cobra.Command {
	var opts seedUserOptions

	cmd := &cobra.Command{
		Use:   "seed-user",
		Short: "Create a user directly in the database",
		Example: `  bd-admin seed-user --username admin --password secret --role admin`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			return runSeedUser(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.username, "username", "", "login name")
	cmd.Flags().StringVar(&opts.password, "password", "", "plain text password")
	cmd.Flags().StringVar(&opts.role, "role", model.RoleAdmin, "admin or user")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func (o seedUserOptions) validate() error {
	if o.username == "" || o.password == "" {
		return fmt.Errorf("username and password must not be empty")
	}
	if o.role != model.RoleAdmin && o.role != model.RoleUser {
		return fmt.Errorf("invalid role %q: must be %s or %s", o.role, model.RoleAdmin, model.RoleUser)
	}
	return nil
}

func runSeedUser(ctx context.Context, opts seedUserOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	type Config struct {
		Log      config.Log
		Postgres config.Postgres
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log)

	pgxPool, err := db.NewPgxPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("error creating pgx pool: %w", err)
	}
	defer pgxPool.Close()

	dbClient := db.NewClient(pgxPool)
	userService := service.NewUserService(dbClient, repository.NewUserRepository(dbClient))

	user, err := userService.CreateUser(ctx, service.CreateUserParams{
		Username: opts.username,
		Password: opts.password,
		Role:     opts.role,
	})
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	logger.InfoContext(ctx, "user created",
		slog.Int64("id", user.ID),
		slog.String("username", user.Username),
		slog.String("role", user.Role),
	)

	return nil
}
