package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/tuanvumaihuynh/bizdesk/internal/apperr"
	"github.com/tuanvumaihuynh/bizdesk/internal/model"
	"github.com/tuanvumaihuynh/bizdesk/internal/repository"
	"github.com/tuanvumaihuynh/bizdesk/internal/storage/db"
)

type CreateUserParams struct {
	Username string
	Password string
	// Role defaults to model.RoleUser when empty.
	Role string
}

type UpdateUserParams struct {
	Username *string
	// Password is re-hashed only when set and non-empty.
	Password *string
	Role     *string
}

type UserService interface {
	Login(ctx context.Context, username, password string) (model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	CreateUser(ctx context.Context, params CreateUserParams) (model.User, error)
	UpdateUser(ctx context.Context, id int64, params UpdateUserParams) (model.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type userService struct {
	db         db.DB
	userRepo   repository.UserRepository
	bcryptCost int
}

func NewUserService(db db.DB, userRepo repository.UserRepository) UserService {
	return &userService{
		db:         db,
		userRepo:   userRepo,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// HashPassword hashes a plain text password with bcrypt.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash password: %w", err)
	}
	return string(hash), nil
}

func (s *userService) Login(ctx context.Context, username, password string) (model.User, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if errors.Is(err, db.ErrNotFound) {
		return model.User{}, apperr.InvalidCredentialsErr
	}
	if err != nil {
		return model.User{}, fmt.Errorf("user repository get user by username: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.User{}, apperr.InvalidCredentialsErr.WrapParent(err)
	}

	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("user repository list users: %w", err)
	}

	return users, nil
}

func (s *userService) CreateUser(ctx context.Context, params CreateUserParams) (model.User, error) {
	role := params.Role
	if role == "" {
		role = model.RoleUser
	}

	hash, err := HashPassword(params.Password, s.bcryptCost)
	if err != nil {
		return model.User{}, err
	}

	user, err := s.userRepo.CreateUser(ctx, model.User{
		Username:     params.Username,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		return model.User{}, userError(err, "user repository create user")
	}

	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, id int64, params UpdateUserParams) (model.User, error) {
	var updated model.User
	if err := s.db.WithTx(ctx, func(tx db.DB) error {
		repo := s.userRepo.WithDB(tx)

		user, err := repo.GetUser(ctx, id)
		if err != nil {
			return userError(err, "user repository get user")
		}

		if params.Username != nil && *params.Username != user.Username {
			other, err := repo.GetUserByUsername(ctx, *params.Username)
			switch {
			case err == nil && other.ID != user.ID:
				return apperr.UsernameTakenErr
			case err != nil && !errors.Is(err, db.ErrNotFound):
				return fmt.Errorf("user repository get user by username: %w", err)
			}
			user.Username = *params.Username
		}

		if params.Password != nil && *params.Password != "" {
			user.PasswordHash, err = HashPassword(*params.Password, s.bcryptCost)
			if err != nil {
				return err
			}
		}

		if params.Role != nil && *params.Role != user.Role {
			if user.IsAdmin() {
				if err := s.ensureOtherAdmin(ctx, repo); err != nil {
					return err
				}
			}
			user.Role = *params.Role
		}

		updated, err = repo.UpdateUser(ctx, user)
		if err != nil {
			return userError(err, "user repository update user")
		}

		return nil
	}); err != nil {
		return model.User{}, err
	}

	return updated, nil
}

func (s *userService) DeleteUser(ctx context.Context, id int64) error {
	return s.db.WithTx(ctx, func(tx db.DB) error {
		repo := s.userRepo.WithDB(tx)

		user, err := repo.GetUser(ctx, id)
		if err != nil {
			return userError(err, "user repository get user")
		}

		if user.IsAdmin() {
			if err := s.ensureOtherAdmin(ctx, repo); err != nil {
				return err
			}
		}

		if err := repo.DeleteUser(ctx, id); err != nil {
			return userError(err, "user repository delete user")
		}

		return nil
	})
}

// ensureOtherAdmin fails with LastAdminErr unless at least two admins exist.
func (s *userService) ensureOtherAdmin(ctx context.Context, repo repository.UserRepository) error {
	admins, err := repo.CountUsersByRole(ctx, model.RoleAdmin)
	if err != nil {
		return fmt.Errorf("user repository count admins: %w", err)
	}
	if admins <= 1 {
		return apperr.LastAdminErr
	}
	return nil
}

func userError(err error, op string) error {
	switch {
	case errors.Is(err, db.ErrNotFound):
		return apperr.UserNotFoundErr.WrapParent(err)
	case db.IsUniqueViolation(err):
		return apperr.UsernameTakenErr.WrapParent(err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
