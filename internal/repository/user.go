package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tuanvumaihuynh/bizdesk/internal/model"
	"github.com/tuanvumaihuynh/bizdesk/internal/storage/db"
)

type UserRepository interface {
	WithDB(db db.DB) UserRepository
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id int64) (model.User, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
	CreateUser(ctx context.Context, user model.User) (model.User, error)
	UpdateUser(ctx context.Context, user model.User) (model.User, error)
	DeleteUser(ctx context.Context, id int64) error
	CountUsersByRole(ctx context.Context, role string) (int, error)
}

const userColumns = `id, username, password, role`

type userRow struct {
	ID       int64  `db:"id"`
	Username string `db:"username"`
	Password string `db:"password"`
	Role     string `db:"role"`
}

func (r userRow) toModel() model.User {
	return model.User{
		ID:           r.ID,
		Username:     r.Username,
		PasswordHash: r.Password,
		Role:         r.Role,
	}
}

type userRepository struct {
	db db.DB
}

func NewUserRepository(db db.DB) UserRepository {
	return &userRepository{db: db}
}

func (r userRepository) WithDB(db db.DB) UserRepository {
	return &userRepository{db: db}
}

func (r userRepository) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}

	userRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[userRow])
	if err != nil {
		return nil, fmt.Errorf("collect users: %w", err)
	}

	users := make([]model.User, 0, len(userRows))
	for _, row := range userRows {
		users = append(users, row.toModel())
	}

	return users, nil
}

func (r userRepository) GetUser(ctx context.Context, id int64) (model.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return model.User{}, fmt.Errorf("query user: %w", err)
	}

	return collectUser(rows)
}

func (r userRepository) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users WHERE username = @username`,
		pgx.NamedArgs{"username": username})
	if err != nil {
		return model.User{}, fmt.Errorf("query user: %w", err)
	}

	return collectUser(rows)
}

func (r userRepository) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	rows, err := r.db.Query(ctx, `
		INSERT INTO users (username, password, role)
		VALUES (@username, @password, @role)
		RETURNING `+userColumns, userArgs(user))
	if err != nil {
		return model.User{}, fmt.Errorf("insert user: %w", err)
	}

	return collectUser(rows)
}

func (r userRepository) UpdateUser(ctx context.Context, user model.User) (model.User, error) {
	rows, err := r.db.Query(ctx, `
		UPDATE users
		SET
			username = @username,
			password = @password,
			role     = @role
		WHERE id = @id
		RETURNING `+userColumns, userArgs(user))
	if err != nil {
		return model.User{}, fmt.Errorf("update user: %w", err)
	}

	return collectUser(rows)
}

func (r userRepository) DeleteUser(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}

	return nil
}

func (r userRepository) CountUsersByRole(ctx context.Context, role string) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = @role`,
		pgx.NamedArgs{"role": role}).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}

	return n, nil
}

func collectUser(rows pgx.Rows) (model.User, error) {
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[userRow])
	if err != nil {
		if db.IsNoRows(err) {
			return model.User{}, db.ErrNotFound
		}
		return model.User{}, fmt.Errorf("collect user: %w", err)
	}

	return row.toModel(), nil
}

func userArgs(u model.User) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":       u.ID,
		"username": u.Username,
		"password": u.PasswordHash,
		"role":     u.Role,
	}
}
