package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artem13815/skillverge/pkg/auth"
)

const pgUniqueViolation = "23505"

// Адреса хранятся уже нормализованными (auth.NormalizeEmail), CHECK не пускает иное.
const usersSchema = `
	CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		email TEXT NOT NULL UNIQUE CHECK (email = lower(btrim(email))),
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		is_admin BOOLEAN NOT NULL DEFAULT FALSE
	);
`

const selectUser = `
	SELECT id, email, password_hash, created_at, is_admin
	FROM users
`

// UserRepository хранит учётные записи кандидатов и администраторов (auth.UserRepository).
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) (*UserRepository, error) {
	repo := &UserRepository{pool: pool}
	if _, err := pool.Exec(context.Background(), usersSchema); err != nil {
		return nil, fmt.Errorf("ensure users schema: %w", err)
	}
	return repo, nil
}

func (r *UserRepository) Create(ctx context.Context, user auth.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, created_at, is_admin)
		VALUES ($1, $2, $3, $4, $5)
	`, user.ID, auth.NormalizeEmail(user.Email), user.PasswordHash, user.CreatedAt.UTC(), user.IsAdmin)
	if err != nil {
		if isUniqueViolation(err) {
			return auth.ErrUserAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (auth.User, error) {
	row := r.pool.QueryRow(ctx, selectUser+` WHERE email = $1`, auth.NormalizeEmail(email))
	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return auth.User{}, auth.ErrNotFound
	}
	return user, err
}

func scanUser(row pgx.Row) (auth.User, error) {
	var (
		user      auth.User
		createdAt time.Time
	)
	if err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &createdAt, &user.IsAdmin); err != nil {
		return auth.User{}, err
	}
	user.CreatedAt = createdAt.UTC()
	return user, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
