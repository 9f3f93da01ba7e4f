package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"communityticketing/internal/domain"
)

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (email, name, last_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		user.Email, user.Name, user.LastName, user.CreatedAt, user.UpdatedAt).
		Scan(&user.ID)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, email, name, last_name, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	return r.scanUser(r.DB.QueryRowContext(ctx, query, strings.ToLower(email)))
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT id, email, name, last_name, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return r.scanUser(r.DB.QueryRowContext(ctx, query, id))
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET name = $2, last_name = $3, updated_at = $4
		WHERE id = $1
	`
	res, err := r.DB.ExecContext(ctx, query, user.ID, user.Name, user.LastName, user.UpdatedAt)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepository) scanUser(row *sql.Row) (*domain.User, error) {
	user := &domain.User{}
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.LastName, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

type loginCodeRepository struct {
	DB *sql.DB
}

// NewLoginCodeRepository returns a domain.LoginCodeRepository implemented with Postgres.
func NewLoginCodeRepository(db *sql.DB) domain.LoginCodeRepository {
	return &loginCodeRepository{DB: db}
}

func (r *loginCodeRepository) Create(ctx context.Context, email, salt, codeHash string, expiresAt time.Time) error {
	query := `
		INSERT INTO login_codes (email, salt, code_hash, expires_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.DB.ExecContext(ctx, query, email, salt, codeHash, expiresAt)
	return err
}

func (r *loginCodeRepository) Get(ctx context.Context, email string) (string, string, string, error) {
	query := `
		SELECT id, salt, code_hash
		FROM login_codes
		WHERE email = $1 AND expires_at > NOW()
		ORDER BY expires_at DESC
		LIMIT 1
	`
	var id, salt, codeHash string
	err := r.DB.QueryRowContext(ctx, query, email).Scan(&id, &salt, &codeHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", "", domain.ErrNotFound
		}
		return "", "", "", err
	}
	return id, salt, codeHash, nil
}

func (r *loginCodeRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM login_codes WHERE id = $1`, id)
	return err
}
