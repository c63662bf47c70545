package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"everkeep-backend/internal/domain"
	"everkeep-backend/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (email, password_hash, name, avatar_url, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	now := time.Now()
	u.CreatedOn = now
	u.UpdatedOn = now
	return r.db.QueryRowContext(ctx, query, u.Email, u.PasswordHash, u.Name, u.AvatarURL, u.CreatedOn, u.UpdatedOn).Scan(&u.ID)
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT id, email, password_hash, name, COALESCE(avatar_url, ''), created_on, updated_on FROM users WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.AvatarURL, &u.CreatedOn, &u.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT id, email, password_hash, name, COALESCE(avatar_url, ''), created_on, updated_on FROM users WHERE LOWER(email) = LOWER($1)`
	err := r.db.QueryRowContext(ctx, query, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.AvatarURL, &u.CreatedOn, &u.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET email=$1, name=$2, avatar_url=$3, updated_on=$4 WHERE id=$5`
	u.UpdatedOn = time.Now()
	_, err := r.db.ExecContext(ctx, query, u.Email, u.Name, u.AvatarURL, u.UpdatedOn, u.ID)
	return err
}
