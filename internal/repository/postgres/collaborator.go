package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"everkeep-backend/internal/domain"
	"everkeep-backend/internal/repository"
)

type collaboratorRepository struct {
	db *sql.DB
}

func NewCollaboratorRepository(db *sql.DB) repository.CollaboratorRepository {
	return &collaboratorRepository{db: db}
}

func (r *collaboratorRepository) Add(ctx context.Context, c *domain.Collaborator) error {
	query := `INSERT INTO collaborators (memorial_id, user_id, role, added_on)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (memorial_id, user_id) DO UPDATE SET role = EXCLUDED.role`
	c.AddedOn = time.Now()
	_, err := r.db.ExecContext(ctx, query, c.MemorialID, c.UserID, c.Role, c.AddedOn)
	return err
}

func (r *collaboratorRepository) Get(ctx context.Context, memorialID, userID int32) (*domain.Collaborator, error) {
	c := &domain.Collaborator{}
	query := `SELECT memorial_id, user_id, role, added_on FROM collaborators WHERE memorial_id = $1 AND user_id = $2`
	err := r.db.QueryRowContext(ctx, query, memorialID, userID).Scan(&c.MemorialID, &c.UserID, &c.Role, &c.AddedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *collaboratorRepository) Exists(ctx context.Context, memorialID, userID int32) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM collaborators WHERE memorial_id = $1 AND user_id = $2)`
	err := r.db.QueryRowContext(ctx, query, memorialID, userID).Scan(&exists)
	return exists, err
}

func (r *collaboratorRepository) ListByMemorial(ctx context.Context, memorialID int32) ([]domain.Collaborator, error) {
	query := `SELECT memorial_id, user_id, role, added_on FROM collaborators WHERE memorial_id = $1 ORDER BY added_on ASC`
	rows, err := r.db.QueryContext(ctx, query, memorialID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var collaborators []domain.Collaborator
	for rows.Next() {
		var c domain.Collaborator
		if err := rows.Scan(&c.MemorialID, &c.UserID, &c.Role, &c.AddedOn); err != nil {
			return nil, err
		}
		collaborators = append(collaborators, c)
	}
	return collaborators, rows.Err()
}

func (r *collaboratorRepository) Remove(ctx context.Context, memorialID, userID int32) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM collaborators WHERE memorial_id = $1 AND user_id = $2`, memorialID, userID)
	return err
}
