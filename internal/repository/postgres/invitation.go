package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"everkeep-backend/internal/domain"
	"everkeep-backend/internal/repository"
)

type invitationRepository struct {
	db *sql.DB
}

func NewInvitationRepository(db *sql.DB) repository.InvitationRepository {
	return &invitationRepository{db: db}
}

func (r *invitationRepository) Create(ctx context.Context, inv *domain.CollaboratorInvitation) error {
	query := `INSERT INTO collaborator_invitations (code, memorial_id, email, role, created_by, expires_on, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	inv.CreatedOn = time.Now()
	return r.db.QueryRowContext(ctx, query, inv.Code, inv.MemorialID, inv.Email, inv.Role, inv.CreatedBy, inv.ExpiresOn, inv.CreatedOn).Scan(&inv.ID)
}

func (r *invitationRepository) GetByCode(ctx context.Context, code string) (*domain.CollaboratorInvitation, error) {
	inv := &domain.CollaboratorInvitation{}
	query := `SELECT id, code, memorial_id, email, role, created_by, expires_on, used_on, used_by_user_id, created_on
	          FROM collaborator_invitations WHERE code = $1`
	err := r.db.QueryRowContext(ctx, query, code).Scan(&inv.ID, &inv.Code, &inv.MemorialID, &inv.Email, &inv.Role, &inv.CreatedBy, &inv.ExpiresOn, &inv.UsedOn, &inv.UsedByUserID, &inv.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *invitationRepository) Update(ctx context.Context, inv *domain.CollaboratorInvitation) error {
	query := `UPDATE collaborator_invitations SET used_on = $1, used_by_user_id = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, inv.UsedOn, inv.UsedByUserID, inv.ID)
	return err
}
