package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"everkeep-backend/internal/domain"
	"everkeep-backend/internal/repository"
)

type accessRequestRepository struct {
	db *sql.DB
}

func NewAccessRequestRepository(db *sql.DB) repository.AccessRequestRepository {
	return &accessRequestRepository{db: db}
}

const accessRequestColumns = `id, memorial_id, requester_user_id, requester_email, requester_name, COALESCE(message, ''), status, created_on, updated_on, decided_by, decided_on`

func (r *accessRequestRepository) Create(ctx context.Context, req *domain.AccessRequest) error {
	query := `INSERT INTO access_requests (memorial_id, requester_user_id, requester_email, requester_name, message, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	now := time.Now()
	req.CreatedOn = now
	req.UpdatedOn = now
	if req.Status == "" {
		req.Status = domain.AccessRequestStatusPending
	}
	return r.db.QueryRowContext(ctx, query, req.MemorialID, req.RequesterUserID, req.RequesterEmail, req.RequesterName, req.Message, req.Status, req.CreatedOn, req.UpdatedOn).Scan(&req.ID)
}

func scanAccessRequest(row *sql.Row) (*domain.AccessRequest, error) {
	req := &domain.AccessRequest{}
	err := row.Scan(&req.ID, &req.MemorialID, &req.RequesterUserID, &req.RequesterEmail, &req.RequesterName, &req.Message, &req.Status, &req.CreatedOn, &req.UpdatedOn, &req.DecidedBy, &req.DecidedOn)
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (r *accessRequestRepository) GetByID(ctx context.Context, id int32) (*domain.AccessRequest, error) {
	query := `SELECT ` + accessRequestColumns + ` FROM access_requests WHERE id = $1`
	req, err := scanAccessRequest(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return req, err
}

func (r *accessRequestRepository) Update(ctx context.Context, req *domain.AccessRequest) error {
	query := `UPDATE access_requests SET requester_user_id=$1, requester_email=$2, requester_name=$3, message=$4, status=$5, updated_on=$6, decided_by=$7, decided_on=$8 WHERE id=$9`
	req.UpdatedOn = time.Now()
	_, err := r.db.ExecContext(ctx, query, req.RequesterUserID, req.RequesterEmail, req.RequesterName, req.Message, req.Status, req.UpdatedOn, req.DecidedBy, req.DecidedOn, req.ID)
	return err
}

func (r *accessRequestRepository) FindLatestByUser(ctx context.Context, memorialID, userID int32) (*domain.AccessRequest, error) {
	query := `SELECT ` + accessRequestColumns + ` FROM access_requests
	          WHERE memorial_id = $1 AND requester_user_id = $2 ORDER BY created_on DESC LIMIT 1`
	req, err := scanAccessRequest(r.db.QueryRowContext(ctx, query, memorialID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return req, err
}

func (r *accessRequestRepository) FindLatestByEmail(ctx context.Context, memorialID int32, email string) (*domain.AccessRequest, error) {
	query := `SELECT ` + accessRequestColumns + ` FROM access_requests
	          WHERE memorial_id = $1 AND LOWER(requester_email) = LOWER($2) ORDER BY created_on DESC LIMIT 1`
	req, err := scanAccessRequest(r.db.QueryRowContext(ctx, query, memorialID, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return req, err
}

func (r *accessRequestRepository) ListByMemorial(ctx context.Context, memorialID int32) ([]domain.AccessRequest, error) {
	query := `SELECT ` + accessRequestColumns + ` FROM access_requests WHERE memorial_id = $1 ORDER BY created_on DESC`
	rows, err := r.db.QueryContext(ctx, query, memorialID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []domain.AccessRequest
	for rows.Next() {
		var req domain.AccessRequest
		if err := rows.Scan(&req.ID, &req.MemorialID, &req.RequesterUserID, &req.RequesterEmail, &req.RequesterName, &req.Message, &req.Status, &req.CreatedOn, &req.UpdatedOn, &req.DecidedBy, &req.DecidedOn); err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

// ListPendingGroupedByOwner feeds the daily digest job: every pending request
// on a live memorial, keyed by the memorial's owner.
func (r *accessRequestRepository) ListPendingGroupedByOwner(ctx context.Context) (map[int32][]domain.AccessRequest, error) {
	query := `SELECT m.created_by, ` + qualifiedAccessRequestColumns("ar") + `
	          FROM access_requests ar
	          JOIN memorials m ON ar.memorial_id = m.id
	          WHERE ar.status = 'PENDING' AND m.status != 'DELETED'
	          ORDER BY m.created_by, ar.created_on DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byOwner := make(map[int32][]domain.AccessRequest)
	for rows.Next() {
		var ownerID int32
		var req domain.AccessRequest
		if err := rows.Scan(&ownerID, &req.ID, &req.MemorialID, &req.RequesterUserID, &req.RequesterEmail, &req.RequesterName, &req.Message, &req.Status, &req.CreatedOn, &req.UpdatedOn, &req.DecidedBy, &req.DecidedOn); err != nil {
			return nil, err
		}
		byOwner[ownerID] = append(byOwner[ownerID], req)
	}
	return byOwner, rows.Err()
}

func qualifiedAccessRequestColumns(alias string) string {
	return alias + `.id, ` + alias + `.memorial_id, ` + alias + `.requester_user_id, ` + alias + `.requester_email, ` + alias + `.requester_name, COALESCE(` + alias + `.message, ''), ` + alias + `.status, ` + alias + `.created_on, ` + alias + `.updated_on, ` + alias + `.decided_by, ` + alias + `.decided_on`
}
