package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"everkeep-backend/internal/domain"
	"everkeep-backend/internal/repository"
)

type memorialRepository struct {
	db *sql.DB
}

func NewMemorialRepository(db *sql.DB) repository.MemorialRepository {
	return &memorialRepository{db: db}
}

const memorialColumns = `id, slug, title, COALESCE(epitaph, ''), COALESCE(biography, ''), born_on, passed_on, created_by, is_public, status, created_on, updated_on`

func (r *memorialRepository) Create(ctx context.Context, m *domain.Memorial) error {
	query := `INSERT INTO memorials (slug, title, epitaph, biography, born_on, passed_on, created_by, is_public, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	now := time.Now()
	m.CreatedOn = now
	m.UpdatedOn = now
	if m.Status == "" {
		m.Status = domain.MemorialStatusActive
	}
	return r.db.QueryRowContext(ctx, query, m.Slug, m.Title, m.Epitaph, m.Biography, m.BornOn, m.PassedOn, m.CreatedBy, m.IsPublic, m.Status, m.CreatedOn, m.UpdatedOn).Scan(&m.ID)
}

func (r *memorialRepository) scanMemorial(row *sql.Row) (*domain.Memorial, error) {
	m := &domain.Memorial{}
	err := row.Scan(&m.ID, &m.Slug, &m.Title, &m.Epitaph, &m.Biography, &m.BornOn, &m.PassedOn, &m.CreatedBy, &m.IsPublic, &m.Status, &m.CreatedOn, &m.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *memorialRepository) GetByID(ctx context.Context, id int32) (*domain.Memorial, error) {
	query := `SELECT ` + memorialColumns + ` FROM memorials WHERE id = $1 AND status != 'DELETED'`
	return r.scanMemorial(r.db.QueryRowContext(ctx, query, id))
}

func (r *memorialRepository) GetBySlug(ctx context.Context, slug string) (*domain.Memorial, error) {
	query := `SELECT ` + memorialColumns + ` FROM memorials WHERE slug = $1 AND status != 'DELETED'`
	return r.scanMemorial(r.db.QueryRowContext(ctx, query, slug))
}

func (r *memorialRepository) Update(ctx context.Context, m *domain.Memorial) error {
	query := `UPDATE memorials SET slug=$1, title=$2, epitaph=$3, biography=$4, born_on=$5, passed_on=$6, is_public=$7, status=$8, updated_on=$9 WHERE id=$10`
	m.UpdatedOn = time.Now()
	_, err := r.db.ExecContext(ctx, query, m.Slug, m.Title, m.Epitaph, m.Biography, m.BornOn, m.PassedOn, m.IsPublic, m.Status, m.UpdatedOn, m.ID)
	return err
}

func (r *memorialRepository) SoftDelete(ctx context.Context, id int32) error {
	query := `UPDATE memorials SET status = 'DELETED', updated_on = $1 WHERE id = $2 AND status != 'DELETED'`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *memorialRepository) ListByOwner(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Memorial, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	var count int32
	countQuery := `SELECT count(*) FROM memorials WHERE created_by = $1 AND status != 'DELETED'`
	if err := r.db.QueryRowContext(ctx, countQuery, ownerID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + memorialColumns + ` FROM memorials WHERE created_by = $1 AND status != 'DELETED' ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, ownerID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var memorials []domain.Memorial
	for rows.Next() {
		var m domain.Memorial
		if err := rows.Scan(&m.ID, &m.Slug, &m.Title, &m.Epitaph, &m.Biography, &m.BornOn, &m.PassedOn, &m.CreatedBy, &m.IsPublic, &m.Status, &m.CreatedOn, &m.UpdatedOn); err != nil {
			return nil, 0, err
		}
		memorials = append(memorials, m)
	}
	return memorials, count, rows.Err()
}

func (r *memorialRepository) CreatePhoto(ctx context.Context, p *domain.MemorialPhoto) error {
	query := `INSERT INTO memorial_photos (memorial_id, uploaded_by, storage_key, caption, is_primary, status, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	p.CreatedOn = time.Now()
	if p.Status == "" {
		p.Status = domain.PhotoStatusPending
	}
	return r.db.QueryRowContext(ctx, query, p.MemorialID, p.UploadedBy, p.StorageKey, p.Caption, p.IsPrimary, p.Status, p.CreatedOn).Scan(&p.ID)
}

func (r *memorialRepository) GetPhotoByID(ctx context.Context, photoID int32) (*domain.MemorialPhoto, error) {
	p := &domain.MemorialPhoto{}
	query := `SELECT id, memorial_id, uploaded_by, storage_key, COALESCE(caption, ''), is_primary, status, created_on
	          FROM memorial_photos WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, photoID).Scan(&p.ID, &p.MemorialID, &p.UploadedBy, &p.StorageKey, &p.Caption, &p.IsPrimary, &p.Status, &p.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *memorialRepository) ListPhotos(ctx context.Context, memorialID int32) ([]domain.MemorialPhoto, error) {
	query := `SELECT id, memorial_id, uploaded_by, storage_key, COALESCE(caption, ''), is_primary, status, created_on
	          FROM memorial_photos WHERE memorial_id = $1 AND status = 'CONFIRMED' ORDER BY is_primary DESC, created_on ASC`
	rows, err := r.db.QueryContext(ctx, query, memorialID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var photos []domain.MemorialPhoto
	for rows.Next() {
		var p domain.MemorialPhoto
		if err := rows.Scan(&p.ID, &p.MemorialID, &p.UploadedBy, &p.StorageKey, &p.Caption, &p.IsPrimary, &p.Status, &p.CreatedOn); err != nil {
			return nil, err
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}

func (r *memorialRepository) ConfirmPhoto(ctx context.Context, photoID int32) error {
	query := `UPDATE memorial_photos SET status = 'CONFIRMED' WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, photoID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *memorialRepository) SetPrimaryPhoto(ctx context.Context, memorialID, photoID int32) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE memorial_photos SET is_primary = FALSE WHERE memorial_id = $1`, memorialID); err != nil {
		return err
	}
	result, err := tx.ExecContext(ctx, `UPDATE memorial_photos SET is_primary = TRUE WHERE id = $1 AND memorial_id = $2`, photoID, memorialID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return tx.Commit()
}

func (r *memorialRepository) DeletePhoto(ctx context.Context, photoID int32) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM memorial_photos WHERE id = $1`, photoID)
	return err
}

func (r *memorialRepository) DeleteExpiredPendingPhotos(ctx context.Context, olderThan time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM memorial_photos WHERE status = 'PENDING' AND created_on < $1`, olderThan)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
