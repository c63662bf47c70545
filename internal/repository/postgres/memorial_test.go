package postgres_test

import (
	"context"
	"testing"
	"time"

	"everkeep-backend/internal/domain"
	"everkeep-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

var memorialCols = []string{
	"id", "slug", "title", "epitaph", "biography", "born_on", "passed_on",
	"created_by", "is_public", "status", "created_on", "updated_on",
}

func TestMemorialRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewMemorialRepository(db)
	ctx := context.Background()

	m := &domain.Memorial{
		Slug:      "jane-doe-a1b2c3d4",
		Title:     "Jane Doe",
		CreatedBy: 7,
	}

	mock.ExpectQuery("INSERT INTO memorials").
		WithArgs(m.Slug, m.Title, m.Epitaph, m.Biography, m.BornOn, m.PassedOn, m.CreatedBy,
			m.IsPublic, domain.MemorialStatusActive, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	err = repo.Create(ctx, m)
	assert.NoError(t, err)
	assert.Equal(t, int32(1), m.ID)
}

func TestMemorialRepository_GetBySlug(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewMemorialRepository(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("Found", func(t *testing.T) {
		rows := sqlmock.NewRows(memorialCols).
			AddRow(1, "jane-doe-a1b2c3d4", "Jane Doe", "", "", nil, nil, 7, false, "ACTIVE", now, now)
		mock.ExpectQuery("SELECT (.+) FROM memorials WHERE slug").
			WithArgs("jane-doe-a1b2c3d4").
			WillReturnRows(rows)

		m, err := repo.GetBySlug(ctx, "jane-doe-a1b2c3d4")
		assert.NoError(t, err)
		assert.Equal(t, "Jane Doe", m.Title)
		assert.Equal(t, domain.MemorialStatusActive, m.Status)
	})

	t.Run("DeletedLooksGone", func(t *testing.T) {
		// Query filters DELETED rows; zero rows means not found.
		mock.ExpectQuery("SELECT (.+) FROM memorials WHERE slug").
			WithArgs("deleted-page").
			WillReturnRows(sqlmock.NewRows(memorialCols))

		m, err := repo.GetBySlug(ctx, "deleted-page")
		assert.Nil(t, m)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestMemorialRepository_SoftDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewMemorialRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE memorials SET status = 'DELETED'").
			WithArgs(sqlmock.AnyArg(), int32(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.SoftDelete(ctx, 1))
	})

	t.Run("AlreadyDeleted", func(t *testing.T) {
		mock.ExpectExec("UPDATE memorials SET status = 'DELETED'").
			WithArgs(sqlmock.AnyArg(), int32(2)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.SoftDelete(ctx, 2), domain.ErrNotFound)
	})
}

func TestMemorialRepository_SetPrimaryPhoto(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewMemorialRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE memorial_photos SET is_primary = FALSE").
			WithArgs(int32(1)).
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectExec("UPDATE memorial_photos SET is_primary = TRUE").
			WithArgs(int32(5), int32(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.SetPrimaryPhoto(ctx, 1, 5))
	})

	t.Run("PhotoNotInMemorial", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE memorial_photos SET is_primary = FALSE").
			WithArgs(int32(1)).
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectExec("UPDATE memorial_photos SET is_primary = TRUE").
			WithArgs(int32(99), int32(1)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		assert.ErrorIs(t, repo.SetPrimaryPhoto(ctx, 1, 99), domain.ErrNotFound)
	})
}

func TestMemorialRepository_DeleteExpiredPendingPhotos(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewMemorialRepository(db)
	ctx := context.Background()
	cutoff := time.Now().Add(-24 * time.Hour)

	mock.ExpectExec("DELETE FROM memorial_photos WHERE status = 'PENDING'").
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 4))

	deleted, err := repo.DeleteExpiredPendingPhotos(ctx, cutoff)
	assert.NoError(t, err)
	assert.Equal(t, int64(4), deleted)
}
