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

var accessRequestCols = []string{
	"id", "memorial_id", "requester_user_id", "requester_email", "requester_name",
	"message", "status", "created_on", "updated_on", "decided_by", "decided_on",
}

func TestAccessRequestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewAccessRequestRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		req := &domain.AccessRequest{
			MemorialID:     1,
			RequesterEmail: "viewer@test.com",
			RequesterName:  "Viewer",
			Message:        "old friend",
		}

		mock.ExpectQuery("INSERT INTO access_requests").
			WithArgs(req.MemorialID, req.RequesterUserID, req.RequesterEmail, req.RequesterName, req.Message,
				domain.AccessRequestStatusPending, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

		err := repo.Create(ctx, req)
		assert.NoError(t, err)
		assert.Equal(t, int32(42), req.ID)
		assert.Equal(t, domain.AccessRequestStatusPending, req.Status)
	})
}

func TestAccessRequestRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewAccessRequestRepository(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("Found", func(t *testing.T) {
		rows := sqlmock.NewRows(accessRequestCols).
			AddRow(5, 1, nil, "viewer@test.com", "Viewer", "", "PENDING", now, now, nil, nil)
		mock.ExpectQuery("SELECT (.+) FROM access_requests WHERE id").
			WithArgs(int32(5)).
			WillReturnRows(rows)

		req, err := repo.GetByID(ctx, 5)
		assert.NoError(t, err)
		assert.Equal(t, int32(5), req.ID)
		assert.Equal(t, domain.AccessRequestStatusPending, req.Status)
		assert.Nil(t, req.RequesterUserID)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM access_requests WHERE id").
			WithArgs(int32(99)).
			WillReturnRows(sqlmock.NewRows(accessRequestCols))

		req, err := repo.GetByID(ctx, 99)
		assert.Nil(t, req)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestAccessRequestRepository_FindLatest(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewAccessRequestRepository(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("ByUser found", func(t *testing.T) {
		userID := int32(9)
		rows := sqlmock.NewRows(accessRequestCols).
			AddRow(5, 1, userID, "viewer@test.com", "Viewer", "", "DECLINED", now, now, 7, now)
		mock.ExpectQuery("SELECT (.+) FROM access_requests").
			WithArgs(int32(1), userID).
			WillReturnRows(rows)

		req, err := repo.FindLatestByUser(ctx, 1, 9)
		assert.NoError(t, err)
		assert.Equal(t, domain.AccessRequestStatusDeclined, req.Status)
	})

	t.Run("ByUser no history returns nil without error", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM access_requests").
			WithArgs(int32(1), int32(10)).
			WillReturnRows(sqlmock.NewRows(accessRequestCols))

		req, err := repo.FindLatestByUser(ctx, 1, 10)
		assert.NoError(t, err)
		assert.Nil(t, req)
	})

	t.Run("ByEmail no history returns nil without error", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM access_requests").
			WithArgs(int32(1), "nobody@test.com").
			WillReturnRows(sqlmock.NewRows(accessRequestCols))

		req, err := repo.FindLatestByEmail(ctx, 1, "nobody@test.com")
		assert.NoError(t, err)
		assert.Nil(t, req)
	})
}

func TestAccessRequestRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewAccessRequestRepository(db)
	ctx := context.Background()

	ownerID := int32(7)
	now := time.Now()
	req := &domain.AccessRequest{
		ID:             5,
		MemorialID:     1,
		RequesterEmail: "viewer@test.com",
		RequesterName:  "Viewer",
		Status:         domain.AccessRequestStatusApproved,
		DecidedBy:      &ownerID,
		DecidedOn:      &now,
	}

	mock.ExpectExec("UPDATE access_requests SET").
		WithArgs(req.RequesterUserID, req.RequesterEmail, req.RequesterName, req.Message,
			req.Status, sqlmock.AnyArg(), req.DecidedBy, req.DecidedOn, req.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Update(ctx, req)
	assert.NoError(t, err)
}

func TestAccessRequestRepository_ListPendingGroupedByOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewAccessRequestRepository(db)
	ctx := context.Background()
	now := time.Now()

	cols := append([]string{"created_by"}, accessRequestCols...)
	rows := sqlmock.NewRows(cols).
		AddRow(7, 5, 1, nil, "a@test.com", "A", "", "PENDING", now, now, nil, nil).
		AddRow(7, 6, 2, nil, "b@test.com", "B", "", "PENDING", now, now, nil, nil).
		AddRow(8, 9, 3, nil, "c@test.com", "C", "", "PENDING", now, now, nil, nil)

	mock.ExpectQuery("SELECT m.created_by, (.+) FROM access_requests ar").
		WillReturnRows(rows)

	byOwner, err := repo.ListPendingGroupedByOwner(ctx)
	assert.NoError(t, err)
	assert.Len(t, byOwner, 2)
	assert.Len(t, byOwner[7], 2)
	assert.Len(t, byOwner[8], 1)
	assert.Equal(t, int32(9), byOwner[8][0].ID)
}
