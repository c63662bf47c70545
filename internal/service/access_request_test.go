package service_test

import (
	"context"
	"testing"

	"everkeep-backend/internal/domain"
	"everkeep-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type requestFixture struct {
	memorialRepo *MockMemorialRepo
	collabRepo   *MockCollaboratorRepo
	requestRepo  *MockAccessRequestRepo
	userRepo     *MockUserRepo
	noteRepo     *MockNotificationRepo
	emailSvc     *MockEmailService
	svc          service.AccessRequestService
}

func newRequestFixture() *requestFixture {
	f := &requestFixture{
		memorialRepo: new(MockMemorialRepo),
		collabRepo:   new(MockCollaboratorRepo),
		requestRepo:  new(MockAccessRequestRepo),
		userRepo:     new(MockUserRepo),
		noteRepo:     new(MockNotificationRepo),
		emailSvc:     new(MockEmailService),
	}
	f.svc = service.NewAccessRequestService(
		f.memorialRepo, f.collabRepo, f.requestRepo, f.userRepo, f.noteRepo, f.emailSvc,
	)
	return f
}

func (f *requestFixture) expectOwnerNotified(ctx context.Context, owner *domain.User) {
	f.userRepo.On("GetByID", ctx, owner.ID).Return(owner, nil)
	f.emailSvc.On("SendAccessRequestNotification", ctx, owner.Email, owner.Name, mock.Anything, mock.Anything).Return(nil)
	f.noteRepo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)
}

func TestSubmitRequest_ShortCircuits(t *testing.T) {
	ctx := context.Background()

	t.Run("public memorial needs no request", func(t *testing.T) {
		f := newRequestFixture()
		f.memorialRepo.On("GetByID", ctx, int32(1)).Return(&domain.Memorial{ID: 1, CreatedBy: 7, IsPublic: true}, nil)

		res, err := f.svc.SubmitRequest(ctx, 1, int32Ptr(9), "", "", "")
		assert.NoError(t, err)
		assert.Equal(t, "public", res.Status)
		assert.True(t, res.CanView)
		f.requestRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("owner needs no request", func(t *testing.T) {
		f := newRequestFixture()
		f.memorialRepo.On("GetByID", ctx, int32(1)).Return(&domain.Memorial{ID: 1, CreatedBy: 7, IsPublic: false}, nil)

		res, err := f.svc.SubmitRequest(ctx, 1, int32Ptr(7), "", "", "")
		assert.NoError(t, err)
		assert.Equal(t, "owner", res.Status)
		assert.True(t, res.CanView)
	})

	t.Run("collaborator needs no request", func(t *testing.T) {
		f := newRequestFixture()
		f.memorialRepo.On("GetByID", ctx, int32(1)).Return(&domain.Memorial{ID: 1, CreatedBy: 7, IsPublic: false}, nil)
		f.collabRepo.On("Exists", ctx, int32(1), int32(9)).Return(true, nil)

		res, err := f.svc.SubmitRequest(ctx, 1, int32Ptr(9), "", "", "")
		assert.NoError(t, err)
		assert.Equal(t, "collaborator", res.Status)
		assert.True(t, res.CanView)
	})
}

func TestSubmitRequest_CreatesNewPendingRequest(t *testing.T) {
	f := newRequestFixture()
	ctx := context.Background()

	m := &domain.Memorial{ID: 1, CreatedBy: 7, Title: "Jane Doe", IsPublic: false}
	requester := &domain.User{ID: 9, Email: "viewer@test.com", Name: "Viewer"}
	owner := &domain.User{ID: 7, Email: "owner@test.com", Name: "Owner"}

	f.memorialRepo.On("GetByID", ctx, int32(1)).Return(m, nil)
	f.collabRepo.On("Exists", ctx, int32(1), int32(9)).Return(false, nil)
	f.userRepo.On("GetByID", ctx, int32(9)).Return(requester, nil)
	f.requestRepo.On("FindLatestByUser", ctx, int32(1), int32(9)).Return(nil, nil)
	f.requestRepo.On("FindLatestByEmail", ctx, int32(1), "viewer@test.com").Return(nil, nil)
	f.requestRepo.On("Create", ctx, mock.MatchedBy(func(req *domain.AccessRequest) bool {
		return req.MemorialID == 1 &&
			req.Status == domain.AccessRequestStatusPending &&
			req.RequesterEmail == "viewer@test.com" &&
			req.RequesterName == "Viewer" &&
			req.Message == "old friend"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.AccessRequest).ID = 42
	}).Return(nil)
	f.expectOwnerNotified(ctx, owner)

	res, err := f.svc.SubmitRequest(ctx, 1, int32Ptr(9), "", "", "old friend")
	assert.NoError(t, err)
	assert.Equal(t, "pending", res.Status)
	assert.Equal(t, int32(42), res.RequestID)
	assert.False(t, res.Already)
	assert.False(t, res.CanView)
	f.requestRepo.AssertExpectations(t)
}

func TestSubmitRequest_AnonymousRequiresEmail(t *testing.T) {
	f := newRequestFixture()
	ctx := context.Background()

	f.memorialRepo.On("GetByID", ctx, int32(1)).Return(&domain.Memorial{ID: 1, CreatedBy: 7, IsPublic: false}, nil)

	_, err := f.svc.SubmitRequest(ctx, 1, nil, "   ", "Someone", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "email is required")
}

func TestSubmitRequest_Dedupe(t *testing.T) {
	ctx := context.Background()
	m := &domain.Memorial{ID: 1, CreatedBy: 7, Title: "Jane Doe", IsPublic: false}

	t.Run("pending request is idempotent", func(t *testing.T) {
		f := newRequestFixture()
		existing := &domain.AccessRequest{ID: 5, MemorialID: 1, Status: domain.AccessRequestStatusPending}
		f.memorialRepo.On("GetByID", ctx, int32(1)).Return(m, nil)
		f.requestRepo.On("FindLatestByEmail", ctx, int32(1), "viewer@test.com").Return(existing, nil)

		res, err := f.svc.SubmitRequest(ctx, 1, nil, "viewer@test.com", "Viewer", "")
		assert.NoError(t, err)
		assert.Equal(t, "pending", res.Status)
		assert.Equal(t, int32(5), res.RequestID)
		assert.True(t, res.Already)
		f.requestRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.requestRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("approved request reports immediate access", func(t *testing.T) {
		f := newRequestFixture()
		existing := &domain.AccessRequest{ID: 5, MemorialID: 1, Status: domain.AccessRequestStatusApproved}
		f.memorialRepo.On("GetByID", ctx, int32(1)).Return(m, nil)
		f.requestRepo.On("FindLatestByEmail", ctx, int32(1), "viewer@test.com").Return(existing, nil)

		res, err := f.svc.SubmitRequest(ctx, 1, nil, "viewer@test.com", "Viewer", "")
		assert.NoError(t, err)
		assert.Equal(t, "approved", res.Status)
		assert.True(t, res.Already)
		assert.True(t, res.CanView)
		f.requestRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestSubmitRequest_ResurrectsDeclinedRequest(t *testing.T) {
	f := newRequestFixture()
	ctx := context.Background()

	m := &domain.Memorial{ID: 1, CreatedBy: 7, Title: "Jane Doe", IsPublic: false}
	owner := &domain.User{ID: 7, Email: "owner@test.com", Name: "Owner"}
	requester := &domain.User{ID: 9, Email: "viewer@test.com", Name: "Viewer"}
	decidedBy := int32(7)
	existing := &domain.AccessRequest{
		ID:             5,
		MemorialID:     1,
		RequesterEmail: "viewer@test.com",
		RequesterName:  "Viewer",
		Message:        "first try",
		Status:         domain.AccessRequestStatusDeclined,
		DecidedBy:      &decidedBy,
	}

	f.memorialRepo.On("GetByID", ctx, int32(1)).Return(m, nil)
	f.collabRepo.On("Exists", ctx, int32(1), int32(9)).Return(false, nil)
	f.userRepo.On("GetByID", ctx, int32(9)).Return(requester, nil)
	// The previously anonymous row is found by email and claimed by the account.
	f.requestRepo.On("FindLatestByUser", ctx, int32(1), int32(9)).Return(nil, nil)
	f.requestRepo.On("FindLatestByEmail", ctx, int32(1), "viewer@test.com").Return(existing, nil)
	f.requestRepo.On("Update", ctx, mock.MatchedBy(func(req *domain.AccessRequest) bool {
		return req.ID == 5 &&
			req.Status == domain.AccessRequestStatusPending &&
			req.Message == "second try" &&
			req.RequesterUserID != nil && *req.RequesterUserID == 9 &&
			req.DecidedBy == nil && req.DecidedOn == nil
	})).Return(nil)
	f.expectOwnerNotified(ctx, owner)

	res, err := f.svc.SubmitRequest(ctx, 1, int32Ptr(9), "", "", "second try")
	assert.NoError(t, err)
	assert.Equal(t, "pending", res.Status)
	assert.Equal(t, int32(5), res.RequestID)
	assert.True(t, res.Already)
	f.requestRepo.AssertExpectations(t)
	f.requestRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestListRequests_OwnerOnly(t *testing.T) {
	ctx := context.Background()
	m := &domain.Memorial{ID: 1, CreatedBy: 7, IsPublic: false}

	t.Run("owner lists requests", func(t *testing.T) {
		f := newRequestFixture()
		f.memorialRepo.On("GetByID", ctx, int32(1)).Return(m, nil)
		f.requestRepo.On("ListByMemorial", ctx, int32(1)).Return([]domain.AccessRequest{{ID: 5}}, nil)

		requests, err := f.svc.ListRequests(ctx, 1, 7)
		assert.NoError(t, err)
		assert.Len(t, requests, 1)
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		f := newRequestFixture()
		f.memorialRepo.On("GetByID", ctx, int32(1)).Return(m, nil)

		_, err := f.svc.ListRequests(ctx, 1, 9)
		assert.ErrorIs(t, err, domain.ErrPermissionDenied)
		assert.Contains(t, err.Error(), "ownership required")
	})
}

func TestDecideRequest(t *testing.T) {
	ctx := context.Background()
	m := &domain.Memorial{ID: 1, CreatedBy: 7, Title: "Jane Doe", IsPublic: false}

	t.Run("owner approves pending request", func(t *testing.T) {
		f := newRequestFixture()
		requesterID := int32(9)
		pending := &domain.AccessRequest{
			ID:              5,
			MemorialID:      1,
			RequesterUserID: &requesterID,
			RequesterEmail:  "viewer@test.com",
			RequesterName:   "Viewer",
			Status:          domain.AccessRequestStatusPending,
		}
		f.memorialRepo.On("GetByID", ctx, int32(1)).Return(m, nil)
		f.requestRepo.On("GetByID", ctx, int32(5)).Return(pending, nil)
		f.requestRepo.On("Update", ctx, mock.MatchedBy(func(req *domain.AccessRequest) bool {
			return req.Status == domain.AccessRequestStatusApproved &&
				req.DecidedBy != nil && *req.DecidedBy == 7 &&
				req.DecidedOn != nil
		})).Return(nil)
		f.emailSvc.On("SendAccessDecisionNotification", ctx, "viewer@test.com", "Viewer", "Jane Doe", true).Return(nil)
		f.noteRepo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)

		updated, err := f.svc.DecideRequest(ctx, 1, 7, 5, domain.AccessRequestStatusApproved)
		assert.NoError(t, err)
		assert.Equal(t, domain.AccessRequestStatusApproved, updated.Status)
		f.emailSvc.AssertExpectations(t)
	})

	t.Run("invalid decision value", func(t *testing.T) {
		f := newRequestFixture()
		_, err := f.svc.DecideRequest(ctx, 1, 7, 5, domain.AccessRequestStatusPending)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("non-owner cannot decide", func(t *testing.T) {
		f := newRequestFixture()
		f.memorialRepo.On("GetByID", ctx, int32(1)).Return(m, nil)

		_, err := f.svc.DecideRequest(ctx, 1, 9, 5, domain.AccessRequestStatusApproved)
		assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	})

	t.Run("request from another memorial is rejected", func(t *testing.T) {
		f := newRequestFixture()
		other := &domain.AccessRequest{ID: 5, MemorialID: 2, Status: domain.AccessRequestStatusPending}
		f.memorialRepo.On("GetByID", ctx, int32(1)).Return(m, nil)
		f.requestRepo.On("GetByID", ctx, int32(5)).Return(other, nil)

		_, err := f.svc.DecideRequest(ctx, 1, 7, 5, domain.AccessRequestStatusApproved)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("already decided request is rejected", func(t *testing.T) {
		f := newRequestFixture()
		declined := &domain.AccessRequest{ID: 5, MemorialID: 1, Status: domain.AccessRequestStatusDeclined}
		f.memorialRepo.On("GetByID", ctx, int32(1)).Return(m, nil)
		f.requestRepo.On("GetByID", ctx, int32(5)).Return(declined, nil)

		_, err := f.svc.DecideRequest(ctx, 1, 7, 5, domain.AccessRequestStatusApproved)
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Contains(t, err.Error(), "request is not pending")
	})

	t.Run("decision email failure does not fail the decision", func(t *testing.T) {
		f := newRequestFixture()
		pending := &domain.AccessRequest{
			ID:             5,
			MemorialID:     1,
			RequesterEmail: "viewer@test.com",
			RequesterName:  "Viewer",
			Status:         domain.AccessRequestStatusPending,
		}
		f.memorialRepo.On("GetByID", ctx, int32(1)).Return(m, nil)
		f.requestRepo.On("GetByID", ctx, int32(5)).Return(pending, nil)
		f.requestRepo.On("Update", ctx, mock.Anything).Return(nil)
		f.emailSvc.On("SendAccessDecisionNotification", ctx, "viewer@test.com", "Viewer", "Jane Doe", false).
			Return(assert.AnError)

		updated, err := f.svc.DecideRequest(ctx, 1, 7, 5, domain.AccessRequestStatusDeclined)
		assert.NoError(t, err)
		assert.Equal(t, domain.AccessRequestStatusDeclined, updated.Status)
	})
}
