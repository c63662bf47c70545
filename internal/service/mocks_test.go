package service_test

import (
	"context"
	"time"

	"everkeep-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockMemorialRepo
type MockMemorialRepo struct {
	mock.Mock
}

func (m *MockMemorialRepo) Create(ctx context.Context, memorial *domain.Memorial) error {
	args := m.Called(ctx, memorial)
	return args.Error(0)
}
func (m *MockMemorialRepo) GetByID(ctx context.Context, id int32) (*domain.Memorial, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Memorial), args.Error(1)
}
func (m *MockMemorialRepo) GetBySlug(ctx context.Context, slug string) (*domain.Memorial, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Memorial), args.Error(1)
}
func (m *MockMemorialRepo) Update(ctx context.Context, memorial *domain.Memorial) error {
	args := m.Called(ctx, memorial)
	return args.Error(0)
}
func (m *MockMemorialRepo) SoftDelete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockMemorialRepo) ListByOwner(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Memorial, int32, error) {
	args := m.Called(ctx, ownerID, page, pageSize)
	return args.Get(0).([]domain.Memorial), args.Get(1).(int32), args.Error(2)
}
func (m *MockMemorialRepo) CreatePhoto(ctx context.Context, photo *domain.MemorialPhoto) error {
	args := m.Called(ctx, photo)
	return args.Error(0)
}
func (m *MockMemorialRepo) GetPhotoByID(ctx context.Context, photoID int32) (*domain.MemorialPhoto, error) {
	args := m.Called(ctx, photoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MemorialPhoto), args.Error(1)
}
func (m *MockMemorialRepo) ListPhotos(ctx context.Context, memorialID int32) ([]domain.MemorialPhoto, error) {
	args := m.Called(ctx, memorialID)
	return args.Get(0).([]domain.MemorialPhoto), args.Error(1)
}
func (m *MockMemorialRepo) ConfirmPhoto(ctx context.Context, photoID int32) error {
	args := m.Called(ctx, photoID)
	return args.Error(0)
}
func (m *MockMemorialRepo) SetPrimaryPhoto(ctx context.Context, memorialID, photoID int32) error {
	args := m.Called(ctx, memorialID, photoID)
	return args.Error(0)
}
func (m *MockMemorialRepo) DeletePhoto(ctx context.Context, photoID int32) error {
	args := m.Called(ctx, photoID)
	return args.Error(0)
}
func (m *MockMemorialRepo) DeleteExpiredPendingPhotos(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

// MockCollaboratorRepo
type MockCollaboratorRepo struct {
	mock.Mock
}

func (m *MockCollaboratorRepo) Add(ctx context.Context, c *domain.Collaborator) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockCollaboratorRepo) Get(ctx context.Context, memorialID, userID int32) (*domain.Collaborator, error) {
	args := m.Called(ctx, memorialID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Collaborator), args.Error(1)
}
func (m *MockCollaboratorRepo) Exists(ctx context.Context, memorialID, userID int32) (bool, error) {
	args := m.Called(ctx, memorialID, userID)
	return args.Bool(0), args.Error(1)
}
func (m *MockCollaboratorRepo) ListByMemorial(ctx context.Context, memorialID int32) ([]domain.Collaborator, error) {
	args := m.Called(ctx, memorialID)
	return args.Get(0).([]domain.Collaborator), args.Error(1)
}
func (m *MockCollaboratorRepo) Remove(ctx context.Context, memorialID, userID int32) error {
	args := m.Called(ctx, memorialID, userID)
	return args.Error(0)
}

// MockAccessRequestRepo
type MockAccessRequestRepo struct {
	mock.Mock
}

func (m *MockAccessRequestRepo) Create(ctx context.Context, req *domain.AccessRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
func (m *MockAccessRequestRepo) GetByID(ctx context.Context, id int32) (*domain.AccessRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccessRequest), args.Error(1)
}
func (m *MockAccessRequestRepo) Update(ctx context.Context, req *domain.AccessRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
func (m *MockAccessRequestRepo) FindLatestByUser(ctx context.Context, memorialID, userID int32) (*domain.AccessRequest, error) {
	args := m.Called(ctx, memorialID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccessRequest), args.Error(1)
}
func (m *MockAccessRequestRepo) FindLatestByEmail(ctx context.Context, memorialID int32, email string) (*domain.AccessRequest, error) {
	args := m.Called(ctx, memorialID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccessRequest), args.Error(1)
}
func (m *MockAccessRequestRepo) ListByMemorial(ctx context.Context, memorialID int32) ([]domain.AccessRequest, error) {
	args := m.Called(ctx, memorialID)
	return args.Get(0).([]domain.AccessRequest), args.Error(1)
}
func (m *MockAccessRequestRepo) ListPendingGroupedByOwner(ctx context.Context) (map[int32][]domain.AccessRequest, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[int32][]domain.AccessRequest), args.Error(1)
}

// MockInvitationRepo
type MockInvitationRepo struct {
	mock.Mock
}

func (m *MockInvitationRepo) Create(ctx context.Context, inv *domain.CollaboratorInvitation) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}
func (m *MockInvitationRepo) GetByCode(ctx context.Context, code string) (*domain.CollaboratorInvitation, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CollaboratorInvitation), args.Error(1)
}
func (m *MockInvitationRepo) Update(ctx context.Context, inv *domain.CollaboratorInvitation) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int32) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendAccessRequestNotification(ctx context.Context, ownerEmail, ownerName, requesterName, memorialTitle string) error {
	args := m.Called(ctx, ownerEmail, ownerName, requesterName, memorialTitle)
	return args.Error(0)
}
func (m *MockEmailService) SendAccessDecisionNotification(ctx context.Context, requesterEmail, requesterName, memorialTitle string, approved bool) error {
	args := m.Called(ctx, requesterEmail, requesterName, memorialTitle, approved)
	return args.Error(0)
}
func (m *MockEmailService) SendCollaboratorInvitation(ctx context.Context, email, code, memorialTitle, inviterName string) error {
	args := m.Called(ctx, email, code, memorialTitle, inviterName)
	return args.Error(0)
}
func (m *MockEmailService) SendOwnerDigest(ctx context.Context, email, subject, body string) error {
	args := m.Called(ctx, email, subject, body)
	return args.Error(0)
}
