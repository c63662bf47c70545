package repository

import (
	"context"
	"time"

	"everkeep-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type MemorialRepository interface {
	Create(ctx context.Context, m *domain.Memorial) error
	GetByID(ctx context.Context, id int32) (*domain.Memorial, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Memorial, error)
	Update(ctx context.Context, m *domain.Memorial) error
	SoftDelete(ctx context.Context, id int32) error
	ListByOwner(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Memorial, int32, error)

	// Photo management (unified pending + confirmed)
	CreatePhoto(ctx context.Context, photo *domain.MemorialPhoto) error
	GetPhotoByID(ctx context.Context, photoID int32) (*domain.MemorialPhoto, error)
	ListPhotos(ctx context.Context, memorialID int32) ([]domain.MemorialPhoto, error)
	ConfirmPhoto(ctx context.Context, photoID int32) error
	SetPrimaryPhoto(ctx context.Context, memorialID, photoID int32) error
	DeletePhoto(ctx context.Context, photoID int32) error
	DeleteExpiredPendingPhotos(ctx context.Context, olderThan time.Time) (int64, error)
}

type CollaboratorRepository interface {
	Add(ctx context.Context, c *domain.Collaborator) error
	Get(ctx context.Context, memorialID, userID int32) (*domain.Collaborator, error)
	Exists(ctx context.Context, memorialID, userID int32) (bool, error)
	ListByMemorial(ctx context.Context, memorialID int32) ([]domain.Collaborator, error)
	Remove(ctx context.Context, memorialID, userID int32) error
}

type AccessRequestRepository interface {
	Create(ctx context.Context, req *domain.AccessRequest) error
	GetByID(ctx context.Context, id int32) (*domain.AccessRequest, error)
	Update(ctx context.Context, req *domain.AccessRequest) error
	// FindLatestByUser and FindLatestByEmail return the most recent request by
	// created_on, or nil when the requester has no history for this memorial.
	FindLatestByUser(ctx context.Context, memorialID, userID int32) (*domain.AccessRequest, error)
	FindLatestByEmail(ctx context.Context, memorialID int32, email string) (*domain.AccessRequest, error)
	ListByMemorial(ctx context.Context, memorialID int32) ([]domain.AccessRequest, error)
	ListPendingGroupedByOwner(ctx context.Context) (map[int32][]domain.AccessRequest, error)
}

type InvitationRepository interface {
	Create(ctx context.Context, inv *domain.CollaboratorInvitation) error
	GetByCode(ctx context.Context, code string) (*domain.CollaboratorInvitation, error)
	Update(ctx context.Context, inv *domain.CollaboratorInvitation) error
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
}
