package service

import (
	"context"

	"everkeep-backend/internal/domain"
)

type AuthService interface {
	Signup(ctx context.Context, name, email, password string) (*domain.User, string, string, error)
	Login(ctx context.Context, email, password string) (string, string, error)
	RefreshToken(ctx context.Context, refresh string) (string, string, error)
	Logout(ctx context.Context, refresh string) error
}

// AccessService answers "may this viewer see this memorial" without mutating
// anything. Decisions are recomputed on every call.
type AccessService interface {
	EvaluateAccess(ctx context.Context, memorialID int32, viewerID *int32) (*domain.AccessDecision, error)
	EvaluateAccessBySlug(ctx context.Context, slug string, viewerID *int32) (*domain.AccessDecision, error)
}

// AccessRequestService owns the pending/approved/declined state machine for
// private-memorial access requests.
type AccessRequestService interface {
	SubmitRequest(ctx context.Context, memorialID int32, requesterUserID *int32, email, name, message string) (*domain.AccessRequestResult, error)
	ListRequests(ctx context.Context, memorialID, ownerID int32) ([]domain.AccessRequest, error)
	DecideRequest(ctx context.Context, memorialID, ownerID, requestID int32, decision domain.AccessRequestStatus) (*domain.AccessRequest, error)
}

type MemorialService interface {
	CreateMemorial(ctx context.Context, ownerID int32, m *domain.Memorial) error
	ViewMemorial(ctx context.Context, slug string, viewerID *int32) (*domain.Memorial, []domain.MemorialPhoto, *domain.AccessDecision, error)
	ListMyMemorials(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Memorial, int32, error)
	UpdateMemorial(ctx context.Context, userID int32, m *domain.Memorial) error
	DeleteMemorial(ctx context.Context, userID, memorialID int32) error
	SetVisibility(ctx context.Context, userID, memorialID int32, isPublic bool) error

	InviteCollaborator(ctx context.Context, inviterID, memorialID int32, email string, role domain.CollaboratorRole) (string, error)
	AcceptInvitation(ctx context.Context, userID int32, code string) (*domain.Collaborator, error)
	ListCollaborators(ctx context.Context, userID, memorialID int32) ([]domain.Collaborator, error)
	RemoveCollaborator(ctx context.Context, ownerID, memorialID, collaboratorUserID int32) error
}

type PhotoService interface {
	RequestUpload(ctx context.Context, userID, memorialID int32, filename, contentType string) (*domain.MemorialPhoto, string, error)
	ConfirmUpload(ctx context.Context, userID, photoID int32, caption string) (*domain.MemorialPhoto, error)
	ListPhotos(ctx context.Context, memorialID int32, viewerID *int32) ([]domain.MemorialPhoto, []string, error)
	SetPrimaryPhoto(ctx context.Context, userID, memorialID, photoID int32) error
	DeletePhoto(ctx context.Context, userID, photoID int32) error
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
}

type EmailService interface {
	SendAccessRequestNotification(ctx context.Context, ownerEmail, ownerName, requesterName, memorialTitle string) error
	SendAccessDecisionNotification(ctx context.Context, requesterEmail, requesterName, memorialTitle string, approved bool) error
	SendCollaboratorInvitation(ctx context.Context, email, code, memorialTitle, inviterName string) error
	SendOwnerDigest(ctx context.Context, email, subject, body string) error
}
