package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"everkeep-backend/internal/domain"
	"everkeep-backend/internal/permission"
	"everkeep-backend/internal/repository"
	"everkeep-backend/internal/storage"

	"github.com/google/uuid"
)

const uploadURLExpiry = 15 * time.Minute

type photoService struct {
	memorialRepo repository.MemorialRepository
	collabRepo   repository.CollaboratorRepository
	accessSvc    AccessService
	storage      storage.StorageInterface
}

func NewPhotoService(
	memorialRepo repository.MemorialRepository,
	collabRepo repository.CollaboratorRepository,
	accessSvc AccessService,
	store storage.StorageInterface,
) PhotoService {
	return &photoService{
		memorialRepo: memorialRepo,
		collabRepo:   collabRepo,
		accessSvc:    accessSvc,
		storage:      store,
	}
}

// RequestUpload creates a pending photo row and hands back a presigned-style
// upload URL. The row is confirmed once the client reports the upload done;
// stale pending rows are garbage collected by the cleanup job.
func (s *photoService) RequestUpload(ctx context.Context, userID, memorialID int32, filename, contentType string) (*domain.MemorialPhoto, string, error) {
	m, err := s.memorialRepo.GetByID(ctx, memorialID)
	if err != nil {
		return nil, "", memorialLookupError(err)
	}
	if err := s.requirePhotoAction(ctx, m, userID, "create", true); err != nil {
		return nil, "", err
	}

	switch contentType {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
	default:
		return nil, "", fmt.Errorf("unsupported content type %q: %w", contentType, domain.ErrValidation)
	}

	key := fmt.Sprintf("memorials/%d/%s%s", memorialID, uuid.New().String(), filepath.Ext(filename))
	photo := &domain.MemorialPhoto{
		MemorialID: memorialID,
		UploadedBy: userID,
		StorageKey: key,
		Status:     domain.PhotoStatusPending,
	}
	if err := s.memorialRepo.CreatePhoto(ctx, photo); err != nil {
		return nil, "", err
	}

	uploadURL, err := s.storage.GeneratePresignedUploadURL(ctx, key, contentType, uploadURLExpiry)
	if err != nil {
		return nil, "", err
	}
	return photo, uploadURL, nil
}

func (s *photoService) ConfirmUpload(ctx context.Context, userID, photoID int32, caption string) (*domain.MemorialPhoto, error) {
	photo, err := s.memorialRepo.GetPhotoByID(ctx, photoID)
	if err != nil {
		return nil, err
	}
	if photo.UploadedBy != userID {
		return nil, fmt.Errorf("photo was uploaded by another user: %w", domain.ErrPermissionDenied)
	}

	exists, _, err := s.storage.FileExists(ctx, photo.StorageKey)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("uploaded file not found in storage: %w", domain.ErrValidation)
	}

	if err := s.memorialRepo.ConfirmPhoto(ctx, photoID); err != nil {
		return nil, err
	}
	photo.Status = domain.PhotoStatusConfirmed
	photo.Caption = caption
	return photo, nil
}

// ListPhotos applies the same view gate as the memorial page itself.
func (s *photoService) ListPhotos(ctx context.Context, memorialID int32, viewerID *int32) ([]domain.MemorialPhoto, []string, error) {
	decision, err := s.accessSvc.EvaluateAccess(ctx, memorialID, viewerID)
	if err != nil {
		return nil, nil, err
	}
	if !decision.CanView {
		return nil, nil, fmt.Errorf("viewing not permitted: %w", domain.ErrPermissionDenied)
	}

	photos, err := s.memorialRepo.ListPhotos(ctx, memorialID)
	if err != nil {
		return nil, nil, err
	}

	urls := make([]string, len(photos))
	for i, p := range photos {
		url, err := s.storage.GeneratePresignedDownloadURL(ctx, p.StorageKey, time.Hour)
		if err != nil {
			return nil, nil, err
		}
		urls[i] = url
	}
	return photos, urls, nil
}

func (s *photoService) SetPrimaryPhoto(ctx context.Context, userID, memorialID, photoID int32) error {
	m, err := s.memorialRepo.GetByID(ctx, memorialID)
	if err != nil {
		return memorialLookupError(err)
	}
	if err := s.requirePhotoAction(ctx, m, userID, "update", false); err != nil {
		return err
	}
	return s.memorialRepo.SetPrimaryPhoto(ctx, memorialID, photoID)
}

func (s *photoService) DeletePhoto(ctx context.Context, userID, photoID int32) error {
	photo, err := s.memorialRepo.GetPhotoByID(ctx, photoID)
	if err != nil {
		return err
	}
	m, err := s.memorialRepo.GetByID(ctx, photo.MemorialID)
	if err != nil {
		return memorialLookupError(err)
	}

	perms, err := s.buildPerms(ctx, m, userID)
	if err != nil {
		return err
	}
	allowed := permission.HasPermission(perms, "delete", "photo", permission.Context{
		IsCreator: photo.UploadedBy == userID,
	})
	if !allowed {
		return fmt.Errorf("delete not permitted for role: %w", domain.ErrPermissionDenied)
	}

	if err := s.memorialRepo.DeletePhoto(ctx, photoID); err != nil {
		return err
	}
	return s.storage.DeleteFile(ctx, photo.StorageKey)
}

func (s *photoService) requirePhotoAction(ctx context.Context, m *domain.Memorial, userID int32, action string, creator bool) error {
	perms, err := s.buildPerms(ctx, m, userID)
	if err != nil {
		return err
	}
	allowed := permission.HasPermission(perms, action, "photo", permission.Context{IsCreator: creator})
	if !allowed {
		return fmt.Errorf("%s not permitted for role: %w", action, domain.ErrPermissionDenied)
	}
	return nil
}

func (s *photoService) buildPerms(ctx context.Context, m *domain.Memorial, userID int32) (permission.UserPermissions, error) {
	perms := permission.UserPermissions{IsOwner: m.CreatedBy == userID}
	if perms.IsOwner {
		return perms, nil
	}
	collab, err := s.collabRepo.Get(ctx, m.ID, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return perms, fmt.Errorf("collaborator access required: %w", domain.ErrPermissionDenied)
	}
	if err != nil {
		return perms, err
	}
	perms.Role = collab.Role
	return perms, nil
}
