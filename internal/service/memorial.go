package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"everkeep-backend/internal/domain"
	"everkeep-backend/internal/permission"
	"everkeep-backend/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrInviteExpired = errors.New("invitation has expired")
	ErrInviteUsed    = errors.New("invitation already used")
)

type memorialService struct {
	memorialRepo repository.MemorialRepository
	collabRepo   repository.CollaboratorRepository
	inviteRepo   repository.InvitationRepository
	userRepo     repository.UserRepository
	accessSvc    AccessService
	emailSvc     EmailService
}

func NewMemorialService(
	memorialRepo repository.MemorialRepository,
	collabRepo repository.CollaboratorRepository,
	inviteRepo repository.InvitationRepository,
	userRepo repository.UserRepository,
	accessSvc AccessService,
	emailSvc EmailService,
) MemorialService {
	return &memorialService{
		memorialRepo: memorialRepo,
		collabRepo:   collabRepo,
		inviteRepo:   inviteRepo,
		userRepo:     userRepo,
		accessSvc:    accessSvc,
		emailSvc:     emailSvc,
	}
}

func (s *memorialService) CreateMemorial(ctx context.Context, ownerID int32, m *domain.Memorial) error {
	if strings.TrimSpace(m.Title) == "" {
		return fmt.Errorf("title is required: %w", domain.ErrValidation)
	}
	m.CreatedBy = ownerID
	if m.Slug == "" {
		m.Slug = buildSlug(m.Title)
	}
	m.Status = domain.MemorialStatusActive
	return s.memorialRepo.Create(ctx, m)
}

// ViewMemorial is the read gate. When the viewer may not see the memorial the
// decision is still returned so the caller can render "request pending"
// instead of a bare forbidden response.
func (s *memorialService) ViewMemorial(ctx context.Context, slug string, viewerID *int32) (*domain.Memorial, []domain.MemorialPhoto, *domain.AccessDecision, error) {
	m, err := s.memorialRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, nil, nil, memorialLookupError(err)
	}

	decision, err := s.accessSvc.EvaluateAccess(ctx, m.ID, viewerID)
	if err != nil {
		return nil, nil, nil, err
	}
	if !decision.CanView {
		return nil, nil, decision, nil
	}

	photos, err := s.memorialRepo.ListPhotos(ctx, m.ID)
	if err != nil {
		return nil, nil, nil, err
	}
	return m, photos, decision, nil
}

func (s *memorialService) ListMyMemorials(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Memorial, int32, error) {
	return s.memorialRepo.ListByOwner(ctx, ownerID, page, pageSize)
}

func (s *memorialService) UpdateMemorial(ctx context.Context, userID int32, m *domain.Memorial) error {
	current, err := s.memorialRepo.GetByID(ctx, m.ID)
	if err != nil {
		return memorialLookupError(err)
	}

	if err := s.requireMutation(ctx, current, userID, "update"); err != nil {
		return err
	}

	// Ownership and visibility are not editable through this path.
	m.CreatedBy = current.CreatedBy
	m.IsPublic = current.IsPublic
	if m.Slug == "" {
		m.Slug = current.Slug
	}
	if m.Status == "" {
		m.Status = current.Status
	}
	return s.memorialRepo.Update(ctx, m)
}

func (s *memorialService) DeleteMemorial(ctx context.Context, userID, memorialID int32) error {
	current, err := s.memorialRepo.GetByID(ctx, memorialID)
	if err != nil {
		return memorialLookupError(err)
	}
	if err := s.requireMutation(ctx, current, userID, "delete"); err != nil {
		return err
	}
	return s.memorialRepo.SoftDelete(ctx, memorialID)
}

// SetVisibility is owner-only: toggling public/private is not delegated to
// collaborators of any role.
func (s *memorialService) SetVisibility(ctx context.Context, userID, memorialID int32, isPublic bool) error {
	m, err := s.memorialRepo.GetByID(ctx, memorialID)
	if err != nil {
		return memorialLookupError(err)
	}
	if m.CreatedBy != userID {
		return fmt.Errorf("ownership required: %w", domain.ErrPermissionDenied)
	}
	m.IsPublic = isPublic
	return s.memorialRepo.Update(ctx, m)
}

func (s *memorialService) InviteCollaborator(ctx context.Context, inviterID, memorialID int32, email string, role domain.CollaboratorRole) (string, error) {
	m, err := s.memorialRepo.GetByID(ctx, memorialID)
	if err != nil {
		return "", memorialLookupError(err)
	}
	if m.CreatedBy != inviterID {
		return "", fmt.Errorf("ownership required: %w", domain.ErrPermissionDenied)
	}
	if email = strings.TrimSpace(email); email == "" {
		return "", fmt.Errorf("email is required: %w", domain.ErrValidation)
	}
	switch role {
	case domain.CollaboratorRoleAdmin, domain.CollaboratorRoleModerator, domain.CollaboratorRoleContributor:
	default:
		return "", fmt.Errorf("unknown collaborator role %q: %w", role, domain.ErrValidation)
	}

	// Already a collaborator, nothing to invite.
	if existing, _ := s.userRepo.GetByEmail(ctx, email); existing != nil {
		isCollab, err := s.collabRepo.Exists(ctx, memorialID, existing.ID)
		if err != nil {
			return "", err
		}
		if isCollab {
			return "", fmt.Errorf("user is already a collaborator: %w", domain.ErrValidation)
		}
	}

	inv := &domain.CollaboratorInvitation{
		Code:       uuid.New().String(),
		MemorialID: memorialID,
		Email:      email,
		Role:       role,
		CreatedBy:  inviterID,
		ExpiresOn:  time.Now().Add(7 * 24 * time.Hour),
	}
	if err := s.inviteRepo.Create(ctx, inv); err != nil {
		return "", err
	}

	inviter, err := s.userRepo.GetByID(ctx, inviterID)
	if err != nil {
		return "", err
	}
	if err := s.emailSvc.SendCollaboratorInvitation(ctx, email, inv.Code, m.Title, inviter.Name); err != nil {
		return "", fmt.Errorf("failed to send invitation email: %w", err)
	}

	return inv.Code, nil
}

func (s *memorialService) AcceptInvitation(ctx context.Context, userID int32, code string) (*domain.Collaborator, error) {
	inv, err := s.inviteRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if inv.UsedOn != nil {
		return nil, ErrInviteUsed
	}
	if inv.ExpiresOn.Before(time.Now()) {
		return nil, ErrInviteExpired
	}

	collab := &domain.Collaborator{
		MemorialID: inv.MemorialID,
		UserID:     userID,
		Role:       inv.Role,
	}
	if err := s.collabRepo.Add(ctx, collab); err != nil {
		return nil, err
	}

	now := time.Now()
	inv.UsedOn = &now
	inv.UsedByUserID = &userID
	if err := s.inviteRepo.Update(ctx, inv); err != nil {
		return nil, err
	}

	return collab, nil
}

func (s *memorialService) ListCollaborators(ctx context.Context, userID, memorialID int32) ([]domain.Collaborator, error) {
	m, err := s.memorialRepo.GetByID(ctx, memorialID)
	if err != nil {
		return nil, memorialLookupError(err)
	}
	if m.CreatedBy != userID {
		isCollab, err := s.collabRepo.Exists(ctx, memorialID, userID)
		if err != nil {
			return nil, err
		}
		if !isCollab {
			return nil, fmt.Errorf("collaborator access required: %w", domain.ErrPermissionDenied)
		}
	}
	return s.collabRepo.ListByMemorial(ctx, memorialID)
}

func (s *memorialService) RemoveCollaborator(ctx context.Context, ownerID, memorialID, collaboratorUserID int32) error {
	m, err := s.memorialRepo.GetByID(ctx, memorialID)
	if err != nil {
		return memorialLookupError(err)
	}
	if m.CreatedBy != ownerID {
		return fmt.Errorf("ownership required: %w", domain.ErrPermissionDenied)
	}
	return s.collabRepo.Remove(ctx, memorialID, collaboratorUserID)
}

// requireMutation gates memorial edits through the role rule table. The owner
// bypasses it; collaborators go through their role's rules with IsCreator set
// for the memorial's creator.
func (s *memorialService) requireMutation(ctx context.Context, m *domain.Memorial, userID int32, action string) error {
	perms := permission.UserPermissions{IsOwner: m.CreatedBy == userID}
	if !perms.IsOwner {
		collab, err := s.collabRepo.Get(ctx, m.ID, userID)
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("collaborator access required: %w", domain.ErrPermissionDenied)
		}
		if err != nil {
			return err
		}
		perms.Role = collab.Role
	}

	allowed := permission.HasPermission(perms, action, "memorial", permission.Context{
		IsCreator: m.CreatedBy == userID,
	})
	if !allowed {
		return fmt.Errorf("%s not permitted for role: %w", action, domain.ErrPermissionDenied)
	}
	return nil
}

func buildSlug(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '-'
		default:
			return -1
		}
	}, slug)
	slug = strings.Trim(slug, "-")
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	// Short random suffix keeps slugs unique without a lookup.
	suffix := uuid.New().String()[:8]
	if slug == "" {
		return suffix
	}
	return slug + "-" + suffix
}
