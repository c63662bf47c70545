package service

import (
	"context"
	"errors"
	"fmt"

	"everkeep-backend/internal/domain"
	"everkeep-backend/internal/repository"
)

type accessService struct {
	memorialRepo repository.MemorialRepository
	collabRepo   repository.CollaboratorRepository
	requestRepo  repository.AccessRequestRepository
}

func NewAccessService(
	memorialRepo repository.MemorialRepository,
	collabRepo repository.CollaboratorRepository,
	requestRepo repository.AccessRequestRepository,
) AccessService {
	return &accessService{
		memorialRepo: memorialRepo,
		collabRepo:   collabRepo,
		requestRepo:  requestRepo,
	}
}

func (s *accessService) EvaluateAccess(ctx context.Context, memorialID int32, viewerID *int32) (*domain.AccessDecision, error) {
	m, err := s.memorialRepo.GetByID(ctx, memorialID)
	if err != nil {
		return nil, memorialLookupError(err)
	}
	return s.evaluate(ctx, m, viewerID)
}

func (s *accessService) EvaluateAccessBySlug(ctx context.Context, slug string, viewerID *int32) (*domain.AccessDecision, error) {
	m, err := s.memorialRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, memorialLookupError(err)
	}
	return s.evaluate(ctx, m, viewerID)
}

func memorialLookupError(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("Memorial not found: %w", domain.ErrNotFound)
	}
	return err
}

// evaluate derives the full decision from current state. No mutation, no
// caching: ownership, collaboration and request rows may all change between
// calls, so every read re-derives from the store.
func (s *accessService) evaluate(ctx context.Context, m *domain.Memorial, viewerID *int32) (*domain.AccessDecision, error) {
	d := &domain.AccessDecision{
		MemorialID: m.ID,
		IsPublic:   m.IsPublic,
	}

	if viewerID != nil {
		d.IsOwner = *viewerID == m.CreatedBy

		isCollab, err := s.collabRepo.Exists(ctx, m.ID, *viewerID)
		if err != nil {
			return nil, err
		}
		d.IsCollaborator = isCollab

		// Request history matches by user id only. A viewer who requested
		// anonymously by email is reconciled to their account on the
		// submission path, not here.
		req, err := s.requestRepo.FindLatestByUser(ctx, m.ID, *viewerID)
		if err != nil {
			return nil, err
		}
		if req != nil {
			status := req.Status
			d.RequestStatus = &status
		}
	}

	d.CanView = d.IsPublic || d.IsOwner || d.IsCollaborator ||
		(d.RequestStatus != nil && *d.RequestStatus == domain.AccessRequestStatusApproved)

	// Priority matters for UI messaging: an owner holding a stale request row
	// must still read as "owner", never "pending".
	switch {
	case d.IsOwner:
		d.AccessStatus = domain.AccessStatusOwner
	case d.IsCollaborator:
		d.AccessStatus = domain.AccessStatusCollaborator
	case d.IsPublic:
		d.AccessStatus = domain.AccessStatusPublic
	case d.RequestStatus != nil:
		d.AccessStatus = accessStatusFromRequest(*d.RequestStatus)
	case viewerID != nil:
		d.AccessStatus = domain.AccessStatusNone
	default:
		d.AccessStatus = domain.AccessStatusUnauthenticated
	}

	return d, nil
}

func accessStatusFromRequest(status domain.AccessRequestStatus) domain.AccessStatus {
	switch status {
	case domain.AccessRequestStatusApproved:
		return domain.AccessStatusApproved
	case domain.AccessRequestStatusDeclined:
		return domain.AccessStatusDeclined
	default:
		return domain.AccessStatusPending
	}
}
