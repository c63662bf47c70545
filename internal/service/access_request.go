package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"everkeep-backend/internal/domain"
	"everkeep-backend/internal/repository"
)

type accessRequestService struct {
	memorialRepo repository.MemorialRepository
	collabRepo   repository.CollaboratorRepository
	requestRepo  repository.AccessRequestRepository
	userRepo     repository.UserRepository
	noteRepo     repository.NotificationRepository
	emailSvc     EmailService
}

func NewAccessRequestService(
	memorialRepo repository.MemorialRepository,
	collabRepo repository.CollaboratorRepository,
	requestRepo repository.AccessRequestRepository,
	userRepo repository.UserRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
) AccessRequestService {
	return &accessRequestService{
		memorialRepo: memorialRepo,
		collabRepo:   collabRepo,
		requestRepo:  requestRepo,
		userRepo:     userRepo,
		noteRepo:     noteRepo,
		emailSvc:     emailSvc,
	}
}

// SubmitRequest is the only requester-side mutation path into access_requests.
// Public memorials, owners and collaborators short-circuit without a write.
// An existing approved or pending row makes the call idempotent; a declined
// row is resurrected to pending instead of inserting a duplicate.
func (s *accessRequestService) SubmitRequest(ctx context.Context, memorialID int32, requesterUserID *int32, email, name, message string) (*domain.AccessRequestResult, error) {
	m, err := s.memorialRepo.GetByID(ctx, memorialID)
	if err != nil {
		return nil, memorialLookupError(err)
	}

	if m.IsPublic {
		return &domain.AccessRequestResult{Status: "public", CanView: true}, nil
	}

	if requesterUserID != nil {
		if *requesterUserID == m.CreatedBy {
			return &domain.AccessRequestResult{Status: "owner", CanView: true}, nil
		}
		isCollab, err := s.collabRepo.Exists(ctx, memorialID, *requesterUserID)
		if err != nil {
			return nil, err
		}
		if isCollab {
			return &domain.AccessRequestResult{Status: "collaborator", CanView: true}, nil
		}

		// Fill in identity from the account when the caller left it blank,
		// so the owner can always reach the requester.
		if email == "" || name == "" {
			user, err := s.userRepo.GetByID(ctx, *requesterUserID)
			if err != nil {
				return nil, err
			}
			if email == "" {
				email = user.Email
			}
			if name == "" {
				name = user.Name
			}
		}
	}

	email = strings.TrimSpace(email)
	if requesterUserID == nil && email == "" {
		return nil, fmt.Errorf("email is required: %w", domain.ErrValidation)
	}

	existing, err := s.findLatest(ctx, memorialID, requesterUserID, email)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		switch existing.Status {
		case domain.AccessRequestStatusApproved:
			return &domain.AccessRequestResult{
				Status:    "approved",
				RequestID: existing.ID,
				Already:   true,
				CanView:   true,
			}, nil

		case domain.AccessRequestStatusPending:
			return &domain.AccessRequestResult{
				Status:    "pending",
				RequestID: existing.ID,
				Already:   true,
			}, nil

		case domain.AccessRequestStatusDeclined:
			// Resurrect the same row rather than inserting a duplicate.
			// New values win; prior values survive when the new ones are empty.
			existing.Status = domain.AccessRequestStatusPending
			if message != "" {
				existing.Message = message
			}
			if name != "" {
				existing.RequesterName = name
			}
			if email != "" {
				existing.RequesterEmail = email
			}
			if requesterUserID != nil {
				existing.RequesterUserID = requesterUserID
			}
			existing.DecidedBy = nil
			existing.DecidedOn = nil
			if err := s.requestRepo.Update(ctx, existing); err != nil {
				return nil, err
			}

			s.notifyOwner(ctx, m, existing)
			return &domain.AccessRequestResult{
				Status:    "pending",
				RequestID: existing.ID,
				Already:   true,
			}, nil
		}
	}

	req := &domain.AccessRequest{
		MemorialID:      memorialID,
		RequesterUserID: requesterUserID,
		RequesterEmail:  email,
		RequesterName:   name,
		Message:         message,
		Status:          domain.AccessRequestStatusPending,
	}
	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, err
	}

	s.notifyOwner(ctx, m, req)
	return &domain.AccessRequestResult{
		Status:    "pending",
		RequestID: req.ID,
	}, nil
}

func (s *accessRequestService) ListRequests(ctx context.Context, memorialID, ownerID int32) ([]domain.AccessRequest, error) {
	if err := s.requireOwnership(ctx, memorialID, ownerID); err != nil {
		return nil, err
	}
	return s.requestRepo.ListByMemorial(ctx, memorialID)
}

// DecideRequest is the sole mutation path into APPROVED and DECLINED.
func (s *accessRequestService) DecideRequest(ctx context.Context, memorialID, ownerID, requestID int32, decision domain.AccessRequestStatus) (*domain.AccessRequest, error) {
	if decision != domain.AccessRequestStatusApproved && decision != domain.AccessRequestStatusDeclined {
		return nil, fmt.Errorf("decision must be APPROVED or DECLINED: %w", domain.ErrValidation)
	}

	m, err := s.memorialRepo.GetByID(ctx, memorialID)
	if err != nil {
		return nil, memorialLookupError(err)
	}
	if m.CreatedBy != ownerID {
		return nil, fmt.Errorf("ownership required: %w", domain.ErrPermissionDenied)
	}

	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.MemorialID != memorialID {
		return nil, fmt.Errorf("request does not belong to this memorial: %w", domain.ErrNotFound)
	}
	if req.Status != domain.AccessRequestStatusPending {
		return nil, fmt.Errorf("request is not pending: %w", domain.ErrValidation)
	}

	now := time.Now()
	req.Status = decision
	req.DecidedBy = &ownerID
	req.DecidedOn = &now
	if err := s.requestRepo.Update(ctx, req); err != nil {
		return nil, err
	}

	s.notifyRequester(ctx, m, req)
	return req, nil
}

func (s *accessRequestService) findLatest(ctx context.Context, memorialID int32, requesterUserID *int32, email string) (*domain.AccessRequest, error) {
	// Prefer the account identity; email matching serves anonymous history only.
	if requesterUserID != nil {
		req, err := s.requestRepo.FindLatestByUser(ctx, memorialID, *requesterUserID)
		if err != nil || req != nil {
			return req, err
		}
	}
	if email == "" {
		return nil, nil
	}
	return s.requestRepo.FindLatestByEmail(ctx, memorialID, email)
}

func (s *accessRequestService) requireOwnership(ctx context.Context, memorialID, ownerID int32) error {
	m, err := s.memorialRepo.GetByID(ctx, memorialID)
	if err != nil {
		return memorialLookupError(err)
	}
	if m.CreatedBy != ownerID {
		return fmt.Errorf("ownership required: %w", domain.ErrPermissionDenied)
	}
	return nil
}

// Notifications are best effort; a failed email never fails the request.
func (s *accessRequestService) notifyOwner(ctx context.Context, m *domain.Memorial, req *domain.AccessRequest) {
	owner, err := s.userRepo.GetByID(ctx, m.CreatedBy)
	if err != nil {
		return
	}

	_ = s.emailSvc.SendAccessRequestNotification(ctx, owner.Email, owner.Name, req.RequesterName, m.Title)

	notif := &domain.Notification{
		UserID:     owner.ID,
		MemorialID: m.ID,
		Title:      "New Access Request",
		Message:    fmt.Sprintf("%s requested access to %s", req.RequesterName, m.Title),
		Attributes: map[string]string{
			"type":       "ACCESS_REQUEST",
			"request_id": fmt.Sprintf("%d", req.ID),
		},
	}
	_ = s.noteRepo.Create(ctx, notif)
}

func (s *accessRequestService) notifyRequester(ctx context.Context, m *domain.Memorial, req *domain.AccessRequest) {
	approved := req.Status == domain.AccessRequestStatusApproved

	if req.RequesterEmail != "" {
		_ = s.emailSvc.SendAccessDecisionNotification(ctx, req.RequesterEmail, req.RequesterName, m.Title, approved)
	}

	if req.RequesterUserID != nil {
		verdict := "declined"
		if approved {
			verdict = "approved"
		}
		notif := &domain.Notification{
			UserID:     *req.RequesterUserID,
			MemorialID: m.ID,
			Title:      "Access Request Decided",
			Message:    fmt.Sprintf("Your request to view %s was %s", m.Title, verdict),
			Attributes: map[string]string{
				"type":       "ACCESS_DECISION",
				"request_id": fmt.Sprintf("%d", req.ID),
				"status":     string(req.Status),
			},
		}
		_ = s.noteRepo.Create(ctx, notif)
	}
}
