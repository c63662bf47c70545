package http

import (
	"net/http"
	"strings"

	"everkeep-backend/internal/domain"
	"everkeep-backend/internal/service"
)

// AccessRequestHandler handles viewer access requests and owner decisions
// for private memorials.
type AccessRequestHandler struct {
	accessSvc  service.AccessService
	requestSvc service.AccessRequestService
}

func NewAccessRequestHandler(accessSvc service.AccessService, requestSvc service.AccessRequestService) *AccessRequestHandler {
	return &AccessRequestHandler{accessSvc: accessSvc, requestSvc: requestSvc}
}

type submitAccessRequest struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

type accessRequestResponse struct {
	Status    string `json:"status"`
	RequestID int32  `json:"request_id,omitempty"`
	Already   bool   `json:"already_requested"`
	CanView   bool   `json:"can_view"`
}

// Submit accepts both authenticated and anonymous requesters. Anonymous
// submissions must carry an email for identity matching.
func (h *AccessRequestHandler) Submit(w http.ResponseWriter, r *http.Request) {
	memorialID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req submitAccessRequest
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	viewerID := viewerIDFromContext(r.Context())
	result, err := h.requestSvc.SubmitRequest(r.Context(), memorialID, viewerID, req.Email, req.Name, req.Message)
	if err != nil {
		respondError(w, err)
		return
	}

	status := http.StatusCreated
	if result.Already {
		status = http.StatusOK
	}
	respondJSON(w, status, accessRequestResponse{
		Status:    result.Status,
		RequestID: result.RequestID,
		Already:   result.Already,
		CanView:   result.CanView,
	})
}

// List returns all access requests for a memorial. Owner only.
func (h *AccessRequestHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID := claimsFromContext(r.Context()).UserID
	memorialID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	requests, err := h.requestSvc.ListRequests(r.Context(), memorialID, ownerID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"requests": requests})
}

type decideRequest struct {
	Decision string `json:"decision"` // "APPROVED" or "DECLINED"
}

// Decide approves or declines a pending request. Owner only.
func (h *AccessRequestHandler) Decide(w http.ResponseWriter, r *http.Request) {
	ownerID := claimsFromContext(r.Context()).UserID
	memorialID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	requestID, err := pathID(r, "requestId")
	if err != nil {
		respondError(w, err)
		return
	}

	var req decideRequest
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	decision := domain.AccessRequestStatus(strings.ToUpper(req.Decision))
	updated, err := h.requestSvc.DecideRequest(r.Context(), memorialID, ownerID, requestID, decision)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// Check evaluates access for the current viewer without side effects.
func (h *AccessRequestHandler) Check(w http.ResponseWriter, r *http.Request) {
	memorialID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	viewerID := viewerIDFromContext(r.Context())
	decision, err := h.accessSvc.EvaluateAccess(r.Context(), memorialID, viewerID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, decision)
}
