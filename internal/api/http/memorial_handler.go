package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"everkeep-backend/internal/domain"
	"everkeep-backend/internal/service"

	"github.com/gorilla/mux"
)

// MemorialHandler handles memorial CRUD, visibility and collaborator management
type MemorialHandler struct {
	memorialSvc service.MemorialService
}

func NewMemorialHandler(memorialSvc service.MemorialService) *MemorialHandler {
	return &MemorialHandler{memorialSvc: memorialSvc}
}

type memorialRequest struct {
	Title     string     `json:"title"`
	Epitaph   string     `json:"epitaph"`
	Biography string     `json:"biography"`
	BornOn    *time.Time `json:"born_on"`
	PassedOn  *time.Time `json:"passed_on"`
	IsPublic  bool       `json:"is_public"`
}

type memorialViewResponse struct {
	Memorial *domain.Memorial       `json:"memorial"`
	Photos   []domain.MemorialPhoto `json:"photos"`
	Access   *domain.AccessDecision `json:"access"`
}

// accessRequiredResponse is the body of the 403 returned for private
// memorials the viewer may not see. It carries enough state for the client
// to render the right prompt: request access, or show pending/declined.
type accessRequiredResponse struct {
	Error         string                      `json:"error"`
	AccessStatus  domain.AccessStatus         `json:"access_status"`
	RequestStatus *domain.AccessRequestStatus `json:"request_status,omitempty"`
}

func (h *MemorialHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := claimsFromContext(r.Context()).UserID

	var req memorialRequest
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	m := &domain.Memorial{
		Title:     req.Title,
		Epitaph:   req.Epitaph,
		Biography: req.Biography,
		BornOn:    req.BornOn,
		PassedOn:  req.PassedOn,
		IsPublic:  req.IsPublic,
	}
	if err := h.memorialSvc.CreateMemorial(r.Context(), userID, m); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, m)
}

func (h *MemorialHandler) View(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	viewerID := viewerIDFromContext(r.Context())

	memorial, photos, decision, err := h.memorialSvc.ViewMemorial(r.Context(), slug, viewerID)
	if err != nil {
		respondError(w, err)
		return
	}
	if memorial == nil {
		respondJSON(w, http.StatusForbidden, accessRequiredResponse{
			Error:         "access_required",
			AccessStatus:  decision.AccessStatus,
			RequestStatus: decision.RequestStatus,
		})
		return
	}

	respondJSON(w, http.StatusOK, memorialViewResponse{
		Memorial: memorial,
		Photos:   photos,
		Access:   decision,
	})
}

func (h *MemorialHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := claimsFromContext(r.Context()).UserID
	page, pageSize := paginationParams(r)

	memorials, total, err := h.memorialSvc.ListMyMemorials(r.Context(), userID, page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"memorials": memorials,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

func (h *MemorialHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := claimsFromContext(r.Context()).UserID
	memorialID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req memorialRequest
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	m := &domain.Memorial{
		ID:        memorialID,
		Title:     req.Title,
		Epitaph:   req.Epitaph,
		Biography: req.Biography,
		BornOn:    req.BornOn,
		PassedOn:  req.PassedOn,
	}
	if err := h.memorialSvc.UpdateMemorial(r.Context(), userID, m); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, m)
}

func (h *MemorialHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := claimsFromContext(r.Context()).UserID
	memorialID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.memorialSvc.DeleteMemorial(r.Context(), userID, memorialID); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

type visibilityRequest struct {
	IsPublic bool `json:"is_public"`
}

func (h *MemorialHandler) SetVisibility(w http.ResponseWriter, r *http.Request) {
	userID := claimsFromContext(r.Context()).UserID
	memorialID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req visibilityRequest
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if err := h.memorialSvc.SetVisibility(r.Context(), userID, memorialID, req.IsPublic); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"is_public": req.IsPublic})
}

type inviteRequest struct {
	Email string                  `json:"email"`
	Role  domain.CollaboratorRole `json:"role"`
}

func (h *MemorialHandler) InviteCollaborator(w http.ResponseWriter, r *http.Request) {
	userID := claimsFromContext(r.Context()).UserID
	memorialID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req inviteRequest
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	code, err := h.memorialSvc.InviteCollaborator(r.Context(), userID, memorialID, req.Email, req.Role)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{"code": code})
}

func (h *MemorialHandler) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	userID := claimsFromContext(r.Context()).UserID
	code := mux.Vars(r)["code"]

	collaborator, err := h.memorialSvc.AcceptInvitation(r.Context(), userID, code)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, collaborator)
}

func (h *MemorialHandler) ListCollaborators(w http.ResponseWriter, r *http.Request) {
	userID := claimsFromContext(r.Context()).UserID
	memorialID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	collaborators, err := h.memorialSvc.ListCollaborators(r.Context(), userID, memorialID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"collaborators": collaborators})
}

func (h *MemorialHandler) RemoveCollaborator(w http.ResponseWriter, r *http.Request) {
	userID := claimsFromContext(r.Context()).UserID
	memorialID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	collaboratorID, err := pathID(r, "userId")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.memorialSvc.RemoveCollaborator(r.Context(), userID, memorialID, collaboratorID); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// pathID parses a numeric path variable
func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s: %w", name, domain.ErrValidation)
	}
	return int32(id), nil
}

// paginationParams reads page and page_size query parameters
func paginationParams(r *http.Request) (int32, int32) {
	page := int32(1)
	pageSize := int32(20)
	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 32); err == nil && v > 0 {
			page = int32(v)
		}
	}
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 32); err == nil && v > 0 && v <= 100 {
			pageSize = int32(v)
		}
	}
	return page, pageSize
}
