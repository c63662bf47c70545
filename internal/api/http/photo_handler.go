package http

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"everkeep-backend/internal/service"
	"everkeep-backend/internal/storage"
)

// PhotoHandler handles photo upload lifecycle and gallery listing
type PhotoHandler struct {
	photoSvc service.PhotoService
}

func NewPhotoHandler(photoSvc service.PhotoService) *PhotoHandler {
	return &PhotoHandler{photoSvc: photoSvc}
}

type uploadRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

func (h *PhotoHandler) RequestUpload(w http.ResponseWriter, r *http.Request) {
	userID := claimsFromContext(r.Context()).UserID
	memorialID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req uploadRequest
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	photo, uploadURL, err := h.photoSvc.RequestUpload(r.Context(), userID, memorialID, req.Filename, req.ContentType)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"photo":      photo,
		"upload_url": uploadURL,
	})
}

type confirmUploadRequest struct {
	Caption string `json:"caption"`
}

func (h *PhotoHandler) ConfirmUpload(w http.ResponseWriter, r *http.Request) {
	userID := claimsFromContext(r.Context()).UserID
	photoID, err := pathID(r, "photoId")
	if err != nil {
		respondError(w, err)
		return
	}

	var req confirmUploadRequest
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	photo, err := h.photoSvc.ConfirmUpload(r.Context(), userID, photoID, req.Caption)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, photo)
}

func (h *PhotoHandler) List(w http.ResponseWriter, r *http.Request) {
	memorialID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	viewerID := viewerIDFromContext(r.Context())
	photos, urls, err := h.photoSvc.ListPhotos(r.Context(), memorialID, viewerID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"photos": photos,
		"urls":   urls,
	})
}

func (h *PhotoHandler) SetPrimary(w http.ResponseWriter, r *http.Request) {
	userID := claimsFromContext(r.Context()).UserID
	memorialID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	photoID, err := pathID(r, "photoId")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.photoSvc.SetPrimaryPhoto(r.Context(), userID, memorialID, photoID); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

func (h *PhotoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := claimsFromContext(r.Context()).UserID
	photoID, err := pathID(r, "photoId")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.photoSvc.DeletePhoto(r.Context(), userID, photoID); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// LocalStorageHandler serves the upload/download endpoints backing the local
// storage implementation's URLs.
type LocalStorageHandler struct {
	localStorage *storage.LocalStorageService
}

func NewLocalStorageHandler(localStorage *storage.LocalStorageService) *LocalStorageHandler {
	return &LocalStorageHandler{localStorage: localStorage}
}

// HandleUpload handles HTTP PUT requests to local upload URLs
func (h *LocalStorageHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		http.Error(w, "Missing key parameter", http.StatusBadRequest)
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType != "image/jpeg" && contentType != "image/png" && contentType != "image/gif" && contentType != "image/webp" {
		http.Error(w, "Invalid content type", http.StatusBadRequest)
		return
	}

	if err := h.localStorage.SaveFile(key, r.Body); err != nil {
		if errors.Is(err, storage.ErrInvalidKey) {
			http.Error(w, "Invalid key parameter", http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to save file", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// HandleDownload handles HTTP GET requests to fetch stored photos
func (h *LocalStorageHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		http.Error(w, "Missing key parameter", http.StatusBadRequest)
		return
	}

	file, err := h.localStorage.ReadFile(key)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidKey) {
			http.Error(w, "Invalid key parameter", http.StatusBadRequest)
			return
		}
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	defer file.Close()

	contentType := "application/octet-stream"
	switch filepath.Ext(key) {
	case ".jpg", ".jpeg":
		contentType = "image/jpeg"
	case ".png":
		contentType = "image/png"
	case ".gif":
		contentType = "image/gif"
	case ".webp":
		contentType = "image/webp"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	io.Copy(w, file)
}
