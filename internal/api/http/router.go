package http

import (
	"net/http"

	"everkeep-backend/internal/ratelimit"
	"everkeep-backend/internal/security"
	"everkeep-backend/internal/service"
	"everkeep-backend/internal/storage"

	"github.com/gorilla/mux"
)

// RouterConfig carries everything the API surface needs.
type RouterConfig struct {
	AuthService          service.AuthService
	AccessService        service.AccessService
	AccessRequestService service.AccessRequestService
	MemorialService      service.MemorialService
	PhotoService         service.PhotoService
	NotificationService  service.NotificationService
	TokenManager         security.TokenManager
	Limiter              ratelimit.Limiter
	LocalStorage         *storage.LocalStorageService
}

// NewRouter builds the full API route table.
func NewRouter(cfg RouterConfig) *mux.Router {
	mw := NewMiddleware(cfg.TokenManager, cfg.Limiter)

	authHandler := NewAuthHandler(cfg.AuthService)
	memorialHandler := NewMemorialHandler(cfg.MemorialService)
	requestHandler := NewAccessRequestHandler(cfg.AccessService, cfg.AccessRequestService)
	photoHandler := NewPhotoHandler(cfg.PhotoService)
	noteHandler := NewNotificationHandler(cfg.NotificationService)

	root := mux.NewRouter()
	root.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	api := root.PathPrefix("/api/v1").Subrouter()

	// Auth endpoints: anonymous, rate limited by IP.
	auth := api.PathPrefix("/auth").Subrouter()
	auth.Use(mw.RateLimit)
	auth.HandleFunc("/signup", authHandler.Signup).Methods("POST")
	auth.HandleFunc("/login", authHandler.Login).Methods("POST")
	auth.HandleFunc("/refresh", authHandler.Refresh).Methods("POST")
	auth.HandleFunc("/logout", authHandler.Logout).Methods("POST")

	// Public memorial view and access requests: auth optional so the
	// decision reflects who is asking, limiter keyed per identity.
	public := api.NewRoute().Subrouter()
	public.Use(mw.OptionalAuth, mw.RateLimit)
	public.HandleFunc("/memorials/{slug}", memorialHandler.View).Methods("GET")
	public.HandleFunc("/memorials/{id:[0-9]+}/access", requestHandler.Check).Methods("GET")
	public.HandleFunc("/memorials/{id:[0-9]+}/access-requests", requestHandler.Submit).Methods("POST")
	public.HandleFunc("/memorials/{id:[0-9]+}/photos", photoHandler.List).Methods("GET")

	// Everything below requires a valid access token.
	private := api.NewRoute().Subrouter()
	private.Use(mw.RequireAuth, mw.RateLimit)
	private.HandleFunc("/memorials", memorialHandler.Create).Methods("POST")
	private.HandleFunc("/memorials", memorialHandler.ListMine).Methods("GET")
	private.HandleFunc("/memorials/{id:[0-9]+}", memorialHandler.Update).Methods("PUT")
	private.HandleFunc("/memorials/{id:[0-9]+}", memorialHandler.Delete).Methods("DELETE")
	private.HandleFunc("/memorials/{id:[0-9]+}/visibility", memorialHandler.SetVisibility).Methods("PUT")

	private.HandleFunc("/memorials/{id:[0-9]+}/access-requests", requestHandler.List).Methods("GET")
	private.HandleFunc("/memorials/{id:[0-9]+}/access-requests/{requestId:[0-9]+}", requestHandler.Decide).Methods("PUT")

	private.HandleFunc("/memorials/{id:[0-9]+}/collaborators", memorialHandler.ListCollaborators).Methods("GET")
	private.HandleFunc("/memorials/{id:[0-9]+}/collaborators/invitations", memorialHandler.InviteCollaborator).Methods("POST")
	private.HandleFunc("/memorials/{id:[0-9]+}/collaborators/{userId:[0-9]+}", memorialHandler.RemoveCollaborator).Methods("DELETE")
	private.HandleFunc("/invitations/{code}/accept", memorialHandler.AcceptInvitation).Methods("POST")

	private.HandleFunc("/memorials/{id:[0-9]+}/photos", photoHandler.RequestUpload).Methods("POST")
	private.HandleFunc("/memorials/{id:[0-9]+}/photos/{photoId:[0-9]+}/primary", photoHandler.SetPrimary).Methods("PUT")
	private.HandleFunc("/photos/{photoId:[0-9]+}/confirm", photoHandler.ConfirmUpload).Methods("POST")
	private.HandleFunc("/photos/{photoId:[0-9]+}", photoHandler.Delete).Methods("DELETE")

	private.HandleFunc("/notifications", noteHandler.List).Methods("GET")
	private.HandleFunc("/notifications/{id:[0-9]+}/read", noteHandler.MarkAsRead).Methods("PUT")

	// Local storage endpoints back the URLs the local blob store hands out.
	if cfg.LocalStorage != nil {
		storageHandler := NewLocalStorageHandler(cfg.LocalStorage)
		root.HandleFunc("/api/v1/photos/upload/{token}", storageHandler.HandleUpload).Methods("PUT")
		root.HandleFunc("/api/v1/photos/download/{token}", storageHandler.HandleDownload).Methods("GET")
	}

	return root
}
