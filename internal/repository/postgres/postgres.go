package postgres

import (
	"database/sql"

	"everkeep-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.MemorialRepository
	repository.CollaboratorRepository
	repository.AccessRequestRepository
	repository.InvitationRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                      db,
		UserRepository:          NewUserRepository(db),
		MemorialRepository:      NewMemorialRepository(db),
		CollaboratorRepository:  NewCollaboratorRepository(db),
		AccessRequestRepository: NewAccessRequestRepository(db),
		InvitationRepository:    NewInvitationRepository(db),
		NotificationRepository:  NewNotificationRepository(db),
	}
}
