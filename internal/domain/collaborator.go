package domain

import "time"

type CollaboratorRole string

const (
	CollaboratorRoleAdmin       CollaboratorRole = "ADMIN"
	CollaboratorRoleModerator   CollaboratorRole = "MODERATOR"
	CollaboratorRoleContributor CollaboratorRole = "CONTRIBUTOR"
)

// Collaborator links a user to a memorial with standing view and edit rights.
// The owner is never stored as a collaborator; ownership lives on the memorial.
type Collaborator struct {
	MemorialID int32            `json:"memorial_id"`
	UserID     int32            `json:"user_id"`
	Role       CollaboratorRole `json:"role"`
	AddedOn    time.Time        `json:"added_on"`
}

type CollaboratorInvitation struct {
	ID           int32            `json:"id"`
	Code         string           `json:"code"`
	MemorialID   int32            `json:"memorial_id"`
	Email        string           `json:"email"`
	Role         CollaboratorRole `json:"role"`
	CreatedBy    int32            `json:"created_by"`
	ExpiresOn    time.Time        `json:"expires_on"`
	UsedOn       *time.Time       `json:"used_on,omitempty"`
	UsedByUserID *int32           `json:"used_by_user_id,omitempty"`
	CreatedOn    time.Time        `json:"created_on"`
}
