package domain

type AccessStatus string

const (
	AccessStatusOwner           AccessStatus = "owner"
	AccessStatusCollaborator    AccessStatus = "collaborator"
	AccessStatusPublic          AccessStatus = "public"
	AccessStatusApproved        AccessStatus = "approved"
	AccessStatusPending         AccessStatus = "pending"
	AccessStatusDeclined        AccessStatus = "declined"
	AccessStatusNone            AccessStatus = "none"
	AccessStatusUnauthenticated AccessStatus = "unauthenticated"
)

// AccessDecision is computed fresh on every read and never persisted;
// ownership, collaboration and request state can all change between calls.
type AccessDecision struct {
	MemorialID     int32                `json:"memorial_id"`
	IsPublic       bool                 `json:"is_public"`
	IsOwner        bool                 `json:"is_owner"`
	IsCollaborator bool                 `json:"is_collaborator"`
	RequestStatus  *AccessRequestStatus `json:"request_status,omitempty"`
	CanView        bool                 `json:"can_view"`
	AccessStatus   AccessStatus         `json:"access_status"`
}
