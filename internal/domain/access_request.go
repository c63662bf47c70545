package domain

import "time"

type AccessRequestStatus string

const (
	AccessRequestStatusPending  AccessRequestStatus = "PENDING"
	AccessRequestStatusApproved AccessRequestStatus = "APPROVED"
	AccessRequestStatusDeclined AccessRequestStatus = "DECLINED"
)

// AccessRequest is one viewer's bid to see a private memorial. Requesters
// without an account are identified by email only.
type AccessRequest struct {
	ID              int32               `json:"id"`
	MemorialID      int32               `json:"memorial_id"`
	RequesterUserID *int32              `json:"requester_user_id,omitempty"`
	RequesterEmail  string              `json:"requester_email"`
	RequesterName   string              `json:"requester_name"`
	Message         string              `json:"message,omitempty"`
	Status          AccessRequestStatus `json:"status"`
	CreatedOn       time.Time           `json:"created_on"`
	UpdatedOn       time.Time           `json:"updated_on"`
	DecidedBy       *int32              `json:"decided_by,omitempty"`
	DecidedOn       *time.Time          `json:"decided_on,omitempty"`
}

// AccessRequestResult is returned from request submission. Status may be a
// request status or one of the short-circuit reasons ("public", "owner",
// "collaborator") when no row is written.
type AccessRequestResult struct {
	Status    string `json:"status"`
	RequestID int32  `json:"request_id,omitempty"`
	Already   bool   `json:"already"`
	CanView   bool   `json:"can_view"`
}
