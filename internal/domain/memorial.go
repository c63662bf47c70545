package domain

import "time"

type MemorialStatus string

const (
	MemorialStatusActive   MemorialStatus = "ACTIVE"
	MemorialStatusPending  MemorialStatus = "PENDING"
	MemorialStatusArchived MemorialStatus = "ARCHIVED"
	MemorialStatusDeleted  MemorialStatus = "DELETED"
)

type Memorial struct {
	ID        int32          `json:"id"`
	Slug      string         `json:"slug"`
	Title     string         `json:"title"`
	Epitaph   string         `json:"epitaph,omitempty"`
	Biography string         `json:"biography,omitempty"`
	BornOn    *time.Time     `json:"born_on,omitempty"`
	PassedOn  *time.Time     `json:"passed_on,omitempty"`
	CreatedBy int32          `json:"created_by"`
	IsPublic  bool           `json:"is_public"`
	Status    MemorialStatus `json:"status"`
	CreatedOn time.Time      `json:"created_on"`
	UpdatedOn time.Time      `json:"updated_on"`
}

type PhotoStatus string

const (
	PhotoStatusPending   PhotoStatus = "PENDING"
	PhotoStatusConfirmed PhotoStatus = "CONFIRMED"
)

type MemorialPhoto struct {
	ID         int32       `json:"id"`
	MemorialID int32       `json:"memorial_id"`
	UploadedBy int32       `json:"uploaded_by"`
	StorageKey string      `json:"storage_key"`
	Caption    string      `json:"caption,omitempty"`
	IsPrimary  bool        `json:"is_primary"`
	Status     PhotoStatus `json:"status"`
	CreatedOn  time.Time   `json:"created_on"`
}
