package models

import (
	"time"
)

// Folder groups documents under a client and optionally a teamspace.
type Folder struct {
	ID                 string     `json:"id" db:"id"`
	ClientID           string     `json:"client_id" db:"client_id"`
	TeamspaceID        *string    `json:"teamspace_id" db:"teamspace_id"` // NULL = not in a teamspace
	Name               string     `json:"name" db:"name"`
	NoOfDocuments      int        `json:"no_of_documents" db:"no_of_documents"`
	IsTrained          bool       `json:"is_trained" db:"is_trained"`
	ReTrainingRequired bool       `json:"re_training_required" db:"re_training_required"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt          *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}
