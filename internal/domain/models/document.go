package models

import (
	"time"
)

// Document is one knowledge-base document. Content lives in object
// storage; the row keeps the location triple (raw upload, vector-db
// path, parsed/sentenced path) plus a monotonic version number.
type Document struct {
	ID                 string     `json:"id" db:"id"`
	ClientID           string     `json:"client_id" db:"client_id"`
	FolderID           *string    `json:"folder_id" db:"folder_id"`       // NULL = root level
	TeamspaceID        *string    `json:"teamspace_id" db:"teamspace_id"` // NULL = not in a teamspace
	Name               string     `json:"name" db:"name"`
	RawURL             string     `json:"raw_url" db:"raw_url"`
	VectorDBPath       string     `json:"vector_db_path" db:"vector_db_path"`
	ParsedDocPath      string     `json:"parsed_doc_path" db:"parsed_doc_path"`
	VersionNumber      int        `json:"version_number" db:"version_number"`
	IsTrained          bool       `json:"is_trained" db:"is_trained"`
	ReTrainingRequired bool       `json:"re_training_required" db:"re_training_required"`
	CreatedBy          string     `json:"created_by" db:"created_by"`
	UpdatedBy          string     `json:"updated_by" db:"updated_by"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt          *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}
