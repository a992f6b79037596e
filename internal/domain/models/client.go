package models

import (
	"time"
)

// Client is the tenant root. Teamspaces, folders and documents all hang
// off a client, directly or transitively.
type Client struct {
	ID            string     `json:"id" db:"id"`
	Name          string     `json:"name" db:"name"`
	NoOfDocuments int        `json:"no_of_documents" db:"no_of_documents"`
	NoOfFolders   int        `json:"no_of_folders" db:"no_of_folders"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}
