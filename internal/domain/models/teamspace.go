package models

import (
	"time"
)

// Teamspace groups folders and documents within a client. It is the
// unit the external recommender is scoped to, so its training state is
// tracked here.
type Teamspace struct {
	ID                 string     `json:"id" db:"id"`
	ClientID           string     `json:"client_id" db:"client_id"`
	Name               string     `json:"name" db:"name"`
	IsTrained          bool       `json:"is_trained" db:"is_trained"`
	ReTrainingRequired bool       `json:"re_training_required" db:"re_training_required"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt          *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}
