package models

import (
	"time"
)

// Byte lifecycle states. Status is free-text so a byte can also carry a
// caller-supplied resolution label, but these two are the states the
// system itself assigns.
const (
	ByteStatusOpen     = "open"
	ByteStatusResolved = "resolved"
)

// Byte is a user-submitted free-text change request awaiting
// AI-generated recommendations. NoOfRecommendations tracks the
// outstanding (not yet change-logged) recommendation count and is kept
// consistent transactionally as recommendations are consumed.
type Byte struct {
	ID                          string    `json:"id" db:"id"`
	UserID                      string    `json:"user_id" db:"user_id"`
	ClientID                    string    `json:"client_id" db:"client_id"`
	DocumentID                  *string   `json:"document_id" db:"document_id"` // NULL = not scoped to one document
	Email                       *string   `json:"email,omitempty" db:"email"`
	RequestText                 string    `json:"request_text" db:"request_text"`
	Status                      string    `json:"status" db:"status"`
	NoOfRecommendations         int       `json:"no_of_recommendations" db:"no_of_recommendations"`
	IsProcessedByRecommendation bool      `json:"is_processed_by_recommendation" db:"is_processed_by_recommendation"`
	IsDeleted                   bool      `json:"is_deleted" db:"is_deleted"`
	UserFeedback                *string   `json:"user_feedback,omitempty" db:"user_feedback"`
	CreatedAt                   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt                   time.Time `json:"updated_at" db:"updated_at"`
}
