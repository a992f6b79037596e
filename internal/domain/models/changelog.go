package models

import (
	"time"
)

// Resolution statuses recorded on a change log entry.
const (
	RecommendationAccepted = "ACCEPTED"
	RecommendationRejected = "REJECTED"
)

// ChangeLog is the immutable audit record of a single resolved edit:
// which document, which byte, which recommendation (if any), who made
// the change, and the structured section identity the edit applies to.
type ChangeLog struct {
	ID                     string    `json:"id" db:"id"`
	DocumentID             string    `json:"document_id" db:"document_id"`
	ByteID                 string    `json:"byte_id" db:"byte_id"`
	RecommendationID       *string   `json:"recommendation_id" db:"recommendation_id"` // NULL = manual edit
	ChangedBy              string    `json:"changed_by" db:"changed_by"`
	Heading1               string    `json:"section_main_heading_1" db:"section_main_heading_1"`
	Heading2               string    `json:"section_main_heading_2" db:"section_main_heading_2"`
	Heading3               string    `json:"section_main_heading_3" db:"section_main_heading_3"`
	Heading4               string    `json:"section_main_heading_4" db:"section_main_heading_4"`
	SectionContent         string    `json:"section_content" db:"section_content"`
	AttributeID            *string   `json:"attribute_id" db:"attribute_id"` // external attribute id, if any
	ChangeSummary          string    `json:"change_summary" db:"change_summary"`
	ChangeRequestType      string    `json:"change_request_type" db:"change_request_type"`
	IsTrained              bool      `json:"is_trained" db:"is_trained"`
	AIRecommendationStatus string    `json:"ai_recommendation_status" db:"ai_recommendation_status"`
	CreatedAt              time.Time `json:"created_at" db:"created_at"`
}

// SectionChange is one section identity as submitted by callers. The
// change log row stores a single section, so callers submit one
// SectionChange per entry.
type SectionChange struct {
	Heading1    string  `json:"section_main_heading_1"`
	Heading2    string  `json:"section_main_heading_2"`
	Heading3    string  `json:"section_main_heading_3"`
	Heading4    string  `json:"section_main_heading_4"`
	Content     string  `json:"content"`
	AttributeID *string `json:"attribute_id,omitempty"`
}
