package models

import (
	"time"
)

// Recommendation actions as stored on the row. The raw updation type
// from the recommender is preserved; display mapping happens in the
// service layer.
const (
	ActionNewSection = "new_section"
	ActionAdd        = "add"
	ActionReplace    = "replace"
)

// RecommendationPayload is the typed form of one recommender result
// entry. The external service returns loosely shaped JSON; it is
// validated into this struct at the ingestion boundary.
type RecommendationPayload struct {
	GeneratedText  string  `json:"generated_text"`
	PreviousString string  `json:"previous_string"`
	RelevanceScore float64 `json:"relevance_score"`
	Heading1       string  `json:"section_main_heading_1"`
	Heading2       string  `json:"section_main_heading_2"`
	Heading3       string  `json:"section_main_heading_3"`
	Heading4       string  `json:"section_main_heading_4"`
	UpdationType   string  `json:"updation_type"`
	DocumentID     string  `json:"document_id"`
}

// Recommendation is one AI-proposed edit to a document section, tied to
// exactly one byte and one document.
type Recommendation struct {
	ID                   string                `json:"id" db:"id"`
	ByteID               string                `json:"byte_id" db:"byte_id"`
	DocumentID           string                `json:"document_id" db:"document_id"`
	Payload              RecommendationPayload `json:"payload" db:"payload"` // stored as JSONB
	RecommendationAction string                `json:"recommendation_action" db:"recommendation_action"`
	CreatedAt            time.Time             `json:"created_at" db:"created_at"`
}

// DisplayAction maps the raw action onto the two-valued display form
// shown to users: new sections and additions are "Add", everything
// else is "Replace".
func (r *Recommendation) DisplayAction() string {
	switch r.RecommendationAction {
	case ActionNewSection, ActionAdd:
		return "Add"
	default:
		return "Replace"
	}
}

// RecommendationGroup is the per-document grouping returned when a
// byte's unresolved recommendations are listed.
type RecommendationGroup struct {
	DocumentID      string               `json:"document_id"`
	DocumentName    string               `json:"document_name,omitempty"`
	Recommendations []RecommendationView `json:"recommendations"`
}

// RecommendationView is the display shape of one unresolved
// recommendation.
type RecommendationView struct {
	ID             string `json:"id"`
	Action         string `json:"action"` // "Add" or "Replace"
	GeneratedText  string `json:"generated_text"`
	PreviousString string `json:"previous_string"` // empty when relevance score is zero
	Heading1       string `json:"section_main_heading_1"`
	Heading2       string `json:"section_main_heading_2"`
	Heading3       string `json:"section_main_heading_3"`
	Heading4       string `json:"section_main_heading_4"`
}
