package ingest

import (
	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer strips dangerous HTML before documents are stored or
// diffed. Thread-safe for concurrent use.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer creates a sanitizer with a UGC policy: common formatting
// survives, scripts, event handlers and javascript: URLs do not.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.UGCPolicy()}
}

// Sanitize removes dangerous HTML while preserving safe content.
func (s *Sanitizer) Sanitize(html string) string {
	return s.policy.Sanitize(html)
}
