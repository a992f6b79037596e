package config

const (
	// MaxNameLength is the maximum length for client, teamspace, folder
	// and document names. Limited to 255 to fit in PostgreSQL
	// VARCHAR(255).
	MaxNameLength = 255

	// MaxRequestTextLength is the maximum length of a byte's free-text
	// change request. Long requests degrade recommendation quality, so
	// the boundary rejects them early.
	MaxRequestTextLength = 5000
)
