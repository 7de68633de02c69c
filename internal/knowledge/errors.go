package knowledge

import "errors"

// Knowledge base error sentinels.
var (
	// Query errors
	ErrInvalidQuery = errors.New("query must be a non-empty string")

	// Entry errors
	ErrInvalidKeyword    = errors.New("keyword must not be empty after normalization")
	ErrInvalidConfidence = errors.New("confidence must be in (0, 1]")
)
