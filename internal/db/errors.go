package db

import "errors"

// Domain-level database error sentinels.
var (
	ErrInvalidLookup = errors.New("lookup keyword and outcome are required")
)
