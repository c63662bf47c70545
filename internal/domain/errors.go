package domain

import "errors"

// Error taxonomy shared by services and the HTTP layer. Callers branch with
// errors.Is instead of matching message substrings.
var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrValidation       = errors.New("validation failed")
)
