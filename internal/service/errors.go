package service

import "errors"

// Sentinel errors shared by the services. Handlers map them onto HTTP
// statuses. Visibility failures on reads are reported as ErrNotFound so the
// existence of out-of-scope rows never leaks.
var (
	ErrNotFound         = errors.New("not found")
	ErrAccessDenied     = errors.New("access denied")
	ErrConflict         = errors.New("record already exists")
	ErrNotAuthenticated = errors.New("authentication required")
)
