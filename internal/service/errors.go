// Package service provides business logic services for Lit Up.
package service

import "errors"

// Common service errors.
var (
	// Validation errors
	ErrInvalidID = errors.New("invalid id: must be a UUID")

	// Ingest errors
	ErrIngestDisabled = errors.New("ingest is disabled")
	ErrIngestLocked   = errors.New("song is being ingested by another worker")
	ErrOriginFetch    = errors.New("failed to fetch origin media")

	// General errors
	ErrInternalError = errors.New("internal server error")
)
