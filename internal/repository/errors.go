// Package repository defines data access interfaces for Lit Up.
package repository

import "errors"

// Repository errors
var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness constraint was violated.
	ErrConflict = errors.New("conflict")

	// ErrUnsupportedDriver indicates the configured database driver is unknown.
	ErrUnsupportedDriver = errors.New("unsupported database driver")
)
