// Package apperr defines sentinel errors shared across layers.
package apperr

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidFormat      = errors.New("invalid format")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrEmptyWardrobe      = errors.New("wardrobe is empty")
	ErrAIRequest          = errors.New("ai request failed")
)
