package model

import (
	"errors"
)

// Errors returned by the storage drivers and the service.
var (
	ErrPostNotFound  = errors.New("blog post not found")
	ErrInvalidPostID = errors.New("invalid blog post id")
	ErrInvalidPost   = errors.New("blog post failed schema validation")
)

// RequestError is a client mistake in the request body or path.
// Message is sent back verbatim.
type RequestError struct {
	Field   string
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

// IsNotFound reports whether err means the addressed post does not exist,
// including ids that can never exist because they are malformed.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPostNotFound) || errors.Is(err, ErrInvalidPostID)
}
