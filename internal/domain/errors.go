package domain

import "errors"

// Sentinel errors for the domain layer. These provide consistent, checkable
// errors for common failures across modules.
var (
	ErrNotFound         = errors.New("requested resource not found")
	ErrImageRequired    = errors.New("an image is required")
	ErrImageTooLarge    = errors.New("image exceeds the upload limit")
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrRequestInFlight  = errors.New("a request is already in progress")
	ErrEmptyMessage     = errors.New("message is empty")
)
