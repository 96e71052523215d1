package domain

import "errors"

// Common domain errors
var (
	ErrTransferFailed   = errors.New("transfer failed")
	ErrEmptyTransfer    = errors.New("transfer completed with no data")
	ErrCacheUnavailable = errors.New("cache directory unavailable")
	ErrInvalidContent   = errors.New("invalid content item")
)
