package storage

import "errors"

var (
	// ErrNotFound indicates that the requested record, attachment or
	// notification does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateKey indicates an id that is already stored.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrStorageClosed indicates that the storage backend is closed.
	ErrStorageClosed = errors.New("storage is closed")

	// ErrSerializationFailed indicates a stored value that could not be
	// encoded or decoded.
	ErrSerializationFailed = errors.New("serialization failed")

	// ErrTruncatedData indicates an empty stored value.
	ErrTruncatedData = errors.New("truncated data")
)
