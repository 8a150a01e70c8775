package session

import "errors"

var (
	// ErrLocalStoreRequired is returned when a local store is not provided.
	ErrLocalStoreRequired = errors.New("local store required")

	// ErrInvalidCredentials is returned when no user matches a login.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUserNotFound is returned when a user id is unknown.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateUsername is returned when a username is already taken.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrCorruptState is returned when persisted session state cannot be decoded.
	ErrCorruptState = errors.New("corrupt session state")
)
