package session

import "errors"

var (
	// ErrNotFound is returned when a lookup by key matches no row.
	ErrNotFound = errors.New("row not found")
	// ErrNoPrimaryKey is returned when an operation needs a primary key but
	// the model declares none.
	ErrNoPrimaryKey = errors.New("model has no primary key")
	// ErrUnknownProfile is returned when a login profile is absent from the
	// credentials file.
	ErrUnknownProfile = errors.New("unknown login profile")
)
