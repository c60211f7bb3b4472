package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when a unique key is already taken.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInUse is returned when deleting an entity other rows still reference.
	ErrInUse = errors.New("entity is still referenced")
)
