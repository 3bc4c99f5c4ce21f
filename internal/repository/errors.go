// Package repository defines the user store and the sentinel errors shared
// with higher layers. Handlers compare against these values with errors.Is to
// pick the right HTTP status without inspecting driver-specific errors.
package repository

import "errors"

// ErrEmailExists is returned when an insert collides with the unique index on
// users.email. Handlers translate this into an HTTP 400 response.
var ErrEmailExists = errors.New("email already registered")

// ErrUsernameExists is returned when an insert collides with the unique index
// on users.username.
var ErrUsernameExists = errors.New("username already taken")

// ErrNotFound is returned when no user matches the given id, email or
// username.
var ErrNotFound = errors.New("user not found")
