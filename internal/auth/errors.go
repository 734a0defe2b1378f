// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CharacterForge Contributors

package auth

import "errors"

// Sentinel errors for the authentication domain. Repositories and services
// wrap these with oops for structured context; callers match with errors.Is.
var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials is returned when a login fails. Unknown
	// username and wrong password are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUnauthenticated is returned when a bearer token is missing,
	// invalid, expired, or its subject no longer resolves to a user.
	// All of those cases collapse to this one error so the response
	// never leaks which check failed.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrDuplicateUsername is returned when the username is already taken.
	ErrDuplicateUsername = errors.New("username already registered")

	// ErrDuplicateEmail is returned when the email is already taken.
	ErrDuplicateEmail = errors.New("email already registered")
)
