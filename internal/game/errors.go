// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CharacterForge Contributors

package game

import (
	"errors"
	"fmt"
)

// Sentinel errors for the character domain.
var (
	// ErrNotFound is returned when a character does not exist or is not
	// owned by the acting user. The two cases are deliberately
	// indistinguishable so record existence never leaks across owners.
	ErrNotFound = errors.New("character not found")

	// ErrClassNotFound is returned when a referenced class does not exist.
	ErrClassNotFound = errors.New("class not found")

	// ErrSpeciesNotFound is returned when a referenced species does not exist.
	ErrSpeciesNotFound = errors.New("species not found")
)

// ValidationError represents an input validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
