// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CharacterForge Contributors

package game

import (
	"context"

	"github.com/oklog/ulid/v2"
)

// CharacterClass is immutable reference data. HitDie feeds the hit-point
// computation (e.g. 10 for a Fighter).
type CharacterClass struct {
	ID             ulid.ULID
	Name           string
	HitDie         int
	PrimaryAbility string
}

// Species is immutable reference data referenced, never owned, by
// characters.
type Species struct {
	ID          ulid.ULID
	Name        string
	Description string
	Speed       int
	Size        string
}

// ClassRepository manages class reference data.
type ClassRepository interface {
	// Create stores a class. Used by seeding only.
	Create(ctx context.Context, class *CharacterClass) error

	// Get retrieves a class by ID. Returns ErrClassNotFound if absent.
	Get(ctx context.Context, id ulid.ULID) (*CharacterClass, error)

	// List returns all classes ordered by name.
	List(ctx context.Context) ([]*CharacterClass, error)
}

// SpeciesRepository manages species reference data.
type SpeciesRepository interface {
	// Create stores a species. Used by seeding only.
	Create(ctx context.Context, species *Species) error

	// Get retrieves a species by ID. Returns ErrSpeciesNotFound if absent.
	Get(ctx context.Context, id ulid.ULID) (*Species, error)

	// List returns all species ordered by name.
	List(ctx context.Context) ([]*Species, error)
}

// CharacterRepository manages character persistence.
type CharacterRepository interface {
	// Create persists a new character.
	Create(ctx context.Context, char *Character) error

	// Get retrieves a character by ID regardless of owner.
	// Ownership scoping happens in CharacterService.
	Get(ctx context.Context, id ulid.ULID) (*Character, error)

	// ListByOwner returns all characters owned by a user, ordered by name.
	ListByOwner(ctx context.Context, ownerID ulid.ULID) ([]*Character, error)

	// Delete removes a character by ID.
	Delete(ctx context.Context, id ulid.ULID) error
}
