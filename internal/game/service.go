// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CharacterForge Contributors

package game

import (
	"context"
	"errors"
	"log/slog"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// CharacterService coordinates character creation and ownership-scoped
// access. Every read and mutation is evaluated against the acting
// owner; a character owned by someone else is reported with the same
// not-found shape as a nonexistent one.
type CharacterService struct {
	chars   CharacterRepository
	classes ClassRepository
	species SpeciesRepository
	logger  *slog.Logger
}

// NewCharacterService creates a new CharacterService.
func NewCharacterService(chars CharacterRepository, classes ClassRepository, species SpeciesRepository) (*CharacterService, error) {
	return NewCharacterServiceWithLogger(chars, classes, species, slog.Default())
}

// NewCharacterServiceWithLogger creates a new CharacterService with an explicit logger.
func NewCharacterServiceWithLogger(chars CharacterRepository, classes ClassRepository, species SpeciesRepository, logger *slog.Logger) (*CharacterService, error) {
	if chars == nil {
		return nil, oops.Code("CHARACTER_SERVICE_INVALID").Errorf("characters repository is required")
	}
	if classes == nil {
		return nil, oops.Code("CHARACTER_SERVICE_INVALID").Errorf("classes repository is required")
	}
	if species == nil {
		return nil, oops.Code("CHARACTER_SERVICE_INVALID").Errorf("species repository is required")
	}
	if logger == nil {
		return nil, oops.Code("CHARACTER_SERVICE_INVALID").Errorf("logger is required")
	}
	return &CharacterService{
		chars:   chars,
		classes: classes,
		species: species,
		logger:  logger,
	}, nil
}

// CreateCharacterParams carries the caller-supplied fields for Create.
type CreateCharacterParams struct {
	Name      string
	ClassID   ulid.ULID
	SpeciesID ulid.ULID
	Level     int
	Abilities AbilityScores
}

// Create creates a character for the owner. The referenced class and
// species must exist; MaxHP is computed from the class hit die, the
// constitution score, and the level, and CurrentHP starts equal to it.
// Either the record is persisted with all derived fields set, or
// nothing is.
func (s *CharacterService) Create(ctx context.Context, ownerID ulid.ULID, params CreateCharacterParams) (*Character, error) {
	class, err := s.classes.Get(ctx, params.ClassID)
	if err != nil {
		if errors.Is(err, ErrClassNotFound) {
			return nil, err
		}
		return nil, oops.Code("CHARACTER_CREATE_FAILED").
			With("class_id", params.ClassID.String()).
			Wrap(err)
	}

	if _, err := s.species.Get(ctx, params.SpeciesID); err != nil {
		if errors.Is(err, ErrSpeciesNotFound) {
			return nil, err
		}
		return nil, oops.Code("CHARACTER_CREATE_FAILED").
			With("species_id", params.SpeciesID.String()).
			Wrap(err)
	}

	char, err := NewCharacter(ownerID, params.Name, params.Level, params.ClassID, params.SpeciesID, params.Abilities)
	if err != nil {
		return nil, oops.Code("CHARACTER_INVALID").With("name", params.Name).Wrap(err)
	}

	char.MaxHP = MaxHP(class.HitDie, params.Abilities.Constitution, params.Level)
	char.CurrentHP = char.MaxHP

	if err := s.chars.Create(ctx, char); err != nil {
		return nil, oops.Code("CHARACTER_CREATE_FAILED").
			With("id", char.ID.String()).
			Wrap(err)
	}

	s.logger.Info("character created",
		"character_id", char.ID.String(),
		"owner_id", ownerID.String(),
		"max_hp", char.MaxHP,
	)
	return char, nil
}

// Get returns the character only if it exists and is owned by ownerID.
func (s *CharacterService) Get(ctx context.Context, ownerID, characterID ulid.ULID) (*Character, error) {
	char, err := s.chars.Get(ctx, characterID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, oops.Code("CHARACTER_GET_FAILED").
			With("id", characterID.String()).
			Wrap(err)
	}
	if char.OwnerID.Compare(ownerID) != 0 {
		// Ownership mismatch is reported exactly like absence.
		return nil, oops.Code("CHARACTER_NOT_FOUND").
			With("id", characterID.String()).
			Wrap(ErrNotFound)
	}
	return char, nil
}

// List returns all characters owned by ownerID.
func (s *CharacterService) List(ctx context.Context, ownerID ulid.ULID) ([]*Character, error) {
	chars, err := s.chars.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, oops.Code("CHARACTER_LIST_FAILED").
			With("owner_id", ownerID.String()).
			Wrap(err)
	}
	return chars, nil
}

// Delete removes the character only if it exists and is owned by ownerID.
func (s *CharacterService) Delete(ctx context.Context, ownerID, characterID ulid.ULID) error {
	// Ownership check first so a foreign character is never deleted and
	// the caller sees the same not-found shape either way.
	if _, err := s.Get(ctx, ownerID, characterID); err != nil {
		return err
	}
	if err := s.chars.Delete(ctx, characterID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return oops.Code("CHARACTER_DELETE_FAILED").
			With("id", characterID.String()).
			Wrap(err)
	}
	s.logger.Info("character deleted",
		"character_id", characterID.String(),
		"owner_id", ownerID.String(),
	)
	return nil
}

// Classes returns all class reference data.
func (s *CharacterService) Classes(ctx context.Context) ([]*CharacterClass, error) {
	classes, err := s.classes.List(ctx)
	if err != nil {
		return nil, oops.Code("CLASS_LIST_FAILED").Wrap(err)
	}
	return classes, nil
}

// Species returns all species reference data.
func (s *CharacterService) Species(ctx context.Context) ([]*Species, error) {
	species, err := s.species.List(ctx)
	if err != nil {
		return nil, oops.Code("SPECIES_LIST_FAILED").Wrap(err)
	}
	return species, nil
}
