// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CharacterForge Contributors

package game

import (
	"encoding/json"
	"fmt"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"
)

// Character name limits.
const (
	MinCharacterNameLength = 2
	MaxCharacterNameLength = 64
)

// DefaultAbilityScore is the score assumed when a caller omits one.
const DefaultAbilityScore = 10

// AbilityScores holds the six ability scores. Values are conventionally
// in [1,30]; the domain does not enforce the range numerically.
type AbilityScores struct {
	Strength     int
	Dexterity    int
	Constitution int
	Intelligence int
	Wisdom       int
	Charisma     int
}

// DefaultAbilityScores returns all six scores set to DefaultAbilityScore.
func DefaultAbilityScores() AbilityScores {
	return AbilityScores{
		Strength:     DefaultAbilityScore,
		Dexterity:    DefaultAbilityScore,
		Constitution: DefaultAbilityScore,
		Intelligence: DefaultAbilityScore,
		Wisdom:       DefaultAbilityScore,
		Charisma:     DefaultAbilityScore,
	}
}

// Character is a character record owned by exactly one user. The owner is
// fixed at creation and never changes.
//
// MaxHP is computed once at creation and is not recomputed on later
// edits. CurrentHP starts equal to MaxHP and is mutable thereafter.
type Character struct {
	ID        ulid.ULID
	OwnerID   ulid.ULID
	Name      string
	Level     int
	ClassID   ulid.ULID
	SpeciesID ulid.ULID
	Abilities AbilityScores
	CurrentHP int
	MaxHP     int
	TempHP    int
	Inventory json.RawMessage
	Spells    json.RawMessage
	Resources json.RawMessage
	CreatedAt time.Time
}

// NewCharacter creates a validated Character with a generated ID and
// empty inventory, spell list, and resource pool.
func NewCharacter(ownerID ulid.ULID, name string, level int, classID, speciesID ulid.ULID, abilities AbilityScores) (*Character, error) {
	c := &Character{
		ID:        ulid.Make(),
		OwnerID:   ownerID,
		Name:      name,
		Level:     level,
		ClassID:   classID,
		SpeciesID: speciesID,
		Abilities: abilities,
		Inventory: json.RawMessage(`[]`),
		Spells:    json.RawMessage(`[]`),
		Resources: json.RawMessage(`{}`),
		CreatedAt: time.Now(),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks that the character has required fields.
func (c *Character) Validate() error {
	if c.ID.IsZero() {
		return &ValidationError{Field: "id", Message: "cannot be zero"}
	}
	if c.OwnerID.IsZero() {
		return &ValidationError{Field: "owner_id", Message: "cannot be zero"}
	}
	if c.ClassID.IsZero() {
		return &ValidationError{Field: "class_id", Message: "cannot be zero"}
	}
	if c.SpeciesID.IsZero() {
		return &ValidationError{Field: "species_id", Message: "cannot be zero"}
	}
	if c.Level < 1 {
		return &ValidationError{Field: "level", Message: "must be at least 1"}
	}
	return ValidateCharacterName(c.Name)
}

// ValidateCharacterName checks that a character name is valid:
// non-empty, valid UTF-8, no control characters, within length limits.
func ValidateCharacterName(name string) error {
	if name == "" {
		return &ValidationError{Field: "name", Message: "cannot be empty"}
	}
	if !utf8.ValidString(name) {
		return &ValidationError{Field: "name", Message: "must be valid UTF-8"}
	}
	if utf8.RuneCountInString(name) < MinCharacterNameLength {
		return &ValidationError{Field: "name", Message: fmt.Sprintf("must be at least %d characters", MinCharacterNameLength)}
	}
	if utf8.RuneCountInString(name) > MaxCharacterNameLength {
		return &ValidationError{Field: "name", Message: fmt.Sprintf("exceeds maximum length of %d", MaxCharacterNameLength)}
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return &ValidationError{Field: "name", Message: "cannot contain control characters"}
		}
	}
	return nil
}
