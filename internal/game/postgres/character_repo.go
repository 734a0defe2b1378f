// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CharacterForge Contributors

// Package postgres implements the game repositories using PostgreSQL.
package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/characterforge/characterforge/internal/game"
)

// DB is the subset of pgxpool.Pool the repositories use. Declared as an
// interface so tests can substitute a pgxmock pool.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const characterColumns = `
	id, owner_id, name, level, class_id, species_id,
	strength, dexterity, constitution, intelligence, wisdom, charisma,
	current_hp, max_hp, temp_hp, inventory, spells, resources, created_at`

// CharacterRepository implements game.CharacterRepository using PostgreSQL.
type CharacterRepository struct {
	db DB
}

// NewCharacterRepository creates a new PostgreSQL character repository.
func NewCharacterRepository(db DB) *CharacterRepository {
	return &CharacterRepository{db: db}
}

// Create persists a new character.
// Callers must validate the character before calling this method.
func (r *CharacterRepository) Create(ctx context.Context, char *game.Character) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO characters (`+characterColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`,
		char.ID.String(),
		char.OwnerID.String(),
		char.Name,
		char.Level,
		char.ClassID.String(),
		char.SpeciesID.String(),
		char.Abilities.Strength,
		char.Abilities.Dexterity,
		char.Abilities.Constitution,
		char.Abilities.Intelligence,
		char.Abilities.Wisdom,
		char.Abilities.Charisma,
		char.CurrentHP,
		char.MaxHP,
		char.TempHP,
		rawOrDefault(char.Inventory, `[]`),
		rawOrDefault(char.Spells, `[]`),
		rawOrDefault(char.Resources, `{}`),
		char.CreatedAt,
	)
	if err != nil {
		return oops.Code("CHARACTER_CREATE_FAILED").With("id", char.ID.String()).Wrap(err)
	}
	return nil
}

// Get retrieves a character by ID.
func (r *CharacterRepository) Get(ctx context.Context, id ulid.ULID) (*game.Character, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+characterColumns+`
		FROM characters WHERE id = $1
	`, id.String())
	char, err := scanCharacterRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("CHARACTER_NOT_FOUND").With("id", id.String()).Wrap(game.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("CHARACTER_GET_FAILED").With("id", id.String()).Wrap(err)
	}
	return char, nil
}

// ListByOwner retrieves all characters owned by a user, ordered by name.
func (r *CharacterRepository) ListByOwner(ctx context.Context, ownerID ulid.ULID) ([]*game.Character, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+characterColumns+`
		FROM characters WHERE owner_id = $1
		ORDER BY name
	`, ownerID.String())
	if err != nil {
		return nil, oops.Code("CHARACTER_QUERY_FAILED").With("owner_id", ownerID.String()).Wrap(err)
	}
	defer rows.Close()

	var chars []*game.Character
	for rows.Next() {
		char, scanErr := scanCharacterRow(rows)
		if scanErr != nil {
			return nil, oops.Code("CHARACTER_SCAN_FAILED").Wrap(scanErr)
		}
		chars = append(chars, char)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("CHARACTER_QUERY_FAILED").With("owner_id", ownerID.String()).Wrap(err)
	}
	return chars, nil
}

// Delete removes a character by ID.
func (r *CharacterRepository) Delete(ctx context.Context, id ulid.ULID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM characters WHERE id = $1`, id.String())
	if err != nil {
		return oops.Code("CHARACTER_DELETE_FAILED").With("id", id.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("CHARACTER_NOT_FOUND").With("id", id.String()).Wrap(game.ErrNotFound)
	}
	return nil
}

// scanCharacterRow scans a single row into a Character.
// Callers are responsible for handling pgx.ErrNoRows.
func scanCharacterRow(row pgx.Row) (*game.Character, error) {
	var (
		c            game.Character
		idStr        string
		ownerIDStr   string
		classIDStr   string
		speciesIDStr string
		inventory    []byte
		spells       []byte
		resources    []byte
	)

	err := row.Scan(
		&idStr,
		&ownerIDStr,
		&c.Name,
		&c.Level,
		&classIDStr,
		&speciesIDStr,
		&c.Abilities.Strength,
		&c.Abilities.Dexterity,
		&c.Abilities.Constitution,
		&c.Abilities.Intelligence,
		&c.Abilities.Wisdom,
		&c.Abilities.Charisma,
		&c.CurrentHP,
		&c.MaxHP,
		&c.TempHP,
		&inventory,
		&spells,
		&resources,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("CHARACTER_SCAN_FAILED").With("operation", "scan character").Wrap(err)
	}

	if c.ID, err = parseULIDField(idStr, "id"); err != nil {
		return nil, err
	}
	if c.OwnerID, err = parseULIDField(ownerIDStr, "owner_id"); err != nil {
		return nil, err
	}
	if c.ClassID, err = parseULIDField(classIDStr, "class_id"); err != nil {
		return nil, err
	}
	if c.SpeciesID, err = parseULIDField(speciesIDStr, "species_id"); err != nil {
		return nil, err
	}

	c.Inventory = json.RawMessage(inventory)
	c.Spells = json.RawMessage(spells)
	c.Resources = json.RawMessage(resources)

	return &c, nil
}

// parseULIDField parses a ULID string, wrapping errors with the field name.
func parseULIDField(s, field string) (ulid.ULID, error) {
	id, err := ulid.Parse(s)
	if err != nil {
		return ulid.ULID{}, oops.Code("CHARACTER_INVALID_ID").
			With("operation", "parse "+field).
			With(field, s).
			Wrap(err)
	}
	return id, nil
}

// rawOrDefault returns the raw JSON document, or def when it is empty.
func rawOrDefault(raw json.RawMessage, def string) []byte {
	if len(raw) == 0 {
		return []byte(def)
	}
	return raw
}

// Compile-time interface check.
var _ game.CharacterRepository = (*CharacterRepository)(nil)
