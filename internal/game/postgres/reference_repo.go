// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CharacterForge Contributors

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/characterforge/characterforge/internal/game"
)

// ClassRepository implements game.ClassRepository using PostgreSQL.
type ClassRepository struct {
	db DB
}

// NewClassRepository creates a new PostgreSQL class repository.
func NewClassRepository(db DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// Create stores a class.
func (r *ClassRepository) Create(ctx context.Context, class *game.CharacterClass) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO classes (id, name, hit_die, primary_ability)
		VALUES ($1, $2, $3, $4)
	`, class.ID.String(), class.Name, class.HitDie, class.PrimaryAbility)
	if err != nil {
		return oops.Code("CLASS_CREATE_FAILED").With("name", class.Name).Wrap(err)
	}
	return nil
}

// Get retrieves a class by ID.
func (r *ClassRepository) Get(ctx context.Context, id ulid.ULID) (*game.CharacterClass, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, hit_die, primary_ability
		FROM classes WHERE id = $1
	`, id.String())

	class, err := scanClassRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("CLASS_NOT_FOUND").With("id", id.String()).Wrap(game.ErrClassNotFound)
	}
	if err != nil {
		return nil, oops.Code("CLASS_GET_FAILED").With("id", id.String()).Wrap(err)
	}
	return class, nil
}

// List returns all classes ordered by name.
func (r *ClassRepository) List(ctx context.Context) ([]*game.CharacterClass, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, hit_die, primary_ability
		FROM classes ORDER BY name
	`)
	if err != nil {
		return nil, oops.Code("CLASS_QUERY_FAILED").Wrap(err)
	}
	defer rows.Close()

	var classes []*game.CharacterClass
	for rows.Next() {
		class, scanErr := scanClassRow(rows)
		if scanErr != nil {
			return nil, oops.Code("CLASS_SCAN_FAILED").Wrap(scanErr)
		}
		classes = append(classes, class)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("CLASS_QUERY_FAILED").Wrap(err)
	}
	return classes, nil
}

func scanClassRow(row pgx.Row) (*game.CharacterClass, error) {
	var (
		c     game.CharacterClass
		idStr string
	)
	if err := row.Scan(&idStr, &c.Name, &c.HitDie, &c.PrimaryAbility); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("CLASS_SCAN_FAILED").Wrap(err)
	}
	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("CLASS_INVALID_ID").With("id", idStr).Wrap(err)
	}
	c.ID = id
	return &c, nil
}

// SpeciesRepository implements game.SpeciesRepository using PostgreSQL.
type SpeciesRepository struct {
	db DB
}

// NewSpeciesRepository creates a new PostgreSQL species repository.
func NewSpeciesRepository(db DB) *SpeciesRepository {
	return &SpeciesRepository{db: db}
}

// Create stores a species.
func (r *SpeciesRepository) Create(ctx context.Context, species *game.Species) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO species (id, name, description, speed, size)
		VALUES ($1, $2, $3, $4, $5)
	`, species.ID.String(), species.Name, species.Description, species.Speed, species.Size)
	if err != nil {
		return oops.Code("SPECIES_CREATE_FAILED").With("name", species.Name).Wrap(err)
	}
	return nil
}

// Get retrieves a species by ID.
func (r *SpeciesRepository) Get(ctx context.Context, id ulid.ULID) (*game.Species, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, description, speed, size
		FROM species WHERE id = $1
	`, id.String())

	species, err := scanSpeciesRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("SPECIES_NOT_FOUND").With("id", id.String()).Wrap(game.ErrSpeciesNotFound)
	}
	if err != nil {
		return nil, oops.Code("SPECIES_GET_FAILED").With("id", id.String()).Wrap(err)
	}
	return species, nil
}

// List returns all species ordered by name.
func (r *SpeciesRepository) List(ctx context.Context) ([]*game.Species, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, description, speed, size
		FROM species ORDER BY name
	`)
	if err != nil {
		return nil, oops.Code("SPECIES_QUERY_FAILED").Wrap(err)
	}
	defer rows.Close()

	var all []*game.Species
	for rows.Next() {
		species, scanErr := scanSpeciesRow(rows)
		if scanErr != nil {
			return nil, oops.Code("SPECIES_SCAN_FAILED").Wrap(scanErr)
		}
		all = append(all, species)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("SPECIES_QUERY_FAILED").Wrap(err)
	}
	return all, nil
}

func scanSpeciesRow(row pgx.Row) (*game.Species, error) {
	var (
		s     game.Species
		idStr string
	)
	if err := row.Scan(&idStr, &s.Name, &s.Description, &s.Speed, &s.Size); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("SPECIES_SCAN_FAILED").Wrap(err)
	}
	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("SPECIES_INVALID_ID").With("id", idStr).Wrap(err)
	}
	s.ID = id
	return &s, nil
}

// Compile-time interface checks.
var (
	_ game.ClassRepository   = (*ClassRepository)(nil)
	_ game.SpeciesRepository = (*SpeciesRepository)(nil)
)
