// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CharacterForge Contributors

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/characterforge/characterforge/internal/game"
)

var characterTestColumns = []string{
	"id", "owner_id", "name", "level", "class_id", "species_id",
	"strength", "dexterity", "constitution", "intelligence", "wisdom", "charisma",
	"current_hp", "max_hp", "temp_hp", "inventory", "spells", "resources", "created_at",
}

func newCharacterMock(t *testing.T) (pgxmock.PgxPoolIface, *CharacterRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewCharacterRepository(mock)
}

func testCharacter(t *testing.T) *game.Character {
	t.Helper()
	char, err := game.NewCharacter(ulid.Make(), "Aldric", 3, ulid.Make(), ulid.Make(), game.DefaultAbilityScores())
	require.NoError(t, err)
	char.MaxHP = 24
	char.CurrentHP = 24
	return char
}

func characterRow(char *game.Character) []any {
	return []any{
		char.ID.String(), char.OwnerID.String(), char.Name, char.Level,
		char.ClassID.String(), char.SpeciesID.String(),
		char.Abilities.Strength, char.Abilities.Dexterity, char.Abilities.Constitution,
		char.Abilities.Intelligence, char.Abilities.Wisdom, char.Abilities.Charisma,
		char.CurrentHP, char.MaxHP, char.TempHP,
		[]byte(char.Inventory), []byte(char.Spells), []byte(char.Resources),
		char.CreatedAt,
	}
}

func TestCharacterRepositoryCreate(t *testing.T) {
	ctx := context.Background()
	mock, repo := newCharacterMock(t)
	char := testCharacter(t)

	mock.ExpectExec("INSERT INTO characters").
		WithArgs(
			char.ID.String(), char.OwnerID.String(), char.Name, char.Level,
			char.ClassID.String(), char.SpeciesID.String(),
			char.Abilities.Strength, char.Abilities.Dexterity, char.Abilities.Constitution,
			char.Abilities.Intelligence, char.Abilities.Wisdom, char.Abilities.Charisma,
			char.CurrentHP, char.MaxHP, char.TempHP,
			[]byte(`[]`), []byte(`[]`), []byte(`{}`),
			char.CreatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(ctx, char))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCharacterRepositoryGet(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock, repo := newCharacterMock(t)
		char := testCharacter(t)

		mock.ExpectQuery("SELECT (.+) FROM characters WHERE id").
			WithArgs(char.ID.String()).
			WillReturnRows(pgxmock.NewRows(characterTestColumns).AddRow(characterRow(char)...))

		got, err := repo.Get(ctx, char.ID)
		require.NoError(t, err)
		assert.Equal(t, char.ID, got.ID)
		assert.Equal(t, char.OwnerID, got.OwnerID)
		assert.Equal(t, char.MaxHP, got.MaxHP)
		assert.JSONEq(t, `[]`, string(got.Inventory))
	})

	t.Run("missing maps to not found", func(t *testing.T) {
		mock, repo := newCharacterMock(t)
		id := ulid.Make()

		mock.ExpectQuery("SELECT (.+) FROM characters WHERE id").
			WithArgs(id.String()).
			WillReturnRows(pgxmock.NewRows(characterTestColumns))

		_, err := repo.Get(ctx, id)
		assert.ErrorIs(t, err, game.ErrNotFound)
	})
}

func TestCharacterRepositoryListByOwner(t *testing.T) {
	ctx := context.Background()

	t.Run("returns all rows for owner", func(t *testing.T) {
		mock, repo := newCharacterMock(t)
		owner := ulid.Make()

		first := testCharacter(t)
		first.OwnerID = owner
		first.Name = "Aldric"
		second := testCharacter(t)
		second.OwnerID = owner
		second.Name = "Brynn"

		mock.ExpectQuery("SELECT (.+) FROM characters WHERE owner_id").
			WithArgs(owner.String()).
			WillReturnRows(pgxmock.NewRows(characterTestColumns).
				AddRow(characterRow(first)...).
				AddRow(characterRow(second)...))

		chars, err := repo.ListByOwner(ctx, owner)
		require.NoError(t, err)
		require.Len(t, chars, 2)
		assert.Equal(t, "Aldric", chars[0].Name)
		assert.Equal(t, "Brynn", chars[1].Name)
	})

	t.Run("no rows yields empty slice", func(t *testing.T) {
		mock, repo := newCharacterMock(t)
		owner := ulid.Make()

		mock.ExpectQuery("SELECT (.+) FROM characters WHERE owner_id").
			WithArgs(owner.String()).
			WillReturnRows(pgxmock.NewRows(characterTestColumns))

		chars, err := repo.ListByOwner(ctx, owner)
		require.NoError(t, err)
		assert.Empty(t, chars)
	})
}

func TestCharacterRepositoryDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes row", func(t *testing.T) {
		mock, repo := newCharacterMock(t)
		id := ulid.Make()

		mock.ExpectExec("DELETE FROM characters").
			WithArgs(id.String()).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		assert.NoError(t, repo.Delete(ctx, id))
	})

	t.Run("zero rows maps to not found", func(t *testing.T) {
		mock, repo := newCharacterMock(t)
		id := ulid.Make()

		mock.ExpectExec("DELETE FROM characters").
			WithArgs(id.String()).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		assert.ErrorIs(t, repo.Delete(ctx, id), game.ErrNotFound)
	})
}

func TestRawOrDefault(t *testing.T) {
	assert.Equal(t, []byte(`[]`), rawOrDefault(nil, `[]`))
	assert.Equal(t, []byte(`{}`), rawOrDefault(nil, `{}`))
	assert.Equal(t, []byte(`[{"item":"sword"}]`), rawOrDefault([]byte(`[{"item":"sword"}]`), `[]`))
}

func TestScanCharacterRowTimeHandling(t *testing.T) {
	// Created-at round trips through the scan unchanged.
	mock, repo := newCharacterMock(t)
	char := testCharacter(t)
	char.CreatedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM characters WHERE id").
		WithArgs(char.ID.String()).
		WillReturnRows(pgxmock.NewRows(characterTestColumns).AddRow(characterRow(char)...))

	got, err := repo.Get(context.Background(), char.ID)
	require.NoError(t, err)
	assert.True(t, char.CreatedAt.Equal(got.CreatedAt))
}
