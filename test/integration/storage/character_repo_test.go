// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CharacterForge Contributors

//go:build integration

package storage_test

import (
	"context"

	"github.com/oklog/ulid/v2"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/characterforge/characterforge/internal/auth"
	"github.com/characterforge/characterforge/internal/game"
)

var _ = Describe("CharacterRepository", func() {
	var (
		ctx     context.Context
		owner   *auth.User
		fighter *game.CharacterClass
		human   *game.Species
	)

	BeforeEach(func() {
		ctx = context.Background()
		cleanupAll(ctx, env.pool)

		owner = createTestUser("owner")
		Expect(env.Users.Create(ctx, owner)).To(Succeed())

		fighter = createTestClass("Fighter", 10)
		Expect(env.Classes.Create(ctx, fighter)).To(Succeed())

		human = createTestSpecies("Human")
		Expect(env.Species.Create(ctx, human)).To(Succeed())
	})

	Describe("Create", func() {
		It("persists all character fields", func() {
			char := createTestCharacter(owner.ID, fighter.ID, human.ID, "Aldric")
			char.Abilities.Constitution = 14
			char.MaxHP = 12
			char.CurrentHP = 12

			err := env.Characters.Create(ctx, char)
			Expect(err).NotTo(HaveOccurred())

			got, err := env.Characters.Get(ctx, char.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Name).To(Equal("Aldric"))
			Expect(got.OwnerID).To(Equal(owner.ID))
			Expect(got.ClassID).To(Equal(fighter.ID))
			Expect(got.SpeciesID).To(Equal(human.ID))
			Expect(got.Abilities.Constitution).To(Equal(14))
			Expect(got.MaxHP).To(Equal(12))
			Expect(got.CurrentHP).To(Equal(12))
			Expect(got.TempHP).To(Equal(0))
		})

		It("round trips inventory, spells, and resources JSON", func() {
			char := createTestCharacter(owner.ID, fighter.ID, human.ID, "Packrat")
			char.Inventory = []byte(`[{"name":"rope","qty":1}]`)
			char.Spells = []byte(`["light"]`)
			char.Resources = []byte(`{"rage":3}`)

			Expect(env.Characters.Create(ctx, char)).To(Succeed())

			got, err := env.Characters.Get(ctx, char.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Inventory).To(MatchJSON(`[{"name":"rope","qty":1}]`))
			Expect(got.Spells).To(MatchJSON(`["light"]`))
			Expect(got.Resources).To(MatchJSON(`{"rage":3}`))
		})

		It("rejects an unknown owner", func() {
			char := createTestCharacter(ulid.Make(), fighter.ID, human.ID, "Orphan")
			Expect(env.Characters.Create(ctx, char)).NotTo(Succeed())
		})
	})

	Describe("ListByOwner", func() {
		It("returns only the owner's characters, ordered by name", func() {
			other := createTestUser("other")
			Expect(env.Users.Create(ctx, other)).To(Succeed())

			for _, name := range []string{"Zara", "Aldric"} {
				Expect(env.Characters.Create(ctx,
					createTestCharacter(owner.ID, fighter.ID, human.ID, name))).To(Succeed())
			}
			Expect(env.Characters.Create(ctx,
				createTestCharacter(other.ID, fighter.ID, human.ID, "Foreign"))).To(Succeed())

			got, err := env.Characters.ListByOwner(ctx, owner.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(HaveLen(2))
			Expect(got[0].Name).To(Equal("Aldric"))
			Expect(got[1].Name).To(Equal("Zara"))
		})

		It("returns an empty slice for a user with no characters", func() {
			got, err := env.Characters.ListByOwner(ctx, owner.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeEmpty())
		})
	})

	Describe("Delete", func() {
		It("removes the character", func() {
			char := createTestCharacter(owner.ID, fighter.ID, human.ID, "Doomed")
			Expect(env.Characters.Create(ctx, char)).To(Succeed())

			Expect(env.Characters.Delete(ctx, char.ID)).To(Succeed())

			_, err := env.Characters.Get(ctx, char.ID)
			Expect(err).To(MatchError(game.ErrNotFound))
		})

		It("reports a missing character as ErrNotFound", func() {
			Expect(env.Characters.Delete(ctx, ulid.Make())).To(MatchError(game.ErrNotFound))
		})
	})

	Describe("deleting a user", func() {
		It("cascades to their characters", func() {
			char := createTestCharacter(owner.ID, fighter.ID, human.ID, "Bound")
			Expect(env.Characters.Create(ctx, char)).To(Succeed())

			Expect(env.Users.Delete(ctx, owner.ID)).To(Succeed())

			_, err := env.Characters.Get(ctx, char.ID)
			Expect(err).To(MatchError(game.ErrNotFound))
		})
	})

	Describe("reference data", func() {
		It("lists classes ordered by name", func() {
			Expect(env.Classes.Create(ctx, createTestClass("Wizard", 6))).To(Succeed())
			Expect(env.Classes.Create(ctx, createTestClass("Barbarian", 12))).To(Succeed())

			got, err := env.Classes.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(HaveLen(3))
			Expect(got[0].Name).To(Equal("Barbarian"))
			Expect(got[1].Name).To(Equal("Fighter"))
			Expect(got[2].Name).To(Equal("Wizard"))
		})

		It("reports a missing class as ErrClassNotFound", func() {
			_, err := env.Classes.Get(ctx, ulid.Make())
			Expect(err).To(MatchError(game.ErrClassNotFound))
		})

		It("reports a missing species as ErrSpeciesNotFound", func() {
			_, err := env.Species.Get(ctx, ulid.Make())
			Expect(err).To(MatchError(game.ErrSpeciesNotFound))
		})
	})
})
