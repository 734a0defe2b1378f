// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CharacterForge Contributors

//go:build integration

package storage_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/characterforge/characterforge/internal/auth"
)

var _ = Describe("UserRepository", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
		cleanupAll(ctx, env.pool)
	})

	Describe("Create", func() {
		It("persists all user fields", func() {
			user := createTestUser("alice")

			err := env.Users.Create(ctx, user)
			Expect(err).NotTo(HaveOccurred())

			got, err := env.Users.GetByID(ctx, user.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Username).To(Equal("alice"))
			Expect(got.Email).To(Equal("alice@example.com"))
			Expect(got.PasswordHash).To(Equal("$argon2id$test$hash"))
			Expect(got.FailedAttempts).To(Equal(0))
			Expect(got.LockedUntil).To(BeNil())
		})

		It("rejects a duplicate username", func() {
			Expect(env.Users.Create(ctx, createTestUser("alice"))).To(Succeed())

			dup := createTestUser("alice")
			dup.Email = "other@example.com"

			err := env.Users.Create(ctx, dup)
			Expect(err).To(MatchError(auth.ErrDuplicateUsername))
		})

		It("rejects a duplicate email", func() {
			Expect(env.Users.Create(ctx, createTestUser("alice"))).To(Succeed())

			dup := createTestUser("alicia")
			dup.Email = "alice@example.com"

			err := env.Users.Create(ctx, dup)
			Expect(err).To(MatchError(auth.ErrDuplicateEmail))
		})

		It("treats usernames as case sensitive", func() {
			Expect(env.Users.Create(ctx, createTestUser("alice"))).To(Succeed())

			other := createTestUser("Alice")
			other.Email = "upper@example.com"
			Expect(env.Users.Create(ctx, other)).To(Succeed())

			_, err := env.Users.GetByUsername(ctx, "ALICE")
			Expect(err).To(MatchError(auth.ErrNotFound))
		})
	})

	Describe("GetByUsername", func() {
		It("finds an exact match", func() {
			user := createTestUser("bob")
			Expect(env.Users.Create(ctx, user)).To(Succeed())

			got, err := env.Users.GetByUsername(ctx, "bob")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.ID).To(Equal(user.ID))
		})

		It("reports absence as ErrNotFound", func() {
			_, err := env.Users.GetByUsername(ctx, "nobody")
			Expect(err).To(MatchError(auth.ErrNotFound))
		})
	})

	Describe("Update", func() {
		It("persists lockout state round trip", func() {
			user := createTestUser("carol")
			Expect(env.Users.Create(ctx, user)).To(Succeed())

			until := auth.ComputeLockoutTime(7)
			Expect(until).NotTo(BeNil())
			user.FailedAttempts = 7
			user.LockedUntil = until
			Expect(env.Users.Update(ctx, user)).To(Succeed())

			got, err := env.Users.GetByID(ctx, user.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.FailedAttempts).To(Equal(7))
			Expect(got.LockedUntil).NotTo(BeNil())
			Expect(*got.LockedUntil).To(BeTemporally("~", *until, time.Millisecond))
		})

		It("reports a missing user as ErrNotFound", func() {
			ghost := createTestUser("ghost")
			Expect(env.Users.Update(ctx, ghost)).To(MatchError(auth.ErrNotFound))
		})
	})

	Describe("Delete", func() {
		It("removes the user", func() {
			user := createTestUser("dave")
			Expect(env.Users.Create(ctx, user)).To(Succeed())

			Expect(env.Users.Delete(ctx, user.ID)).To(Succeed())

			_, err := env.Users.GetByID(ctx, user.ID)
			Expect(err).To(MatchError(auth.ErrNotFound))
		})
	})
})
