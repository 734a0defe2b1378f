// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CharacterForge Contributors

package auth_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/characterforge/characterforge/internal/auth"
	"github.com/characterforge/characterforge/pkg/errutil"
)

// memUserRepo is an in-memory UserRepository for service tests.
type memUserRepo struct {
	users map[ulid.ULID]*auth.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[ulid.ULID]*auth.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *auth.User) error {
	for _, existing := range r.users {
		if existing.Username == user.Username {
			return auth.ErrDuplicateUsername
		}
		if existing.Email == user.Email {
			return auth.ErrDuplicateEmail
		}
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id ulid.ULID) (*auth.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*auth.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			cp := *user
			return &cp, nil
		}
	}
	return nil, auth.ErrNotFound
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, auth.ErrNotFound
}

func (r *memUserRepo) Update(_ context.Context, user *auth.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return auth.ErrNotFound
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) Delete(_ context.Context, id ulid.ULID) error {
	if _, ok := r.users[id]; !ok {
		return auth.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func newTestService(t *testing.T) (*auth.Service, *memUserRepo) {
	t.Helper()
	repo := newMemUserRepo()
	tokens, err := auth.NewTokenService(auth.TokenConfig{Secret: testSecret, TTL: time.Hour})
	require.NoError(t, err)
	svc, err := auth.NewService(repo, auth.NewArgon2idHasher(), tokens)
	require.NoError(t, err)
	return svc, repo
}

func TestServiceRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a user", func(t *testing.T) {
		svc, _ := newTestService(t)

		user, err := svc.Register(ctx, "alice", "alice@example.com", "swordfish")
		require.NoError(t, err)

		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.NotEmpty(t, user.PasswordHash)
		assert.NotEqual(t, "swordfish", user.PasswordHash)
	})

	t.Run("duplicate username is reported distinctly", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.Register(ctx, "alice", "alice@example.com", "swordfish")
		require.NoError(t, err)

		_, err = svc.Register(ctx, "alice", "other@example.com", "swordfish")
		assert.ErrorIs(t, err, auth.ErrDuplicateUsername)
	})

	t.Run("duplicate email is reported distinctly", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.Register(ctx, "alice", "alice@example.com", "swordfish")
		require.NoError(t, err)

		_, err = svc.Register(ctx, "bob", "alice@example.com", "swordfish")
		assert.ErrorIs(t, err, auth.ErrDuplicateEmail)
	})

	t.Run("invalid username is rejected before hashing", func(t *testing.T) {
		svc, repo := newTestService(t)

		_, err := svc.Register(ctx, "1bad", "alice@example.com", "swordfish")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "AUTH_INVALID_USERNAME")
		assert.Empty(t, repo.users)
	})

	t.Run("invalid email is rejected", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.Register(ctx, "alice", "not-an-email", "swordfish")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "AUTH_INVALID_EMAIL")
	})

	t.Run("empty password is rejected", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.Register(ctx, "alice", "alice@example.com", "")
		assert.ErrorIs(t, err, auth.ErrEmptyPassword)
	})
}

func TestServiceLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials return a verifiable token", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Register(ctx, "alice", "alice@example.com", "swordfish")
		require.NoError(t, err)

		token, user, err := svc.Login(ctx, "alice", "swordfish")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Register(ctx, "alice", "alice@example.com", "swordfish")
		require.NoError(t, err)

		_, _, err = svc.Login(ctx, "alice", "tunafish")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown username yields the same error as wrong password", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, _, err := svc.Login(ctx, "nobody", "swordfish")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("username match is case sensitive", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Register(ctx, "alice", "alice@example.com", "swordfish")
		require.NoError(t, err)

		_, _, err = svc.Login(ctx, "Alice", "swordfish")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("repeated failures lock the account", func(t *testing.T) {
		svc, repo := newTestService(t)
		registered, err := svc.Register(ctx, "alice", "alice@example.com", "swordfish")
		require.NoError(t, err)

		for range auth.LockoutThreshold {
			_, _, err = svc.Login(ctx, "alice", "wrong")
			assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
		}

		stored, err := repo.GetByID(ctx, registered.ID)
		require.NoError(t, err)
		assert.Equal(t, auth.LockoutThreshold, stored.FailedAttempts)
		assert.True(t, stored.IsLocked())

		// Even the correct password is refused while locked.
		_, _, err = svc.Login(ctx, "alice", "swordfish")
		errutil.AssertErrorCode(t, err, "AUTH_ACCOUNT_LOCKED")
	})

	t.Run("successful login resets the failure counter", func(t *testing.T) {
		svc, repo := newTestService(t)
		registered, err := svc.Register(ctx, "alice", "alice@example.com", "swordfish")
		require.NoError(t, err)

		_, _, err = svc.Login(ctx, "alice", "wrong")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

		_, _, err = svc.Login(ctx, "alice", "swordfish")
		require.NoError(t, err)

		stored, err := repo.GetByID(ctx, registered.ID)
		require.NoError(t, err)
		assert.Zero(t, stored.FailedAttempts)
	})

	t.Run("legacy hash is upgraded on successful login", func(t *testing.T) {
		repo := newMemUserRepo()
		tokens, err := auth.NewTokenService(auth.TokenConfig{Secret: testSecret, TTL: time.Hour})
		require.NoError(t, err)
		svc, err := auth.NewService(repo, &legacyAwareHasher{}, tokens)
		require.NoError(t, err)

		user, err := auth.NewUser("alice", "alice@example.com", "legacy:swordfish")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, user))

		_, _, err = svc.Login(ctx, "alice", "swordfish")
		require.NoError(t, err)

		stored, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "upgraded:swordfish", stored.PasswordHash)
	})
}

// legacyAwareHasher is a stub PasswordHasher whose "legacy:" hashes
// verify but report as needing an upgrade.
type legacyAwareHasher struct{}

func (h *legacyAwareHasher) Hash(password string) (string, error) {
	return "upgraded:" + password, nil
}

func (h *legacyAwareHasher) Verify(password, hash string) (bool, error) {
	return hash == "legacy:"+password || hash == "upgraded:"+password, nil
}

func (h *legacyAwareHasher) NeedsUpgrade(hash string) bool {
	return !strings.HasPrefix(hash, "upgraded:")
}
