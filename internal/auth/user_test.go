// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CharacterForge Contributors

package auth_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/characterforge/characterforge/internal/auth"
	"github.com/characterforge/characterforge/pkg/errutil"
)

func TestNewUser(t *testing.T) {
	t.Run("creates user with generated ID", func(t *testing.T) {
		user, err := auth.NewUser("alice", "alice@example.com", "$argon2id$hash")
		require.NoError(t, err)

		assert.False(t, user.ID.IsZero())
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.Zero(t, user.FailedAttempts)
		assert.Nil(t, user.LockedUntil)
		assert.False(t, user.CreatedAt.IsZero())
	})

	t.Run("rejects empty password hash", func(t *testing.T) {
		_, err := auth.NewUser("alice", "alice@example.com", "")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "AUTH_INVALID_USER")
	})
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"valid", "alice", false},
		{"valid with underscore and digits", "alice_42", false},
		{"minimum length", "abc", false},
		{"maximum length", "a" + strings.Repeat("b", 29), false},
		{"empty", "", true},
		{"too short", "ab", true},
		{"too long", "a" + strings.Repeat("b", 30), true},
		{"starts with digit", "1alice", true},
		{"starts with underscore", "_alice", true},
		{"contains space", "al ice", true},
		{"contains hyphen", "al-ice", true},
		{"contains unicode", "алиса", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := auth.ValidateUsername(tt.username)
			if tt.wantErr {
				require.Error(t, err)
				errutil.AssertErrorCode(t, err, "AUTH_INVALID_USERNAME")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"valid", "alice@example.com", false},
		{"subdomain", "alice@mail.example.com", false},
		{"empty", "", true},
		{"no at sign", "alice.example.com", true},
		{"at sign first", "@example.com", true},
		{"at sign last", "alice@", true},
		{"contains space", "alice @example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := auth.ValidateEmail(tt.email)
			if tt.wantErr {
				require.Error(t, err)
				errutil.AssertErrorCode(t, err, "AUTH_INVALID_EMAIL")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUserLockoutTracking(t *testing.T) {
	user, err := auth.NewUser("alice", "alice@example.com", "$argon2id$hash")
	require.NoError(t, err)

	for i := 1; i < auth.LockoutThreshold; i++ {
		user.RecordFailure()
		assert.Equal(t, i, user.FailedAttempts)
		assert.False(t, user.IsLocked(), "should not lock before the threshold")
	}

	user.RecordFailure()
	assert.Equal(t, auth.LockoutThreshold, user.FailedAttempts)
	assert.True(t, user.IsLocked())
	require.NotNil(t, user.LockedUntil)

	user.RecordSuccess()
	assert.Zero(t, user.FailedAttempts)
	assert.Nil(t, user.LockedUntil)
	assert.False(t, user.IsLocked())
}
