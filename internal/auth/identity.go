// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CharacterForge Contributors

package auth

import (
	"context"
	"errors"

	"github.com/samber/oops"
)

// Resolver resolves a request's bearer token to the acting user.
//
// Token verification failures and unresolvable subjects collapse to the
// same ErrUnauthenticated so the caller cannot tell which case occurred.
// Resolution is read-only; it performs exactly one user lookup.
type Resolver struct {
	tokens *TokenService
	users  UserRepository
}

// NewResolver creates a Resolver.
func NewResolver(tokens *TokenService, users UserRepository) (*Resolver, error) {
	if tokens == nil {
		return nil, oops.Code("AUTH_RESOLVER_INVALID").Errorf("token service is required")
	}
	if users == nil {
		return nil, oops.Code("AUTH_RESOLVER_INVALID").Errorf("users repository is required")
	}
	return &Resolver{tokens: tokens, users: users}, nil
}

// Resolve verifies the token and looks up its subject by exact,
// case-sensitive username match.
func (r *Resolver) Resolve(ctx context.Context, token string) (*User, error) {
	subject, err := r.tokens.Verify(token)
	if err != nil {
		return nil, oops.Code("AUTH_UNAUTHENTICATED").
			Wrap(errors.Join(ErrUnauthenticated, err))
	}

	user, err := r.users.GetByUsername(ctx, subject)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("AUTH_UNAUTHENTICATED").
				Wrap(errors.Join(ErrUnauthenticated, err))
		}
		return nil, oops.Code("AUTH_RESOLVE_FAILED").
			With("operation", "get user by username").
			Wrap(err)
	}
	return user, nil
}
