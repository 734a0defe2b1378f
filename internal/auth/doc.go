// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CharacterForge Contributors

// Package auth provides authentication primitives for CharacterForge.
//
// # Domain Types
//
// User accounts should be created with NewUser, which validates the
// username and email before returning. Direct struct initialization
// bypasses validation and may create invalid state. Repository
// implementations receive pre-validated types from the constructor.
//
// # Services
//
// Service types coordinate domain operations:
//   - Service - registration and login
//   - TokenService - signed, time-bound session tokens
//   - Resolver - per-request identity resolution from a bearer token
//
// Services are created with New* constructors that validate dependencies.
package auth
