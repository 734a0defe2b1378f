// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CharacterForge Contributors

// Package game holds the character domain: owned character records,
// reference data (classes and species), and the hit-point computation.
//
// CharacterService applies ownership scoping on every operation: a
// character that exists but belongs to someone else is reported exactly
// like one that does not exist.
package game
