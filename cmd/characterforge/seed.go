// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CharacterForge Contributors

package main

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/characterforge/characterforge/internal/config"
	"github.com/characterforge/characterforge/internal/game"
	gamepg "github.com/characterforge/characterforge/internal/game/postgres"
	"github.com/characterforge/characterforge/internal/store"
)

// Default timeout for seed command.
const defaultSeedTimeout = 30 * time.Second

// Fixed IDs keep the seed idempotent: re-running the command hits the
// primary key and gets skipped.
var seedClasses = []struct {
	id             string
	name           string
	hitDie         int
	primaryAbility string
}{
	{"01J0REF0000000000000000001", "Barbarian", 12, "strength"},
	{"01J0REF0000000000000000002", "Fighter", 10, "strength"},
	{"01J0REF0000000000000000003", "Cleric", 8, "wisdom"},
	{"01J0REF0000000000000000004", "Rogue", 8, "dexterity"},
	{"01J0REF0000000000000000005", "Wizard", 6, "intelligence"},
}

var seedSpecies = []struct {
	id          string
	name        string
	description string
	speed       int
	size        string
}{
	{"01J0REF0000000000000000101", "Human", "Adaptable and ambitious, humans are found in every corner of the world.", 30, "Medium"},
	{"01J0REF0000000000000000102", "Dwarf", "Stout folk of mountain holds, known for resilience and craft.", 25, "Medium"},
	{"01J0REF0000000000000000103", "Elf", "Long-lived and graceful, elves move lightly through the world.", 30, "Medium"},
	{"01J0REF0000000000000000104", "Halfling", "Small, nimble, and famously lucky.", 25, "Small"},
}

// seedConfig holds configuration for the seed command.
type seedConfig struct {
	timeout time.Duration
}

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	cfg := &seedConfig{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed reference classes and species",
		Long: `Creates the built-in character classes and species.
This command is idempotent - it will not create duplicates if run multiple times.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, args, cfg)
		},
	}

	cmd.Flags().String("database-url", "", "PostgreSQL connection URL")
	cmd.Flags().DurationVar(&cfg.timeout, "timeout", defaultSeedTimeout, "timeout for database operations (e.g., 30s, 1m)")

	return cmd
}

func runSeed(cmd *cobra.Command, _ []string, cfg *seedConfig) error {
	appCfg, err := config.Load(resolveConfigFile(), cmd.Flags())
	if err != nil {
		return err
	}
	if appCfg.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database-url is required")
	}

	// Use cmd.Context() to respect SIGINT/SIGTERM signals
	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.timeout)
	defer cancel()

	cmd.Println("Connecting to database...")
	pool, err := store.Open(ctx, appCfg.DatabaseURL)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	defer pool.Close()

	classes := gamepg.NewClassRepository(pool)
	species := gamepg.NewSpeciesRepository(pool)

	created := 0
	for _, c := range seedClasses {
		id, parseErr := ulid.Parse(c.id)
		if parseErr != nil {
			return oops.Code("SEED_FAILED").With("class", c.name).Wrap(parseErr)
		}
		err := classes.Create(ctx, &game.CharacterClass{
			ID:             id,
			Name:           c.name,
			HitDie:         c.hitDie,
			PrimaryAbility: c.primaryAbility,
		})
		if err != nil {
			if isUniqueViolation(err) {
				continue
			}
			return oops.Code("SEED_FAILED").With("class", c.name).Wrap(err)
		}
		created++
	}

	for _, sp := range seedSpecies {
		id, parseErr := ulid.Parse(sp.id)
		if parseErr != nil {
			return oops.Code("SEED_FAILED").With("species", sp.name).Wrap(parseErr)
		}
		err := species.Create(ctx, &game.Species{
			ID:          id,
			Name:        sp.name,
			Description: sp.description,
			Speed:       sp.speed,
			Size:        sp.size,
		})
		if err != nil {
			if isUniqueViolation(err) {
				continue
			}
			return oops.Code("SEED_FAILED").With("species", sp.name).Wrap(err)
		}
		created++
	}

	if created == 0 {
		cmd.Println("Reference data already seeded, nothing to do")
		return nil
	}

	cmd.Printf("Seeded %d reference records\n", created)
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
