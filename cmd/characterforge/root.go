// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CharacterForge Contributors

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/characterforge/characterforge/internal/xdg"
)

// Global flags available to all subcommands.
var configFile string

// resolveConfigFile returns the explicit --config path, or the XDG
// config file if one exists. An empty result means defaults plus flags.
func resolveConfigFile() string {
	if configFile != "" {
		return configFile
	}
	if path := xdg.DefaultConfigFile(); fileExists(path) {
		return path
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// NewRootCmd creates the root command for the CharacterForge CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "characterforge",
		Short: "CharacterForge - tabletop character management API",
		Long: `CharacterForge is an API server for managing tabletop RPG
characters: accounts, bearer-token auth, and character sheets with
derived hit points.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	// Add subcommands
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSeedCmd())

	return cmd
}
