// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the variant-evidence CLI.
// Implements: prd001-annotation, prd002-literature, prd003-relevance,
//             prd004-extraction, prd005-assessment, prd006-evidence-store
//             (CLI surface).
// See docs/ARCHITECTURE.md § Pipeline Interface, § Project Structure.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/variant-evidence/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the variant-evidence CLI.
var rootCmd = &cobra.Command{
	Use:   "variant-evidence",
	Short: "Functional-evidence literature pipeline for sequence variants",
	Long: `variant-evidence assesses the published functional evidence for a single
genetic variant. Given a genomic coordinate, it resolves the variant's
identifiers, aggregates candidate papers from the variant literature,
filters them for directly relevant functional studies, extracts structured
experiment records, and consolidates everything into a PS3/BS3 criterion
call with a reproducible narrative.

Completed runs are stored in a local SQLite evidence database; use the
history subcommand to list, inspect, and search past assessments.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./variant-evidence.yaml or ~/.config/variant-evidence/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("variant-evidence")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "variant-evidence"))
		}
	}

	viper.SetEnvPrefix("VARIANT_EVIDENCE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
