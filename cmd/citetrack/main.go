// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the citetrack CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the citetrack CLI.
var rootCmd = &cobra.Command{
	Use:   "citetrack",
	Short: "Deduplicate bibliographic search results against a reference corpus",
	Long: `citetrack classifies newly discovered bibliographic records against a
trusted reference corpus using tiered matching: DOI, exact title+year,
fuzzy title similarity, then author+year heuristics. Each candidate is
assigned a match status and confidence, and results are partitioned into
new discoveries, manual-review items, and confirmed duplicates.

Use "dedupe" to run a batch against a corpus and "corpus" to manage the
persistent corpus store.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./citetrack.yaml or ~/.config/citetrack/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("citetrack")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "citetrack"))
		}
	}

	viper.SetEnvPrefix("CITETRACK")
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
