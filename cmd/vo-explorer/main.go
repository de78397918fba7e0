// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the vo-explorer CLI.
package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/vo-explorer/internal/secrets"
	"github.com/pdiddy/vo-explorer/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "vo-explorer/0.1"
)

// userAgent builds the User-Agent string, appending the contact email
// from .secrets/ when one is configured (the polite-pool convention many
// data centers ask for).
func userAgent() string {
	if email, ok := loadedSecrets["contact-email"]; ok {
		return fmt.Sprintf("%s (%s)", defaultUserAgent, email)
	}
	return defaultUserAgent
}

// gaiaCredentials returns the archive login from .secrets/; both values are
// empty for anonymous access.
func gaiaCredentials() (user, password string) {
	return loadedSecrets["gaia-user"], loadedSecrets["gaia-password"]
}

// httpConfig builds the shared HTTP settings from the persistent flags.
func httpConfig(cmd *cobra.Command) types.HTTPConfig {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	retries, _ := cmd.Flags().GetInt("max-retries")
	return types.HTTPConfig{
		Timeout:    timeout,
		UserAgent:  userAgent(),
		MaxRetries: retries,
	}
}

func httpClient(cfg types.HTTPConfig) *http.Client {
	return &http.Client{Timeout: cfg.Timeout}
}

// rootCmd is the base command for the vo-explorer CLI.
var rootCmd = &cobra.Command{
	Use:   "vo-explorer",
	Short: "Discover variable stars and their archival data products",
	Long: `vo-explorer chains standard astronomical data services into one workflow:
it queries the SIMBAD database for variable stars in an open cluster,
cross-matches them against the Gaia archive by uploading the candidate
list, follows each match's Datalink descriptor to its epoch photometry,
and can search spectral archives by sky position.

Each stage is a subcommand (search, crossmatch, lightcurves, spectra);
run executes the whole chain and archives the results locally.`,
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

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./vo-explorer.yaml or ~/.config/vo-explorer/config.yaml)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	rootCmd.PersistentFlags().Int("max-retries", 0, "retry attempts for transient HTTP failures (default 5)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("vo-explorer")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "vo-explorer"))
		}
	}

	viper.SetEnvPrefix("VO_EXPLORER")
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
