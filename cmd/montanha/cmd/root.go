// Package cmd provides the CLI commands for the Montanha Viva dashboard.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/montanha-viva/mv-cli/internal/config"
)

var (
	cfgFile       string
	stateFilePath string
	outputFormat  string
	verbose       bool
)

var rootCmd = &cobra.Command{
	Use:   "montanha",
	Short: "Montanha Viva - mountain dashboard CLI",
	Long: `Montanha Viva is the command-line client for the Montanha Viva platform:
a flora encyclopedia, hiking routes, live sensor data, and trail gamification
for the Serra da Gardunha.

Quick start:
  1. Point the CLI at the backend: export MONTANHA_API_BASE_URL=https://api.montanhaviva.pt
  2. Sign in: montanha login ana@example.pt
  3. Browse: montanha flora list

Configuration:
  Config is loaded from montanha.yaml in the current directory or
  $HOME/.montanha/.

  Environment variables can override config values with the MONTANHA_ prefix.
  Example: MONTANHA_API_BASE_URL=https://api.example.pt`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./montanha.yaml)")
	rootCmd.PersistentFlags().StringVar(&stateFilePath, "state", "", "path to the session file (default: ~/.montanha/session.json)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "json", "output format: json or yaml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func initConfig() {
	config.InitViper(cfgFile)
}
