package commands

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/prasetyo/sentra/pkg/config"
)

var (
	// Global flags
	envFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sentra",
	Short: "Sentra - agen monitoring penjualan harian",
	Long: `Sentra Unified CLI

Agen monitoring penjualan harian: memuat data CSV, mengevaluasi aturan
performa dan menyusun laporan eksekutif beserta dashboard web.

Usage:
  go run ./cmd/sentra [command]

Examples:
  go run ./cmd/sentra api
  go run ./cmd/sentra analyze
  go run ./cmd/sentra watch
  go run ./cmd/sentra convert raw_retail.csv`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file (default is .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig loads configuration, honoring the global flags.
func loadConfig() (*config.Config, error) {
	if envFile != "" {
		_ = godotenv.Load(envFile)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}
