// serpscope tracks keywords across LLM providers: it periodically asks each
// configured provider what it returns for each tracked word, stores the raw
// answer, and extracts the company and brand names mentioned in it.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/serpscope/serpscope/internal/config"
	"github.com/serpscope/serpscope/internal/storage"
)

var (
	cfgPath string
	dbPath  string

	cfg   config.Config
	store storage.Storage
)

var rootCmd = &cobra.Command{
	Use:   "serpscope",
	Short: "Track keywords across LLM providers and extract mentioned brands",
	Long: `serpscope periodically queries LLM providers for tracked keywords,
stores each raw response as a capture, and runs an extraction pass that
pulls out the companies and brands the response mentions.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Provider API keys commonly live in .env during development
		_ = godotenv.Load()

		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		if dbPath != "" {
			cfg.DBPath = dbPath
		}

		store, err = storage.NewStorage(cmd.Context(), &storage.Config{Path: cfg.DBPath})
		if err != nil {
			return fmt.Errorf("failed to open database %s: %w", cfg.DBPath, err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if store != nil {
			_ = store.Close()
		}
	},
}

func main() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "serpscope.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (overrides config)")

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
