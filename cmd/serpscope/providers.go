package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/serpscope/serpscope/internal/types"
)

var (
	providerKind     string
	providerEndpoint string
	providerModel    string
	providerKeyEnv   string
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Manage LLM providers",
}

var providersAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an LLM provider",
	Long: `Register an LLM provider for capture cycles. The API key is referenced
by environment variable name and never stored in the database.

Kinds: openai, gemini, anthropic, grok, mistral, perplexity
(grok/mistral/perplexity use OpenAI-compatible endpoints)

Example:
  serpscope providers add openai --kind openai --key-env OPENAI_API_KEY
  serpscope providers add claude --kind anthropic --key-env ANTHROPIC_API_KEY --model claude-3-5-haiku-20241022`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := &types.Provider{
			ID:        uuid.New().String(),
			Name:      args[0],
			Kind:      types.ProviderKind(providerKind),
			Endpoint:  providerEndpoint,
			Model:     providerModel,
			APIKeyEnv: providerKeyEnv,
			Active:    true,
			CreatedAt: time.Now().UTC(),
		}
		if err := store.CreateProvider(cmd.Context(), p); err != nil {
			return err
		}

		green := color.New(color.FgGreen).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		fmt.Printf("%s Added provider %q (%s)\n", green("✓"), p.Name, p.Kind)
		if providerKeyEnv != "" && os.Getenv(providerKeyEnv) == "" {
			fmt.Printf("%s %s is not set in the current environment\n", yellow("!"), providerKeyEnv)
		}
		return nil
	},
}

var providersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List LLM providers",
	RunE: func(cmd *cobra.Command, args []string) error {
		providers, err := store.ListProviders(cmd.Context())
		if err != nil {
			return err
		}

		gray := color.New(color.FgHiBlack).SprintFunc()
		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()

		if len(providers) == 0 {
			fmt.Printf("%s\n", gray("No providers configured yet"))
			return nil
		}
		for _, p := range providers {
			marker := gray("○")
			if p.Active {
				marker = green("●")
			}
			keyStatus := green("key set")
			if p.APIKeyEnv == "" || os.Getenv(p.APIKeyEnv) == "" {
				keyStatus = red("key missing")
			}
			fmt.Printf("%s %-16s %-12s %-40s %s\n",
				marker, p.Name, p.Kind, gray(p.APIKeyEnv), keyStatus)
		}
		return nil
	},
}

func init() {
	providersAddCmd.Flags().StringVar(&providerKind, "kind", "openai", "Provider kind")
	providersAddCmd.Flags().StringVar(&providerEndpoint, "endpoint", "", "API endpoint (empty = kind default)")
	providersAddCmd.Flags().StringVar(&providerModel, "model", "", "Model name (empty = kind default)")
	providersAddCmd.Flags().StringVar(&providerKeyEnv, "key-env", "", "Environment variable holding the API key")
	providersCmd.AddCommand(providersAddCmd)
	providersCmd.AddCommand(providersListCmd)
	rootCmd.AddCommand(providersCmd)
}
