package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the last cycle's outcome and provider readiness",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()

		fmt.Printf("\n%s\n\n", cyan("=== serpscope status ==="))

		words, err := store.ListActiveWords(ctx)
		if err != nil {
			return err
		}
		providers, err := store.ListActiveProviders(ctx)
		if err != nil {
			return err
		}
		captures, err := store.CountCaptures(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%s %d active words, %d active providers, %d captures total\n\n",
			yellow("Inventory:"), len(words), len(providers), captures)

		fmt.Printf("%s\n", yellow("Providers:"))
		if len(providers) == 0 {
			fmt.Printf("  %s\n", gray("None configured"))
		}
		for _, p := range providers {
			ready := green("ready")
			if p.APIKeyEnv == "" || os.Getenv(p.APIKeyEnv) == "" {
				ready = red("missing key")
			}
			fmt.Printf("  %-16s %-12s %s\n", p.Name, p.Kind, ready)
		}
		fmt.Println()

		sum, err := store.LatestCycle(ctx)
		if err != nil {
			return err
		}
		if sum == nil {
			fmt.Printf("%s %s\n\n", yellow("Last cycle:"), gray("never run"))
			return nil
		}

		fmt.Printf("%s %s, started %s, took %v\n", yellow("Last cycle:"),
			stateColored(sum.State),
			sum.StartedAt.Local().Format(time.RFC1123),
			sum.Duration().Round(time.Millisecond))
		fmt.Printf("  due=%d captured=%d failed=%d entities=%d\n",
			sum.PairsDue, sum.PairsCaptured, sum.PairsFailed, sum.EntitiesExtracted)
		if sum.Error != "" {
			fmt.Printf("  %s %s\n", red("error:"), sum.Error)
		}
		for _, f := range sum.Failures {
			fmt.Printf("  %s %s/%s: %s\n", red("✗"), f.WordName, f.ProviderName, f.Class)
		}
		fmt.Println()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
