package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/serpscope/serpscope/internal/types"
	"github.com/serpscope/serpscope/internal/worker"
)

var runEvery time.Duration

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a refresh cycle",
	Long: `Run one refresh cycle: select due (word, provider) pairs, capture each
pair's response with bounded concurrency, then extract entities from the
new captures.

With --every, keep running cycles on the given interval until interrupted.
On Ctrl+C, in-flight provider calls are allowed to finish or time out
naturally; everything already persisted stays persisted.

Example:
  serpscope run
  serpscope run --every 336h`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := worker.New(&worker.Config{
			Store:              store,
			RefreshInterval:    cfg.RefreshInterval,
			MaxConcurrent:      cfg.MaxConcurrent,
			Retry: worker.RetryConfig{
				MaxAttempts:       cfg.MaxAttempts,
				InitialBackoff:    cfg.InitialBackoff,
				MaxBackoff:        cfg.MaxBackoff,
				BackoffMultiplier: 2.0,
			},
			ProviderRPS:        cfg.ProviderRPS,
			CallTimeout:        cfg.CallTimeout,
			ExtractionProvider: cfg.ExtractionProvider,
			AnalyzeMentions:    cfg.AnalyzeMentions,
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if runEvery > 0 {
			fmt.Printf("Running continuously every %v (Ctrl+C to stop)\n", runEvery)
			return ctrl.RunEvery(ctx, runEvery)
		}

		summary, err := ctrl.RunCycle(ctx)
		if err != nil {
			if errors.Is(err, worker.ErrCycleRunning) {
				fmt.Println("A cycle is already running")
				return nil
			}
			// A failed cycle still has a summary; show what was kept
			if summary != nil {
				printSummary(summary)
			}
			return err
		}
		printSummary(summary)
		return nil
	},
}

func printSummary(sum *types.CycleSummary) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	fmt.Printf("\n%s\n\n", cyan("=== Cycle Summary ==="))
	fmt.Printf("  State:              %s\n", stateColored(sum.State))
	fmt.Printf("  Pairs due:          %d\n", sum.PairsDue)
	fmt.Printf("  Pairs captured:     %s\n", green(fmt.Sprint(sum.PairsCaptured)))
	fmt.Printf("  Pairs failed:       %s\n", red(fmt.Sprint(sum.PairsFailed)))
	fmt.Printf("  Entities extracted: %d\n", sum.EntitiesExtracted)
	if sum.ExtractionFailures > 0 {
		fmt.Printf("  Extraction failures: %d\n", sum.ExtractionFailures)
	}
	if sum.MentionsAnalyzed > 0 {
		fmt.Printf("  Mentions analyzed:  %d\n", sum.MentionsAnalyzed)
	}
	fmt.Printf("  Duration:           %v\n", sum.Duration().Round(time.Millisecond))

	if len(sum.Failures) > 0 {
		fmt.Printf("\n  %s\n", gray("Failed pairs:"))
		for _, f := range sum.Failures {
			fmt.Printf("    %s %s/%s: %s (%d attempts)\n",
				red("✗"), f.WordName, f.ProviderName, f.Class, f.Attempts)
		}
	}
	fmt.Println()
}

func stateColored(state types.CycleState) string {
	switch state {
	case types.CycleCompleted:
		return color.GreenString(string(state))
	case types.CycleFailed:
		return color.RedString(string(state))
	default:
		return string(state)
	}
}

func init() {
	runCmd.Flags().DurationVar(&runEvery, "every", 0, "Re-run the cycle on this interval (0 = run once)")
	rootCmd.AddCommand(runCmd)
}
