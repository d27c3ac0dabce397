package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/serpscope/serpscope/internal/types"
)

var wordsGroup string

var wordsCmd = &cobra.Command{
	Use:   "words",
	Short: "Manage tracked words",
}

var wordsAddCmd = &cobra.Command{
	Use:   "add <word>...",
	Short: "Add tracked words",
	Long: `Add one or more words to track. Words start active and become due
for capture on the next cycle.

Example:
  serpscope words add "crm software" "email marketing"
  serpscope words add --group saas "helpdesk software"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		groupID := ""
		if wordsGroup != "" {
			group, err := store.GetOrCreateGroup(ctx, wordsGroup)
			if err != nil {
				return err
			}
			groupID = group.ID
		}

		green := color.New(color.FgGreen).SprintFunc()
		now := time.Now().UTC()
		for _, name := range args {
			w := &types.Word{
				ID:        uuid.New().String(),
				Name:      name,
				GroupID:   groupID,
				Status:    types.WordActive,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := store.CreateWord(ctx, w); err != nil {
				return err
			}
			fmt.Printf("%s Added word %q\n", green("✓"), name)
		}
		return nil
	},
}

var wordsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked words",
	RunE: func(cmd *cobra.Command, args []string) error {
		words, err := store.ListWords(cmd.Context())
		if err != nil {
			return err
		}

		gray := color.New(color.FgHiBlack).SprintFunc()
		green := color.New(color.FgGreen).SprintFunc()

		if len(words) == 0 {
			fmt.Printf("%s\n", gray("No words tracked yet"))
			return nil
		}
		for _, w := range words {
			marker := gray("○")
			if w.Status == types.WordActive {
				marker = green("●")
			}
			fmt.Printf("%s %-40s %s\n", marker, w.Name, gray(string(w.Status)))
		}
		return nil
	},
}

func init() {
	wordsAddCmd.Flags().StringVar(&wordsGroup, "group", "", "Word group name (created if missing)")
	wordsCmd.AddCommand(wordsAddCmd)
	wordsCmd.AddCommand(wordsListCmd)
	rootCmd.AddCommand(wordsCmd)
}
