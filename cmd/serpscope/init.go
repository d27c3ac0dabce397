package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the serpscope database",
	Long: `Create the SQLite database and schema.

The database path comes from --db, SERPSCOPE_DB_PATH, or the config file
(default: .serpscope/serpscope.db). Opening the database creates the schema,
so init is idempotent.

Example:
  serpscope init
  serpscope providers add openai --kind openai --key-env OPENAI_API_KEY
  serpscope words add "crm software"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// The PersistentPreRunE already opened (and thereby created) the
		// database; nothing left to do but report where it lives.
		green := color.New(color.FgGreen).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()

		fmt.Printf("\n%s Initialized serpscope\n\n", green("✓"))
		fmt.Printf("  Database: %s\n\n", cyan(cfg.DBPath))
		fmt.Println("Next steps:")
		fmt.Println("  serpscope providers add <name> --kind <kind> --key-env <ENV_VAR>")
		fmt.Println("  serpscope words add <word>...")
		fmt.Println("  serpscope run")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
