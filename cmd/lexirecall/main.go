package main

import (
	"os"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/lexirecall/internal/cli"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Attach subcommands
	rootCmd.AddCommand(
		newDeckCommand(flags),
		newWordCommand(flags),
		newStoryCommand(flags),
		newStudyCommand(flags),
		newExportCommand(flags),
		newImportCommand(flags),
		newAnkiCommand(flags),
		newBackupCommand(flags),
	)

	// Execute command
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
