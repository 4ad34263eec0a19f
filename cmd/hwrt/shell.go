package main

import (
	"github.com/spf13/cobra"

	"github.com/juruen/hwrt/shell"
)

var shellCmd = &cobra.Command{
	Use:   "shell [command args...]",
	Short: "Interactive shell for trying pipelines on single recordings",
	Long: `Starts the interactive shell. Given arguments, runs them as one shell
command and exits.`,
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return shell.RunShell(args)
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
}
