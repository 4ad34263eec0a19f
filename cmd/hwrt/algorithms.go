package main

import (
	"github.com/spf13/cobra"

	"github.com/juruen/hwrt/multiplication"
	"github.com/juruen/hwrt/preprocessing"
)

var algorithmsCmd = &cobra.Command{
	Use:   "algorithms",
	Short: "List preprocessing algorithms and multipliers",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("preprocessing:")
		for _, name := range preprocessing.Registry().Names() {
			cmd.Println("  " + name)
		}
		cmd.Println("multiplication:")
		for _, name := range multiplication.Registry().Names() {
			cmd.Println("  " + name)
		}
	},
}

func init() {
	rootCmd.AddCommand(algorithmsCmd)
}
