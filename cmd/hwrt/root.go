package main

import (
	"github.com/spf13/cobra"

	"github.com/juruen/hwrt/log"
	"github.com/juruen/hwrt/version"
)

var (
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "hwrt",
	Short: "Handwriting recognition toolkit",
	Long: `hwrt prepares handwritten symbol recordings for recognizers: it
normalizes them with preprocessing pipelines, multiplies training data and
converts reMarkable pages into recordings.`,
	Version:      version.Version,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		opt := log.FromEnv()
		if cmd.Flags().Changed("log-level") {
			opt.Level = logLevel
		}
		if cmd.Flags().Changed("log-format") {
			opt.Format = logFormat
		}
		log.Init(opt)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (trace, debug, info, warn, error, disabled)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console, json)")
}
