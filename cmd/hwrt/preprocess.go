package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/juruen/hwrt/config"
	"github.com/juruen/hwrt/handwriting"
	"github.com/juruen/hwrt/trainingset"
)

var (
	preprocessConfig  string
	preprocessOutput  string
	preprocessWorkers int64
)

var preprocessCmd = &cobra.Command{
	Use:   "preprocess <records.json|raw.db>",
	Short: "Multiply and preprocess a set of records",
	Long: `Reads raw records, applies the multiplication queue and the
preprocessing pipeline described by the config file and writes the
resulting training set as JSON. Records whose pipeline fails are dropped
and listed on stderr.`,
	Args: cobra.ExactArgs(1),
	RunE: runPreprocess,
}

func init() {
	preprocessCmd.Flags().StringVarP(&preprocessConfig, "config", "c", "", "pipeline file (.yml or .toml)")
	preprocessCmd.Flags().StringVarP(&preprocessOutput, "output", "o", "-", "output file, - for stdout")
	preprocessCmd.Flags().Int64VarP(&preprocessWorkers, "workers", "w", 0, "records preprocessed concurrently, overrides the config file")
	_ = preprocessCmd.MarkFlagRequired("config")
	rootCmd.AddCommand(preprocessCmd)
}

func runPreprocess(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	f, err := config.Load(preprocessConfig)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("workers") {
		f.Workers = preprocessWorkers
	}
	assembler, mult, pipeline, err := trainingset.FromFile(f)
	if err != nil {
		return err
	}

	records, failed, err := trainingset.ReadRecords(ctx, args[0])
	if err != nil {
		return err
	}
	res, err := assembler.Assemble(ctx, records, mult, pipeline)
	if err != nil {
		return err
	}
	for _, failure := range append(failed, res.Failed...) {
		cmd.PrintErrln("dropped", failure.Error())
	}

	return withOutput(cmd, preprocessOutput, func(w io.Writer) error {
		return handwriting.WriteRecords(w, res.Records)
	})
}

// withOutput runs write against stdout for "-" or against the named file.
func withOutput(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	if path == "" || path == "-" {
		return write(cmd.OutOrStdout())
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(out); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
