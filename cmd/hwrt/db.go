package main

import (
	"context"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/juruen/hwrt/handwriting"
	"github.com/juruen/hwrt/store"
)

var (
	exportOutput  string
	exportTestset string
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the raw record store",
}

var dbImportCmd = &cobra.Command{
	Use:   "import <raw.db> <records.json>...",
	Short: "Insert or replace records from JSON datasets",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runDBImport,
}

var dbExportCmd = &cobra.Command{
	Use:   "export <raw.db>",
	Short: "Write stored records as a JSON dataset",
	Args:  cobra.ExactArgs(1),
	RunE:  runDBExport,
}

var dbCountCmd = &cobra.Command{
	Use:   "count <raw.db>",
	Short: "Print the number of stored records",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := store.Open(args[0])
		if err != nil {
			return err
		}
		defer s.Close()
		n, err := s.Count(context.Background())
		if err != nil {
			return err
		}
		cmd.Println(n)
		return nil
	},
}

func init() {
	dbExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "-", "output file, - for stdout")
	dbExportCmd.Flags().StringVar(&exportTestset, "testset", "", "only records with this test set flag (true or false)")
	dbCmd.AddCommand(dbImportCmd, dbExportCmd, dbCountCmd)
	rootCmd.AddCommand(dbCmd)
}

func runDBImport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	s, err := store.Open(args[0])
	if err != nil {
		return err
	}
	defer s.Close()

	for _, path := range args[1:] {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		records, failed, err := handwriting.DecodeRecords(f)
		f.Close()
		if err != nil {
			return errors.WithMessage(err, path)
		}
		for _, failure := range failed {
			cmd.PrintErrln("skipped", failure.Error())
		}
		if err := s.Put(ctx, records...); err != nil {
			return err
		}
		cmd.Printf("imported %d records from %s into %s\n", len(records), path, s.Path())
	}
	return nil
}

func runDBExport(cmd *cobra.Command, args []string) error {
	var testset *bool
	if exportTestset != "" {
		v, err := strconv.ParseBool(exportTestset)
		if err != nil {
			return err
		}
		testset = &v
	}

	s, err := store.Open(args[0])
	if err != nil {
		return err
	}
	defer s.Close()
	records, failed, err := s.Records(context.Background(), testset)
	if err != nil {
		return err
	}
	for _, failure := range failed {
		cmd.PrintErrln("skipped", failure.Error())
	}
	return withOutput(cmd, exportOutput, func(w io.Writer) error {
		return handwriting.WriteRecords(w, records)
	})
}
