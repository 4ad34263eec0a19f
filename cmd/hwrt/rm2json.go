package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/juruen/hwrt/encoding/rm"
	"github.com/juruen/hwrt/handwriting"
)

var (
	rmOutput    string
	rmID        int
	rmFormulaID int
	rmLatex     string
	rmTestset   bool
)

var rm2jsonCmd = &cobra.Command{
	Use:   "rm2json <page.rm>",
	Short: "Convert a reMarkable page into a one record dataset",
	Long: `Every non eraser line of the page becomes a stroke. The format has no
timestamps, points are spaced 16ms apart.`,
	Args: cobra.ExactArgs(1),
	RunE: runRm2json,
}

func init() {
	rm2jsonCmd.Flags().StringVarP(&rmOutput, "output", "o", "-", "output file, - for stdout")
	rm2jsonCmd.Flags().IntVar(&rmID, "id", 0, "record id")
	rm2jsonCmd.Flags().IntVar(&rmFormulaID, "formula-id", 0, "label id")
	rm2jsonCmd.Flags().StringVar(&rmLatex, "latex", "", "label in LaTeX")
	rm2jsonCmd.Flags().BoolVar(&rmTestset, "testset", false, "mark the record as test data")
	rootCmd.AddCommand(rm2jsonCmd)
}

func runRm2json(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	var page rm.Rm
	if err := page.UnmarshalBinary(data); err != nil {
		return err
	}

	rawID := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	h := rm.ToHandwriting(&page,
		handwriting.WithRawDataID(rawID),
		handwriting.WithFormula(rmFormulaID, rmLatex),
		handwriting.WithTestset(rmTestset))
	record := handwriting.Record{
		ID:             rmID,
		IsInTestset:    rmTestset,
		FormulaID:      rmFormulaID,
		FormulaInLatex: rmLatex,
		Handwriting:    h,
	}
	return withOutput(cmd, rmOutput, func(w io.Writer) error {
		return handwriting.WriteRecords(w, []handwriting.Record{record})
	})
}
