package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/juruen/hwrt/config"
	"github.com/juruen/hwrt/preprocessing"
	"github.com/juruen/hwrt/render"
	"github.com/juruen/hwrt/trainingset"
)

var (
	renderOutput   string
	renderIndex    int
	renderSize     int
	renderWidth    float64
	renderPipeline string
)

var renderCmd = &cobra.Command{
	Use:   "render <input>",
	Short: "Render one recording as PNG",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "-", "PNG file, - for stdout")
	renderCmd.Flags().IntVarP(&renderIndex, "index", "i", 0, "record index in the input")
	renderCmd.Flags().IntVarP(&renderSize, "size", "s", render.DefaultOptions().Size, "image edge in pixels")
	renderCmd.Flags().Float64Var(&renderWidth, "stroke-width", render.DefaultOptions().StrokeWidth, "stroke width in pixels")
	renderCmd.Flags().StringVarP(&renderPipeline, "config", "c", "", "pipeline file applied before rendering")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	records, failed, err := trainingset.ReadRecords(context.Background(), args[0])
	if err != nil {
		return err
	}
	for _, failure := range failed {
		cmd.PrintErrln("skipped", failure.Error())
	}
	if renderIndex < 0 || renderIndex >= len(records) {
		return fmt.Errorf("index %d out of range, %s holds %d records", renderIndex, args[0], len(records))
	}
	h := records[renderIndex].Handwriting

	if renderPipeline != "" {
		f, err := config.Load(renderPipeline)
		if err != nil {
			return err
		}
		pipeline, err := preprocessing.GetPreprocessingQueue(f.Preprocessing)
		if err != nil {
			return err
		}
		if err := pipeline.Apply(h); err != nil {
			return err
		}
	}

	opt := render.DefaultOptions()
	opt.Size = renderSize
	opt.StrokeWidth = renderWidth
	img := render.Render(h, opt)
	return withOutput(cmd, renderOutput, func(w io.Writer) error {
		return render.WritePNG(w, img)
	})
}
