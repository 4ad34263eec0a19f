package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/juruen/hwrt/hwr"
	"github.com/juruen/hwrt/trainingset"
)

var (
	recognizeType     string
	recognizeLang     string
	recognizeEndpoint string
	recognizeWorkers  int64
)

var recognizeCmd = &cobra.Command{
	Use:   "recognize <input>",
	Short: "Suggest labels with a MyScript iink batch endpoint",
	Long: `Sends every recording of the input to the iink batch API and prints
the recognized text per record id. Needs HWRT_HWR_APPLICATIONKEY and
HWRT_HWR_HMAC.`,
	Args: cobra.ExactArgs(1),
	RunE: runRecognize,
}

func init() {
	recognizeCmd.Flags().StringVarP(&recognizeType, "type", "t", "math", "content type (math, text, diagram)")
	recognizeCmd.Flags().StringVar(&recognizeLang, "lang", "", "recognition language, e.g. en_US")
	recognizeCmd.Flags().StringVar(&recognizeEndpoint, "endpoint", hwr.DefaultEndpoint, "batch endpoint URL")
	recognizeCmd.Flags().Int64VarP(&recognizeWorkers, "workers", "w", 3, "concurrent requests")
	rootCmd.AddCommand(recognizeCmd)
}

func runRecognize(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	client, err := hwr.NewClientFromEnv()
	if err != nil {
		return err
	}
	client.Endpoint = recognizeEndpoint

	records, failed, err := trainingset.ReadRecords(ctx, args[0])
	if err != nil {
		return err
	}
	for _, failure := range failed {
		cmd.PrintErrln("skipped", failure.Error())
	}
	results, err := client.RecognizeAll(ctx, records, hwr.ParseContentType(recognizeType), recognizeLang, recognizeWorkers)
	if err != nil {
		return err
	}
	for _, r := range results {
		if r.Err != nil {
			cmd.PrintErrf("%d\terror: %v\n", r.ID, r.Err)
			continue
		}
		cmd.Printf("%d\t%s\n", r.ID, r.Text)
	}
	return nil
}
