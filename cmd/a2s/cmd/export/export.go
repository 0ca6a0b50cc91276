package export

import (
	"fmt"

	"github.com/spf13/cobra"

	"audio-digest/cmd/a2s/cmd/cliutil"
	"audio-digest/internal/app"
	"audio-digest/internal/app/export"
)

var outputFilePath string

func init() {
	Cmd.Flags().StringVarP(&outputFilePath, "output", "o", "", "path of the .xlsx workbook to write")

	Cmd.MarkFlagRequired("output")
}

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export the processing ledger to an Excel workbook",
	Long: `Export the processing ledger to an Excel workbook

- One row per processed file: sizes, durations, method, model and artifact path`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cliutil.LoadConfig()
		if err != nil {
			return err
		}

		ledger, err := app.InitializeLedger(cfg)
		if err != nil {
			return err
		}
		defer ledger.Close()

		records, err := ledger.GetAll()
		if err != nil {
			return err
		}

		if err := export.ToExcel(records, outputFilePath); err != nil {
			return err
		}

		fmt.Printf("export finished, %d record(s) written to %s\n", len(records), outputFilePath)
		return nil
	},
}
