package export

import (
	"fmt"
	"time"

	"github.com/tealeg/xlsx"

	"audio-digest/internal/app/errors"
	"audio-digest/internal/app/model"
)

// ToExcel writes the full ledger history into an xlsx workbook.
func ToExcel(records []model.ProcessedFile, outputFilePath string) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Processed Files")
	if err != nil {
		return errors.Wrap(err, "failed to create worksheet")
	}

	headerRow := sheet.AddRow()
	headerRow.AddCell().Value = "ID"
	headerRow.AddCell().Value = "Run ID"
	headerRow.AddCell().Value = "File Name"
	headerRow.AddCell().Value = "File Path"
	headerRow.AddCell().Value = "File Size (bytes)"
	headerRow.AddCell().Value = "Audio Duration (s)"
	headerRow.AddCell().Value = "Method"
	headerRow.AddCell().Value = "Language"
	headerRow.AddCell().Value = "Summary Model"
	headerRow.AddCell().Value = "Output File"
	headerRow.AddCell().Value = "Elapsed (s)"
	headerRow.AddCell().Value = "Processed At"

	for _, rec := range records {
		row := sheet.AddRow()
		row.AddCell().Value = fmt.Sprint(rec.ID)
		row.AddCell().Value = rec.RunID
		row.AddCell().Value = rec.FileName
		row.AddCell().Value = rec.FilePath
		row.AddCell().Value = fmt.Sprint(rec.FileSize)
		row.AddCell().Value = fmt.Sprintf("%.2f", rec.DurationSec)
		row.AddCell().Value = rec.Method
		row.AddCell().Value = rec.Language
		row.AddCell().Value = rec.SummaryModel
		row.AddCell().Value = rec.OutputFile
		row.AddCell().Value = fmt.Sprintf("%.2f", rec.ElapsedSec)
		row.AddCell().Value = rec.ProcessedAt.Format(time.RFC3339)
	}

	if err := file.Save(outputFilePath); err != nil {
		return errors.Wrapf(err, "failed to save workbook to %s", outputFilePath)
	}
	return nil
}
