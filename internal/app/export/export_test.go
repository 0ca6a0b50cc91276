package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"

	"audio-digest/internal/app/testutil"
)

func TestToExcel(t *testing.T) {
	records := testutil.SampleProcessedFiles()
	outPath := filepath.Join(t.TempDir(), "ledger.xlsx")

	require.NoError(t, ToExcel(records, outPath))

	workbook, err := xlsx.OpenFile(outPath)
	require.NoError(t, err)
	require.Len(t, workbook.Sheets, 1)

	sheet := workbook.Sheets[0]
	assert.Equal(t, "Processed Files", sheet.Name)
	require.Len(t, sheet.Rows, len(records)+1)

	assert.Equal(t, "ID", sheet.Rows[0].Cells[0].Value)
	assert.Equal(t, "Processed At", sheet.Rows[0].Cells[11].Value)

	first := sheet.Rows[1]
	assert.Equal(t, "1", first.Cells[0].Value)
	assert.Equal(t, "standup_monday.mp3", first.Cells[2].Value)
	assert.Equal(t, "2480113", first.Cells[4].Value)
	assert.Equal(t, "912.40", first.Cells[5].Value)
	assert.Equal(t, "api", first.Cells[6].Value)
	assert.Equal(t, "2025-01-13T10:05:00Z", first.Cells[11].Value)

	second := sheet.Rows[2]
	assert.Equal(t, "kundengespraech.m4a", second.Cells[2].Value)
	assert.Equal(t, "local", second.Cells[6].Value)
}

func TestToExcelEmptyLedger(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "empty.xlsx")

	require.NoError(t, ToExcel(nil, outPath))

	workbook, err := xlsx.OpenFile(outPath)
	require.NoError(t, err)
	require.Len(t, workbook.Sheets, 1)
	assert.Len(t, workbook.Sheets[0].Rows, 1)
}

func TestToExcelBadPath(t *testing.T) {
	err := ToExcel(testutil.SampleProcessedFiles(), filepath.Join(t.TempDir(), "missing", "ledger.xlsx"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save workbook")
}
