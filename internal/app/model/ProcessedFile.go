package model

import "time"

// ProcessedFile is one ledger row: a successfully transcribed, summarized and
// rendered input file. The pair (FilePath, FileSize) is the identity used to
// skip the file on later batch runs.
type ProcessedFile struct {
	ID           int
	RunID        string
	FileName     string
	FilePath     string
	FileSize     int64
	DurationSec  float64
	Method       string
	Language     string
	SummaryModel string
	OutputFile   string
	ElapsedSec   float64
	ProcessedAt  time.Time
}

// LedgerStats aggregates the ledger for the stats endpoint and the exporter.
type LedgerStats struct {
	TotalFiles      int
	TotalAudioSec   float64
	TotalElapsedSec float64
	ByMethod        map[string]int
	LastProcessedAt time.Time
}
