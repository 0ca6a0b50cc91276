package repository

import (
	"audio-digest/internal/app/model"
)

// LedgerDAO is the durable record of already-processed inputs. A row exists
// only for files whose transcript, summary and rendered outputs all landed on
// disk; failed runs leave no trace so the file is retried next time.
type LedgerDAO interface {
	Close() error

	// CheckIfFileProcessed looks up the identity fingerprint (absolute path
	// plus byte size) and returns the matching row id. A nil error means the
	// file was already processed; sql.ErrNoRows means it was not.
	CheckIfFileProcessed(filePath string, fileSize int64) (int, error)

	RecordProcessed(rec model.ProcessedFile) error

	GetAll() ([]model.ProcessedFile, error)

	// GetByID returns one row, or sql.ErrNoRows when the id is unknown.
	GetByID(id int) (model.ProcessedFile, error)

	Stats() (model.LedgerStats, error)
}
