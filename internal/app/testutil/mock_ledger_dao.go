package testutil

import (
	"database/sql"
	"fmt"
	"sync"

	"audio-digest/internal/app/model"
	"audio-digest/internal/app/repository"
)

// MockLedgerDAO is an in-memory implementation of repository.LedgerDAO with
// injectable failures.
type MockLedgerDAO struct {
	mu sync.Mutex

	CheckError  error
	RecordError error

	processed map[string]int
	Records   []model.ProcessedFile
	nextID    int
	closed    bool
}

// NewMockLedgerDAO creates an empty in-memory ledger.
func NewMockLedgerDAO() *MockLedgerDAO {
	return &MockLedgerDAO{
		processed: make(map[string]int),
		nextID:    1,
	}
}

func fingerprint(filePath string, fileSize int64) string {
	return fmt.Sprintf("%s|%d", filePath, fileSize)
}

// WithProcessedFile pre-seeds the ledger so the file counts as already done.
func (m *MockLedgerDAO) WithProcessedFile(filePath string, fileSize int64) *MockLedgerDAO {
	m.processed[fingerprint(filePath, fileSize)] = m.nextID
	m.nextID++
	return m
}

// WithRecords pre-seeds full ledger rows, assigning ids when unset.
func (m *MockLedgerDAO) WithRecords(recs ...model.ProcessedFile) *MockLedgerDAO {
	for _, rec := range recs {
		if rec.ID == 0 {
			rec.ID = m.nextID
		}
		if rec.ID >= m.nextID {
			m.nextID = rec.ID + 1
		}
		m.processed[fingerprint(rec.FilePath, rec.FileSize)] = rec.ID
		m.Records = append(m.Records, rec)
	}
	return m
}

// WithCheckError makes CheckIfFileProcessed fail with err.
func (m *MockLedgerDAO) WithCheckError(err error) *MockLedgerDAO {
	m.CheckError = err
	return m
}

// WithRecordError makes RecordProcessed fail with err.
func (m *MockLedgerDAO) WithRecordError(err error) *MockLedgerDAO {
	m.RecordError = err
	return m
}

func (m *MockLedgerDAO) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// WasCloseCalled reports whether Close ran.
func (m *MockLedgerDAO) WasCloseCalled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *MockLedgerDAO) CheckIfFileProcessed(filePath string, fileSize int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CheckError != nil {
		return 0, m.CheckError
	}
	if id, ok := m.processed[fingerprint(filePath, fileSize)]; ok {
		return id, nil
	}
	return 0, sql.ErrNoRows
}

func (m *MockLedgerDAO) RecordProcessed(rec model.ProcessedFile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.RecordError != nil {
		return m.RecordError
	}
	rec.ID = m.nextID
	m.processed[fingerprint(rec.FilePath, rec.FileSize)] = m.nextID
	m.nextID++
	m.Records = append(m.Records, rec)
	return nil
}

func (m *MockLedgerDAO) GetAll() ([]model.ProcessedFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.ProcessedFile, len(m.Records))
	copy(out, m.Records)
	return out, nil
}

func (m *MockLedgerDAO) GetByID(id int) (model.ProcessedFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, rec := range m.Records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return model.ProcessedFile{}, sql.ErrNoRows
}

func (m *MockLedgerDAO) Stats() (model.LedgerStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := model.LedgerStats{ByMethod: make(map[string]int)}
	for _, rec := range m.Records {
		stats.TotalFiles++
		stats.TotalAudioSec += rec.DurationSec
		stats.TotalElapsedSec += rec.ElapsedSec
		stats.ByMethod[rec.Method]++
		if rec.ProcessedAt.After(stats.LastProcessedAt) {
			stats.LastProcessedAt = rec.ProcessedAt
		}
	}
	return stats, nil
}

// RecordCount returns how many rows were written.
func (m *MockLedgerDAO) RecordCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Records)
}

var _ repository.LedgerDAO = (*MockLedgerDAO)(nil)
