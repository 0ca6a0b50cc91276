package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"audio-digest/internal/app/model"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS processed_files (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL DEFAULT '',
	file_name TEXT NOT NULL,
	file_path TEXT NOT NULL,
	file_size INTEGER NOT NULL,
	duration_sec REAL NOT NULL DEFAULT 0,
	method TEXT NOT NULL,
	language TEXT NOT NULL DEFAULT '',
	summary_model TEXT NOT NULL DEFAULT '',
	output_file TEXT NOT NULL DEFAULT '',
	elapsed_sec REAL NOT NULL DEFAULT 0,
	processed_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_processed_files_identity ON processed_files (file_path, file_size);
`

type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB opens (creating if needed) the ledger database at dbFilePath.
func NewSQLiteDB(dbFilePath string) (*SQLiteDB, error) {
	if dir := filepath.Dir(dbFilePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?cache=shared&mode=rwc&_busy_timeout=5000", dbFilePath))
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger database: %w", err)
	}
	// Ledger writes arrive from parallel workers; a single connection keeps
	// sqlite out of SQLITE_BUSY territory.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create ledger schema: %w", err)
	}
	return &SQLiteDB{db: db}, nil
}

func (sdb *SQLiteDB) Close() error {
	return sdb.db.Close()
}

func (sdb *SQLiteDB) CheckIfFileProcessed(filePath string, fileSize int64) (int, error) {
	query := `SELECT id FROM processed_files WHERE file_path = ? AND file_size = ? ORDER BY id DESC LIMIT 1`
	row := sdb.db.QueryRow(query, filePath, fileSize)
	var id int
	err := row.Scan(&id)
	return id, err
}

func (sdb *SQLiteDB) RecordProcessed(rec model.ProcessedFile) error {
	insertSQL := `INSERT INTO processed_files
		(run_id, file_name, file_path, file_size, duration_sec, method, language, summary_model, output_file, elapsed_sec, processed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`
	_, err := sdb.db.Exec(insertSQL,
		rec.RunID, rec.FileName, rec.FilePath, rec.FileSize, rec.DurationSec,
		rec.Method, rec.Language, rec.SummaryModel, rec.OutputFile, rec.ElapsedSec, rec.ProcessedAt)
	if err != nil {
		return fmt.Errorf("failed to record processed file: %w", err)
	}
	return nil
}

func (sdb *SQLiteDB) GetAll() ([]model.ProcessedFile, error) {
	sqlStr := `
		SELECT id, run_id, file_name, file_path, file_size, duration_sec, method, language, summary_model, output_file, elapsed_sec, processed_at
		FROM processed_files
		ORDER BY processed_at DESC, id DESC;`
	rows, err := sdb.db.Query(sqlStr)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	records := make([]model.ProcessedFile, 0)
	for rows.Next() {
		var rec model.ProcessedFile
		err = rows.Scan(&rec.ID, &rec.RunID, &rec.FileName, &rec.FilePath, &rec.FileSize,
			&rec.DurationSec, &rec.Method, &rec.Language, &rec.SummaryModel,
			&rec.OutputFile, &rec.ElapsedSec, &rec.ProcessedAt)
		if err != nil {
			return nil, fmt.Errorf("db scan failed: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (sdb *SQLiteDB) GetByID(id int) (model.ProcessedFile, error) {
	query := `
		SELECT id, run_id, file_name, file_path, file_size, duration_sec, method, language, summary_model, output_file, elapsed_sec, processed_at
		FROM processed_files WHERE id = ?;`
	var rec model.ProcessedFile
	err := sdb.db.QueryRow(query, id).Scan(&rec.ID, &rec.RunID, &rec.FileName, &rec.FilePath, &rec.FileSize,
		&rec.DurationSec, &rec.Method, &rec.Language, &rec.SummaryModel,
		&rec.OutputFile, &rec.ElapsedSec, &rec.ProcessedAt)
	if err == sql.ErrNoRows {
		return rec, err
	}
	if err != nil {
		return rec, fmt.Errorf("db scan failed: %w", err)
	}
	return rec, nil
}

func (sdb *SQLiteDB) Stats() (model.LedgerStats, error) {
	stats := model.LedgerStats{ByMethod: make(map[string]int)}

	row := sdb.db.QueryRow(`SELECT COUNT(*), COALESCE(SUM(duration_sec), 0), COALESCE(SUM(elapsed_sec), 0) FROM processed_files`)
	if err := row.Scan(&stats.TotalFiles, &stats.TotalAudioSec, &stats.TotalElapsedSec); err != nil {
		return stats, fmt.Errorf("stats query failed: %w", err)
	}

	rows, err := sdb.db.Query(`SELECT method, COUNT(*) FROM processed_files GROUP BY method`)
	if err != nil {
		return stats, fmt.Errorf("stats query failed: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var method string
		var count int
		if err := rows.Scan(&method, &count); err != nil {
			return stats, fmt.Errorf("db scan failed: %w", err)
		}
		stats.ByMethod[method] = count
	}
	if err := rows.Err(); err != nil {
		return stats, err
	}

	row = sdb.db.QueryRow(`SELECT processed_at FROM processed_files ORDER BY processed_at DESC LIMIT 1`)
	if err := row.Scan(&stats.LastProcessedAt); err != nil && err != sql.ErrNoRows {
		return stats, fmt.Errorf("stats query failed: %w", err)
	}

	return stats, nil
}
