package pg

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"audio-digest/internal/app/model"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS processed_files (
	id SERIAL PRIMARY KEY,
	run_id TEXT NOT NULL DEFAULT '',
	file_name TEXT NOT NULL,
	file_path TEXT NOT NULL,
	file_size BIGINT NOT NULL,
	duration_sec DOUBLE PRECISION NOT NULL DEFAULT 0,
	method TEXT NOT NULL,
	language TEXT NOT NULL DEFAULT '',
	summary_model TEXT NOT NULL DEFAULT '',
	output_file TEXT NOT NULL DEFAULT '',
	elapsed_sec DOUBLE PRECISION NOT NULL DEFAULT 0,
	processed_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_processed_files_identity ON processed_files (file_path, file_size);
`

// PostgresDB is the shared-ledger backend: several machines can point at one
// DSN and dedupe against the same history.
type PostgresDB struct {
	db *sql.DB
}

func NewPostgresDB(dsn string) (*PostgresDB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach ledger database: %w", err)
	}
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create ledger schema: %w", err)
	}
	return &PostgresDB{db: db}, nil
}

func (pdb *PostgresDB) Close() error {
	return pdb.db.Close()
}

func (pdb *PostgresDB) CheckIfFileProcessed(filePath string, fileSize int64) (int, error) {
	query := `SELECT id FROM processed_files WHERE file_path = $1 AND file_size = $2 ORDER BY id DESC LIMIT 1`
	row := pdb.db.QueryRow(query, filePath, fileSize)
	var id int
	err := row.Scan(&id)
	return id, err
}

func (pdb *PostgresDB) RecordProcessed(rec model.ProcessedFile) error {
	insertSQL := `INSERT INTO processed_files
		(run_id, file_name, file_path, file_size, duration_sec, method, language, summary_model, output_file, elapsed_sec, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`
	_, err := pdb.db.Exec(insertSQL,
		rec.RunID, rec.FileName, rec.FilePath, rec.FileSize, rec.DurationSec,
		rec.Method, rec.Language, rec.SummaryModel, rec.OutputFile, rec.ElapsedSec, rec.ProcessedAt)
	if err != nil {
		return fmt.Errorf("failed to record processed file: %w", err)
	}
	return nil
}

func (pdb *PostgresDB) GetAll() ([]model.ProcessedFile, error) {
	sqlStr := `
		SELECT id, run_id, file_name, file_path, file_size, duration_sec, method, language, summary_model, output_file, elapsed_sec, processed_at
		FROM processed_files
		ORDER BY processed_at DESC, id DESC;`
	rows, err := pdb.db.Query(sqlStr)
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

func (pdb *PostgresDB) GetByID(id int) (model.ProcessedFile, error) {
	query := `
		SELECT id, run_id, file_name, file_path, file_size, duration_sec, method, language, summary_model, output_file, elapsed_sec, processed_at
		FROM processed_files WHERE id = $1;`
	var rec model.ProcessedFile
	err := pdb.db.QueryRow(query, id).Scan(&rec.ID, &rec.RunID, &rec.FileName, &rec.FilePath, &rec.FileSize,
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

func (pdb *PostgresDB) Stats() (model.LedgerStats, error) {
	stats := model.LedgerStats{ByMethod: make(map[string]int)}

	row := pdb.db.QueryRow(`SELECT COUNT(*), COALESCE(SUM(duration_sec), 0), COALESCE(SUM(elapsed_sec), 0) FROM processed_files`)
	if err := row.Scan(&stats.TotalFiles, &stats.TotalAudioSec, &stats.TotalElapsedSec); err != nil {
		return stats, fmt.Errorf("stats query failed: %w", err)
	}

	rows, err := pdb.db.Query(`SELECT method, COUNT(*) FROM processed_files GROUP BY method`)
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

	row = pdb.db.QueryRow(`SELECT processed_at FROM processed_files ORDER BY processed_at DESC LIMIT 1`)
	if err := row.Scan(&stats.LastProcessedAt); err != nil && err != sql.ErrNoRows {
		return stats, fmt.Errorf("stats query failed: %w", err)
	}

	return stats, nil
}
