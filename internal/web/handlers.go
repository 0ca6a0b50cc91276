package web

import (
	"database/sql"
	stderrors "errors"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"audio-digest/internal/app/model"
	"audio-digest/internal/app/repository"
	"audio-digest/internal/app/summary"
)

type ledgerHandler struct {
	ledger repository.LedgerDAO
}

type recordResponse struct {
	ID           int       `json:"id"`
	RunID        string    `json:"run_id"`
	FileName     string    `json:"file_name"`
	FilePath     string    `json:"file_path"`
	FileSize     int64     `json:"file_size"`
	DurationSec  float64   `json:"duration_sec"`
	Method       string    `json:"method"`
	Language     string    `json:"language"`
	SummaryModel string    `json:"summary_model"`
	OutputFile   string    `json:"output_file"`
	ElapsedSec   float64   `json:"elapsed_sec"`
	ProcessedAt  time.Time `json:"processed_at"`
}

type sectionResponse struct {
	Title string `json:"title"`
	Body  string `json:"body,omitempty"`
}

type recordDetailResponse struct {
	recordResponse
	Summary []sectionResponse `json:"summary,omitempty"`
}

type statsResponse struct {
	TotalFiles      int            `json:"total_files"`
	TotalAudioSec   float64        `json:"total_audio_sec"`
	TotalElapsedSec float64        `json:"total_elapsed_sec"`
	ByMethod        map[string]int `json:"by_method"`
	LastProcessedAt time.Time      `json:"last_processed_at"`
}

func toRecordResponse(rec model.ProcessedFile) recordResponse {
	return recordResponse{
		ID:           rec.ID,
		RunID:        rec.RunID,
		FileName:     rec.FileName,
		FilePath:     rec.FilePath,
		FileSize:     rec.FileSize,
		DurationSec:  rec.DurationSec,
		Method:       rec.Method,
		Language:     rec.Language,
		SummaryModel: rec.SummaryModel,
		OutputFile:   rec.OutputFile,
		ElapsedSec:   rec.ElapsedSec,
		ProcessedAt:  rec.ProcessedAt,
	}
}

// Health handles GET /healthz
func (h *ledgerHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	})
}

// ListRecords handles GET /api/v1/records
func (h *ledgerHandler) ListRecords(c *gin.Context) {
	records, err := h.ledger.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(records),
		"records": lo.Map(records, func(rec model.ProcessedFile, _ int) recordResponse {
			return toRecordResponse(rec)
		}),
	})
}

// GetRecord handles GET /api/v1/records/:id
func (h *ledgerHandler) GetRecord(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record id"})
		return
	}

	rec, err := h.ledger.GetByID(id)
	if stderrors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, recordDetailResponse{
		recordResponse: toRecordResponse(rec),
		Summary:        loadSummarySections(rec.OutputFile),
	})
}

// loadSummarySections parses the record's markdown artifact when it is still
// on disk. The ledger outlives its artifacts; a missing file just means the
// detail view has no summary body.
func loadSummarySections(path string) []sectionResponse {
	if !strings.HasSuffix(path, ".md") {
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return lo.Map(summary.ParseSections(string(raw)), func(s summary.Section, _ int) sectionResponse {
		return sectionResponse{Title: s.Title, Body: s.Body}
	})
}

// GetStats handles GET /api/v1/stats
func (h *ledgerHandler) GetStats(c *gin.Context) {
	stats, err := h.ledger.Stats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, statsResponse{
		TotalFiles:      stats.TotalFiles,
		TotalAudioSec:   stats.TotalAudioSec,
		TotalElapsedSec: stats.TotalElapsedSec,
		ByMethod:        stats.ByMethod,
		LastProcessedAt: stats.LastProcessedAt,
	})
}
