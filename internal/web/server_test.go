package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audio-digest/internal/app/model"
	"audio-digest/internal/app/testutil"
	"audio-digest/pkg/logger"
)

func newTestServer(t *testing.T, ledger *testutil.MockLedgerDAO) *Server {
	t.Helper()
	return NewServer("127.0.0.1:0", ledger, logger.Nop())
}

func doRequest(t *testing.T, s *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, testutil.NewMockLedgerDAO())

	rec := doRequest(t, s, http.MethodGet, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decodeBody(t, rec)["status"])
}

func TestListRecords(t *testing.T) {
	ledger := testutil.NewMockLedgerDAO().WithRecords(testutil.SampleProcessedFiles()...)
	s := newTestServer(t, ledger)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/records")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, float64(2), body["count"])

	records := body["records"].([]interface{})
	require.Len(t, records, 2)
	first := records[0].(map[string]interface{})
	assert.Equal(t, "standup_monday.mp3", first["file_name"])
	assert.Equal(t, "api", first["method"])
	assert.Equal(t, float64(912.4), first["duration_sec"])
}

func TestListRecordsEmpty(t *testing.T) {
	s := newTestServer(t, testutil.NewMockLedgerDAO())

	rec := doRequest(t, s, http.MethodGet, "/api/v1/records")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), decodeBody(t, rec)["count"])
}

func TestGetRecord(t *testing.T) {
	ledger := testutil.NewMockLedgerDAO().WithRecords(testutil.SampleProcessedFiles()...)
	s := newTestServer(t, ledger)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/records/2")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "kundengespraech.m4a", body["file_name"])
	assert.Equal(t, "local", body["method"])
	assert.Equal(t, "de", body["language"])
	assert.NotContains(t, body, "summary", "artifact is gone, so no summary body")
}

func TestGetRecordIncludesSummarySections(t *testing.T) {
	mdPath := filepath.Join(t.TempDir(), "20250113_standup_monday.md")
	md := "# Summary\n\n## Title \"Standup\"\n\n## Main Points\n\n- rollout starts Monday\n- docs follow\n"
	require.NoError(t, os.WriteFile(mdPath, []byte(md), 0o644))

	ledger := testutil.NewMockLedgerDAO().WithRecords(model.ProcessedFile{
		FileName:   "standup_monday.mp3",
		OutputFile: mdPath,
	})
	s := newTestServer(t, ledger)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/records/1")
	require.Equal(t, http.StatusOK, rec.Code)

	sections := decodeBody(t, rec)["summary"].([]interface{})
	require.Len(t, sections, 2)
	first := sections[0].(map[string]interface{})
	assert.Equal(t, `Title "Standup"`, first["title"])
	second := sections[1].(map[string]interface{})
	assert.Equal(t, "Main Points", second["title"])
	assert.Contains(t, second["body"], "rollout starts Monday")
}

func TestGetRecordNotFound(t *testing.T) {
	s := newTestServer(t, testutil.NewMockLedgerDAO())

	rec := doRequest(t, s, http.MethodGet, "/api/v1/records/99")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "record not found", decodeBody(t, rec)["error"])
}

func TestGetRecordBadID(t *testing.T) {
	s := newTestServer(t, testutil.NewMockLedgerDAO())

	rec := doRequest(t, s, http.MethodGet, "/api/v1/records/latest")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid record id", decodeBody(t, rec)["error"])
}

func TestGetStats(t *testing.T) {
	ledger := testutil.NewMockLedgerDAO().WithRecords(testutil.SampleProcessedFiles()...)
	s := newTestServer(t, ledger)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, float64(2), body["total_files"])
	assert.InDelta(t, 3622.4, body["total_audio_sec"].(float64), 0.01)
	byMethod := body["by_method"].(map[string]interface{})
	assert.Equal(t, float64(1), byMethod["api"])
	assert.Equal(t, float64(1), byMethod["local"])
}

func TestMetrics(t *testing.T) {
	ledger := testutil.NewMockLedgerDAO().WithRecords(testutil.SampleProcessedFiles()...)
	s := newTestServer(t, ledger)

	rec := doRequest(t, s, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)

	metrics := rec.Body.String()
	assert.Contains(t, metrics, `audiodigest_ledger_files{method="api"} 1`)
	assert.Contains(t, metrics, `audiodigest_ledger_files{method="local"} 1`)
	assert.Contains(t, metrics, "audiodigest_ledger_audio_seconds 3622.4")
	assert.Contains(t, metrics, "audiodigest_ledger_processing_seconds")
	assert.Contains(t, metrics, "audiodigest_ledger_last_processed_timestamp_seconds")
}
