package web

import (
	"github.com/prometheus/client_golang/prometheus"

	"audio-digest/internal/app/repository"
)

// ledgerCollector reads ledger aggregates at scrape time instead of keeping
// counters in process: the CLI writes the ledger, this server only reads it.
type ledgerCollector struct {
	ledger repository.LedgerDAO

	files          *prometheus.Desc
	audioSeconds   *prometheus.Desc
	elapsedSeconds *prometheus.Desc
	lastProcessed  *prometheus.Desc
}

func newLedgerCollector(ledger repository.LedgerDAO) *ledgerCollector {
	return &ledgerCollector{
		ledger: ledger,
		files: prometheus.NewDesc(
			"audiodigest_ledger_files",
			"Number of processed files in the ledger.",
			[]string{"method"}, nil),
		audioSeconds: prometheus.NewDesc(
			"audiodigest_ledger_audio_seconds",
			"Total duration of processed audio.",
			nil, nil),
		elapsedSeconds: prometheus.NewDesc(
			"audiodigest_ledger_processing_seconds",
			"Total wall-clock time spent processing.",
			nil, nil),
		lastProcessed: prometheus.NewDesc(
			"audiodigest_ledger_last_processed_timestamp_seconds",
			"Unix time of the most recent ledger row.",
			nil, nil),
	}
}

func (lc *ledgerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- lc.files
	ch <- lc.audioSeconds
	ch <- lc.elapsedSeconds
	ch <- lc.lastProcessed
}

func (lc *ledgerCollector) Collect(ch chan<- prometheus.Metric) {
	stats, err := lc.ledger.Stats()
	if err != nil {
		ch <- prometheus.NewInvalidMetric(lc.files, err)
		return
	}

	for method, count := range stats.ByMethod {
		ch <- prometheus.MustNewConstMetric(lc.files, prometheus.GaugeValue, float64(count), method)
	}
	ch <- prometheus.MustNewConstMetric(lc.audioSeconds, prometheus.GaugeValue, stats.TotalAudioSec)
	ch <- prometheus.MustNewConstMetric(lc.elapsedSeconds, prometheus.GaugeValue, stats.TotalElapsedSec)
	if !stats.LastProcessedAt.IsZero() {
		ch <- prometheus.MustNewConstMetric(lc.lastProcessed, prometheus.GaugeValue, float64(stats.LastProcessedAt.Unix()))
	}
}
