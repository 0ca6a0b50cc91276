package render

import (
	"path/filepath"
	"strings"
	"time"

	"audio-digest/internal/app/util/files"
)

// OutputBaseName returns the date-stamped stem all artifacts of one input
// share: YYYYMMDD_<input-stem>.
func OutputBaseName(inputPath string, now time.Time) string {
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return now.Format("20060102") + "_" + stem
}

// Heading returns the localized document heading.
func Heading(language string) string {
	if language == "de" {
		return "Zusammenfassung"
	}
	return "Summary"
}

// BuildMarkdown places the model's structured summary under a localized
// top-level heading.
func BuildMarkdown(language, summaryBody string) string {
	return "# " + Heading(language) + "\n\n" + summaryBody + "\n"
}

// WriteMarkdown writes the summary Markdown artifact.
func WriteMarkdown(path, content string) error {
	return files.WriteText(path, content)
}

// WriteTranscript writes the raw transcript as a plain text artifact.
func WriteTranscript(path, transcript string) error {
	return files.WriteText(path, transcript+"\n")
}
