package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/musicarr/internal/models"
	"github.com/desertthunder/musicarr/internal/repositories"
	"github.com/desertthunder/musicarr/internal/shared"
)

// Export formats
const (
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatText     = "txt"
)

// HistoryToCSV converts history records to CSV with columns: Title, Artist, URL
func HistoryToCSV(records []models.HistoryRecord) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Title", "Artist", "URL"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, r := range records {
		if err := writer.Write([]string{r.Title, r.Artist, r.URL}); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// HistoryToMarkdown converts history records to a numbered Markdown list, newest first.
func HistoryToMarkdown(records []models.HistoryRecord) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Download History\n\n")
	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n\n", len(records)))

	for i, r := range records {
		if r.URL != "" {
			buf.WriteString(fmt.Sprintf("%d. [%s - %s](%s)\n", i+1, escapeMarkdown(r.Artist), escapeMarkdown(r.Title), r.URL))
		} else {
			buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, escapeMarkdown(r.Artist), escapeMarkdown(r.Title)))
		}
	}

	return buf.Bytes(), nil
}

// HistoryToText converts history records to plain text
func HistoryToText(records []models.HistoryRecord) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", len(records)))
	for i, r := range records {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, r.Artist, r.Title))
	}

	return buf.Bytes(), nil
}

// ExportHistory renders records in format (csv, markdown or txt).
func ExportHistory(records []models.HistoryRecord, format string) ([]byte, error) {
	switch format {
	case FormatCSV:
		return HistoryToCSV(records)
	case FormatMarkdown, "md":
		return HistoryToMarkdown(records)
	case FormatText, "text":
		return HistoryToText(records)
	default:
		return nil, fmt.Errorf("%w: unsupported export format %q (csv, markdown, txt)", shared.ErrInvalidFlag, format)
	}
}

// WriteHistoryExport writes the export to path.
//
// Defaults to download_history.{csv,md,txt} as the filename.
func WriteHistoryExport(records []models.HistoryRecord, format, path string) (string, error) {
	data, err := ExportHistory(records, format)
	if err != nil {
		return "", err
	}

	if path == "" {
		path = "download_history." + extension(format)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}

// RunsToText renders recorded runs as one line each, most recent first.
func RunsToText(runs []repositories.RunSummary) string {
	if len(runs) == 0 {
		return "No runs recorded.\n"
	}

	var b strings.Builder
	for _, r := range runs {
		fmt.Fprintf(&b, "%s  genre %-4d  %d/%d downloaded, %d not found, %d failed  (%s)\n",
			r.StartedAt.Format("2006-01-02 15:04"),
			r.GenreID,
			r.Downloaded,
			r.Selected,
			r.Unresolved,
			r.Failed,
			r.ID,
		)
	}
	return b.String()
}

func extension(format string) string {
	switch format {
	case FormatMarkdown, "md":
		return "md"
	case FormatText, "text":
		return "txt"
	default:
		return format
	}
}

var markdownEscaper = strings.NewReplacer("[", `\[`, "]", `\]`, "*", `\*`, "_", `\_`)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
