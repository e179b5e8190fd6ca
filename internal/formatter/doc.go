// package formatter renders run reports and exports the download history
//
// Run summaries are plain or lipgloss-styled text; history exports are CSV, Markdown or plain text.
package formatter
