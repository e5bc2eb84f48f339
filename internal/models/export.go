package models

import "time"

// ExportFormat enumerates supported timetable export formats.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatPDF  ExportFormat = "pdf"
	ExportFormatXLSX ExportFormat = "xlsx"
	ExportFormatICS  ExportFormat = "ics"
)

// Valid reports whether the format is supported.
func (f ExportFormat) Valid() bool {
	switch f {
	case ExportFormatCSV, ExportFormatPDF, ExportFormatXLSX, ExportFormatICS:
		return true
	}
	return false
}

// ContentType returns the MIME type served for the format.
func (f ExportFormat) ContentType() string {
	switch f {
	case ExportFormatCSV:
		return "text/csv"
	case ExportFormatPDF:
		return "application/pdf"
	case ExportFormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ExportFormatICS:
		return "text/calendar"
	}
	return "application/octet-stream"
}

// ExportResult captures a rendered export and its signed download link.
type ExportResult struct {
	ID           string       `json:"id"`
	Format       ExportFormat `json:"format"`
	RelativePath string       `json:"-"`
	URL          string       `json:"url"`
	ExpiresAt    time.Time    `json:"expires_at"`
}
