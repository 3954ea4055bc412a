package models

import "time"

// ReportFormat selects the rendered output type.
type ReportFormat string

const (
	ReportFormatPDF ReportFormat = "pdf"
	ReportFormatCSV ReportFormat = "csv"
)

// ReportStatus tracks a report job through its lifecycle.
type ReportStatus string

const (
	ReportStatusQueued     ReportStatus = "QUEUED"
	ReportStatusProcessing ReportStatus = "PROCESSING"
	ReportStatusCompleted  ReportStatus = "COMPLETED"
	ReportStatusFailed     ReportStatus = "FAILED"
)

// ReportJob is an asynchronous report generation record. Jobs live in
// memory only; the persisted state model is exactly the three collections,
// so a restart forgets unfinished jobs.
type ReportJob struct {
	ID           string       `json:"id"`
	Format       ReportFormat `json:"format"`
	Status       ReportStatus `json:"status"`
	RequestedBy  string       `json:"requestedBy"`
	ResultURL    *string      `json:"resultUrl,omitempty"`
	FilePath     string       `json:"-"`
	ErrorMessage *string      `json:"error,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	FinishedAt   *time.Time   `json:"finishedAt,omitempty"`
	ExpiresAt    *time.Time   `json:"expiresAt,omitempty"`
}
