package models

import "time"

// Report job lifecycle.
const (
	ReportStatusQueued    = "queued"
	ReportStatusRunning   = "running"
	ReportStatusCompleted = "completed"
	ReportStatusFailed    = "failed"
)

// Report formats accepted by the export pipeline.
const (
	ReportFormatCSV = "csv"
	ReportFormatPDF = "pdf"
)

// ReportJob tracks one asynchronous stock-metrics export.
type ReportJob struct {
	ID          string     `json:"id"`
	Format      string     `json:"format"`
	Status      string     `json:"status"`
	FilePath    string     `json:"-"`
	Error       string     `json:"error,omitempty"`
	RequestedBy string     `json:"requested_by"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
