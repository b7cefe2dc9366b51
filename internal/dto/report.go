package dto

// CreateReportRequest queues a stock-metrics export.
type CreateReportRequest struct {
	Format string `json:"format" validate:"required,oneof=csv pdf"`
}

// ReportStatus reports job progress and, once complete, a signed download URL.
type ReportStatus struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	Format      string `json:"format"`
	DownloadURL string `json:"download_url,omitempty"`
	Error       string `json:"error,omitempty"`
}
