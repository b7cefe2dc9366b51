package service

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/central-adp/central-admin-api/internal/dto"
	"github.com/central-adp/central-admin-api/internal/models"
	appErrors "github.com/central-adp/central-admin-api/pkg/errors"
	"github.com/central-adp/central-admin-api/pkg/storage"
)

func newTestReportService(t *testing.T) *ReportService {
	t.Helper()
	inventory, users := seedInventory()
	metrics := NewInventoryService(inventory, users, nil, nil, 0)

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("report-test-secret", time.Hour)

	return NewReportService(metrics, store, signer, nil, nil, 1, 1, 0)
}

func waitForCompletion(t *testing.T, svc *ReportService, jobID string) *dto.ReportStatus {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		status, err := svc.Status(context.Background(), jobID)
		require.NoError(t, err)
		switch status.Status {
		case models.ReportStatusCompleted, models.ReportStatusFailed:
			return status
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("report %s did not finish in time", jobID)
	return nil
}

func TestReportServiceGeneratesCSV(t *testing.T) {
	svc := newTestReportService(t)
	svc.Start(context.Background())
	defer svc.Stop()

	created, err := svc.Create(context.Background(), "staff-1", dto.CreateReportRequest{Format: models.ReportFormatCSV})
	require.NoError(t, err)
	assert.Equal(t, models.ReportFormatCSV, created.Format)

	status := waitForCompletion(t, svc, created.ID)
	require.Equal(t, models.ReportStatusCompleted, status.Status)
	require.Contains(t, status.DownloadURL, "token=")

	token := status.DownloadURL[strings.Index(status.DownloadURL, "token=")+len("token="):]
	path, err := svc.OpenDownload(token)
	require.NoError(t, err)

	payload, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(payload)
	assert.Contains(t, content, "User Code")
	assert.Contains(t, content, "CL-0001")
}

func TestReportServiceGeneratesPDF(t *testing.T) {
	svc := newTestReportService(t)
	svc.Start(context.Background())
	defer svc.Stop()

	created, err := svc.Create(context.Background(), "staff-1", dto.CreateReportRequest{Format: models.ReportFormatPDF})
	require.NoError(t, err)

	status := waitForCompletion(t, svc, created.ID)
	require.Equal(t, models.ReportStatusCompleted, status.Status)

	token := status.DownloadURL[strings.Index(status.DownloadURL, "token=")+len("token="):]
	path, err := svc.OpenDownload(token)
	require.NoError(t, err)

	payload, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
}

func TestReportServiceRejectsUnknownFormat(t *testing.T) {
	svc := newTestReportService(t)
	svc.Start(context.Background())
	defer svc.Stop()

	_, err := svc.Create(context.Background(), "staff-1", dto.CreateReportRequest{Format: "xlsx"})
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestReportServiceStatusUnknownJob(t *testing.T) {
	svc := newTestReportService(t)

	_, err := svc.Status(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}

func TestReportServiceRejectsForgedDownloadToken(t *testing.T) {
	svc := newTestReportService(t)

	_, err := svc.OpenDownload("forged.token.value.sig")
	require.Error(t, err)
	assert.Equal(t, 401, appErrors.FromError(err).Status)
}
