package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unikl-dcms/dcms-api/internal/models"
	appErrors "github.com/unikl-dcms/dcms-api/pkg/errors"
	"github.com/unikl-dcms/dcms-api/pkg/jobs"
	"github.com/unikl-dcms/dcms-api/pkg/storage"
)

// syncDispatcher runs the handler inline so tests do not need the worker
// pool.
type syncDispatcher struct {
	handler func(ctx context.Context, job jobs.Job) error
	err     error
}

func (d *syncDispatcher) Enqueue(job jobs.Job) error {
	if d.err != nil {
		return d.err
	}
	return d.handler(context.Background(), job)
}

func newReportFixture(t *testing.T, campuses []models.Campus) (*ReportService, *syncDispatcher) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test_secret", time.Hour)
	dispatcher := &syncDispatcher{}
	svc := NewReportService(&mockCampusReader{campuses: campuses}, dispatcher, store, signer, nil)
	dispatcher.handler = svc.Process
	return svc, dispatcher
}

func TestReportPDFEndToEnd(t *testing.T) {
	svc, _ := newReportFixture(t, dashboardCampuses())
	ctx := context.Background()

	job, err := svc.CreateJob(ctx, superAdmin(), models.ReportFormatPDF)
	require.NoError(t, err)

	status, err := svc.GetStatus(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, string(models.ReportStatusCompleted), status.Status)
	require.NotNil(t, status.ResultURL)
	assert.True(t, strings.HasPrefix(*status.ResultURL, "/api/v1/reports/download/"))
	require.NotNil(t, status.ExpiresAt)

	token := strings.TrimPrefix(*status.ResultURL, "/api/v1/reports/download/")
	download, err := svc.ResolveDownload(ctx, token)
	require.NoError(t, err)
	defer download.File.Close()

	expected := fmt.Sprintf("UniKL_DCMS_Report_%s.pdf", time.Now().UTC().Format("2006-01-02"))
	assert.Equal(t, expected, download.Filename)
	assert.Equal(t, models.ReportFormatPDF, download.Format)

	header := make([]byte, 4)
	_, err = download.File.Read(header)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(header))
}

func TestReportCSVEndToEnd(t *testing.T) {
	svc, _ := newReportFixture(t, dashboardCampuses())
	ctx := context.Background()

	job, err := svc.CreateJob(ctx, superAdmin(), models.ReportFormatCSV)
	require.NoError(t, err)

	status, err := svc.GetStatus(ctx, job.ID)
	require.NoError(t, err)
	require.NotNil(t, status.ResultURL)

	token := strings.TrimPrefix(*status.ResultURL, "/api/v1/reports/download/")
	download, err := svc.ResolveDownload(ctx, token)
	require.NoError(t, err)
	defer download.File.Close()

	buf := make([]byte, 256)
	n, err := download.File.Read(buf)
	require.NoError(t, err)
	content := string(buf[:n])
	assert.True(t, strings.HasPrefix(content, "Campus,Mode,Code,Course"))
	assert.Contains(t, content, "IRL60203")
}

func TestCreateJobDefaultsToPDF(t *testing.T) {
	svc, _ := newReportFixture(t, nil)

	job, err := svc.CreateJob(context.Background(), superAdmin(), "")
	require.NoError(t, err)
	assert.Equal(t, string(models.ReportFormatPDF), job.Format)
}

func TestCreateJobRejectsUnknownFormat(t *testing.T) {
	svc, _ := newReportFixture(t, nil)

	_, err := svc.CreateJob(context.Background(), superAdmin(), models.ReportFormat("xlsx"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCreateJobEnqueueFailureMarksJobFailed(t *testing.T) {
	svc, dispatcher := newReportFixture(t, nil)
	dispatcher.err = fmt.Errorf("queue full")

	_, err := svc.CreateJob(context.Background(), superAdmin(), models.ReportFormatPDF)
	require.Error(t, err)
}

func TestGetStatusUnknownJob(t *testing.T) {
	svc, _ := newReportFixture(t, nil)

	_, err := svc.GetStatus(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestResolveDownloadRejectsTamperedToken(t *testing.T) {
	svc, _ := newReportFixture(t, dashboardCampuses())
	ctx := context.Background()

	job, err := svc.CreateJob(ctx, superAdmin(), models.ReportFormatPDF)
	require.NoError(t, err)
	status, err := svc.GetStatus(ctx, job.ID)
	require.NoError(t, err)
	token := strings.TrimPrefix(*status.ResultURL, "/api/v1/reports/download/")

	_, err = svc.ResolveDownload(ctx, token+"x")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}
