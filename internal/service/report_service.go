package service

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/unikl-dcms/dcms-api/internal/dto"
	"github.com/unikl-dcms/dcms-api/internal/models"
	"github.com/unikl-dcms/dcms-api/internal/progress"
	appErrors "github.com/unikl-dcms/dcms-api/pkg/errors"
	"github.com/unikl-dcms/dcms-api/pkg/export"
	"github.com/unikl-dcms/dcms-api/pkg/jobs"
)

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

type reportStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
}

type downloadSigner interface {
	Generate(jobID, relPath string) (string, time.Time, error)
	Parse(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error)
}

// ReportDownload aggregates resolved download data.
type ReportDownload struct {
	File     *os.File
	Filename string
	Format   models.ReportFormat
}

// ReportService builds the printable progress report asynchronously:
// create job, queue, render, save, sign a download URL. Job records are
// held in memory.
type ReportService struct {
	content campusReader
	queue   jobDispatcher
	store   reportStorage
	signer  downloadSigner
	pdf     *export.PDFExporter
	csv     *export.CSVExporter
	logger  *zap.Logger

	mu      sync.RWMutex
	records map[string]*models.ReportJob
}

// NewReportService constructs the report service.
func NewReportService(content campusReader, queue jobDispatcher, store reportStorage, signer downloadSigner, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		content: content,
		queue:   queue,
		store:   store,
		signer:  signer,
		pdf:     export.NewPDFExporter(),
		csv:     export.NewCSVExporter(),
		logger:  logger,
		records: make(map[string]*models.ReportJob),
	}
}

// CreateJob registers a job and enqueues processing.
func (s *ReportService) CreateJob(ctx context.Context, actor *models.User, format models.ReportFormat) (*dto.ReportJobResponse, error) {
	switch format {
	case models.ReportFormatPDF, models.ReportFormatCSV:
	case "":
		format = models.ReportFormatPDF
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported report format")
	}

	job := &models.ReportJob{
		ID:        uuid.NewString(),
		Format:    format,
		Status:    models.ReportStatusQueued,
		CreatedAt: time.Now().UTC(),
	}
	if actor != nil {
		job.RequestedBy = actor.Username
	}

	s.mu.Lock()
	s.records[job.ID] = job
	s.mu.Unlock()

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: "report", Payload: format}); err != nil {
		s.failJob(job.ID, "failed to enqueue report job")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue report job")
	}

	return &dto.ReportJobResponse{ID: job.ID, Status: string(job.Status), Format: string(format)}, nil
}

// GetStatus exposes job state to clients.
func (s *ReportService) GetStatus(ctx context.Context, id string) (*dto.ReportStatusResponse, error) {
	s.mu.RLock()
	job, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "report job not found")
	}

	resp := &dto.ReportStatusResponse{
		ID:        job.ID,
		Status:    string(job.Status),
		Format:    string(job.Format),
		ResultURL: job.ResultURL,
		ExpiresAt: job.ExpiresAt,
	}
	if job.ErrorMessage != nil && *job.ErrorMessage != "" {
		resp.Error = job.ErrorMessage
	}
	return resp, nil
}

// ResolveDownload validates a token and opens the stored report file.
func (s *ReportService) ResolveDownload(ctx context.Context, token string) (*ReportDownload, error) {
	jobID, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")
	}

	s.mu.RLock()
	job, ok := s.records[jobID]
	s.mu.RUnlock()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "report job not found")
	}
	if job.FilePath != relPath {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "token mismatch")
	}

	file, err := s.store.Open(relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open report file")
	}
	parts := strings.Split(relPath, "/")
	return &ReportDownload{File: file, Filename: parts[len(parts)-1], Format: job.Format}, nil
}

// Process is the queue handler: render the report and sign its URL.
func (s *ReportService) Process(ctx context.Context, job jobs.Job) error {
	s.mu.Lock()
	record, ok := s.records[job.ID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("unknown report job %s", job.ID)
	}
	record.Status = models.ReportStatusProcessing
	format := record.Format
	s.mu.Unlock()

	campuses, err := s.content.ListCampuses(ctx)
	if err != nil {
		s.failJob(job.ID, "failed to load campuses")
		return err
	}

	var payload []byte
	var filename string
	switch format {
	case models.ReportFormatCSV:
		payload, err = s.csv.Render(detailDataset(campuses))
		filename = fmt.Sprintf("UniKL_DCMS_Report_%s.csv", time.Now().UTC().Format("2006-01-02"))
	default:
		payload, err = s.pdf.Render(buildReportDocument(campuses, time.Now()))
		filename = fmt.Sprintf("UniKL_DCMS_Report_%s.pdf", time.Now().UTC().Format("2006-01-02"))
	}
	if err != nil {
		s.failJob(job.ID, "failed to render report")
		return err
	}

	relPath := fmt.Sprintf("%s/%s", job.ID, filename)
	if _, err := s.store.Save(relPath, payload); err != nil {
		s.failJob(job.ID, "failed to store report")
		return err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		s.failJob(job.ID, "failed to sign download url")
		return err
	}
	resultURL := "/api/v1/reports/download/" + token

	now := time.Now().UTC()
	s.mu.Lock()
	record.Status = models.ReportStatusCompleted
	record.FilePath = relPath
	record.ResultURL = &resultURL
	record.FinishedAt = &now
	record.ExpiresAt = &expiresAt
	s.mu.Unlock()

	s.logger.Info("report generated", zap.String("job_id", job.ID), zap.String("file", relPath))
	return nil
}

func (s *ReportService) failJob(id, message string) {
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	if record, ok := s.records[id]; ok {
		record.Status = models.ReportStatusFailed
		record.ErrorMessage = &message
		record.FinishedAt = &now
	}
}

// buildReportDocument assembles the four printable sections.
func buildReportDocument(campuses []models.Campus, now time.Time) export.ReportDocument {
	totals := progress.Totals(campuses)

	overview := export.Section{
		Heading: "University Overview",
		Headers: []string{"Metric", "Value", "Metric", "Value"},
		Accent:  true,
		Rows: [][]string{
			{"Total Campuses", fmt.Sprint(totals.Campuses), "Total Programmes", fmt.Sprint(totals.Programmes)},
			{"Total Courses", fmt.Sprint(totals.TotalCourses), "Courses Completed", fmt.Sprint(totals.CompletedCourses)},
			{"Overall Progress", fmt.Sprintf("%d%%", totals.ProgressPercent), "", ""},
		},
	}

	modeRows := make([][]string, 0)
	for _, m := range progress.ModeTotals(campuses) {
		modeRows = append(modeRows, []string{strings.ToUpper(m.Mode), fmt.Sprint(m.Count)})
	}
	modes := export.Section{
		Heading: "Mode Statistics",
		Headers: []string{"Mode", "Total Courses"},
		Accent:  true,
		Rows:    modeRows,
	}

	campusRows := make([][]string, 0, len(campuses))
	for _, c := range campuses {
		campusRows = append(campusRows, []string{
			c.Name,
			fmt.Sprint(c.TotalCourses),
			fmt.Sprint(c.CompletedCourses),
			fmt.Sprintf("%d%%", progress.CampusCompletionPercent(c)),
		})
	}
	summary := export.Section{
		Heading:  "Campus Performance Summary",
		Headers:  []string{"Campus", "Total", "Done", "Progress"},
		FontSize: 9,
		Rows:     campusRows,
	}

	detail := export.Section{
		Heading:  "Detailed Course Breakdown",
		Headers:  []string{"Campus", "Mode", "Code", "Course", "SME", "All", "SIM", "ESIM", "Vid"},
		FontSize: 7,
		Rows:     detailRows(campuses),
	}

	return export.ReportDocument{
		Title:    "UniKL Digital Course Management System",
		Subtitle: fmt.Sprintf("Comprehensive Progress Report | Generated: %s", now.Format("02/01/2006")),
		Sections: []export.Section{overview, modes, summary, detail},
	}
}

func detailRows(campuses []models.Campus) [][]string {
	rows := make([][]string, 0)
	for _, campus := range campuses {
		for _, modeKey := range sortedModeKeys(campus.Modes) {
			mode := campus.Modes[modeKey]
			for _, prog := range mode.Programmes {
				for _, course := range prog.Courses {
					rows = append(rows, []string{
						campus.Name,
						strings.ToUpper(modeKey),
						course.Code,
						export.Truncate(course.Name, 25),
						export.Truncate(course.SMELead, 15),
						fmt.Sprintf("%d%%", progress.CourseAverage(course)),
						fmt.Sprintf("%d%%", course.Progress.Sim),
						fmt.Sprintf("%d%%", course.Progress.ESim),
						fmt.Sprintf("%d%%", course.Progress.IntroVideo),
					})
				}
			}
		}
	}
	return rows
}

func detailDataset(campuses []models.Campus) export.Dataset {
	return export.Dataset{
		Headers: []string{"Campus", "Mode", "Code", "Course", "SME", "All", "SIM", "ESIM", "Vid"},
		Rows:    detailRows(campuses),
	}
}

func sortedModeKeys(modes map[string]models.ModeData) []string {
	keys := make([]string, 0, len(modes))
	for key := range modes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
