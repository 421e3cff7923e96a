package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/labstack/gommon/log"
	"gorm.io/gorm"

	"github.com/adityar2309/Vehicle-Parking-App/internal/activity"
	"github.com/adityar2309/Vehicle-Parking-App/internal/errors"
	"github.com/adityar2309/Vehicle-Parking-App/internal/jobs"
	"github.com/adityar2309/Vehicle-Parking-App/internal/mail"
	"github.com/adityar2309/Vehicle-Parking-App/internal/model"
	"github.com/adityar2309/Vehicle-Parking-App/internal/repository"
)

var exportHeader = []string{
	"reservation_id", "lot_name", "lot_address", "spot_number",
	"vehicle_number", "parking_timestamp", "leaving_timestamp",
	"parking_cost", "status",
}

// exportHistoryLimit bounds how many past jobs the history listing returns.
const exportHistoryLimit = 10

// ExportService generates CSV exports of a user's parking history through
// the background task queue. One job per user may be in flight at a time.
type ExportService interface {
	RequestExport(ctx context.Context, userID uint) (*model.ExportJob, error)
	GetStatus(ctx context.Context, userID uint, jobID string) (*model.ExportJob, error)
	// Cancel marks a pending or processing job cancelled. A job that already
	// finished is not cancellable.
	Cancel(ctx context.Context, userID uint, jobID string) (*model.ExportJob, error)
	// ListJobs returns the user's most recent export jobs, newest first.
	ListJobs(ctx context.Context, userID uint) ([]model.ExportJob, error)
	// ResolveDownload returns the file path for a completed, unexpired job.
	ResolveDownload(ctx context.Context, userID uint, jobID string) (string, error)
	// CleanupExpired deletes the files of expired completed jobs and clears
	// their download fields. Returns the number of jobs cleaned.
	CleanupExpired(ctx context.Context) (int, error)
}

type exportService struct {
	repos    *repository.Repositories
	queue    *jobs.Queue
	recorder activity.Recorder
	mailer   mail.Mailer
	dir      string
	expiry   time.Duration
	now      func() time.Time
}

// NewExportService creates an export service writing files under dir.
func NewExportService(
	repos *repository.Repositories,
	queue *jobs.Queue,
	recorder activity.Recorder,
	mailer mail.Mailer,
	dir string,
	expiry time.Duration,
) ExportService {
	return &exportService{
		repos:    repos,
		queue:    queue,
		recorder: recorder,
		mailer:   mailer,
		dir:      dir,
		expiry:   expiry,
		now:      time.Now,
	}
}

// RequestExport creates a pending job and submits it to the queue.
func (s *exportService) RequestExport(ctx context.Context, userID uint) (*model.ExportJob, error) {
	user, err := s.repos.Users.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if _, err := s.repos.ExportJobs.FindPendingByUser(ctx, userID); err == nil {
		return nil, errors.ErrExportPending
	} else if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("check pending export: %w", err)
	}

	job := &model.ExportJob{
		UserID: userID,
		Status: model.ExportStatusPending,
	}
	if err := s.repos.ExportJobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create export job: %w", err)
	}

	if err := s.queue.Submit("csv_export_"+job.JobID, func(ctx context.Context) error {
		return s.runExport(ctx, user, job.JobID)
	}); err != nil {
		job.Status = model.ExportStatusFailed
		job.ErrorMessage = err.Error()
		_ = s.repos.ExportJobs.Update(ctx, job)
		return nil, fmt.Errorf("submit export job: %w", err)
	}

	s.recorder.Record(userID, model.ActivityExportRequested, map[string]interface{}{
		"job_id": job.JobID,
	})

	return job, nil
}

// GetStatus returns the job for the given id owned by userID.
func (s *exportService) GetStatus(ctx context.Context, userID uint, jobID string) (*model.ExportJob, error) {
	job, err := s.repos.ExportJobs.FindByJobID(ctx, jobID, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrExportJobNotFound
		}
		return nil, fmt.Errorf("find export job: %w", err)
	}
	return job, nil
}

// Cancel flips a still-running job to cancelled via a conditional update, so
// a worker that completed the job in the meantime keeps its result.
func (s *exportService) Cancel(ctx context.Context, userID uint, jobID string) (*model.ExportJob, error) {
	job, err := s.GetStatus(ctx, userID, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != model.ExportStatusPending && job.Status != model.ExportStatusProcessing {
		return nil, errors.ErrExportNotCancellable
	}

	now := s.now()
	ok, err := s.repos.ExportJobs.MarkCancelled(ctx, job.ID, now, "cancelled by user")
	if err != nil {
		return nil, fmt.Errorf("cancel export job: %w", err)
	}
	if !ok {
		return nil, errors.ErrExportNotCancellable
	}

	job.Status = model.ExportStatusCancelled
	job.ErrorMessage = "cancelled by user"
	job.CompletedAt = &now

	s.recorder.Record(userID, model.ActivityExportCancelled, map[string]interface{}{
		"job_id": job.JobID,
	})

	return job, nil
}

// ListJobs returns the user's recent export jobs, newest first.
func (s *exportService) ListJobs(ctx context.Context, userID uint) ([]model.ExportJob, error) {
	exportJobs, err := s.repos.ExportJobs.ListByUser(ctx, userID, exportHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("list export jobs: %w", err)
	}
	return exportJobs, nil
}

func (s *exportService) ResolveDownload(ctx context.Context, userID uint, jobID string) (string, error) {
	job, err := s.GetStatus(ctx, userID, jobID)
	if err != nil {
		return "", err
	}
	if job.Status != model.ExportStatusCompleted {
		return "", errors.ErrExportNotReady
	}
	if job.Expired(s.now()) {
		return "", errors.ErrExportExpired
	}
	return job.FilePath, nil
}

// runExport executes on a queue worker: it marks the job processing, writes
// the CSV and records the outcome on the job row.
func (s *exportService) runExport(ctx context.Context, user *model.User, jobID string) error {
	job, err := s.repos.ExportJobs.FindByJobID(ctx, jobID, user.ID)
	if err != nil {
		return fmt.Errorf("load export job %s: %w", jobID, err)
	}
	if job.Status != model.ExportStatusPending {
		log.Infof("export job %s is %s, skipping", jobID, job.Status)
		return nil
	}

	job.Status = model.ExportStatusProcessing
	if err := s.repos.ExportJobs.Update(ctx, job); err != nil {
		return fmt.Errorf("mark export job processing: %w", err)
	}

	path, err := s.writeCSV(ctx, user.ID, jobID)
	now := s.now()
	if err != nil {
		job.Status = model.ExportStatusFailed
		job.ErrorMessage = err.Error()
		job.CompletedAt = &now
		if uerr := s.repos.ExportJobs.Update(ctx, job); uerr != nil {
			return fmt.Errorf("mark export job failed: %w", uerr)
		}
		return err
	}

	expires := now.Add(s.expiry)
	job.Status = model.ExportStatusCompleted
	job.FilePath = path
	job.DownloadURL = "/api/export/download/" + jobID
	job.CompletedAt = &now
	job.ExpiresAt = &expires
	if err := s.repos.ExportJobs.Update(ctx, job); err != nil {
		return fmt.Errorf("mark export job completed: %w", err)
	}

	if user.Email != "" {
		body := mail.RenderExportNotice(mail.ExportData{
			Username:    user.Username,
			DownloadURL: job.DownloadURL,
			ExpiresAt:   expires.Format(time.RFC1123),
		})
		if err := s.mailer.Send(user.Email, "Your parking history export is ready", body); err != nil {
			log.Warnf("export notice to user %d: %v", user.ID, err)
		}
	}

	return nil
}

// CleanupExpired runs on the scheduler: it removes the files of expired
// completed jobs and drops their download fields so stale links die.
func (s *exportService) CleanupExpired(ctx context.Context) (int, error) {
	expired, err := s.repos.ExportJobs.FindExpiredCompleted(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("find expired exports: %w", err)
	}

	cleaned := 0
	for i := range expired {
		job := &expired[i]
		if err := os.Remove(job.FilePath); err != nil && !os.IsNotExist(err) {
			log.Warnf("remove expired export %s: %v", job.JobID, err)
			continue
		}
		job.FilePath = ""
		job.DownloadURL = ""
		if err := s.repos.ExportJobs.Update(ctx, job); err != nil {
			log.Warnf("clear expired export %s: %v", job.JobID, err)
			continue
		}
		cleaned++
	}

	if cleaned > 0 {
		log.Infof("export cleanup removed %d expired files", cleaned)
	}
	return cleaned, nil
}

func (s *exportService) writeCSV(ctx context.Context, userID uint, jobID string) (string, error) {
	reservations, err := s.repos.Reservations.ListAllByUser(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("list reservations: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(s.dir, fmt.Sprintf("parking_history_%d_%s.csv", userID, jobID))

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(exportHeader); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}
	for i := range reservations {
		detail := resolveReservationDetail(ctx, s.repos, &reservations[i])
		if err := writer.Write(exportRow(&detail)); err != nil {
			return "", fmt.Errorf("write row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("flush export: %w", err)
	}
	return path, nil
}

func exportRow(detail *model.ReservationDetail) []string {
	leaving := ""
	if detail.LeavingTimestamp != nil {
		leaving = detail.LeavingTimestamp.Format(time.RFC3339)
	}
	cost := ""
	if detail.ParkingCost != nil {
		cost = detail.ParkingCost.StringFixed(2)
	}
	return []string{
		fmt.Sprintf("%d", detail.ID),
		detail.LotName,
		detail.LotAddress,
		detail.SpotNumber,
		detail.VehicleNumber,
		detail.ParkingTimestamp.Format(time.RFC3339),
		leaving,
		cost,
		detail.Status,
	}
}
