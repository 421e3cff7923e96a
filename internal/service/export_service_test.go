package service

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/adityar2309/Vehicle-Parking-App/internal/errors"
	"github.com/adityar2309/Vehicle-Parking-App/internal/jobs"
	"github.com/adityar2309/Vehicle-Parking-App/internal/mail"
	"github.com/adityar2309/Vehicle-Parking-App/internal/model"
)

func TestExportService_RequestExport(t *testing.T) {
	user := &model.User{ID: 1, Username: "alice", Role: model.RoleUser}
	started := time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC)
	ended := started.Add(2 * time.Hour)
	cost := decimal.RequireFromString("8.00")

	t.Run("writes the CSV and completes the job", func(t *testing.T) {
		dir := t.TempDir()
		repos := newTestRepos()
		recorder := &stubRecorder{}
		queue := jobs.NewQueue(1, 4)

		job := &model.ExportJob{UserID: 1, Status: model.ExportStatusPending, JobID: "job-123"}

		repos.users.On("FindByID", mock.Anything, uint(1)).Return(user, nil)
		repos.exportJobs.On("FindPendingByUser", mock.Anything, uint(1)).Return(nil, gorm.ErrRecordNotFound)
		repos.exportJobs.On("Create", mock.Anything, mock.AnythingOfType("*model.ExportJob")).Run(func(args mock.Arguments) {
			args.Get(1).(*model.ExportJob).JobID = "job-123"
		}).Return(nil)
		repos.exportJobs.On("FindByJobID", mock.Anything, "job-123", uint(1)).Return(job, nil)
		repos.exportJobs.On("Update", mock.Anything, mock.AnythingOfType("*model.ExportJob")).Return(nil)
		repos.reservations.On("ListAllByUser", mock.Anything, uint(1)).Return([]model.Reservation{
			{ID: 11, SpotID: 7, UserID: 1, VehicleNumber: "KA-01-AB-1234", ParkingTimestamp: started, LeavingTimestamp: &ended, ParkingCost: &cost},
		}, nil)
		repos.spots.On("FindByID", mock.Anything, uint(7)).Return(&model.ParkingSpot{ID: 7, LotID: 3, SpotNumber: "P001"}, nil)
		repos.lots.On("FindByID", mock.Anything, uint(3)).Return(&model.ParkingLot{ID: 3, PrimeLocationName: "Demo Lot", Address: "12 Demo Street"}, nil)

		svc := NewExportService(repos.bundle, queue, recorder, mail.Disabled{}, dir, 24*time.Hour)

		requested, err := svc.RequestExport(context.Background(), 1)
		assert.NoError(t, err)
		assert.Equal(t, "job-123", requested.JobID)

		// Wait for the worker to run the export.
		queue.Shutdown()

		assert.Equal(t, model.ExportStatusCompleted, job.Status)
		assert.Equal(t, "/api/export/download/job-123", job.DownloadURL)
		assert.NotNil(t, job.CompletedAt)
		assert.NotNil(t, job.ExpiresAt)

		file, err := os.Open(job.FilePath)
		assert.NoError(t, err)
		defer file.Close()

		rows, err := csv.NewReader(file).ReadAll()
		assert.NoError(t, err)
		if assert.Len(t, rows, 2) {
			assert.Equal(t, exportHeader, rows[0])
			assert.Equal(t, "11", rows[1][0])
			assert.Equal(t, "Demo Lot", rows[1][1])
			assert.Equal(t, "P001", rows[1][3])
			assert.Equal(t, "KA-01-AB-1234", rows[1][4])
			assert.Equal(t, "8.00", rows[1][7])
			assert.Equal(t, "Completed", rows[1][8])
		}

		events := recorder.byType(model.ActivityExportRequested)
		if assert.Len(t, events, 1) {
			assert.Equal(t, "job-123", events[0].Payload["job_id"])
		}
		repos.assertExpectations(t)
	})

	t.Run("one pending export per user", func(t *testing.T) {
		repos := newTestRepos()
		queue := jobs.NewQueue(1, 4)
		defer queue.Shutdown()

		repos.users.On("FindByID", mock.Anything, uint(1)).Return(user, nil)
		repos.exportJobs.On("FindPendingByUser", mock.Anything, uint(1)).Return(&model.ExportJob{JobID: "other", Status: model.ExportStatusProcessing}, nil)

		svc := NewExportService(repos.bundle, queue, &stubRecorder{}, mail.Disabled{}, t.TempDir(), 24*time.Hour)
		job, err := svc.RequestExport(context.Background(), 1)

		assert.Equal(t, errors.ErrExportPending, err)
		assert.Nil(t, job)
		repos.assertExpectations(t)
	})

	t.Run("unknown user", func(t *testing.T) {
		repos := newTestRepos()
		queue := jobs.NewQueue(1, 4)
		defer queue.Shutdown()

		repos.users.On("FindByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)

		svc := NewExportService(repos.bundle, queue, &stubRecorder{}, mail.Disabled{}, t.TempDir(), 24*time.Hour)
		_, err := svc.RequestExport(context.Background(), 99)

		assert.Equal(t, errors.ErrUserNotFound, err)
	})
}

func TestExportService_GetStatus(t *testing.T) {
	repos := newTestRepos()
	repos.exportJobs.On("FindByJobID", mock.Anything, "missing", uint(1)).Return(nil, gorm.ErrRecordNotFound)

	svc := NewExportService(repos.bundle, jobs.NewQueue(1, 1), &stubRecorder{}, mail.Disabled{}, t.TempDir(), 24*time.Hour)
	_, err := svc.GetStatus(context.Background(), 1, "missing")

	assert.Equal(t, errors.ErrExportJobNotFound, err)
}

func TestExportService_Cancel(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	newService := func(repos *testRepos, recorder *stubRecorder) *exportService {
		svc := NewExportService(repos.bundle, jobs.NewQueue(1, 1), recorder, mail.Disabled{}, t.TempDir(), 24*time.Hour).(*exportService)
		svc.now = func() time.Time { return now }
		return svc
	}

	t.Run("cancels a pending job and records the activity", func(t *testing.T) {
		repos := newTestRepos()
		recorder := &stubRecorder{}
		repos.exportJobs.On("FindByJobID", mock.Anything, "job-1", uint(1)).Return(&model.ExportJob{ID: 5, JobID: "job-1", UserID: 1, Status: model.ExportStatusPending}, nil)
		repos.exportJobs.On("MarkCancelled", mock.Anything, uint(5), now, "cancelled by user").Return(true, nil)

		svc := newService(repos, recorder)
		job, err := svc.Cancel(context.Background(), 1, "job-1")

		assert.NoError(t, err)
		assert.Equal(t, model.ExportStatusCancelled, job.Status)
		assert.Equal(t, "cancelled by user", job.ErrorMessage)
		if assert.NotNil(t, job.CompletedAt) {
			assert.Equal(t, now, *job.CompletedAt)
		}
		events := recorder.byType(model.ActivityExportCancelled)
		if assert.Len(t, events, 1) {
			assert.Equal(t, "job-1", events[0].Payload["job_id"])
		}
		repos.assertExpectations(t)
	})

	t.Run("finished jobs are not cancellable", func(t *testing.T) {
		for _, status := range []model.ExportStatus{model.ExportStatusCompleted, model.ExportStatusFailed, model.ExportStatusCancelled} {
			repos := newTestRepos()
			repos.exportJobs.On("FindByJobID", mock.Anything, "job-2", uint(1)).Return(&model.ExportJob{ID: 6, JobID: "job-2", UserID: 1, Status: status}, nil)

			svc := newService(repos, &stubRecorder{})
			_, err := svc.Cancel(context.Background(), 1, "job-2")

			assert.Equal(t, errors.ErrExportNotCancellable, err)
			repos.exportJobs.AssertNotCalled(t, "MarkCancelled", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		}
	})

	t.Run("worker skips a job cancelled before it ran", func(t *testing.T) {
		repos := newTestRepos()
		repos.exportJobs.On("FindByJobID", mock.Anything, "job-4", uint(1)).Return(&model.ExportJob{ID: 8, JobID: "job-4", UserID: 1, Status: model.ExportStatusCancelled}, nil)

		svc := newService(repos, &stubRecorder{})
		err := svc.runExport(context.Background(), &model.User{ID: 1, Username: "alice"}, "job-4")

		assert.NoError(t, err)
		repos.exportJobs.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		repos.reservations.AssertNotCalled(t, "ListAllByUser", mock.Anything, mock.Anything)
	})

	t.Run("worker finishing first wins the race", func(t *testing.T) {
		repos := newTestRepos()
		repos.exportJobs.On("FindByJobID", mock.Anything, "job-3", uint(1)).Return(&model.ExportJob{ID: 7, JobID: "job-3", UserID: 1, Status: model.ExportStatusProcessing}, nil)
		repos.exportJobs.On("MarkCancelled", mock.Anything, uint(7), now, "cancelled by user").Return(false, nil)

		svc := newService(repos, &stubRecorder{})
		_, err := svc.Cancel(context.Background(), 1, "job-3")

		assert.Equal(t, errors.ErrExportNotCancellable, err)
		repos.assertExpectations(t)
	})
}

func TestExportService_ListJobs(t *testing.T) {
	repos := newTestRepos()
	repos.exportJobs.On("ListByUser", mock.Anything, uint(1), exportHistoryLimit).Return([]model.ExportJob{
		{JobID: "job-2", Status: model.ExportStatusCompleted},
		{JobID: "job-1", Status: model.ExportStatusCancelled},
	}, nil)

	svc := NewExportService(repos.bundle, jobs.NewQueue(1, 1), &stubRecorder{}, mail.Disabled{}, t.TempDir(), 24*time.Hour)
	exportJobs, err := svc.ListJobs(context.Background(), 1)

	assert.NoError(t, err)
	if assert.Len(t, exportJobs, 2) {
		assert.Equal(t, "job-2", exportJobs[0].JobID)
	}
	repos.assertExpectations(t)
}

func TestExportService_CleanupExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	stale := now.Add(-time.Hour)

	dir := t.TempDir()
	path := filepath.Join(dir, "parking_history_1_job-1.csv")
	assert.NoError(t, os.WriteFile(path, []byte("reservation_id\n"), 0o644))

	repos := newTestRepos()
	repos.exportJobs.On("FindExpiredCompleted", mock.Anything, now).Return([]model.ExportJob{
		{ID: 5, JobID: "job-1", UserID: 1, Status: model.ExportStatusCompleted, FilePath: path, DownloadURL: "/api/export/download/job-1", ExpiresAt: &stale},
	}, nil)
	repos.exportJobs.On("Update", mock.Anything, mock.MatchedBy(func(job *model.ExportJob) bool {
		return job.JobID == "job-1" && job.FilePath == "" && job.DownloadURL == ""
	})).Return(nil)

	svc := NewExportService(repos.bundle, jobs.NewQueue(1, 1), &stubRecorder{}, mail.Disabled{}, dir, 24*time.Hour).(*exportService)
	svc.now = func() time.Time { return now }

	cleaned, err := svc.CleanupExpired(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, cleaned)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
	repos.assertExpectations(t)
}

func TestExportService_ResolveDownload(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	fresh := now.Add(time.Hour)
	stale := now.Add(-time.Hour)

	tests := []struct {
		name          string
		job           *model.ExportJob
		expectedError error
		expectedPath  string
	}{
		{
			name:         "completed and unexpired",
			job:          &model.ExportJob{JobID: "job-1", Status: model.ExportStatusCompleted, FilePath: "/tmp/export.csv", ExpiresAt: &fresh},
			expectedPath: "/tmp/export.csv",
		},
		{
			name:          "still processing",
			job:           &model.ExportJob{JobID: "job-2", Status: model.ExportStatusProcessing},
			expectedError: errors.ErrExportNotReady,
		},
		{
			name:          "failed job is not downloadable",
			job:           &model.ExportJob{JobID: "job-3", Status: model.ExportStatusFailed},
			expectedError: errors.ErrExportNotReady,
		},
		{
			name:          "expired",
			job:           &model.ExportJob{JobID: "job-4", Status: model.ExportStatusCompleted, FilePath: "/tmp/export.csv", ExpiresAt: &stale},
			expectedError: errors.ErrExportExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repos := newTestRepos()
			repos.exportJobs.On("FindByJobID", mock.Anything, tt.job.JobID, uint(1)).Return(tt.job, nil)

			svc := NewExportService(repos.bundle, jobs.NewQueue(1, 1), &stubRecorder{}, mail.Disabled{}, t.TempDir(), 24*time.Hour).(*exportService)
			svc.now = func() time.Time { return now }

			path, err := svc.ResolveDownload(context.Background(), 1, tt.job.JobID)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
				assert.Empty(t, path)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedPath, path)
			}
		})
	}
}
