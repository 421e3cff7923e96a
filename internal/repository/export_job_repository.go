package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/adityar2309/Vehicle-Parking-App/internal/model"
)

// ExportJobRepository defines export job persistence operations.
type ExportJobRepository interface {
	Create(ctx context.Context, job *model.ExportJob) error
	Update(ctx context.Context, job *model.ExportJob) error
	FindByJobID(ctx context.Context, jobID string, userID uint) (*model.ExportJob, error)
	FindPendingByUser(ctx context.Context, userID uint) (*model.ExportJob, error)
	ListByUser(ctx context.Context, userID uint, limit int) ([]model.ExportJob, error)
	// MarkCancelled flips a job to cancelled while it is still pending or
	// processing, and reports whether exactly one row changed. A worker that
	// completed the job in the meantime wins the race.
	MarkCancelled(ctx context.Context, id uint, completedAt time.Time, reason string) (bool, error)
	// FindExpiredCompleted returns completed jobs whose file expired before
	// the given time and that still have a file on disk.
	FindExpiredCompleted(ctx context.Context, before time.Time) ([]model.ExportJob, error)
}

type exportJobRepository struct {
	db *gorm.DB
}

// NewExportJobRepository creates a new export job repository.
func NewExportJobRepository(db *gorm.DB) ExportJobRepository {
	return &exportJobRepository{db: db}
}

func (r *exportJobRepository) Create(ctx context.Context, job *model.ExportJob) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *exportJobRepository) Update(ctx context.Context, job *model.ExportJob) error {
	return r.db.WithContext(ctx).Save(job).Error
}

func (r *exportJobRepository) FindByJobID(ctx context.Context, jobID string, userID uint) (*model.ExportJob, error) {
	var job model.ExportJob
	err := r.db.WithContext(ctx).
		Where("job_id = ? AND user_id = ?", jobID, userID).
		First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *exportJobRepository) FindPendingByUser(ctx context.Context, userID uint) (*model.ExportJob, error) {
	var job model.ExportJob
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status IN ?", userID, []model.ExportStatus{model.ExportStatusPending, model.ExportStatusProcessing}).
		First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *exportJobRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]model.ExportJob, error) {
	var exportJobs []model.ExportJob
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&exportJobs).Error
	if err != nil {
		return nil, err
	}
	return exportJobs, nil
}

func (r *exportJobRepository) MarkCancelled(ctx context.Context, id uint, completedAt time.Time, reason string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.ExportJob{}).
		Where("id = ? AND status IN ?", id, []model.ExportStatus{model.ExportStatusPending, model.ExportStatusProcessing}).
		Updates(map[string]interface{}{
			"status":        model.ExportStatusCancelled,
			"completed_at":  completedAt,
			"error_message": reason,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *exportJobRepository) FindExpiredCompleted(ctx context.Context, before time.Time) ([]model.ExportJob, error) {
	var exportJobs []model.ExportJob
	err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at < ? AND file_path <> ''", model.ExportStatusCompleted, before).
		Find(&exportJobs).Error
	if err != nil {
		return nil, err
	}
	return exportJobs, nil
}
