package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/adityar2309/Vehicle-Parking-App/internal/model"
)

// ActivityRepository defines user activity persistence operations. Records
// are append-only; there is no update or delete.
type ActivityRepository interface {
	Create(ctx context.Context, activity *model.UserActivity) error
	ListByUser(ctx context.Context, userID uint, activityType string, offset, limit int) ([]model.UserActivity, error)
	CountByUser(ctx context.Context, userID uint, activityType string) (int64, error)
}

type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new activity repository.
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(ctx context.Context, activity *model.UserActivity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *activityRepository) byUser(ctx context.Context, userID uint, activityType string) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&model.UserActivity{}).Where("user_id = ?", userID)
	if activityType != "" {
		query = query.Where("activity_type = ?", activityType)
	}
	return query
}

func (r *activityRepository) ListByUser(ctx context.Context, userID uint, activityType string, offset, limit int) ([]model.UserActivity, error) {
	var activities []model.UserActivity
	err := r.byUser(ctx, userID, activityType).
		Order("timestamp DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&activities).Error
	if err != nil {
		return nil, err
	}
	return activities, nil
}

func (r *activityRepository) CountByUser(ctx context.Context, userID uint, activityType string) (int64, error) {
	var count int64
	err := r.byUser(ctx, userID, activityType).Count(&count).Error
	return count, err
}
