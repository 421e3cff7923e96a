package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/adityar2309/Vehicle-Parking-App/internal/model"
)

// SpotRepository defines parking spot persistence operations. UpdateStatus is
// the only way a spot's status changes; it is conditional on the expected
// current status so callers can detect lost races.
type SpotRepository interface {
	CreateBatch(ctx context.Context, spots []model.ParkingSpot) error
	FindByID(ctx context.Context, id uint) (*model.ParkingSpot, error)
	FindByLot(ctx context.Context, lotID uint) ([]model.ParkingSpot, error)
	// FindByLotForUpdate locks every spot of the lot so status flips from
	// concurrent bookings cannot land between the read and a following
	// delete. Must run inside a transaction.
	FindByLotForUpdate(ctx context.Context, lotID uint) ([]model.ParkingSpot, error)
	// FindFirstAvailableForUpdate locks and returns the Available spot with
	// the lowest spot number in the lot, or gorm.ErrRecordNotFound when the
	// lot is full. Must run inside a transaction.
	FindFirstAvailableForUpdate(ctx context.Context, lotID uint) (*model.ParkingSpot, error)
	// UpdateStatus flips a spot from the expected status to the new one and
	// reports whether exactly one row changed.
	UpdateStatus(ctx context.Context, id uint, from, to model.SpotStatus) (bool, error)
	CountByStatus(ctx context.Context, lotID uint, status model.SpotStatus) (int64, error)
	CountAllByStatus(ctx context.Context, status model.SpotStatus) (int64, error)
	Count(ctx context.Context) (int64, error)
	DeleteByIDs(ctx context.Context, ids []uint) error
	DeleteByLot(ctx context.Context, lotID uint) error
}

type spotRepository struct {
	db *gorm.DB
}

// NewSpotRepository creates a new spot repository.
func NewSpotRepository(db *gorm.DB) SpotRepository {
	return &spotRepository{db: db}
}

func (r *spotRepository) CreateBatch(ctx context.Context, spots []model.ParkingSpot) error {
	if len(spots) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&spots).Error
}

func (r *spotRepository) FindByID(ctx context.Context, id uint) (*model.ParkingSpot, error) {
	var spot model.ParkingSpot
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&spot).Error; err != nil {
		return nil, err
	}
	return &spot, nil
}

func (r *spotRepository) FindByLot(ctx context.Context, lotID uint) ([]model.ParkingSpot, error) {
	var spots []model.ParkingSpot
	err := r.db.WithContext(ctx).
		Where("lot_id = ?", lotID).
		Order("spot_number").
		Find(&spots).Error
	if err != nil {
		return nil, err
	}
	return spots, nil
}

func (r *spotRepository) FindByLotForUpdate(ctx context.Context, lotID uint) ([]model.ParkingSpot, error) {
	var spots []model.ParkingSpot
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("lot_id = ?", lotID).
		Order("spot_number").
		Find(&spots).Error
	if err != nil {
		return nil, err
	}
	return spots, nil
}

func (r *spotRepository) FindFirstAvailableForUpdate(ctx context.Context, lotID uint) (*model.ParkingSpot, error) {
	var spot model.ParkingSpot
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("lot_id = ? AND status = ?", lotID, model.SpotAvailable).
		Order("spot_number").
		First(&spot).Error
	if err != nil {
		return nil, err
	}
	return &spot, nil
}

func (r *spotRepository) UpdateStatus(ctx context.Context, id uint, from, to model.SpotStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.ParkingSpot{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *spotRepository) CountByStatus(ctx context.Context, lotID uint, status model.SpotStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ParkingSpot{}).
		Where("lot_id = ? AND status = ?", lotID, status).
		Count(&count).Error
	return count, err
}

func (r *spotRepository) CountAllByStatus(ctx context.Context, status model.SpotStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ParkingSpot{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *spotRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ParkingSpot{}).Count(&count).Error
	return count, err
}

func (r *spotRepository) DeleteByIDs(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Delete(&model.ParkingSpot{}, ids).Error
}

func (r *spotRepository) DeleteByLot(ctx context.Context, lotID uint) error {
	return r.db.WithContext(ctx).Where("lot_id = ?", lotID).Delete(&model.ParkingSpot{}).Error
}
