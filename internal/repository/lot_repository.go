package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/adityar2309/Vehicle-Parking-App/internal/model"
)

// LotRepository defines parking lot persistence operations.
type LotRepository interface {
	Create(ctx context.Context, lot *model.ParkingLot) error
	Update(ctx context.Context, lot *model.ParkingLot) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.ParkingLot, error)
	List(ctx context.Context) ([]model.ParkingLot, error)
	Count(ctx context.Context) (int64, error)
}

type lotRepository struct {
	db *gorm.DB
}

// NewLotRepository creates a new lot repository.
func NewLotRepository(db *gorm.DB) LotRepository {
	return &lotRepository{db: db}
}

func (r *lotRepository) Create(ctx context.Context, lot *model.ParkingLot) error {
	return r.db.WithContext(ctx).Create(lot).Error
}

func (r *lotRepository) Update(ctx context.Context, lot *model.ParkingLot) error {
	return r.db.WithContext(ctx).Save(lot).Error
}

func (r *lotRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.ParkingLot{}, id).Error
}

func (r *lotRepository) FindByID(ctx context.Context, id uint) (*model.ParkingLot, error) {
	var lot model.ParkingLot
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&lot).Error; err != nil {
		return nil, err
	}
	return &lot, nil
}

func (r *lotRepository) List(ctx context.Context) ([]model.ParkingLot, error) {
	var lots []model.ParkingLot
	if err := r.db.WithContext(ctx).Order("id").Find(&lots).Error; err != nil {
		return nil, err
	}
	return lots, nil
}

func (r *lotRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ParkingLot{}).Count(&count).Error
	return count, err
}
