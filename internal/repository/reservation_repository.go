package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/adityar2309/Vehicle-Parking-App/internal/model"
)

// ReservationRepository defines reservation persistence operations.
type ReservationRepository interface {
	Create(ctx context.Context, reservation *model.Reservation) error
	FindByID(ctx context.Context, id uint) (*model.Reservation, error)
	FindOpenByUser(ctx context.Context, userID uint) (*model.Reservation, error)
	FindOpenBySpot(ctx context.Context, spotID uint) (*model.Reservation, error)
	// Close stamps the leaving time and cost on an open reservation and
	// clears its open marker. It reports whether exactly one row changed, so
	// a concurrent double release is detected rather than double-charged.
	Close(ctx context.Context, id uint, leavingAt time.Time, cost decimal.Decimal) (bool, error)
	ListByUser(ctx context.Context, userID uint, offset, limit int) ([]model.Reservation, error)
	ListAllByUser(ctx context.Context, userID uint) ([]model.Reservation, error)
	ListCompletedByUserBetween(ctx context.Context, userID uint, from, to time.Time) ([]model.Reservation, error)
	ListRecent(ctx context.Context, limit int) ([]model.Reservation, error)
	ListRecentByUser(ctx context.Context, userID uint, limit int) ([]model.Reservation, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
	CountCompletedByUser(ctx context.Context, userID uint) (int64, error)
	SumCompletedCostByUser(ctx context.Context, userID uint) (decimal.Decimal, error)
	Count(ctx context.Context) (int64, error)
	CountOpen(ctx context.Context) (int64, error)
	SumCompletedCost(ctx context.Context) (decimal.Decimal, error)
}

type reservationRepository struct {
	db *gorm.DB
}

// NewReservationRepository creates a new reservation repository.
func NewReservationRepository(db *gorm.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

func (r *reservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	return r.db.WithContext(ctx).Create(reservation).Error
}

func (r *reservationRepository) FindByID(ctx context.Context, id uint) (*model.Reservation, error) {
	var reservation model.Reservation
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&reservation).Error; err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *reservationRepository) FindOpenByUser(ctx context.Context, userID uint) (*model.Reservation, error) {
	var reservation model.Reservation
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND leaving_timestamp IS NULL", userID).
		First(&reservation).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *reservationRepository) FindOpenBySpot(ctx context.Context, spotID uint) (*model.Reservation, error) {
	var reservation model.Reservation
	err := r.db.WithContext(ctx).
		Where("spot_id = ? AND leaving_timestamp IS NULL", spotID).
		First(&reservation).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *reservationRepository) Close(ctx context.Context, id uint, leavingAt time.Time, cost decimal.Decimal) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Reservation{}).
		Where("id = ? AND open IS NOT NULL", id).
		Updates(map[string]interface{}{
			"leaving_timestamp": leavingAt,
			"parking_cost":      cost,
			"open":              nil,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *reservationRepository) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]model.Reservation, error) {
	var reservations []model.Reservation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *reservationRepository) ListAllByUser(ctx context.Context, userID uint) ([]model.Reservation, error) {
	var reservations []model.Reservation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *reservationRepository) ListCompletedByUserBetween(ctx context.Context, userID uint, from, to time.Time) ([]model.Reservation, error) {
	var reservations []model.Reservation
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND leaving_timestamp IS NOT NULL", userID).
		Where("parking_timestamp >= ? AND parking_timestamp < ?", from, to).
		Order("parking_timestamp").
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *reservationRepository) ListRecent(ctx context.Context, limit int) ([]model.Reservation, error) {
	var reservations []model.Reservation
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *reservationRepository) ListRecentByUser(ctx context.Context, userID uint, limit int) ([]model.Reservation, error) {
	var reservations []model.Reservation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *reservationRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Reservation{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *reservationRepository) CountCompletedByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Reservation{}).
		Where("user_id = ? AND leaving_timestamp IS NOT NULL", userID).
		Count(&count).Error
	return count, err
}

func (r *reservationRepository) SumCompletedCostByUser(ctx context.Context, userID uint) (decimal.Decimal, error) {
	return r.sumCost(ctx, r.db.WithContext(ctx).Model(&model.Reservation{}).
		Where("user_id = ? AND leaving_timestamp IS NOT NULL", userID))
}

func (r *reservationRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Reservation{}).Count(&count).Error
	return count, err
}

func (r *reservationRepository) CountOpen(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Reservation{}).
		Where("leaving_timestamp IS NULL").
		Count(&count).Error
	return count, err
}

func (r *reservationRepository) SumCompletedCost(ctx context.Context) (decimal.Decimal, error) {
	return r.sumCost(ctx, r.db.WithContext(ctx).Model(&model.Reservation{}).
		Where("leaving_timestamp IS NOT NULL"))
}

func (r *reservationRepository) sumCost(_ context.Context, query *gorm.DB) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := query.Select("SUM(parking_cost)").Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
