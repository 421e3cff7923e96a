package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/adityar2309/Vehicle-Parking-App/internal/activity"
	"github.com/adityar2309/Vehicle-Parking-App/internal/cache"
	"github.com/adityar2309/Vehicle-Parking-App/internal/errors"
	"github.com/adityar2309/Vehicle-Parking-App/internal/model"
	"github.com/adityar2309/Vehicle-Parking-App/internal/repository"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// ReservationPage is one page of a user's reservation history.
type ReservationPage struct {
	Reservations []model.ReservationDetail `json:"reservations"`
	Total        int64                     `json:"total"`
}

// ReservationService is the booking and release state machine. Booking picks
// the Available spot with the lowest spot number in the lot; release computes
// the time-based cost. Both run in a single database transaction and keep
// spot statuses, caches and the activity log consistent.
type ReservationService interface {
	Book(ctx context.Context, userID, lotID uint, vehicleNumber string) (*model.ReservationDetail, error)
	Release(ctx context.Context, userID uint) (*model.ReservationDetail, error)
	GetActiveReservation(ctx context.Context, userID uint) (*model.ReservationDetail, error)
	ListReservations(ctx context.Context, userID uint, page, pageSize int) (*ReservationPage, error)
}

type reservationService struct {
	repos    *repository.Repositories
	tx       repository.TxManager
	cache    cache.Store
	recorder activity.Recorder
	pageTTL  time.Duration
	now      func() time.Time
}

// NewReservationService creates the reservation engine.
func NewReservationService(
	repos *repository.Repositories,
	tx repository.TxManager,
	cacheStore cache.Store,
	recorder activity.Recorder,
	pageTTL time.Duration,
) ReservationService {
	return &reservationService{
		repos:    repos,
		tx:       tx,
		cache:    cacheStore,
		recorder: recorder,
		pageTTL:  pageTTL,
		now:      time.Now,
	}
}

// Book reserves the first available spot in the lot for the user. Spot
// selection and the status flip happen inside one transaction with the
// candidate row locked, so two concurrent bookings can never claim the same
// spot; the unique open-reservation index backs up the one-per-user check.
func (s *reservationService) Book(ctx context.Context, userID, lotID uint, vehicleNumber string) (*model.ReservationDetail, error) {
	vehicleNumber = strings.TrimSpace(vehicleNumber)
	if vehicleNumber == "" {
		return nil, errors.ErrVehicleNumberRequired
	}

	user, err := s.repos.Users.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	// Admin accounts administer lots, they do not park.
	if user.Role != model.RoleUser {
		return nil, errors.ErrUserNotFound
	}

	lot, err := s.repos.Lots.FindByID(ctx, lotID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrLotNotFound
		}
		return nil, fmt.Errorf("find lot: %w", err)
	}

	// Friendly pre-check; the unique index is the real guard.
	if _, err := s.repos.Reservations.FindOpenByUser(ctx, userID); err == nil {
		return nil, errors.ErrAlreadyActive
	} else if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("check open reservation: %w", err)
	}

	now := s.now()
	open := true
	reservation := &model.Reservation{
		UserID:           userID,
		VehicleNumber:    vehicleNumber,
		ParkingTimestamp: now,
		Open:             &open,
	}
	var spot *model.ParkingSpot

	err = s.tx.WithTransaction(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		var err error
		spot, err = repos.Spots.FindFirstAvailableForUpdate(ctx, lotID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrLotFull
			}
			return fmt.Errorf("select spot: %w", err)
		}

		occupied, err := repos.Spots.UpdateStatus(ctx, spot.ID, model.SpotAvailable, model.SpotOccupied)
		if err != nil {
			return fmt.Errorf("occupy spot: %w", err)
		}
		if !occupied {
			return errors.ErrLotFull
		}

		reservation.SpotID = spot.ID
		if err := repos.Reservations.Create(ctx, reservation); err != nil {
			if err == gorm.ErrDuplicatedKey {
				return errors.ErrAlreadyActive
			}
			return fmt.Errorf("create reservation: %w", err)
		}

		return repos.Users.TouchLastBooking(ctx, userID, now)
	})
	if err != nil {
		return nil, err
	}

	cache.InvalidateLot(ctx, s.cache, lotID)
	cache.InvalidateUser(ctx, s.cache, userID)

	s.recorder.Record(userID, model.ActivityBookingCreated, map[string]interface{}{
		"lot_id":         lotID,
		"spot_id":        spot.ID,
		"spot_number":    spot.SpotNumber,
		"vehicle_number": vehicleNumber,
	})

	detail := newReservationDetail(reservation, spot, lot)
	return &detail, nil
}

// Release closes the user's open reservation, computes the cost and frees
// the spot. The close is a conditional update on the open marker, so a
// concurrent double release loses the race and reports NoActiveReservation.
func (s *reservationService) Release(ctx context.Context, userID uint) (*model.ReservationDetail, error) {
	reservation, err := s.repos.Reservations.FindOpenByUser(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrNoActiveReservation
		}
		return nil, fmt.Errorf("find open reservation: %w", err)
	}

	now := s.now()
	spot, lot := s.resolveSpotAndLot(ctx, reservation.SpotID)

	// Cost is fail-soft: an unresolvable lot bills zero rather than failing
	// the release.
	closed := *reservation
	closed.LeavingTimestamp = &now
	cost := decimal.Zero.Round(2)
	if lot != nil {
		cost = closed.CalculateCost(lot.Price)
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		ok, err := repos.Reservations.Close(ctx, reservation.ID, now, cost)
		if err != nil {
			return fmt.Errorf("close reservation: %w", err)
		}
		if !ok {
			return errors.ErrNoActiveReservation
		}

		if spot == nil {
			return nil
		}
		freed, err := repos.Spots.UpdateStatus(ctx, spot.ID, model.SpotOccupied, model.SpotAvailable)
		if err != nil {
			return fmt.Errorf("free spot: %w", err)
		}
		if !freed {
			return fmt.Errorf("spot %d was not occupied while closing reservation %d", spot.ID, reservation.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if spot != nil {
		cache.InvalidateLot(ctx, s.cache, spot.LotID)
	}
	cache.InvalidateUser(ctx, s.cache, userID)

	payload := map[string]interface{}{
		"reservation_id": reservation.ID,
		"duration_hours": roundHours(closed.DurationHours()),
		"cost":           cost.InexactFloat64(),
	}
	if spot != nil {
		payload["lot_id"] = spot.LotID
		payload["spot_id"] = spot.ID
		payload["spot_number"] = spot.SpotNumber
	}
	s.recorder.Record(userID, model.ActivityBookingCompleted, payload)

	closed.ParkingCost = &cost
	closed.Open = nil
	detail := newReservationDetail(&closed, spot, lot)
	return &detail, nil
}

// GetActiveReservation returns the user's open reservation, or nil without
// error when there is none. Pure read.
func (s *reservationService) GetActiveReservation(ctx context.Context, userID uint) (*model.ReservationDetail, error) {
	reservation, err := s.repos.Reservations.FindOpenByUser(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("find open reservation: %w", err)
	}
	detail := s.toDetail(ctx, reservation)
	return &detail, nil
}

// ListReservations returns the user's history ordered by creation time
// descending. Only the first page is cached, to bound cache key cardinality.
func (s *reservationService) ListReservations(ctx context.Context, userID uint, page, pageSize int) (*ReservationPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	compute := func(ctx context.Context) (*ReservationPage, error) {
		reservations, err := s.repos.Reservations.ListByUser(ctx, userID, (page-1)*pageSize, pageSize)
		if err != nil {
			return nil, fmt.Errorf("list reservations: %w", err)
		}
		total, err := s.repos.Reservations.CountByUser(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("count reservations: %w", err)
		}

		result := &ReservationPage{
			Reservations: make([]model.ReservationDetail, 0, len(reservations)),
			Total:        total,
		}
		for i := range reservations {
			result.Reservations = append(result.Reservations, s.toDetail(ctx, &reservations[i]))
		}
		return result, nil
	}

	if page == 1 && pageSize == defaultPageSize {
		return cache.GetOrCompute(ctx, s.cache, cache.UserReservationsFirstPageKey(userID), s.pageTTL, compute)
	}
	return compute(ctx)
}

func (s *reservationService) resolveSpotAndLot(ctx context.Context, spotID uint) (*model.ParkingSpot, *model.ParkingLot) {
	return resolveSpotAndLot(ctx, s.repos, spotID)
}

func (s *reservationService) toDetail(ctx context.Context, reservation *model.Reservation) model.ReservationDetail {
	return resolveReservationDetail(ctx, s.repos, reservation)
}

func resolveSpotAndLot(ctx context.Context, repos *repository.Repositories, spotID uint) (*model.ParkingSpot, *model.ParkingLot) {
	spot, err := repos.Spots.FindByID(ctx, spotID)
	if err != nil {
		return nil, nil
	}
	lot, err := repos.Lots.FindByID(ctx, spot.LotID)
	if err != nil {
		return spot, nil
	}
	return spot, lot
}

func resolveReservationDetail(ctx context.Context, repos *repository.Repositories, reservation *model.Reservation) model.ReservationDetail {
	spot, lot := resolveSpotAndLot(ctx, repos, reservation.SpotID)
	return newReservationDetail(reservation, spot, lot)
}

// newReservationDetail resolves display fields, rendering "Unknown" for a
// spot or lot that no longer exists (a lot shrink leaves historical
// reservations pointing at removed spots).
func newReservationDetail(reservation *model.Reservation, spot *model.ParkingSpot, lot *model.ParkingLot) model.ReservationDetail {
	detail := model.ReservationDetail{
		Reservation: *reservation,
		SpotNumber:  "Unknown",
		LotName:     "Unknown",
		LotAddress:  "Unknown",
		Status:      reservation.StatusDisplay(),
	}
	if spot != nil {
		detail.SpotNumber = spot.SpotNumber
	}
	if lot != nil {
		detail.LotName = lot.PrimeLocationName
		detail.LotAddress = lot.Address
	}
	return detail
}

func roundHours(hours float64) float64 {
	return decimal.NewFromFloat(hours).Round(2).InexactFloat64()
}
