package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/adityar2309/Vehicle-Parking-App/internal/cache"
	"github.com/adityar2309/Vehicle-Parking-App/internal/errors"
	"github.com/adityar2309/Vehicle-Parking-App/internal/model"
	"github.com/adityar2309/Vehicle-Parking-App/internal/repository"
)

// CreateLotInput carries the fields for a new parking lot.
type CreateLotInput struct {
	PrimeLocationName string
	Address           string
	PinCode           string
	NumberOfSpots     int
	Price             decimal.Decimal
}

// UpdateLotInput carries optional updates; nil fields are left unchanged.
// NumberOfSpots triggers a resize.
type UpdateLotInput struct {
	PrimeLocationName *string
	Address           *string
	PinCode           *string
	Price             *decimal.Decimal
	NumberOfSpots     *int
}

// SpotDetail is a ParkingSpot with its current occupant resolved.
type SpotDetail struct {
	model.ParkingSpot
	StatusDisplay      string           `json:"status_display"`
	CurrentReservation *SpotReservation `json:"current_reservation,omitempty"`
}

// SpotReservation describes who occupies a spot right now.
type SpotReservation struct {
	UserID           uint      `json:"user_id"`
	Username         string    `json:"username"`
	VehicleNumber    string    `json:"vehicle_number"`
	ParkingTimestamp time.Time `json:"parking_timestamp"`
}

// LotService manages parking lots and their spots, and exposes the
// availability ledger: per-lot available/occupied counts derived live from
// spot statuses. Cached lot lists are read-through with explicit
// invalidation, never the system of record.
type LotService interface {
	CreateLot(ctx context.Context, input CreateLotInput) (*model.LotSummary, error)
	UpdateLot(ctx context.Context, lotID uint, input UpdateLotInput) (*model.LotSummary, error)
	DeleteLot(ctx context.Context, lotID uint) error
	GetLot(ctx context.Context, lotID uint) (*model.LotSummary, error)
	ListLots(ctx context.Context) ([]model.LotSummary, error)
	ListAvailableLots(ctx context.Context) ([]model.LotSummary, error)
	ListSpots(ctx context.Context, lotID uint) ([]SpotDetail, error)
	AvailableCount(ctx context.Context, lotID uint) (int64, error)
	OccupiedCount(ctx context.Context, lotID uint) (int64, error)
}

type lotService struct {
	repos   *repository.Repositories
	tx      repository.TxManager
	cache   cache.Store
	listTTL time.Duration
}

// NewLotService creates a lot service.
func NewLotService(repos *repository.Repositories, tx repository.TxManager, cacheStore cache.Store, listTTL time.Duration) LotService {
	return &lotService{
		repos:   repos,
		tx:      tx,
		cache:   cacheStore,
		listTTL: listTTL,
	}
}

// CreateLot creates a lot and its spots, numbered "P001".."PNNN".
func (s *lotService) CreateLot(ctx context.Context, input CreateLotInput) (*model.LotSummary, error) {
	input.PrimeLocationName = strings.TrimSpace(input.PrimeLocationName)
	input.Address = strings.TrimSpace(input.Address)
	input.PinCode = strings.TrimSpace(input.PinCode)

	if input.PrimeLocationName == "" || input.Address == "" || input.PinCode == "" {
		return nil, errors.ErrInvalidInput
	}
	if input.NumberOfSpots <= 0 {
		return nil, errors.ErrInvalidSpotCount
	}
	if input.Price.LessThanOrEqual(decimal.Zero) {
		return nil, errors.ErrInvalidPrice
	}

	lot := &model.ParkingLot{
		PrimeLocationName: input.PrimeLocationName,
		Address:           input.Address,
		PinCode:           input.PinCode,
		NumberOfSpots:     input.NumberOfSpots,
		Price:             input.Price,
	}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		if err := repos.Lots.Create(ctx, lot); err != nil {
			return fmt.Errorf("create lot: %w", err)
		}
		spots := make([]model.ParkingSpot, 0, input.NumberOfSpots)
		for i := 1; i <= input.NumberOfSpots; i++ {
			spots = append(spots, model.ParkingSpot{
				LotID:      lot.ID,
				SpotNumber: model.FormatSpotNumber(i),
				Status:     model.SpotAvailable,
			})
		}
		if err := repos.Spots.CreateBatch(ctx, spots); err != nil {
			return fmt.Errorf("create spots: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.cache.Delete(ctx, cache.LotListKey())
	_ = s.cache.Delete(ctx, cache.AdminDashboardKey())

	return &model.LotSummary{
		ParkingLot:     *lot,
		AvailableSpots: int64(input.NumberOfSpots),
	}, nil
}

// UpdateLot applies the given changes. A NumberOfSpots change grows the lot
// by appending spots after the current maximum number, or shrinks it by
// removing the highest-numbered spots; a shrink that would remove an
// Occupied spot is rejected. Removing spots leaves historical reservations
// pointing at missing records; their display fields resolve as "Unknown".
func (s *lotService) UpdateLot(ctx context.Context, lotID uint, input UpdateLotInput) (*model.LotSummary, error) {
	lot, err := s.findLot(ctx, lotID)
	if err != nil {
		return nil, err
	}

	if input.PrimeLocationName != nil {
		lot.PrimeLocationName = strings.TrimSpace(*input.PrimeLocationName)
		if lot.PrimeLocationName == "" {
			return nil, errors.ErrInvalidInput
		}
	}
	if input.Address != nil {
		lot.Address = strings.TrimSpace(*input.Address)
	}
	if input.PinCode != nil {
		lot.PinCode = strings.TrimSpace(*input.PinCode)
	}
	if input.Price != nil {
		if input.Price.LessThanOrEqual(decimal.Zero) {
			return nil, errors.ErrInvalidPrice
		}
		lot.Price = *input.Price
	}
	if input.NumberOfSpots != nil && *input.NumberOfSpots <= 0 {
		return nil, errors.ErrInvalidSpotCount
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		if input.NumberOfSpots != nil {
			if err := resizeSpots(ctx, repos, lot, *input.NumberOfSpots); err != nil {
				return err
			}
			lot.NumberOfSpots = *input.NumberOfSpots
		}
		return repos.Lots.Update(ctx, lot)
	})
	if err != nil {
		return nil, err
	}

	cache.InvalidateLot(ctx, s.cache, lotID)

	return s.summarize(ctx, lot)
}

// resizeSpots grows or shrinks a lot's spot set inside an open transaction.
// The spot rows are read locked so a booking committing concurrently cannot
// occupy a spot between the check and the delete.
func resizeSpots(ctx context.Context, repos *repository.Repositories, lot *model.ParkingLot, newCount int) error {
	spots, err := repos.Spots.FindByLotForUpdate(ctx, lot.ID)
	if err != nil {
		return fmt.Errorf("list spots: %w", err)
	}
	current := len(spots)

	switch {
	case newCount < current:
		toRemove := spots[newCount:]
		ids := make([]uint, 0, len(toRemove))
		for _, spot := range toRemove {
			if spot.Status == model.SpotOccupied {
				return errors.ErrHasOccupiedSpots
			}
			ids = append(ids, spot.ID)
		}
		if err := repos.Spots.DeleteByIDs(ctx, ids); err != nil {
			return fmt.Errorf("remove spots: %w", err)
		}
	case newCount > current:
		added := make([]model.ParkingSpot, 0, newCount-current)
		for i := current + 1; i <= newCount; i++ {
			added = append(added, model.ParkingSpot{
				LotID:      lot.ID,
				SpotNumber: model.FormatSpotNumber(i),
				Status:     model.SpotAvailable,
			})
		}
		if err := repos.Spots.CreateBatch(ctx, added); err != nil {
			return fmt.Errorf("add spots: %w", err)
		}
	}
	return nil
}

// DeleteLot removes a lot and all its spots. Rejected while any spot is
// Occupied. Historical reservations keep their spot ids.
func (s *lotService) DeleteLot(ctx context.Context, lotID uint) error {
	if _, err := s.findLot(ctx, lotID); err != nil {
		return err
	}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		// Locked read so a booking cannot occupy a spot under the delete.
		spots, err := repos.Spots.FindByLotForUpdate(ctx, lotID)
		if err != nil {
			return fmt.Errorf("list spots: %w", err)
		}
		for _, spot := range spots {
			if spot.Status == model.SpotOccupied {
				return errors.ErrHasOccupiedSpots
			}
		}
		if err := repos.Spots.DeleteByLot(ctx, lotID); err != nil {
			return fmt.Errorf("delete spots: %w", err)
		}
		if err := repos.Lots.Delete(ctx, lotID); err != nil {
			return fmt.Errorf("delete lot: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	cache.InvalidateLot(ctx, s.cache, lotID)
	return nil
}

func (s *lotService) GetLot(ctx context.Context, lotID uint) (*model.LotSummary, error) {
	lot, err := s.findLot(ctx, lotID)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, lot)
}

// ListLots returns every lot with live availability counts, cached.
func (s *lotService) ListLots(ctx context.Context) ([]model.LotSummary, error) {
	return cache.GetOrCompute(ctx, s.cache, cache.LotListKey(), s.listTTL, func(ctx context.Context) ([]model.LotSummary, error) {
		lots, err := s.repos.Lots.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list lots: %w", err)
		}
		summaries := make([]model.LotSummary, 0, len(lots))
		for i := range lots {
			summary, err := s.summarize(ctx, &lots[i])
			if err != nil {
				return nil, err
			}
			summaries = append(summaries, *summary)
		}
		return summaries, nil
	})
}

// ListAvailableLots returns only the lots with at least one free spot.
func (s *lotService) ListAvailableLots(ctx context.Context) ([]model.LotSummary, error) {
	lots, err := s.ListLots(ctx)
	if err != nil {
		return nil, err
	}
	available := make([]model.LotSummary, 0, len(lots))
	for _, lot := range lots {
		if lot.AvailableSpots > 0 {
			available = append(available, lot)
		}
	}
	return available, nil
}

// ListSpots returns all spots of a lot in spot-number order with their
// current occupants resolved, cached per lot. Book and release drop the key.
func (s *lotService) ListSpots(ctx context.Context, lotID uint) ([]SpotDetail, error) {
	if _, err := s.findLot(ctx, lotID); err != nil {
		return nil, err
	}

	return cache.GetOrCompute(ctx, s.cache, cache.LotSpotsKey(lotID), s.listTTL, func(ctx context.Context) ([]SpotDetail, error) {
		spots, err := s.repos.Spots.FindByLot(ctx, lotID)
		if err != nil {
			return nil, fmt.Errorf("list spots: %w", err)
		}

		details := make([]SpotDetail, 0, len(spots))
		for _, spot := range spots {
			detail := SpotDetail{
				ParkingSpot:   spot,
				StatusDisplay: spot.Status.Display(),
			}
			if spot.Status == model.SpotOccupied {
				if reservation, err := s.repos.Reservations.FindOpenBySpot(ctx, spot.ID); err == nil {
					occupant := &SpotReservation{
						UserID:           reservation.UserID,
						Username:         "Unknown",
						VehicleNumber:    reservation.VehicleNumber,
						ParkingTimestamp: reservation.ParkingTimestamp,
					}
					if user, err := s.repos.Users.FindByID(ctx, reservation.UserID); err == nil {
						occupant.Username = user.Username
					}
					detail.CurrentReservation = occupant
				}
			}
			details = append(details, detail)
		}
		return details, nil
	})
}

// AvailableCount returns the live count of Available spots in the lot.
func (s *lotService) AvailableCount(ctx context.Context, lotID uint) (int64, error) {
	return s.repos.Spots.CountByStatus(ctx, lotID, model.SpotAvailable)
}

// OccupiedCount returns the live count of Occupied spots in the lot.
func (s *lotService) OccupiedCount(ctx context.Context, lotID uint) (int64, error) {
	return s.repos.Spots.CountByStatus(ctx, lotID, model.SpotOccupied)
}

func (s *lotService) findLot(ctx context.Context, lotID uint) (*model.ParkingLot, error) {
	lot, err := s.repos.Lots.FindByID(ctx, lotID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrLotNotFound
		}
		return nil, fmt.Errorf("find lot: %w", err)
	}
	return lot, nil
}

func (s *lotService) summarize(ctx context.Context, lot *model.ParkingLot) (*model.LotSummary, error) {
	available, err := s.repos.Spots.CountByStatus(ctx, lot.ID, model.SpotAvailable)
	if err != nil {
		return nil, fmt.Errorf("count available spots: %w", err)
	}
	occupied, err := s.repos.Spots.CountByStatus(ctx, lot.ID, model.SpotOccupied)
	if err != nil {
		return nil, fmt.Errorf("count occupied spots: %w", err)
	}
	return &model.LotSummary{
		ParkingLot:     *lot,
		AvailableSpots: available,
		OccupiedSpots:  occupied,
	}, nil
}
