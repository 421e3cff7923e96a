package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/adityar2309/Vehicle-Parking-App/internal/cache"
	"github.com/adityar2309/Vehicle-Parking-App/internal/errors"
	"github.com/adityar2309/Vehicle-Parking-App/internal/model"
	"github.com/adityar2309/Vehicle-Parking-App/internal/repository"
)

// UserStats summarizes one user's parking history.
type UserStats struct {
	TotalReservations     int64   `json:"total_reservations"`
	CompletedReservations int64   `json:"completed_reservations"`
	ActiveReservations    int64   `json:"active_reservations"`
	TotalSpent            float64 `json:"total_spent"`
	MostUsedLot           string  `json:"most_used_lot,omitempty"`
}

// UserDashboard is the per-user dashboard payload.
type UserDashboard struct {
	UserStats          UserStats                 `json:"user_stats"`
	CurrentReservation *model.ReservationDetail  `json:"current_reservation"`
	RecentReservations []model.ReservationDetail `json:"recent_reservations"`
	AvailableLotsCount int64                     `json:"available_lots_count"`
}

// AdminDashboard aggregates system-wide statistics.
type AdminDashboard struct {
	Users struct {
		TotalUsers  int64 `json:"total_users"`
		TotalAdmins int64 `json:"total_admins"`
		Total       int64 `json:"total"`
	} `json:"users"`
	Parking struct {
		TotalLots      int64   `json:"total_lots"`
		TotalSpots     int64   `json:"total_spots"`
		OccupiedSpots  int64   `json:"occupied_spots"`
		AvailableSpots int64   `json:"available_spots"`
		OccupancyRate  float64 `json:"occupancy_rate"`
	} `json:"parking"`
	Reservations struct {
		Total        int64   `json:"total_reservations"`
		Active       int64   `json:"active_reservations"`
		Completed    int64   `json:"completed_reservations"`
		TotalRevenue float64 `json:"total_revenue"`
	} `json:"reservations"`
	RecentReservations []model.ReservationDetail `json:"recent_reservations"`
}

// ActivityPage is one page of a user's activity history.
type ActivityPage struct {
	Activities []model.UserActivity `json:"activities"`
	Total      int64                `json:"total"`
}

// UserService exposes user reads, dashboards and activity history.
type UserService interface {
	GetUser(ctx context.Context, id uint) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UserDashboard(ctx context.Context, userID uint) (*UserDashboard, error)
	AdminDashboard(ctx context.Context) (*AdminDashboard, error)
	ListActivity(ctx context.Context, userID uint, activityType string, page, pageSize int) (*ActivityPage, error)
}

type userService struct {
	repos        *repository.Repositories
	cache        cache.Store
	dashboardTTL time.Duration
}

// NewUserService builds a UserService with the repository bundle and cache.
func NewUserService(repos *repository.Repositories, cacheStore cache.Store, dashboardTTL time.Duration) UserService {
	return &userService{repos: repos, cache: cacheStore, dashboardTTL: dashboardTTL}
}

func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.repos.Users.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repos.Users.List(ctx)
}

// UserDashboard computes per-user statistics. The most-used lot is derived
// by scanning the user's reservations; fine at this scale, revisit with an
// aggregate query if histories grow large.
func (s *userService) UserDashboard(ctx context.Context, userID uint) (*UserDashboard, error) {
	return cache.GetOrCompute(ctx, s.cache, cache.UserDashboardKey(userID), s.dashboardTTL, func(ctx context.Context) (*UserDashboard, error) {
		total, err := s.repos.Reservations.CountByUser(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("count reservations: %w", err)
		}
		completed, err := s.repos.Reservations.CountCompletedByUser(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("count completed reservations: %w", err)
		}
		spent, err := s.repos.Reservations.SumCompletedCostByUser(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("sum cost: %w", err)
		}

		dashboard := &UserDashboard{
			UserStats: UserStats{
				TotalReservations:     total,
				CompletedReservations: completed,
				TotalSpent:            spent.InexactFloat64(),
			},
			RecentReservations: []model.ReservationDetail{},
		}

		if open, err := s.repos.Reservations.FindOpenByUser(ctx, userID); err == nil {
			detail := resolveReservationDetail(ctx, s.repos, open)
			dashboard.CurrentReservation = &detail
			dashboard.UserStats.ActiveReservations = 1
		}

		recent, err := s.repos.Reservations.ListRecentByUser(ctx, userID, 5)
		if err != nil {
			return nil, fmt.Errorf("list recent reservations: %w", err)
		}
		for i := range recent {
			dashboard.RecentReservations = append(dashboard.RecentReservations, resolveReservationDetail(ctx, s.repos, &recent[i]))
		}

		if total > 0 {
			dashboard.UserStats.MostUsedLot = s.mostUsedLot(ctx, userID)
		}

		lotCount, err := s.repos.Lots.Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("count lots: %w", err)
		}
		dashboard.AvailableLotsCount = lotCount

		return dashboard, nil
	})
}

func (s *userService) mostUsedLot(ctx context.Context, userID uint) string {
	reservations, err := s.repos.Reservations.ListAllByUser(ctx, userID)
	if err != nil {
		return ""
	}
	usage := make(map[string]int)
	for i := range reservations {
		_, lot := resolveSpotAndLot(ctx, s.repos, reservations[i].SpotID)
		if lot != nil {
			usage[lot.PrimeLocationName]++
		}
	}
	best, bestCount := "", 0
	for name, count := range usage {
		if count > bestCount || (count == bestCount && name < best) {
			best, bestCount = name, count
		}
	}
	return best
}

// AdminDashboard computes system-wide statistics, cached.
func (s *userService) AdminDashboard(ctx context.Context) (*AdminDashboard, error) {
	return cache.GetOrCompute(ctx, s.cache, cache.AdminDashboardKey(), s.dashboardTTL, func(ctx context.Context) (*AdminDashboard, error) {
		dashboard := &AdminDashboard{RecentReservations: []model.ReservationDetail{}}

		var err error
		if dashboard.Users.TotalUsers, err = s.repos.Users.CountByRole(ctx, model.RoleUser); err != nil {
			return nil, fmt.Errorf("count users: %w", err)
		}
		if dashboard.Users.TotalAdmins, err = s.repos.Users.CountByRole(ctx, model.RoleAdmin); err != nil {
			return nil, fmt.Errorf("count admins: %w", err)
		}
		dashboard.Users.Total = dashboard.Users.TotalUsers + dashboard.Users.TotalAdmins

		if dashboard.Parking.TotalLots, err = s.repos.Lots.Count(ctx); err != nil {
			return nil, fmt.Errorf("count lots: %w", err)
		}
		if dashboard.Parking.TotalSpots, err = s.repos.Spots.Count(ctx); err != nil {
			return nil, fmt.Errorf("count spots: %w", err)
		}
		if dashboard.Parking.OccupiedSpots, err = s.repos.Spots.CountAllByStatus(ctx, model.SpotOccupied); err != nil {
			return nil, fmt.Errorf("count occupied spots: %w", err)
		}
		if dashboard.Parking.AvailableSpots, err = s.repos.Spots.CountAllByStatus(ctx, model.SpotAvailable); err != nil {
			return nil, fmt.Errorf("count available spots: %w", err)
		}
		if dashboard.Parking.TotalSpots > 0 {
			rate := float64(dashboard.Parking.OccupiedSpots) / float64(dashboard.Parking.TotalSpots) * 100
			dashboard.Parking.OccupancyRate = roundHours(rate)
		}

		if dashboard.Reservations.Total, err = s.repos.Reservations.Count(ctx); err != nil {
			return nil, fmt.Errorf("count reservations: %w", err)
		}
		if dashboard.Reservations.Active, err = s.repos.Reservations.CountOpen(ctx); err != nil {
			return nil, fmt.Errorf("count open reservations: %w", err)
		}
		dashboard.Reservations.Completed = dashboard.Reservations.Total - dashboard.Reservations.Active

		revenue, err := s.repos.Reservations.SumCompletedCost(ctx)
		if err != nil {
			return nil, fmt.Errorf("sum revenue: %w", err)
		}
		dashboard.Reservations.TotalRevenue = revenue.InexactFloat64()

		recent, err := s.repos.Reservations.ListRecent(ctx, 5)
		if err != nil {
			return nil, fmt.Errorf("list recent reservations: %w", err)
		}
		for i := range recent {
			dashboard.RecentReservations = append(dashboard.RecentReservations, resolveReservationDetail(ctx, s.repos, &recent[i]))
		}

		return dashboard, nil
	})
}

// ListActivity pages through a user's activity history, optionally filtered
// by activity type.
func (s *userService) ListActivity(ctx context.Context, userID uint, activityType string, page, pageSize int) (*ActivityPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	activities, err := s.repos.Activities.ListByUser(ctx, userID, activityType, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	total, err := s.repos.Activities.CountByUser(ctx, userID, activityType)
	if err != nil {
		return nil, fmt.Errorf("count activity: %w", err)
	}
	return &ActivityPage{Activities: activities, Total: total}, nil
}
