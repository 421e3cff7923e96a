package service

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/adityar2309/Vehicle-Parking-App/internal/model"
	"github.com/adityar2309/Vehicle-Parking-App/internal/repository"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	args := m.Called(ctx, role)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) TouchLastLogin(ctx context.Context, id uint, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockUserRepository) TouchLastBooking(ctx context.Context, id uint, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockUserRepository) FindInactive(ctx context.Context, role string, loginBefore, bookingBefore time.Time) ([]model.User, error) {
	args := m.Called(ctx, role, loginBefore, bookingBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) FindByRole(ctx context.Context, role string) ([]model.User, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

// MockLotRepository is a mock implementation of LotRepository.
type MockLotRepository struct {
	mock.Mock
}

func (m *MockLotRepository) Create(ctx context.Context, lot *model.ParkingLot) error {
	args := m.Called(ctx, lot)
	return args.Error(0)
}

func (m *MockLotRepository) Update(ctx context.Context, lot *model.ParkingLot) error {
	args := m.Called(ctx, lot)
	return args.Error(0)
}

func (m *MockLotRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLotRepository) FindByID(ctx context.Context, id uint) (*model.ParkingLot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ParkingLot), args.Error(1)
}

func (m *MockLotRepository) List(ctx context.Context) ([]model.ParkingLot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ParkingLot), args.Error(1)
}

func (m *MockLotRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockSpotRepository is a mock implementation of SpotRepository.
type MockSpotRepository struct {
	mock.Mock
}

func (m *MockSpotRepository) CreateBatch(ctx context.Context, spots []model.ParkingSpot) error {
	args := m.Called(ctx, spots)
	return args.Error(0)
}

func (m *MockSpotRepository) FindByID(ctx context.Context, id uint) (*model.ParkingSpot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ParkingSpot), args.Error(1)
}

func (m *MockSpotRepository) FindByLot(ctx context.Context, lotID uint) ([]model.ParkingSpot, error) {
	args := m.Called(ctx, lotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ParkingSpot), args.Error(1)
}

func (m *MockSpotRepository) FindByLotForUpdate(ctx context.Context, lotID uint) ([]model.ParkingSpot, error) {
	args := m.Called(ctx, lotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ParkingSpot), args.Error(1)
}

func (m *MockSpotRepository) FindFirstAvailableForUpdate(ctx context.Context, lotID uint) (*model.ParkingSpot, error) {
	args := m.Called(ctx, lotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ParkingSpot), args.Error(1)
}

func (m *MockSpotRepository) UpdateStatus(ctx context.Context, id uint, from, to model.SpotStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockSpotRepository) CountByStatus(ctx context.Context, lotID uint, status model.SpotStatus) (int64, error) {
	args := m.Called(ctx, lotID, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSpotRepository) CountAllByStatus(ctx context.Context, status model.SpotStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSpotRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSpotRepository) DeleteByIDs(ctx context.Context, ids []uint) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

func (m *MockSpotRepository) DeleteByLot(ctx context.Context, lotID uint) error {
	args := m.Called(ctx, lotID)
	return args.Error(0)
}

// MockReservationRepository is a mock implementation of ReservationRepository.
type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}

func (m *MockReservationRepository) FindByID(ctx context.Context, id uint) (*model.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Reservation), args.Error(1)
}

func (m *MockReservationRepository) FindOpenByUser(ctx context.Context, userID uint) (*model.Reservation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Reservation), args.Error(1)
}

func (m *MockReservationRepository) FindOpenBySpot(ctx context.Context, spotID uint) (*model.Reservation, error) {
	args := m.Called(ctx, spotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Reservation), args.Error(1)
}

func (m *MockReservationRepository) Close(ctx context.Context, id uint, leavingAt time.Time, cost decimal.Decimal) (bool, error) {
	args := m.Called(ctx, id, leavingAt, cost)
	return args.Bool(0), args.Error(1)
}

func (m *MockReservationRepository) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]model.Reservation, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Reservation), args.Error(1)
}

func (m *MockReservationRepository) ListAllByUser(ctx context.Context, userID uint) ([]model.Reservation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Reservation), args.Error(1)
}

func (m *MockReservationRepository) ListCompletedByUserBetween(ctx context.Context, userID uint, from, to time.Time) ([]model.Reservation, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Reservation), args.Error(1)
}

func (m *MockReservationRepository) ListRecent(ctx context.Context, limit int) ([]model.Reservation, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Reservation), args.Error(1)
}

func (m *MockReservationRepository) ListRecentByUser(ctx context.Context, userID uint, limit int) ([]model.Reservation, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Reservation), args.Error(1)
}

func (m *MockReservationRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReservationRepository) CountCompletedByUser(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReservationRepository) SumCompletedCostByUser(ctx context.Context, userID uint) (decimal.Decimal, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockReservationRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReservationRepository) CountOpen(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReservationRepository) SumCompletedCost(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockActivityRepository is a mock implementation of ActivityRepository.
type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) Create(ctx context.Context, activity *model.UserActivity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func (m *MockActivityRepository) ListByUser(ctx context.Context, userID uint, activityType string, offset, limit int) ([]model.UserActivity, error) {
	args := m.Called(ctx, userID, activityType, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UserActivity), args.Error(1)
}

func (m *MockActivityRepository) CountByUser(ctx context.Context, userID uint, activityType string) (int64, error) {
	args := m.Called(ctx, userID, activityType)
	return args.Get(0).(int64), args.Error(1)
}

// MockExportJobRepository is a mock implementation of ExportJobRepository.
type MockExportJobRepository struct {
	mock.Mock
}

func (m *MockExportJobRepository) Create(ctx context.Context, job *model.ExportJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockExportJobRepository) Update(ctx context.Context, job *model.ExportJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockExportJobRepository) FindByJobID(ctx context.Context, jobID string, userID uint) (*model.ExportJob, error) {
	args := m.Called(ctx, jobID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ExportJob), args.Error(1)
}

func (m *MockExportJobRepository) FindPendingByUser(ctx context.Context, userID uint) (*model.ExportJob, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ExportJob), args.Error(1)
}

func (m *MockExportJobRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]model.ExportJob, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ExportJob), args.Error(1)
}

func (m *MockExportJobRepository) MarkCancelled(ctx context.Context, id uint, completedAt time.Time, reason string) (bool, error) {
	args := m.Called(ctx, id, completedAt, reason)
	return args.Bool(0), args.Error(1)
}

func (m *MockExportJobRepository) FindExpiredCompleted(ctx context.Context, before time.Time) ([]model.ExportJob, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ExportJob), args.Error(1)
}

// testRepos bundles fresh mocks for one test case.
type testRepos struct {
	users        *MockUserRepository
	lots         *MockLotRepository
	spots        *MockSpotRepository
	reservations *MockReservationRepository
	activities   *MockActivityRepository
	exportJobs   *MockExportJobRepository
	bundle       *repository.Repositories
}

func newTestRepos() *testRepos {
	r := &testRepos{
		users:        new(MockUserRepository),
		lots:         new(MockLotRepository),
		spots:        new(MockSpotRepository),
		reservations: new(MockReservationRepository),
		activities:   new(MockActivityRepository),
		exportJobs:   new(MockExportJobRepository),
	}
	r.bundle = &repository.Repositories{
		Users:        r.users,
		Lots:         r.lots,
		Spots:        r.spots,
		Reservations: r.reservations,
		Activities:   r.activities,
		ExportJobs:   r.exportJobs,
	}
	return r
}

func (r *testRepos) assertExpectations(t mock.TestingT) {
	r.users.AssertExpectations(t)
	r.lots.AssertExpectations(t)
	r.spots.AssertExpectations(t)
	r.reservations.AssertExpectations(t)
	r.activities.AssertExpectations(t)
	r.exportJobs.AssertExpectations(t)
}

// passthroughTxManager runs the transactional function against the same
// mock bundle, with no real transaction underneath.
type passthroughTxManager struct {
	repos *repository.Repositories
}

func (m *passthroughTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context, repos *repository.Repositories) error) error {
	return fn(ctx, m.repos)
}

// recordedEvent is one call captured by the recorder stub.
type recordedEvent struct {
	UserID  uint
	Type    string
	Payload map[string]interface{}
}

// stubRecorder captures activity events synchronously.
type stubRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *stubRecorder) Record(userID uint, activityType string, payload map[string]interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{UserID: userID, Type: activityType, Payload: payload})
}

func (r *stubRecorder) byType(activityType string) []recordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []recordedEvent
	for _, e := range r.events {
		if e.Type == activityType {
			out = append(out, e)
		}
	}
	return out
}
