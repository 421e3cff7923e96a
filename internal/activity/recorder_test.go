package activity

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/adityar2309/Vehicle-Parking-App/internal/model"
)

type mockActivityRepo struct {
	mock.Mock
}

func (m *mockActivityRepo) Create(ctx context.Context, activity *model.UserActivity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func (m *mockActivityRepo) ListByUser(ctx context.Context, userID uint, activityType string, offset, limit int) ([]model.UserActivity, error) {
	args := m.Called(ctx, userID, activityType, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UserActivity), args.Error(1)
}

func (m *mockActivityRepo) CountByUser(ctx context.Context, userID uint, activityType string) (int64, error) {
	args := m.Called(ctx, userID, activityType)
	return args.Get(0).(int64), args.Error(1)
}

func TestAsyncRecorder_PersistsEvents(t *testing.T) {
	repo := new(mockActivityRepo)
	var saved []model.UserActivity
	repo.On("Create", mock.Anything, mock.AnythingOfType("*model.UserActivity")).Run(func(args mock.Arguments) {
		saved = append(saved, *args.Get(1).(*model.UserActivity))
	}).Return(nil)

	recorder := NewAsyncRecorder(repo)
	recorder.Record(1, model.ActivityBookingCreated, map[string]interface{}{"lot_id": 3})
	recorder.Record(1, model.ActivityBookingCompleted, nil)
	recorder.Close()

	if assert.Len(t, saved, 2) {
		assert.Equal(t, model.ActivityBookingCreated, saved[0].ActivityType)

		var payload map[string]interface{}
		assert.NoError(t, json.Unmarshal([]byte(saved[0].ActivityData), &payload))
		assert.Equal(t, float64(3), payload["lot_id"])

		assert.Empty(t, saved[1].ActivityData)
	}
	repo.AssertExpectations(t)
}

func TestAsyncRecorder_CloseIsIdempotent(t *testing.T) {
	repo := new(mockActivityRepo)
	recorder := NewAsyncRecorder(repo)
	recorder.Close()
	recorder.Close()
}
