// Package activity appends user activity events to the audit log. Appends
// are fire-and-forget: a full queue or a failed insert never fails the
// operation that produced the event.
package activity

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/labstack/gommon/log"

	"github.com/adityar2309/Vehicle-Parking-App/internal/model"
	"github.com/adityar2309/Vehicle-Parking-App/internal/repository"
)

// Recorder is the append-only sink consumed by the services.
type Recorder interface {
	Record(userID uint, activityType string, payload map[string]interface{})
}

// AsyncRecorder buffers events on a channel and persists them from a
// background worker.
type AsyncRecorder struct {
	repo   repository.ActivityRepository
	events chan model.UserActivity
	done   chan struct{}
	once   sync.Once
}

var _ Recorder = (*AsyncRecorder)(nil)

// NewAsyncRecorder creates a recorder and starts its worker.
func NewAsyncRecorder(repo repository.ActivityRepository) *AsyncRecorder {
	r := &AsyncRecorder{
		repo:   repo,
		events: make(chan model.UserActivity, 100),
		done:   make(chan struct{}),
	}
	go r.worker(context.Background())
	return r
}

// Record enqueues one activity event. The payload is serialized to JSON; a
// payload that cannot be serialized is recorded with empty data rather than
// dropped.
func (r *AsyncRecorder) Record(userID uint, activityType string, payload map[string]interface{}) {
	data := ""
	if payload != nil {
		if raw, err := json.Marshal(payload); err == nil {
			data = string(raw)
		}
	}

	event := model.UserActivity{
		UserID:       userID,
		ActivityType: activityType,
		ActivityData: data,
	}

	select {
	case r.events <- event:
	default:
		// Queue full: observability, not correctness. Drop and note it.
		log.Warnf("activity queue full, dropping %s event for user %d", activityType, userID)
	}
}

// Close stops the worker after draining buffered events.
func (r *AsyncRecorder) Close() {
	r.once.Do(func() {
		close(r.events)
		<-r.done
	})
}

func (r *AsyncRecorder) worker(ctx context.Context) {
	defer close(r.done)
	for event := range r.events {
		if err := r.repo.Create(ctx, &event); err != nil {
			log.Warnf("append activity %s for user %d: %v", event.ActivityType, event.UserID, err)
		}
	}
}
