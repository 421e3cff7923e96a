package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/adityar2309/Vehicle-Parking-App/internal/model"
)

type sentMail struct {
	To      string
	Subject string
	Body    string
}

// capturingMailer records sends and can fail for chosen recipients.
type capturingMailer struct {
	mu      sync.Mutex
	sent    []sentMail
	failFor map[string]error
}

func (m *capturingMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failFor[to]; ok {
		return err
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func newTestReportService(repos *testRepos, mailer *capturingMailer, recorder *stubRecorder, at time.Time) *reportService {
	svc := NewReportService(repos.bundle, mailer, recorder).(*reportService)
	svc.now = func() time.Time { return at }
	return svc
}

func TestReportService_SendDailyReminders(t *testing.T) {
	now := time.Date(2025, 6, 15, 18, 0, 0, 0, time.UTC)

	t.Run("mails every inactive user", func(t *testing.T) {
		repos := newTestRepos()
		repos.users.On("FindInactive", mock.Anything, model.RoleUser, now.Add(-7*24*time.Hour), now.Add(-14*24*time.Hour)).Return([]model.User{
			{ID: 1, Username: "alice", Email: "alice@example.com"},
			{ID: 2, Username: "bob", Email: "bob@example.com"},
		}, nil)
		repos.lots.On("Count", mock.Anything).Return(int64(3), nil)

		mailer := &capturingMailer{}
		recorder := &stubRecorder{}
		svc := newTestReportService(repos, mailer, recorder, now)

		sent, failed, err := svc.SendDailyReminders(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 2, sent)
		assert.Equal(t, 0, failed)
		if assert.Len(t, mailer.sent, 2) {
			assert.Equal(t, "alice@example.com", mailer.sent[0].To)
			assert.Contains(t, mailer.sent[0].Body, "alice")
			assert.Contains(t, mailer.sent[0].Body, "3 parking lots")
		}
		assert.Len(t, recorder.byType(model.ActivityReminderSent), 2)
		repos.assertExpectations(t)
	})

	t.Run("a delivery failure does not stop the run", func(t *testing.T) {
		repos := newTestRepos()
		repos.users.On("FindInactive", mock.Anything, model.RoleUser, mock.Anything, mock.Anything).Return([]model.User{
			{ID: 1, Username: "alice", Email: "alice@example.com"},
			{ID: 2, Username: "bob", Email: "bob@example.com"},
		}, nil)
		repos.lots.On("Count", mock.Anything).Return(int64(3), nil)

		mailer := &capturingMailer{failFor: map[string]error{"alice@example.com": assert.AnError}}
		recorder := &stubRecorder{}
		svc := newTestReportService(repos, mailer, recorder, now)

		sent, failed, err := svc.SendDailyReminders(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 1, sent)
		assert.Equal(t, 1, failed)
		assert.Len(t, recorder.byType(model.ActivityReminderSent), 1)
	})
}

func TestReportService_SendMonthlyReports(t *testing.T) {
	now := time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)
	monthStart := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	prevStart := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	costA := decimal.RequireFromString("8.00")
	costB := decimal.RequireFromString("4.50")

	repos := newTestRepos()
	repos.users.On("FindByRole", mock.Anything, model.RoleUser).Return([]model.User{
		{ID: 1, Username: "alice", Email: "alice@example.com"},
		{ID: 2, Username: "bob", Email: "bob@example.com"},
		{ID: 3, Username: "carol"},
	}, nil)
	repos.reservations.On("ListCompletedByUserBetween", mock.Anything, uint(1), prevStart, monthStart).Return([]model.Reservation{
		{ID: 11, SpotID: 7, ParkingCost: &costA},
		{ID: 12, SpotID: 7, ParkingCost: &costB},
	}, nil)
	repos.reservations.On("ListCompletedByUserBetween", mock.Anything, uint(2), prevStart, monthStart).Return([]model.Reservation{}, nil)
	repos.spots.On("FindByID", mock.Anything, uint(7)).Return(&model.ParkingSpot{ID: 7, LotID: 3, SpotNumber: "P001"}, nil)
	repos.lots.On("FindByID", mock.Anything, uint(3)).Return(&model.ParkingLot{ID: 3, PrimeLocationName: "Demo Lot"}, nil)

	mailer := &capturingMailer{}
	recorder := &stubRecorder{}
	svc := newTestReportService(repos, mailer, recorder, now)

	sent, failed, err := svc.SendMonthlyReports(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, 0, failed)

	if assert.Len(t, mailer.sent, 1) {
		body := mailer.sent[0].Body
		assert.Equal(t, "alice@example.com", mailer.sent[0].To)
		assert.Contains(t, body, "May 2025")
		assert.Contains(t, body, "Reservations completed: 2")
		assert.Contains(t, body, "$12.50")
		assert.Contains(t, body, "Demo Lot")
		assert.False(t, strings.Contains(body, "bob"))
	}

	events := recorder.byType(model.ActivityReportSent)
	if assert.Len(t, events, 1) {
		assert.Equal(t, uint(1), events[0].UserID)
		assert.Equal(t, "2025-05", events[0].Payload["month"])
		assert.Equal(t, 2, events[0].Payload["reservations"])
	}
	repos.assertExpectations(t)
}
