package service

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"

	"github.com/adityar2309/Vehicle-Parking-App/internal/activity"
	"github.com/adityar2309/Vehicle-Parking-App/internal/mail"
	"github.com/adityar2309/Vehicle-Parking-App/internal/model"
	"github.com/adityar2309/Vehicle-Parking-App/internal/repository"
)

const (
	inactiveLoginWindow   = 7 * 24 * time.Hour
	inactiveBookingWindow = 14 * 24 * time.Hour
)

// ReportService runs the scheduled mail jobs: a daily reminder to inactive
// users and a monthly per-user activity report.
type ReportService interface {
	SendDailyReminders(ctx context.Context) (sent, failed int, err error)
	SendMonthlyReports(ctx context.Context) (sent, failed int, err error)
}

type reportService struct {
	repos    *repository.Repositories
	mailer   mail.Mailer
	recorder activity.Recorder
	now      func() time.Time
}

// NewReportService creates a report service.
func NewReportService(repos *repository.Repositories, mailer mail.Mailer, recorder activity.Recorder) ReportService {
	return &reportService{
		repos:    repos,
		mailer:   mailer,
		recorder: recorder,
		now:      time.Now,
	}
}

// SendDailyReminders mails users who have neither logged in for a week nor
// booked for two. Only accounts with an email address are considered.
func (s *reportService) SendDailyReminders(ctx context.Context) (int, int, error) {
	now := s.now()
	users, err := s.repos.Users.FindInactive(ctx, model.RoleUser, now.Add(-inactiveLoginWindow), now.Add(-inactiveBookingWindow))
	if err != nil {
		return 0, 0, fmt.Errorf("find inactive users: %w", err)
	}

	lotCount, err := s.repos.Lots.Count(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("count lots: %w", err)
	}

	sent, failed := 0, 0
	for i := range users {
		user := &users[i]
		body := mail.RenderReminder(mail.ReminderData{
			Username: user.Username,
			LotCount: lotCount,
		})
		if err := s.mailer.Send(user.Email, "We saved you a spot", body); err != nil {
			log.Warnf("reminder to user %d: %v", user.ID, err)
			failed++
			continue
		}
		sent++
		s.recorder.Record(user.ID, model.ActivityReminderSent, map[string]interface{}{
			"type":               "daily_reminder",
			"parking_lots_count": lotCount,
		})
	}

	log.Infof("daily reminder job: %d inactive users, %d sent, %d failed", len(users), sent, failed)
	return sent, failed, nil
}

// SendMonthlyReports mails each user a summary of the previous calendar
// month. Users with no completed reservations in the month are skipped.
func (s *reportService) SendMonthlyReports(ctx context.Context) (int, int, error) {
	users, err := s.repos.Users.FindByRole(ctx, model.RoleUser)
	if err != nil {
		return 0, 0, fmt.Errorf("list users: %w", err)
	}

	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prevStart := monthStart.AddDate(0, -1, 0)

	sent, failed := 0, 0
	for i := range users {
		user := &users[i]
		if user.Email == "" {
			continue
		}

		reservations, err := s.repos.Reservations.ListCompletedByUserBetween(ctx, user.ID, prevStart, monthStart)
		if err != nil {
			log.Warnf("report query for user %d: %v", user.ID, err)
			failed++
			continue
		}
		if len(reservations) == 0 {
			continue
		}

		total := decimal.Zero
		usage := make(map[string]int)
		for j := range reservations {
			if reservations[j].ParkingCost != nil {
				total = total.Add(*reservations[j].ParkingCost)
			}
			if _, lot := resolveSpotAndLot(ctx, s.repos, reservations[j].SpotID); lot != nil {
				usage[lot.PrimeLocationName]++
			}
		}
		mostUsed, best := "", 0
		for name, count := range usage {
			if count > best || (count == best && name < mostUsed) {
				mostUsed, best = name, count
			}
		}

		body := mail.RenderReport(mail.ReportData{
			Username:         user.Username,
			Month:            prevStart.Format("January 2006"),
			ReservationCount: len(reservations),
			TotalSpent:       total.StringFixed(2),
			MostUsedLot:      mostUsed,
		})
		if err := s.mailer.Send(user.Email, "Your monthly parking report", body); err != nil {
			log.Warnf("report to user %d: %v", user.ID, err)
			failed++
			continue
		}
		sent++
		s.recorder.Record(user.ID, model.ActivityReportSent, map[string]interface{}{
			"month":        prevStart.Format("2006-01"),
			"reservations": len(reservations),
			"total_spent":  total.InexactFloat64(),
		})
	}

	log.Infof("monthly report job: %d sent, %d failed", sent, failed)
	return sent, failed, nil
}
